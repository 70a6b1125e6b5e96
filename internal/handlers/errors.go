package handlers

import (
	"errors"
	"net/http"
	"strings"

	"cryptofunds/internal/logger"
	"cryptofunds/internal/services"
	"cryptofunds/internal/utils/helpers"

	"go.uber.org/zap"
)

// writeServiceError переводит ошибку сервиса в HTTP-статус.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	log := logger.WithCtx(r.Context())

	switch {
	case errors.Is(err, services.ErrNotFound):
		helpers.Error(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, services.ErrValidation):
		helpers.Error(w, http.StatusBadRequest, publicMessage(err))
	case errors.Is(err, services.ErrConflict):
		helpers.Error(w, http.StatusConflict, err.Error())
	default:
		log.Error("Внутренняя ошибка", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

// publicMessage оставляет текст ошибки валидации без служебного префикса.
func publicMessage(err error) string {
	return strings.Replace(err.Error(), services.ErrValidation.Error()+": ", "", 1)
}
