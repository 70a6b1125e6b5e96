package handlers

import (
	"encoding/json"
	"net/http"

	"cryptofunds/internal/logger"
	"cryptofunds/internal/models"
	"cryptofunds/internal/services"
	"cryptofunds/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type SectionHandler struct {
	service services.SectionService
}

func NewSectionHandler(service services.SectionService) *SectionHandler {
	return &SectionHandler{service: service}
}

// GetComposedSection godoc
// @Summary Раздел с подставленными таблицами
// @Tags sections
// @Produce json
// @Param id path int true "ID раздела"
// @Success 200 {object} models.ComposedSection
// @Failure 404 {object} helpers.Response
// @Router /api/sections/{id} [get]
func (h *SectionHandler) GetComposedSection(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(mux.Vars(r)["id"])
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	sec, err := h.service.Composed(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Раздел не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, sec)
}

// GetSection godoc
// @Summary Раздел в исходном виде для редактора (только admin)
// @Tags admin-sections
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID раздела"
// @Success 200 {object} models.Section
// @Failure 404 {object} helpers.Response
// @Router /api/admin/sections/{id} [get]
func (h *SectionHandler) GetSection(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(mux.Vars(r)["id"])
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	sec, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err, "Раздел не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, sec)
}

// CreateSection godoc
// @Summary Создать раздел с таблицами (только admin)
// @Tags admin-sections
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.SectionRequest true "Раздел и таблицы"
// @Success 201 {object} models.Section
// @Failure 400 {object} helpers.Response
// @Router /api/admin/sections [post]
func (h *SectionHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSection(w, r)
	if !ok {
		return
	}

	sec, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Раздел не найден")
		return
	}
	helpers.JSON(w, http.StatusCreated, sec)
}

// UpdateSection godoc
// @Summary Заменить раздел целиком (только admin)
// @Description Таблицы раздела удаляются и создаются заново из присланного списка.
// @Tags admin-sections
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID раздела"
// @Param input body models.SectionRequest true "Раздел и таблицы"
// @Success 200 {object} models.Section
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/sections/{id} [put]
func (h *SectionHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(mux.Vars(r)["id"])
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}
	req, ok := decodeSection(w, r)
	if !ok {
		return
	}

	sec, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, "Раздел не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, sec)
}

// DeleteSection godoc
// @Summary Удалить раздел (только admin)
// @Tags admin-sections
// @Security ApiKeyAuth
// @Param id path int true "ID раздела"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/sections/{id} [delete]
func (h *SectionHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(mux.Vars(r)["id"])
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Раздел не найден")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewSection godoc
// @Summary Предпросмотр раздела без сохранения (только admin)
// @Tags admin-sections
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.SectionRequest true "Раздел и таблицы"
// @Success 200 {object} models.ComposedSection
// @Failure 400 {object} helpers.Response
// @Router /api/admin/sections/preview [post]
func (h *SectionHandler) PreviewSection(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeSection(w, r)
	if !ok {
		return
	}

	out, err := h.service.Preview(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Раздел не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, out)
}

func decodeSection(w http.ResponseWriter, r *http.Request) (models.SectionRequest, bool) {
	var req models.SectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON раздела", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return req, false
	}
	return req, true
}
