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

type PageHandler struct {
	service services.PageService
}

func NewPageHandler(service services.PageService) *PageHandler {
	return &PageHandler{service: service}
}

// ListPages godoc
// @Summary Список активных страниц
// @Tags pages
// @Produce json
// @Param limit query int false "Лимит (по умолчанию 20)"
// @Param offset query int false "Смещение"
// @Success 200 {array} models.Page
// @Router /api/pages [get]
func (h *PageHandler) ListPages(w http.ResponseWriter, r *http.Request) {
	f := services.NormalizeFilter(models.ListFilter{
		Limit:  helpers.QueryInt(r, "limit", 0),
		Offset: helpers.QueryInt(r, "offset", 0),
	})

	list, err := h.service.List(r.Context(), f.Limit, f.Offset, true)
	if err != nil {
		writeServiceError(w, r, err, "Страницы не найдены")
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// GetPublicPage godoc
// @Summary Страница с разделами и оглавлением
// @Description Таблицы подставлены в описания разделов по плейсхолдерам с идентификатором таблицы, остальные возвращаются списком.
// @Tags pages
// @Produce json
// @Param slug path string true "Slug страницы"
// @Success 200 {object} models.PublicPage
// @Failure 404 {object} helpers.Response
// @Router /api/pages/{slug} [get]
func (h *PageHandler) GetPublicPage(w http.ResponseWriter, r *http.Request) {
	pageSlug := mux.Vars(r)["slug"]

	page, err := h.service.PublicPage(r.Context(), pageSlug)
	if err != nil {
		writeServiceError(w, r, err, "Страница не найдена")
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// CreatePage godoc
// @Summary Создать страницу (только admin)
// @Tags admin-pages
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.PageRequest true "Данные страницы"
// @Success 201 {object} models.Page
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/pages [post]
func (h *PageHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req models.PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при создании страницы", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	page, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Страница не найдена")
		return
	}
	helpers.JSON(w, http.StatusCreated, page)
}

// UpdatePage godoc
// @Summary Обновить страницу (только admin)
// @Tags admin-pages
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID страницы"
// @Param input body models.PageRequest true "Новые данные"
// @Success 200 {object} models.Page
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/pages/{id} [patch]
func (h *PageHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(mux.Vars(r)["id"])
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	var req models.PageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON при обновлении страницы", zap.Int64("id", id), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return
	}

	page, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, "Страница не найдена")
		return
	}
	helpers.JSON(w, http.StatusOK, page)
}

// DeletePage godoc
// @Summary Удалить страницу вместе с разделами (только admin)
// @Tags admin-pages
// @Security ApiKeyAuth
// @Param id path int true "ID страницы"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/pages/{id} [delete]
func (h *PageHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, ok := helpers.PathID(mux.Vars(r)["id"])
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Страница не найдена")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
