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

type DirectoryHandler struct {
	service services.DirectoryService
}

func NewDirectoryHandler(service services.DirectoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

func listFilter(r *http.Request) models.ListFilter {
	return models.ListFilter{
		Limit:      helpers.QueryInt(r, "limit", 0),
		Offset:     helpers.QueryInt(r, "offset", 0),
		Query:      r.URL.Query().Get("q"),
		OnlyActive: true,
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		logger.WithCtx(r.Context()).Warn("Невалидный JSON", zap.String("path", r.URL.Path), zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "Невалидный JSON")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := helpers.PathID(mux.Vars(r)["id"])
	if !ok {
		helpers.Error(w, http.StatusBadRequest, "Некорректный ID")
	}
	return id, ok
}

// ListProjects godoc
// @Summary Каталог проектов
// @Tags projects
// @Produce json
// @Param q query string false "Поиск по названию"
// @Param limit query int false "Лимит (по умолчанию 20, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {array} models.Project
// @Router /api/projects [get]
func (h *DirectoryHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListProjects(r.Context(), listFilter(r))
	if err != nil {
		writeServiceError(w, r, err, "Проекты не найдены")
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// GetProject godoc
// @Summary Карточка проекта с раундами
// @Tags projects
// @Produce json
// @Param slug path string true "Slug проекта"
// @Success 200 {object} models.ProjectDetails
// @Failure 404 {object} helpers.Response
// @Router /api/projects/{slug} [get]
func (h *DirectoryHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.ProjectDetails(r.Context(), mux.Vars(r)["slug"], true)
	if err != nil {
		writeServiceError(w, r, err, "Проект не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, d)
}

// CreateProject godoc
// @Summary Создать проект (только admin)
// @Tags admin-projects
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.ProjectRequest true "Данные проекта"
// @Success 201 {object} models.Project
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/projects [post]
func (h *DirectoryHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req models.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.service.CreateProject(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Проект не найден")
		return
	}
	helpers.JSON(w, http.StatusCreated, p)
}

// UpdateProject godoc
// @Summary Обновить проект (только admin)
// @Tags admin-projects
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID проекта"
// @Param input body models.ProjectRequest true "Данные проекта"
// @Success 200 {object} models.Project
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/projects/{id} [patch]
func (h *DirectoryHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.service.UpdateProject(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, "Проект не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}

// DeleteProject godoc
// @Summary Удалить проект вместе с раундами (только admin)
// @Tags admin-projects
// @Security ApiKeyAuth
// @Param id path int true "ID проекта"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/projects/{id} [delete]
func (h *DirectoryHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Проект не найден")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListInvestors godoc
// @Summary Каталог инвесторов
// @Tags investors
// @Produce json
// @Param q query string false "Поиск по названию"
// @Param limit query int false "Лимит"
// @Param offset query int false "Смещение"
// @Success 200 {array} models.Investor
// @Router /api/investors [get]
func (h *DirectoryHandler) ListInvestors(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListInvestors(r.Context(), listFilter(r))
	if err != nil {
		writeServiceError(w, r, err, "Инвесторы не найдены")
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// GetInvestor godoc
// @Summary Карточка инвестора с раундами
// @Tags investors
// @Produce json
// @Param slug path string true "Slug инвестора"
// @Success 200 {object} models.InvestorDetails
// @Failure 404 {object} helpers.Response
// @Router /api/investors/{slug} [get]
func (h *DirectoryHandler) GetInvestor(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.InvestorDetails(r.Context(), mux.Vars(r)["slug"], true)
	if err != nil {
		writeServiceError(w, r, err, "Инвестор не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, d)
}

// CreateInvestor godoc
// @Summary Создать инвестора (только admin)
// @Tags admin-investors
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.InvestorRequest true "Данные инвестора"
// @Success 201 {object} models.Investor
// @Failure 400 {object} helpers.Response
// @Failure 409 {object} helpers.Response
// @Router /api/admin/investors [post]
func (h *DirectoryHandler) CreateInvestor(w http.ResponseWriter, r *http.Request) {
	var req models.InvestorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.service.CreateInvestor(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Инвестор не найден")
		return
	}
	helpers.JSON(w, http.StatusCreated, inv)
}

// UpdateInvestor godoc
// @Summary Обновить инвестора (только admin)
// @Tags admin-investors
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID инвестора"
// @Param input body models.InvestorRequest true "Данные инвестора"
// @Success 200 {object} models.Investor
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/investors/{id} [patch]
func (h *DirectoryHandler) UpdateInvestor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.InvestorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	inv, err := h.service.UpdateInvestor(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, "Инвестор не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, inv)
}

// DeleteInvestor godoc
// @Summary Удалить инвестора (только admin)
// @Tags admin-investors
// @Security ApiKeyAuth
// @Param id path int true "ID инвестора"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/investors/{id} [delete]
func (h *DirectoryHandler) DeleteInvestor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteInvestor(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Инвестор не найден")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateRound godoc
// @Summary Добавить раунд финансирования (только admin)
// @Tags admin-rounds
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.FundingRoundRequest true "Данные раунда"
// @Success 201 {object} models.FundingRound
// @Failure 400 {object} helpers.Response
// @Router /api/admin/rounds [post]
func (h *DirectoryHandler) CreateRound(w http.ResponseWriter, r *http.Request) {
	var req models.FundingRoundRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fr, err := h.service.CreateRound(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "Раунд не найден")
		return
	}
	helpers.JSON(w, http.StatusCreated, fr)
}

// UpdateRound godoc
// @Summary Обновить раунд (только admin)
// @Tags admin-rounds
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID раунда"
// @Param input body models.FundingRoundRequest true "Данные раунда"
// @Success 200 {object} models.FundingRound
// @Failure 400 {object} helpers.Response
// @Failure 404 {object} helpers.Response
// @Router /api/admin/rounds/{id} [patch]
func (h *DirectoryHandler) UpdateRound(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.FundingRoundRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fr, err := h.service.UpdateRound(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, r, err, "Раунд не найден")
		return
	}
	helpers.JSON(w, http.StatusOK, fr)
}

// DeleteRound godoc
// @Summary Удалить раунд (только admin)
// @Tags admin-rounds
// @Security ApiKeyAuth
// @Param id path int true "ID раунда"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/rounds/{id} [delete]
func (h *DirectoryHandler) DeleteRound(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteRound(r.Context(), id); err != nil {
		writeServiceError(w, r, err, "Раунд не найден")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
