// Package list реализует HTTP-обработчик списка заявок на индивидуальные
// программы для админ-панели.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики списка заявок.
type Service interface {
	ListPlanRequests(ctx context.Context, status string, limit, offset int) ([]*models.PlanRequest, error)
}

// Handler управляет HTTP-запросами списка заявок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список заявок на программы
// @Description Возвращает заявки на индивидуальные программы с фильтром по статусу. Доступно только администратору.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Статус: new, in_progress, done"
// @Param limit query int false "Количество записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список заявок"
// @Failure 403 {object} response.ErrorResponse "Нет прав доступа"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/plan-requests [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.planrequest.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	status := r.URL.Query().Get("status")
	limit, offset := parsePagination(r)
	requests, err := h.service.ListPlanRequests(r.Context(), status, limit, offset)
	if err != nil {
		log.Error("failed to list plan requests", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list plan requests"))
		return
	}

	render.JSON(w, r, response.OKWithData(requests))
}

func parsePagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}
