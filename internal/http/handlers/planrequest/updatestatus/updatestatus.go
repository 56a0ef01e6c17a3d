// Package updatestatus реализует HTTP-обработчик смены статуса заявки
// на индивидуальную программу.
package updatestatus

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
)

// Request данные смены статуса заявки.
type Request struct {
	Status string `json:"status" validate:"required,oneof=new in_progress done"` // Новый статус
}

// Service описывает интерфейс бизнес-логики смены статуса заявки.
type Service interface {
	UpdatePlanRequestStatus(ctx context.Context, id int64, status string) error
}

// Handler управляет HTTP-запросами смены статуса заявок.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сменить статус заявки
// @Description Переводит заявку на индивидуальную программу в новый статус. Доступно только администратору.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body Request true "Новый статус"
// @Success 200 {object} map[string]any "Статус обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 403 {object} response.ErrorResponse "Нет прав доступа"
// @Failure 404 {object} response.ErrorResponse "Заявка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/plan-requests/{id} [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.planrequest.updatestatus"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid plan request id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan request id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.UpdatePlanRequestStatus(r.Context(), id, req.Status); err != nil {
		if strings.Contains(err.Error(), "not found") {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("plan request not found"))
			return
		}
		log.Error("failed to update plan request status", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update plan request status"))
		return
	}

	log.Info("plan request status updated",
		slog.Int64("id", id), slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id":     id,
		"status": req.Status,
	}))
}
