// Package create реализует HTTP-обработчик заявки на индивидуальную
// программу тренировок.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики заявок на программы.
type Service interface {
	RequestPlan(ctx context.Context, userUID, email string, req models.DummyPlanRequest) (int64, error)
}

// Handler управляет HTTP-запросами заявок на индивидуальные программы.
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
// @Summary Заявка на индивидуальную программу
// @Description Регистрирует заявку текущего пользователя на составление индивидуальной программы тренером.
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyPlanRequest true "Заявка"
// @Success 200 {object} map[string]any "ID созданной заявки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/requests [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.planrequest.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user is not authenticated"))
		return
	}
	email, _ := r.Context().Value(middlewarectx.Email).(string)

	var req models.DummyPlanRequest
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

	id, err := h.service.RequestPlan(r.Context(), userUID, email, req)
	if err != nil {
		log.Error("failed to create plan request", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create plan request"))
		return
	}

	log.Info("plan request created", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
