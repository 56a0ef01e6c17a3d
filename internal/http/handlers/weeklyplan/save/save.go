// Package save реализует HTTP-обработчик сохранения недельного плана
// тренировок.
package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
)

// Request данные недельного плана.
type Request struct {
	WeekStart string           `json:"week_start" validate:"required"` // Дата в формате 2006-01-02
	Days      map[string]int64 `json:"days" validate:"required"`       // День недели -> ID программы
}

// Service описывает интерфейс бизнес-логики сохранения плана.
type Service interface {
	SaveWeeklyPlan(ctx context.Context, userUID string, weekStart time.Time, days map[string]int64) error
}

// Handler управляет HTTP-запросами сохранения недельного плана.
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
// @Summary Сохранить недельный план
// @Description Сохраняет распределение программ по дням недели. Существующий план на эту неделю перезаписывается.
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Недельный план"
// @Success 200 {object} map[string]any "План сохранён"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/weekly [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.weeklyplan.save"
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

	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		log.Error("invalid week_start", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("week_start must be in format 2006-01-02"))
		return
	}

	if err := h.service.SaveWeeklyPlan(r.Context(), userUID, weekStart, req.Days); err != nil {
		log.Error("failed to save weekly plan", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not save weekly plan"))
		return
	}

	log.Info("weekly plan saved", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"week_start": req.WeekStart,
	}))
}
