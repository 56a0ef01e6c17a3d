// Package get реализует HTTP-обработчик получения недельного плана
// тренировок.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
	"github.com/magabrotheeeer/fitcoach-backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики получения плана.
type Service interface {
	GetWeeklyPlan(ctx context.Context, userUID string, date time.Time) (*models.WeeklyPlan, error)
}

// Handler управляет HTTP-запросами получения недельного плана.
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
// @Summary Получить недельный план
// @Description Возвращает план пользователя на неделю, содержащую указанную дату. Без параметра date берётся текущая неделя.
// @Tags Programs
// @Produce json
// @Security BearerAuth
// @Param date query string false "Дата в формате 2006-01-02"
// @Success 200 {object} map[string]any "Недельный план"
// @Failure 400 {object} response.ErrorResponse "Некорректная дата"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "План не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans/weekly [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.weeklyplan.get"
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

	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("date must be in format 2006-01-02"))
			return
		}
		date = parsed
	}

	plan, err := h.service.GetWeeklyPlan(r.Context(), userUID, date)
	if err != nil {
		if errors.Is(err, repository.ErrWeeklyPlanNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("weekly plan not found"))
			return
		}
		log.Error("failed to get weekly plan", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get weekly plan"))
		return
	}

	render.JSON(w, r, response.OKWithData(plan))
}
