// Package list реализует HTTP-обработчик выборки упражнений из библиотеки.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// Service описывает интерфейс бизнес-логики библиотеки упражнений.
type Service interface {
	List(ctx context.Context, filter models.ExerciseFilter) ([]models.Exercise, error)
}

// Handler управляет HTTP-запросами выборки упражнений.
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
// @Summary Список упражнений
// @Description Возвращает упражнения с необязательными фильтрами по группе мышц и уровню.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param muscle_group query string false "Группа мышц"
// @Param level query string false "Уровень подготовки"
// @Success 200 {object} map[string]any "Список упражнений"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /exercises [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exercise.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	filter := models.ExerciseFilter{
		MuscleGroup: r.URL.Query().Get("muscle_group"),
		Level:       r.URL.Query().Get("level"),
	}
	exercises, err := h.service.List(r.Context(), filter)
	if err != nil {
		log.Error("failed to list exercises", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list exercises"))
		return
	}

	render.JSON(w, r, response.OKWithData(exercises))
}
