// Package remove реализует HTTP-обработчик удаления упражнения
// из библиотеки.
package remove

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления упражнения.
type Service interface {
	Remove(ctx context.Context, id int64) (int64, error)
}

// Handler управляет HTTP-запросами удаления упражнений.
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
// @Summary Удалить упражнение
// @Description Удаляет упражнение из библиотеки по ID. Доступно только администратору.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID упражнения"
// @Success 200 {object} map[string]any "Упражнение удалено"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 403 {object} response.ErrorResponse "Нет прав доступа"
// @Failure 404 {object} response.ErrorResponse "Упражнение не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/exercises/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.exercise.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid exercise id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid exercise id"))
		return
	}

	count, err := h.service.Remove(r.Context(), id)
	if err != nil {
		log.Error("failed to remove exercise", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not remove exercise"))
		return
	}
	if count == 0 {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("exercise not found"))
		return
	}

	log.Info("exercise removed", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"removed": count,
	}))
}
