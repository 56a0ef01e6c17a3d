// Package list реализует HTTP-обработчик публичного списка отзывов.
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

// Service описывает интерфейс бизнес-логики списка отзывов.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]*models.Review, error)
}

// Handler управляет HTTP-запросами списка отзывов.
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
// @Summary Список отзывов
// @Description Возвращает отзывы пользователей, отсортированные по дате создания. Публичный эндпоинт.
// @Tags Reviews
// @Produce json
// @Param limit query int false "Количество записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список отзывов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reviews [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.review.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := parsePagination(r)
	reviews, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list reviews", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list reviews"))
		return
	}

	render.JSON(w, r, response.OKWithData(reviews))
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
