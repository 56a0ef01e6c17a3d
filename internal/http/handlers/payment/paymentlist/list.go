// Package paymentlist реализует HTTP-обработчик списка незавершённых
// платежей для админ-панели.
package paymentlist

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

// Service описывает интерфейс бизнес-логики списка платежей.
type Service interface {
	ListPendingPayments(ctx context.Context, limit, offset int) ([]*models.PendingPayment, error)
}

// Handler управляет HTTP-запросами списка платежей.
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
// @Summary Список незавершённых платежей
// @Description Возвращает журнал платежей с пагинацией. Доступно только администратору.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Количество записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список платежей"
// @Failure 403 {object} response.ErrorResponse "Нет прав доступа"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := parsePagination(r)
	payments, err := h.service.ListPendingPayments(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payments"))
		return
	}

	render.JSON(w, r, response.OKWithData(payments))
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
