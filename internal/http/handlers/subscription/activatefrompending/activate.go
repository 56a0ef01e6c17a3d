// Package activatefrompending реализует HTTP-обработчик активации подписки
// по незавершённому платежу.
//
// Handler находит свежайший необработанный платёж текущего пользователя,
// дожидается подтверждения оплаты в шлюзе и активирует подписку.
package activatefrompending

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/services/payment"
)

// Service описывает интерфейс бизнес-логики активации по платежу.
type Service interface {
	ActivateFromPending(ctx context.Context, userUID, email, displayName string) (*payment.ActivationOutcome, error)
}

// Handler управляет HTTP-запросами активации подписки.
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
// @Summary Активировать подписку по незавершённому платежу
// @Description Находит свежайший необработанный платёж пользователя, опрашивает платёжный шлюз до подтверждения оплаты и активирует подписку.
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Подписка активирована"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Нет необработанного платежа"
// @Failure 402 {object} response.ErrorResponse "Платёж не подтверждён"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/activate-from-pending [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.activatefrompending"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}
	email, _ := r.Context().Value(middlewarectx.Email).(string)

	outcome, err := h.service.ActivateFromPending(r.Context(), userUID, email, "")
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrNoPendingPayment):
			log.Info("no pending payment", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("no pending payment found"))
		case errors.Is(err, payment.ErrPaymentNotSucceeded), errors.Is(err, payment.ErrPaymentCanceled):
			log.Info("payment not confirmed", sl.Err(err))
			render.Status(r, http.StatusPaymentRequired)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to activate subscription", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not activate subscription"))
		}
		return
	}

	log.Info("subscription activated",
		slog.String("user_uid", userUID), slog.String("payment_id", outcome.PaymentID))
	render.JSON(w, r, response.OKWithData(outcome))
}
