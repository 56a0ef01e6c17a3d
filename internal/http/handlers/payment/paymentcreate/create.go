// Package paymentcreate реализует HTTP-обработчик создания платежа
// за подписку в платёжном шлюзе.
package paymentcreate

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

// Service описывает интерфейс бизнес-логики создания платежа.
type Service interface {
	CreatePayment(ctx context.Context, userUID, email, tier, returnURL string) (string, error)
}

// Handler управляет HTTP-запросами создания платежа.
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
// @Summary Создать платёж за подписку
// @Description Создаёт платёж в платёжном шлюзе и возвращает URL страницы оплаты.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CreatePaymentRequestApp true "Параметры платежа"
// @Success 200 {object} map[string]any "Платёж создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Ошибка платёжного шлюза"
// @Router /payment [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
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

	var req models.CreatePaymentRequestApp
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

	confirmationURL, err := h.service.CreatePayment(r.Context(), userUID, email, req.SubscriptionType, req.ReturnURL)
	if err != nil {
		log.Error("failed to create payment", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not create payment"))
		return
	}

	log.Info("payment created", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"confirmation_url": confirmationURL,
	}))
}
