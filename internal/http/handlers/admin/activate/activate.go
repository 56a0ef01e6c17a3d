// Package activate реализует HTTP-обработчик ручной активации подписки
// администратором.
package activate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/services/subscription"
)

// Request данные ручной активации подписки.
type Request struct {
	UserUID          string `json:"user_uid"`                             // UID аккаунта, может быть пустым при поиске по email
	Email            string `json:"email"`                                // Email для поиска аккаунта
	SubscriptionType string `json:"subscription_type" validate:"required"` // Тариф подписки
	PaymentID        string `json:"payment_id"`                           // Идентификатор платежа (опционально)
	Amount           int64  `json:"amount"`                               // Сумма в копейках (опционально)
}

// Service описывает интерфейс бизнес-логики активации подписки.
type Service interface {
	Activate(ctx context.Context, userUID, email, displayName, tier, paymentID string, amount int64) (*subscription.ActivationResult, error)
}

// Handler управляет HTTP-запросами ручной активации.
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
// @Summary Активировать подписку вручную
// @Description Активирует или продлевает подписку пользователя без платежа. Доступно только администратору.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Параметры активации"
// @Success 200 {object} map[string]any "Подписка активирована"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет прав доступа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/subscriptions/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.activate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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
	if req.UserUID == "" && req.Email == "" {
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("either user_uid or email is required"))
		return
	}

	result, err := h.service.Activate(r.Context(), req.UserUID, req.Email, "",
		req.SubscriptionType, req.PaymentID, req.Amount)
	if err != nil {
		log.Error("failed to activate subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not activate subscription"))
		return
	}

	log.Info("subscription activated by admin", slog.String("user_uid", result.UserUID))
	render.JSON(w, r, response.OKWithData(result))
}
