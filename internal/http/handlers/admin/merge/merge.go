// Package merge реализует HTTP-обработчик слияния дубликатов аккаунтов
// с одинаковым email.
package merge

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

// Request данные запроса на слияние дубликатов.
type Request struct {
	Email string `json:"email" validate:"required,email"` // Email с дубликатами
}

// Service описывает интерфейс бизнес-логики слияния дубликатов.
type Service interface {
	MergeDuplicates(ctx context.Context, email string) (*subscription.MergeReport, error)
}

// Handler управляет HTTP-запросами слияния дубликатов.
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
// @Summary Слить дубликаты аккаунтов
// @Description Сливает аккаунты с одинаковым email в один канонический. Остальные удаляются, отчёт содержит неудачи поимённо.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Email с дубликатами"
// @Success 200 {object} map[string]any "Отчёт о слиянии"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет прав доступа"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/accounts/merge [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.merge"
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

	report, err := h.service.MergeDuplicates(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to merge duplicates", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not merge duplicate accounts"))
		return
	}

	log.Info("duplicates merged",
		slog.String("email", req.Email), slog.String("canonical_uid", report.CanonicalUID))
	render.JSON(w, r, response.OKWithData(report))
}
