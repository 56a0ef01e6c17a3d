// Package accounts реализует HTTP-обработчик списка аккаунтов
// для админ-панели.
package accounts

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

// Service описывает интерфейс бизнес-логики списка аккаунтов.
type Service interface {
	ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error)
}

// Handler управляет HTTP-запросами списка аккаунтов.
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

// accountView аккаунт в ответе без хэша пароля.
type accountView struct {
	UID          string               `json:"uid"`
	Email        string               `json:"email"`
	DisplayName  string               `json:"display_name,omitempty"`
	Role         string               `json:"role"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
	CreatedAt    string               `json:"created_at"`
}

// ServeHTTP godoc
// @Summary Список аккаунтов
// @Description Возвращает аккаунты с вычисленным статусом подписки. Доступно только администратору.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Количество записей" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]any "Список аккаунтов"
// @Failure 403 {object} response.ErrorResponse "Нет прав доступа"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/accounts [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.accounts"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, offset := parsePagination(r)
	accounts, err := h.service.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list accounts"))
		return
	}

	views := make([]accountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, accountView{
			UID:          account.UID,
			Email:        account.Email,
			DisplayName:  account.DisplayName,
			Role:         account.Role,
			Subscription: account.Subscription,
			CreatedAt:    account.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	render.JSON(w, r, response.OKWithData(views))
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
