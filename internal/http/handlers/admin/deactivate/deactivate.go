// Package deactivate реализует HTTP-обработчик снятия активности подписки
// администратором.
package deactivate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики деактивации подписки.
type Service interface {
	Deactivate(ctx context.Context, userUID string) error
}

// Handler управляет HTTP-запросами деактивации.
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
// @Summary Деактивировать подписку
// @Description Снимает флаг активности подписки пользователя. Запись о подписке сохраняется.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param uid path string true "UID аккаунта"
// @Success 200 {object} map[string]any "Подписка деактивирована"
// @Failure 403 {object} response.ErrorResponse "Нет прав доступа"
// @Failure 404 {object} response.ErrorResponse "Аккаунт не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/subscriptions/{uid} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.deactivate"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing account uid"))
		return
	}

	if err := h.service.Deactivate(r.Context(), uid); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("account not found"))
			return
		}
		log.Error("failed to deactivate subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not deactivate subscription"))
		return
	}

	log.Info("subscription deactivated", slog.String("uid", uid))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid": uid,
	}))
}
