// Package create реализует HTTP-обработчик создания программы тренировок.
package create

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

// Service описывает интерфейс бизнес-логики создания программы.
type Service interface {
	Create(ctx context.Context, coachUID string, req models.DummyTrainingProgram) (int64, error)
}

// Handler управляет HTTP-запросами создания программ.
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
// @Summary Создать программу тренировок
// @Description Сохраняет программу тренировок от имени текущего пользователя, при необходимости сразу назначая её адресату.
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummyTrainingProgram true "Программа тренировок"
// @Success 200 {object} map[string]any "ID созданной программы"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /programs [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.program.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	coachUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || coachUID == "" {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user is not authenticated"))
		return
	}

	var req models.DummyTrainingProgram
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

	id, err := h.service.Create(r.Context(), coachUID, req)
	if err != nil {
		log.Error("failed to create program", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create program"))
		return
	}

	log.Info("program created", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
