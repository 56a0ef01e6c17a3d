// Package assign реализует HTTP-обработчик назначения программы
// тренировок пользователю.
package assign

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/fitcoach-backend/internal/http/response"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
)

// Request данные назначения программы.
type Request struct {
	UserUID string `json:"user_uid" validate:"required"` // UID пользователя-адресата
}

// Service описывает интерфейс бизнес-логики назначения программы.
type Service interface {
	Assign(ctx context.Context, programID int64, userUID string) error
}

// Handler управляет HTTP-запросами назначения программ.
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
// @Summary Назначить программу пользователю
// @Description Привязывает существующую программу тренировок к указанному пользователю.
// @Tags Programs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID программы"
// @Param request body Request true "UID адресата"
// @Success 200 {object} map[string]any "Программа назначена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Программа не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /programs/{id}/assign [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.program.assign"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	programID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid program id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid program id"))
		return
	}

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

	if err := h.service.Assign(r.Context(), programID, req.UserUID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("program not found"))
			return
		}
		log.Error("failed to assign program", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not assign program"))
		return
	}

	log.Info("program assigned",
		slog.Int64("program_id", programID), slog.String("user_uid", req.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"program_id": programID,
		"user_uid":   req.UserUID,
	}))
}
