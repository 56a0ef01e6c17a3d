// Package suggest реализует HTTP-обработчик AI-ассистента: подбор
// упражнений и свободный чат.
package suggest

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
	"github.com/magabrotheeeer/fitcoach-backend/internal/services/assistant"
)

// Request запрос пользователя к ассистенту.
type Request struct {
	UserRequest string `json:"user_request" validate:"required"` // Текст запроса
	Language    string `json:"language"`                         // Язык ответа, по умолчанию русский
}

// Service описывает интерфейс бизнес-логики ассистента.
type Service interface {
	SuggestExercises(ctx context.Context, userUID, text string) (*assistant.Suggestion, error)
}

// Handler управляет HTTP-запросами к ассистенту.
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
// @Summary Запросить подбор упражнений у AI-ассистента
// @Description Классифицирует запрос: подбор упражнений выполняется строго из каталога, остальные вопросы обрабатываются свободным чатом.
// @Tags Assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Request true "Текст запроса"
// @Success 200 {object} map[string]any "Ответ ассистента"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "AI-провайдеры недоступны"
// @Router /ai/suggest-exercises [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.assistant.suggest"
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

	suggestion, err := h.service.SuggestExercises(r.Context(), userUID, req.UserRequest)
	if err != nil {
		log.Error("failed to get suggestion", sl.Err(err))
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, response.Error("assistant is unavailable"))
		return
	}

	log.Info("suggestion returned", slog.Bool("is_exercise_request", suggestion.IsExerciseRequest))
	render.JSON(w, r, response.OKWithData(suggestion))
}
