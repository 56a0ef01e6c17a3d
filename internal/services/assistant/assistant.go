// Package assistant содержит бизнес-логику AI-ассистента: классификацию
// запроса, подбор упражнений из каталога через LLM и свободный чат.
package assistant

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/fitcoach-backend/internal/ai"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// ExerciseProvider отдаёт каталог упражнений для подбора.
type ExerciseProvider interface {
	// List возвращает упражнения по фильтру.
	List(ctx context.Context, filter models.ExerciseFilter) ([]models.Exercise, error)
	// GetByIDs возвращает упражнения по списку идентификаторов.
	GetByIDs(ctx context.Context, ids []int64) ([]models.Exercise, error)
}

// Suggestion ответ ассистента пользователю.
type Suggestion struct {
	IsExerciseRequest  bool                 `json:"isExerciseRequest"`
	NeedsClarification bool                 `json:"needsClarification"`
	Message            string               `json:"message,omitempty"`  // текст для свободного чата и уточнений
	Exercises          []models.Exercise    `json:"exercises,omitempty"`
	Workout            []models.ProgramItem `json:"workout,omitempty"`
}

// Service реализует бизнес-логику AI-ассистента.
type Service struct {
	exercises ExerciseProvider
	completer ai.Completer
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(exercises ExerciseProvider, completer ai.Completer, log *slog.Logger) *Service {
	return &Service{
		exercises: exercises,
		completer: completer,
		log:       log,
	}
}

// SuggestExercises обрабатывает запрос пользователя: классифицирует его,
// для подбора упражнений просит LLM выбрать из каталога и возвращает
// только реально существующие упражнения, иначе отвечает свободным чатом.
func (s *Service) SuggestExercises(ctx context.Context, userUID, text string) (*Suggestion, error) {
	const op = "assistant.SuggestExercises"
	log := s.log.With(slog.String("op", op), slog.String("user_uid", userUID))

	classification := ai.Classify(text)
	if !classification.IsExerciseRequest {
		return s.freeChat(ctx, log, text)
	}
	if classification.NeedsClarification {
		return &Suggestion{
			IsExerciseRequest:  true,
			NeedsClarification: true,
			Message:            ai.ClarificationReply(),
		}, nil
	}

	catalog, err := s.exercises.List(ctx, models.ExerciseFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(catalog) == 0 {
		return &Suggestion{
			IsExerciseRequest: true,
			Message:           "Каталог упражнений пока пуст, попробуйте позже.",
		}, nil
	}

	messages, err := ai.BuildSelectionMessages(text, catalog, classification.WantsFullWorkout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Messages:    messages,
		Temperature: 0.3,
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	parsed, err := ai.ParseSelection(raw)
	if err != nil {
		log.Warn("failed to parse model response", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids := ai.FilterKnownIDs(parsed.ExerciseIDs, catalog)
	selected, err := s.exercises.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	suggestion := &Suggestion{
		IsExerciseRequest: true,
		Exercises:         selected,
	}
	if classification.WantsFullWorkout {
		suggestion.Workout = filterWorkout(parsed.Workout, ids)
	}
	log.Info("exercises suggested",
		slog.Int("catalog_size", len(catalog)), slog.Int("selected", len(selected)))
	return suggestion, nil
}

// freeChat отвечает на нетренировочные вопросы обычным диалогом.
func (s *Service) freeChat(ctx context.Context, log *slog.Logger, text string) (*Suggestion, error) {
	const op = "assistant.freeChat"

	reply, err := s.completer.Complete(ctx, ai.CompletionRequest{
		Messages:    ai.BuildChatMessages(text),
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("free chat reply sent")
	return &Suggestion{Message: reply}, nil
}

// filterWorkout оставляет в программе только элементы с проверенными
// идентификаторами упражнений.
func filterWorkout(items []models.ProgramItem, knownIDs []int64) []models.ProgramItem {
	known := make(map[int64]struct{}, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = struct{}{}
	}
	filtered := make([]models.ProgramItem, 0, len(items))
	for _, item := range items {
		if _, ok := known[item.ExerciseID]; ok {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
