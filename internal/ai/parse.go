package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// SelectionResult разобранный структурированный ответ модели.
type SelectionResult struct {
	ExerciseIDs []int64              `json:"exerciseIds"`
	Workout     []models.ProgramItem `json:"workout"`
}

// ParseSelection разбирает ответ модели в структурированный результат.
// Модели часто оборачивают JSON в markdown-ограждения или возвращают
// слегка битый JSON, поэтому перед разбором ответ чистится и чинится.
func ParseSelection(raw string) (*SelectionResult, error) {
	const op = "ai.ParseSelection"

	cleaned := stripFences(raw)

	var result SelectionResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleaned)
		if repairErr != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal([]byte(repaired), &result); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	// В режиме тренировки идентификаторы берутся из элементов программы.
	if len(result.ExerciseIDs) == 0 && len(result.Workout) > 0 {
		for _, item := range result.Workout {
			result.ExerciseIDs = append(result.ExerciseIDs, item.ExerciseID)
		}
	}
	return &result, nil
}

// FilterKnownIDs отбрасывает идентификаторы, которых нет в каталоге.
// Модель иногда галлюцинирует, несмотря на запрет в промпте.
func FilterKnownIDs(ids []int64, catalog []models.Exercise) []int64 {
	known := make(map[int64]struct{}, len(catalog))
	for _, ex := range catalog {
		known[ex.ID] = struct{}{}
	}
	filtered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := known[id]; ok {
			filtered = append(filtered, id)
		}
	}
	return filtered
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}
