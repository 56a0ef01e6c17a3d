package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// Системные промпты ассистента. Промпт подбора требует строгий JSON
// и запрещает выдумывать идентификаторы вне переданного каталога.
const (
	selectionSystemPrompt = `Ты — ассистент фитнес-тренера. Тебе передан каталог упражнений в JSON.
Выбери упражнения, подходящие под запрос пользователя, ТОЛЬКО из каталога.
Ответь строго JSON-объектом без пояснений: {"exerciseIds": [<id>, ...]}.
Никогда не придумывай идентификаторы, которых нет в каталоге.`

	workoutSystemPrompt = `Ты — ассистент фитнес-тренера. Тебе передан каталог упражнений в JSON.
Составь тренировку под запрос пользователя ТОЛЬКО из упражнений каталога.
Ответь строго JSON-объектом без пояснений:
{"workout": [{"exerciseId": <id>, "sets": <n>, "reps": <n>, "rest": "<отдых, например 90 сек>"}, ...]}.
Никогда не придумывай идентификаторы, которых нет в каталоге.`

	chatSystemPrompt = `Ты — дружелюбный ассистент фитнес-тренера. Отвечай кратко и по делу
на русском языке: питание, восстановление, техника, общие вопросы о тренировках.
Не назначай лечение, при жалобах на боль рекомендуй обратиться к врачу.`

	clarificationReply = `Уточните, пожалуйста, детали тренировки: на какую группу мышц, ваш уровень подготовки или цель — и я составлю программу.`
)

// BuildSelectionMessages собирает сообщения для структурированного подбора
// упражнений: каталог сериализуется в компактный JSON внутри промпта.
func BuildSelectionMessages(userText string, catalog []models.Exercise, fullWorkout bool) ([]Message, error) {
	catalogJSON, err := json.Marshal(catalog)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}

	system := selectionSystemPrompt
	if fullWorkout {
		system = workoutSystemPrompt
	}

	var sb strings.Builder
	sb.WriteString("Каталог упражнений:\n")
	sb.Write(catalogJSON)
	sb.WriteString("\n\nЗапрос пользователя: ")
	sb.WriteString(userText)

	return []Message{
		{Role: "system", Content: system},
		{Role: "user", Content: sb.String()},
	}, nil
}

// BuildChatMessages собирает сообщения для свободного чата.
func BuildChatMessages(userText string) []Message {
	return []Message{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: userText},
	}
}

// ClarificationReply возвращает текст ответа-уточнения, когда пользователь
// просит составить тренировку, не указав деталей.
func ClarificationReply() string {
	return clarificationReply
}
