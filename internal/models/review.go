package models

import "time"

// Review представляет отзыв пользователя о сервисе.
type Review struct {
	ID         int64     // Идентификатор отзыва
	UserUID    string    // Идентификатор автора
	AuthorName string    // Отображаемое имя автора
	Rating     int       // Оценка от 1 до 5
	Text       string    // Текст отзыва
	CreatedAt  time.Time // Дата создания
}

// DummyReview используется для приёма отзыва из JSON-запроса.
type DummyReview struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"` // Оценка 1-5
	Text   string `json:"text" validate:"required"`               // Текст отзыва
}

// PlanRequest представляет заявку пользователя на индивидуальную программу.
type PlanRequest struct {
	ID        int64     // Идентификатор заявки
	UserUID   string    // Идентификатор пользователя
	Email     string    // Email для связи
	Goal      string    // Цель: похудение, набор массы и т.д.
	Level     string    // Уровень подготовки
	Comment   string    // Комментарий пользователя
	Status    string    // Статус обработки: new, in_progress, done
	CreatedAt time.Time // Дата создания
}

// DummyPlanRequest используется для приёма заявки из JSON-запроса.
type DummyPlanRequest struct {
	Goal    string `json:"goal" validate:"required"` // Цель тренировок
	Level   string `json:"level"`                    // Уровень подготовки
	Comment string `json:"comment"`                  // Комментарий
}
