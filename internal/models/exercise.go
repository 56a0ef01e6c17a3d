package models

import "time"

// Exercise представляет упражнение из библиотеки.
type Exercise struct {
	ID          int64     // Идентификатор упражнения
	Name        string    // Название
	MuscleGroup string    // Группа мышц: спина, грудь, ноги и т.д.
	Level       string    // Уровень: beginner, intermediate, advanced
	Description string    // Описание техники выполнения
	Equipment   string    // Необходимое оборудование
	MediaURL    string    // Ссылка на видео или изображение
	CreatedAt   time.Time // Дата добавления
}

// DummyExercise используется для приёма данных упражнения из JSON-запроса.
type DummyExercise struct {
	Name        string `json:"name" validate:"required"`         // Название
	MuscleGroup string `json:"muscle_group" validate:"required"` // Группа мышц
	Level       string `json:"level" validate:"required"`        // Уровень сложности
	Description string `json:"description"`                      // Описание
	Equipment   string `json:"equipment"`                        // Оборудование
	MediaURL    string `json:"media_url"`                        // Ссылка на медиа
}

// ExerciseFilter задаёт фильтры выборки упражнений.
type ExerciseFilter struct {
	MuscleGroup string // Фильтр по группе мышц, пустая строка — без фильтра
	Level       string // Фильтр по уровню, пустая строка — без фильтра
}
