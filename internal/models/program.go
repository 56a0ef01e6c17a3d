package models

import "time"

// ProgramItem описывает одно упражнение в составе программы тренировок.
type ProgramItem struct {
	ExerciseID int64  `json:"exerciseId"` // Идентификатор упражнения
	Sets       int    `json:"sets"`       // Количество подходов
	Reps       int    `json:"reps"`       // Количество повторений
	Rest       string `json:"rest"`       // Отдых между подходами, например "90 сек"
}

// TrainingProgram представляет программу тренировок, составленную тренером
// и назначаемую пользователю.
type TrainingProgram struct {
	ID        int64         // Идентификатор программы
	CoachUID  string        // Идентификатор составившего тренера
	UserUID   string        // Идентификатор пользователя, пустая строка — не назначена
	Title     string        // Название программы
	Comment   string        // Комментарий тренера
	Items     []ProgramItem // Упражнения программы
	CreatedAt time.Time     // Дата создания
}

// DummyTrainingProgram используется для приёма программы из JSON-запроса.
type DummyTrainingProgram struct {
	Title   string        `json:"title" validate:"required"`          // Название
	UserUID string        `json:"user_uid"`                           // Кому назначается (опционально)
	Comment string        `json:"comment"`                            // Комментарий
	Items   []ProgramItem `json:"items" validate:"required,min=1,dive"` // Упражнения
}

// WeeklyPlan представляет недельный план пользователя: распределение
// программ по дням недели.
type WeeklyPlan struct {
	ID        int64          // Идентификатор плана
	UserUID   string         // Идентификатор пользователя
	WeekStart time.Time      // Понедельник недели плана
	Days      map[string]int64 // День недели -> ID программы
	CreatedAt time.Time      // Дата создания
}
