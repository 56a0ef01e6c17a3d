// Package models содержит доменные структуры приложения: аккаунты пользователей
// со встроенной подпиской, незавершённые платежи, упражнения, программы тренировок
// и вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Роли пользователей. Проверка прав строится на роли аккаунта,
// а не на сравнении с конкретным email.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account представляет аккаунт пользователя.
// Email не уникален на уровне хранилища — дубликаты возможны,
// слияние выполняется отдельной административной операцией.
type Account struct {
	UID          string        // Уникальный идентификатор аккаунта
	Email        string        // Электронная почта (может дублироваться)
	DisplayName  string        // Отображаемое имя (опционально)
	Role         string        // Роль: user или admin
	PasswordHash string        // Хэш пароля (bcrypt)
	Subscription *Subscription // Встроенная подписка, nil если её нет
	CreatedAt    time.Time     // Дата создания записи
}

// Subscription представляет встроенную в аккаунт запись о премиум-доступе.
// Поле Active может расходиться с EndDate (active=true при истёкшей дате) —
// бизнес-логика обязана заново выводить активность из EndDate > now.
type Subscription struct {
	Type      string    // Тип подписки: monthly, 3months, yearly
	Active    bool      // Флаг активности (только для отображения и фильтров)
	StartDate time.Time // Дата начала
	EndDate   time.Time // Дата окончания
	PaymentID string    // Идентификатор платежа в платёжном шлюзе
	Amount    int64     // Сумма в минорных единицах валюты (копейках)
	UpdatedAt time.Time // Дата последнего изменения
}

// CurrentlyActive выводит фактическую активность подписки из даты окончания,
// не доверяя сохранённому флагу. Нулевая дата окончания считается отсутствующей.
func (s *Subscription) CurrentlyActive(now time.Time) bool {
	if s == nil || s.EndDate.IsZero() {
		return false
	}
	return s.Active && s.EndDate.After(now)
}
