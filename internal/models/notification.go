package models

import "time"

// ExpiryNotice сообщение очереди уведомлений об истекающей подписке.
type ExpiryNotice struct {
	UserUID          string    `json:"user_uid"`          // Идентификатор аккаунта
	Email            string    `json:"email"`             // Адрес получателя
	DisplayName      string    `json:"display_name"`      // Имя для обращения
	SubscriptionType string    `json:"subscription_type"` // Тип подписки
	EndDate          time.Time `json:"end_date"`          // Дата окончания
}
