package models

import "time"

// PendingPayment представляет транзакцию платёжного шлюза,
// ещё не сведённую в подписку. Записи никогда не удаляются —
// это журнал для аудита, после сведения выставляется Processed.
type PendingPayment struct {
	ID               string    // Внутренний идентификатор записи
	UserUID          string    // Идентификатор аккаунта
	Email            string    // Email на момент создания платежа
	SubscriptionType string    // Запрошенный тип подписки
	Amount           int64     // Сумма в минорных единицах
	PaymentID        string    // Идентификатор платежа в шлюзе
	Processed        bool      // Признак успешного сведения в подписку
	CreatedAt        time.Time // Дата создания
}

// CreatePaymentRequestApp используется для приёма запроса на создание платежа.
type CreatePaymentRequestApp struct {
	SubscriptionType string `json:"subscription_type" validate:"required"` // Тип подписки
	ReturnURL        string `json:"return_url"`                            // URL возврата после оплаты
}
