// Package paymentprovider реализует клиент платёжного шлюза ЮKassa:
// создание платежа, запрос статуса по идентификатору и подтверждение
// (capture) платежа в состоянии waiting_for_capture.
package paymentprovider

import "time"

// Статусы платежа в ЮKassa.
const (
	StatusSucceeded         = "succeeded"
	StatusWaitingForCapture = "waiting_for_capture"
	StatusPending           = "pending"
	StatusCanceled          = "canceled"
)

// Amount представляет денежную сумму.
type Amount struct {
	Value    string `json:"value"`    // сумма, например "1990.00"
	Currency string `json:"currency"` // валюта, например "RUB"
}

// Payment представляет платёж в ЮKassa.
type Payment struct {
	ID         string            `json:"id"`          // ID платежа в ЮKassa
	Status     string            `json:"status"`      // статус платежа
	Paid       bool              `json:"paid"`        // признак оплаты
	Amount     Amount            `json:"amount"`      // сумма платежа
	Metadata   map[string]string `json:"metadata"`    // user_uid, subscription_type
	CapturedAt *time.Time        `json:"captured_at"` // момент подтверждения
	CreatedAt  time.Time         `json:"created_at"`  // момент создания
}

// Succeeded сообщает, завершён ли платёж успешно и оплачен ли он.
func (p *Payment) Succeeded() bool {
	return p.Status == StatusSucceeded && p.Paid
}

// Confirmation описывает способ подтверждения платежа пользователем.
type Confirmation struct {
	Type            string `json:"type"`                       // например "redirect"
	ReturnURL       string `json:"return_url,omitempty"`       // URL возврата
	ConfirmationURL string `json:"confirmation_url,omitempty"` // URL страницы оплаты
}

// CreatePaymentRequest представляет запрос на создание платежа.
type CreatePaymentRequest struct {
	Amount       Amount            `json:"amount"`
	Capture      bool              `json:"capture"`
	Description  string            `json:"description,omitempty"`
	Confirmation *Confirmation     `json:"confirmation,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// CreatePaymentResponse представляет ответ на создание платежа.
type CreatePaymentResponse struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Amount       Amount        `json:"amount"`
	Confirmation *Confirmation `json:"confirmation,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}
