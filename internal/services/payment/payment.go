// Package payment содержит бизнес-логику оплаты подписки: создание платежа
// в шлюзе и активацию подписки по отложенному платежу с опросом статуса.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
	"github.com/magabrotheeeer/fitcoach-backend/internal/paymentprovider"
	"github.com/magabrotheeeer/fitcoach-backend/internal/services/subscription"
	"github.com/magabrotheeeer/fitcoach-backend/internal/storage/repository"
)

// Параметры опроса статуса платежа в шлюзе.
const (
	pollAttempts = 5
	pollDelay    = 2500 * time.Millisecond
)

// Стоимость тарифов в копейках.
var tierPrices = map[string]int64{
	subscription.TierMonthly:     199000,
	subscription.TierThreeMonths: 499000,
	subscription.TierYearly:      1690000,
}

var (
	// ErrNoPendingPayment нет необработанного платежа для пользователя.
	ErrNoPendingPayment = errors.New("no unprocessed pending payment")
	// ErrPaymentNotSucceeded платёж не завершился успехом за время опроса.
	ErrPaymentNotSucceeded = errors.New("payment has not succeeded")
	// ErrPaymentCanceled платёж отменён шлюзом.
	ErrPaymentCanceled = errors.New("payment canceled by gateway")
)

// PendingPaymentRepository определяет методы для работы с отложенными платежами.
type PendingPaymentRepository interface {
	// CreatePendingPayment сохраняет отложенный платёж.
	CreatePendingPayment(ctx context.Context, payment models.PendingPayment) error
	// FindNewestUnprocessed возвращает свежайший необработанный платёж пользователя.
	FindNewestUnprocessed(ctx context.Context, userUID string) (*models.PendingPayment, error)
	// MarkProcessed помечает платёж обработанным.
	MarkProcessed(ctx context.Context, id string) error
	// ListPendingPayments возвращает отложенные платежи с пагинацией.
	ListPendingPayments(ctx context.Context, limit, offset int) ([]*models.PendingPayment, error)
}

// Gateway описывает платёжный шлюз.
type Gateway interface {
	// CreatePayment создаёт платёж в шлюзе.
	CreatePayment(ctx context.Context, req paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error)
	// GetPayment запрашивает платёж по ID.
	GetPayment(ctx context.Context, paymentID string) (*paymentprovider.Payment, error)
	// CapturePayment подтверждает платёж в состоянии waiting_for_capture.
	CapturePayment(ctx context.Context, paymentID string, amount paymentprovider.Amount) (*paymentprovider.Payment, error)
}

// Activator активирует подписку после подтверждённой оплаты.
type Activator interface {
	Activate(ctx context.Context, userUID, email, displayName, tier, paymentID string, amount int64) (*subscription.ActivationResult, error)
}

// ActivationOutcome результат активации по отложенному платежу.
type ActivationOutcome struct {
	Success          bool      `json:"success"`
	PaymentID        string    `json:"paymentId"`
	SubscriptionType string    `json:"subscriptionType"`
	EndDate          time.Time `json:"endDate"`
}

// Service реализует бизнес-логику оплаты подписки.
type Service struct {
	repo      PendingPaymentRepository
	gateway   Gateway
	activator Activator
	log       *slog.Logger
	pollDelay time.Duration
}

// New создает новый экземпляр Service.
func New(repo PendingPaymentRepository, gateway Gateway, activator Activator, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		activator: activator,
		log:       log,
		pollDelay: pollDelay,
	}
}

// TierPrice возвращает стоимость тарифа в копейках.
func TierPrice(tier string) int64 {
	return tierPrices[subscription.NormalizeTier(tier)]
}

// formatAmount переводит копейки в строку вида "1990.00" для шлюза.
func formatAmount(kopecks int64) paymentprovider.Amount {
	return paymentprovider.Amount{
		Value:    strconv.FormatInt(kopecks/100, 10) + "." + fmt.Sprintf("%02d", kopecks%100),
		Currency: "RUB",
	}
}

// CreatePayment создаёт платёж в шлюзе и регистрирует отложенный платёж,
// который затем активируется опросом статуса. Возвращает URL страницы оплаты.
func (s *Service) CreatePayment(ctx context.Context, userUID, email, tier, returnURL string) (string, error) {
	const op = "payment.CreatePayment"
	log := s.log.With(slog.String("op", op), slog.String("user_uid", userUID))

	normalized := subscription.NormalizeTier(tier)
	amount := tierPrices[normalized]

	resp, err := s.gateway.CreatePayment(ctx, paymentprovider.CreatePaymentRequest{
		Amount:      formatAmount(amount),
		Capture:     true,
		Description: "Подписка FitCoach: " + normalized,
		Confirmation: &paymentprovider.Confirmation{
			Type:      "redirect",
			ReturnURL: returnURL,
		},
		Metadata: map[string]string{
			"user_uid":          userUID,
			"subscription_type": normalized,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.CreatePendingPayment(ctx, models.PendingPayment{
		ID:               uuid.New().String(),
		UserUID:          userUID,
		Email:            email,
		SubscriptionType: normalized,
		Amount:           amount,
		PaymentID:        resp.ID,
		CreatedAt:        time.Now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("payment created",
		slog.String("payment_id", resp.ID), slog.String("tier", normalized))
	paymentsCreated.Inc()

	if resp.Confirmation == nil {
		return "", nil
	}
	return resp.Confirmation.ConfirmationURL, nil
}

// ActivateFromPending находит свежайший необработанный платёж пользователя,
// опрашивает шлюз до подтверждения оплаты и активирует подписку.
// Платёж помечается обработанным строго после успешной записи подписки.
func (s *Service) ActivateFromPending(ctx context.Context, userUID, email, displayName string) (*ActivationOutcome, error) {
	const op = "payment.ActivateFromPending"
	log := s.log.With(slog.String("op", op), slog.String("user_uid", userUID))

	pending, err := s.repo.FindNewestUnprocessed(ctx, userUID)
	if errors.Is(err, repository.ErrPendingPaymentNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrNoPendingPayment)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.String("payment_id", pending.PaymentID))

	verified, err := s.pollPayment(ctx, log, pending)
	if err != nil {
		activationsFailed.Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log.Info("payment confirmed by gateway",
		slog.String("status", verified.Status),
		slog.String("amount", verified.Amount.Value))

	// Тариф берём из метаданных подтверждённого платежа: шлюз возвращает
	// то, что было фактически оплачено. Локальная запись лишь запасной
	// вариант на случай пустых метаданных.
	tier := pending.SubscriptionType
	if mt := verified.Metadata["subscription_type"]; mt != "" && mt != tier {
		log.Warn("pending record and gateway metadata disagree on tier",
			slog.String("pending_tier", tier), slog.String("gateway_tier", mt))
		tier = mt
	}

	resolvedEmail := email
	if resolvedEmail == "" {
		resolvedEmail = pending.Email
	}
	result, err := s.activator.Activate(ctx, userUID, resolvedEmail, displayName,
		tier, pending.PaymentID, pending.Amount)
	if err != nil {
		activationsFailed.Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Помечаем платёж только после записи подписки: при сбое здесь платёж
	// останется необработанным и активация повторится, что безопасно.
	if err := s.repo.MarkProcessed(ctx, pending.ID); err != nil {
		log.Error("subscription activated but payment not marked processed",
			slog.String("pending_id", pending.ID))
		return nil, fmt.Errorf("%s: mark processed: %w", op, err)
	}

	log.Info("subscription activated from pending payment",
		slog.String("tier", result.SubscriptionType), slog.Time("end_date", result.EndDate))
	activationsSucceeded.Inc()

	return &ActivationOutcome{
		Success:          true,
		PaymentID:        pending.PaymentID,
		SubscriptionType: result.SubscriptionType,
		EndDate:          result.EndDate,
	}, nil
}

// pollPayment опрашивает шлюз до подтверждения оплаты. Платёж в состоянии
// waiting_for_capture подтверждается на полную сумму.
func (s *Service) pollPayment(ctx context.Context, log *slog.Logger, pending *models.PendingPayment) (*paymentprovider.Payment, error) {
	var last *paymentprovider.Payment
	for attempt := 1; attempt <= pollAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.pollDelay):
			}
		}

		payment, err := s.gateway.GetPayment(ctx, pending.PaymentID)
		if err != nil {
			log.Warn("gateway status check failed",
				slog.Int("attempt", attempt), slog.Any("err", err))
			continue
		}
		last = payment
		gatewayPolls.Inc()

		switch payment.Status {
		case paymentprovider.StatusSucceeded:
			if payment.Paid {
				return payment, nil
			}
		case paymentprovider.StatusWaitingForCapture:
			captured, err := s.gateway.CapturePayment(ctx, pending.PaymentID, formatAmount(pending.Amount))
			if err != nil {
				log.Warn("capture failed", slog.Int("attempt", attempt), slog.Any("err", err))
				continue
			}
			if captured.Succeeded() {
				return captured, nil
			}
			last = captured
		case paymentprovider.StatusCanceled:
			return nil, fmt.Errorf("%w: status=%s paid=%t",
				ErrPaymentCanceled, payment.Status, payment.Paid)
		}

		log.Info("payment not confirmed yet",
			slog.Int("attempt", attempt), slog.String("status", payment.Status))
	}

	if last != nil {
		return nil, fmt.Errorf("%w: status=%s paid=%t",
			ErrPaymentNotSucceeded, last.Status, last.Paid)
	}
	return nil, ErrPaymentNotSucceeded
}

// ListPendingPayments возвращает отложенные платежи для админской панели.
func (s *Service) ListPendingPayments(ctx context.Context, limit, offset int) ([]*models.PendingPayment, error) {
	return s.repo.ListPendingPayments(ctx, limit, offset)
}
