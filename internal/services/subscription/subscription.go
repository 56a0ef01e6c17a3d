// Package subscription содержит бизнес-логику жизненного цикла подписок:
// расчёт периода по тарифу, разрешение аккаунта, активация с продлением
// и слияние дубликатов аккаунтов.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
	"github.com/magabrotheeeer/fitcoach-backend/internal/storage/repository"
)

// Тарифы подписки и их длительность в днях. Периоды фиксированные,
// календарная длина месяца не учитывается.
const (
	TierMonthly     = "monthly"
	TierThreeMonths = "3months"
	TierYearly      = "yearly"
)

var tierDays = map[string]int{
	TierMonthly:     30,
	TierThreeMonths: 90,
	TierYearly:      365,
}

// ErrVerificationFailed возвращается, когда контрольное чтение после записи
// не подтвердило активную подписку.
var ErrVerificationFailed = errors.New("subscription verification failed after write")

// AccountRepository определяет методы для работы с аккаунтами в хранилище.
type AccountRepository interface {
	// GetAccountByUID возвращает аккаунт по UID.
	GetAccountByUID(ctx context.Context, uid string) (*models.Account, error)
	// FindAccountsByEmail возвращает аккаунты с указанным email, новые первыми.
	FindAccountsByEmail(ctx context.Context, email string) ([]*models.Account, error)
	// UpsertSubscription записывает подписку аккаунта, создавая аккаунт при необходимости.
	UpsertSubscription(ctx context.Context, uid string, sub models.Subscription, email, displayName string) error
	// OverwriteAccount полностью перезаписывает строку аккаунта.
	OverwriteAccount(ctx context.Context, account models.Account) error
	// DeleteAccount удаляет аккаунт по UID.
	DeleteAccount(ctx context.Context, uid string) error
	// ListAccounts возвращает все аккаунты с пагинацией.
	ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error)
	// DeactivateSubscription снимает флаг активности, возвращает число затронутых строк.
	DeactivateSubscription(ctx context.Context, uid string) (int64, error)
}

// ActivationResult итог активации подписки.
type ActivationResult struct {
	UserUID          string    `json:"userUid"`
	SubscriptionType string    `json:"subscriptionType"`
	StartDate        time.Time `json:"startDate"`
	EndDate          time.Time `json:"endDate"`
	Extended         bool      `json:"extended"` // true, если продлили действующую подписку
}

// Service реализует бизнес-логику жизненного цикла подписок.
type Service struct {
	repo AccountRepository
	log  *slog.Logger
	now  func() time.Time
}

// New создает новый экземпляр Service.
func New(repo AccountRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
}

// NormalizeTier приводит тариф к одному из известных значений.
// Неизвестный тариф молча считается месячным.
func NormalizeTier(tier string) string {
	if _, ok := tierDays[tier]; ok {
		return tier
	}
	return TierMonthly
}

// ComputeEndDate рассчитывает дату окончания подписки по тарифу.
// Если текущая подписка ещё действует, новый период прибавляется к её
// дате окончания, иначе отсчёт идёт от текущего момента.
func ComputeEndDate(current *models.Subscription, tier string, now time.Time) (start, end time.Time, extended bool) {
	days := tierDays[NormalizeTier(tier)]
	start = now
	if current != nil && current.CurrentlyActive(now) {
		start = current.EndDate
		extended = true
	}
	return start, start.AddDate(0, 0, days), extended
}

// ResolveAccount находит аккаунт плательщика: сперва по UID, затем по email.
// При нескольких аккаунтах с одним email берётся созданный последним.
// Если аккаунт не найден, возвращается заготовка нового с переданным UID
// или сгенерированным, когда UID пуст.
func (s *Service) ResolveAccount(ctx context.Context, userUID, email string) (*models.Account, bool, error) {
	const op = "subscription.ResolveAccount"

	if userUID != "" {
		account, err := s.repo.GetAccountByUID(ctx, userUID)
		if err == nil {
			return account, true, nil
		}
		if !errors.Is(err, repository.ErrAccountNotFound) {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}
	}

	if email != "" {
		accounts, err := s.repo.FindAccountsByEmail(ctx, email)
		if err != nil {
			return nil, false, fmt.Errorf("%s: %w", op, err)
		}
		if len(accounts) > 0 {
			return accounts[0], true, nil
		}
	}

	uid := userUID
	if uid == "" {
		uid = uuid.New().String()
	}
	return &models.Account{
		UID:       uid,
		Email:     email,
		Role:      models.RoleUser,
		CreatedAt: s.now(),
	}, false, nil
}

// Activate активирует или продлевает подписку после успешной оплаты.
// Запись в хранилище подтверждается контрольным чтением: подписка
// считается активированной только если повторное чтение это показало.
func (s *Service) Activate(ctx context.Context, userUID, email, displayName, tier, paymentID string, amount int64) (*ActivationResult, error) {
	const op = "subscription.Activate"
	log := s.log.With(slog.String("op", op), slog.String("user_uid", userUID))

	account, existed, err := s.ResolveAccount(ctx, userUID, email)
	if err != nil {
		return nil, err
	}
	if account.UID != userUID {
		log.Info("resolved account by email",
			slog.String("resolved_uid", account.UID), slog.String("email", email))
	}

	now := s.now()
	normalized := NormalizeTier(tier)
	if normalized != tier {
		log.Warn("unknown subscription tier, falling back to monthly", slog.String("tier", tier))
	}

	start, end, extended := ComputeEndDate(account.Subscription, normalized, now)
	sub := models.Subscription{
		Type:      normalized,
		Active:    true,
		StartDate: start,
		EndDate:   end,
		PaymentID: paymentID,
		Amount:    amount,
		UpdatedAt: now,
	}

	resolvedName := displayName
	if resolvedName == "" {
		resolvedName = account.DisplayName
	}
	if err := s.repo.UpsertSubscription(ctx, account.UID, sub, email, resolvedName); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Контрольное чтение: запись не считается успешной, пока хранилище
	// не вернуло активную подписку.
	written, err := s.repo.GetAccountByUID(ctx, account.UID)
	if err != nil {
		return nil, fmt.Errorf("%s: verify: %w", op, err)
	}
	if written.Subscription == nil || !written.Subscription.CurrentlyActive(now) {
		return nil, fmt.Errorf("%s: %w", op, ErrVerificationFailed)
	}

	log.Info("subscription activated",
		slog.String("tier", normalized),
		slog.Time("end_date", end),
		slog.Bool("extended", extended),
		slog.Bool("account_existed", existed))

	return &ActivationResult{
		UserUID:          account.UID,
		SubscriptionType: normalized,
		StartDate:        start,
		EndDate:          end,
		Extended:         extended,
	}, nil
}

// Deactivate снимает активность подписки пользователя.
func (s *Service) Deactivate(ctx context.Context, userUID string) error {
	const op = "subscription.Deactivate"

	affected, err := s.repo.DeactivateSubscription(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrAccountNotFound)
	}
	s.log.Info("subscription deactivated", slog.String("user_uid", userUID))
	return nil
}

// ListAccounts возвращает аккаунты с вычисленным на текущий момент
// статусом подписки. Сырой флаг активности из хранилища не используется.
func (s *Service) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	const op = "subscription.ListAccounts"

	accounts, err := s.repo.ListAccounts(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	for _, account := range accounts {
		if account.Subscription != nil {
			account.Subscription.Active = account.Subscription.CurrentlyActive(now)
		}
	}
	return accounts, nil
}
