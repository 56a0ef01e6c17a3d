// Package scheduler периодически находит истекающие подписки и публикует
// уведомления в очередь.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

const scanInterval = 12 * time.Hour

// AccountRepository определяет выборку аккаунтов с истекающими подписками.
type AccountRepository interface {
	// FindSubscriptionsExpiringTomorrow возвращает аккаунты, чья подписка истекает завтра.
	FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.Account, error)
}

// Service публикует уведомления об истекающих подписках.
type Service struct {
	repo AccountRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo AccountRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Run сканирует подписки сразу и далее по расписанию, пока контекст жив.
func (s *Service) Run(ctx context.Context, channel *amqp.Channel) {
	s.scan(ctx, channel)

	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.scan(ctx, channel)
		}
	}
}

func (s *Service) scan(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("scanning for subscriptions expiring tomorrow")
	accounts, err := s.repo.FindSubscriptionsExpiringTomorrow(ctx)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(accounts) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", slog.Int("count", len(accounts)))

	for _, account := range accounts {
		if account.Email == "" || account.Subscription == nil {
			continue
		}
		notice := models.ExpiryNotice{
			UserUID:          account.UID,
			Email:            account.Email,
			DisplayName:      account.DisplayName,
			SubscriptionType: account.Subscription.Type,
			EndDate:          account.Subscription.EndDate,
		}
		if err := rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange, "expiring", notice); err != nil {
			s.log.Error("failed to publish expiry notice",
				slog.String("user_uid", account.UID), sl.Err(err))
		}
	}
}
