package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/sl"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// MergeReport итог слияния дубликатов аккаунтов с одним email.
type MergeReport struct {
	Email        string            `json:"email"`
	CanonicalUID string            `json:"canonicalUid"`
	MergedUIDs   []string          `json:"mergedUids"`
	Failed       map[string]string `json:"failed,omitempty"` // uid -> причина
}

// MergeDuplicates сливает аккаунты с одинаковым email в один канонический.
// Канонический аккаунт: с самой поздней датой окончания действующей
// подписки, а при отсутствии действующих - созданный раньше всех.
// Лучшая подписка переносится на канонический аккаунт, остальные
// аккаунты удаляются. Ошибка удаления одного дубликата не прерывает
// удаление остальных, все неудачи попадают в отчёт.
func (s *Service) MergeDuplicates(ctx context.Context, email string) (*MergeReport, error) {
	const op = "subscription.MergeDuplicates"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	accounts, err := s.repo.FindAccountsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	report := &MergeReport{Email: email, Failed: map[string]string{}}
	if len(accounts) < 2 {
		if len(accounts) == 1 {
			report.CanonicalUID = accounts[0].UID
		}
		return report, nil
	}

	now := s.now()
	canonical := pickCanonical(accounts, now)
	report.CanonicalUID = canonical.UID

	// Лучшая подписка среди всех дубликатов должна остаться на
	// каноническом аккаунте.
	best := canonical.Subscription
	for _, account := range accounts {
		if account == canonical || account.Subscription == nil {
			continue
		}
		if betterSubscription(account.Subscription, best, now) {
			best = account.Subscription
		}
	}
	if best != canonical.Subscription {
		merged := *canonical
		merged.Subscription = best
		if err := s.repo.OverwriteAccount(ctx, merged); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, account := range accounts {
		if account.UID == canonical.UID {
			continue
		}
		uid := account.UID
		g.Go(func() error {
			if err := s.repo.DeleteAccount(gctx, uid); err != nil {
				log.Warn("failed to delete duplicate account",
					slog.String("uid", uid), sl.Err(err))
				mu.Lock()
				report.Failed[uid] = err.Error()
				mu.Unlock()
				return nil
			}
			mu.Lock()
			report.MergedUIDs = append(report.MergedUIDs, uid)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("merged duplicate accounts",
		slog.String("canonical_uid", canonical.UID),
		slog.Int("merged", len(report.MergedUIDs)),
		slog.Int("failed", len(report.Failed)))
	return report, nil
}

// pickCanonical выбирает канонический аккаунт из списка дубликатов.
// Список отсортирован по убыванию даты создания.
func pickCanonical(accounts []*models.Account, now time.Time) *models.Account {
	var withActive *models.Account
	for _, account := range accounts {
		if account.Subscription == nil || !account.Subscription.CurrentlyActive(now) {
			continue
		}
		if withActive == nil || account.Subscription.EndDate.After(withActive.Subscription.EndDate) {
			withActive = account
		}
	}
	if withActive != nil {
		return withActive
	}
	// Действующих подписок нет - канонический самый старый аккаунт.
	return accounts[len(accounts)-1]
}

// betterSubscription сообщает, предпочтительнее ли кандидат текущего:
// действующая подписка лучше недействующей, при прочих равных
// выигрывает более поздняя дата окончания.
func betterSubscription(candidate, current *models.Subscription, now time.Time) bool {
	if current == nil {
		return true
	}
	candActive := candidate.CurrentlyActive(now)
	currActive := current.CurrentlyActive(now)
	if candActive != currActive {
		return candActive
	}
	return candidate.EndDate.After(current.EndDate)
}
