package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
	"github.com/magabrotheeeer/fitcoach-backend/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetAccountByUID(ctx context.Context, uid string) (*models.Account, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *RepoMock) FindAccountsByEmail(ctx context.Context, email string) ([]*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *RepoMock) UpsertSubscription(ctx context.Context, uid string, sub models.Subscription, email, displayName string) error {
	return m.Called(ctx, uid, sub, email, displayName).Error(0)
}

func (m *RepoMock) OverwriteAccount(ctx context.Context, account models.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *RepoMock) DeleteAccount(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *RepoMock) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func (m *RepoMock) DeactivateSubscription(ctx context.Context, uid string) (int64, error) {
	args := m.Called(ctx, uid)
	return args.Get(0).(int64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(repo *RepoMock, now time.Time) *Service {
	svc := New(repo, newNoopLogger())
	svc.now = func() time.Time { return now }
	return svc
}

func TestComputeEndDate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		current      *models.Subscription
		tier         string
		wantStart    time.Time
		wantEnd      time.Time
		wantExtended bool
	}{
		{
			name:      "месячный тариф без подписки",
			current:   nil,
			tier:      TierMonthly,
			wantStart: now,
			wantEnd:   now.AddDate(0, 0, 30),
		},
		{
			name:      "квартальный тариф без подписки",
			current:   nil,
			tier:      TierThreeMonths,
			wantStart: now,
			wantEnd:   now.AddDate(0, 0, 90),
		},
		{
			name:      "годовой тариф без подписки",
			current:   nil,
			tier:      TierYearly,
			wantStart: now,
			wantEnd:   now.AddDate(0, 0, 365),
		},
		{
			name: "действующая подписка продлевается от даты окончания",
			current: &models.Subscription{
				Active:  true,
				EndDate: now.AddDate(0, 0, 10),
			},
			tier:         TierMonthly,
			wantStart:    now.AddDate(0, 0, 10),
			wantEnd:      now.AddDate(0, 0, 40),
			wantExtended: true,
		},
		{
			name: "истёкшая подписка не продлевается, отсчёт от сегодня",
			current: &models.Subscription{
				Active:  true,
				EndDate: now.AddDate(0, 0, -5),
			},
			tier:      TierMonthly,
			wantStart: now,
			wantEnd:   now.AddDate(0, 0, 30),
		},
		{
			name: "неактивная подписка с будущей датой не продлевается",
			current: &models.Subscription{
				Active:  false,
				EndDate: now.AddDate(0, 0, 10),
			},
			tier:      TierMonthly,
			wantStart: now,
			wantEnd:   now.AddDate(0, 0, 30),
		},
		{
			name:      "неизвестный тариф считается месячным",
			current:   nil,
			tier:      "lifetime",
			wantStart: now,
			wantEnd:   now.AddDate(0, 0, 30),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, extended := ComputeEndDate(tt.current, tt.tier, now)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
			assert.Equal(t, tt.wantExtended, extended)
		})
	}
}

func TestService_ResolveAccount(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	byUID := &models.Account{UID: "uid-1", Email: "old@example.com"}
	newest := &models.Account{UID: "uid-new", Email: "user@example.com", CreatedAt: now}
	oldest := &models.Account{UID: "uid-old", Email: "user@example.com", CreatedAt: now.AddDate(0, -1, 0)}

	tests := []struct {
		name       string
		userUID    string
		email      string
		setupMocks func(r *RepoMock)
		wantUID    string
		wantExists bool
	}{
		{
			name:    "поиск по uid приоритетнее email",
			userUID: "uid-1",
			email:   "user@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("GetAccountByUID", mock.Anything, "uid-1").Return(byUID, nil).Once()
			},
			wantUID:    "uid-1",
			wantExists: true,
		},
		{
			name:    "uid не найден, берётся новейший аккаунт по email",
			userUID: "uid-missing",
			email:   "user@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("GetAccountByUID", mock.Anything, "uid-missing").
					Return(nil, repository.ErrAccountNotFound).Once()
				r.On("FindAccountsByEmail", mock.Anything, "user@example.com").
					Return([]*models.Account{newest, oldest}, nil).Once()
			},
			wantUID:    "uid-new",
			wantExists: true,
		},
		{
			name:    "ничего не найдено, заготовка с переданным uid",
			userUID: "uid-fresh",
			email:   "fresh@example.com",
			setupMocks: func(r *RepoMock) {
				r.On("GetAccountByUID", mock.Anything, "uid-fresh").
					Return(nil, repository.ErrAccountNotFound).Once()
				r.On("FindAccountsByEmail", mock.Anything, "fresh@example.com").
					Return([]*models.Account{}, nil).Once()
			},
			wantUID:    "uid-fresh",
			wantExists: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newTestService(repo, now)
			tt.setupMocks(repo)

			account, exists, err := svc.ResolveAccount(context.Background(), tt.userUID, tt.email)
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, account.UID)
			assert.Equal(t, tt.wantExists, exists)

			repo.AssertExpectations(t)
		})
	}
}

func TestService_ResolveAccount_GeneratesUID(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, time.Now())

	repo.On("FindAccountsByEmail", mock.Anything, "anon@example.com").
		Return([]*models.Account{}, nil).Once()

	account, exists, err := svc.ResolveAccount(context.Background(), "", "anon@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NotEmpty(t, account.UID)
	assert.Equal(t, models.RoleUser, account.Role)
}

func TestService_Activate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	activeAccount := func() *models.Account {
		return &models.Account{
			UID:   "uid-1",
			Email: "user@example.com",
			Subscription: &models.Subscription{
				Type:    TierMonthly,
				Active:  true,
				EndDate: now.AddDate(0, 0, 10),
			},
		}
	}
	verified := func(end time.Time) *models.Account {
		return &models.Account{
			UID: "uid-1",
			Subscription: &models.Subscription{
				Type:    TierMonthly,
				Active:  true,
				EndDate: end,
			},
		}
	}

	t.Run("продление действующей подписки", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, now)

		wantEnd := now.AddDate(0, 0, 40)
		repo.On("GetAccountByUID", mock.Anything, "uid-1").Return(activeAccount(), nil).Once()
		repo.On("UpsertSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(sub models.Subscription) bool {
			return sub.Type == TierMonthly && sub.Active &&
				sub.StartDate.Equal(now.AddDate(0, 0, 10)) &&
				sub.EndDate.Equal(wantEnd) &&
				sub.PaymentID == "pay-1"
		}), "user@example.com", "").Return(nil).Once()
		repo.On("GetAccountByUID", mock.Anything, "uid-1").Return(verified(wantEnd), nil).Once()

		res, err := svc.Activate(context.Background(), "uid-1", "user@example.com", "", TierMonthly, "pay-1", 199000)
		require.NoError(t, err)
		assert.True(t, res.Extended)
		assert.Equal(t, wantEnd, res.EndDate)

		repo.AssertExpectations(t)
	})

	t.Run("истёкшая подписка начинается заново от сегодня", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, now)

		expired := &models.Account{
			UID: "uid-1",
			Subscription: &models.Subscription{
				Type:    TierMonthly,
				Active:  true,
				EndDate: now.AddDate(0, 0, -3),
			},
		}
		wantEnd := now.AddDate(0, 0, 90)
		repo.On("GetAccountByUID", mock.Anything, "uid-1").Return(expired, nil).Once()
		repo.On("UpsertSubscription", mock.Anything, "uid-1", mock.MatchedBy(func(sub models.Subscription) bool {
			return sub.StartDate.Equal(now) && sub.EndDate.Equal(wantEnd)
		}), "", "").Return(nil).Once()
		repo.On("GetAccountByUID", mock.Anything, "uid-1").Return(verified(wantEnd), nil).Once()

		res, err := svc.Activate(context.Background(), "uid-1", "", "", TierThreeMonths, "pay-2", 499000)
		require.NoError(t, err)
		assert.False(t, res.Extended)
		assert.Equal(t, wantEnd, res.EndDate)
	})

	t.Run("контрольное чтение не подтвердило активацию", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, now)

		repo.On("GetAccountByUID", mock.Anything, "uid-1").Return(activeAccount(), nil).Once()
		repo.On("UpsertSubscription", mock.Anything, "uid-1", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("GetAccountByUID", mock.Anything, "uid-1").
			Return(&models.Account{UID: "uid-1"}, nil).Once()

		_, err := svc.Activate(context.Background(), "uid-1", "", "", TierMonthly, "pay-3", 199000)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrVerificationFailed)
	})

	t.Run("ошибка записи в хранилище", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo, now)

		repo.On("GetAccountByUID", mock.Anything, "uid-1").Return(activeAccount(), nil).Once()
		repo.On("UpsertSubscription", mock.Anything, "uid-1", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("db down")).Once()

		_, err := svc.Activate(context.Background(), "uid-1", "", "", TierMonthly, "pay-4", 199000)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})
}

func TestService_Deactivate(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo, time.Now())

	repo.On("DeactivateSubscription", mock.Anything, "uid-1").Return(int64(1), nil).Once()
	require.NoError(t, svc.Deactivate(context.Background(), "uid-1"))

	repo.On("DeactivateSubscription", mock.Anything, "uid-missing").Return(int64(0), nil).Once()
	err := svc.Deactivate(context.Background(), "uid-missing")
	assert.ErrorIs(t, err, repository.ErrAccountNotFound)
}
