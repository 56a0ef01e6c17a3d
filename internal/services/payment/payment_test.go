package payment

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
	"github.com/magabrotheeeer/fitcoach-backend/internal/paymentprovider"
	"github.com/magabrotheeeer/fitcoach-backend/internal/services/subscription"
	"github.com/magabrotheeeer/fitcoach-backend/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePendingPayment(ctx context.Context, payment models.PendingPayment) error {
	return m.Called(ctx, payment).Error(0)
}

func (m *RepoMock) FindNewestUnprocessed(ctx context.Context, userUID string) (*models.PendingPayment, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PendingPayment), args.Error(1)
}

func (m *RepoMock) MarkProcessed(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RepoMock) ListPendingPayments(ctx context.Context, limit, offset int) ([]*models.PendingPayment, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PendingPayment), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreatePayment(ctx context.Context, req paymentprovider.CreatePaymentRequest) (*paymentprovider.CreatePaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreatePaymentResponse), args.Error(1)
}

func (m *GatewayMock) GetPayment(ctx context.Context, paymentID string) (*paymentprovider.Payment, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Payment), args.Error(1)
}

func (m *GatewayMock) CapturePayment(ctx context.Context, paymentID string, amount paymentprovider.Amount) (*paymentprovider.Payment, error) {
	args := m.Called(ctx, paymentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Payment), args.Error(1)
}

type ActivatorMock struct{ mock.Mock }

func (m *ActivatorMock) Activate(ctx context.Context, userUID, email, displayName, tier, paymentID string, amount int64) (*subscription.ActivationResult, error) {
	args := m.Called(ctx, userUID, email, displayName, tier, paymentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*subscription.ActivationResult), args.Error(1)
}

func newTestService(repo *RepoMock, gateway *GatewayMock, activator *ActivatorMock) *Service {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	svc := New(repo, gateway, activator, log)
	svc.pollDelay = time.Millisecond
	return svc
}

func pendingFixture() *models.PendingPayment {
	return &models.PendingPayment{
		ID:               "pp-11",
		UserUID:          "uid-1",
		Email:            "user@example.com",
		SubscriptionType: subscription.TierMonthly,
		Amount:           199000,
		PaymentID:        "pay-1",
	}
}

func TestService_ActivateFromPending(t *testing.T) {
	endDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	activation := &subscription.ActivationResult{
		UserUID:          "uid-1",
		SubscriptionType: subscription.TierMonthly,
		EndDate:          endDate,
	}

	t.Run("успешный платёж с первой попытки", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").Return(pendingFixture(), nil).Once()
		gateway.On("GetPayment", mock.Anything, "pay-1").
			Return(&paymentprovider.Payment{ID: "pay-1", Status: paymentprovider.StatusSucceeded, Paid: true}, nil).Once()
		activator.On("Activate", mock.Anything, "uid-1", "user@example.com", "",
			subscription.TierMonthly, "pay-1", int64(199000)).Return(activation, nil).Once()
		repo.On("MarkProcessed", mock.Anything, "pp-11").Return(nil).Once()

		outcome, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		require.NoError(t, err)
		assert.True(t, outcome.Success)
		assert.Equal(t, "pay-1", outcome.PaymentID)
		assert.Equal(t, subscription.TierMonthly, outcome.SubscriptionType)
		assert.Equal(t, endDate, outcome.EndDate)

		repo.AssertExpectations(t)
		gateway.AssertExpectations(t)
		activator.AssertExpectations(t)
	})

	t.Run("платёж подтверждается на третьей попытке", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").Return(pendingFixture(), nil).Once()
		gateway.On("GetPayment", mock.Anything, "pay-1").
			Return(&paymentprovider.Payment{ID: "pay-1", Status: paymentprovider.StatusPending}, nil).Twice()
		gateway.On("GetPayment", mock.Anything, "pay-1").
			Return(&paymentprovider.Payment{ID: "pay-1", Status: paymentprovider.StatusSucceeded, Paid: true}, nil).Once()
		activator.On("Activate", mock.Anything, "uid-1", "user@example.com", "",
			subscription.TierMonthly, "pay-1", int64(199000)).Return(activation, nil).Once()
		repo.On("MarkProcessed", mock.Anything, "pp-11").Return(nil).Once()

		outcome, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		require.NoError(t, err)
		assert.True(t, outcome.Success)

		gateway.AssertExpectations(t)
	})

	t.Run("waiting_for_capture подтверждается capture-запросом", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").Return(pendingFixture(), nil).Once()
		gateway.On("GetPayment", mock.Anything, "pay-1").
			Return(&paymentprovider.Payment{ID: "pay-1", Status: paymentprovider.StatusWaitingForCapture}, nil).Once()
		gateway.On("CapturePayment", mock.Anything, "pay-1",
			paymentprovider.Amount{Value: "1990.00", Currency: "RUB"}).
			Return(&paymentprovider.Payment{ID: "pay-1", Status: paymentprovider.StatusSucceeded, Paid: true}, nil).Once()
		activator.On("Activate", mock.Anything, "uid-1", "user@example.com", "",
			subscription.TierMonthly, "pay-1", int64(199000)).Return(activation, nil).Once()
		repo.On("MarkProcessed", mock.Anything, "pp-11").Return(nil).Once()

		outcome, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		require.NoError(t, err)
		assert.True(t, outcome.Success)

		gateway.AssertExpectations(t)
	})

	t.Run("отменённый платёж прекращает опрос", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").Return(pendingFixture(), nil).Once()
		gateway.On("GetPayment", mock.Anything, "pay-1").
			Return(&paymentprovider.Payment{ID: "pay-1", Status: paymentprovider.StatusCanceled}, nil).Once()

		_, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPaymentCanceled)
		assert.Contains(t, err.Error(), "status=canceled")

		gateway.AssertExpectations(t)
	})

	t.Run("лимит попыток исчерпан", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").Return(pendingFixture(), nil).Once()
		gateway.On("GetPayment", mock.Anything, "pay-1").
			Return(&paymentprovider.Payment{ID: "pay-1", Status: paymentprovider.StatusPending}, nil).Times(5)

		_, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPaymentNotSucceeded)
		assert.Contains(t, err.Error(), "status=pending")

		gateway.AssertExpectations(t)
	})

	t.Run("нет необработанного платежа", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").
			Return(nil, repository.ErrPendingPaymentNotFound).Once()

		_, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		assert.ErrorIs(t, err, ErrNoPendingPayment)
	})

	t.Run("ошибка базы не маскируется под отсутствие платежа", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").
			Return(nil, errors.New("connection refused")).Once()

		_, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoPendingPayment)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("тариф из метаданных шлюза авторитетнее локальной записи", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		yearly := &subscription.ActivationResult{
			UserUID:          "uid-1",
			SubscriptionType: subscription.TierYearly,
			EndDate:          endDate,
		}
		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").Return(pendingFixture(), nil).Once()
		gateway.On("GetPayment", mock.Anything, "pay-1").
			Return(&paymentprovider.Payment{
				ID:       "pay-1",
				Status:   paymentprovider.StatusSucceeded,
				Paid:     true,
				Metadata: map[string]string{"subscription_type": subscription.TierYearly},
			}, nil).Once()
		activator.On("Activate", mock.Anything, "uid-1", "user@example.com", "",
			subscription.TierYearly, "pay-1", int64(199000)).Return(yearly, nil).Once()
		repo.On("MarkProcessed", mock.Anything, "pp-11").Return(nil).Once()

		outcome, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		require.NoError(t, err)
		assert.Equal(t, subscription.TierYearly, outcome.SubscriptionType)

		activator.AssertExpectations(t)
	})

	t.Run("платёж остаётся необработанным при ошибке активации", func(t *testing.T) {
		repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
		svc := newTestService(repo, gateway, activator)

		repo.On("FindNewestUnprocessed", mock.Anything, "uid-1").Return(pendingFixture(), nil).Once()
		gateway.On("GetPayment", mock.Anything, "pay-1").
			Return(&paymentprovider.Payment{ID: "pay-1", Status: paymentprovider.StatusSucceeded, Paid: true}, nil).Once()
		activator.On("Activate", mock.Anything, "uid-1", "user@example.com", "",
			subscription.TierMonthly, "pay-1", int64(199000)).
			Return(nil, errors.New("db down")).Once()

		_, err := svc.ActivateFromPending(context.Background(), "uid-1", "", "")
		require.Error(t, err)
		repo.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything)
	})
}

func TestService_CreatePayment(t *testing.T) {
	repo, gateway, activator := new(RepoMock), new(GatewayMock), new(ActivatorMock)
	svc := newTestService(repo, gateway, activator)

	gateway.On("CreatePayment", mock.Anything, mock.MatchedBy(func(req paymentprovider.CreatePaymentRequest) bool {
		return req.Amount.Value == "1990.00" && req.Capture &&
			req.Metadata["user_uid"] == "uid-1" &&
			req.Metadata["subscription_type"] == subscription.TierMonthly
	})).Return(&paymentprovider.CreatePaymentResponse{
		ID:     "pay-9",
		Status: paymentprovider.StatusPending,
		Confirmation: &paymentprovider.Confirmation{
			Type:            "redirect",
			ConfirmationURL: "https://yookassa.example/confirm",
		},
	}, nil).Once()
	repo.On("CreatePendingPayment", mock.Anything, mock.MatchedBy(func(p models.PendingPayment) bool {
		return p.UserUID == "uid-1" && p.PaymentID == "pay-9" &&
			p.Amount == int64(199000) && p.ID != "" && !p.Processed
	})).Return(nil).Once()

	url, err := svc.CreatePayment(context.Background(), "uid-1", "user@example.com", subscription.TierMonthly, "https://app.example/return")
	require.NoError(t, err)
	assert.Equal(t, "https://yookassa.example/confirm", url)

	repo.AssertExpectations(t)
	gateway.AssertExpectations(t)
}

func TestTierPrice(t *testing.T) {
	assert.Equal(t, int64(199000), TierPrice(subscription.TierMonthly))
	assert.Equal(t, int64(499000), TierPrice(subscription.TierThreeMonths))
	assert.Equal(t, int64(1690000), TierPrice(subscription.TierYearly))
	assert.Equal(t, int64(199000), TierPrice("unknown"))
}
