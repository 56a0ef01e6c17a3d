package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/password"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateAccount(ctx context.Context, account models.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *RepoMock) FindAccountsByEmail(ctx context.Context, email string) ([]*models.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Account), args.Error(1)
}

func newTestService(repo *RepoMock) *Service {
	return New(repo, jwt.NewJWTMaker("test-secret", time.Hour))
}

func TestService_Register(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	repo.On("FindAccountsByEmail", mock.Anything, "new@example.com").
		Return([]*models.Account{}, nil).Once()
	repo.On("CreateAccount", mock.Anything, mock.MatchedBy(func(a models.Account) bool {
		return a.Email == "new@example.com" && a.Role == models.RoleUser &&
			a.UID != "" && a.PasswordHash != "" && a.PasswordHash != "secret123"
	})).Return(nil).Once()

	uid, err := svc.Register(context.Background(), "new@example.com", "Иван", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	repo.AssertExpectations(t)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	repo := new(RepoMock)
	svc := newTestService(repo)

	hash, err := password.GetHash("other")
	require.NoError(t, err)
	repo.On("FindAccountsByEmail", mock.Anything, "dup@example.com").
		Return([]*models.Account{{UID: "uid-1", Email: "dup@example.com", PasswordHash: hash}}, nil).Once()

	_, err = svc.Register(context.Background(), "dup@example.com", "", "secret123")
	require.Error(t, err)
	repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}

func TestService_Login(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	account := &models.Account{
		UID:          "uid-1",
		Email:        "user@example.com",
		Role:         models.RoleUser,
		PasswordHash: hash,
	}

	t.Run("успешный вход", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		repo.On("FindAccountsByEmail", mock.Anything, "user@example.com").
			Return([]*models.Account{account}, nil).Once()

		token, role, err := svc.Login(context.Background(), "user@example.com", "secret123")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, models.RoleUser, role)

		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", claims.UserUID)
		assert.Equal(t, models.RoleUser, claims.Role)
	})

	t.Run("неверный пароль", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		repo.On("FindAccountsByEmail", mock.Anything, "user@example.com").
			Return([]*models.Account{account}, nil).Once()

		_, _, err := svc.Login(context.Background(), "user@example.com", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("аккаунт без пароля пропускается", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newTestService(repo)

		// Аккаунт, созданный активацией платежа, пароля не имеет.
		paymentOnly := &models.Account{UID: "uid-pay", Email: "user@example.com"}
		repo.On("FindAccountsByEmail", mock.Anything, "user@example.com").
			Return([]*models.Account{paymentOnly, account}, nil).Once()

		token, _, err := svc.Login(context.Background(), "user@example.com", "secret123")
		require.NoError(t, err)
		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", claims.UserUID)
	})
}
