// Package auth содержит логику регистрации, авторизации и валидации JWT.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/fitcoach-backend/internal/lib/password"
	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// ErrInvalidCredentials неверная пара email/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AccountRepository описывает контракт для работы с аккаунтами в базе данных.
type AccountRepository interface {
	// CreateAccount сохраняет новый аккаунт.
	CreateAccount(ctx context.Context, account models.Account) error
	// FindAccountsByEmail возвращает аккаунты с указанным email, новые первыми.
	FindAccountsByEmail(ctx context.Context, email string) ([]*models.Account, error)
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	accounts AccountRepository
	jwtMaker jwt.Maker
}

// New создает новый экземпляр Service.
func New(accounts AccountRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		accounts: accounts,
		jwtMaker: jwtMaker,
	}
}

// Register создает новый аккаунт с хэшированием пароля и ролью "user".
// Возвращает UID созданного аккаунта.
func (s *Service) Register(ctx context.Context, email, displayName, rawPassword string) (string, error) {
	const op = "auth.Register"

	existing, err := s.accounts.FindAccountsByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	for _, account := range existing {
		if account.PasswordHash != "" {
			return "", fmt.Errorf("%s: account with this email already registered", op)
		}
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	account := models.Account{
		UID:          uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		Role:         models.RoleUser,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return account.UID, nil
}

// Login проверяет пароль и выдаёт JWT. При нескольких аккаунтах с одним
// email проверяются все, входом считается совпадение с любым из них.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (token, role string, err error) {
	const op = "auth.Login"

	accounts, err := s.accounts.FindAccountsByEmail(ctx, email)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	for _, account := range accounts {
		if account.PasswordHash == "" {
			continue
		}
		if password.CompareHash(account.PasswordHash, rawPassword) != nil {
			continue
		}
		token, err = s.jwtMaker.GenerateToken(account.UID, account.Email, account.Role)
		if err != nil {
			return "", "", fmt.Errorf("%s: %w", op, err)
		}
		return token, account.Role, nil
	}
	return "", "", ErrInvalidCredentials
}

// ValidateToken проверяет JWT и возвращает claims, если токен корректен.
func (s *Service) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
