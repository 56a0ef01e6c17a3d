package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

const accountColumns = `uid, email, display_name, role, password_hash,
		sub_type, sub_active, sub_start, sub_end, sub_payment_id, sub_amount, sub_updated_at,
		created_at`

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var acc models.Account
	var email, displayName, passwordHash sql.NullString
	var subType, subPaymentID sql.NullString
	var subActive sql.NullBool
	var subStart, subEnd, subUpdatedAt sql.NullTime
	var subAmount sql.NullInt64

	if err := row.Scan(&acc.UID, &email, &displayName, &acc.Role, &passwordHash,
		&subType, &subActive, &subStart, &subEnd, &subPaymentID, &subAmount, &subUpdatedAt,
		&acc.CreatedAt); err != nil {
		return nil, err
	}
	acc.Email = email.String
	acc.DisplayName = displayName.String
	acc.PasswordHash = passwordHash.String

	if subType.Valid {
		acc.Subscription = &models.Subscription{
			Type:      subType.String,
			Active:    subActive.Bool,
			StartDate: subStart.Time,
			EndDate:   subEnd.Time,
			PaymentID: subPaymentID.String,
			Amount:    subAmount.Int64,
			UpdatedAt: subUpdatedAt.Time,
		}
	}
	return &acc, nil
}

// CreateAccount вставляет новый аккаунт без подписки.
func (s *Storage) CreateAccount(ctx context.Context, acc models.Account) error {
	const op = "storage.CreateAccount"

	query := `INSERT INTO users (uid, email, display_name, role, password_hash, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.DB.ExecContext(ctx, query,
		acc.UID, acc.Email, acc.DisplayName, acc.Role, acc.PasswordHash, acc.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetAccountByUID возвращает аккаунт по идентификатору.
// Отсутствие записи сообщается через ErrAccountNotFound.
func (s *Storage) GetAccountByUID(ctx context.Context, uid string) (*models.Account, error) {
	const op = "storage.GetAccountByUID"

	query := `SELECT ` + accountColumns + ` FROM users WHERE uid = $1`
	acc, err := scanAccount(s.DB.QueryRowContext(ctx, query, uid))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// FindAccountsByEmail возвращает все аккаунты с указанным email.
// Email в хранилище не уникален, дубликаты возможны. Порядок фиксирован:
// сначала самые свежие записи, чтобы выбор "первого результата" был детерминированным.
func (s *Storage) FindAccountsByEmail(ctx context.Context, email string) ([]*models.Account, error) {
	const op = "storage.FindAccountsByEmail"

	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1 ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpsertSubscription записывает подписку в аккаунт целиком, создавая аккаунт,
// если его нет. Запись в стиле merge: при гонке с параллельным созданием
// аккаунта побеждает последняя запись, ошибок конфликта не возникает.
// Пустой email существующей записи дозаполняется, если новый известен.
func (s *Storage) UpsertSubscription(ctx context.Context, uid string, sub models.Subscription, email, displayName string) error {
	const op = "storage.UpsertSubscription"

	query := `INSERT INTO users (uid, email, display_name, role, created_at,
				  sub_type, sub_active, sub_start, sub_end, sub_payment_id, sub_amount, sub_updated_at)
			  VALUES ($1, $2, $3, 'user', $4, $5, $6, $7, $8, $9, $10, $11)
			  ON CONFLICT (uid) DO UPDATE SET
				  sub_type = EXCLUDED.sub_type,
				  sub_active = EXCLUDED.sub_active,
				  sub_start = EXCLUDED.sub_start,
				  sub_end = EXCLUDED.sub_end,
				  sub_payment_id = EXCLUDED.sub_payment_id,
				  sub_amount = EXCLUDED.sub_amount,
				  sub_updated_at = EXCLUDED.sub_updated_at,
				  email = CASE WHEN users.email = '' OR users.email IS NULL
						  THEN EXCLUDED.email ELSE users.email END`
	_, err := s.DB.ExecContext(ctx, query,
		uid, email, displayName, time.Now().UTC(),
		sub.Type, sub.Active, sub.StartDate, sub.EndDate, sub.PaymentID, sub.Amount, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// OverwriteAccount перезаписывает аккаунт целиком. Используется при слиянии
// дубликатов для записи канонической версии.
func (s *Storage) OverwriteAccount(ctx context.Context, acc models.Account) error {
	const op = "storage.OverwriteAccount"

	var subType, subPaymentID sql.NullString
	var subActive sql.NullBool
	var subStart, subEnd, subUpdatedAt sql.NullTime
	var subAmount sql.NullInt64
	if acc.Subscription != nil {
		subType = sql.NullString{String: acc.Subscription.Type, Valid: true}
		subActive = sql.NullBool{Bool: acc.Subscription.Active, Valid: true}
		subStart = sql.NullTime{Time: acc.Subscription.StartDate, Valid: true}
		subEnd = sql.NullTime{Time: acc.Subscription.EndDate, Valid: true}
		subPaymentID = sql.NullString{String: acc.Subscription.PaymentID, Valid: true}
		subAmount = sql.NullInt64{Int64: acc.Subscription.Amount, Valid: true}
		subUpdatedAt = sql.NullTime{Time: acc.Subscription.UpdatedAt, Valid: true}
	}

	query := `UPDATE users SET email = $2, display_name = $3,
				  sub_type = $4, sub_active = $5, sub_start = $6, sub_end = $7,
				  sub_payment_id = $8, sub_amount = $9, sub_updated_at = $10
			  WHERE uid = $1`
	_, err := s.DB.ExecContext(ctx, query, acc.UID, acc.Email, acc.DisplayName,
		subType, subActive, subStart, subEnd, subPaymentID, subAmount, subUpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteAccount удаляет аккаунт по идентификатору. Используется только
// при слиянии дубликатов, в остальных случаях аккаунты не удаляются.
func (s *Storage) DeleteAccount(ctx context.Context, uid string) error {
	const op = "storage.DeleteAccount"

	_, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListAccounts возвращает список аккаунтов с пагинацией для админ-панели.
func (s *Storage) ListAccounts(ctx context.Context, limit, offset int) ([]*models.Account, error) {
	const op = "storage.ListAccounts"

	query := `SELECT ` + accountColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// DeactivateSubscription сбрасывает флаг активности подписки.
// Запись о подписке сохраняется, физически она не удаляется.
func (s *Storage) DeactivateSubscription(ctx context.Context, uid string) (int64, error) {
	const op = "storage.DeactivateSubscription"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE users SET sub_active = FALSE, sub_updated_at = $2 WHERE uid = $1 AND sub_type IS NOT NULL`,
		uid, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// FindSubscriptionsExpiringTomorrow возвращает аккаунты, чья подписка
// истекает завтра. Используется планировщиком уведомлений.
func (s *Storage) FindSubscriptionsExpiringTomorrow(ctx context.Context) ([]*models.Account, error) {
	const op = "storage.FindSubscriptionsExpiringTomorrow"

	query := `SELECT ` + accountColumns + ` FROM users
			  WHERE sub_active = TRUE
				AND sub_end::date = (CURRENT_DATE + INTERVAL '1 day')::date`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
