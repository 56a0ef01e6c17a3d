package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// CreatePendingPayment вставляет запись о незавершённом платеже.
// Записи служат журналом аудита и никогда не удаляются.
func (s *Storage) CreatePendingPayment(ctx context.Context, p models.PendingPayment) error {
	const op = "storage.CreatePendingPayment"

	query := `INSERT INTO pending_payments (id, user_uid, email, subscription_type, amount, payment_id, processed, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.DB.ExecContext(ctx, query,
		p.ID, p.UserUID, p.Email, p.SubscriptionType, p.Amount, p.PaymentID, p.Processed, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindNewestUnprocessed возвращает самый свежий необработанный платёж пользователя.
// Отсутствие записи сообщается через ErrPendingPaymentNotFound.
func (s *Storage) FindNewestUnprocessed(ctx context.Context, userUID string) (*models.PendingPayment, error) {
	const op = "storage.FindNewestUnprocessed"

	query := `SELECT id, user_uid, email, subscription_type, amount, payment_id, processed, created_at
			  FROM pending_payments
			  WHERE user_uid = $1 AND processed = FALSE
			  ORDER BY created_at DESC
			  LIMIT 1`
	var p models.PendingPayment
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&p.ID, &p.UserUID, &p.Email, &p.SubscriptionType, &p.Amount, &p.PaymentID, &p.Processed, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPendingPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// MarkProcessed помечает платёж обработанным после записи подписки.
func (s *Storage) MarkProcessed(ctx context.Context, id string) error {
	const op = "storage.MarkProcessed"

	_, err := s.DB.ExecContext(ctx, `UPDATE pending_payments SET processed = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListPendingPayments возвращает список платежей с пагинацией для админ-панели.
func (s *Storage) ListPendingPayments(ctx context.Context, limit, offset int) ([]*models.PendingPayment, error) {
	const op = "storage.ListPendingPayments"

	query := `SELECT id, user_uid, email, subscription_type, amount, payment_id, processed, created_at
			  FROM pending_payments
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.PendingPayment
	for rows.Next() {
		var p models.PendingPayment
		if err := rows.Scan(&p.ID, &p.UserUID, &p.Email, &p.SubscriptionType, &p.Amount,
			&p.PaymentID, &p.Processed, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
