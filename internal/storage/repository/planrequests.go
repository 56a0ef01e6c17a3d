package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// CreatePlanRequest вставляет заявку на индивидуальную программу и возвращает её ID.
func (s *Storage) CreatePlanRequest(ctx context.Context, r models.PlanRequest) (int64, error) {
	const op = "storage.CreatePlanRequest"

	query := `INSERT INTO plan_requests (user_uid, email, goal, level, comment, status)
			  VALUES ($1, $2, $3, $4, $5, 'new')
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query, r.UserUID, r.Email, r.Goal, r.Level, r.Comment).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPlanRequests возвращает заявки с пагинацией, при непустом статусе —
// только с этим статусом.
func (s *Storage) ListPlanRequests(ctx context.Context, status string, limit, offset int) ([]*models.PlanRequest, error) {
	const op = "storage.ListPlanRequests"

	query := `SELECT id, user_uid, email, goal, level, comment, status, created_at
			  FROM plan_requests
			  WHERE ($1 = '' OR status = $1)
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.PlanRequest
	for rows.Next() {
		var r models.PlanRequest
		if err := rows.Scan(&r.ID, &r.UserUID, &r.Email, &r.Goal, &r.Level, &r.Comment, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdatePlanRequestStatus меняет статус заявки и возвращает количество
// изменённых строк.
func (s *Storage) UpdatePlanRequestStatus(ctx context.Context, id int64, status string) (int, error) {
	const op = "storage.UpdatePlanRequestStatus"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE plan_requests SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
