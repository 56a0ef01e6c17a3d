package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// CreateProgram вставляет программу тренировок и возвращает её ID.
// Упражнения программы сериализуются в JSONB.
func (s *Storage) CreateProgram(ctx context.Context, p models.TrainingProgram) (int64, error) {
	const op = "storage.CreateProgram"

	items, err := json.Marshal(p.Items)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO training_programs (coach_uid, user_uid, title, comment, items)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	err = s.DB.QueryRowContext(ctx, query, p.CoachUID, p.UserUID, p.Title, p.Comment, items).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListProgramsForUser возвращает программы, составленные пользователем
// или назначенные ему.
func (s *Storage) ListProgramsForUser(ctx context.Context, userUID string, limit, offset int) ([]*models.TrainingProgram, error) {
	const op = "storage.ListProgramsForUser"

	query := `SELECT id, coach_uid, user_uid, title, comment, items, created_at
			  FROM training_programs
			  WHERE coach_uid = $1 OR user_uid = $1
			  ORDER BY created_at DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.TrainingProgram
	for rows.Next() {
		var p models.TrainingProgram
		var items []byte
		if err := rows.Scan(&p.ID, &p.CoachUID, &p.UserUID, &p.Title, &p.Comment, &items, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(items, &p.Items); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// AssignProgram назначает программу пользователю и возвращает количество
// изменённых строк.
func (s *Storage) AssignProgram(ctx context.Context, programID int64, userUID string) (int, error) {
	const op = "storage.AssignProgram"

	result, err := s.DB.ExecContext(ctx,
		`UPDATE training_programs SET user_uid = $2 WHERE id = $1`, programID, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// UpsertWeeklyPlan записывает недельный план пользователя целиком.
// План на неделю один, повторная запись перезаписывает прежний.
func (s *Storage) UpsertWeeklyPlan(ctx context.Context, plan models.WeeklyPlan) error {
	const op = "storage.UpsertWeeklyPlan"

	days, err := json.Marshal(plan.Days)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO weekly_plans (user_uid, week_start, days, created_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_uid, week_start) DO UPDATE SET days = EXCLUDED.days`
	_, err = s.DB.ExecContext(ctx, query, plan.UserUID, plan.WeekStart, days, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetWeeklyPlan возвращает недельный план пользователя на указанную неделю.
// Отсутствие плана сообщается через ErrWeeklyPlanNotFound.
func (s *Storage) GetWeeklyPlan(ctx context.Context, userUID string, weekStart time.Time) (*models.WeeklyPlan, error) {
	const op = "storage.GetWeeklyPlan"

	query := `SELECT id, user_uid, week_start, days, created_at
			  FROM weekly_plans
			  WHERE user_uid = $1 AND week_start = $2`
	var plan models.WeeklyPlan
	var days []byte
	err := s.DB.QueryRowContext(ctx, query, userUID, weekStart).Scan(
		&plan.ID, &plan.UserUID, &plan.WeekStart, &days, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWeeklyPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(days, &plan.Days); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &plan, nil
}
