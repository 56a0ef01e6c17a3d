package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// CreateExercise вставляет упражнение в библиотеку и возвращает его ID.
func (s *Storage) CreateExercise(ctx context.Context, ex models.Exercise) (int64, error) {
	const op = "storage.CreateExercise"

	query := `INSERT INTO exercises (name, muscle_group, level, description, equipment, media_url)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		ex.Name, ex.MuscleGroup, ex.Level, ex.Description, ex.Equipment, ex.MediaURL).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateExercise перезаписывает поля упражнения по ID и возвращает
// количество затронутых строк.
func (s *Storage) UpdateExercise(ctx context.Context, ex models.Exercise) (int64, error) {
	const op = "storage.UpdateExercise"

	query := `UPDATE exercises
			  SET name = $2, muscle_group = $3, level = $4,
				  description = $5, equipment = $6, media_url = $7
			  WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query,
		ex.ID, ex.Name, ex.MuscleGroup, ex.Level, ex.Description, ex.Equipment, ex.MediaURL)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// RemoveExercise удаляет упражнение по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveExercise(ctx context.Context, id int64) (int64, error) {
	const op = "storage.RemoveExercise"

	result, err := s.DB.ExecContext(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ListExercises возвращает упражнения с необязательными фильтрами
// по группе мышц и уровню.
func (s *Storage) ListExercises(ctx context.Context, filter models.ExerciseFilter) ([]models.Exercise, error) {
	const op = "storage.ListExercises"

	query := `SELECT id, name, muscle_group, level, description, equipment, media_url, created_at
			  FROM exercises
			  WHERE ($1 = '' OR muscle_group = $1)
				AND ($2 = '' OR level = $2)
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, filter.MuscleGroup, filter.Level)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.MuscleGroup, &ex.Level,
			&ex.Description, &ex.Equipment, &ex.MediaURL, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetExercisesByIDs возвращает упражнения по списку идентификаторов.
// Неизвестные идентификаторы молча пропускаются.
func (s *Storage) GetExercisesByIDs(ctx context.Context, ids []int64) ([]models.Exercise, error) {
	const op = "storage.GetExercisesByIDs"

	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := `SELECT id, name, muscle_group, level, description, equipment, media_url, created_at
			  FROM exercises
			  WHERE id IN (` + strings.Join(placeholders, ", ") + `)
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Exercise
	for rows.Next() {
		var ex models.Exercise
		if err := rows.Scan(&ex.ID, &ex.Name, &ex.MuscleGroup, &ex.Level,
			&ex.Description, &ex.Equipment, &ex.MediaURL, &ex.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
