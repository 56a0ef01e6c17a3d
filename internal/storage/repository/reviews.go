package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// CreateReview вставляет отзыв и возвращает его ID.
func (s *Storage) CreateReview(ctx context.Context, r models.Review) (int64, error) {
	const op = "storage.CreateReview"

	query := `INSERT INTO reviews (user_uid, author_name, rating, text)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query, r.UserUID, r.AuthorName, r.Rating, r.Text).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListReviews возвращает отзывы с пагинацией, свежие первыми.
func (s *Storage) ListReviews(ctx context.Context, limit, offset int) ([]*models.Review, error) {
	const op = "storage.ListReviews"

	query := `SELECT id, user_uid, author_name, rating, text, created_at
			  FROM reviews
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []*models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserUID, &r.AuthorName, &r.Rating, &r.Text, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
