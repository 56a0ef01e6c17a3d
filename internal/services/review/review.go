// Package review содержит бизнес-логику отзывов о сервисе.
package review

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// ReviewRepository определяет методы для работы с отзывами в хранилище.
type ReviewRepository interface {
	// CreateReview сохраняет отзыв и возвращает его ID.
	CreateReview(ctx context.Context, review models.Review) (int64, error)
	// ListReviews возвращает отзывы с пагинацией, новые первыми.
	ListReviews(ctx context.Context, limit, offset int) ([]*models.Review, error)
}

// Service реализует бизнес-логику отзывов.
type Service struct {
	repo ReviewRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ReviewRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create сохраняет отзыв пользователя.
func (s *Service) Create(ctx context.Context, userUID, authorName string, req models.DummyReview) (int64, error) {
	review := models.Review{
		UserUID:    userUID,
		AuthorName: authorName,
		Rating:     req.Rating,
		Text:       req.Text,
	}
	id, err := s.repo.CreateReview(ctx, review)
	if err != nil {
		return 0, err
	}
	s.log.Info("review created", slog.Int64("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// List возвращает отзывы для публичной страницы.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*models.Review, error) {
	return s.repo.ListReviews(ctx, limit, offset)
}
