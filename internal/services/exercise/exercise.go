// Package exercise содержит бизнес-логику библиотеки упражнений,
// включая кеширование выборок.
package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

const cacheTTL = time.Hour

// ExerciseRepository определяет методы для работы с упражнениями в хранилище.
type ExerciseRepository interface {
	// CreateExercise добавляет упражнение и возвращает его ID.
	CreateExercise(ctx context.Context, exercise models.Exercise) (int64, error)
	// UpdateExercise перезаписывает упражнение, возвращает число затронутых строк.
	UpdateExercise(ctx context.Context, exercise models.Exercise) (int64, error)
	// RemoveExercise удаляет упражнение, возвращает число удалённых строк.
	RemoveExercise(ctx context.Context, id int64) (int64, error)
	// ListExercises возвращает упражнения по фильтру.
	ListExercises(ctx context.Context, filter models.ExerciseFilter) ([]models.Exercise, error)
	// GetExercisesByIDs возвращает упражнения по списку идентификаторов.
	GetExercisesByIDs(ctx context.Context, ids []int64) ([]models.Exercise, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// Service реализует бизнес-логику библиотеки упражнений с кешированием.
type Service struct {
	repo  ExerciseRepository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ExerciseRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(filter models.ExerciseFilter) string {
	return fmt.Sprintf("exercises:%s:%s", filter.MuscleGroup, filter.Level)
}

// List возвращает упражнения по фильтру, используя кеш или репозиторий.
func (s *Service) List(ctx context.Context, filter models.ExerciseFilter) ([]models.Exercise, error) {
	var result []models.Exercise
	key := cacheKey(filter)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return result, nil
	}

	result, err = s.repo.ListExercises(ctx, filter)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(key, result, cacheTTL); err != nil {
		s.log.Warn("failed to cache exercises", slog.String("key", key), slog.Any("err", err))
	}
	return result, nil
}

// GetByIDs возвращает упражнения по списку идентификаторов.
func (s *Service) GetByIDs(ctx context.Context, ids []int64) ([]models.Exercise, error) {
	if len(ids) == 0 {
		return []models.Exercise{}, nil
	}
	return s.repo.GetExercisesByIDs(ctx, ids)
}

// Create добавляет упражнение и инвалидирует кеш полного списка.
func (s *Service) Create(ctx context.Context, req models.DummyExercise) (int64, error) {
	exercise := models.Exercise{
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Level:       req.Level,
		Equipment:   req.Equipment,
		Description: req.Description,
		MediaURL:    req.MediaURL,
	}
	id, err := s.repo.CreateExercise(ctx, exercise)
	if err != nil {
		return 0, err
	}

	s.invalidateFor(exercise)
	s.log.Info("created new exercise", slog.Int64("id", id))
	return id, nil
}

// Update перезаписывает упражнение и инвалидирует затронутые выборки.
// Выборки по прежней группе мышц не сбрасываются и истекают по TTL.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyExercise) (int64, error) {
	exercise := models.Exercise{
		ID:          id,
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		Level:       req.Level,
		Equipment:   req.Equipment,
		Description: req.Description,
		MediaURL:    req.MediaURL,
	}
	count, err := s.repo.UpdateExercise(ctx, exercise)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		s.invalidateFor(exercise)
		s.log.Info("updated exercise", slog.Int64("id", id))
	}
	return count, nil
}

// Remove удаляет упражнение и инвалидирует кеш списков.
func (s *Service) Remove(ctx context.Context, id int64) (int64, error) {
	count, err := s.repo.RemoveExercise(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(cacheKey(models.ExerciseFilter{})); err != nil {
		s.log.Warn("failed to invalidate exercises cache", slog.Any("err", err))
	}
	return count, nil
}

// invalidateFor сбрасывает кеш выборок, которые могло затронуть
// добавленное упражнение.
func (s *Service) invalidateFor(exercise models.Exercise) {
	keys := []string{
		cacheKey(models.ExerciseFilter{}),
		cacheKey(models.ExerciseFilter{MuscleGroup: exercise.MuscleGroup}),
		cacheKey(models.ExerciseFilter{Level: exercise.Level}),
		cacheKey(models.ExerciseFilter{MuscleGroup: exercise.MuscleGroup, Level: exercise.Level}),
	}
	for _, key := range keys {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate exercises cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}
