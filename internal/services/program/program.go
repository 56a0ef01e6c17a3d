// Package program содержит бизнес-логику программ тренировок, недельных
// планов и заявок на индивидуальные программы.
package program

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

// ProgramRepository определяет методы для работы с программами в хранилище.
type ProgramRepository interface {
	// CreateProgram добавляет программу и возвращает её ID.
	CreateProgram(ctx context.Context, program models.TrainingProgram) (int64, error)
	// ListProgramsForUser возвращает программы, где пользователь тренер или адресат.
	ListProgramsForUser(ctx context.Context, userUID string, limit, offset int) ([]*models.TrainingProgram, error)
	// AssignProgram назначает программу пользователю, возвращает число затронутых строк.
	AssignProgram(ctx context.Context, programID int64, userUID string) (int, error)
	// UpsertWeeklyPlan сохраняет недельный план, перезаписывая существующий.
	UpsertWeeklyPlan(ctx context.Context, plan models.WeeklyPlan) error
	// GetWeeklyPlan возвращает план пользователя на неделю.
	GetWeeklyPlan(ctx context.Context, userUID string, weekStart time.Time) (*models.WeeklyPlan, error)
	// CreatePlanRequest сохраняет заявку на индивидуальную программу.
	CreatePlanRequest(ctx context.Context, request models.PlanRequest) (int64, error)
	// ListPlanRequests возвращает заявки с необязательным фильтром по статусу.
	ListPlanRequests(ctx context.Context, status string, limit, offset int) ([]*models.PlanRequest, error)
	// UpdatePlanRequestStatus меняет статус заявки, возвращает число затронутых строк.
	UpdatePlanRequestStatus(ctx context.Context, id int64, status string) (int, error)
}

// Service реализует бизнес-логику программ тренировок.
type Service struct {
	repo ProgramRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ProgramRepository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// Create сохраняет программу тренировок от имени тренера.
func (s *Service) Create(ctx context.Context, coachUID string, req models.DummyTrainingProgram) (int64, error) {
	program := models.TrainingProgram{
		CoachUID: coachUID,
		UserUID:  req.UserUID,
		Title:    req.Title,
		Comment:  req.Comment,
		Items:    req.Items,
	}
	id, err := s.repo.CreateProgram(ctx, program)
	if err != nil {
		return 0, err
	}
	s.log.Info("created training program",
		slog.Int64("id", id), slog.String("coach_uid", coachUID))
	return id, nil
}

// List возвращает программы пользователя.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.TrainingProgram, error) {
	return s.repo.ListProgramsForUser(ctx, userUID, limit, offset)
}

// Assign назначает программу пользователю.
func (s *Service) Assign(ctx context.Context, programID int64, userUID string) error {
	const op = "program.Assign"

	affected, err := s.repo.AssignProgram(ctx, programID, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: program not found", op)
	}
	return nil
}

// SaveWeeklyPlan сохраняет недельный план пользователя. Дата начала недели
// нормализуется к понедельнику.
func (s *Service) SaveWeeklyPlan(ctx context.Context, userUID string, weekStart time.Time, days map[string]int64) error {
	const op = "program.SaveWeeklyPlan"

	plan := models.WeeklyPlan{
		UserUID:   userUID,
		WeekStart: mondayOf(weekStart),
		Days:      days,
	}
	if err := s.repo.UpsertWeeklyPlan(ctx, plan); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("weekly plan saved",
		slog.String("user_uid", userUID), slog.Time("week_start", plan.WeekStart))
	return nil
}

// GetWeeklyPlan возвращает план пользователя на неделю, содержащую дату.
func (s *Service) GetWeeklyPlan(ctx context.Context, userUID string, date time.Time) (*models.WeeklyPlan, error) {
	return s.repo.GetWeeklyPlan(ctx, userUID, mondayOf(date))
}

// RequestPlan регистрирует заявку на индивидуальную программу.
func (s *Service) RequestPlan(ctx context.Context, userUID, email string, req models.DummyPlanRequest) (int64, error) {
	request := models.PlanRequest{
		UserUID: userUID,
		Email:   email,
		Goal:    req.Goal,
		Level:   req.Level,
		Comment: req.Comment,
		Status:  "new",
	}
	id, err := s.repo.CreatePlanRequest(ctx, request)
	if err != nil {
		return 0, err
	}
	s.log.Info("plan request created", slog.Int64("id", id), slog.String("user_uid", userUID))
	return id, nil
}

// ListPlanRequests возвращает заявки для админ-панели.
func (s *Service) ListPlanRequests(ctx context.Context, status string, limit, offset int) ([]*models.PlanRequest, error) {
	return s.repo.ListPlanRequests(ctx, status, limit, offset)
}

// UpdatePlanRequestStatus меняет статус заявки.
func (s *Service) UpdatePlanRequestStatus(ctx context.Context, id int64, status string) error {
	const op = "program.UpdatePlanRequestStatus"

	affected, err := s.repo.UpdatePlanRequestStatus(ctx, id, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: plan request not found", op)
	}
	return nil
}

// mondayOf возвращает полночь понедельника недели, содержащей дату.
func mondayOf(date time.Time) time.Time {
	day := date.UTC().Truncate(24 * time.Hour)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return day.AddDate(0, 0, 1-weekday)
}
