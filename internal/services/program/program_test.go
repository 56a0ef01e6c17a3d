package program

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/fitcoach-backend/internal/models"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) CreateProgram(ctx context.Context, program models.TrainingProgram) (int64, error) {
	args := m.Called(ctx, program)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ListProgramsForUser(ctx context.Context, userUID string, limit, offset int) ([]*models.TrainingProgram, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TrainingProgram), args.Error(1)
}

func (m *RepoMock) AssignProgram(ctx context.Context, programID int64, userUID string) (int, error) {
	args := m.Called(ctx, programID, userUID)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) UpsertWeeklyPlan(ctx context.Context, plan models.WeeklyPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *RepoMock) GetWeeklyPlan(ctx context.Context, userUID string, weekStart time.Time) (*models.WeeklyPlan, error) {
	args := m.Called(ctx, userUID, weekStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WeeklyPlan), args.Error(1)
}

func (m *RepoMock) CreatePlanRequest(ctx context.Context, request models.PlanRequest) (int64, error) {
	args := m.Called(ctx, request)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) ListPlanRequests(ctx context.Context, status string, limit, offset int) ([]*models.PlanRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PlanRequest), args.Error(1)
}

func (m *RepoMock) UpdatePlanRequestStatus(ctx context.Context, id int64, status string) (int, error) {
	args := m.Called(ctx, id, status)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestCreate(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	req := models.DummyTrainingProgram{
		Title:   "Спина и бицепс",
		UserUID: "user-2",
		Items: []models.ProgramItem{
			{ExerciseID: 1, Sets: 4, Reps: 10, Rest: "90 сек"},
		},
	}

	repo.On("CreateProgram", mock.Anything, mock.MatchedBy(func(p models.TrainingProgram) bool {
		return p.CoachUID == "coach-1" && p.UserUID == "user-2" && p.Title == "Спина и бицепс" && len(p.Items) == 1
	})).Return(int64(11), nil).Once()

	id, err := svc.Create(context.Background(), "coach-1", req)
	assert.NoError(t, err)
	assert.Equal(t, int64(11), id)
	repo.AssertExpectations(t)
}

func TestAssign(t *testing.T) {
	tests := []struct {
		name     string
		affected int
		repoErr  error
		wantErr  string
	}{
		{name: "success", affected: 1},
		{name: "program not found", affected: 0, wantErr: "program not found"},
		{name: "repo error", affected: 0, repoErr: errors.New("db error"), wantErr: "db error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := New(repo, newNoopLogger())

			repo.On("AssignProgram", mock.Anything, int64(3), "user-1").
				Return(tt.affected, tt.repoErr).Once()

			err := svc.Assign(context.Background(), 3, "user-1")
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveWeeklyPlan_NormalizesToMonday(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	// 2 июля 2025 — среда, понедельник этой недели — 30 июня.
	wednesday := time.Date(2025, 7, 2, 15, 30, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	days := map[string]int64{"monday": 1, "thursday": 2}

	repo.On("UpsertWeeklyPlan", mock.Anything, mock.MatchedBy(func(p models.WeeklyPlan) bool {
		return p.UserUID == "user-1" && p.WeekStart.Equal(monday)
	})).Return(nil).Once()

	err := svc.SaveWeeklyPlan(context.Background(), "user-1", wednesday, days)
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetWeeklyPlan_SundayBelongsToPreviousMonday(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	// 6 июля 2025 — воскресенье, оно относится к неделе с понедельника 30 июня.
	sunday := time.Date(2025, 7, 6, 10, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	plan := &models.WeeklyPlan{UserUID: "user-1", WeekStart: monday}

	repo.On("GetWeeklyPlan", mock.Anything, "user-1", monday).Return(plan, nil).Once()

	got, err := svc.GetWeeklyPlan(context.Background(), "user-1", sunday)
	assert.NoError(t, err)
	assert.Equal(t, plan, got)
}

func TestRequestPlan_SetsNewStatus(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	req := models.DummyPlanRequest{Goal: "похудение", Level: "beginner"}

	repo.On("CreatePlanRequest", mock.Anything, mock.MatchedBy(func(r models.PlanRequest) bool {
		return r.UserUID == "user-1" && r.Email == "user@example.com" &&
			r.Goal == "похудение" && r.Status == "new"
	})).Return(int64(21), nil).Once()

	id, err := svc.RequestPlan(context.Background(), "user-1", "user@example.com", req)
	assert.NoError(t, err)
	assert.Equal(t, int64(21), id)
}

func TestUpdatePlanRequestStatus_NotFound(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, newNoopLogger())

	repo.On("UpdatePlanRequestStatus", mock.Anything, int64(9), "done").Return(0, nil).Once()

	err := svc.UpdatePlanRequestStatus(context.Background(), 9, "done")
	assert.ErrorContains(t, err, "plan request not found")
}
