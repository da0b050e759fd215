package usecase_test

import (
	"context"
	"time"

	"cvtheque-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByCandidateID(ctx context.Context, candidateID string) (*domain.Profile, error) {
	args := m.Called(ctx, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) SetStatus(ctx context.Context, id int64, expected, next domain.ProfileStatus, now time.Time) error {
	return m.Called(ctx, id, expected, next, now).Error(0)
}

func (m *MockProfileRepo) ApplyDecision(ctx context.Context, id int64, expected domain.ProfileStatus, rec *domain.EvaluationRecord) error {
	return m.Called(ctx, id, expected, rec).Error(0)
}

func (m *MockProfileRepo) ListEvaluations(ctx context.Context, profileID int64) ([]domain.EvaluationRecord, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EvaluationRecord), args.Error(1)
}

func (m *MockProfileRepo) Fetch(ctx context.Context, q domain.ListQuery) ([]domain.Profile, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Profile), args.Get(1).(int64), args.Error(2)
}

type MockPostingRepo struct {
	mock.Mock
}

func (m *MockPostingRepo) Create(ctx context.Context, posting *domain.JobPosting) error {
	return m.Called(ctx, posting).Error(0)
}

func (m *MockPostingRepo) GetByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JobPosting), args.Error(1)
}

func (m *MockPostingRepo) SetStatus(ctx context.Context, id int64, expected, next domain.PostingStatus, now time.Time) error {
	return m.Called(ctx, id, expected, next, now).Error(0)
}

func (m *MockPostingRepo) Renew(ctx context.Context, id int64, expected domain.PostingStatus, expiresAt time.Time, now time.Time) error {
	return m.Called(ctx, id, expected, expiresAt, now).Error(0)
}

func (m *MockPostingRepo) IncrementViews(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostingRepo) IncrementRegisterClicks(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostingRepo) Fetch(ctx context.Context, q domain.ListQuery) ([]domain.JobPosting, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.JobPosting), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostingRepo) FetchPublished(ctx context.Context, now time.Time, limit, offset int) ([]domain.JobPosting, int64, error) {
	args := m.Called(ctx, now, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.JobPosting), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostingRepo) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Context helpers shared by the tests

func adminCtx() context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, "admin1")
	return context.WithValue(ctx, domain.KeyUserRoles, []string{domain.RoleAdmin})
}

func candidateCtx(userID string) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, userID)
	return context.WithValue(ctx, domain.KeyUserRoles, []string{domain.RoleCandidate})
}

func ptr(f float64) *float64 {
	return &f
}
