package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cvtheque-backend/internal/domain"
	"cvtheque-backend/internal/usecase"
	"cvtheque-backend/pkg/apperror"
	"cvtheque-backend/pkg/logger"
	"cvtheque-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newPostingUC(repo *MockPostingRepo) domain.PostingUsecase {
	validate := validator.New()
	validation.RegisterValidators(validate)
	return usecase.NewPostingUsecase(repo, validate)
}

func strPtr(s string) *string {
	return &s
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func validPosting() *domain.JobPosting {
	return &domain.JobPosting{
		Title:           "Développeur Go",
		Company:         "Acme",
		ApplicationType: domain.ApplyInternal,
	}
}

func TestCreatePosting(t *testing.T) {
	t.Run("Should create a DRAFT with zeroed counters", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.JobPosting")).Return(nil)

		posting := validPosting()
		posting.ViewCount = 99

		err := uc.Create(adminCtx(), posting)
		assert.NoError(t, err)
		assert.Equal(t, domain.PostingDraft, posting.Status)
		assert.Equal(t, int64(0), posting.ViewCount)
	})

	t.Run("Should require external_application_url for external_url type", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		posting := validPosting()
		posting.ApplicationType = domain.ApplyExternalURL

		err := uc.Create(adminCtx(), posting)
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, 422, appErr.Code)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Should nil the inactive application channel", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		posting := validPosting()
		posting.ApplicationType = domain.ApplyEmail
		posting.ApplicationEmail = strPtr("jobs@acme.fr")
		posting.ExternalApplicationURL = strPtr("https://acme.fr/apply")

		err := uc.Create(adminCtx(), posting)
		assert.NoError(t, err)
		assert.Nil(t, posting.ExternalApplicationURL)
		assert.NotNil(t, posting.ApplicationEmail)
	})

	t.Run("Should fail when caller is not an admin", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		err := uc.Create(candidateCtx("user1"), validPosting())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Admin access required")
	})
}

func TestPostingLifecycleOps(t *testing.T) {
	t.Run("Should publish a DRAFT posting", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		draft := &domain.JobPosting{ID: 1, Status: domain.PostingDraft}
		published := &domain.JobPosting{ID: 1, Status: domain.PostingPublished}

		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(draft, nil).Once()
		mockRepo.On("SetStatus", mock.Anything, int64(1), domain.PostingDraft, domain.PostingPublished, mock.Anything).Return(nil)
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(published, nil)

		posting, err := uc.Publish(adminCtx(), 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.PostingPublished, posting.Status)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Should refuse publishing a CLOSED posting", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.JobPosting{ID: 1, Status: domain.PostingClosed}, nil)

		_, err := uc.Publish(adminCtx(), 1)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
		mockRepo.AssertNotCalled(t, "SetStatus")
	})

	t.Run("Should surface a lost CAS race as a conflict", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.JobPosting{ID: 1, Status: domain.PostingPublished}, nil)
		mockRepo.On("SetStatus", mock.Anything, int64(1), domain.PostingPublished, domain.PostingClosed, mock.Anything).
			Return(domain.ErrConcurrentModification)

		_, err := uc.Close(adminCtx(), 1)
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, 409, appErr.Code)
	})
}

func TestRenewPosting(t *testing.T) {
	future := time.Now().Add(30 * 24 * time.Hour)

	t.Run("Should renew a CLOSED posting", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		closed := &domain.JobPosting{ID: 1, Status: domain.PostingClosed}
		renewed := &domain.JobPosting{ID: 1, Status: domain.PostingPublished, ExpiresAt: timePtr(future)}

		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(closed, nil).Once()
		mockRepo.On("Renew", mock.Anything, int64(1), domain.PostingClosed, future, mock.Anything).Return(nil)
		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(renewed, nil)

		posting, err := uc.Renew(adminCtx(), 1, future)
		assert.NoError(t, err)
		assert.Equal(t, domain.PostingPublished, posting.Status)
		assert.True(t, posting.ExpiresAt.Equal(future))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Should renew an effectively expired PUBLISHED posting", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		expired := &domain.JobPosting{
			ID:        1,
			Status:    domain.PostingPublished,
			ExpiresAt: timePtr(time.Now().Add(-time.Hour)),
		}

		mockRepo.On("GetByID", mock.Anything, int64(1)).Return(expired, nil).Once()
		mockRepo.On("Renew", mock.Anything, int64(1), domain.PostingPublished, future, mock.Anything).Return(nil)
		mockRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.JobPosting{ID: 1, Status: domain.PostingPublished, ExpiresAt: timePtr(future)}, nil)

		_, err := uc.Renew(adminCtx(), 1, future)
		assert.NoError(t, err)
	})

	t.Run("Should refuse renewing a DRAFT posting", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.JobPosting{ID: 1, Status: domain.PostingDraft}, nil)

		_, err := uc.Renew(adminCtx(), 1, future)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
		mockRepo.AssertNotCalled(t, "Renew")
	})

	t.Run("Should refuse a past expiry date before touching the repo", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		_, err := uc.Renew(adminCtx(), 1, time.Now().Add(-time.Minute))
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, 422, appErr.Code)
		mockRepo.AssertNotCalled(t, "GetByID")
	})
}

func TestEffectiveExpiry(t *testing.T) {
	t.Run("Should derive ARCHIVED for a PUBLISHED posting past its expiry", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.JobPosting{
				ID:        1,
				Status:    domain.PostingPublished,
				ExpiresAt: timePtr(time.Now().Add(-time.Second)),
			}, nil)

		view, err := uc.Get(adminCtx(), 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.PostingPublished, view.Status)
		assert.Equal(t, domain.PostingArchived, view.EffectiveStatus)
		assert.True(t, view.EffectivelyExpired)
	})

	t.Run("Should keep PUBLISHED when expires_at is nil", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.JobPosting{ID: 1, Status: domain.PostingPublished}, nil)

		view, err := uc.Get(adminCtx(), 1)
		assert.NoError(t, err)
		assert.Equal(t, domain.PostingPublished, view.EffectiveStatus)
		assert.False(t, view.EffectivelyExpired)
	})
}

func TestCounters(t *testing.T) {
	t.Run("Should record a view without any role gate", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("IncrementViews", mock.Anything, int64(1)).Return(nil)

		err := uc.RecordView(context.Background(), 1)
		assert.NoError(t, err)
	})

	t.Run("Should map a missing posting to 404", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("IncrementRegisterClicks", mock.Anything, int64(9)).Return(domain.ErrNotFound)

		err := uc.RecordRegisterClick(context.Background(), 9)
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestListPublic(t *testing.T) {
	t.Run("Should clamp pagination to defaults", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		uc := newPostingUC(mockRepo)

		mockRepo.On("FetchPublished", mock.Anything, mock.Anything, 25, 0).
			Return([]domain.JobPosting{}, int64(0), nil)

		_, _, err := uc.ListPublic(context.Background(), 0, 1000)
		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}

func TestExpirySweeper(t *testing.T) {
	logger.Init()

	t.Run("Should archive expired postings in one pass", func(t *testing.T) {
		mockRepo := new(MockPostingRepo)
		sweeper := usecase.NewExpirySweeper(mockRepo, time.Hour)

		mockRepo.On("ArchiveExpired", mock.Anything, mock.Anything).Return(int64(3), nil)

		sweeper.Sweep(context.Background())
		mockRepo.AssertExpectations(t)
	})
}
