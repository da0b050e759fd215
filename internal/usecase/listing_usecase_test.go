package usecase_test

import (
	"testing"

	"cvtheque-backend/internal/domain"
	"cvtheque-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListProfiles(t *testing.T) {
	t.Run("Should fail when caller is not an admin", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		postingRepo := new(MockPostingRepo)
		uc := usecase.NewListingUsecase(profileRepo, postingRepo)

		_, err := uc.ListProfiles(candidateCtx("user1"), domain.ListQuery{})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "Admin access required")
		profileRepo.AssertNotCalled(t, "Fetch")
	})

	t.Run("Should clamp page and page size to defaults", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		postingRepo := new(MockPostingRepo)
		uc := usecase.NewListingUsecase(profileRepo, postingRepo)

		profileRepo.On("Fetch", mock.Anything, mock.MatchedBy(func(q domain.ListQuery) bool {
			return q.Page == 1 && q.PageSize == 25
		})).Return([]domain.Profile{}, int64(0), nil)

		_, err := uc.ListProfiles(adminCtx(), domain.ListQuery{Page: 0, PageSize: 1000})
		assert.NoError(t, err)
		profileRepo.AssertExpectations(t)
	})

	t.Run("Should compute total pages with a ceiling", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		postingRepo := new(MockPostingRepo)
		uc := usecase.NewListingUsecase(profileRepo, postingRepo)

		profileRepo.On("Fetch", mock.Anything, mock.Anything).
			Return(make([]domain.Profile, 25), int64(51), nil)

		result, err := uc.ListProfiles(adminCtx(), domain.ListQuery{Page: 1, PageSize: 25})
		assert.NoError(t, err)
		assert.Equal(t, int64(51), result.Total)
		assert.Equal(t, 3, result.TotalPages)
	})

	t.Run("Should return an empty page past the end with the true total", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		postingRepo := new(MockPostingRepo)
		uc := usecase.NewListingUsecase(profileRepo, postingRepo)

		profileRepo.On("Fetch", mock.Anything, mock.Anything).
			Return(nil, int64(7), nil)

		result, err := uc.ListProfiles(adminCtx(), domain.ListQuery{Page: 99, PageSize: 25})
		assert.NoError(t, err)
		assert.NotNil(t, result.Data)
		assert.Empty(t, result.Data)
		assert.Equal(t, int64(7), result.Total)
	})
}

func TestListPostings(t *testing.T) {
	t.Run("Should pass the status filter and sort through", func(t *testing.T) {
		profileRepo := new(MockProfileRepo)
		postingRepo := new(MockPostingRepo)
		uc := usecase.NewListingUsecase(profileRepo, postingRepo)

		postingRepo.On("Fetch", mock.Anything, mock.MatchedBy(func(q domain.ListQuery) bool {
			return q.Status == "PUBLISHED" && q.Sort == "recent"
		})).Return([]domain.JobPosting{{ID: 1}}, int64(1), nil)

		result, err := uc.ListPostings(adminCtx(), domain.ListQuery{
			Status:   "PUBLISHED",
			Sort:     "recent",
			Page:     1,
			PageSize: 25,
		})
		assert.NoError(t, err)
		assert.Len(t, result.Data, 1)
		postingRepo.AssertExpectations(t)
	})
}
