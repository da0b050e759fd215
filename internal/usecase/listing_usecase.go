package usecase

import (
	"context"
	"math"

	"cvtheque-backend/internal/domain"
)

type listingUsecase struct {
	profileRepo domain.ProfileRepository
	postingRepo domain.PostingRepository
}

func NewListingUsecase(profileRepo domain.ProfileRepository, postingRepo domain.PostingRepository) domain.ListingUsecase {
	return &listingUsecase{
		profileRepo: profileRepo,
		postingRepo: postingRepo,
	}
}

// ListProfiles returns the paginated admin view of the candidate pool,
// newest submission first.
func (u *listingUsecase) ListProfiles(ctx context.Context, q domain.ListQuery) (*domain.PaginatedResult[domain.Profile], error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	q = clampQuery(q)

	profiles, total, err := u.profileRepo.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	return paginate(profiles, total, q), nil
}

func (u *listingUsecase) ListPostings(ctx context.Context, q domain.ListQuery) (*domain.PaginatedResult[domain.JobPosting], error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	q = clampQuery(q)

	postings, total, err := u.postingRepo.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	return paginate(postings, total, q), nil
}

func clampQuery(q domain.ListQuery) domain.ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 25
	}
	return q
}

func paginate[T any](items []T, total int64, q domain.ListQuery) *domain.PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &domain.PaginatedResult[T]{
		Data:       items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(q.PageSize))),
	}
}
