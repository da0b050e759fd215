package domain

import "context"

// ListQuery is the shared admin listing contract: single-status filter (empty
// or "ALL" means every status), case-insensitive free-text search over a
// fixed field set, 1-indexed pagination. A page past the end is not an error;
// it yields empty items with the true total.
type ListQuery struct {
	Status   string
	Search   string
	Page     int
	PageSize int
	Sort     string // postings only: "" = insertion order, "recent" = newest first
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// FiltersStatus reports whether the query narrows to a single status.
func (q ListQuery) FiltersStatus() bool {
	return q.Status != "" && q.Status != "ALL"
}

// PaginatedResult for list responses
type PaginatedResult[T any] struct {
	Data       []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

type ListingUsecase interface {
	ListProfiles(ctx context.Context, q ListQuery) (*PaginatedResult[Profile], error)
	ListPostings(ctx context.Context, q ListQuery) (*PaginatedResult[JobPosting], error)
}
