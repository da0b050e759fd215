package domain

import (
	"context"
	"time"
)

type PostingStatus string

const (
	PostingDraft     PostingStatus = "DRAFT"
	PostingPublished PostingStatus = "PUBLISHED"
	PostingClosed    PostingStatus = "CLOSED"
	PostingArchived  PostingStatus = "ARCHIVED"
)

// PostingLifecycle covers the bare status edits. CLOSED/ARCHIVED back to
// PUBLISHED is deliberately absent here: republishing goes through the renew
// operation only, which also replaces expires_at.
var PostingLifecycle = NewLifecycle(map[PostingStatus][]PostingStatus{
	PostingDraft:     {PostingPublished},
	PostingPublished: {PostingClosed, PostingArchived},
})

type ApplicationType string

const (
	ApplyInternal    ApplicationType = "internal"
	ApplyExternalURL ApplicationType = "external_url"
	ApplyEmail       ApplicationType = "email"
)

type JobPosting struct {
	ID                     int64           `json:"id"`
	Title                  string          `json:"title" validate:"required,min=3,max=150"`
	Company                string          `json:"company" validate:"required"`
	Description            string          `json:"description"`
	Location               string          `json:"location"`
	ApplicationType        ApplicationType `json:"application_type" validate:"required,oneof=internal external_url email"`
	ExternalApplicationURL *string         `json:"external_application_url,omitempty" validate:"omitempty,url"`
	ApplicationEmail       *string         `json:"application_email,omitempty" validate:"omitempty,email"`
	Status                 PostingStatus   `json:"status"`
	ExpiresAt              *time.Time      `json:"expires_at,omitempty"`
	ViewCount              int64           `json:"view_count"`
	RegisterClickCount     int64           `json:"register_click_count"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// EffectivelyExpired is the derived read-time expiry fact: a posting that is
// still persisted as PUBLISHED but whose expires_at has passed is treated as
// expired by every reader, whether or not the sweep has archived it yet.
func (p *JobPosting) EffectivelyExpired(now time.Time) bool {
	return p.Status == PostingPublished && p.ExpiresAt != nil && p.ExpiresAt.Before(now)
}

// EffectiveStatus is what readers (filters, badges) should display.
func (p *JobPosting) EffectiveStatus(now time.Time) PostingStatus {
	if p.EffectivelyExpired(now) {
		return PostingArchived
	}
	return p.Status
}

// PostingView decorates a posting with its derived expiry facts for reads.
type PostingView struct {
	JobPosting
	EffectiveStatus    PostingStatus `json:"effective_status"`
	EffectivelyExpired bool          `json:"effectively_expired"`
}

type PostingRepository interface {
	Create(ctx context.Context, posting *JobPosting) error
	GetByID(ctx context.Context, id int64) (*JobPosting, error)
	// SetStatus compare-and-sets the status column (see ProfileRepository).
	SetStatus(ctx context.Context, id int64, expected, next PostingStatus, now time.Time) error
	// Renew republishes in one CAS update: status back to PUBLISHED and
	// expires_at replaced, only while the row still carries expected.
	Renew(ctx context.Context, id int64, expected PostingStatus, expiresAt time.Time, now time.Time) error
	IncrementViews(ctx context.Context, id int64) error
	IncrementRegisterClicks(ctx context.Context, id int64) error
	Fetch(ctx context.Context, q ListQuery) ([]JobPosting, int64, error)
	// FetchPublished returns postings visible to the public: PUBLISHED and
	// not past expires_at as of now.
	FetchPublished(ctx context.Context, now time.Time, limit, offset int) ([]JobPosting, int64, error)
	// ArchiveExpired flips every PUBLISHED row with expires_at before now to
	// ARCHIVED and returns how many rows it swept.
	ArchiveExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostingUsecase interface {
	Create(ctx context.Context, posting *JobPosting) error
	Get(ctx context.Context, id int64) (*PostingView, error)
	Publish(ctx context.Context, id int64) (*JobPosting, error)
	Close(ctx context.Context, id int64) (*JobPosting, error)
	Archive(ctx context.Context, id int64) (*JobPosting, error)
	Renew(ctx context.Context, id int64, newExpiresAt time.Time) (*JobPosting, error)
	RecordView(ctx context.Context, id int64) error
	RecordRegisterClick(ctx context.Context, id int64) error
	ListPublic(ctx context.Context, page, pageSize int) ([]PostingView, int64, error)
}
