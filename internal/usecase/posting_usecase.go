package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/apperror"
	"cvtheque-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type postingUsecase struct {
	repo     domain.PostingRepository
	validate *validator.Validate
}

func NewPostingUsecase(repo domain.PostingRepository, validate *validator.Validate) domain.PostingUsecase {
	return &postingUsecase{repo: repo, validate: validate}
}

// renewRequest runs the replacement expiry through the shared validators.
type renewRequest struct {
	ExpiresAt time.Time `validate:"required,future_date"`
}

func (u *postingUsecase) Create(ctx context.Context, posting *domain.JobPosting) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	if err := u.validate.Struct(posting); err != nil {
		return apperror.Unprocessable(strings.Join(validation.FormatValidationErrors(err), "; "), nil)
	}
	if err := checkApplicationRouting(posting); err != nil {
		return err
	}

	now := time.Now()
	posting.Status = domain.PostingDraft
	posting.CreatedAt = now
	posting.UpdatedAt = now
	posting.ViewCount = 0
	posting.RegisterClickCount = 0

	return u.repo.Create(ctx, posting)
}

// checkApplicationRouting enforces that exactly one application channel is
// active, as selected by the discriminator.
func checkApplicationRouting(p *domain.JobPosting) error {
	switch p.ApplicationType {
	case domain.ApplyExternalURL:
		if p.ExternalApplicationURL == nil || strings.TrimSpace(*p.ExternalApplicationURL) == "" {
			return apperror.Unprocessable("external_application_url is required for external_url application type", nil)
		}
		p.ApplicationEmail = nil
	case domain.ApplyEmail:
		if p.ApplicationEmail == nil || strings.TrimSpace(*p.ApplicationEmail) == "" {
			return apperror.Unprocessable("application_email is required for email application type", nil)
		}
		p.ExternalApplicationURL = nil
	case domain.ApplyInternal:
		p.ExternalApplicationURL = nil
		p.ApplicationEmail = nil
	default:
		return apperror.Unprocessable("application_type must be one of internal, external_url, email", nil)
	}
	return nil
}

func (u *postingUsecase) Get(ctx context.Context, id int64) (*domain.PostingView, error) {
	posting, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapPostingErr(err)
	}
	return postingView(posting, time.Now()), nil
}

func (u *postingUsecase) Publish(ctx context.Context, id int64) (*domain.JobPosting, error) {
	return u.setStatus(ctx, id, domain.PostingPublished)
}

func (u *postingUsecase) Close(ctx context.Context, id int64) (*domain.JobPosting, error) {
	return u.setStatus(ctx, id, domain.PostingClosed)
}

func (u *postingUsecase) Archive(ctx context.Context, id int64) (*domain.JobPosting, error) {
	return u.setStatus(ctx, id, domain.PostingArchived)
}

func (u *postingUsecase) setStatus(ctx context.Context, id int64, next domain.PostingStatus) (*domain.JobPosting, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	posting, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapPostingErr(err)
	}

	if err := domain.PostingLifecycle.Transition(posting.Status, next); err != nil {
		return nil, apperror.Conflict("Posting cannot change to "+string(next)+" from its current status", err)
	}

	if err := u.repo.SetStatus(ctx, id, posting.Status, next, time.Now()); err != nil {
		return nil, wrapPostingErr(err)
	}

	return u.repo.GetByID(ctx, id)
}

// Renew is the only path back to PUBLISHED for a closed, archived or
// effectively expired posting, and it always carries the new expiry date.
func (u *postingUsecase) Renew(ctx context.Context, id int64, newExpiresAt time.Time) (*domain.JobPosting, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := u.validate.Struct(renewRequest{ExpiresAt: newExpiresAt}); err != nil {
		return nil, apperror.Unprocessable("New expiry date must be in the future", nil)
	}
	now := time.Now()

	posting, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapPostingErr(err)
	}

	renewable := posting.Status == domain.PostingClosed ||
		posting.Status == domain.PostingArchived ||
		posting.EffectivelyExpired(now)
	if !renewable {
		return nil, apperror.Conflict("Only closed, archived or expired postings can be renewed", domain.ErrInvalidTransition)
	}

	if err := u.repo.Renew(ctx, id, posting.Status, newExpiresAt, now); err != nil {
		return nil, wrapPostingErr(err)
	}

	return u.repo.GetByID(ctx, id)
}

// The counters are informational and monotonic; the core records increments
// on any status and leaves gating to the surrounding UI.
func (u *postingUsecase) RecordView(ctx context.Context, id int64) error {
	return wrapPostingErr(u.repo.IncrementViews(ctx, id))
}

func (u *postingUsecase) RecordRegisterClick(ctx context.Context, id int64) error {
	return wrapPostingErr(u.repo.IncrementRegisterClicks(ctx, id))
}

func (u *postingUsecase) ListPublic(ctx context.Context, page, pageSize int) ([]domain.PostingView, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 25
	}
	now := time.Now()

	postings, total, err := u.repo.FetchPublished(ctx, now, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}

	views := make([]domain.PostingView, 0, len(postings))
	for i := range postings {
		views = append(views, *postingView(&postings[i], now))
	}
	return views, total, nil
}

func postingView(p *domain.JobPosting, now time.Time) *domain.PostingView {
	return &domain.PostingView{
		JobPosting:         *p,
		EffectiveStatus:    p.EffectiveStatus(now),
		EffectivelyExpired: p.EffectivelyExpired(now),
	}
}

func wrapPostingErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Posting not found")
	case errors.Is(err, domain.ErrConcurrentModification):
		return apperror.Conflict("Posting was changed by someone else, reload and try again", err)
	default:
		return err
	}
}
