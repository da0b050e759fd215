package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/apperror"
	"cvtheque-backend/pkg/email"
	"cvtheque-backend/pkg/logger"
	"cvtheque-backend/pkg/parser"
	"cvtheque-backend/pkg/storage"
	"cvtheque-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type profileUsecase struct {
	repo     domain.ProfileRepository
	parser   *parser.Client
	storage  *storage.Client
	email    *email.EmailService
	validate *validator.Validate
}

func NewProfileUsecase(repo domain.ProfileRepository, parserClient *parser.Client, storageClient *storage.Client, emailService *email.EmailService, validate *validator.Validate) domain.ProfileUsecase {
	return &profileUsecase{
		repo:     repo,
		parser:   parserClient,
		storage:  storageClient,
		email:    emailService,
		validate: validate,
	}
}

// CreateDraft builds a DRAFT profile for the authenticated candidate, seeded
// from the parsing service's extraction of their uploaded CV. Parsing and
// storage are conveniences: when either fails the draft is simply emptier.
func (u *profileUsecase) CreateDraft(ctx context.Context, documentID string) (*domain.Profile, error) {
	candidateID := userIDFromContext(ctx)
	if candidateID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	if existing, err := u.repo.GetByCandidateID(ctx, candidateID); err == nil && existing != nil {
		return nil, apperror.Conflict("Profile already exists for this candidate", nil)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	profile := &domain.Profile{
		CandidateID: candidateID,
		Status:      domain.ProfileDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if u.parser != nil && u.parser.IsConfigured() && documentID != "" {
		draft, err := u.parser.ParseDocument(ctx, documentID)
		if err != nil {
			logger.Log.Warn("CV parsing failed, creating empty draft", "document_id", documentID, "error", err)
		} else {
			profile.FirstName = draft.FirstName
			profile.LastName = draft.LastName
			profile.Email = draft.Email
			profile.Title = draft.Title
			profile.Skills = draft.Skills
		}
	}

	if u.storage != nil && u.storage.IsConfigured() && documentID != "" {
		if url, err := u.storage.DocumentURL(ctx, documentID); err == nil {
			profile.ResumeURL = &url
		}
	}

	if err := u.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (u *profileUsecase) GetOwnProfile(ctx context.Context) (*domain.Profile, error) {
	candidateID := userIDFromContext(ctx)
	if candidateID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	profile, err := u.repo.GetByCandidateID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Candidate profile not found")
		}
		return nil, err
	}
	return profile, nil
}

// SubmitForReview moves the owning candidate's DRAFT profile into the admin
// queue. submitted_at is stamped the first time only; the repository COALESCE
// keeps later passes from overwriting it.
func (u *profileUsecase) SubmitForReview(ctx context.Context, id int64) (*domain.Profile, error) {
	candidateID := userIDFromContext(ctx)
	if candidateID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}
	if profile.CandidateID != candidateID {
		return nil, apperror.Forbidden("You can only submit your own profile")
	}

	if err := domain.ProfileLifecycle.Transition(profile.Status, domain.ProfileSubmitted); err != nil {
		return nil, apperror.Conflict("Profile cannot be submitted in its current status", err)
	}

	if err := u.repo.SetStatus(ctx, id, profile.Status, domain.ProfileSubmitted, time.Now()); err != nil {
		return nil, wrapProfileErr(err)
	}

	return u.repo.GetByID(ctx, id)
}

// StartReview claims a SUBMITTED profile for evaluation.
func (u *profileUsecase) StartReview(ctx context.Context, id int64) (*domain.Profile, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}

	if err := domain.ProfileLifecycle.Transition(profile.Status, domain.ProfileInReview); err != nil {
		return nil, apperror.Conflict("Profile is not awaiting review", err)
	}

	if err := u.repo.SetStatus(ctx, id, profile.Status, domain.ProfileInReview, time.Now()); err != nil {
		return nil, wrapProfileErr(err)
	}

	return u.repo.GetByID(ctx, id)
}

// Validate grants CVthèque visibility, so it holds the evaluation to the
// strict content bar: a substantive summary and an on-grid score.
func (u *profileUsecase) Validate(ctx context.Context, id int64, payload domain.EvaluationPayload) (*domain.Profile, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(strings.TrimSpace(payload.Summary)) < domain.MinSummaryLength {
		return nil, apperror.Unprocessable("Summary must contain at least 50 characters", nil)
	}
	return u.decide(ctx, id, payload, domain.ProfileValidated)
}

// Reject must stay low-friction for admins processing volume: a missing
// reason falls back to a literal instead of failing.
func (u *profileUsecase) Reject(ctx context.Context, id int64, payload domain.EvaluationPayload) (*domain.Profile, error) {
	if strings.TrimSpace(payload.Summary) == "" {
		payload.Summary = domain.RejectionSummaryFallback
	}
	return u.decide(ctx, id, payload, domain.ProfileRejected)
}

func (u *profileUsecase) decide(ctx context.Context, id int64, payload domain.EvaluationPayload, target domain.ProfileStatus) (*domain.Profile, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	if err := u.validate.Struct(payload); err != nil {
		return nil, apperror.Unprocessable(strings.Join(validation.FormatValidationErrors(err), "; "), nil)
	}

	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}

	if err := domain.ProfileLifecycle.Transition(profile.Status, target); err != nil {
		return nil, apperror.Conflict("Profile cannot be decided in its current status", err)
	}

	now := time.Now()
	rec := &domain.EvaluationRecord{
		ProfileID:       id,
		OverallScore:    *payload.OverallScore,
		Technical:       payload.Technical,
		SoftSkills:      payload.SoftSkills,
		Communication:   payload.Communication,
		Motivation:      payload.Motivation,
		Summary:         payload.Summary,
		InterviewNotes:  payload.InterviewNotes,
		Recommendations: payload.Recommendations,
		Status:          target,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := u.repo.ApplyDecision(ctx, id, profile.Status, rec); err != nil {
		return nil, wrapProfileErr(err)
	}

	u.notifyDecision(profile, target, rec.Summary)

	return u.repo.GetByID(ctx, id)
}

// notifyDecision is fire-and-forget: delivery problems are logged and never
// surface to the transition that already committed.
func (u *profileUsecase) notifyDecision(profile *domain.Profile, target domain.ProfileStatus, summary string) {
	if u.email == nil || !u.email.IsConfigured() || profile.Email == "" {
		return
	}
	go func() {
		err := u.email.SendDecisionEmail(profile.Email, email.DecisionEmailData{
			CandidateName: strings.TrimSpace(profile.FirstName + " " + profile.LastName),
			Validated:     target == domain.ProfileValidated,
			Summary:       summary,
		})
		if err != nil {
			logger.Log.Warn("Decision notification failed", "profile_id", profile.ID, "error", err)
		}
	}()
}

func (u *profileUsecase) GetHistory(ctx context.Context, id int64) ([]domain.EvaluationRecord, error) {
	profile, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapProfileErr(err)
	}

	// Admins see any history, candidates only their own.
	if !hasRole(ctx, domain.RoleAdmin) && profile.CandidateID != userIDFromContext(ctx) {
		return nil, apperror.Forbidden("You can only view your own evaluation history")
	}

	return u.repo.ListEvaluations(ctx, id)
}

// wrapProfileErr maps repository sentinels to API errors. The concurrent
// case keeps its own message so the UI can tell "reload and reconsider"
// apart from "this action isn't allowed right now".
func wrapProfileErr(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound("Profile not found")
	case errors.Is(err, domain.ErrConcurrentModification):
		return apperror.Conflict("Profile was changed by someone else, reload and try again", err)
	default:
		return err
	}
}
