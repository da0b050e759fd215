package domain

import (
	"context"
	"time"
)

type ProfileStatus string

const (
	ProfileDraft     ProfileStatus = "DRAFT"
	ProfileSubmitted ProfileStatus = "SUBMITTED"
	ProfileInReview  ProfileStatus = "IN_REVIEW"
	ProfileValidated ProfileStatus = "VALIDATED"
	ProfileRejected  ProfileStatus = "REJECTED"
	ProfileArchived  ProfileStatus = "ARCHIVED"
)

// ProfileLifecycle is the candidate-profile state machine. SUBMITTED and
// IN_REVIEW are both "pending decision" states and may go straight to a
// decision. VALIDATED and REJECTED are re-decidable in either direction (an
// admin can re-open the evaluation form and submit the opposite decision);
// ARCHIVED is the terminal soft-delete.
var ProfileLifecycle = NewLifecycle(map[ProfileStatus][]ProfileStatus{
	ProfileDraft:     {ProfileSubmitted},
	ProfileSubmitted: {ProfileInReview, ProfileValidated, ProfileRejected},
	ProfileInReview:  {ProfileValidated, ProfileRejected},
	ProfileValidated: {ProfileRejected, ProfileArchived},
	ProfileRejected:  {ProfileValidated, ProfileArchived},
})

type Profile struct {
	ID          int64         `json:"id"`
	CandidateID string        `json:"candidate_id"`
	FirstName   string        `json:"first_name"`
	LastName    string        `json:"last_name"`
	Email       string        `json:"email"`
	Title       string        `json:"title"`
	Skills      []string      `json:"skills"`
	ResumeURL   *string       `json:"resume_url,omitempty"`
	Status      ProfileStatus `json:"status"`
	AdminScore  *float64      `json:"admin_score,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	SubmittedAt *time.Time    `json:"submitted_at,omitempty"`
	ValidatedAt *time.Time    `json:"validated_at,omitempty"`
	RejectedAt  *time.Time    `json:"rejected_at,omitempty"`
}

// EvaluationRecord is an administrator's scored decision on a profile.
// Created exactly once per validate/reject call, immutable afterwards, and
// never deleted: the ordered sequence of records is the profile's history.
type EvaluationRecord struct {
	ID              int64         `json:"id"`
	ProfileID       int64         `json:"profile_id"`
	OverallScore    float64       `json:"overall_score"`
	Technical       *float64      `json:"technical,omitempty"`
	SoftSkills      *float64      `json:"soft_skills,omitempty"`
	Communication   *float64      `json:"communication,omitempty"`
	Motivation      *float64      `json:"motivation,omitempty"`
	Summary         string        `json:"summary"`
	InterviewNotes  *string       `json:"interview_notes,omitempty"`
	Recommendations *string       `json:"recommendations,omitempty"`
	Status          ProfileStatus `json:"status"` // VALIDATED or REJECTED snapshot
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// EvaluationPayload is the request body of validate/reject. Scores sit on a
// 0-5 grid with 0.5 increments (custom score_grid validator). The minimum
// summary length is enforced per operation in the usecase: validation demands
// a substantive rationale, rejection falls back to "Non spécifié".
type EvaluationPayload struct {
	OverallScore    *float64 `json:"overall_score" validate:"required,score_grid"`
	Technical       *float64 `json:"technical" validate:"omitempty,score_grid"`
	SoftSkills      *float64 `json:"soft_skills" validate:"omitempty,score_grid"`
	Communication   *float64 `json:"communication" validate:"omitempty,score_grid"`
	Motivation      *float64 `json:"motivation" validate:"omitempty,score_grid"`
	Summary         string   `json:"summary"`
	InterviewNotes  *string  `json:"interview_notes"`
	Recommendations *string  `json:"recommendations"`
}

// MinSummaryLength is the validation-form bar: a profile may only be granted
// CVthèque visibility with at least this many characters of rationale.
const MinSummaryLength = 50

// RejectionSummaryFallback replaces an omitted rejection reason.
const RejectionSummaryFallback = "Non spécifié"

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id int64) (*Profile, error)
	GetByCandidateID(ctx context.Context, candidateID string) (*Profile, error)
	// SetStatus compare-and-sets the status column: the update applies only
	// while the row still carries expected. Lifecycle timestamps for next are
	// stamped once and never reset.
	SetStatus(ctx context.Context, id int64, expected, next ProfileStatus, now time.Time) error
	// ApplyDecision performs the status CAS, the once-only decision stamp,
	// the admin_score mirror and the history append in a single transaction.
	ApplyDecision(ctx context.Context, id int64, expected ProfileStatus, rec *EvaluationRecord) error
	ListEvaluations(ctx context.Context, profileID int64) ([]EvaluationRecord, error)
	Fetch(ctx context.Context, q ListQuery) ([]Profile, int64, error)
}

type ProfileUsecase interface {
	CreateDraft(ctx context.Context, documentID string) (*Profile, error)
	GetOwnProfile(ctx context.Context) (*Profile, error)
	SubmitForReview(ctx context.Context, id int64) (*Profile, error)
	StartReview(ctx context.Context, id int64) (*Profile, error)
	Validate(ctx context.Context, id int64, payload EvaluationPayload) (*Profile, error)
	Reject(ctx context.Context, id int64, payload EvaluationPayload) (*Profile, error)
	GetHistory(ctx context.Context, id int64) ([]EvaluationRecord, error)
}
