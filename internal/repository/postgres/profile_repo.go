package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cvtheque-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type profileRepo struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

const profileColumns = `id, candidate_id, first_name, last_name, email, title, skills, resume_url, status, admin_score, created_at, updated_at, submitted_at, validated_at, rejected_at`

func (r *profileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (candidate_id, first_name, last_name, email, title, skills, resume_url, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return r.db.QueryRow(ctx, query,
		p.CandidateID, p.FirstName, p.LastName, p.Email, p.Title, p.Skills, p.ResumeURL, p.Status,
		p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *profileRepo) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanProfileRow(r.db.QueryRow(ctx, query, id))
}

func (r *profileRepo) GetByCandidateID(ctx context.Context, candidateID string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE candidate_id = $1`
	return r.scanProfileRow(r.db.QueryRow(ctx, query, candidateID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *profileRepo) scanProfileRow(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	err := row.Scan(
		&p.ID, &p.CandidateID, &p.FirstName, &p.LastName, &p.Email, &p.Title, &p.Skills, &p.ResumeURL,
		&p.Status, &p.AdminScore, &p.CreatedAt, &p.UpdatedAt, &p.SubmittedAt, &p.ValidatedAt, &p.RejectedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SetStatus compare-and-sets the status column. submitted_at is stamped with
// COALESCE so a re-submit after a race never overwrites the first stamp.
func (r *profileRepo) SetStatus(ctx context.Context, id int64, expected, next domain.ProfileStatus, now time.Time) error {
	query := `UPDATE profiles SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	if next == domain.ProfileSubmitted {
		query = `UPDATE profiles SET status = $3, submitted_at = COALESCE(submitted_at, $4), updated_at = $4 WHERE id = $1 AND status = $2`
	}
	result, err := r.db.Exec(ctx, query, id, expected, next, now)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return r.casFailure(ctx, id)
	}
	return nil
}

// ApplyDecision runs the decision as one transaction: the status CAS with its
// once-only decision stamp and admin_score mirror, then the history append.
// No reader can observe the status changed without the record present.
func (r *profileRepo) ApplyDecision(ctx context.Context, id int64, expected domain.ProfileStatus, rec *domain.EvaluationRecord) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stampCol := "rejected_at"
	if rec.Status == domain.ProfileValidated {
		stampCol = "validated_at"
	}
	update := fmt.Sprintf(`UPDATE profiles SET status = $3, admin_score = $4, %s = COALESCE(%s, $5), updated_at = $5
	                       WHERE id = $1 AND status = $2`, stampCol, stampCol)
	result, err := tx.Exec(ctx, update, id, expected, rec.Status, rec.OverallScore, rec.CreatedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return r.casFailure(ctx, id)
	}

	insert := `INSERT INTO evaluations (profile_id, overall_score, technical, soft_skills, communication, motivation, summary, interview_notes, recommendations, status, created_at, updated_at)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	err = tx.QueryRow(ctx, insert,
		rec.ProfileID, rec.OverallScore, rec.Technical, rec.SoftSkills, rec.Communication, rec.Motivation,
		rec.Summary, rec.InterviewNotes, rec.Recommendations, rec.Status, rec.CreatedAt, rec.UpdatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// casFailure tells a missing row apart from a lost race.
func (r *profileRepo) casFailure(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM profiles WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrentModification
}

func (r *profileRepo) ListEvaluations(ctx context.Context, profileID int64) ([]domain.EvaluationRecord, error) {
	query := `SELECT id, profile_id, overall_score, technical, soft_skills, communication, motivation, summary, interview_notes, recommendations, status, created_at, updated_at
              FROM evaluations WHERE profile_id = $1 ORDER BY id ASC`

	rows, err := r.db.Query(ctx, query, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.EvaluationRecord
	for rows.Next() {
		var rec domain.EvaluationRecord
		if err := rows.Scan(&rec.ID, &rec.ProfileID, &rec.OverallScore, &rec.Technical, &rec.SoftSkills, &rec.Communication, &rec.Motivation, &rec.Summary, &rec.InterviewNotes, &rec.Recommendations, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Fetch is the admin listing read-path: status filter, case-insensitive text
// search over name/email/title, newest-submission-first with NULLS LAST, and
// a server-side total so no caller ever pages the whole table into memory.
func (r *profileRepo) Fetch(ctx context.Context, q domain.ListQuery) ([]domain.Profile, int64, error) {
	var conds []string
	var args []any

	if q.FiltersStatus() {
		args = append(args, q.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR title ILIKE $%d)", n, n, n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.PageSize, q.Offset())
	query := fmt.Sprintf(`SELECT `+profileColumns+` FROM profiles%s ORDER BY submitted_at DESC NULLS LAST, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.ID, &p.CandidateID, &p.FirstName, &p.LastName, &p.Email, &p.Title, &p.Skills, &p.ResumeURL, &p.Status, &p.AdminScore, &p.CreatedAt, &p.UpdatedAt, &p.SubmittedAt, &p.ValidatedAt, &p.RejectedAt); err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, p)
	}

	return profiles, total, rows.Err()
}
