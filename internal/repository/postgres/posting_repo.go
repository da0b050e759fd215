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

type postingRepo struct {
	db *pgxpool.Pool
}

func NewPostingRepository(db *pgxpool.Pool) domain.PostingRepository {
	return &postingRepo{db: db}
}

const postingColumns = `id, title, company, description, location, application_type, external_application_url, application_email, status, expires_at, view_count, register_click_count, created_at, updated_at`

func (r *postingRepo) Create(ctx context.Context, p *domain.JobPosting) error {
	query := `INSERT INTO postings (title, company, description, location, application_type, external_application_url, application_email, status, expires_at, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	return r.db.QueryRow(ctx, query,
		p.Title, p.Company, p.Description, p.Location, p.ApplicationType, p.ExternalApplicationURL, p.ApplicationEmail,
		p.Status, p.ExpiresAt, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
}

func (r *postingRepo) GetByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	query := `SELECT ` + postingColumns + ` FROM postings WHERE id = $1`
	var p domain.JobPosting
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Company, &p.Description, &p.Location, &p.ApplicationType, &p.ExternalApplicationURL,
		&p.ApplicationEmail, &p.Status, &p.ExpiresAt, &p.ViewCount, &p.RegisterClickCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *postingRepo) SetStatus(ctx context.Context, id int64, expected, next domain.PostingStatus, now time.Time) error {
	query := `UPDATE postings SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`
	result, err := r.db.Exec(ctx, query, id, expected, next, now)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return r.casFailure(ctx, id)
	}
	return nil
}

// Renew is the only write that brings a non-published posting back to
// PUBLISHED, and it always replaces expires_at in the same statement.
func (r *postingRepo) Renew(ctx context.Context, id int64, expected domain.PostingStatus, expiresAt, now time.Time) error {
	query := `UPDATE postings SET status = $3, expires_at = $4, updated_at = $5 WHERE id = $1 AND status = $2`
	result, err := r.db.Exec(ctx, query, id, expected, domain.PostingPublished, expiresAt, now)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return r.casFailure(ctx, id)
	}
	return nil
}

func (r *postingRepo) IncrementViews(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE postings SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postingRepo) IncrementRegisterClicks(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `UPDATE postings SET register_click_count = register_click_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postingRepo) casFailure(ctx context.Context, id int64) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM postings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrentModification
}

func (r *postingRepo) Fetch(ctx context.Context, q domain.ListQuery) ([]domain.JobPosting, int64, error) {
	var conds []string
	var args []any

	if q.FiltersStatus() {
		args = append(args, q.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR company ILIKE $%d)", n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// Insertion order by default; "recent" is the one caller-specified sort.
	order := " ORDER BY id ASC"
	if q.Sort == "recent" {
		order = " ORDER BY created_at DESC, id DESC"
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM postings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, q.PageSize, q.Offset())
	query := fmt.Sprintf(`SELECT `+postingColumns+` FROM postings%s%s LIMIT $%d OFFSET $%d`,
		where, order, len(args)-1, len(args))

	return r.queryPostings(ctx, query, args, total)
}

func (r *postingRepo) FetchPublished(ctx context.Context, now time.Time, limit, offset int) ([]domain.JobPosting, int64, error) {
	// Effectively expired postings are filtered here at read time; the sweep
	// flipping their persisted status may not have run yet.
	where := ` WHERE status = $1 AND (expires_at IS NULL OR expires_at > $2)`

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM postings`+where, domain.PostingPublished, now).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + postingColumns + ` FROM postings` + where + ` ORDER BY created_at DESC, id DESC LIMIT $3 OFFSET $4`
	return r.queryPostings(ctx, query, []any{domain.PostingPublished, now, limit, offset}, total)
}

func (r *postingRepo) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.Exec(ctx,
		`UPDATE postings SET status = $1, updated_at = $2 WHERE status = $3 AND expires_at IS NOT NULL AND expires_at < $2`,
		domain.PostingArchived, now, domain.PostingPublished)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *postingRepo) queryPostings(ctx context.Context, query string, args []any, total int64) ([]domain.JobPosting, int64, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var postings []domain.JobPosting
	for rows.Next() {
		var p domain.JobPosting
		if err := rows.Scan(&p.ID, &p.Title, &p.Company, &p.Description, &p.Location, &p.ApplicationType, &p.ExternalApplicationURL, &p.ApplicationEmail, &p.Status, &p.ExpiresAt, &p.ViewCount, &p.RegisterClickCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		postings = append(postings, p)
	}

	return postings, total, rows.Err()
}
