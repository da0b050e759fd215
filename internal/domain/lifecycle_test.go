package domain_test

import (
	"testing"
	"time"

	"cvtheque-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestProfileLifecycle(t *testing.T) {
	lc := domain.ProfileLifecycle

	t.Run("Should follow the happy path", func(t *testing.T) {
		assert.NoError(t, lc.Transition(domain.ProfileDraft, domain.ProfileSubmitted))
		assert.NoError(t, lc.Transition(domain.ProfileSubmitted, domain.ProfileInReview))
		assert.NoError(t, lc.Transition(domain.ProfileInReview, domain.ProfileValidated))
	})

	t.Run("Should allow deciding straight from SUBMITTED", func(t *testing.T) {
		assert.NoError(t, lc.Transition(domain.ProfileSubmitted, domain.ProfileValidated))
		assert.NoError(t, lc.Transition(domain.ProfileSubmitted, domain.ProfileRejected))
	})

	t.Run("Should allow re-decision in both directions", func(t *testing.T) {
		assert.NoError(t, lc.Transition(domain.ProfileValidated, domain.ProfileRejected))
		assert.NoError(t, lc.Transition(domain.ProfileRejected, domain.ProfileValidated))
	})

	t.Run("Should refuse skipping submission", func(t *testing.T) {
		err := lc.Transition(domain.ProfileDraft, domain.ProfileValidated)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Should treat ARCHIVED as terminal", func(t *testing.T) {
		for _, to := range []domain.ProfileStatus{
			domain.ProfileDraft,
			domain.ProfileSubmitted,
			domain.ProfileValidated,
			domain.ProfileRejected,
		} {
			assert.ErrorIs(t, lc.Transition(domain.ProfileArchived, to), domain.ErrInvalidTransition)
		}
	})
}

func TestPostingLifecycle(t *testing.T) {
	lc := domain.PostingLifecycle

	t.Run("Should publish then close or archive", func(t *testing.T) {
		assert.NoError(t, lc.Transition(domain.PostingDraft, domain.PostingPublished))
		assert.NoError(t, lc.Transition(domain.PostingPublished, domain.PostingClosed))
		assert.NoError(t, lc.Transition(domain.PostingPublished, domain.PostingArchived))
	})

	t.Run("Should not republish via a plain status edit", func(t *testing.T) {
		assert.ErrorIs(t, lc.Transition(domain.PostingClosed, domain.PostingPublished), domain.ErrInvalidTransition)
		assert.ErrorIs(t, lc.Transition(domain.PostingArchived, domain.PostingPublished), domain.ErrInvalidTransition)
	})
}

func TestEffectiveExpiry(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Second)
	future := now.Add(time.Hour)

	t.Run("Should expire a PUBLISHED posting past its date", func(t *testing.T) {
		p := &domain.JobPosting{Status: domain.PostingPublished, ExpiresAt: &past}
		assert.True(t, p.EffectivelyExpired(now))
		assert.Equal(t, domain.PostingArchived, p.EffectiveStatus(now))
	})

	t.Run("Should never expire without a date", func(t *testing.T) {
		p := &domain.JobPosting{Status: domain.PostingPublished}
		assert.False(t, p.EffectivelyExpired(now))
		assert.Equal(t, domain.PostingPublished, p.EffectiveStatus(now))
	})

	t.Run("Should not expire before the date", func(t *testing.T) {
		p := &domain.JobPosting{Status: domain.PostingPublished, ExpiresAt: &future}
		assert.False(t, p.EffectivelyExpired(now))
	})

	t.Run("Should only apply to PUBLISHED", func(t *testing.T) {
		p := &domain.JobPosting{Status: domain.PostingClosed, ExpiresAt: &past}
		assert.False(t, p.EffectivelyExpired(now))
		assert.Equal(t, domain.PostingClosed, p.EffectiveStatus(now))
	})
}

func TestListQuery(t *testing.T) {
	t.Run("Should compute a 1-indexed offset", func(t *testing.T) {
		q := domain.ListQuery{Page: 3, PageSize: 25}
		assert.Equal(t, 50, q.Offset())
	})

	t.Run("Should treat empty and ALL as no status filter", func(t *testing.T) {
		assert.False(t, domain.ListQuery{Status: ""}.FiltersStatus())
		assert.False(t, domain.ListQuery{Status: "ALL"}.FiltersStatus())
		assert.True(t, domain.ListQuery{Status: "VALIDATED"}.FiltersStatus())
	})
}
