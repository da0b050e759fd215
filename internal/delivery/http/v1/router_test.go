package v1_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cvtheque-backend/config"
	v1 "cvtheque-backend/internal/delivery/http/v1"
	"cvtheque-backend/internal/domain"
	"cvtheque-backend/internal/usecase"
	"cvtheque-backend/pkg/auth"
	"cvtheque-backend/pkg/logger"
	"cvtheque-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testJWTSecret = "router-test-secret"

// stubProfileRepo is a minimal in-memory stand-in so the full stack can be
// exercised end to end: middleware, handler and usecase all run for real.
type stubProfileRepo struct{}

func (s *stubProfileRepo) Create(ctx context.Context, profile *domain.Profile) error {
	profile.ID = 1
	return nil
}

func (s *stubProfileRepo) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	return &domain.Profile{ID: id, CandidateID: "cand-1", Status: domain.ProfileDraft}, nil
}

func (s *stubProfileRepo) GetByCandidateID(ctx context.Context, candidateID string) (*domain.Profile, error) {
	return &domain.Profile{ID: 1, CandidateID: candidateID, Status: domain.ProfileDraft}, nil
}

func (s *stubProfileRepo) SetStatus(ctx context.Context, id int64, expected, next domain.ProfileStatus, now time.Time) error {
	return nil
}

func (s *stubProfileRepo) ApplyDecision(ctx context.Context, id int64, expected domain.ProfileStatus, rec *domain.EvaluationRecord) error {
	return nil
}

func (s *stubProfileRepo) ListEvaluations(ctx context.Context, profileID int64) ([]domain.EvaluationRecord, error) {
	return []domain.EvaluationRecord{}, nil
}

func (s *stubProfileRepo) Fetch(ctx context.Context, q domain.ListQuery) ([]domain.Profile, int64, error) {
	return []domain.Profile{}, 0, nil
}

type stubPostingRepo struct{}

func (s *stubPostingRepo) Create(ctx context.Context, posting *domain.JobPosting) error {
	posting.ID = 1
	return nil
}

func (s *stubPostingRepo) GetByID(ctx context.Context, id int64) (*domain.JobPosting, error) {
	return &domain.JobPosting{ID: id, Status: domain.PostingDraft}, nil
}

func (s *stubPostingRepo) SetStatus(ctx context.Context, id int64, expected, next domain.PostingStatus, now time.Time) error {
	return nil
}

func (s *stubPostingRepo) Renew(ctx context.Context, id int64, expected domain.PostingStatus, expiresAt time.Time, now time.Time) error {
	return nil
}

func (s *stubPostingRepo) IncrementViews(ctx context.Context, id int64) error { return nil }

func (s *stubPostingRepo) IncrementRegisterClicks(ctx context.Context, id int64) error { return nil }

func (s *stubPostingRepo) Fetch(ctx context.Context, q domain.ListQuery) ([]domain.JobPosting, int64, error) {
	return []domain.JobPosting{}, 0, nil
}

func (s *stubPostingRepo) FetchPublished(ctx context.Context, now time.Time, limit, offset int) ([]domain.JobPosting, int64, error) {
	return []domain.JobPosting{}, 0, nil
}

func (s *stubPostingRepo) ArchiveExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger.Init()

	validate := validator.New()
	validation.RegisterValidators(validate)

	profileRepo := &stubProfileRepo{}
	postingRepo := &stubPostingRepo{}

	return v1.NewRouter(v1.RouterDeps{
		ProfileUC:    usecase.NewProfileUsecase(profileRepo, nil, nil, nil, validate),
		PostingUC:    usecase.NewPostingUsecase(postingRepo, validate),
		ListingUC:    usecase.NewListingUsecase(profileRepo, postingRepo),
		JWKSProvider: auth.NewProvider(""),
		Config: &config.Config{
			AuthJWTSecret:            testJWTSecret,
			RateLimitWindowSeconds:   60,
			RateLimitGlobalThreshold: 100,
		},
	})
}

func mintToken(t *testing.T, sub string, roles []string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": sub + "@example.fr",
		"roles": roles,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// The admin routes only work if the identity extracted by the auth
// middleware actually reaches the usecases through the request context, so
// these requests run the real router end to end instead of pre-built
// contexts.
func TestRouterIdentityPropagation(t *testing.T) {
	router := newTestRouter()

	t.Run("Should let an admin token through to the admin listing", func(t *testing.T) {
		token := mintToken(t, "admin-1", []string{domain.RoleAdmin})
		w := doRequest(router, http.MethodGet, "/v1/admin/profiles", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "\"success\":true")
	})

	t.Run("Should carry the caller's user ID down to the profile usecase", func(t *testing.T) {
		token := mintToken(t, "cand-42", []string{domain.RoleCandidate})
		w := doRequest(router, http.MethodGet, "/v1/profiles/me", token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "cand-42")
	})

	t.Run("Should reject a candidate token on admin routes", func(t *testing.T) {
		token := mintToken(t, "cand-1", []string{domain.RoleCandidate})
		w := doRequest(router, http.MethodGet, "/v1/admin/profiles", token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Should reject requests without a token", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/v1/admin/profiles", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
