package v1

import (
	"net/http"

	"cvtheque-backend/config"
	"cvtheque-backend/internal/delivery/http/middleware"
	"cvtheque-backend/internal/delivery/http/response"
	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ProfileUC    domain.ProfileUsecase
	PostingUC    domain.PostingUsecase
	ListingUC    domain.ListingUsecase
	JWKSProvider *auth.Provider
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.GlobalRateLimitFromEnv(deps.Config.RateLimitWindowSeconds, deps.Config.RateLimitGlobalThreshold))
	r.Use(middleware.CSRFMiddleware())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config))

	// Admin routes carry a stricter rate limit on top of auth; the role
	// check itself lives in the usecases, RequireAdmin just fails fast.
	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	admin.Use(middleware.RateLimitMiddleware(middleware.AdminRateLimitConfig()))

	counterLimiter := middleware.RateLimitMiddleware(middleware.CounterRateLimitConfig())

	NewProfileHandler(protected, deps.ProfileUC)
	NewAdminHandler(admin, deps.ProfileUC, deps.ListingUC)
	NewPostingHandler(v1, admin, counterLimiter, deps.PostingUC)

	return r
}
