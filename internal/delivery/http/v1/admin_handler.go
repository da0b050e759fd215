package v1

import (
	"context"
	"net/http"
	"strconv"

	"cvtheque-backend/internal/delivery/http/response"
	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the back-office surface: profile decisions and the
// shared paginated listings.
type AdminHandler struct {
	profileUC domain.ProfileUsecase
	listingUC domain.ListingUsecase
}

func NewAdminHandler(admin *gin.RouterGroup, profileUC domain.ProfileUsecase, listingUC domain.ListingUsecase) {
	handler := &AdminHandler{profileUC: profileUC, listingUC: listingUC}

	profiles := admin.Group("/profiles")
	{
		profiles.GET("", handler.ListProfiles)
		profiles.POST("/:id/review", handler.StartReview)
		profiles.POST("/:id/validate", handler.Validate)
		profiles.POST("/:id/reject", handler.Reject)
		profiles.GET("/:id/history", handler.History)
	}

	admin.GET("/postings", handler.ListPostings)
}

// StartReview godoc
// @Summary      Start reviewing a profile
// @Description  Move a SUBMITTED profile to IN_REVIEW to mark it as claimed by an admin
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/profiles/{id}/review [post]
// @Security     BearerAuth
func (h *AdminHandler) StartReview(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profileUC.StartReview(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile review started", profile)
}

// Validate godoc
// @Summary      Validate a profile
// @Description  Grant a profile CVthèque visibility with a scored evaluation. The summary must contain at least 50 characters.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id          path      int                      true  "Profile ID"
// @Param        evaluation  body      domain.EvaluationPayload true  "Evaluation JSON"
// @Success      200         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Failure      422         {object}  response.Response
// @Router       /admin/profiles/{id}/validate [post]
// @Security     BearerAuth
func (h *AdminHandler) Validate(c *gin.Context) {
	h.decide(c, h.profileUC.Validate, "Profile validated")
}

// Reject godoc
// @Summary      Reject a profile
// @Description  Reject a profile with a scored evaluation. An empty summary is recorded as "Non spécifié".
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id          path      int                      true  "Profile ID"
// @Param        evaluation  body      domain.EvaluationPayload true  "Evaluation JSON"
// @Success      200         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Failure      409         {object}  response.Response
// @Failure      422         {object}  response.Response
// @Router       /admin/profiles/{id}/reject [post]
// @Security     BearerAuth
func (h *AdminHandler) Reject(c *gin.Context) {
	h.decide(c, h.profileUC.Reject, "Profile rejected")
}

func (h *AdminHandler) decide(c *gin.Context, op func(ctx context.Context, id int64, payload domain.EvaluationPayload) (*domain.Profile, error), message string) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var payload domain.EvaluationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := op(c.Request.Context(), id, payload)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, message, profile)
}

// History godoc
// @Summary      Get a profile's evaluation history (admin)
// @Description  List the evaluation records of any profile, oldest first
// @Tags         admin
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/profiles/{id}/history [get]
// @Security     BearerAuth
func (h *AdminHandler) History(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	records, err := h.profileUC.GetHistory(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Evaluation history", records)
}

// ListProfiles godoc
// @Summary      List candidate profiles
// @Description  Paginated profile listing with status filter and free-text search over name, email and title
// @Tags         admin
// @Produce      json
// @Param        status     query     string  false  "Status filter (omit or ALL for every status)"
// @Param        search     query     string  false  "Search term"
// @Param        page       query     int     false  "Page number (1-indexed)"
// @Param        page_size  query     int     false  "Page size (max 100)"
// @Success      200        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/profiles [get]
// @Security     BearerAuth
func (h *AdminHandler) ListProfiles(c *gin.Context) {
	result, err := h.listingUC.ListProfiles(c.Request.Context(), listQueryFromRequest(c))
	if err != nil {
		c.Error(err)
		return
	}

	// The label map rides along so the back-office renders French status
	// badges without hardcoding the enum.
	response.Success(c, http.StatusOK, "Profile list", gin.H{
		"result":        result,
		"status_labels": domain.ProfileStatusLabels,
	})
}

// ListPostings godoc
// @Summary      List job postings
// @Description  Paginated posting listing with status filter and free-text search over title and company
// @Tags         admin
// @Produce      json
// @Param        status     query     string  false  "Status filter (omit or ALL for every status)"
// @Param        search     query     string  false  "Search term"
// @Param        page       query     int     false  "Page number (1-indexed)"
// @Param        page_size  query     int     false  "Page size (max 100)"
// @Param        sort       query     string  false  "Sort order (recent = newest first)"
// @Success      200        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/postings [get]
// @Security     BearerAuth
func (h *AdminHandler) ListPostings(c *gin.Context) {
	result, err := h.listingUC.ListPostings(c.Request.Context(), listQueryFromRequest(c))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Posting list", gin.H{
		"result":        result,
		"status_labels": domain.PostingStatusLabels,
	})
}

func listQueryFromRequest(c *gin.Context) domain.ListQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))

	return domain.ListQuery{
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
		Sort:     c.Query("sort"),
	}
}
