package v1

import (
	"net/http"
	"strconv"

	"cvtheque-backend/internal/delivery/http/response"
	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := protected.Group("/profiles")
	{
		profiles.POST("", handler.CreateDraft)
		profiles.GET("/me", handler.GetOwn)
		profiles.POST("/:id/submit", handler.Submit)
		profiles.GET("/:id/history", handler.History)
	}
}

type CreateDraftRequest struct {
	DocumentID string `json:"document_id" binding:"required"`
}

// CreateDraft godoc
// @Summary      Create a draft profile
// @Description  Create the caller's candidate profile in DRAFT from an uploaded CV document
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        profile  body      CreateDraftRequest  true  "Draft JSON"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /profiles [post]
// @Security     BearerAuth
func (h *ProfileHandler) CreateDraft(c *gin.Context) {
	var req CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	profile, err := h.profileUC.CreateDraft(c.Request.Context(), req.DocumentID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Profile draft created", profile)
}

// GetOwn godoc
// @Summary      Get own profile
// @Description  Get the authenticated candidate's own profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetOwn(c *gin.Context) {
	profile, err := h.profileUC.GetOwnProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile details", profile)
}

// Submit godoc
// @Summary      Submit a profile for review
// @Description  Move the caller's DRAFT profile to SUBMITTED so admins can evaluate it
// @Tags         profiles
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /profiles/{id}/submit [post]
// @Security     BearerAuth
func (h *ProfileHandler) Submit(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profileUC.SubmitForReview(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile submitted for review", profile)
}

// History godoc
// @Summary      Get a profile's evaluation history
// @Description  List the evaluation records of a profile, oldest first. Owner or admin only.
// @Tags         profiles
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id}/history [get]
// @Security     BearerAuth
func (h *ProfileHandler) History(c *gin.Context) {
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

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperror.BadRequest("Invalid ID format")
	}
	return id, nil
}
