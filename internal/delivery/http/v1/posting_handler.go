package v1

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"cvtheque-backend/internal/delivery/http/response"
	"cvtheque-backend/internal/domain"
	"cvtheque-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type PostingHandler struct {
	postingUC domain.PostingUsecase
}

func NewPostingHandler(public *gin.RouterGroup, admin *gin.RouterGroup, counterLimiter gin.HandlerFunc, postingUC domain.PostingUsecase) {
	handler := &PostingHandler{postingUC: postingUC}

	// PUBLIC routes - the job board and its anonymous counters
	publicPostings := public.Group("/postings")
	{
		publicPostings.GET("", handler.PublicList)
		publicPostings.GET("/:id", handler.PublicGet)
		publicPostings.POST("/:id/view", counterLimiter, handler.RecordView)
		publicPostings.POST("/:id/register-click", counterLimiter, handler.RecordRegisterClick)
	}

	// ADMIN routes - posting lifecycle management
	adminPostings := admin.Group("/postings")
	{
		adminPostings.POST("", handler.Create)
		adminPostings.GET("/:id", handler.Get)
		adminPostings.PATCH("/:id/publish", handler.Publish)
		adminPostings.PATCH("/:id/close", handler.Close)
		adminPostings.PATCH("/:id/archive", handler.Archive)
		adminPostings.POST("/:id/renew", handler.Renew)
	}
}

type CreatePostingRequest struct {
	Title                  string     `json:"title" binding:"required"`
	Company                string     `json:"company" binding:"required"`
	Description            string     `json:"description"`
	Location               string     `json:"location"`
	ApplicationType        string     `json:"application_type" binding:"required"`
	ExternalApplicationURL string     `json:"external_application_url"`
	ApplicationEmail       string     `json:"application_email"`
	ExpiresAt              *time.Time `json:"expires_at"`
}

type RenewPostingRequest struct {
	ExpiresAt time.Time `json:"expires_at" binding:"required"`
}

// Create godoc
// @Summary      Create a job posting
// @Description  Create a new job posting in DRAFT (admin only)
// @Tags         postings
// @Accept       json
// @Produce      json
// @Param        posting  body      CreatePostingRequest  true  "Posting JSON"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /admin/postings [post]
// @Security     BearerAuth
func (h *PostingHandler) Create(c *gin.Context) {
	var req CreatePostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	toPtr := func(s string) *string {
		if s == "" {
			return nil
		}
		return &s
	}

	posting := &domain.JobPosting{
		Title:                  req.Title,
		Company:                req.Company,
		Description:            req.Description,
		Location:               req.Location,
		ApplicationType:        domain.ApplicationType(req.ApplicationType),
		ExternalApplicationURL: toPtr(req.ExternalApplicationURL),
		ApplicationEmail:       toPtr(req.ApplicationEmail),
		ExpiresAt:              req.ExpiresAt,
	}

	if err := h.postingUC.Create(c.Request.Context(), posting); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Posting created", posting)
}

// Get godoc
// @Summary      Get posting details (admin)
// @Description  Get a posting in any status, with its derived effective expiry
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/postings/{id} [get]
// @Security     BearerAuth
func (h *PostingHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	view, err := h.postingUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Posting details", view)
}

// Publish godoc
// @Summary      Publish a posting
// @Description  Move a DRAFT posting to PUBLISHED so it appears on the public board
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/postings/{id}/publish [patch]
// @Security     BearerAuth
func (h *PostingHandler) Publish(c *gin.Context) {
	h.setStatus(c, h.postingUC.Publish, "Posting published")
}

// Close godoc
// @Summary      Close a posting
// @Description  Move a PUBLISHED posting to CLOSED, removing it from the public board
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/postings/{id}/close [patch]
// @Security     BearerAuth
func (h *PostingHandler) Close(c *gin.Context) {
	h.setStatus(c, h.postingUC.Close, "Posting closed")
}

// Archive godoc
// @Summary      Archive a posting
// @Description  Move a PUBLISHED posting to ARCHIVED
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/postings/{id}/archive [patch]
// @Security     BearerAuth
func (h *PostingHandler) Archive(c *gin.Context) {
	h.setStatus(c, h.postingUC.Archive, "Posting archived")
}

func (h *PostingHandler) setStatus(c *gin.Context, op func(ctx context.Context, id int64) (*domain.JobPosting, error), message string) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	posting, err := op(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, message, posting)
}

// Renew godoc
// @Summary      Renew a posting
// @Description  Republish a closed, archived or expired posting with a new future expiry date
// @Tags         postings
// @Accept       json
// @Produce      json
// @Param        id     path      int                  true  "Posting ID"
// @Param        renew  body      RenewPostingRequest  true  "Renew JSON"
// @Success      200    {object}  response.Response
// @Failure      400    {object}  response.Response
// @Failure      404    {object}  response.Response
// @Failure      409    {object}  response.Response
// @Failure      422    {object}  response.Response
// @Router       /admin/postings/{id}/renew [post]
// @Security     BearerAuth
func (h *PostingHandler) Renew(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req RenewPostingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	posting, err := h.postingUC.Renew(c.Request.Context(), id, req.ExpiresAt)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Posting renewed", posting)
}

// PublicList godoc
// @Summary      List published postings (public)
// @Description  Paginated list of PUBLISHED, non-expired postings (no auth required)
// @Tags         postings
// @Produce      json
// @Param        page       query     int  false  "Page number"
// @Param        page_size  query     int  false  "Page size"
// @Success      200        {object}  response.Response
// @Router       /postings [get]
func (h *PostingHandler) PublicList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))

	postings, total, err := h.postingUC.ListPublic(c.Request.Context(), page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Public posting list", gin.H{
		"postings":  postings,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// PublicGet godoc
// @Summary      Get posting details (public)
// @Description  Get a posting visible on the public board (no auth required)
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /postings/{id} [get]
func (h *PostingHandler) PublicGet(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	view, err := h.postingUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	// The public board only ever shows published, non-expired postings.
	if view.EffectiveStatus != domain.PostingPublished {
		c.Error(apperror.NotFound("Posting not found"))
		return
	}

	response.Success(c, http.StatusOK, "Posting details", view)
}

// RecordView godoc
// @Summary      Record a posting view
// @Description  Increment the posting's view counter (anonymous, fire-and-forget)
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /postings/{id}/view [post]
func (h *PostingHandler) RecordView(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.postingUC.RecordView(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "View recorded", nil)
}

// RecordRegisterClick godoc
// @Summary      Record a register click
// @Description  Increment the posting's register-click counter (anonymous, fire-and-forget)
// @Tags         postings
// @Produce      json
// @Param        id   path      int  true  "Posting ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /postings/{id}/register-click [post]
func (h *PostingHandler) RecordRegisterClick(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.Error(err)
		return
	}

	if err := h.postingUC.RecordRegisterClick(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Register click recorded", nil)
}
