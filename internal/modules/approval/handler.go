package approval

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dojoadmin/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the master-only administration surface.
func (h *Handler) RegisterRoutes(master *gin.RouterGroup) {
	grp := master.Group("/members")
	{
		grp.GET("/pending", h.ListPending)
		grp.POST("/:id/approve", h.Approve)
		grp.POST("/:id/revoke-approval", h.RevokeApproval)
		grp.POST("/:id/promote", h.Promote)
		grp.PUT("/:id/belt-rank", h.AssignBeltRank)
		grp.PUT("/:id/fee-program", h.SetFeeProgram)
	}
}

// ListPending lists registrations awaiting review.
// @Summary		List pending students
// @Tags		Members
// @Security	BearerAuth
// @Param		page	query	int	false	"Page"
// @Param		limit	query	int	false	"Page size"
// @Success		200	{object}	map[string]interface{} "Pending profiles"
// @Failure		403	{object}	map[string]interface{} "Requester is not a privileged master"
// @Router		/master/members/pending [GET]
func (h *Handler) ListPending(c *gin.Context) {
	requesterID := c.GetInt64("profile_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	profiles, total, err := h.service.ListPending(c.Request.Context(), requesterID, page, limit)
	if err != nil {
		h.writeError(c, err, "LIST_FAILED", "Failed to list pending profiles")
		return
	}

	response.Success(c, http.StatusOK, PendingListResponse{
		Profiles: profiles,
		Total:    total,
		Page:     page,
		Limit:    limit,
	})
}

// Approve grants a pending profile access.
// @Summary		Approve a member
// @Tags		Members
// @Security	BearerAuth
// @Param		id	path	int	true	"Target profile ID"
// @Success		200	{object}	map[string]interface{} "Approved"
// @Failure		403	{object}	map[string]interface{} "Forbidden"
// @Failure		404	{object}	map[string]interface{} "Target not found"
// @Failure		409	{object}	map[string]interface{} "Concurrent modification or already approved"
// @Router		/master/members/{id}/approve [POST]
func (h *Handler) Approve(c *gin.Context) {
	requesterID := c.GetInt64("profile_id")
	targetID, ok := h.targetID(c)
	if !ok {
		return
	}

	if err := h.service.Approve(c.Request.Context(), requesterID, targetID); err != nil {
		h.writeError(c, err, "APPROVE_FAILED", "Failed to approve profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Profile approved"})
}

// RevokeApproval clears the approval fields together.
// @Summary		Revoke a member's approval
// @Tags		Members
// @Security	BearerAuth
// @Param		id	path	int	true	"Target profile ID"
// @Success		200	{object}	map[string]interface{} "Approval revoked"
// @Router		/master/members/{id}/revoke-approval [POST]
func (h *Handler) RevokeApproval(c *gin.Context) {
	requesterID := c.GetInt64("profile_id")
	targetID, ok := h.targetID(c)
	if !ok {
		return
	}

	if err := h.service.RevokeApproval(c.Request.Context(), requesterID, targetID); err != nil {
		h.writeError(c, err, "REVOKE_FAILED", "Failed to revoke approval")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Approval revoked"})
}

// Promote escalates a student to master. Irreversible.
// @Summary		Promote a student to master
// @Description	Escalates the target's role to master. There is no demotion path — the invoking UI must confirm this as a destructive action.
// @Tags		Members
// @Security	BearerAuth
// @Param		id	path	int	true	"Target profile ID"
// @Success		200	{object}	map[string]interface{} "Promoted"
// @Router		/master/members/{id}/promote [POST]
func (h *Handler) Promote(c *gin.Context) {
	requesterID := c.GetInt64("profile_id")
	targetID, ok := h.targetID(c)
	if !ok {
		return
	}

	if err := h.service.Promote(c.Request.Context(), requesterID, targetID); err != nil {
		h.writeError(c, err, "PROMOTE_FAILED", "Failed to promote profile")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Profile promoted to master"})
}

// AssignBeltRank sets the member's rank from the catalog.
// @Summary		Assign a belt rank
// @Tags		Members
// @Security	BearerAuth
// @Param		id		path	int					true	"Target profile ID"
// @Param		request	body	AssignRankRequest	true	"Rank name"
// @Success		200	{object}	map[string]interface{} "Rank assigned"
// @Router		/master/members/{id}/belt-rank [PUT]
func (h *Handler) AssignBeltRank(c *gin.Context) {
	requesterID := c.GetInt64("profile_id")
	targetID, ok := h.targetID(c)
	if !ok {
		return
	}

	var req AssignRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.AssignBeltRank(c.Request.Context(), requesterID, targetID, req.Rank); err != nil {
		h.writeError(c, err, "ASSIGN_RANK_FAILED", "Failed to assign belt rank")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Belt rank assigned"})
}

// SetFeeProgram configures billing for the member.
// @Summary		Set a member's fee program
// @Tags		Members
// @Security	BearerAuth
// @Param		id		path	int					true	"Target profile ID"
// @Param		request	body	FeeProgramRequest	true	"Program flags and monthly fee"
// @Success		200	{object}	map[string]interface{} "Program updated"
// @Router		/master/members/{id}/fee-program [PUT]
func (h *Handler) SetFeeProgram(c *gin.Context) {
	requesterID := c.GetInt64("profile_id")
	targetID, ok := h.targetID(c)
	if !ok {
		return
	}

	var req FeeProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	fee := decimal.Zero
	if req.MonthlyFee != "" {
		parsed, err := decimal.NewFromString(req.MonthlyFee)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "monthly_fee is not a valid decimal")
			return
		}
		fee = parsed
	}

	err := h.service.SetFeeProgram(c.Request.Context(), requesterID, targetID, req.IsPrivateStudent, req.IsSocialProgram, fee)
	if err != nil {
		h.writeError(c, err, "FEE_PROGRAM_FAILED", "Failed to update fee program")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Fee program updated"})
}

func (h *Handler) targetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid profile ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallbackCode, fallbackMsg string) {
	switch {
	case errors.Is(err, ErrForbidden):
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Only an approved master may perform this action")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Target profile not found")
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "CONFLICT", "Profile was modified concurrently, reload and retry")
	case errors.Is(err, ErrNotPending):
		response.Error(c, http.StatusConflict, "ALREADY_APPROVED", "Profile is already approved")
	case errors.Is(err, ErrNotApproved):
		response.Error(c, http.StatusConflict, "NOT_APPROVED", "Profile is not approved")
	case errors.Is(err, ErrAlreadyMaster):
		response.Error(c, http.StatusConflict, "ALREADY_MASTER", "Profile already has the master role")
	case errors.Is(err, ErrInvalidFee):
		response.Error(c, http.StatusBadRequest, "INVALID_FEE", "Monthly fee must be positive for private students")
	default:
		response.Error(c, http.StatusInternalServerError, fallbackCode, fallbackMsg)
	}
}
