package billing

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// RegisterMemberRoutes exposes a student's own billing history.
func (h *Handler) RegisterMemberRoutes(protected *gin.RouterGroup) {
	protected.GET("/profiles/me/fees", h.ListOwnFees)
}

// RegisterMasterRoutes mounts the billing administration surface.
func (h *Handler) RegisterMasterRoutes(master *gin.RouterGroup) {
	grp := master.Group("/billing")
	{
		grp.POST("/generate", h.Generate)
		grp.GET("/fees", h.ListForPeriod)
		grp.GET("/fees/student/:id", h.ListForStudent)
		grp.POST("/fees/:id/payment", h.RecordPayment)
		grp.POST("/fees/:id/cancel", h.Cancel)
		grp.POST("/rate-change", h.RateChange)
		grp.GET("/summary", h.Summary)
	}
}

// Generate materializes fee records for a billing period.
// @Summary		Generate monthly fees
// @Description	Creates one pending fee record per eligible private student lacking one for the period. Safe to call repeatedly: repeats report already_generated with zero created.
// @Tags		Billing
// @Security	BearerAuth
// @Param		request	body	GenerateRequest	true	"Billing period"
// @Success		200	{object}	map[string]interface{} "Generation outcome and created count"
// @Failure		400	{object}	map[string]interface{} "Invalid period"
// @Router		/master/billing/generate [POST]
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.GenerateForPeriod(c.Request.Context(), req.Month, req.Year)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			response.Error(c, http.StatusBadRequest, "INVALID_PERIOD", "Month must be 1-12 and year within range")
			return
		}
		response.Error(c, http.StatusInternalServerError, "GENERATION_FAILED", "Failed to generate fee records")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// RecordPayment confirms payment of a fee record.
// @Summary		Record a payment
// @Tags		Billing
// @Security	BearerAuth
// @Param		id		path	int						true	"Fee record ID"
// @Param		request	body	RecordPaymentRequest	true	"Payment date (YYYY-MM-DD) and method"
// @Success		200	{object}	map[string]interface{} "Updated record with receipt number"
// @Failure		409	{object}	map[string]interface{} "Already paid or cancelled"
// @Router		/master/billing/fees/{id}/payment [POST]
func (h *Handler) RecordPayment(c *gin.Context) {
	feeID, ok := h.feeID(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "payment_date and payment_method are required")
		return
	}

	paymentDate, err := time.Parse("2006-01-02", req.PaymentDate)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "payment_date must be YYYY-MM-DD")
		return
	}

	fee, err := h.service.RecordPayment(c.Request.Context(), feeID, paymentDate, req.PaymentMethod, req.Notes)
	if err != nil {
		h.writeError(c, err, "PAYMENT_FAILED", "Failed to record payment")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee": fee})
}

// Cancel retires an unpaid fee record.
// @Summary		Cancel a fee record
// @Description	Sets the record to cancelled. Terminal: there is no reversal, and paid records cannot be cancelled.
// @Tags		Billing
// @Security	BearerAuth
// @Param		id	path	int	true	"Fee record ID"
// @Success		200	{object}	map[string]interface{} "Cancelled record"
// @Router		/master/billing/fees/{id}/cancel [POST]
func (h *Handler) Cancel(c *gin.Context) {
	feeID, ok := h.feeID(c)
	if !ok {
		return
	}

	fee, err := h.service.Cancel(c.Request.Context(), feeID)
	if err != nil {
		h.writeError(c, err, "CANCEL_FAILED", "Failed to cancel fee record")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"fee": fee})
}

// RateChange reprices the dojo.
// @Summary		Apply a global rate change
// @Description	Updates the default fee on eligible private students and the amount on every pending record, atomically. Paid and cancelled records are untouched.
// @Tags		Billing
// @Security	BearerAuth
// @Param		request	body	RateChangeRequest	true	"New monthly amount"
// @Success		200	{object}	map[string]interface{} "Counts of profiles and pending records updated"
// @Failure		400	{object}	map[string]interface{} "Non-positive amount"
// @Router		/master/billing/rate-change [POST]
func (h *Handler) RateChange(c *gin.Context) {
	var req RateChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	amount, err := decimal.NewFromString(req.NewAmount)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "new_amount is not a valid decimal")
		return
	}

	result, err := h.service.ApplyGlobalRateChange(c.Request.Context(), amount)
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			response.Error(c, http.StatusBadRequest, "INVALID_AMOUNT", "New amount must be positive")
			return
		}
		response.Error(c, http.StatusInternalServerError, "RATE_CHANGE_FAILED", "Failed to apply rate change")
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListForPeriod lists every fee record for a period.
// @Summary		List fees for a period
// @Tags		Billing
// @Security	BearerAuth
// @Param		month	query	int	true	"Month (1-12)"
// @Param		year	query	int	true	"Year"
// @Success		200	{object}	map[string]interface{} "Fee records"
// @Router		/master/billing/fees [GET]
func (h *Handler) ListForPeriod(c *gin.Context) {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))

	fees, err := h.service.ListForPeriod(c.Request.Context(), month, year)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			response.Error(c, http.StatusBadRequest, "INVALID_PERIOD", "Month must be 1-12 and year within range")
			return
		}
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list fee records")
		return
	}
	response.Success(c, http.StatusOK, FeeListResponse{Fees: fees, Total: len(fees)})
}

// ListForStudent lists one student's billing history.
// @Summary		List a student's fees
// @Tags		Billing
// @Security	BearerAuth
// @Param		id	path	int	true	"Profile ID"
// @Success		200	{object}	map[string]interface{} "Fee records, newest first"
// @Router		/master/billing/fees/student/{id} [GET]
func (h *Handler) ListForStudent(c *gin.Context) {
	profileID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid profile ID")
		return
	}

	fees, err := h.service.ListForStudent(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list fee records")
		return
	}
	response.Success(c, http.StatusOK, FeeListResponse{Fees: fees, Total: len(fees)})
}

// Summary reports a period's financials.
// @Summary		Billing summary for a period
// @Tags		Billing
// @Security	BearerAuth
// @Param		month	query	int	true	"Month (1-12)"
// @Param		year	query	int	true	"Year"
// @Success		200	{object}	map[string]interface{} "Counts and totals per status"
// @Router		/master/billing/summary [GET]
func (h *Handler) Summary(c *gin.Context) {
	month, _ := strconv.Atoi(c.Query("month"))
	year, _ := strconv.Atoi(c.Query("year"))

	summary, err := h.service.Summary(c.Request.Context(), month, year)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			response.Error(c, http.StatusBadRequest, "INVALID_PERIOD", "Month must be 1-12 and year within range")
			return
		}
		response.Error(c, http.StatusInternalServerError, "SUMMARY_FAILED", "Failed to build billing summary")
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// ListOwnFees lets a member see their own billing history.
// @Summary		List own fees
// @Tags		Billing
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{} "Fee records, newest first"
// @Router		/profiles/me/fees [GET]
func (h *Handler) ListOwnFees(c *gin.Context) {
	profileID := c.GetInt64("profile_id")

	fees, err := h.service.ListForStudent(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list fee records")
		return
	}
	response.Success(c, http.StatusOK, FeeListResponse{Fees: fees, Total: len(fees)})
}

func (h *Handler) feeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid fee record ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallbackCode, fallbackMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Fee record not found")
	case errors.Is(err, ErrPaymentIncomplete):
		response.Error(c, http.StatusBadRequest, "PAYMENT_INCOMPLETE", "Payment date and payment method are required")
	case errors.Is(err, ErrAlreadyPaid):
		response.Error(c, http.StatusConflict, "ALREADY_PAID", "This fee record is already paid")
	case errors.Is(err, ErrCancelled):
		response.Error(c, http.StatusConflict, "CANCELLED", "This fee record is cancelled")
	case errors.Is(err, ErrPaidNotCancellable):
		response.Error(c, http.StatusConflict, "PAID_NOT_CANCELLABLE", "A paid fee record cannot be cancelled")
	default:
		response.Error(c, http.StatusInternalServerError, fallbackCode, fallbackMsg)
	}
}
