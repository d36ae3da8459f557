package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dojoadmin/internal/domain"
	"dojoadmin/internal/pkg/response"
	"dojoadmin/internal/pkg/validator"
)

// Handler manages all HTTP interactions for authentication
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/profiles")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PUT("/me", h.UpdateProfile)
	}
}

// Register creates a new member account.
// @Summary		Register a new student
// @Description	Creates a student profile in pending state. The account cannot log in until a master approves it.
// @Tags		Auth
// @Param		request	body	RegisterRequest	true	"Registration fields"
// @Success		201	{object}	map[string]interface{} "Profile created, pending approval"
// @Failure		400	{object}	map[string]interface{} "Validation error"
// @Failure		409	{object}	map[string]interface{} "Email already registered"
// @Router		/auth/register [POST]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(&req); fieldErrors != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid registration fields", fieldErrors)
		return
	}

	profile, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
			return
		}
		response.Error(c, http.StatusInternalServerError, "REGISTRATION_FAILED", "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"profile": toProfileResponse(profile),
		"message": "Registration received. A master must approve the account before login.",
	})
}

// Login authenticates a member.
// @Summary		Log in
// @Description	Validates credentials and returns a JWT. Unapproved accounts are rejected with PENDING_APPROVAL and receive no token.
// @Tags		Auth
// @Param		request	body	LoginRequest	true	"Credentials"
// @Success		200	{object}	map[string]interface{} "Profile and access token"
// @Failure		401	{object}	map[string]interface{} "Invalid credentials"
// @Failure		403	{object}	map[string]interface{} "Account pending approval"
// @Router		/auth/login [POST]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Email or password is incorrect")
		case errors.Is(err, ErrPendingApproval):
			response.Error(c, http.StatusForbidden, "PENDING_APPROVAL", "Your account is awaiting approval by a master")
		default:
			response.Error(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to login")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"profile": toProfileResponse(result.Profile),
		"token":   result.AccessToken,
	})
}

// GetMe returns the current member's profile.
// @Summary		Get own profile
// @Tags		Profile
// @Security	BearerAuth
// @Success		200	{object}	map[string]interface{} "Profile"
// @Failure		404	{object}	map[string]interface{} "Profile not found"
// @Router		/profiles/me [GET]
func (h *Handler) GetMe(c *gin.Context) {
	profileID := c.GetInt64("profile_id")

	profile, err := h.service.GetCurrentProfile(c.Request.Context(), profileID)
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Profile not found")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": toProfileResponse(profile)})
}

// UpdateProfile edits the current member's own contact fields.
// @Summary		Update own profile
// @Tags		Profile
// @Security	BearerAuth
// @Param		request	body	UpdateProfileRequest	true	"Fields to update"
// @Success		200	{object}	map[string]interface{} "Updated profile"
// @Failure		400	{object}	map[string]interface{} "Validation error"
// @Router		/profiles/me [PUT]
func (h *Handler) UpdateProfile(c *gin.Context) {
	profileID := c.GetInt64("profile_id")

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if fieldErrors := validator.Validate(&req); fieldErrors != nil {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "Invalid profile fields", fieldErrors)
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), profileID, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Could not update profile")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"profile": toProfileResponse(profile)})
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:               p.ID,
		Email:            p.Email,
		Name:             p.Name,
		Phone:            p.Phone,
		BirthDate:        p.BirthDate,
		Address:          p.Address,
		Emergency:        p.Emergency,
		Role:             string(p.Role),
		Approved:         p.Approved,
		BeltRank:         p.BeltRank,
		IsPrivateStudent: p.IsPrivateStudent,
		IsSocialProgram:  p.IsSocialProgram,
		MonthlyFee:       p.MonthlyFee.StringFixed(2),
		CreatedAt:        p.CreatedAt.Format("2006-01-02"),
	}
}
