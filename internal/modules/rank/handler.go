package rank

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dojoadmin/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterReadRoutes exposes the catalog to any authenticated member.
func (h *Handler) RegisterReadRoutes(protected *gin.RouterGroup) {
	protected.GET("/belt-ranks", h.List)
}

// RegisterWriteRoutes mounts catalog management for masters.
func (h *Handler) RegisterWriteRoutes(master *gin.RouterGroup) {
	grp := master.Group("/belt-ranks")
	{
		grp.POST("", h.Create)
		grp.PUT("/:id", h.Update)
		grp.DELETE("/:id", h.Delete)
	}
}

// List returns the rank catalog ordered by position.
// @Summary		List belt ranks
// @Tags		Belt ranks
// @Security	BearerAuth
// @Param		active	query	boolean	false	"Only active ranks"
// @Success		200	{object}	map[string]interface{} "Ranks"
// @Router		/belt-ranks [GET]
func (h *Handler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	ranks, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "LIST_FAILED", "Failed to list belt ranks")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ranks": ranks})
}

// Create adds a catalog entry.
// @Summary		Create a belt rank
// @Tags		Belt ranks
// @Security	BearerAuth
// @Param		request	body	CreateRankRequest	true	"Rank fields"
// @Success		201	{object}	map[string]interface{} "Created rank"
// @Failure		409	{object}	map[string]interface{} "Name already exists"
// @Router		/master/belt-ranks [POST]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			response.Error(c, http.StatusConflict, "NAME_TAKEN", "A belt rank with this name already exists")
			return
		}
		response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create belt rank")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"rank": r})
}

// Update edits a catalog entry.
// @Summary		Update a belt rank
// @Tags		Belt ranks
// @Security	BearerAuth
// @Param		id		path	int					true	"Rank ID"
// @Param		request	body	UpdateRankRequest	true	"Fields to update"
// @Success		200	{object}	map[string]interface{} "Updated rank"
// @Router		/master/belt-ranks/{id} [PUT]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rank ID")
		return
	}

	var req UpdateRankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	r, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Belt rank not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update belt rank")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rank": r})
}

// Delete removes a catalog entry and clears references to it.
// @Summary		Delete a belt rank
// @Description	Removes the rank and clears belt_rank on every profile referencing it, in one transaction.
// @Tags		Belt ranks
// @Security	BearerAuth
// @Param		id	path	int	true	"Rank ID"
// @Success		200	{object}	map[string]interface{} "Deleted"
// @Router		/master/belt-ranks/{id} [DELETE]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rank ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Belt rank not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "DELETE_FAILED", "Failed to delete belt rank")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "Belt rank deleted"})
}
