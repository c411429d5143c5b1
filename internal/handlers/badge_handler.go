package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/services"
)

// BadgeHandler handles badge CRUD.
type BadgeHandler struct {
	badgeService services.BadgeServicer
	auditService services.AuditServicer
}

// NewBadgeHandler creates a new BadgeHandler.
func NewBadgeHandler(badgeService services.BadgeServicer, auditService services.AuditServicer) *BadgeHandler {
	return &BadgeHandler{badgeService: badgeService, auditService: auditService}
}

// CreateBadgeRequest represents the payload for creating a badge. The
// owner is the authenticated caller and the earned timestamp is set
// server-side.
type CreateBadgeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"omitempty,max=50"`
}

// UpdateBadgeRequest represents a partial badge update. The earned
// timestamp is immutable and not accepted here.
type UpdateBadgeRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" binding:"omitempty,max=50"`
}

// BadgeResponse represents a badge in responses.
type BadgeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	EarnedAt    time.Time `json:"earned_at"`
}

func badgeResponse(b *models.Badge) BadgeResponse {
	return BadgeResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		EarnedAt:    b.EarnedAt,
	}
}

func badgeResponses(items []models.Badge) []BadgeResponse {
	out := make([]BadgeResponse, 0, len(items))
	for i := range items {
		out = append(out, badgeResponse(&items[i]))
	}
	return out
}

// CreateBadge creates a badge owned by the caller
// @Summary     Create a badge
// @Description Create an achievement badge for the authenticated user
// @Tags        badges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBadgeRequest true "Badge details"
// @Success     201 {object} BadgeResponse "Badge created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /badges/ [post]
func (h *BadgeHandler) CreateBadge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	badge, err := h.badgeService.CreateBadge(userID, req.Name, req.Description, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_BADGE", "badge", badge.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"badge": badgeResponse(badge)})
}

// GetUserBadges lists the caller's badges
// @Summary     List badges
// @Description List the authenticated user's badges, most recently earned first
// @Tags        badges
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Success     200 {object} pagination.PageResponse[BadgeResponse] "Badges"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /badges/ [get]
func (h *BadgeHandler) GetUserBadges(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.badgeService.GetUserBadges(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, pagination.NewPageResponse(
		badgeResponses(result.Data), result.Page, result.PageSize, result.TotalItems))
}

// GetBadgeByID returns one owned badge
// @Summary     Get a badge
// @Description Get a single badge owned by the authenticated user
// @Tags        badges
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Badge ID"
// @Success     200 {object} BadgeResponse "Badge"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /badges/{id}/ [get]
func (h *BadgeHandler) GetBadgeByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	badgeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	badge, err := h.badgeService.GetBadgeByID(userID, badgeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"badge": badgeResponse(badge)})
}

// UpdateBadge updates an owned badge
// @Summary     Update a badge
// @Description Update a badge owned by the authenticated user; earned_at never changes
// @Tags        badges
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Badge ID"
// @Param       request body UpdateBadgeRequest true "Updated badge details"
// @Success     200 {object} BadgeResponse "Updated badge"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /badges/{id}/ [put]
func (h *BadgeHandler) UpdateBadge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	badgeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	badge, err := h.badgeService.UpdateBadge(userID, badgeID, services.BadgeUpdate{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_BADGE", "badge", badge.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"badge": badgeResponse(badge)})
}

// DeleteBadge removes an owned badge
// @Summary     Delete a badge
// @Description Delete a badge owned by the authenticated user
// @Tags        badges
// @Security    BearerAuth
// @Param       id path string true "Badge ID"
// @Success     204 "Badge deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /badges/{id}/ [delete]
func (h *BadgeHandler) DeleteBadge(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	badgeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.badgeService.DeleteBadge(userID, badgeID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_BADGE", "badge", badgeID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
