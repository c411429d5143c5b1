package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/config"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// ProfileHandler handles profile reads and partial updates.
type ProfileHandler struct {
	profileService services.ProfileServicer
	auditService   services.AuditServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer, auditService services.AuditServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService, auditService: auditService}
}

// UpdateProfileRequest represents a partial profile update payload.
type UpdateProfileRequest struct {
	ProfilePicture *string `json:"profile_picture" binding:"omitempty,max=255"`
	Points         *int    `json:"points" binding:"omitempty,gte=0"`
}

// ProfileResponse represents a profile in responses, with the picture
// reference resolved to a retrievable address when present.
type ProfileResponse struct {
	ID                string    `json:"id"`
	ProfilePicture    *string   `json:"profile_picture"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	Points            int       `json:"points"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func profileResponse(profile *models.UserProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:             profile.ID,
		ProfilePicture: profile.ProfilePicture,
		Points:         profile.Points,
		CreatedAt:      profile.CreatedAt,
		UpdatedAt:      profile.UpdatedAt,
	}
	if profile.ProfilePicture != nil && *profile.ProfilePicture != "" {
		url := strings.TrimRight(config.Get().MediaBaseURL, "/") + "/" + strings.TrimLeft(*profile.ProfilePicture, "/")
		resp.ProfilePictureURL = &url
	}
	return resp
}

// GetProfile returns the caller's profile, creating an empty one on first access
// @Summary     Get own profile
// @Description Get the authenticated user's profile, creating it if absent
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ProfileResponse "Profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile/ [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetOrCreateProfile(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profileResponse(profile)})
}

// UpdateProfile partially updates the caller's profile
// @Summary     Update own profile
// @Description Partially update mutable profile fields; invalid input changes nothing
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields to update"
// @Success     200 {object} ProfileResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Field-level validation errors"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile/ [patch]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	profile, err := h.profileService.UpdateProfile(userID, services.ProfileUpdate{
		ProfilePicture: req.ProfilePicture,
		Points:         req.Points,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_PROFILE", "user_profile", profile.ID, c.ClientIP(),
		map[string]interface{}{"profile_picture": req.ProfilePicture != nil, "points": req.Points})

	c.JSON(http.StatusOK, gin.H{"profile": profileResponse(profile)})
}
