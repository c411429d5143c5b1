package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/google"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
)

// GoogleTokenVerifier validates a Google ID token and returns the
// identity it asserts. Satisfied by *google.Verifier.
type GoogleTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*google.TokenInfo, error)
}

// AuthHandler handles registration, login, token refresh, Google
// sign-in, and the current-user endpoint.
type AuthHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
	verifier     GoogleTokenVerifier
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService services.UserServicer, auditService services.AuditServicer, verifier GoogleTokenVerifier) *AuthHandler {
	return &AuthHandler{userService: userService, auditService: auditService, verifier: verifier}
}

// RegisterRequest represents the registration request payload
type RegisterRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	Email     string `json:"email" binding:"required,email,max=255"`
	Password  string `json:"password" binding:"required,min=8,max=128"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token used to mint a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// GoogleLoginRequest carries the ID token obtained from Google's sign-in flow.
type GoogleLoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// UserResponse represents the user's public fields in responses.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TokenPairResponse represents an access/refresh token pair.
type TokenPairResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    UserResponse `json:"user"`
}

func userResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}

// issueTokenPair mints an access/refresh pair for the user and stores the
// refresh token hash, rotating out any previously issued refresh token.
func (h *AuthHandler) issueTokenPair(user *models.User) (access, refresh string, err error) {
	access, err = middleware.GenerateAccessToken(user)
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	refresh, err = middleware.GenerateRefreshToken(user)
	if err != nil {
		return "", "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err = h.userService.StoreRefreshTokenHash(user.ID, middleware.HashToken(refresh)); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Register handles user registration
// @Summary     Register a new user
// @Description Create an account with username, email, and password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RegisterRequest true "User registration data"
// @Success     201 {object} UserResponse "User created"
// @Failure     400 {object} ErrorResponse "Invalid input or duplicate username"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /register/ [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.Register(req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(user.ID, "REGISTER", "user", user.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"user": userResponse(user)})
}

// Login handles password login
// @Summary     Login with username and password
// @Description Authenticate a user and return an access/refresh token pair
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body LoginRequest true "User login credentials"
// @Success     200 {object} TokenPairResponse "Token pair issued"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid credentials"
// @Failure     423 {object} ErrorResponse "Account locked"
// @Router      /login/ [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	user, err := h.userService.AttemptLogin(req.Username, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	access, refresh, err := h.issueTokenPair(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, TokenPairResponse{
		Access:  access,
		Refresh: refresh,
		User:    userResponse(user),
	})
}

// Refresh exchanges a refresh token for a new access token
// @Summary     Refresh access token
// @Description Exchange a valid refresh token for a new access token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body RefreshRequest true "Refresh token"
// @Success     200 {object} map[string]string "New access token"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid or expired refresh token"
// @Router      /refresh/ [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.Refresh)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidRefresh)
		return
	}

	storedHash, err := h.userService.GetRefreshTokenHash(claims.UserID)
	if err != nil || storedHash != middleware.HashToken(req.Refresh) {
		respondWithError(c, apperrors.ErrInvalidRefresh)
		return
	}

	user, err := h.userService.GetUserByID(claims.UserID)
	if err != nil {
		respondWithError(c, apperrors.ErrInvalidRefresh)
		return
	}

	access, err := middleware.GenerateAccessToken(user)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

// GoogleLogin handles Google sign-in
// @Summary     Login with a Google ID token
// @Description Verify a Google ID token and return a token pair, creating the user on first sign-in
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body GoogleLoginRequest true "Google ID token"
// @Success     200 {object} TokenPairResponse "Token pair issued"
// @Failure     400 {object} ErrorResponse "Invalid input or email missing from token"
// @Failure     401 {object} ErrorResponse "Invalid Google token"
// @Router      /google/ [post]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	info, err := h.verifier.Verify(c.Request.Context(), req.Token)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidGoogleToken, err))
		return
	}

	// An ID token without an email cannot establish identity.
	if info.Email == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, "Email not found in Google Token"))
		return
	}

	user, created, err := h.userService.GetOrCreateGoogleUser(info.Email, info.GivenName, info.FamilyName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if created {
		h.auditService.Log(user.ID, "GOOGLE_LOGIN_CREATE", "user", user.ID, c.ClientIP(), nil)
	}

	access, refresh, err := h.issueTokenPair(user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
		"user": gin.H{
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
		},
	})
}

// Me returns the authenticated user with their nested profile
// @Summary     Get current user
// @Description Get the authenticated user's record including their profile
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} UserResponse "Current user"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /me/ [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	// The profile is reported as null when absent; /me/ never creates one.
	var profile *ProfileResponse
	if user.Profile != nil {
		p := profileResponse(user.Profile)
		profile = &p
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"username":   user.Username,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"profile":    profile,
		},
	})
}
