package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/usecase/auth"
)

type AuthHandler struct {
	authUseCase *auth.AuthUseCase
}

func NewAuthHandler(authUseCase *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// ResetPasswordRequest represents a password reset request
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// VerifyAgeRequest represents an age check
type VerifyAgeRequest struct {
	BirthDate string `json:"birth_date" binding:"required"` // Format: YYYY-MM-DD
}

// VerifyAgeResponse is the result of an age check
type VerifyAgeResponse struct {
	Age     int  `json:"age"`
	IsAdult bool `json:"is_adult"`
}

// Signup handles account registration
// @Summary Sign up
// @Description Register with e-mail and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.SignupRequest true "Sign up form"
// @Success 201 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req auth.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUseCase.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// Login handles e-mail and password sign in
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.LoginRequest true "Credentials"
// @Success 200 {object} auth.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authUseCase.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout handles user logout
// @Summary Logout
// @Description Logout user and invalidate session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.authUseCase.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "logged out successfully",
	})
}

// Me returns current user info
// @Summary Get current user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authUseCase.Me(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ResetPassword sends a password reset link
// @Summary Request password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Account e-mail"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUseCase.ResetPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "password reset e-mail sent",
	})
}

// ConfirmPasswordReset sets a new password
// @Summary Confirm password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body auth.ConfirmResetRequest true "Reset token and new password"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/reset-password/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	var req auth.ConfirmResetRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUseCase.ConfirmPasswordReset(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "password updated",
	})
}

// VerifyAge checks a birth date against the minimum age
// @Summary Verify age
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyAgeRequest true "Birth date"
// @Success 200 {object} VerifyAgeResponse
// @Failure 400 {object} ErrorResponse
// @Router /auth/verify-age [post]
func (h *AuthHandler) VerifyAge(c *gin.Context) {
	var req VerifyAgeRequest
	if !bindJSON(c, &req) {
		return
	}

	birth, err := time.Parse("2006-01-02", req.BirthDate)
	if err != nil {
		respondError(c, domain.NewValidationError("birth_date", "must be a date in YYYY-MM-DD format"))
		return
	}

	today := time.Now()
	c.JSON(http.StatusOK, VerifyAgeResponse{
		Age:     domain.AgeOn(birth, today),
		IsAdult: h.authUseCase.VerifyAge(birth, today),
	})
}
