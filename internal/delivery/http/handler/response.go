package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qupid-app/qupid-backend/internal/delivery/http/middleware"
	"github.com/qupid-app/qupid-backend/internal/domain"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// SuccessResponse is returned by endpoints without a payload
type SuccessResponse struct {
	Message string `json:"message"`
}

// respondError maps domain errors to HTTP status codes. The error is attached
// to the gin context so the request logger records it.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: verr.Fields})
		return
	}

	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	c.JSON(status, ErrorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidTier),
		errors.Is(err, domain.ErrResetTokenInvalid),
		errors.Is(err, domain.ErrCannotMessageSelf),
		errors.Is(err, domain.ErrCannotSwipeSelf):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrIncorrectPassword),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSessionExpired):
		return http.StatusUnauthorized

	case errors.Is(err, domain.ErrQuotaExceeded),
		errors.Is(err, domain.ErrUnderage),
		errors.Is(err, domain.ErrIdentityNotVerified),
		errors.Is(err, domain.ErrNotMatched):
		return http.StatusForbidden

	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrNoSuggestionsLeft),
		errors.Is(err, domain.ErrMatchNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrEmailAlreadyRegistered),
		errors.Is(err, domain.ErrOnboardingFinalized),
		errors.Is(err, domain.ErrNotAtTerminalStep),
		errors.Is(err, domain.ErrWrongStep),
		errors.Is(err, domain.ErrNotSuggested),
		errors.Is(err, domain.ErrSwipeAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, domain.ErrFeatureUnavailable):
		return http.StatusServiceUnavailable

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// bindJSON decodes the request body and answers 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// currentUserID returns the user set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return "", false
	}
	return userID, true
}
