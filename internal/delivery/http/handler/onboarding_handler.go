package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qupid-app/qupid-backend/internal/usecase/onboarding"
)

type OnboardingHandler struct {
	onboardingUseCase *onboarding.OnboardingUseCase
}

func NewOnboardingHandler(onboardingUseCase *onboarding.OnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{
		onboardingUseCase: onboardingUseCase,
	}
}

// GetState handles GET /onboarding
// @Summary Get onboarding state
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Success 200 {object} onboarding.StateResponse
// @Failure 401 {object} ErrorResponse
// @Router /onboarding [get]
func (h *OnboardingHandler) GetState(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	state, err := h.onboardingUseCase.State(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Advance handles POST /onboarding/advance
// @Summary Submit the current step
// @Description Validates the step input, merges it into the draft and moves on.
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.StepInput true "Step input"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /onboarding/advance [post]
func (h *OnboardingHandler) Advance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var in onboarding.StepInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}

	state, err := h.onboardingUseCase.Advance(c.Request.Context(), userID, &in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// SubmitAge handles POST /onboarding/age
// @Summary Submit birth date
// @Description Only accepted while the session is on the age verification step.
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body VerifyAgeRequest true "Birth date"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /onboarding/age [post]
func (h *OnboardingHandler) SubmitAge(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req VerifyAgeRequest
	if !bindJSON(c, &req) {
		return
	}

	state, err := h.onboardingUseCase.SubmitAge(c.Request.Context(), userID, req.BirthDate)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Retreat handles POST /onboarding/retreat
// @Summary Go back one step
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Success 200 {object} onboarding.StateResponse
// @Router /onboarding/retreat [post]
func (h *OnboardingHandler) Retreat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	state, err := h.onboardingUseCase.Retreat(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// VerifyIdentity handles POST /onboarding/identity
// @Summary Verify identity
// @Description Checks the selfie against the identity document. Takes a couple of seconds.
// @Tags onboarding
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body onboarding.VerifyIdentityRequest true "Selfie and document"
// @Success 200 {object} onboarding.StateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /onboarding/identity [post]
func (h *OnboardingHandler) VerifyIdentity(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req onboarding.VerifyIdentityRequest
	if !bindJSON(c, &req) {
		return
	}

	state, err := h.onboardingUseCase.VerifyIdentity(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Restart handles POST /onboarding/restart
// @Summary Start onboarding over
// @Tags onboarding
// @Security BearerAuth
// @Produce json
// @Success 200 {object} onboarding.StateResponse
// @Router /onboarding/restart [post]
func (h *OnboardingHandler) Restart(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	state, err := h.onboardingUseCase.Restart(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
