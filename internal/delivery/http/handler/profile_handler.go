package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qupid-app/qupid-backend/internal/domain"
	"github.com/qupid-app/qupid-backend/internal/usecase/profile"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// GetMyProfile handles GET /profile/me
// @Summary Get my profile
// @Description Get current user's profile, or the default one if nothing was saved yet
// @Tags profile
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.Profile
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [get]
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	p, err := h.profileUseCase.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateMyProfile handles PATCH /profile/me
// @Summary Update my profile
// @Description Merge the provided fields into the current user's profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.ProfilePatch true "Profile update data"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile/me [patch]
func (h *ProfileHandler) UpdateMyProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var patch domain.ProfilePatch
	if !bindJSON(c, &patch) {
		return
	}

	p, err := h.profileUseCase.UpdateProfile(c.Request.Context(), userID, &patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// UpdateAvatar handles PUT /profile/me/avatar
// @Summary Replace my avatar
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body domain.Avatar true "Avatar descriptor"
// @Success 200 {object} domain.Profile
// @Failure 400 {object} ErrorResponse
// @Router /profile/me/avatar [put]
func (h *ProfileHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var avatar domain.Avatar
	if !bindJSON(c, &avatar) {
		return
	}

	p, err := h.profileUseCase.UpdateAvatar(c.Request.Context(), userID, &avatar)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// GenerateBio handles POST /profile/me/generate-bio
// @Summary Suggest bios
// @Description Generate bio suggestions from the current profile
// @Tags profile
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body profile.GenerateBioRequest false "Tone"
// @Success 200 {object} profile.GenerateBioResponse
// @Failure 503 {object} ErrorResponse
// @Router /profile/me/generate-bio [post]
func (h *ProfileHandler) GenerateBio(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req profile.GenerateBioRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	resp, err := h.profileUseCase.GenerateBio(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
