package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qupid-app/qupid-backend/internal/usecase/feed"
)

type FeedHandler struct {
	feedUseCase *feed.FeedUseCase
}

func NewFeedHandler(feedUseCase *feed.FeedUseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

// GetNextSuggestion handles GET /feed/next
// @Summary Next suggestion
// @Description Best matching profile not yet shown today
// @Tags feed
// @Security BearerAuth
// @Produce json
// @Success 200 {object} feed.SuggestionResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /feed/next [get]
func (h *FeedHandler) GetNextSuggestion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	suggestion, err := h.feedUseCase.NextSuggestion(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}
