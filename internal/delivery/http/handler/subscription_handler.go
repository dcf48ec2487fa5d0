package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qupid-app/qupid-backend/internal/usecase/subscription"
)

type SubscriptionHandler struct {
	subscriptionUseCase *subscription.SubscriptionUseCase
}

func NewSubscriptionHandler(subscriptionUseCase *subscription.SubscriptionUseCase) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionUseCase: subscriptionUseCase,
	}
}

// GetSubscription handles GET /subscription
// @Summary Get my subscription
// @Tags subscription
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.SubscriptionStatus
// @Router /subscription [get]
func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	status, err := h.subscriptionUseCase.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Upgrade handles POST /subscription/upgrade
// @Summary Change tier
// @Description Simulates the payment, then switches to the requested tier for 30 days
// @Tags subscription
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body subscription.UpgradeRequest true "Target tier"
// @Success 200 {object} domain.SubscriptionStatus
// @Failure 400 {object} ErrorResponse
// @Router /subscription/upgrade [post]
func (h *SubscriptionHandler) Upgrade(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req subscription.UpgradeRequest
	if !bindJSON(c, &req) {
		return
	}

	status, err := h.subscriptionUseCase.Upgrade(c.Request.Context(), userID, req.Tier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetUsage handles GET /subscription/usage
// @Summary Today's usage
// @Tags subscription
// @Security BearerAuth
// @Produce json
// @Success 200 {object} usage.Report
// @Router /subscription/usage [get]
func (h *SubscriptionHandler) GetUsage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.subscriptionUseCase.CheckUsage(c.Request.Context(), userID))
}
