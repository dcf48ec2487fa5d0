package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/qupid-app/qupid-backend/internal/delivery/http/handler"
	"github.com/qupid-app/qupid-backend/internal/delivery/http/middleware"
)

type Router struct {
	authHandler         *handler.AuthHandler
	onboardingHandler   *handler.OnboardingHandler
	profileHandler      *handler.ProfileHandler
	subscriptionHandler *handler.SubscriptionHandler
	feedHandler         *handler.FeedHandler
	swipeHandler        *handler.SwipeHandler
	chatHandler         *handler.ChatHandler
	authMiddleware      *middleware.AuthMiddleware
	logger              *zap.Logger
}

func NewRouter(
	authHandler *handler.AuthHandler,
	onboardingHandler *handler.OnboardingHandler,
	profileHandler *handler.ProfileHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	feedHandler *handler.FeedHandler,
	swipeHandler *handler.SwipeHandler,
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *zap.Logger,
) *Router {
	return &Router{
		authHandler:         authHandler,
		onboardingHandler:   onboardingHandler,
		profileHandler:      profileHandler,
		subscriptionHandler: subscriptionHandler,
		feedHandler:         feedHandler,
		swipeHandler:        swipeHandler,
		chatHandler:         chatHandler,
		authMiddleware:      authMiddleware,
		logger:              logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestLogger(r.logger), middleware.Recovery(r.logger))

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", r.authHandler.Signup)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/reset-password", r.authHandler.ResetPassword)
			auth.POST("/reset-password/confirm", r.authHandler.ConfirmPasswordReset)
			auth.POST("/verify-age", r.authHandler.VerifyAge)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			onboarding := protected.Group("/onboarding")
			{
				onboarding.GET("", r.onboardingHandler.GetState)
				onboarding.POST("/advance", r.onboardingHandler.Advance)
				onboarding.POST("/retreat", r.onboardingHandler.Retreat)
				onboarding.POST("/age", r.onboardingHandler.SubmitAge)
				onboarding.POST("/identity", r.onboardingHandler.VerifyIdentity)
				onboarding.POST("/restart", r.onboardingHandler.Restart)
			}

			profile := protected.Group("/profile")
			{
				profile.GET("/me", r.profileHandler.GetMyProfile)
				profile.PATCH("/me", r.profileHandler.UpdateMyProfile)
				profile.PUT("/me/avatar", r.profileHandler.UpdateAvatar)
				profile.POST("/me/generate-bio", r.profileHandler.GenerateBio)
			}

			subscription := protected.Group("/subscription")
			{
				subscription.GET("", r.subscriptionHandler.GetSubscription)
				subscription.POST("/upgrade", r.subscriptionHandler.Upgrade)
				subscription.GET("/usage", r.subscriptionHandler.GetUsage)
			}

			feed := protected.Group("/feed")
			{
				feed.GET("/next", r.feedHandler.GetNextSuggestion)
				feed.POST("/like", r.swipeHandler.Like)
				feed.POST("/skip", r.swipeHandler.Skip)
			}

			protected.GET("/matches", r.swipeHandler.ListMatches)

			chat := protected.Group("/chat")
			{
				chat.POST("/messages", r.chatHandler.SendMessage)
				chat.GET("/:user_id/messages", r.chatHandler.ListMessages)
			}
		}
	}

	return router
}
