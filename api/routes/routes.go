package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/config"
	"github.com/selotroca/selotroca-backend/internal/handlers"
	"github.com/selotroca/selotroca-backend/internal/middleware"
	"github.com/selotroca/selotroca-backend/internal/services"
)

// HandlerDependencies bundles the handlers and the auth services the
// middlewares need.
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	ListingHandler    *handlers.ListingHandler
	ProfileHandler    *handlers.ProfileHandler
	AdminHandler      *handlers.AdminHandler
	CollectionHandler *handlers.CollectionHandler
	BackofficeHandler *handlers.BackofficeHandler

	AuthService       services.AuthService
	BackofficeService services.BackofficeService
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	sessionAuth := middleware.SessionAuthMiddleware(deps.AuthService)
	adminAuth := middleware.AdminAuthMiddleware(deps.AuthService)
	backofficeAuth := middleware.BackofficeAuthMiddleware(deps.BackofficeService)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/send-otp", deps.AuthHandler.SendOtp)
			auth.POST("/verify-otp", deps.AuthHandler.VerifyOtp)
			auth.GET("/me", sessionAuth, deps.AuthHandler.Me)
			auth.POST("/logout", deps.AuthHandler.Logout)
		}

		// Profile routes
		profile := api.Group("/profile")
		profile.Use(sessionAuth)
		{
			profile.PUT("", deps.ProfileHandler.Update)
			profile.GET("/quota", deps.ProfileHandler.Quota)
			profile.GET("/progress", deps.ProfileHandler.Progress)
			profile.GET("/transactions", deps.ProfileHandler.Transactions)
		}

		api.GET("/leaderboard", deps.ProfileHandler.Leaderboard)

		// Marketplace routes
		listings := api.Group("/listings")
		{
			listings.GET("", middleware.OptionalSessionAuthMiddleware(deps.AuthService), deps.ListingHandler.List)
			listings.GET("/mine", sessionAuth, deps.ListingHandler.Mine)
			listings.GET("/:id", deps.ListingHandler.Get)
			listings.POST("", sessionAuth, deps.ListingHandler.Create)
			listings.PUT("/:id/cancel", sessionAuth, deps.ListingHandler.Cancel)
			listings.PUT("/:id/confirm-sent", sessionAuth, deps.ListingHandler.ConfirmSent)
			listings.PUT("/:id/fulfill", sessionAuth, deps.ListingHandler.Fulfill)
		}

		// Catalog routes: reads are public, writes require a marketplace admin
		collections := api.Group("/collections")
		{
			collections.GET("", deps.CollectionHandler.List)
			collections.GET("/:id", deps.CollectionHandler.Get)
			collections.POST("", adminAuth, deps.CollectionHandler.Create)
			collections.PUT("/:id", adminAuth, deps.CollectionHandler.Update)
			collections.DELETE("/:id", adminAuth, deps.CollectionHandler.Delete)
			collections.POST("/:id/items", adminAuth, deps.CollectionHandler.AddItem)
			collections.PUT("/:id/items/:itemId", adminAuth, deps.CollectionHandler.UpdateItem)
			collections.DELETE("/:id/items/:itemId", adminAuth, deps.CollectionHandler.DeleteItem)
			collections.POST("/:id/items/:itemId/options", adminAuth, deps.CollectionHandler.AddOption)
			collections.DELETE("/:id/items/:itemId/options/:optionId", adminAuth, deps.CollectionHandler.DeleteOption)
		}

		// Marketplace admin routes
		admin := api.Group("/admin")
		admin.Use(adminAuth)
		{
			admin.GET("/offers/pending", deps.AdminHandler.PendingOffers)
			admin.GET("/requests/active", deps.AdminHandler.ActiveRequests)
			admin.GET("/listings", deps.AdminHandler.AllListings)
			admin.PUT("/offers/:id/approve", deps.AdminHandler.ApproveOffer)
			admin.PUT("/offers/:id/reject", deps.AdminHandler.RejectOffer)
			admin.PUT("/requests/:id/fulfill", deps.AdminHandler.FulfillRequest)
		}

		// Back-office routes
		backoffice := api.Group("/backoffice")
		{
			backoffice.POST("/login", deps.BackofficeHandler.Login)

			protected := backoffice.Group("")
			protected.Use(backofficeAuth)
			{
				protected.GET("/me", deps.BackofficeHandler.Me)
				protected.GET("/accounts", deps.BackofficeHandler.ListAccounts)
				protected.POST("/accounts", deps.BackofficeHandler.CreateAccount)
				protected.DELETE("/accounts/:id", deps.BackofficeHandler.DeactivateAccount)
				protected.GET("/settings", deps.BackofficeHandler.GetSettings)
				protected.PUT("/settings", deps.BackofficeHandler.UpdateSettings)
				protected.GET("/audit-logs", deps.BackofficeHandler.AuditLogs)
				protected.GET("/overview", deps.BackofficeHandler.Overview)
			}
		}
	}

	return router
}
