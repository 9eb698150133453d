// Package routes defines the HTTP routes for the Plotari chat service.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/plotari/chat-service/internal/api/handlers"
	"github.com/plotari/chat-service/internal/api/middleware"
)

// Config holds the dependencies for setting up routes.
type Config struct {
	HealthHandler     *handlers.HealthHandler
	ChatHandler       *handlers.ChatHandler
	SessionsHandler   *handlers.SessionsHandler
	SearchHandler     *handlers.SearchHandler
	EnrichmentHandler *handlers.EnrichmentHandler
}

// Setup configures all routes on the Gin engine.
func Setup(r *gin.Engine, cfg *Config) {
	v1 := r.Group("/api/v1")
	{
		// Health check routes
		v1.GET("/health", cfg.HealthHandler.Health)
		v1.GET("/ready", cfg.HealthHandler.Ready)
		v1.GET("/live", cfg.HealthHandler.Live)

		// Chat routes
		v1.POST("/chat", cfg.ChatHandler.Chat)
		v1.POST("/chat/message", cfg.ChatHandler.ChatStream)

		// Direct search routes
		v1.POST("/search", cfg.SearchHandler.Search)
		v1.POST("/compare", cfg.SearchHandler.Compare)
		property := v1.Group("/property/:propertyId")
		{
			property.GET("", cfg.SearchHandler.PropertyDetail)
			property.GET("/pois", cfg.SearchHandler.PropertyPOIs)
		}

		// Session routes
		conversation := v1.Group("/conversation/:userId/:sessionId")
		{
			conversation.GET("/history", cfg.SessionsHandler.History)
			conversation.DELETE("", cfg.SessionsHandler.Clear)
		}
		v1.GET("/conversations/stats", cfg.SessionsHandler.GlobalStats)
		user := v1.Group("/user/:userId")
		{
			user.GET("/conversations", cfg.SessionsHandler.ListUserConversations)
			user.GET("/stats", cfg.SessionsHandler.UserStats)
		}
		v1.GET("/cache/info", cfg.SessionsHandler.CacheInfo)

		// Enrichment routes
		v1.POST("/enrichment/run", cfg.EnrichmentHandler.Run)
	}
}

// SetupWithMiddleware sets up routes with common middleware.
func SetupWithMiddleware(r *gin.Engine, cfg *Config, loggingMw *middleware.LoggingMiddleware, errorMw *middleware.ErrorMiddleware, corsCfg middleware.CORSConfig) {
	// Apply global middleware
	r.Use(middleware.NewCORSMiddleware(corsCfg))
	r.Use(loggingMw.Logger())
	r.Use(errorMw.Recovery())
	r.Use(gin.Recovery())

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.MethodNotAllowed())

	// Setup routes
	Setup(r, cfg)
}
