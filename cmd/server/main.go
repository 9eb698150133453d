// Package main is the entry point for the Plotari Chat Service.
// @title Plotari Chat Service API
// @version 1.0
// @description Conversational real-estate assistant: intent classification, property search, POI lookup, and session management

// @contact.name API Support
// @contact.url https://github.com/plotari/chat-service

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/plotari/chat-service/docs"
	"github.com/plotari/chat-service/internal/api/handlers"
	"github.com/plotari/chat-service/internal/api/middleware"
	"github.com/plotari/chat-service/internal/api/routes"
	"github.com/plotari/chat-service/internal/config"
	"github.com/plotari/chat-service/internal/core/cache"
	"github.com/plotari/chat-service/internal/core/completion"
	rediscache "github.com/plotari/chat-service/internal/infrastructure/cache/redis"
	openaicompletion "github.com/plotari/chat-service/internal/infrastructure/completion/openai"
	"github.com/plotari/chat-service/internal/infrastructure/docdb/mongodb"
	"github.com/plotari/chat-service/internal/infrastructure/search/postgres"
	"github.com/plotari/chat-service/internal/services/chat"
	"github.com/plotari/chat-service/internal/services/compose"
	"github.com/plotari/chat-service/internal/services/dispatch"
	"github.com/plotari/chat-service/internal/services/enrichment"
	"github.com/plotari/chat-service/internal/services/intent"
	"github.com/plotari/chat-service/internal/services/session"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	setupLogging(cfg.Log)

	ctx := context.Background()

	// Initialize cache client
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache client")
	}
	defer cacheClient.Close()

	// Initialize document db client
	docDBClient, err := mongodb.NewClient(ctx, &mongodb.ClientConfig{
		URI:          cfg.DocDB.URI,
		DatabaseName: cfg.DocDB.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize document db client")
	}
	defer docDBClient.Close(ctx)

	// Ensure database indexes
	if err := docDBClient.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure indexes")
	}

	// Initialize search backend
	searchBackend, err := postgres.NewBackend(&postgres.Config{
		DSN:          cfg.Search.DSN,
		MaxConns:     cfg.Search.MaxConns,
		MaxIdleConns: cfg.Search.MaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize search backend")
	}
	defer searchBackend.Close()

	// Initialize completion service; runs without it on rules and templates
	completionService := createCompletionService(cfg.OpenAI)

	// Initialize session service
	sessionService, err := session.NewService(&session.Config{
		Conversations:       docDBClient.Conversations(),
		Capacity:            cfg.Session.Capacity,
		InactivityThreshold: cfg.Session.InactivityThreshold,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session service")
	}

	// Initialize intent classifier
	classifier, err := intent.NewClassifier(&intent.Config{
		CompletionService: completionService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize intent classifier")
	}

	// Initialize search dispatcher
	dispatcher, err := dispatch.NewDispatcher(&dispatch.Config{
		Backend:  searchBackend,
		POICache: cacheClient,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dispatcher")
	}

	// Initialize response composer
	composer, err := compose.NewComposer(&compose.Config{
		CompletionService: completionService,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize composer")
	}

	// Initialize chat service
	chatService, err := chat.NewService(&chat.Config{
		Classifier:        classifier,
		Sessions:          sessionService,
		Dispatcher:        dispatcher,
		Composer:          composer,
		CompletionService: completionService,
		Analytics:         searchBackend,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize chat service")
	}

	// Initialize enrichment service
	enrichmentService, err := enrichment.NewService(&enrichment.Config{
		Backend: searchBackend,
		Provider: enrichment.NewOSMProvider(&enrichment.OSMConfig{
			Endpoint: cfg.Enrichment.OverpassURL,
			Timeout:  cfg.Enrichment.Timeout,
		}),
		QueueSize:   cfg.Enrichment.QueueSize,
		WorkerCount: cfg.Enrichment.Workers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize enrichment service")
	}
	defer enrichmentService.Stop()

	// Periodic session maintenance
	maintenanceCtx, stopMaintenance := context.WithCancel(ctx)
	defer stopMaintenance()
	go runMaintenance(maintenanceCtx, sessionService, cfg.Session.MaintenanceInterval)

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Setup router
	router := setupRouter(cfg, &routes.Config{
		HealthHandler:     handlers.NewHealthHandler(cacheClient, docDBClient, searchBackend),
		ChatHandler:       handlers.NewChatHandler(chatService),
		SessionsHandler:   handlers.NewSessionsHandler(sessionService),
		SearchHandler:     handlers.NewSearchHandler(searchBackend),
		EnrichmentHandler: handlers.NewEnrichmentHandler(enrichmentService),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    cfg.Server.Address(),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("address", cfg.Server.Address()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// setupLogging configures the global logger.
func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// createCacheClient creates a cache client based on the configuration.
func createCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	return rediscache.NewClient(rediscache.Config{
		Host:       cfg.Host,
		Port:       cfg.Port,
		Password:   cfg.Password,
		DB:         cfg.DB,
		DefaultTTL: cfg.TTL,
	})
}

// createCompletionService creates the completion service when an API key is
// configured. Returns nil otherwise; dependents fall back to rule-based
// classification and canned replies.
func createCompletionService(cfg config.OpenAIConfig) completion.Service {
	if cfg.APIKey == "" {
		log.Warn().Msg("OPENAI_API_KEY not set, running without completion service")
		return nil
	}

	service, err := openaicompletion.NewService(&openaicompletion.Config{
		APIKey:         cfg.APIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize completion service, running without it")
		return nil
	}
	return service
}

// runMaintenance periodically expires durable records and evicts idle
// cached sessions.
func runMaintenance(ctx context.Context, sessions session.Service, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions.Maintain(ctx)
		}
	}
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, routesCfg *routes.Config) *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	loggingMw := middleware.NewLoggingMiddleware()
	errorMw := middleware.NewErrorMiddleware()

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.Server.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, corsCfg)

	// Swagger documentation endpoint
	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
