package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/nmxlabs/marketplace-api/internal/auth"
	"github.com/nmxlabs/marketplace-api/internal/authorizer"
	"github.com/nmxlabs/marketplace-api/internal/config"
	"github.com/nmxlabs/marketplace-api/internal/database"
	"github.com/nmxlabs/marketplace-api/internal/events"
	"github.com/nmxlabs/marketplace-api/internal/registry"
	"github.com/nmxlabs/marketplace-api/internal/settlement"
	"github.com/nmxlabs/marketplace-api/internal/tokens"
	"github.com/nmxlabs/marketplace-api/internal/transfer"
	"github.com/nmxlabs/marketplace-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	// Configure pretty logging for development
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the settlement API server with graceful
// shutdown support.
func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService(cfg.JWTSecret)
	authHandlers := auth.NewGinHandlers(authService)
	if cfg.Env != "production" {
		authService.RegisterAPICredentials(auth.TestAPIKey, auth.TestAPISecret, "settle")
		authService.RegisterAPICredentials(auth.TestAdminKey, auth.TestAdminSecret, "settle", "admin")
	}

	registryService, err := registry.NewService(db, cfg.FeesBeneficiary)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize fee registry")
	}
	registryHandlers := registry.NewGinHandlers(registryService)

	tokenService := tokens.NewService(db)
	tokenHandlers := tokens.NewGinHandlers(tokenService, cfg.EngineAddress)

	bus := events.NewBus()
	streamHandler := events.NewStreamHandler(bus)

	batchAuthorizer := authorizer.New(cfg.BackendSigner, cfg.EngineAddress, cfg.ChainID)
	transferHelper := transfer.NewHelper(cfg.EngineAddress)
	settlementService := settlement.NewService(db, batchAuthorizer, registryService, transferHelper, bus)
	settlementHandlers := settlement.NewGinHandlers(settlementService)

	zlog.Info().
		Str("engine", cfg.EngineAddress.Hex()).
		Str("backend_signer", cfg.BackendSigner.Hex()).
		Uint64("chain_id", cfg.ChainID).
		Msg("settlement engine configured")

	// Setup middleware
	router.Use(middleware.RateLimit())

	setupRoutes(router, cfg.JWTSecret, authHandlers, settlementHandlers, registryHandlers, tokenHandlers, streamHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers.
// Settlement and query routes require a valid token; administrative
// configuration and ledger seeding require the admin permission.
func setupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authHandlers *auth.GinHandlers,
	settlementHandlers *settlement.GinHandlers,
	registryHandlers *registry.GinHandlers,
	tokenHandlers *tokens.GinHandlers,
	streamHandler *events.StreamHandler,
) {
	v1 := router.Group("/api/v1")
	{
		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		// Settlement routes
		settlements := v1.Group("/settlements")
		settlements.Use(middleware.JWTAuth(jwtSecret))
		{
			settlements.POST("", settlementHandlers.SettleHandler())
			settlements.GET("", settlementHandlers.ListRecordsHandler())
			settlements.GET("/:record_id", settlementHandlers.GetRecordHandler())
		}

		fillsGroup := v1.Group("/fills")
		fillsGroup.Use(middleware.JWTAuth(jwtSecret))
		{
			fillsGroup.GET("/:order_hash", settlementHandlers.GetFillHandler())
		}

		collections := v1.Group("/collections")
		collections.Use(middleware.JWTAuth(jwtSecret))
		{
			collections.GET("/:collection", registryHandlers.GetCollectionConfigHandler())
		}

		// Settlement event stream for external observers
		v1.GET("/stream/settlements", streamHandler.StreamSettlementsHandler())

		// Administrative routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(jwtSecret))
		{
			admin.PUT("/fees/beneficiary", registryHandlers.UpdateBeneficiaryHandler())
			admin.PUT("/fees/:collection", registryHandlers.UpdateCollectionFeeHandler())
			admin.PUT("/royalties/:collection", registryHandlers.UpdateCollectionRoyaltiesHandler())

			admin.POST("/tokens/mint", tokenHandlers.MintHandler())
			admin.POST("/tokens/approve", tokenHandlers.ApproveHandler())
			admin.GET("/tokens/balance", tokenHandlers.BalanceHandler())
		}
	}
}
