package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/devsphere/enrollment-api/internal/config"
	"github.com/devsphere/enrollment-api/internal/handler"
	"github.com/devsphere/enrollment-api/internal/middleware"
	"github.com/devsphere/enrollment-api/internal/notifier"
	"github.com/devsphere/enrollment-api/internal/repository"
	"github.com/devsphere/enrollment-api/internal/service"
	"github.com/devsphere/enrollment-api/internal/validator"
	"github.com/devsphere/enrollment-api/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize zerolog based on configuration
	initLogger(cfg)

	// Create context for startup
	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Initialize Fiber with production-ready configuration
	app := fiber.New(fiber.Config{
		AppName:      "Enrollment API",
		ReadTimeout:  30 * time.Second,  // Max time to read request
		WriteTimeout: 30 * time.Second,  // Max time to write response
		IdleTimeout:  120 * time.Second, // Max time for keep-alive connections
		BodyLimit:    1 * 1024 * 1024,   // 1MB body limit (explicit, prevents large payloads)
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())

	// The verification endpoints are unauthenticated; throttle per IP to slow
	// down unlock-code and signature guessing.
	limiter := middleware.NewIPRateLimiter(rate.Every(time.Second), 20)
	app.Use("/functions/v1", limiter.Handle)

	// Initialize validator
	validate := validator.New()

	// Initialize enrollment components (layered architecture)
	unlockRepo := repository.NewUnlockCodeRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	mailer := notifier.NewEmailNotifier(cfg.SMTP)

	unlockService := service.NewUnlockService(unlockRepo)
	paymentService := service.NewPaymentService(paymentRepo, mailer, cfg.Gateway.KeySecret)
	checkoutService := service.NewCheckoutService(cfg.Gateway)

	unlockHandler := handler.NewUnlockHandler(unlockService)
	paymentHandler := handler.NewPaymentHandler(paymentService, validate)
	enrollmentHandler := handler.NewEnrollmentHandler(checkoutService, validate)

	// Health handler
	healthHandler := handler.NewHealthHandler(pool)
	app.Get("/health", healthHandler.Check)

	// Enrollment routes
	app.Post("/api/referrals/validate", enrollmentHandler.ValidateReferral)
	app.Post("/api/checkout/options", enrollmentHandler.CheckoutOptions)
	app.Post("/api/payments/capture", paymentHandler.Capture)

	// Edge-function routes (paths preserved from the hosted deployment)
	app.Post("/functions/v1/verify-unlock-code", unlockHandler.VerifyUnlockCode)
	app.Post("/functions/v1/verify-dodo-payment", paymentHandler.Verify)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	// Set log level
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
