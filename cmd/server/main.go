// Package main is the entry point for the application.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"time"

	"cardfields/internal/config"
	"cardfields/internal/handlers"
	"cardfields/internal/logging"
	"cardfields/internal/metrics"
	"cardfields/internal/middleware"
	"cardfields/internal/repositories"
	"cardfields/internal/repositories/cache"
	"cardfields/internal/restapi"
	"cardfields/internal/routes"
	"cardfields/internal/services/action"
	"cardfields/internal/services/audit"
	"cardfields/internal/services/order"
	"cardfields/internal/services/session"
	"cardfields/internal/services/submit"
	"cardfields/internal/services/vault"
	"cardfields/internal/services/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// main initializes and starts the HTTP server.
// It performs the following setup:
// - Loads configuration
// - Connects PostgreSQL and Redis
// - Builds the gateways and the submission pipeline
// - Configures routes
// - Starts the HTTP server
func main() {
	cfg := config.Load()
	log := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	db, err := repositories.InitDB(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize database")
	}

	rdb := cache.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := cache.HealthCheck(ctx, rdb); err != nil {
		log.WithError(err).Fatal("failed to connect to redis")
	}
	cancel()

	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.WithError(err).Warn("failed to close database connection")
			}
		}
		if err := rdb.Close(); err != nil {
			log.WithError(err).Warn("failed to close redis connection")
		}
	}()

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewPrometheusCollector(registry)

	// Gateways
	apiClient := restapi.NewClient(restapi.ClientConfig{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	})
	vaults := vault.NewGateway(apiClient, collector, vault.Config{
		StrictApproval: cfg.API.StrictVaultApproval,
		ClientID:       cfg.API.ClientID,
		ClientSecret:   cfg.API.ClientSecret,
	})
	orders := newOrderGateway(cfg, apiClient, collector, log)

	// Pipeline
	submissions := repositories.NewSubmissionRepository(db)
	recorder, err := audit.NewRecorder(submissions, cfg.Card.FingerprintKey)
	if err != nil {
		log.WithError(err).Fatal("CARD_FINGERPRINT_KEY must be set")
	}
	resolver := action.NewResolver()
	pipeline := submit.NewService(resolver, vaults, orders, log, collector, submit.Config{
		Tokenizer: vault.NewTokenizer(apiClient, collector),
		Recorder:  recorder,
	})

	// Sessions
	store := cache.NewSessionStore(rdb, cfg.Card.SessionTTL)
	binder := webhook.NewBinder(apiClient, cfg.Auth.WebhookSecret, log)
	sessions := session.NewService(store, binder, resolver, pipeline, log)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigin,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Use("/api/frames", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
			})
		},
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Sessions: handlers.NewSessionHandler(sessions, submissions, log),
		Health:   handlers.NewHealthHandler(db, rdb),
		Auth:     middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, log),
		Gatherer: registry,
	})

	log.WithField("port", cfg.Server.Port).Info("card fields server listening")
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.WithError(err).Error("server stopped")
	}
}

func newOrderGateway(cfg *config.Config, client *restapi.Client, m metrics.MetricsCollector, log logrus.FieldLogger) order.Gateway {
	if cfg.API.OrderProcessor == order.ProcessorStripe {
		if cfg.Stripe.SecretKey == "" {
			log.Fatal("STRIPE_SECRET_KEY is required for the stripe order processor")
		}
		return order.NewStripeGateway(order.NewStripeAPI(cfg.Stripe.SecretKey), m)
	}
	return order.NewRESTGateway(client, m)
}
