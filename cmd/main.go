package main

import (
	"context"

	"storefront-service/internal/router"
	"storefront-service/pkg/config"
	"storefront-service/pkg/database"
	"storefront-service/pkg/logger"
	"storefront-service/pkg/notify"
	"storefront-service/prometheus"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting storefront service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established", zap.String("driver", cfg.DB.Driver()))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized", zap.String("namespace", prometheus.Namespace()))

	if err := database.Seed(db, cfg.Seed, log); err != nil {
		log.Fatal("Failed to seed database", zap.Error(err))
	}

	whatsapp := notify.NewWhatsAppClient(cfg.WhatsApp, log)
	if whatsapp.Simulated() {
		log.Warn("WhatsApp credentials not configured, notifications will only be logged")
	}

	var verifier *oidc.IDTokenVerifier
	if cfg.OIDC.Enabled() {
		provider, err := oidc.NewProvider(context.Background(), cfg.OIDC.IssuerURL)
		if err != nil {
			log.Fatal("Failed to discover OIDC provider", zap.String("issuer", cfg.OIDC.IssuerURL), zap.Error(err))
		}
		verifier = provider.Verifier(&oidc.Config{ClientID: cfg.OIDC.ClientID})
		log.Info("OIDC ID tokens accepted", zap.String("issuer", cfg.OIDC.IssuerURL))
	}

	e := router.New(router.Options{
		DB:       db,
		Config:   cfg,
		Notifier: whatsapp,
		Verifier: verifier,
		Logger:   log,
	})

	// Get server port from configuration
	port := cfg.Server.Port

	// Start server
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
