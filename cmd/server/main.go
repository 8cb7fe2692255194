package main

import (
	"database/sql"
	"flag"
	"log"
	"net/http"

	_ "github.com/lib/pq"

	httpapi "asset-ledger-backend/internal/api/http"
	"asset-ledger-backend/internal/authz"
	"asset-ledger-backend/internal/config"
	"asset-ledger-backend/internal/jobs"
	"asset-ledger-backend/internal/logger"
	"asset-ledger-backend/internal/repository"
	"asset-ledger-backend/internal/repository/memory"
	"asset-ledger-backend/internal/repository/postgres"
	"asset-ledger-backend/internal/scheduler"
	"asset-ledger-backend/internal/security"
	"asset-ledger-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Asset Ledger Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())

	// Initialize store
	var store repository.Store
	switch cfg.Database.Driver {
	case "memory":
		logger.Info("Using in-memory store")
		store = memory.NewStore()
	default:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established")
		store = postgres.NewStore(db)
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.Enabled {
		emailSvc = service.NewSendGridEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName, cfg.Email.OpsInbox)
		logger.Info("Email service enabled", "from", cfg.Email.From)
	} else {
		logger.Info("Email service disabled")
	}

	// Initialize Services
	gate := authz.NewGate()
	svcs := httpapi.Services{
		Purchases:     service.NewPurchaseService(store, gate),
		Transfers:     service.NewTransferService(store, gate, emailSvc),
		Assignments:   service.NewAssignmentService(store, gate),
		Expenditures:  service.NewExpenditureService(store, gate),
		Assets:        service.NewAssetService(store, gate),
		Catalog:       service.NewCatalogService(store, gate),
		Notifications: service.NewNotificationService(store),
	}

	// Start scheduler in-process
	jobRunner := jobs.NewJobRunner(store, emailSvc, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	// Serve
	router := httpapi.NewRouter(svcs, tokenManager)
	addr := cfg.GetServerAddress()
	logger.Info("HTTP server listening", "address", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		logger.Error("HTTP server stopped", "error", err)
		log.Fatalf("HTTP server stopped: %v", err)
	}
}
