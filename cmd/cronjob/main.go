package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"asset-ledger-backend/internal/config"
	"asset-ledger-backend/internal/jobs"
	"asset-ledger-backend/internal/logger"
	"asset-ledger-backend/internal/repository"
	"asset-ledger-backend/internal/repository/memory"
	"asset-ledger-backend/internal/repository/postgres"
	"asset-ledger-backend/internal/scheduler"
	"asset-ledger-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'overdue-reminders', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Asset Ledger Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize store
	var store repository.Store
	switch cfg.Database.Driver {
	case "memory":
		logger.Info("Using in-memory store")
		store = memory.NewStore()
	default:
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	// Initialize Email Service
	var emailSvc service.EmailService
	if cfg.Email.Enabled {
		emailSvc = service.NewSendGridEmailService(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName, cfg.Email.OpsInbox)
	}

	jobRunner := jobs.NewJobRunner(store, emailSvc, cfg)

	// Run-once mode: execute the requested job and exit
	if *runOnce != "" {
		switch *runOnce {
		case "overdue-reminders":
			jobRunner.SendOverdueAssignmentReminders()
		case "all-nightly":
			jobRunner.RunAllNightlyJobs()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		logger.Info("Job execution finished, exiting")
		return
	}

	// Daemon mode: run the cron scheduler until terminated
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("Received shutdown signal", "signal", sig.String())

	sched.Stop()
}
