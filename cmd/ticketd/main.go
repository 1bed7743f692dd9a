package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticket-tracker-backend/config"
	"ticket-tracker-backend/internal/db"
	"ticket-tracker-backend/internal/notify"
	"ticket-tracker-backend/internal/storage"
	"ticket-tracker-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "ticketd ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
		}
		logger.Printf("no configuration at %s, using defaults", configPath)
		cfg = config.Default()
	} else {
		logger.Printf("configuration loaded successfully from %s", configPath)
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire the storage drivers and the store layer
	dbDriver := storage.NewDatabase(gormDB)
	fileDriver := storage.NewFile(storage.StaticPicker{
		Dir:         cfg.Storage.FileDir,
		DefaultName: cfg.Storage.FileName,
	})

	notifier := notify.NewNotifier(cfg.Notifier.Workers, cfg.Notifier.Buffer)
	notifier.Start(ctx)
	notifier.Subscribe(notify.SubscriberFunc(func(event notify.Event) {
		logger.Printf("[%s] %s: %s", event.Level, event.Op, event.Message)
	}))

	appStore := store.NewStore(dbDriver, fileDriver, notifier, cfg.Storage.AutoSaveInterval)
	if err := appStore.Open(ctx); err != nil {
		logger.Fatalf("failed to open data store: %v", err)
	}
	logger.Printf("data store initialized (backend: %s)", appStore.Backend())

	// Run the auto-archive sweep in the background
	go runArchiveSweep(ctx, logger, appStore, cfg.Archive.SweepInterval)

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	// Flush the store with a deadline so shutdown cannot hang on a slow disk.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := appStore.Close(shutdownCtx); err != nil {
		logger.Fatalf("data store Close: %v", err)
	}

	logger.Println("Store gracefully stopped")
}

// runArchiveSweep periodically archives resolved tickets older than the
// configured retention window.
func runArchiveSweep(ctx context.Context, logger *log.Logger, appStore *store.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := appStore.RunAutoArchive(ctx)
			if err != nil {
				logger.Printf("auto-archive sweep failed: %v", err)
				continue
			}
			if result.ArchivedCount > 0 {
				logger.Printf("auto-archive: %s", result.Message)
			}
		}
	}
}
