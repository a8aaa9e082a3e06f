package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openhire/jobboard/api"
	migrations "github.com/openhire/jobboard/db"
	"github.com/openhire/jobboard/internal/config"
	"github.com/openhire/jobboard/internal/db"
	"github.com/openhire/jobboard/internal/repository/sqlite"
	"github.com/openhire/jobboard/internal/upload"
	"github.com/openhire/jobboard/internal/validate"
	"github.com/openhire/jobboard/pkg/models"
	"github.com/openhire/jobboard/pkg/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Starting jobboard server version %s (built at %s)", version, buildTime)

	ctx := context.Background()

	// Open database connection and bring the schema up to date
	database, err := db.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	if err := db.Migrate(ctx, database, migrations.Migrations); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	repo := sqlite.New(database)
	if err := ensureAdmin(ctx, repo, cfg); err != nil {
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	store, err := upload.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload dir: %v", err)
	}

	validator, err := validate.New()
	if err != nil {
		log.Fatalf("Failed to compile request schemas: %v", err)
	}

	handler := api.SetupRoutes(cfg, version, buildTime, database, store, validator)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// Close database connection
	if err := database.Close(); err != nil {
		log.Printf("Error closing DB: %v", err)
	}

	log.Println("Server exited")
}

// ensureAdmin seeds the configured admin account when it does not exist yet.
// Promotion requires an existing admin, so a fresh install needs this seam.
func ensureAdmin(ctx context.Context, repo *sqlite.SQLiteRepo, cfg *config.Config) error {
	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}

	existing, err := repo.GetByUsername(ctx, cfg.AdminUsername)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = repo.CreateUser(ctx, &models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	})
	// another instance may have raced us to it
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}

	return err
}
