// Command reconcile merges duplicate accounts sharing one email address.
// The API self-heals duplicates lazily on sign-in; this job sweeps the whole
// table for accounts that never sign in again.
package main

import (
	"log"
	"os"

	"github.com/yourusername/platera-api/internal/config"
	pgRepo "github.com/yourusername/platera-api/internal/repository/postgres"
	"github.com/yourusername/platera-api/internal/service"
	"github.com/yourusername/platera-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	userRepo := pgRepo.NewUserRepo(db)
	// The sweep never talks to the identity provider or sends email.
	accountService := service.NewAccountService(userRepo, nil, &service.NoopEmailService{})

	merged, err := accountService.ReconcileAllDuplicates()
	if err != nil {
		log.Printf("Reconciliation finished with errors after merging %d accounts: %v", merged, err)
		os.Exit(1)
	}

	log.Printf("Reconciliation complete, merged %d duplicate accounts", merged)
}
