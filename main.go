package main

import (
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"serialsheets/adapters/filestore"
	"serialsheets/adapters/postgres"
	"serialsheets/domain/sheet"
	"serialsheets/internal/api"
	"serialsheets/internal/config"
	"serialsheets/internal/errors"
	"serialsheets/ports"
	"serialsheets/ui"
)

// buildStore selects the mapping-preference backend from configuration.
func buildStore(cfg *config.Config) (ports.MappingStore, error) {
	if cfg.Store.Backend == "postgres" {
		db, err := sqlx.Connect("postgres", cfg.Store.DatabaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to database")
		}
		if err := db.Ping(); err != nil {
			return nil, errors.Wrap(err, "failed to ping database")
		}
		log.Println("[Main] using postgres mapping store")
		return postgres.NewMappingRepository(db)
	}
	log.Printf("[Main] using file mapping store at %s", cfg.Store.FilePath)
	return filestore.NewMappingStore(cfg.Store.FilePath), nil
}

func main() {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Store setup failed: %v", err)
	}

	sheets := sheet.NewCollection()
	apiServer := api.NewServer(sheets, store)

	uiServer, err := ui.NewServer(ui.Config{GinMode: cfg.Server.GinMode}, sheets, apiServer.Handler())
	if err != nil {
		log.Fatalf("UI setup failed: %v", err)
	}

	if err := uiServer.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
