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
	"serialsheets/ports"
)

// Headless API server, same surface the UI mounts under /api.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	var store ports.MappingStore
	if cfg.Store.Backend == "postgres" {
		db, err := sqlx.Connect("postgres", cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
		}
		store, err = postgres.NewMappingRepository(db)
		if err != nil {
			log.Fatalf("Store setup failed: %v", err)
		}
	} else {
		store = filestore.NewMappingStore(cfg.Store.FilePath)
	}

	server := api.NewServer(sheet.NewCollection(), store)
	log.Fatal(server.Start(":" + cfg.Server.Port))
}
