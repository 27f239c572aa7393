package main

import (
	"log"
	"path/filepath"

	"serialsheets/adapters/filestore"
	"serialsheets/domain/sheet"
	"serialsheets/internal/api"
	"serialsheets/ui"
)

func main() {
	sheets := sheet.NewCollection()
	store := filestore.NewMappingStore(filepath.Join(".", "mappings.json"))
	apiServer := api.NewServer(sheets, store)

	app, err := ui.NewServer(ui.Config{}, sheets, apiServer.Handler())
	if err != nil {
		log.Fatal("Failed to create UI app:", err)
	}

	log.Println("Starting SerialSheets UI on http://localhost:8080")
	log.Fatal(app.Start(":8080"))
}
