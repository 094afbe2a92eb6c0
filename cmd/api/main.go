package main

import (
	"log"

	"tabprep/adapters/api"
	"tabprep/adapters/store/memory"
	"tabprep/app"
	"tabprep/internal/config"
	"tabprep/internal/logging"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.NewDefaultLogger()

	// The machine API is stateless; the store only satisfies the
	// service constructors and never holds anything.
	store := memory.NewStore()
	srv := api.NewServer(cfg.API, app.NewProfileService(store, logger), app.NewPrepService(store, logger), logger)

	log.Printf("🚀 Starting tabprep machine API on port %s", cfg.API.Port)
	log.Fatal(srv.Start())
}
