package main

import (
	"context"
	"log"
	"os"

	"tabprep/internal/config"
	"tabprep/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var databaseURL string
	if len(os.Args) > 1 {
		databaseURL = os.Args[1]
	} else {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.RequireDatabase(); err != nil {
			log.Fatal("Usage: migrate [database_url] (or set DATABASE_URL)")
		}
		databaseURL = cfg.Database.URL
	}

	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	runner := migration.NewRunner()
	if err := runner.Run(context.Background(), db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Printf("Migration complete, schema version %s", runner.Version())
}
