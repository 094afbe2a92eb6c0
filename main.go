package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"tabprep/adapters/ingest"
	"tabprep/adapters/store/memory"
	"tabprep/adapters/store/postgres"
	"tabprep/app"
	"tabprep/internal/config"
	"tabprep/internal/errors"
	"tabprep/internal/logging"
	"tabprep/internal/migration"
	"tabprep/ports"
	"tabprep/server"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase connects to PostgreSQL and brings the schema up to date
func initDatabase(ctx context.Context, appConfig *config.Config) (*sqlx.DB, error) {
	if err := appConfig.RequireDatabase(); err != nil {
		return nil, err
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := logging.NewDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Snapshot storage: PostgreSQL when configured, process memory otherwise
	var store ports.SnapshotStore
	if appConfig.HasDatabase() {
		db, err := initDatabase(ctx, appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		store = postgres.NewSnapshotStore(db)
		log.Println("Using PostgreSQL snapshot store")
	} else {
		store = memory.NewStore()
		log.Println("No DATABASE_URL configured, keeping snapshots in memory")
	}

	profiles := app.NewProfileService(store, logger)
	prepService := app.NewPrepService(store, logger)

	// Profile a configured data file on startup so the server comes up
	// with a snapshot already loaded
	if appConfig.Data.File != "" {
		ds, err := ingest.ReadFile(ctx, appConfig.Data.File, appConfig.Data.MaxRows)
		if err != nil {
			log.Fatalf("Failed to read data file: %v", err)
		}
		result, err := profiles.Profile(ctx, app.ProfileRequest{
			Name:    filepath.Base(appConfig.Data.File),
			Source:  appConfig.Data.File,
			Dataset: ds,
		})
		if err != nil {
			log.Fatalf("Failed to profile data file: %v", err)
		}
		log.Printf("Profiled %s on startup as snapshot %s", appConfig.Data.File, result.SnapshotID)
	}

	// Start pprof server for performance profiling
	if appConfig.Profiling.Enabled {
		go func() {
			log.Printf("🚀 Performance profiling server starting on :%s", appConfig.Profiling.Port)
			if err := http.ListenAndServe(":"+appConfig.Profiling.Port, nil); err != nil {
				log.Printf("pprof server failed: %v", err)
			}
		}()
	}

	srv := server.NewApp(appConfig.Server, profiles, prepService, logger)
	log.Printf("🚀 Starting tabprep server on port %s", appConfig.Server.Port)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
