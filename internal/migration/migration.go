package migration

import (
	"context"

	"tabprep/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSnapshotsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create snapshots table")
	}

	if err := r.addSnapshotColumns(ctx, db); err != nil {
		return errors.Wrap(err, "failed to add snapshot columns")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createSnapshotsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS snapshots (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			source VARCHAR(255) NOT NULL DEFAULT '',
			fingerprint VARCHAR(64) NOT NULL DEFAULT '',
			dataset JSONB NOT NULL,
			analysis JSONB,
			row_count INTEGER NOT NULL DEFAULT 0,
			column_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) addSnapshotColumns(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'snapshots' AND column_name = 'fingerprint'
			) THEN
				ALTER TABLE snapshots ADD COLUMN fingerprint VARCHAR(64) NOT NULL DEFAULT '';
			END IF;

			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'snapshots' AND column_name = 'row_count'
			) THEN
				ALTER TABLE snapshots ADD COLUMN row_count INTEGER NOT NULL DEFAULT 0;
			END IF;

			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'snapshots' AND column_name = 'column_count'
			) THEN
				ALTER TABLE snapshots ADD COLUMN column_count INTEGER NOT NULL DEFAULT 0;
			END IF;
		END $$;
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_snapshots_fingerprint ON snapshots(fingerprint);
	`)
	return err
}
