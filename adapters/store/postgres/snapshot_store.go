// Package postgres persists snapshots in PostgreSQL. Dataset and
// analysis payloads are stored as JSONB; both carry their own ordered
// JSON codecs, so column order survives the round trip.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tabprep/domain/core"
	"tabprep/domain/profile"
	"tabprep/domain/table"
	"tabprep/ports"
)

// snapshotStore implements the SnapshotStore interface
type snapshotStore struct {
	db *sqlx.DB
}

// NewSnapshotStore creates a new PostgreSQL-backed snapshot store
func NewSnapshotStore(db *sqlx.DB) ports.SnapshotStore {
	return &snapshotStore{db: db}
}

// Save inserts a snapshot, replacing any previous one with the same ID
func (s *snapshotStore) Save(ctx context.Context, snap *ports.Snapshot) error {
	datasetJSON, err := json.Marshal(snap.Dataset)
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	var analysisJSON []byte
	if snap.Analysis != nil {
		analysisJSON, err = json.Marshal(snap.Analysis)
		if err != nil {
			return fmt.Errorf("failed to marshal analysis: %w", err)
		}
	}

	rowCount := snap.Dataset.Len()
	columnCount := len(snap.Dataset.Columns())
	if snap.Analysis != nil {
		rowCount = snap.Analysis.RowCount
		columnCount = snap.Analysis.ColumnCount
	}

	query := `INSERT INTO snapshots (
		id, name, source, fingerprint, dataset, analysis, row_count, column_count, created_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9
	) ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		source = EXCLUDED.source,
		fingerprint = EXCLUDED.fingerprint,
		dataset = EXCLUDED.dataset,
		analysis = EXCLUDED.analysis,
		row_count = EXCLUDED.row_count,
		column_count = EXCLUDED.column_count`

	_, err = s.db.ExecContext(ctx, query,
		string(snap.ID), snap.Name, snap.Source, string(snap.Fingerprint),
		datasetJSON, analysisJSON, rowCount, columnCount, snap.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by ID
func (s *snapshotStore) Get(ctx context.Context, id core.SnapshotID) (*ports.Snapshot, error) {
	query := `SELECT
		id, name, COALESCE(source, '') as source, COALESCE(fingerprint, '') as fingerprint,
		dataset, analysis, created_at
	FROM snapshots WHERE id = $1`

	var (
		rawID        string
		name         string
		source       string
		fingerprint  string
		datasetJSON  []byte
		analysisJSON []byte
		createdAt    time.Time
	)
	err := s.db.QueryRowContext(ctx, query, string(id)).Scan(
		&rawID, &name, &source, &fingerprint, &datasetJSON, &analysisJSON, &createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrSnapshotNotFound, id)
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var ds table.Dataset
	if err := json.Unmarshal(datasetJSON, &ds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dataset: %w", err)
	}

	var analysis *profile.AnalysisResult
	if len(analysisJSON) > 0 {
		analysis = &profile.AnalysisResult{}
		if err := json.Unmarshal(analysisJSON, analysis); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis: %w", err)
		}
	}

	return &ports.Snapshot{
		ID:          core.SnapshotID(rawID),
		Name:        name,
		Source:      source,
		Fingerprint: core.Fingerprint(fingerprint),
		Dataset:     ds,
		Analysis:    analysis,
		CreatedAt:   core.NewTimestamp(createdAt),
	}, nil
}

// List returns snapshot summaries, newest first
func (s *snapshotStore) List(ctx context.Context, filters ports.SnapshotFilters) ([]ports.SnapshotSummary, error) {
	query := `SELECT
		id, name, COALESCE(source, '') as source, COALESCE(fingerprint, '') as fingerprint,
		COALESCE(row_count, 0) as row_count, COALESCE(column_count, 0) as column_count, created_at
	FROM snapshots
	ORDER BY created_at DESC
	LIMIT NULLIF($1, 0) OFFSET $2`

	rows, err := s.db.QueryContext(ctx, query, filters.Limit, filters.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	summaries := make([]ports.SnapshotSummary, 0)
	for rows.Next() {
		var (
			rawID       string
			name        string
			source      string
			fingerprint string
			rowCount    int
			columnCount int
			createdAt   time.Time
		)
		if err := rows.Scan(&rawID, &name, &source, &fingerprint, &rowCount, &columnCount, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot summary: %w", err)
		}
		summaries = append(summaries, ports.SnapshotSummary{
			ID:          core.SnapshotID(rawID),
			Name:        name,
			Source:      source,
			Fingerprint: core.Fingerprint(fingerprint),
			RowCount:    rowCount,
			ColumnCount: columnCount,
			CreatedAt:   core.NewTimestamp(createdAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}
	return summaries, nil
}

// Delete removes a snapshot by ID
func (s *snapshotStore) Delete(ctx context.Context, id core.SnapshotID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", core.ErrSnapshotNotFound, id)
	}
	return nil
}
