package ports

import (
	"context"

	"tabprep/domain/core"
	"tabprep/domain/profile"
	"tabprep/domain/table"
)

// Snapshot couples a stored dataset with the analysis computed for it.
// Preprocessing needs the analysis that was taken before any transform,
// so the two always travel together.
type Snapshot struct {
	ID          core.SnapshotID
	Name        string
	Source      string
	Fingerprint core.Fingerprint
	Dataset     table.Dataset
	Analysis    *profile.AnalysisResult
	CreatedAt   core.Timestamp
}

// SnapshotSummary is the listing projection of a snapshot; it omits the
// dataset payload.
type SnapshotSummary struct {
	ID          core.SnapshotID
	Name        string
	Source      string
	Fingerprint core.Fingerprint
	RowCount    int
	ColumnCount int
	CreatedAt   core.Timestamp
}

// SnapshotFilters for querying snapshots
type SnapshotFilters struct {
	Limit  int
	Offset int
}

// SnapshotStore persists snapshots between engine calls. The engine
// itself is stateless; this is the only state the application keeps.
type SnapshotStore interface {
	Save(ctx context.Context, snap *Snapshot) error
	Get(ctx context.Context, id core.SnapshotID) (*Snapshot, error)
	List(ctx context.Context, filters SnapshotFilters) ([]SnapshotSummary, error)
	Delete(ctx context.Context, id core.SnapshotID) error
}
