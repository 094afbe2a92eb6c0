// Package memory provides a SnapshotStore kept entirely in process
// memory. It backs the CLI and any server started without a database
// URL, and doubles as the store used by service tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tabprep/domain/core"
	"tabprep/ports"
)

// Store implements ports.SnapshotStore over a mutex-guarded map.
type Store struct {
	mu    sync.RWMutex
	snaps map[core.SnapshotID]*ports.Snapshot
	order []core.SnapshotID
}

// NewStore creates an empty in-memory snapshot store
func NewStore() *Store {
	return &Store{
		snaps: make(map[core.SnapshotID]*ports.Snapshot),
	}
}

// Save stores a snapshot, replacing any previous one with the same ID
func (s *Store) Save(ctx context.Context, snap *ports.Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("snapshot id is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.snaps[snap.ID]; !exists {
		s.order = append(s.order, snap.ID)
	}
	stored := *snap
	s.snaps[snap.ID] = &stored
	return nil
}

// Get retrieves a snapshot by ID
func (s *Store) Get(ctx context.Context, id core.SnapshotID) (*ports.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSnapshotNotFound, id)
	}
	found := *snap
	return &found, nil
}

// List returns snapshot summaries, newest first
func (s *Store) List(ctx context.Context, filters ports.SnapshotFilters) ([]ports.SnapshotSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]ports.SnapshotSummary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		snap := s.snaps[s.order[i]]
		summaries = append(summaries, summarize(snap))
	}

	if filters.Offset > 0 {
		if filters.Offset >= len(summaries) {
			return []ports.SnapshotSummary{}, nil
		}
		summaries = summaries[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(summaries) {
		summaries = summaries[:filters.Limit]
	}
	return summaries, nil
}

// Delete removes a snapshot by ID
func (s *Store) Delete(ctx context.Context, id core.SnapshotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.snaps[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrSnapshotNotFound, id)
	}
	delete(s.snaps, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func summarize(snap *ports.Snapshot) ports.SnapshotSummary {
	summary := ports.SnapshotSummary{
		ID:          snap.ID,
		Name:        snap.Name,
		Source:      snap.Source,
		Fingerprint: snap.Fingerprint,
		RowCount:    snap.Dataset.Len(),
		CreatedAt:   snap.CreatedAt,
	}
	if snap.Analysis != nil {
		summary.RowCount = snap.Analysis.RowCount
		summary.ColumnCount = snap.Analysis.ColumnCount
	}
	return summary
}
