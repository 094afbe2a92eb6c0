package app

import (
	"context"
	"time"

	"tabprep/domain/core"
	"tabprep/domain/profile"
	"tabprep/domain/table"
	"tabprep/internal/analysis"
	"tabprep/internal/errors"
	"tabprep/internal/logging"
	"tabprep/ports"
)

// ProfileService analyzes datasets and keeps the resulting snapshots.
// The engine itself is stateless; this service owns the boundary where
// analysis results meet persistence.
type ProfileService struct {
	analyzer *analysis.Analyzer
	store    ports.SnapshotStore
	log      *logging.Logger
}

// ProfileRequest defines inputs for profiling a dataset
type ProfileRequest struct {
	Name    string
	Source  string
	Dataset table.Dataset
}

// ProfileResult contains the stored snapshot ID and its analysis
type ProfileResult struct {
	SnapshotID  core.SnapshotID
	Fingerprint core.Fingerprint
	Analysis    *profile.AnalysisResult
	RuntimeMs   int64
}

// NewProfileService creates a profile service
func NewProfileService(store ports.SnapshotStore, log *logging.Logger) *ProfileService {
	return &ProfileService{
		analyzer: analysis.NewAnalyzer(),
		store:    store,
		log:      log.WithComponent("profile"),
	}
}

// Profile analyzes the dataset and persists a snapshot of both the data
// and its analysis.
func (s *ProfileService) Profile(ctx context.Context, req ProfileRequest) (*ProfileResult, error) {
	startTime := time.Now()

	result, err := s.analyzer.Analyze(req.Dataset)
	if err != nil {
		return nil, errors.Wrap(err, "analysis failed")
	}

	snap := &ports.Snapshot{
		ID:          core.NewSnapshotID(),
		Name:        req.Name,
		Source:      req.Source,
		Fingerprint: core.ComputeSchemaFingerprint(req.Dataset.Columns(), req.Dataset.Len()),
		Dataset:     req.Dataset,
		Analysis:    result,
		CreatedAt:   core.Now(),
	}
	if snap.Name == "" {
		snap.Name = "dataset-" + snap.ID.String()[:8]
	}
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, errors.Wrap(err, "failed to store snapshot")
	}

	runtime := time.Since(startTime).Milliseconds()
	s.log.Info("profiled %q: %d rows, %d columns in %dms",
		snap.Name, result.RowCount, result.ColumnCount, runtime)

	return &ProfileResult{
		SnapshotID:  snap.ID,
		Fingerprint: snap.Fingerprint,
		Analysis:    result,
		RuntimeMs:   runtime,
	}, nil
}

// Analyze profiles a dataset without persisting anything. The machine
// API uses this for its stateless endpoints.
func (s *ProfileService) Analyze(ds table.Dataset) (*profile.AnalysisResult, error) {
	result, err := s.analyzer.Analyze(ds)
	if err != nil {
		return nil, errors.Wrap(err, "analysis failed")
	}
	return result, nil
}

// Reanalyze recomputes the analysis for a stored snapshot and saves it
// back, so profiles stay current after analyzer changes.
func (s *ProfileService) Reanalyze(ctx context.Context, id core.SnapshotID) (*profile.AnalysisResult, error) {
	snap, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load snapshot %s", id)
	}

	result, err := s.analyzer.Analyze(snap.Dataset)
	if err != nil {
		return nil, errors.Wrap(err, "analysis failed")
	}
	snap.Analysis = result
	if err := s.store.Save(ctx, snap); err != nil {
		return nil, errors.Wrap(err, "failed to store refreshed analysis")
	}

	s.log.Info("reanalyzed %q: %d rows, %d columns", snap.Name, result.RowCount, result.ColumnCount)
	return result, nil
}

// Get retrieves a stored snapshot
func (s *ProfileService) Get(ctx context.Context, id core.SnapshotID) (*ports.Snapshot, error) {
	snap, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load snapshot %s", id)
	}
	return snap, nil
}

// List returns stored snapshot summaries, newest first
func (s *ProfileService) List(ctx context.Context, filters ports.SnapshotFilters) ([]ports.SnapshotSummary, error) {
	summaries, err := s.store.List(ctx, filters)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list snapshots")
	}
	return summaries, nil
}

// Delete removes a stored snapshot
func (s *ProfileService) Delete(ctx context.Context, id core.SnapshotID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return errors.Wrapf(err, "failed to delete snapshot %s", id)
	}
	s.log.Info("deleted snapshot %s", id)
	return nil
}
