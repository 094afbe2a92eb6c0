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
	"tabprep/internal/prep"
	"tabprep/ports"
)

// PrepService runs the preprocessing pipeline against stored snapshots
// and re-analyzes the result.
type PrepService struct {
	analyzer *analysis.Analyzer
	pre      *prep.Preprocessor
	store    ports.SnapshotStore
	log      *logging.Logger
}

// PreprocessRequest defines inputs for preprocessing a stored snapshot
type PreprocessRequest struct {
	SnapshotID core.SnapshotID
	Options    prep.Options
	SaveAs     string
}

// PreprocessResult contains the transformed data, its fresh analysis
// and the snapshot the result was stored under
type PreprocessResult struct {
	SnapshotID core.SnapshotID
	Dataset    table.Dataset
	Analysis   *profile.AnalysisResult
	RuntimeMs  int64
}

// NewPrepService creates a preprocessing service
func NewPrepService(store ports.SnapshotStore, log *logging.Logger) *PrepService {
	return &PrepService{
		analyzer: analysis.NewAnalyzer(),
		pre:      prep.NewPreprocessor(),
		store:    store,
		log:      log.WithComponent("prep"),
	}
}

// Preprocess loads a snapshot, applies the operator pipeline using the
// snapshot's original analysis for column typing, re-analyzes the
// transformed dataset and stores it as a new snapshot. The source
// snapshot is left untouched.
func (s *PrepService) Preprocess(ctx context.Context, req PreprocessRequest) (*PreprocessResult, error) {
	startTime := time.Now()

	snap, err := s.store.Get(ctx, req.SnapshotID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load snapshot %s", req.SnapshotID)
	}

	transformed, reanalysis, err := s.run(snap.Dataset, snap.Analysis, req.Options)
	if err != nil {
		return nil, err
	}

	name := req.SaveAs
	if name == "" {
		name = snap.Name + " (processed)"
	}
	out := &ports.Snapshot{
		ID:          core.NewSnapshotID(),
		Name:        name,
		Source:      snap.Source,
		Fingerprint: core.ComputeSchemaFingerprint(transformed.Columns(), transformed.Len()),
		Dataset:     transformed,
		Analysis:    reanalysis,
		CreatedAt:   core.Now(),
	}
	if err := s.store.Save(ctx, out); err != nil {
		return nil, errors.Wrap(err, "failed to store processed snapshot")
	}

	runtime := time.Since(startTime).Milliseconds()
	s.log.Info("preprocessed %q into %q: %d rows, %d columns in %dms",
		snap.Name, out.Name, reanalysis.RowCount, reanalysis.ColumnCount, runtime)

	return &PreprocessResult{
		SnapshotID: out.ID,
		Dataset:    transformed,
		Analysis:   reanalysis,
		RuntimeMs:  runtime,
	}, nil
}

// PreprocessDataset applies the pipeline to a dataset supplied by the
// caller, without touching the store. The analysis snapshot is computed
// here, before any transform, exactly as the stored path does.
func (s *PrepService) PreprocessDataset(ds table.Dataset, opts prep.Options) (table.Dataset, *profile.AnalysisResult, error) {
	before, err := s.analyzer.Analyze(ds)
	if err != nil {
		return table.Dataset{}, nil, errors.Wrap(err, "analysis failed")
	}
	return s.run(ds, before, opts)
}

// PreprocessWith is PreprocessDataset with a previously computed
// analysis supplied for column typing. A nil analysis is computed here.
func (s *PrepService) PreprocessWith(ds table.Dataset, before *profile.AnalysisResult, opts prep.Options) (table.Dataset, *profile.AnalysisResult, error) {
	if before == nil {
		return s.PreprocessDataset(ds, opts)
	}
	return s.run(ds, before, opts)
}

func (s *PrepService) run(ds table.Dataset, before *profile.AnalysisResult, opts prep.Options) (table.Dataset, *profile.AnalysisResult, error) {
	if opts.IsNoOp() {
		s.log.Debug("options select no transformation; dataset passes through")
	}

	transformed, err := s.pre.Apply(ds, before, opts)
	if err != nil {
		return table.Dataset{}, nil, errors.Wrap(err, "preprocessing failed")
	}

	// dropRows can empty the dataset entirely; that surfaces here as an
	// analysis error rather than a silent empty snapshot.
	reanalysis, err := s.analyzer.Analyze(transformed)
	if err != nil {
		return table.Dataset{}, nil, errors.Wrap(err, "re-analysis failed")
	}
	return transformed, reanalysis, nil
}
