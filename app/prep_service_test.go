package app

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabprep/adapters/store/memory"
	"tabprep/domain/core"
	"tabprep/domain/table"
	"tabprep/internal/logging"
	"tabprep/internal/prep"
)

func newPrepFixture(t *testing.T) (*ProfileService, *PrepService, core.SnapshotID) {
	t.Helper()
	store := memory.NewStore()
	log := logging.NewLogger(logging.LogLevelError)
	profiles := NewProfileService(store, log)
	preps := NewPrepService(store, log)

	records := make([]table.Record, 0, 6)
	amounts := []float64{10, math.Inf(1), 30, 50, 20, 40}
	colors := []string{"red", "blue", "red", "red", "red", "blue"}
	for i := range amounts {
		r := table.NewRecord()
		r.Set("amount", table.Number(amounts[i]))
		r.Set("color", table.Text(colors[i]))
		records = append(records, r)
	}

	result, err := profiles.Profile(context.Background(), ProfileRequest{
		Name:    "raw",
		Dataset: table.FromRecords(records),
	})
	require.NoError(t, err)
	return profiles, preps, result.SnapshotID
}

func TestPrepService_Preprocess(t *testing.T) {
	profiles, preps, snapID := newPrepFixture(t)
	ctx := context.Background()

	result, err := preps.Preprocess(ctx, PreprocessRequest{
		SnapshotID: snapID,
		Options: prep.Options{
			HandleInfinite:     true,
			MissingValueMethod: prep.MissingFillMean,
			EncodingMethod:     prep.EncodingOneHot,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Analysis)

	// The infinity was sanitized and imputed, the color column one-hot
	// expanded, and the re-analysis reflects the new shape.
	assert.Equal(t, 6, result.Analysis.RowCount)
	assert.Equal(t, 3, result.Analysis.ColumnCount)
	assert.False(t, result.Analysis.HasInfiniteValues)
	cols := result.Dataset.Columns()
	assert.Equal(t, []string{"amount", "color_red", "color_blue"}, cols)

	// A new snapshot was stored; the source one is untouched.
	processed, err := profiles.Get(ctx, result.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, "raw (processed)", processed.Name)

	raw, err := profiles.Get(ctx, snapID)
	require.NoError(t, err)
	assert.True(t, raw.Analysis.HasInfiniteValues)
	assert.Equal(t, []string{"amount", "color"}, raw.Dataset.Columns())
}

func TestPrepService_SaveAs(t *testing.T) {
	profiles, preps, snapID := newPrepFixture(t)
	ctx := context.Background()

	result, err := preps.Preprocess(ctx, PreprocessRequest{
		SnapshotID: snapID,
		Options:    prep.Options{HandleInfinite: true},
		SaveAs:     "clean",
	})
	require.NoError(t, err)

	snap, err := profiles.Get(ctx, result.SnapshotID)
	require.NoError(t, err)
	assert.Equal(t, "clean", snap.Name)
}

func TestPrepService_InvalidOptions(t *testing.T) {
	_, preps, snapID := newPrepFixture(t)

	_, err := preps.Preprocess(context.Background(), PreprocessRequest{
		SnapshotID: snapID,
		Options:    prep.Options{NormalizationMethod: "log"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidOption)
}

func TestPrepService_MissingSnapshot(t *testing.T) {
	_, preps, _ := newPrepFixture(t)

	_, err := preps.Preprocess(context.Background(), PreprocessRequest{
		SnapshotID: core.NewSnapshotID(),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSnapshotNotFound)
}

func TestPrepService_PreprocessDataset(t *testing.T) {
	_, preps, _ := newPrepFixture(t)

	records := []table.Record{}
	for _, v := range []interface{}{1.0, nil, 3.0} {
		r := table.NewRecord()
		if v == nil {
			r.Set("x", table.Null())
		} else {
			r.Set("x", table.Number(v.(float64)))
		}
		records = append(records, r)
	}

	out, reanalysis, err := preps.PreprocessDataset(table.FromRecords(records), prep.Options{
		MissingValueMethod: prep.MissingFillMean,
	})
	require.NoError(t, err)

	v, ok := out.Cell(1, "x").AsNumber()
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	x, ok := reanalysis.Columns.Get("x")
	require.True(t, ok)
	assert.Equal(t, 0, x.MissingCount)
}

func TestPrepService_DropAllRowsFails(t *testing.T) {
	store := memory.NewStore()
	log := logging.NewLogger(logging.LogLevelError)
	profiles := NewProfileService(store, log)
	preps := NewPrepService(store, log)

	r1 := table.NewRecord()
	r1.Set("x", table.Number(1))
	r1.Set("y", table.Null())
	r2 := table.NewRecord()
	r2.Set("x", table.Null())
	r2.Set("y", table.Number(2))

	profiled, err := profiles.Profile(context.Background(), ProfileRequest{
		Name:    "holes",
		Dataset: table.FromRecords([]table.Record{r1, r2}),
	})
	require.NoError(t, err)

	_, err = preps.Preprocess(context.Background(), PreprocessRequest{
		SnapshotID: profiled.SnapshotID,
		Options:    prep.Options{MissingValueMethod: prep.MissingDropRows},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyDataset)
}
