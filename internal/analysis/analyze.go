// Package analysis implements the profiling engine: per-column type
// inference, descriptive statistics, pairwise Pearson correlation and
// data-quality detectors, composed into a single AnalysisResult.
//
// Every entry point is a pure function of the dataset value it is
// given. Nothing is cached between calls and no package state is
// mutated, so concurrent analyses of different datasets need no
// coordination.
package analysis

import (
	"sort"

	"tabprep/domain/core"
	"tabprep/domain/profile"
	"tabprep/domain/table"
)

// topValues are only reported for low-cardinality categorical columns.
const topValuesMaxUnique = 50

// Analyzer composes the profiling stages into one pass over a dataset.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze profiles the dataset and returns the full result. The column
// set comes from the first record only; keys that later records add are
// ignored everywhere downstream. A dataset with zero records is an
// error, not an empty result.
func (a *Analyzer) Analyze(ds table.Dataset) (*profile.AnalysisResult, error) {
	if ds.IsEmpty() {
		return nil, core.ErrEmptyDataset
	}

	columns := ds.Columns()
	result := profile.NewAnalysisResult(ds.Len(), len(columns))

	for _, col := range columns {
		cells := ds.ColumnCells(col)
		result.Columns.Set(col, a.analyzeColumn(col, cells, result))
	}

	result.Correlations = Correlate(ds, result.NumericColumns)
	result.InfiniteValueStats, result.HasInfiniteValues = DetectInfinite(ds)
	result.DuplicateStats = DetectDuplicates(ds)

	return result, nil
}

// analyzeColumn classifies one column and fills the per-type extras,
// registering the column in the result's type buckets as a side effect.
func (a *Analyzer) analyzeColumn(name string, cells []table.Cell, result *profile.AnalysisResult) profile.ColumnAnalysis {
	missing := 0
	nonNull := make([]table.Cell, 0, len(cells))
	for _, c := range cells {
		if c.IsMissing() {
			missing++
		} else {
			nonNull = append(nonNull, c)
		}
	}

	ca := profile.ColumnAnalysis{
		Type:           InferType(cells),
		MissingCount:   missing,
		MissingPercent: profile.Percent(float64(missing) / float64(len(cells)) * 100),
		UniqueCount:    distinctCount(nonNull),
	}

	switch ca.Type {
	case profile.TypeNumeric:
		ca.Stats = ComputeStats(cells)
		result.NumericColumns = append(result.NumericColumns, name)
	case profile.TypeCategorical:
		if ca.UniqueCount < topValuesMaxUnique {
			ca.TopValues = topValues(nonNull)
		}
		result.CategoricalColumns = append(result.CategoricalColumns, name)
	case profile.TypeDatetime:
		result.DateColumns = append(result.DateColumns, name)
	}

	return ca
}

// topValues lists every distinct value with its frequency, most
// frequent first. Ties keep first-seen order.
func topValues(cells []table.Cell) []profile.ValueCount {
	freq := profile.NewOrderedMap[int]()
	for _, c := range cells {
		label := c.Label()
		n, _ := freq.Get(label)
		freq.Set(label, n+1)
	}

	entries := make([]profile.ValueCount, 0, freq.Len())
	for _, label := range freq.Keys() {
		count, _ := freq.Get(label)
		entries = append(entries, profile.ValueCount{Value: label, Count: count})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Count > entries[b].Count
	})
	return entries
}
