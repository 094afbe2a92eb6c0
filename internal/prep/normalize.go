package prep

import (
	"github.com/montanaflynn/stats"

	"tabprep/domain/table"
	"tabprep/internal/analysis"
)

// NormalizeMinMax rescales each numeric column to [0,1] via
// (x-min)/(max-min), with min and max taken over the column's finite
// values. A zero-range column is left unchanged, as are missing and
// non-finite cells everywhere.
func NormalizeMinMax(ds table.Dataset, numericColumns []string) table.Dataset {
	return normalize(ds, numericColumns, func(values []float64) (func(float64) float64, bool) {
		minV, _ := stats.Min(values)
		maxV, _ := stats.Max(values)
		if maxV == minV {
			return nil, false
		}
		span := maxV - minV
		return func(x float64) float64 { return (x - minV) / span }, true
	})
}

// NormalizeStandard centers each numeric column to mean 0 and scales to
// unit population standard deviation. A zero-variance column is left
// unchanged.
func NormalizeStandard(ds table.Dataset, numericColumns []string) table.Dataset {
	return normalize(ds, numericColumns, func(values []float64) (func(float64) float64, bool) {
		mean, _ := stats.Mean(values)
		std, _ := stats.StandardDeviationPopulation(values)
		if std == 0 {
			return nil, false
		}
		return func(x float64) float64 { return (x - mean) / std }, true
	})
}

func normalize(ds table.Dataset, numericColumns []string, fit func([]float64) (func(float64) float64, bool)) table.Dataset {
	transforms := make(map[string]func(float64) float64, len(numericColumns))
	for _, col := range numericColumns {
		finite := analysis.FiniteValues(ds.ColumnCells(col))
		if len(finite) == 0 {
			continue
		}
		if transform, ok := fit(finite); ok {
			transforms[col] = transform
		}
	}

	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		out := r.Clone()
		for _, col := range numericColumns {
			transform, ok := transforms[col]
			if !ok || !out.Has(col) {
				continue
			}
			if v, finite := out.Value(col).Finite(); finite {
				out.Set(col, table.Number(transform(v)))
			}
		}
		b.Append(out)
	}
	return b.Dataset()
}
