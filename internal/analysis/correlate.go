package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"tabprep/domain/profile"
	"tabprep/domain/table"
)

// Correlate computes Pearson correlations for every unordered pair of
// numeric columns. Rows are filtered per pair: a row contributes only
// when both columns hold a finite value there, so different pairs may
// correlate over different row subsets.
//
// The result covers each pair once (never both directions) and is
// sorted by absolute coefficient, strongest first. Ties keep discovery
// order.
func Correlate(ds table.Dataset, numericColumns []string) []profile.Correlation {
	correlations := make([]profile.Correlation, 0)
	for i := 0; i < len(numericColumns); i++ {
		for j := i + 1; j < len(numericColumns); j++ {
			xs, ys := pairedValues(ds, numericColumns[i], numericColumns[j])
			if len(xs) == 0 {
				continue
			}
			correlations = append(correlations, profile.Correlation{
				ColumnA:     numericColumns[i],
				ColumnB:     numericColumns[j],
				Coefficient: pearson(xs, ys),
			})
		}
	}
	sort.SliceStable(correlations, func(a, b int) bool {
		return math.Abs(correlations[a].Coefficient) > math.Abs(correlations[b].Coefficient)
	})
	return correlations
}

// pairedValues collects the rows where both columns are finite.
func pairedValues(ds table.Dataset, colA, colB string) ([]float64, []float64) {
	xs := make([]float64, 0, ds.Len())
	ys := make([]float64, 0, ds.Len())
	for _, rec := range ds.Records() {
		x, okA := rec.Value(colA).Finite()
		y, okB := rec.Value(colB).Finite()
		if okA && okB {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// pearson computes the correlation coefficient via the sum-of-products
// form. A zero denominator (either side constant, or a single pair)
// yields 0 rather than NaN.
func pearson(x, y []float64) float64 {
	n := float64(len(x))
	sumX := floats.Sum(x)
	sumY := floats.Sum(y)
	sumXY := floats.Dot(x, y)
	sumX2 := floats.Dot(x, x)
	sumY2 := floats.Dot(y, y)

	numerator := sumXY - sumX*sumY/n
	denominator := math.Sqrt((sumX2 - sumX*sumX/n) * (sumY2 - sumY*sumY/n))
	if denominator == 0 || math.IsNaN(denominator) {
		return 0
	}
	return numerator / denominator
}
