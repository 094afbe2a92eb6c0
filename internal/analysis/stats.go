package analysis

import (
	"sort"

	"github.com/montanaflynn/stats"

	"tabprep/domain/profile"
	"tabprep/domain/table"
)

// FiniteValues extracts every cell value that parses to a finite number,
// in row order. Missing cells, non-numeric text, booleans, NaN and the
// infinities are all skipped.
func FiniteValues(cells []table.Cell) []float64 {
	values := make([]float64, 0, len(cells))
	for _, c := range cells {
		if v, ok := c.Finite(); ok {
			values = append(values, v)
		}
	}
	return values
}

// Median returns the upper of the two middle elements for even-length
// input: sorted[n/2]. The two middles are never averaged, so the median
// is always a value that occurs in the data.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// ComputeStats computes descriptive statistics over the finite values of
// a column. Returns nil when no finite values exist.
//
// Variance and skewness use the population form (divide by n, no bias
// correction). Quartiles are index-based on the sorted values: q1 is
// sorted[n/4] and q3 is sorted[3n/4], without interpolation.
func ComputeStats(cells []table.Cell) *profile.NumericStats {
	finite := FiniteValues(cells)
	if len(finite) == 0 {
		return nil
	}

	sorted := make([]float64, len(finite))
	copy(sorted, finite)
	sort.Float64s(sorted)
	n := len(sorted)

	mean, _ := stats.Mean(finite)
	std, _ := stats.StandardDeviationPopulation(finite)
	minV, _ := stats.Min(finite)
	maxV, _ := stats.Max(finite)

	median := sorted[n/2]
	q1 := sorted[n/4]
	q3 := sorted[3*n/4]
	iqr := q3 - q1

	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	outliers := 0
	for _, v := range finite {
		if v < lower || v > upper {
			outliers++
		}
	}

	return &profile.NumericStats{
		Count:        n,
		Mean:         mean,
		Median:       median,
		Min:          minV,
		Max:          maxV,
		Std:          std,
		Q1:           q1,
		Q3:           q3,
		IQR:          iqr,
		OutlierCount: outliers,
		Skewness:     skewness(finite, mean, std),
	}
}

// skewness is the population third standardized moment,
// mean(((x-mean)/std)^3). A constant column has no defined skew and
// reports 0.
func skewness(values []float64, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := (v - mean) / std
		sum += d * d * d
	}
	return sum / float64(len(values))
}
