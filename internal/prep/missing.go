package prep

import (
	"github.com/montanaflynn/stats"

	"tabprep/domain/profile"
	"tabprep/domain/table"
	"tabprep/internal/analysis"
)

// DropMissingRows keeps only the records where every column holds a
// non-missing value. A key absent from a record counts as missing for
// that column.
func DropMissingRows(ds table.Dataset) table.Dataset {
	columns := ds.Columns()
	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		complete := true
		for _, col := range columns {
			if r.Value(col).IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			b.Append(r.Clone())
		}
	}
	return b.Dataset()
}

// DropMissingColumns keeps only the columns that are fully populated
// across every record. Records are rebuilt from the surviving columns
// in their original order.
func DropMissingColumns(ds table.Dataset) table.Dataset {
	keep := make([]string, 0, len(ds.Columns()))
	for _, col := range ds.Columns() {
		complete := true
		for _, c := range ds.ColumnCells(col) {
			if c.IsMissing() {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, col)
		}
	}

	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		out := table.NewRecordSize(len(keep))
		for _, col := range keep {
			out.Set(col, r.Value(col))
		}
		b.Append(out)
	}
	return b.Dataset()
}

// FillMean substitutes the column mean into missing cells of each
// numeric column. The mean is taken over the column's finite values in
// the dataset being transformed; columns with no finite values are left
// alone rather than filled with an undefined mean.
func FillMean(ds table.Dataset, numericColumns []string) table.Dataset {
	return fillNumeric(ds, numericColumns, func(values []float64) float64 {
		mean, _ := stats.Mean(values)
		return mean
	})
}

// FillMedian substitutes the column median into missing cells of each
// numeric column. For even-length data the median is the upper of the
// two middle values, never an average.
func FillMedian(ds table.Dataset, numericColumns []string) table.Dataset {
	return fillNumeric(ds, numericColumns, analysis.Median)
}

func fillNumeric(ds table.Dataset, numericColumns []string, statistic func([]float64) float64) table.Dataset {
	fills := make(map[string]float64, len(numericColumns))
	for _, col := range numericColumns {
		finite := analysis.FiniteValues(ds.ColumnCells(col))
		if len(finite) == 0 {
			continue
		}
		fills[col] = statistic(finite)
	}

	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		out := r.Clone()
		for _, col := range numericColumns {
			fill, ok := fills[col]
			if ok && out.Value(col).IsMissing() {
				out.Set(col, table.Number(fill))
			}
		}
		b.Append(out)
	}
	return b.Dataset()
}

// FillMode substitutes each column's most frequent non-missing value
// into that column's missing cells. Applies to every column regardless
// of type; frequency ties break by first-seen order, and the winning
// value keeps its original cell form.
func FillMode(ds table.Dataset) table.Dataset {
	modes := make(map[string]table.Cell, len(ds.Columns()))
	for _, col := range ds.Columns() {
		if mode, ok := columnMode(ds.ColumnCells(col)); ok {
			modes[col] = mode
		}
	}

	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		out := r.Clone()
		for _, col := range ds.Columns() {
			mode, ok := modes[col]
			if ok && out.Value(col).IsMissing() {
				out.Set(col, mode)
			}
		}
		b.Append(out)
	}
	return b.Dataset()
}

// columnMode finds the most frequent non-missing value. The bucket key
// is the canonical label, so 1 and "1" pool together; the cell returned
// is the first one seen for the winning bucket.
func columnMode(cells []table.Cell) (table.Cell, bool) {
	freq := profile.NewOrderedMap[int]()
	first := make(map[string]table.Cell)
	for _, c := range cells {
		if c.IsMissing() {
			continue
		}
		label := c.Label()
		n, seen := freq.Get(label)
		if !seen {
			first[label] = c
		}
		freq.Set(label, n+1)
	}
	if freq.Len() == 0 {
		return table.Cell{}, false
	}

	bestLabel := ""
	bestCount := 0
	for _, label := range freq.Keys() {
		count, _ := freq.Get(label)
		if count > bestCount {
			bestLabel = label
			bestCount = count
		}
	}
	return first[bestLabel], true
}

// FillZero substitutes a literal 0 into every missing cell across all
// columns.
func FillZero(ds table.Dataset) table.Dataset {
	columns := ds.Columns()
	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		out := r.Clone()
		for _, col := range columns {
			if out.Value(col).IsMissing() {
				out.Set(col, table.Number(0))
			}
		}
		b.Append(out)
	}
	return b.Dataset()
}
