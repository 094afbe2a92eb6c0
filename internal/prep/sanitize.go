package prep

import (
	"math"

	"tabprep/domain/table"
)

// SanitizeInfinite replaces every non-finite numeric cell (NaN and the
// two infinities) with null. Non-numeric cells pass through, including
// text that spells out "Infinity"; this is wider than the infinite
// detector, which counts true infinities only.
func SanitizeInfinite(ds table.Dataset) table.Dataset {
	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		out := table.NewRecordSize(r.Len())
		for _, col := range r.Columns() {
			cell, _ := r.Get(col)
			if v, ok := cell.AsNumber(); ok && (math.IsInf(v, 0) || math.IsNaN(v)) {
				out.Set(col, table.Null())
				continue
			}
			out.Set(col, cell)
		}
		b.Append(out)
	}
	return b.Dataset()
}
