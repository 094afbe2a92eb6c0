package prep

import (
	"tabprep/domain/profile"
	"tabprep/domain/table"
)

// LabelEncode replaces each value in the given categorical columns with
// an integer code: distinct non-missing values get 0..k-1 in order of
// first appearance, missing values become null. Other columns pass
// through unchanged.
func LabelEncode(ds table.Dataset, categoricalColumns []string) table.Dataset {
	codes := make(map[string]*profile.OrderedMap[int], len(categoricalColumns))
	for _, col := range categoricalColumns {
		codes[col] = labelCodes(ds.ColumnCells(col))
	}

	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		out := r.Clone()
		for _, col := range categoricalColumns {
			mapping, ok := codes[col]
			if !ok || !out.Has(col) {
				continue
			}
			cell := out.Value(col)
			if cell.IsMissing() {
				out.Set(col, table.Null())
				continue
			}
			code, _ := mapping.Get(cell.Label())
			out.Set(col, table.Number(float64(code)))
		}
		b.Append(out)
	}
	return b.Dataset()
}

func labelCodes(cells []table.Cell) *profile.OrderedMap[int] {
	codes := profile.NewOrderedMap[int]()
	for _, c := range cells {
		if c.IsMissing() {
			continue
		}
		label := c.Label()
		if !codes.Has(label) {
			codes.Set(label, codes.Len())
		}
	}
	return codes
}

// OneHotEncode expands each categorical column c into one binary column
// c_v per distinct non-missing value v, 1 where the row holds v and 0
// elsewhere (missing rows get all zeros). The original column is
// removed; the new columns append after the remaining ones, in
// first-appearance order of their values.
func OneHotEncode(ds table.Dataset, categoricalColumns []string) table.Dataset {
	encoded := make(map[string]bool, len(categoricalColumns))
	values := make(map[string][]string, len(categoricalColumns))
	for _, col := range categoricalColumns {
		encoded[col] = true
		values[col] = labelCodes(ds.ColumnCells(col)).Keys()
	}

	b := table.NewBuilder(ds.Len())
	for _, r := range ds.Records() {
		out := table.NewRecordSize(r.Len())
		for _, col := range r.Columns() {
			if encoded[col] {
				continue
			}
			out.Set(col, r.Value(col))
		}
		for _, col := range categoricalColumns {
			cell := r.Value(col)
			for _, v := range values[col] {
				hot := 0.0
				if !cell.IsMissing() && cell.Label() == v {
					hot = 1
				}
				out.Set(col+"_"+v, table.Number(hot))
			}
		}
		b.Append(out)
	}
	return b.Dataset()
}
