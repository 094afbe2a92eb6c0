package table

import (
	"encoding/json"
)

// Dataset is an ordered sequence of records representing tabular data.
// Datasets are treated as immutable values: transforms always build a new
// Dataset and leave their input untouched.
//
// The column set of a Dataset is defined by its FIRST record only. Keys
// that appear solely in later records are invisible to the entire
// pipeline. Ragged input behaves this way on purpose and callers rely
// on it; do not "fix" it here.
type Dataset struct {
	records []Record
}

// FromRecords builds a dataset over the given records. The slice is used
// directly; callers hand over ownership.
func FromRecords(records []Record) Dataset {
	return Dataset{records: records}
}

// Len returns the number of records
func (d Dataset) Len() int {
	return len(d.records)
}

// IsEmpty reports a dataset with zero records
func (d Dataset) IsEmpty() bool {
	return len(d.records) == 0
}

// Record returns the record at index i
func (d Dataset) Record(i int) Record {
	return d.records[i]
}

// Records exposes the backing records for iteration. Callers must not
// mutate them; build a new Dataset instead.
func (d Dataset) Records() []Record {
	return d.records
}

// Columns returns the column names of the first record, in insertion
// order, or nil for an empty dataset.
func (d Dataset) Columns() []string {
	if len(d.records) == 0 {
		return nil
	}
	return d.records[0].Columns()
}

// Cell returns the value at (row, column), Null when the record lacks
// the column.
func (d Dataset) Cell(row int, column string) Cell {
	return d.records[row].Value(column)
}

// ColumnCells gathers the column's cells across all records in row order.
// Absent keys contribute Null, keeping the slice aligned with row count.
func (d Dataset) ColumnCells(column string) []Cell {
	cells := make([]Cell, len(d.records))
	for i, rec := range d.records {
		cells[i] = rec.Value(column)
	}
	return cells
}

// MarshalJSON renders the dataset as a JSON array of ordered records
func (d Dataset) MarshalJSON() ([]byte, error) {
	if d.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.records)
}

// UnmarshalJSON reads a JSON array of records
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	d.records = records
	return nil
}

// Builder accumulates records for a new Dataset. Transforms pre-size it
// with the expected row count and append rebuilt records.
type Builder struct {
	records []Record
}

// NewBuilder creates a builder with capacity for n records
func NewBuilder(n int) *Builder {
	return &Builder{records: make([]Record, 0, n)}
}

// Append adds a record
func (b *Builder) Append(r Record) {
	b.records = append(b.records, r)
}

// Len returns the number of records accumulated so far
func (b *Builder) Len() int {
	return len(b.records)
}

// Dataset finalizes the builder
func (b *Builder) Dataset() Dataset {
	return Dataset{records: b.records}
}
