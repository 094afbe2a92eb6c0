package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"tabprep/domain/table"
)

// CSVWriter encodes a dataset as CSV. The header comes from the dataset's
// column set; missing cells write as empty fields, non-finite numbers as
// their Infinity/NaN spellings, so a write/read cycle preserves the data.
type CSVWriter struct{}

// NewCSVWriter creates a CSV writer
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Write encodes the dataset to dst
func (w *CSVWriter) Write(ctx context.Context, dst io.Writer, ds table.Dataset) error {
	out := csv.NewWriter(dst)

	columns := ds.Columns()
	if err := out.Write(columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range ds.Records() {
		for i, col := range columns {
			row[i] = rec.Value(col).Label()
		}
		if err := out.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	out.Flush()
	return out.Error()
}
