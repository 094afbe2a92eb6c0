// Package ingest decodes CSV and XLSX files into datasets and encodes
// datasets back out. Decoders guarantee what the engine expects: every
// record carries the full header set, and missing cells are null.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"tabprep/domain/core"
	"tabprep/domain/table"
	"tabprep/ports"
)

// CSVReader decodes comma-separated files. MaxRows caps the number of
// data rows read when positive.
type CSVReader struct {
	MaxRows int
}

// NewCSVReader creates a CSV reader
func NewCSVReader() *CSVReader {
	return &CSVReader{}
}

// Read decodes CSV content into a dataset
func (r *CSVReader) Read(ctx context.Context, src io.Reader) (table.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return table.Dataset{}, fmt.Errorf("failed to read CSV: %w", err)
	}
	return buildDataset(rows, r.MaxRows)
}

// XLSXReader decodes Excel workbooks. Sheet picks the worksheet by
// name; empty reads the first sheet. MaxRows caps the number of data
// rows read when positive.
type XLSXReader struct {
	Sheet   string
	MaxRows int
}

// NewXLSXReader creates an XLSX reader
func NewXLSXReader() *XLSXReader {
	return &XLSXReader{}
}

// Read decodes one worksheet of an XLSX workbook into a dataset
func (r *XLSXReader) Read(ctx context.Context, src io.Reader) (table.Dataset, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return table.Dataset{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return table.Dataset{}, core.ErrNoHeader
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return table.Dataset{}, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return buildDataset(rows, r.MaxRows)
}

// ReaderFor picks a decoder by file extension.
func ReaderFor(path string) (ports.DatasetReader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return NewCSVReader(), nil
	case ".xlsx", ".xlsm":
		return NewXLSXReader(), nil
	default:
		return nil, core.NewUnsupportedFormatError(path)
	}
}

// ReadFile opens a file and decodes it with the reader its extension
// selects. maxRows caps the data rows read when positive.
func ReadFile(ctx context.Context, path string, maxRows int) (table.Dataset, error) {
	reader, err := ReaderFor(path)
	if err != nil {
		return table.Dataset{}, err
	}
	switch r := reader.(type) {
	case *CSVReader:
		r.MaxRows = maxRows
	case *XLSXReader:
		r.MaxRows = maxRows
	}

	f, err := os.Open(path)
	if err != nil {
		return table.Dataset{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return reader.Read(ctx, f)
}

// buildDataset converts raw string rows into records. The first row is
// the header; every record gets the full header set so short rows pad
// out with nulls.
func buildDataset(rows [][]string, maxRows int) (table.Dataset, error) {
	if len(rows) == 0 {
		return table.Dataset{}, core.ErrNoHeader
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := rows[1:]
	if maxRows > 0 && len(data) > maxRows {
		data = data[:maxRows]
	}

	b := table.NewBuilder(len(data))
	for _, row := range data {
		rec := table.NewRecordSize(len(headers))
		for i, header := range headers {
			if i < len(row) {
				rec.Set(header, parseCell(row[i]))
			} else {
				rec.Set(header, table.Null())
			}
		}
		b.Append(rec)
	}
	return b.Dataset(), nil
}

// parseCell types a raw string the way the engine wants it: empty means
// missing, true/false become booleans, anything float-parseable becomes
// a number (including Infinity and NaN spellings), the rest stays text.
func parseCell(raw string) table.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return table.Null()
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return table.Bool(true)
	case "false":
		return table.Bool(false)
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return table.Number(v)
	}
	return table.Text(trimmed)
}
