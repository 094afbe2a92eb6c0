package ingest

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"tabprep/domain/core"
	"tabprep/domain/table"
)

func TestCSVReader_TypesCells(t *testing.T) {
	input := " name , amount ,active\nalice, 10.5 ,true\nbob,,false\n"

	ds, err := NewCSVReader().Read(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got := ds.Columns(); len(got) != 3 || got[0] != "name" || got[1] != "amount" || got[2] != "active" {
		t.Errorf("Expected trimmed columns [name amount active], got %v", got)
	}
	if ds.Len() != 2 {
		t.Fatalf("Expected 2 records, got %d", ds.Len())
	}

	if v, ok := ds.Cell(0, "amount").AsNumber(); !ok || v != 10.5 {
		t.Errorf("Expected amount 10.5 as number, got %v", ds.Cell(0, "amount"))
	}
	if b, ok := ds.Cell(0, "active").AsBool(); !ok || !b {
		t.Errorf("Expected active true as bool, got %v", ds.Cell(0, "active"))
	}
	if s, ok := ds.Cell(1, "name").AsText(); !ok || s != "bob" {
		t.Errorf("Expected name bob as text, got %v", ds.Cell(1, "name"))
	}
	if !ds.Cell(1, "amount").IsMissing() {
		t.Error("Expected empty field to read as missing")
	}
}

func TestCSVReader_InfinitySpellingsBecomeNumbers(t *testing.T) {
	input := "value\nInfinity\n-Inf\nNaN\n12\n"

	ds, err := NewCSVReader().Read(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !ds.Cell(0, "value").IsInfinite() {
		t.Error("Expected Infinity to parse as an infinite number")
	}
	if !ds.Cell(1, "value").IsInfinite() {
		t.Error("Expected -Inf to parse as an infinite number")
	}
	if v, ok := ds.Cell(2, "value").AsNumber(); !ok || !math.IsNaN(v) {
		t.Errorf("Expected NaN to parse as a NaN number, got %v", ds.Cell(2, "value"))
	}
	if v, ok := ds.Cell(3, "value").Finite(); !ok || v != 12 {
		t.Errorf("Expected 12 to stay finite, got %v", ds.Cell(3, "value"))
	}
}

func TestCSVReader_ShortRowsPadWithNulls(t *testing.T) {
	input := "a,b,c\n1,2,3\n4,5\n"

	ds, err := NewCSVReader().Read(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if !ds.Cell(1, "c").IsNull() {
		t.Errorf("Expected short row to pad column c with null, got %v", ds.Cell(1, "c"))
	}
	if got := ds.Record(1).Columns(); len(got) != 3 {
		t.Errorf("Expected padded record to carry all 3 columns, got %v", got)
	}
}

func TestCSVReader_HeaderOnlyYieldsEmptyDataset(t *testing.T) {
	ds, err := NewCSVReader().Read(context.Background(), strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !ds.IsEmpty() {
		t.Errorf("Expected empty dataset, got %d records", ds.Len())
	}
}

func TestCSVReader_NoRowsIsNoHeader(t *testing.T) {
	_, err := NewCSVReader().Read(context.Background(), strings.NewReader(""))
	if !errors.Is(err, core.ErrNoHeader) {
		t.Errorf("Expected ErrNoHeader, got %v", err)
	}
}

func TestCSVReader_MaxRowsCapsData(t *testing.T) {
	input := "n\n1\n2\n3\n4\n"
	r := &CSVReader{MaxRows: 2}

	ds, err := r.Read(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("Expected 2 records with MaxRows=2, got %d", ds.Len())
	}
}

func TestXLSXReader_ReadsFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetCellValue(sheet, "A1", "name")
	f.SetCellValue(sheet, "B1", "score")
	f.SetCellValue(sheet, "A2", "alice")
	f.SetCellValue(sheet, "B2", 42)
	f.SetCellValue(sheet, "A3", "bob")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	ds, err := NewXLSXReader().Read(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if got := ds.Columns(); len(got) != 2 || got[0] != "name" || got[1] != "score" {
		t.Errorf("Expected columns [name score], got %v", got)
	}
	if v, ok := ds.Cell(0, "score").AsNumber(); !ok || v != 42 {
		t.Errorf("Expected score 42 as number, got %v", ds.Cell(0, "score"))
	}
	if !ds.Cell(1, "score").IsMissing() {
		t.Error("Expected empty workbook cell to read as missing")
	}
}

func TestXLSXReader_SheetSelection(t *testing.T) {
	f := excelize.NewFile()
	first := f.GetSheetName(0)
	f.SetCellValue(first, "A1", "wrong")
	if _, err := f.NewSheet("extra"); err != nil {
		t.Fatalf("failed to add sheet: %v", err)
	}
	f.SetCellValue("extra", "A1", "value")
	f.SetCellValue("extra", "A2", 7)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	ds, err := (&XLSXReader{Sheet: "extra"}).Read(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := ds.Columns(); len(got) != 1 || got[0] != "value" {
		t.Errorf("Expected columns [value] from the extra sheet, got %v", got)
	}
	if v, ok := ds.Cell(0, "value").AsNumber(); !ok || v != 7 {
		t.Errorf("Expected 7 from the extra sheet, got %v", ds.Cell(0, "value"))
	}

	var buf2 bytes.Buffer
	if err := f.Write(&buf2); err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}
	if _, err := (&XLSXReader{Sheet: "missing"}).Read(context.Background(), &buf2); err == nil {
		t.Error("Expected an error for a sheet that does not exist")
	}
}

func TestReaderFor_RoutesByExtension(t *testing.T) {
	if r, err := ReaderFor("data.csv"); err != nil {
		t.Errorf("Expected CSV reader for .csv, got error %v", err)
	} else if _, ok := r.(*CSVReader); !ok {
		t.Errorf("Expected *CSVReader for .csv, got %T", r)
	}

	if r, err := ReaderFor("Data.XLSX"); err != nil {
		t.Errorf("Expected XLSX reader for .XLSX, got error %v", err)
	} else if _, ok := r.(*XLSXReader); !ok {
		t.Errorf("Expected *XLSXReader for .XLSX, got %T", r)
	}

	if _, err := ReaderFor("data.json"); !errors.Is(err, core.ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat for .json, got %v", err)
	}
}

func TestCSVWriter_RoundTrip(t *testing.T) {
	rec1 := table.NewRecord()
	rec1.Set("name", table.Text("alice"))
	rec1.Set("amount", table.Number(10.5))
	rec1.Set("flag", table.Bool(true))
	rec2 := table.NewRecord()
	rec2.Set("name", table.Text("bob"))
	rec2.Set("amount", table.Null())
	rec2.Set("flag", table.Bool(false))
	ds := table.FromRecords([]table.Record{rec1, rec2})

	var buf bytes.Buffer
	if err := NewCSVWriter().Write(context.Background(), &buf, ds); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := NewCSVReader().Read(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Read back failed: %v", err)
	}

	if got.Len() != 2 {
		t.Fatalf("Expected 2 records after round trip, got %d", got.Len())
	}
	if v, ok := got.Cell(0, "amount").AsNumber(); !ok || v != 10.5 {
		t.Errorf("Expected amount 10.5 after round trip, got %v", got.Cell(0, "amount"))
	}
	if !got.Cell(1, "amount").IsMissing() {
		t.Error("Expected null cell to stay missing after round trip")
	}
	if b, ok := got.Cell(1, "flag").AsBool(); !ok || b {
		t.Errorf("Expected flag false after round trip, got %v", got.Cell(1, "flag"))
	}
}
