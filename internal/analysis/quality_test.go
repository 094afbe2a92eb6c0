package analysis

import (
	"math"
	"strings"
	"testing"

	"tabprep/domain/table"
)

func TestDetectInfinite(t *testing.T) {
	ds := table.FromRecords([]table.Record{
		rec("x", table.Number(math.Inf(1)), "y", table.Number(1)),
		rec("x", table.Number(1), "y", table.Number(2)),
		rec("x", table.Number(2), "y", table.Number(3)),
	})
	result, has := DetectInfinite(ds)
	if !has {
		t.Fatal("Expected infinite values to be flagged")
	}
	if result.Len() != 1 {
		t.Fatalf("Expected 1 affected column, got %d", result.Len())
	}
	stats, ok := result.Get("x")
	if !ok {
		t.Fatal("Expected column x to be reported")
	}
	if stats.Count != 1 {
		t.Errorf("Expected count 1, got %d", stats.Count)
	}
	if stats.Percentage.String() != "33.3" {
		t.Errorf("Expected percentage 33.3, got %s", stats.Percentage.String())
	}
}

func TestDetectInfinite_NegativeInfinity(t *testing.T) {
	ds := table.FromRecords([]table.Record{
		rec("x", table.Number(math.Inf(-1))),
		rec("x", table.Number(5)),
	})
	result, has := DetectInfinite(ds)
	if !has {
		t.Fatal("Expected negative infinity to be flagged")
	}
	stats, _ := result.Get("x")
	if stats.Count != 1 {
		t.Errorf("Expected count 1, got %d", stats.Count)
	}
}

func TestDetectInfinite_NaNIsNotInfinite(t *testing.T) {
	ds := table.FromRecords([]table.Record{
		rec("x", table.Number(math.NaN())),
		rec("x", table.Number(1)),
	})
	result, has := DetectInfinite(ds)
	if has || result.Len() != 0 {
		t.Errorf("Expected NaN to be ignored by the detector, got %d columns", result.Len())
	}
}

func TestDetectInfinite_TextInfinityIsNotCounted(t *testing.T) {
	ds := table.FromRecords([]table.Record{
		rec("x", table.Text("Infinity")),
		rec("x", table.Number(1)),
	})
	_, has := DetectInfinite(ds)
	if has {
		t.Error("Expected the literal string Infinity to be ignored")
	}
}

func TestDetectDuplicates(t *testing.T) {
	ds := table.FromRecords([]table.Record{
		rec("c", table.Text("a"), "u", table.Number(1)),
		rec("c", table.Text("a"), "u", table.Number(2)),
		rec("c", table.Text("b"), "u", table.Number(3)),
	})
	result := DetectDuplicates(ds)
	if result.Len() != 1 {
		t.Fatalf("Expected 1 column with duplicates, got %d", result.Len())
	}
	stats, ok := result.Get("c")
	if !ok {
		t.Fatal("Expected column c to be reported")
	}
	if stats.DuplicateCount != 1 {
		t.Errorf("Expected duplicateCount 1, got %d", stats.DuplicateCount)
	}
	if stats.TotalValues != 3 || stats.UniqueValues != 2 {
		t.Errorf("Expected total 3 unique 2, got %d %d", stats.TotalValues, stats.UniqueValues)
	}
	if stats.DuplicatePercentage.String() != "33.3" {
		t.Errorf("Expected 33.3, got %s", stats.DuplicatePercentage.String())
	}
	if len(stats.TopDuplicates) != 1 || stats.TopDuplicates[0].Value != "a" || stats.TopDuplicates[0].Count != 2 {
		t.Errorf("Expected topDuplicates [{a 2}], got %+v", stats.TopDuplicates)
	}
}

func TestDetectDuplicates_SkipsMissing(t *testing.T) {
	ds := table.FromRecords([]table.Record{
		rec("c", table.Null()),
		rec("c", table.Text("")),
		rec("c", table.Null()),
		rec("c", table.Text("x")),
	})
	result := DetectDuplicates(ds)
	// Null and empty string are missing, not values, so nothing repeats.
	if result.Len() != 0 {
		t.Errorf("Expected no duplicate columns, got %d", result.Len())
	}
}

func TestDetectDuplicates_NumberAndTextShareBucket(t *testing.T) {
	ds := table.FromRecords([]table.Record{
		rec("c", table.Number(1)),
		rec("c", table.Text("1")),
		rec("c", table.Text("2")),
	})
	result := DetectDuplicates(ds)
	stats, ok := result.Get("c")
	if !ok {
		t.Fatal("Expected column c to be reported")
	}
	if stats.DuplicateCount != 1 {
		t.Errorf("Expected 1 and \"1\" to count as the same value, got %d", stats.DuplicateCount)
	}
}

func TestDetectDuplicates_TieBreakFirstSeen(t *testing.T) {
	ds := table.FromRecords([]table.Record{
		rec("c", table.Text("beta")),
		rec("c", table.Text("beta")),
		rec("c", table.Text("alpha")),
		rec("c", table.Text("alpha")),
	})
	result := DetectDuplicates(ds)
	stats, _ := result.Get("c")
	if len(stats.TopDuplicates) != 2 {
		t.Fatalf("Expected 2 duplicated values, got %d", len(stats.TopDuplicates))
	}
	// Both occur twice; beta appeared first so it stays first.
	if stats.TopDuplicates[0].Value != "beta" || stats.TopDuplicates[1].Value != "alpha" {
		t.Errorf("Expected first-seen order [beta alpha], got %+v", stats.TopDuplicates)
	}
}

func TestDetectDuplicates_CapsAtFiveAndTruncates(t *testing.T) {
	long := strings.Repeat("x", 40)
	records := []table.Record{
		rec("c", table.Text(long)),
		rec("c", table.Text(long)),
		rec("c", table.Text(long)),
	}
	for _, v := range []string{"a", "b", "c", "d", "e", "f"} {
		records = append(records,
			rec("c", table.Text(v)),
			rec("c", table.Text(v)),
		)
	}
	ds := table.FromRecords(records)
	result := DetectDuplicates(ds)
	stats, _ := result.Get("c")
	if len(stats.TopDuplicates) != 5 {
		t.Fatalf("Expected top list capped at 5, got %d", len(stats.TopDuplicates))
	}
	// The 40-char value is the most frequent, so it ranks first and
	// arrives cut to 30 characters.
	if stats.TopDuplicates[0].Count != 3 {
		t.Errorf("Expected most frequent value first, got %+v", stats.TopDuplicates[0])
	}
	if got := stats.TopDuplicates[0].Value; got != strings.Repeat("x", 30) {
		t.Errorf("Expected label truncated to 30 chars, got %q", got)
	}
}
