package analysis

import (
	"sort"

	"tabprep/domain/profile"
	"tabprep/domain/table"
)

const (
	maxTopDuplicates    = 5
	duplicateLabelRunes = 30
)

// DetectInfinite scans every column for infinite numeric values. Only
// true infinities count here; NaN is not reported even though the
// sanitizer removes it. The returned map holds an entry per affected
// column, in column order, with the share computed against the full row
// count. The bool reports whether any column was affected.
func DetectInfinite(ds table.Dataset) (*profile.OrderedMap[profile.InfiniteStats], bool) {
	result := profile.NewOrderedMap[profile.InfiniteStats]()
	rows := ds.Len()
	for _, col := range ds.Columns() {
		count := 0
		for _, c := range ds.ColumnCells(col) {
			if c.IsInfinite() {
				count++
			}
		}
		if count > 0 {
			result.Set(col, profile.InfiniteStats{
				Count:      count,
				Percentage: profile.Percent(float64(count) / float64(rows) * 100),
			})
		}
	}
	return result, result.Len() > 0
}

// DetectDuplicates reports, per column, how many non-missing values are
// repeats of an earlier value in that column (total minus distinct).
// Columns without repeats are omitted. Numbers and their textual form
// share a bucket: 1 and "1" are the same value here.
func DetectDuplicates(ds table.Dataset) *profile.OrderedMap[profile.DuplicateStats] {
	result := profile.NewOrderedMap[profile.DuplicateStats]()
	for _, col := range ds.Columns() {
		freq := profile.NewOrderedMap[int]()
		total := 0
		for _, c := range ds.ColumnCells(col) {
			if c.IsMissing() {
				continue
			}
			label := c.Label()
			n, _ := freq.Get(label)
			freq.Set(label, n+1)
			total++
		}

		dupCount := total - freq.Len()
		if dupCount <= 0 {
			continue
		}

		result.Set(col, profile.DuplicateStats{
			DuplicateCount:      dupCount,
			DuplicatePercentage: profile.Percent(float64(dupCount) / float64(total) * 100),
			TotalValues:         total,
			UniqueValues:        freq.Len(),
			TopDuplicates:       topDuplicates(freq),
		})
	}
	return result
}

// topDuplicates lists the values that occur at least twice, most
// frequent first, capped at five. Ties keep first-seen order, and long
// labels are cut to a display width.
func topDuplicates(freq *profile.OrderedMap[int]) []profile.ValueCount {
	entries := make([]profile.ValueCount, 0, freq.Len())
	for _, label := range freq.Keys() {
		count, _ := freq.Get(label)
		if count < 2 {
			continue
		}
		entries = append(entries, profile.ValueCount{
			Value: truncateLabel(label, duplicateLabelRunes),
			Count: count,
		})
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Count > entries[b].Count
	})
	if len(entries) > maxTopDuplicates {
		entries = entries[:maxTopDuplicates]
	}
	return entries
}

func truncateLabel(label string, limit int) string {
	runes := []rune(label)
	if len(runes) <= limit {
		return label
	}
	return string(runes[:limit])
}
