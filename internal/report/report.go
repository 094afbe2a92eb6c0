// Package report renders an analysis result as a markdown document, a
// plain-text summary for terminals, or a standalone HTML page.
package report

import (
	"fmt"
	"strings"

	"tabprep/domain/profile"
)

// Markdown renders the full profile report
func Markdown(name string, res *profile.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# Data Profile: %s\n\n", name))
	writeOverview(&b, res)
	writeColumns(&b, res)
	writeNumericStats(&b, res)
	writeTopValues(&b, res)
	writeCorrelations(&b, res)
	writeQuality(&b, res)

	return b.String()
}

func writeOverview(b *strings.Builder, res *profile.AnalysisResult) {
	b.WriteString("## Overview\n\n")
	b.WriteString(fmt.Sprintf("- Rows: %d\n", res.RowCount))
	b.WriteString(fmt.Sprintf("- Columns: %d\n", res.ColumnCount))
	b.WriteString(fmt.Sprintf("- Numeric: %d, Categorical: %d, Datetime: %d\n\n",
		len(res.NumericColumns), len(res.CategoricalColumns), len(res.DateColumns)))
}

func writeColumns(b *strings.Builder, res *profile.AnalysisResult) {
	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Type | Missing | Unique |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, name := range res.Columns.Keys() {
		col, _ := res.Columns.Get(name)
		b.WriteString(fmt.Sprintf("| %s | %s | %d (%s%%) | %d |\n",
			name, col.Type, col.MissingCount, col.MissingPercent, col.UniqueCount))
	}
	b.WriteString("\n")
}

func writeNumericStats(b *strings.Builder, res *profile.AnalysisResult) {
	if len(res.NumericColumns) == 0 {
		return
	}
	b.WriteString("## Numeric Statistics\n\n")
	b.WriteString("| Column | Mean | Median | Std | Min | Max | Q1 | Q3 | Outliers | Skewness |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|\n")
	for _, name := range res.NumericColumns {
		col, ok := res.Columns.Get(name)
		if !ok || col.Stats == nil {
			continue
		}
		s := col.Stats
		b.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %d | %.2f |\n",
			name, s.Mean, s.Median, s.Std, s.Min, s.Max, s.Q1, s.Q3, s.OutlierCount, s.Skewness))
	}
	b.WriteString("\n")
}

func writeTopValues(b *strings.Builder, res *profile.AnalysisResult) {
	wrote := false
	for _, name := range res.CategoricalColumns {
		col, ok := res.Columns.Get(name)
		if !ok || len(col.TopValues) == 0 {
			continue
		}
		if !wrote {
			b.WriteString("## Top Values\n\n")
			wrote = true
		}
		parts := make([]string, len(col.TopValues))
		for i, vc := range col.TopValues {
			parts[i] = fmt.Sprintf("%s (%d)", vc.Value, vc.Count)
		}
		b.WriteString(fmt.Sprintf("- **%s**: %s\n", name, strings.Join(parts, ", ")))
	}
	if wrote {
		b.WriteString("\n")
	}
}

func writeCorrelations(b *strings.Builder, res *profile.AnalysisResult) {
	if len(res.Correlations) == 0 {
		return
	}
	b.WriteString("## Correlations\n\n")
	b.WriteString("| Column A | Column B | Coefficient |\n")
	b.WriteString("|---|---|---|\n")
	for _, c := range res.Correlations {
		b.WriteString(fmt.Sprintf("| %s | %s | %.4f |\n", c.ColumnA, c.ColumnB, c.Coefficient))
	}
	b.WriteString("\n")
}

func writeQuality(b *strings.Builder, res *profile.AnalysisResult) {
	if !res.HasInfiniteValues && res.DuplicateStats.Len() == 0 {
		return
	}
	b.WriteString("## Data Quality\n\n")

	if res.HasInfiniteValues {
		b.WriteString("### Infinite Values\n\n")
		for _, name := range res.InfiniteValueStats.Keys() {
			inf, _ := res.InfiniteValueStats.Get(name)
			b.WriteString(fmt.Sprintf("- **%s**: %d values (%s%%)\n", name, inf.Count, inf.Percentage))
		}
		b.WriteString("\n")
	}

	if res.DuplicateStats.Len() > 0 {
		b.WriteString("### Duplicates\n\n")
		for _, name := range res.DuplicateStats.Keys() {
			dup, _ := res.DuplicateStats.Get(name)
			b.WriteString(fmt.Sprintf("- **%s**: %d duplicates (%s%%) across %d values, %d unique\n",
				name, dup.DuplicateCount, dup.DuplicatePercentage, dup.TotalValues, dup.UniqueValues))
			for _, vc := range dup.TopDuplicates {
				b.WriteString(fmt.Sprintf("  - %q appears %d times\n", vc.Value, vc.Count))
			}
		}
		b.WriteString("\n")
	}
}

// Text renders a compact profile summary for terminal output
func Text(name string, res *profile.AnalysisResult) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Profile: %s (%d rows, %d columns)\n", name, res.RowCount, res.ColumnCount))
	for _, colName := range res.Columns.Keys() {
		col, _ := res.Columns.Get(colName)
		line := fmt.Sprintf("  %-20s %-12s missing %d (%s%%), unique %d",
			colName, col.Type, col.MissingCount, col.MissingPercent, col.UniqueCount)
		if col.Stats != nil {
			line += fmt.Sprintf(", mean %.2f, std %.2f", col.Stats.Mean, col.Stats.Std)
		}
		b.WriteString(line + "\n")
	}

	if len(res.Correlations) > 0 {
		b.WriteString("Strongest correlations:\n")
		shown := res.Correlations
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, c := range shown {
			b.WriteString(fmt.Sprintf("  %s ~ %s: %.4f\n", c.ColumnA, c.ColumnB, c.Coefficient))
		}
	}

	if res.HasInfiniteValues {
		b.WriteString(fmt.Sprintf("Warning: %d column(s) contain infinite values\n", res.InfiniteValueStats.Len()))
	}
	if res.DuplicateStats.Len() > 0 {
		b.WriteString(fmt.Sprintf("Note: %d column(s) contain duplicate values\n", res.DuplicateStats.Len()))
	}

	return b.String()
}
