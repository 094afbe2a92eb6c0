package report

import (
	"strings"
	"testing"

	"tabprep/domain/profile"
)

func fixtureResult() *profile.AnalysisResult {
	res := profile.NewAnalysisResult(100, 2)
	res.Columns.Set("amount", profile.ColumnAnalysis{
		Type:           profile.TypeNumeric,
		MissingCount:   5,
		MissingPercent: profile.Percent(5.0),
		UniqueCount:    80,
		Stats: &profile.NumericStats{
			Count: 95, Mean: 12.345, Median: 11, Min: 1, Max: 100,
			Std: 4.2, Q1: 8, Q3: 16, IQR: 8, OutlierCount: 3, Skewness: 0.7,
		},
	})
	res.Columns.Set("color", profile.ColumnAnalysis{
		Type:           profile.TypeCategorical,
		MissingCount:   0,
		MissingPercent: profile.Percent(0),
		UniqueCount:    3,
		TopValues: []profile.ValueCount{
			{Value: "red", Count: 60},
			{Value: "blue", Count: 40},
		},
	})
	res.NumericColumns = []string{"amount"}
	res.CategoricalColumns = []string{"color"}
	res.Correlations = []profile.Correlation{
		{ColumnA: "amount", ColumnB: "total", Coefficient: 0.9123},
	}
	res.InfiniteValueStats.Set("amount", profile.InfiniteStats{Count: 2, Percentage: profile.Percent(2)})
	res.HasInfiniteValues = true
	res.DuplicateStats.Set("color", profile.DuplicateStats{
		DuplicateCount:      97,
		DuplicatePercentage: profile.Percent(97),
		TotalValues:         100,
		UniqueValues:        3,
		TopDuplicates:       []profile.ValueCount{{Value: "red", Count: 60}},
	})
	return res
}

func TestMarkdown_ContainsAllSections(t *testing.T) {
	md := Markdown("orders", fixtureResult())

	for _, want := range []string{
		"# Data Profile: orders",
		"## Overview",
		"- Rows: 100",
		"## Columns",
		"| amount | numeric | 5 (5.0%) | 80 |",
		"## Numeric Statistics",
		"| amount | 12.35 | 11.00 |",
		"## Top Values",
		"**color**: red (60), blue (40)",
		"## Correlations",
		"| amount | total | 0.9123 |",
		"### Infinite Values",
		"**amount**: 2 values (2.0%)",
		"### Duplicates",
		`"red" appears 60 times`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q\n---\n%s", want, md)
		}
	}
}

func TestMarkdown_SkipsEmptySections(t *testing.T) {
	res := profile.NewAnalysisResult(10, 1)
	res.Columns.Set("note", profile.ColumnAnalysis{
		Type:           profile.TypeText,
		MissingPercent: profile.Percent(0),
		UniqueCount:    10,
	})

	md := Markdown("notes", res)

	for _, absent := range []string{"## Numeric Statistics", "## Correlations", "## Data Quality", "## Top Values"} {
		if strings.Contains(md, absent) {
			t.Errorf("Expected markdown without %q for a text-only profile", absent)
		}
	}
}

func TestText_SummarizesProfile(t *testing.T) {
	out := Text("orders", fixtureResult())

	for _, want := range []string{
		"Profile: orders (100 rows, 2 columns)",
		"amount",
		"numeric",
		"mean 12.35",
		"amount ~ total: 0.9123",
		"1 column(s) contain infinite values",
		"1 column(s) contain duplicate values",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected text summary to contain %q\n---\n%s", want, out)
		}
	}
}

func TestHTML_RendersCompletePage(t *testing.T) {
	page := string(HTML("orders", fixtureResult()))

	for _, want := range []string{
		"<html", "</html>",
		"<title>Data Profile: orders</title>",
		"<table>",
		"amount",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("Expected HTML page to contain %q", want)
		}
	}
}
