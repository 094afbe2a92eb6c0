// Package profile defines the value objects produced by dataset analysis:
// per-column classifications and statistics, pairwise correlations, and
// the data-quality findings assembled into an AnalysisResult. Everything
// here is a plain value computed fresh per analysis call; nothing is
// cached or mutated after construction.
package profile

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ColumnType classifies a column by the shape of its non-missing values
type ColumnType string

const (
	TypeEmpty       ColumnType = "empty"
	TypeNumeric     ColumnType = "numeric"
	TypeDatetime    ColumnType = "datetime"
	TypeCategorical ColumnType = "categorical"
	TypeText        ColumnType = "text"
)

// Percent is a ratio in [0,100]. It keeps full float precision in memory
// and marshals as a 1-decimal string ("33.3"), the format downstream
// consumers of the serialized result were built against.
type Percent float64

// Value returns the full-precision float
func (p Percent) Value() float64 {
	return float64(p)
}

// String renders the display form
func (p Percent) String() string {
	return fmt.Sprintf("%.1f", float64(p))
}

// MarshalJSON writes the 1-decimal string form
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(p.String())), nil
}

// UnmarshalJSON accepts both the string form and a bare number
func (p *Percent) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) > 0 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid percent %q: %w", s, err)
	}
	*p = Percent(v)
	return nil
}

// NumericStats summarizes a numeric column's finite values. All moments
// use population formulas (divide by n); median and quartiles are the
// sorted-slice index reads v[n/2], v[n/4], v[3n/4] with the upper middle
// taken on even lengths, never an average of the two.
type NumericStats struct {
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Median       float64 `json:"median"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Std          float64 `json:"std"`
	Q1           float64 `json:"q1"`
	Q3           float64 `json:"q3"`
	IQR          float64 `json:"iqr"`
	OutlierCount int     `json:"outlierCount"`
	Skewness     float64 `json:"skewness"`
}

// MarshalJSON rounds the moment fields to 2 decimals for display while
// the in-memory struct keeps full precision.
func (s NumericStats) MarshalJSON() ([]byte, error) {
	type alias NumericStats
	rounded := alias{
		Count:        s.Count,
		Mean:         round2(s.Mean),
		Median:       round2(s.Median),
		Min:          round2(s.Min),
		Max:          round2(s.Max),
		Std:          round2(s.Std),
		Q1:           round2(s.Q1),
		Q3:           round2(s.Q3),
		IQR:          round2(s.IQR),
		OutlierCount: s.OutlierCount,
		Skewness:     round2(s.Skewness),
	}
	return json.Marshal(rounded)
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// ValueCount is a (value, count) frequency entry. Value is the cell's
// canonical label, possibly truncated for display.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnAnalysis is the per-column slice of an AnalysisResult
type ColumnAnalysis struct {
	Type           ColumnType    `json:"type"`
	MissingCount   int           `json:"missingCount"`
	MissingPercent Percent       `json:"missingPercent"`
	UniqueCount    int           `json:"uniqueCount"`
	Stats          *NumericStats `json:"stats,omitempty"`
	TopValues      []ValueCount  `json:"topValues,omitempty"`
}

// Correlation is the Pearson coefficient for one unordered column pair.
// Exactly one entry exists per pair; (A,B) and (B,A) are the same entry.
type Correlation struct {
	ColumnA     string  `json:"columnA"`
	ColumnB     string  `json:"columnB"`
	Coefficient float64 `json:"coefficient"`
}

// InfiniteStats reports ±Inf occurrences in one column
type InfiniteStats struct {
	Count      int     `json:"count"`
	Percentage Percent `json:"percentage"`
}

// DuplicateStats reports repeated values in one column
type DuplicateStats struct {
	DuplicateCount      int          `json:"duplicateCount"`
	DuplicatePercentage Percent      `json:"duplicatePercentage"`
	TotalValues         int          `json:"totalValues"`
	UniqueValues        int          `json:"uniqueValues"`
	TopDuplicates       []ValueCount `json:"topDuplicates"`
}

// AnalysisResult is the full profile of one dataset. Column-keyed maps
// iterate and marshal in dataset column order.
type AnalysisResult struct {
	RowCount           int                         `json:"rowCount"`
	ColumnCount        int                         `json:"columnCount"`
	Columns            *OrderedMap[ColumnAnalysis] `json:"columns"`
	Correlations       []Correlation               `json:"correlations"`
	NumericColumns     []string                    `json:"numericColumns"`
	CategoricalColumns []string                    `json:"categoricalColumns"`
	DateColumns        []string                    `json:"dateColumns"`
	InfiniteValueStats *OrderedMap[InfiniteStats]  `json:"infiniteValueStats"`
	HasInfiniteValues  bool                        `json:"hasInfiniteValues"`
	DuplicateStats     *OrderedMap[DuplicateStats] `json:"duplicateStats"`
}

// NewAnalysisResult creates a result with initialized containers
func NewAnalysisResult(rowCount, columnCount int) *AnalysisResult {
	return &AnalysisResult{
		RowCount:           rowCount,
		ColumnCount:        columnCount,
		Columns:            NewOrderedMap[ColumnAnalysis](),
		Correlations:       []Correlation{},
		NumericColumns:     []string{},
		CategoricalColumns: []string{},
		DateColumns:        []string{},
		InfiniteValueStats: NewOrderedMap[InfiniteStats](),
		DuplicateStats:     NewOrderedMap[DuplicateStats](),
	}
}

// Column returns the analysis for one column
func (r *AnalysisResult) Column(name string) (ColumnAnalysis, bool) {
	return r.Columns.Get(name)
}

// TypeOf returns the inferred type for one column, TypeEmpty when the
// column is unknown to the analysis.
func (r *AnalysisResult) TypeOf(name string) ColumnType {
	if col, ok := r.Columns.Get(name); ok {
		return col.Type
	}
	return TypeEmpty
}

// IsNumeric reports whether the analysis classified the column numeric
func (r *AnalysisResult) IsNumeric(name string) bool {
	return r.TypeOf(name) == TypeNumeric
}

// IsCategorical reports whether the analysis classified the column
// categorical
func (r *AnalysisResult) IsCategorical(name string) bool {
	return r.TypeOf(name) == TypeCategorical
}
