package analysis

import (
	"regexp"
	"strings"

	"tabprep/domain/profile"
	"tabprep/domain/table"
)

// Classification thresholds. The numeric and datetime boundaries are
// exclusive: a column at exactly 80% numeric falls through.
const (
	numericThreshold     = 0.8
	datetimeThreshold    = 0.7
	categoricalThreshold = 0.5
)

// Date-like shapes: four-digit year-month-day (optionally followed by a
// time suffix), and D/M/YY(YY) style.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`),
}

// InferType classifies a column by scanning its non-missing values.
// First match wins: empty, numeric (> 80% parse to finite numbers),
// datetime (> 70% date-like), categorical (distinct ratio < 0.5, a tie
// at exactly 0.5 falls through), text.
//
// The function is pure and idempotent; the same value sequence always
// yields the same type.
func InferType(values []table.Cell) profile.ColumnType {
	nonNull := make([]table.Cell, 0, len(values))
	for _, c := range values {
		if !c.IsMissing() {
			nonNull = append(nonNull, c)
		}
	}
	if len(nonNull) == 0 {
		return profile.TypeEmpty
	}

	total := float64(len(nonNull))

	numericCount := 0
	for _, c := range nonNull {
		if _, ok := c.Finite(); ok {
			numericCount++
		}
	}
	if float64(numericCount)/total > numericThreshold {
		return profile.TypeNumeric
	}

	dateCount := 0
	for _, c := range nonNull {
		if looksLikeDate(c.Label()) {
			dateCount++
		}
	}
	if float64(dateCount)/total > datetimeThreshold {
		return profile.TypeDatetime
	}

	if float64(distinctCount(nonNull))/total < categoricalThreshold {
		return profile.TypeCategorical
	}

	return profile.TypeText
}

func looksLikeDate(value string) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	for _, pattern := range datePatterns {
		if pattern.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// distinctCount counts unique canonical labels among the given cells
func distinctCount(cells []table.Cell) int {
	seen := make(map[string]struct{}, len(cells))
	for _, c := range cells {
		seen[c.Label()] = struct{}{}
	}
	return len(seen)
}
