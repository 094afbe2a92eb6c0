package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellKind enumerates the concrete shapes a Cell can take
type CellKind int

const (
	KindNull CellKind = iota
	KindNumber
	KindText
	KindBool
)

// String returns a human-readable kind name
func (k CellKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Cell is a single tagged value inside a Record. Every algorithm in the
// engine dispatches exhaustively on the kind tag; there is no runtime
// coercion between kinds. The zero value is Null.
type Cell struct {
	kind CellKind
	num  float64
	text string
	flag bool
}

// Null creates an absent value
func Null() Cell {
	return Cell{kind: KindNull}
}

// Number creates a numeric cell. NaN and ±Inf are representable; they are
// classified as non-finite by Finite and picked up by the quality detectors.
func Number(v float64) Cell {
	return Cell{kind: KindNumber, num: v}
}

// Text creates a string cell. An empty string counts as missing.
func Text(s string) Cell {
	return Cell{kind: KindText, text: s}
}

// Bool creates a boolean cell
func Bool(b bool) Cell {
	return Cell{kind: KindBool, flag: b}
}

// Kind returns the variant tag
func (c Cell) Kind() CellKind {
	return c.kind
}

// IsNull reports whether the cell is the Null variant
func (c Cell) IsNull() bool {
	return c.kind == KindNull
}

// IsMissing reports whether the cell counts as a missing observation:
// Null, or a Text cell holding the empty string.
func (c Cell) IsMissing() bool {
	return c.kind == KindNull || (c.kind == KindText && c.text == "")
}

// AsNumber returns the raw numeric value of a Number cell
func (c Cell) AsNumber() (float64, bool) {
	if c.kind != KindNumber {
		return 0, false
	}
	return c.num, true
}

// AsText returns the string value of a Text cell
func (c Cell) AsText() (string, bool) {
	if c.kind != KindText {
		return "", false
	}
	return c.text, true
}

// AsBool returns the value of a Bool cell
func (c Cell) AsBool() (bool, bool) {
	if c.kind != KindBool {
		return false, false
	}
	return c.flag, true
}

// Finite returns the finite numeric interpretation of the cell. Number
// cells qualify when the value is finite; Text cells qualify when the
// trimmed string parses to a finite float. Bool cells never qualify;
// true is not 1 here.
func (c Cell) Finite() (float64, bool) {
	switch c.kind {
	case KindNumber:
		if math.IsNaN(c.num) || math.IsInf(c.num, 0) {
			return 0, false
		}
		return c.num, true
	case KindText:
		v, err := strconv.ParseFloat(strings.TrimSpace(c.text), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// IsInfinite reports a Number cell holding ±Inf. NaN does not count here;
// the infinite-value detector is strictly about the two infinities.
func (c Cell) IsInfinite() bool {
	return c.kind == KindNumber && math.IsInf(c.num, 0)
}

// Label returns the canonical display string used as the frequency-map key
// for uniqueness, mode and duplicate counting. Number(1) and Text("1")
// share a bucket.
func (c Cell) Label() string {
	switch c.kind {
	case KindNumber:
		return formatNumber(c.num)
	case KindText:
		return c.text
	case KindBool:
		return strconv.FormatBool(c.flag)
	default:
		return ""
	}
}

// String implements fmt.Stringer for logs and reports
func (c Cell) String() string {
	return c.Label()
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// MarshalJSON renders the cell as the natural JSON scalar. Non-finite
// numbers have no JSON representation and degrade to null.
func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case KindNumber:
		if math.IsNaN(c.num) || math.IsInf(c.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(c.num)
	case KindText:
		return json.Marshal(c.text)
	case KindBool:
		return json.Marshal(c.flag)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the four scalar shapes; arrays and objects are
// rejected since a Cell has no nested form.
func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = Null()
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Text(s)
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*c = Bool(b)
		return nil
	case '{', '[':
		return fmt.Errorf("unsupported cell value: %s", trimmed)
	default:
		var v float64
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*c = Number(v)
		return nil
	}
}
