package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an insertion-ordered mapping from column name to Cell. The
// pipeline's tie-break rules (mode fill, duplicate ranking, encoding order)
// all depend on deterministic first-seen iteration, so a bare Go map is
// never used for row data.
type Record struct {
	keys  []string
	cells map[string]Cell
}

// NewRecord creates an empty record
func NewRecord() Record {
	return Record{cells: make(map[string]Cell)}
}

// NewRecordSize creates an empty record pre-sized for n columns
func NewRecordSize(n int) Record {
	return Record{
		keys:  make([]string, 0, n),
		cells: make(map[string]Cell, n),
	}
}

// Set stores a cell under name. A new name is appended to the key order;
// an existing name keeps its original position and only the value changes.
func (r *Record) Set(name string, c Cell) {
	if r.cells == nil {
		r.cells = make(map[string]Cell)
	}
	if _, exists := r.cells[name]; !exists {
		r.keys = append(r.keys, name)
	}
	r.cells[name] = c
}

// Get returns the cell stored under name
func (r Record) Get(name string) (Cell, bool) {
	c, ok := r.cells[name]
	return c, ok
}

// Value returns the cell under name, or Null when the key is absent.
// Records later in a dataset may lack keys the first record had; those
// read as missing.
func (r Record) Value(name string) Cell {
	if c, ok := r.cells[name]; ok {
		return c
	}
	return Null()
}

// Has reports whether the record carries the column
func (r Record) Has(name string) bool {
	_, ok := r.cells[name]
	return ok
}

// Len returns the number of columns in the record
func (r Record) Len() int {
	return len(r.keys)
}

// Columns returns the column names in insertion order
func (r Record) Columns() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Clone returns an independent copy with the same key order
func (r Record) Clone() Record {
	out := NewRecordSize(len(r.keys))
	for _, k := range r.keys {
		out.Set(k, r.cells[k])
	}
	return out
}

// MarshalJSON writes the record as a JSON object with keys in insertion
// order. encoding/json would sort map keys, which breaks every first-seen
// tie-break downstream.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		cellJSON, err := json.Marshal(r.cells[k])
		if err != nil {
			return nil, err
		}
		buf.Write(cellJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object preserving its key order via the
// token stream; a plain map round-trip would lose it.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record must be a JSON object, got %v", tok)
	}

	*r = NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("record key must be a string, got %v", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var c Cell
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("column %q: %w", key, err)
		}
		r.Set(key, c)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
