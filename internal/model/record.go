package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is an insertion-ordered mapping from field name to scalar value.
// Overwriting an existing key keeps its original position; new keys append.
// This ordering drives both spreadsheet column layout and report row order,
// so it must be stable across the whole pipeline.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{values: make(map[string]any)}
}

// Set stores a value under key. Last writer wins; first insertion fixes the
// key's position.
func (r *Record) Set(key string, value any) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether it is present
func (r *Record) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Keys returns the field names in insertion order
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields
func (r *Record) Len() int {
	return len(r.keys)
}

// Merge copies every field of other into r with overwrite semantics
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
}

// MarshalJSON encodes the record as a JSON object in insertion order
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RecordSet is the ordered flat table for one document; order = page order
type RecordSet []*Record

// ColumnOrder returns the union of all keys across the set in first-seen
// order. Missing keys render as empty cells downstream.
func (rs RecordSet) ColumnOrder() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, rec := range rs {
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	return cols
}
