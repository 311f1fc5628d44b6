// Package dynamic defines the loosely-typed value format exchanged with the pose engine.
package dynamic

import (
	"bytes"
	"encoding/json"
)

// Value is any value that can cross the engine boundary: nil, bool, string, numbers,
// []Value, *Record, Undefined, or an opaque engine handle.
type Value = any

type undefined struct{}

// Undefined is the explicit "no value" marker. The engine treats it as "use defaults",
// which is different from an empty record.
var Undefined Value = undefined{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v Value) bool {
	_, ok := v.(undefined)
	return ok
}

// Record is an ordered mapping from string keys to dynamic values.
// The zero value is an empty record ready to use.
type Record struct {
	keys   []string
	values map[string]Value
}

// NewRecord creates an empty Record.
func NewRecord() *Record {
	return &Record{values: make(map[string]Value)}
}

// Set stores v under key. Setting an existing key replaces its value but keeps
// the key at its original position.
func (r *Record) Set(key string, v Value) {
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (Value, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Has reports whether key is present.
func (r *Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

// Len returns the number of keys.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// Range calls fn for every entry in order until fn returns false.
func (r *Record) Range(fn func(key string, v Value) bool) {
	if r == nil {
		return
	}
	for _, k := range r.keys {
		if !fn(k, r.values[k]) {
			return
		}
	}
}

// Assign copies every entry of src into r. Keys already present in r take the
// value from src.
func (r *Record) Assign(src *Record) {
	src.Range(func(k string, v Value) bool {
		r.Set(k, v)
		return true
	})
}

// MarshalJSON writes the record as a JSON object with keys in insertion order.
// Undefined entries are skipped.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	r.Range(func(k string, v Value) bool {
		if IsUndefined(v) {
			return true
		}
		var kb, vb []byte
		if kb, err = json.Marshal(k); err != nil {
			return false
		}
		if vb, err = json.Marshal(v); err != nil {
			return false
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
