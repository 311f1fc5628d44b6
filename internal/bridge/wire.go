// Package bridge talks to the pose engine running outside this process.
//
// Requests and responses are JSON objects, one per line on a process's stdio
// or one per HTTP POST:
//
//	{"id":"…","op":"createDetector","args":["BlazePose",{"runtime":"tfjs"}]}
//	{"id":"…","op":"invoke","target":{"$ref":"d1"},"method":"estimatePoses","args":[…]}
//	{"id":"…","result":[…]}
//	{"id":"…","error":{"kind":"methodNotFound","message":"…"}}
//
// Engine objects travel as {"$ref":"<id>"}, the utility namespace is the
// target "util", and undefined travels as {"$undefined":true}. Object keys
// keep their order in both directions.
package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ayusman/posebridge/internal/dynamic"
)

// Operations.
const (
	OpCreateDetector = "createDetector"
	OpInvoke         = "invoke"
)

// Error kinds reported by the engine.
const (
	KindMethodNotFound = "methodNotFound"
	KindException      = "exception"
)

const (
	refKey       = "$ref"
	undefinedKey = "$undefined"
)

// Request is a single call to the engine.
type Request struct {
	ID     string            `json:"id"`
	Op     string            `json:"op"`
	Target json.RawMessage   `json:"target,omitempty"`
	Method string            `json:"method,omitempty"`
	Args   []json.RawMessage `json:"args"`
}

// Response is the engine's answer to the Request with the same ID.
type Response struct {
	ID     string          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RemoteError    `json:"error,omitempty"`
}

// RemoteError is a failure reported by the engine.
type RemoteError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("engine %s: %s", e.Kind, e.Message)
}

// Unwrap maps methodNotFound to dynamic.ErrMethodNotFound.
func (e *RemoteError) Unwrap() error {
	if e.Kind == KindMethodNotFound {
		return dynamic.ErrMethodNotFound
	}
	return nil
}

// Ref is an opaque reference to an object living in the engine.
type Ref string

// Namespace is a fixed engine namespace such as "util".
type Namespace string

// encodeValue writes v in wire form.
func encodeValue(v dynamic.Value) (json.RawMessage, error) {
	if dynamic.IsUndefined(v) {
		return json.RawMessage(`{"` + undefinedKey + `":true}`), nil
	}

	switch t := v.(type) {
	case Ref:
		return json.Marshal(map[string]string{refKey: string(t)})
	case *dynamic.Record:
		var buf bytes.Buffer
		buf.WriteByte('{')
		first := true
		var err error
		t.Range(func(k string, item dynamic.Value) bool {
			if dynamic.IsUndefined(item) {
				return true
			}
			var kb, vb []byte
			if kb, err = json.Marshal(k); err != nil {
				return false
			}
			if vb, err = encodeValue(item); err != nil {
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
	case []dynamic.Value:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return b, nil
}

func encodeArgs(args []dynamic.Value) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(args))
	for i, a := range args {
		b, err := encodeValue(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// decodeValue reads a wire value. Objects become *dynamic.Record with their
// key order kept, numbers become float64, and markers become Ref or Undefined.
// Empty input decodes to Undefined.
func decodeValue(data []byte) (dynamic.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return dynamic.Undefined, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return v, nil
}

func readValue(dec *json.Decoder) (dynamic.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			rec := dynamic.NewRecord()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", keyTok)
				}
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				rec.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return unmarker(rec), nil
		case '[':
			items := []dynamic.Value{}
			for dec.More() {
				v, err := readValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return items, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case json.Number:
		return t.Float64()
	}
	return tok, nil
}

func unmarker(rec *dynamic.Record) dynamic.Value {
	if rec.Len() != 1 {
		return rec
	}
	if v, ok := rec.Get(refKey); ok {
		if id, ok := v.(string); ok {
			return Ref(id)
		}
	}
	if v, ok := rec.Get(undefinedKey); ok && v == true {
		return dynamic.Undefined
	}
	return rec
}
