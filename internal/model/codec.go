package model

import (
	"reflect"

	"github.com/ayusman/posebridge/internal/dynamic"
)

// variant is implemented by tagged-union members that are flattened into their
// parent record. discriminant returns the key and value that name the member.
type variant interface {
	discriminant() (key, value string)
}

// EncodeModelConfig encodes the configuration carried by m. A model without a
// configuration encodes to dynamic.Undefined.
func EncodeModelConfig(m Model) dynamic.Value {
	if m == nil {
		return dynamic.Undefined
	}
	rv := reflect.ValueOf(m.config())
	if !rv.IsValid() || rv.IsNil() {
		return dynamic.Undefined
	}
	return encodeStruct(rv.Elem())
}

// EncodeEstimationConfig encodes a per-call configuration. A nil configuration
// encodes to dynamic.Undefined.
func EncodeEstimationConfig(c EstimationConfig) dynamic.Value {
	if c == nil {
		return dynamic.Undefined
	}
	rv := reflect.Indirect(reflect.ValueOf(c))
	if !rv.IsValid() {
		return dynamic.Undefined
	}
	return encodeStruct(rv)
}

// Describe encodes the model identity together with its configuration:
// {"model": name, "modelConfig": {...}}. modelConfig is omitted without a configuration.
func Describe(m Model) *dynamic.Record {
	rec := dynamic.NewRecord()
	if m == nil {
		return rec
	}
	rec.Set("model", m.Name())
	if cfg := EncodeModelConfig(m); !dynamic.IsUndefined(cfg) {
		rec.Set("modelConfig", cfg)
	}
	return rec
}

// encodeStruct writes every exported field of rv under its ExternalKey.
// Unset optional fields are left out, embedded structs are inlined, and variant
// fields are merged in after the direct fields.
func encodeStruct(rv reflect.Value) *dynamic.Record {
	rec := dynamic.NewRecord()
	t := rv.Type()

	var variants []variant
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := rv.Field(i)

		if f.Anonymous && fv.Kind() == reflect.Struct {
			rec.Assign(encodeStruct(fv))
			continue
		}
		if fv.Kind() == reflect.Interface && !fv.IsNil() {
			if e := fv.Elem(); e.Kind() == reflect.Pointer && e.IsNil() {
				continue
			}
			if v, ok := fv.Interface().(variant); ok {
				variants = append(variants, v)
				continue
			}
		}

		if val, ok := encodeValue(fv); ok {
			rec.Set(ExternalKey(f.Name), val)
		}
	}

	for _, v := range variants {
		mergeVariant(rec, v)
	}
	return rec
}

// mergeVariant flattens the active member of a tagged union into dst and adds
// its discriminant. Keys from the member replace keys already in dst.
func mergeVariant(dst *dynamic.Record, v variant) {
	if rv := reflect.Indirect(reflect.ValueOf(v)); rv.Kind() == reflect.Struct {
		dst.Assign(encodeStruct(rv))
	}
	key, name := v.discriminant()
	dst.Set(key, name)
}

// encodeValue converts a single field value. The boolean is false when the
// value is absent and must be omitted.
func encodeValue(rv reflect.Value) (dynamic.Value, bool) {
	switch rv.Kind() {
	case reflect.Invalid:
		return nil, false
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, false
		}
		return encodeValue(rv.Elem())
	case reflect.Struct:
		return encodeStruct(rv), true
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, false
		}
		out := make([]dynamic.Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, ok := encodeValue(rv.Index(i))
			if !ok {
				v = nil
			}
			out = append(out, v)
		}
		return out, true
	case reflect.Bool:
		return rv.Bool(), true
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return nil, false
}
