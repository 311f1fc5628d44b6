package pose

import (
	"fmt"
	"math"

	"github.com/ayusman/posebridge/internal/dynamic"
)

// DecodeError reports a pose that does not match the expected shape.
// Position is the index of the offending pose, or -1 when the result as a
// whole is not a sequence.
type DecodeError struct {
	Position int
	Reason   string
}

func (e *DecodeError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("decode poses: %s", e.Reason)
	}
	return fmt.Sprintf("decode pose %d: %s", e.Position, e.Reason)
}

// Decode converts the engine result of estimatePoses into poses. Either every
// element decodes or the call fails; partial results are never returned.
func Decode(raw dynamic.Value) ([]Pose, error) {
	items, ok := raw.([]dynamic.Value)
	if !ok {
		return nil, &DecodeError{Position: -1, Reason: fmt.Sprintf("expected a sequence, got %s", typeName(raw))}
	}

	poses := make([]Pose, 0, len(items))
	for i, item := range items {
		p, err := decodePose(item)
		if err != nil {
			return nil, &DecodeError{Position: i, Reason: err.Error()}
		}
		poses = append(poses, p)
	}
	return poses, nil
}

func decodePose(v dynamic.Value) (Pose, error) {
	rec, ok := v.(*dynamic.Record)
	if !ok {
		return Pose{}, fmt.Errorf("expected a record, got %s", typeName(v))
	}

	var p Pose
	var err error

	raw, ok := lookup(rec, keyKeypoints)
	if !ok {
		return Pose{}, fmt.Errorf("%s: missing", keyKeypoints)
	}
	if p.Keypoints, err = decodeKeypoints(keyKeypoints, raw); err != nil {
		return Pose{}, err
	}

	if raw, ok := lookup(rec, keyKeypoints3D); ok {
		if p.Keypoints3D, err = decodeKeypoints(keyKeypoints3D, raw); err != nil {
			return Pose{}, err
		}
	}
	if p.Score, err = optionalNumber(rec, keyScore); err != nil {
		return Pose{}, err
	}
	if raw, ok := lookup(rec, keyBox); ok {
		box, err := decodeBox(raw)
		if err != nil {
			return Pose{}, err
		}
		p.Box = &box
	}
	if raw, ok := lookup(rec, keyID); ok {
		f, ok := toFloat(raw)
		if !ok || f != math.Trunc(f) {
			return Pose{}, fmt.Errorf("%s: expected an integer, got %v", keyID, raw)
		}
		id := int(f)
		p.ID = &id
	}
	return p, nil
}

func decodeKeypoints(field string, v dynamic.Value) ([]Keypoint, error) {
	items, ok := v.([]dynamic.Value)
	if !ok {
		return nil, fmt.Errorf("%s: expected a sequence, got %s", field, typeName(v))
	}

	kps := make([]Keypoint, 0, len(items))
	for i, item := range items {
		rec, ok := item.(*dynamic.Record)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a record, got %s", field, i, typeName(item))
		}
		kp, err := decodeKeypoint(rec)
		if err != nil {
			return nil, fmt.Errorf("%s[%d].%w", field, i, err)
		}
		kps = append(kps, kp)
	}
	return kps, nil
}

func decodeKeypoint(rec *dynamic.Record) (Keypoint, error) {
	var kp Keypoint
	var err error

	if kp.X, err = requiredNumber(rec, keyX); err != nil {
		return Keypoint{}, err
	}
	if kp.Y, err = requiredNumber(rec, keyY); err != nil {
		return Keypoint{}, err
	}
	if kp.Z, err = optionalNumber(rec, keyZ); err != nil {
		return Keypoint{}, err
	}
	if kp.Score, err = optionalNumber(rec, keyScore); err != nil {
		return Keypoint{}, err
	}
	if raw, ok := lookup(rec, keyName); ok {
		s, ok := raw.(string)
		if !ok {
			return Keypoint{}, fmt.Errorf("%s: expected a string, got %s", keyName, typeName(raw))
		}
		kp.Name = &s
	}
	return kp, nil
}

func decodeBox(v dynamic.Value) (BoundingBox, error) {
	rec, ok := v.(*dynamic.Record)
	if !ok {
		return BoundingBox{}, fmt.Errorf("%s: expected a record, got %s", keyBox, typeName(v))
	}

	var box BoundingBox
	fields := []struct {
		key string
		dst *float64
	}{
		{"xMin", &box.XMin},
		{"yMin", &box.YMin},
		{"xMax", &box.XMax},
		{"yMax", &box.YMax},
		{"width", &box.Width},
		{"height", &box.Height},
	}
	for _, f := range fields {
		n, err := requiredNumber(rec, f.key)
		if err != nil {
			return BoundingBox{}, fmt.Errorf("%s.%w", keyBox, err)
		}
		*f.dst = n
	}
	return box, nil
}

// lookup treats null and undefined entries as absent.
func lookup(rec *dynamic.Record, key string) (dynamic.Value, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil || dynamic.IsUndefined(v) {
		return nil, false
	}
	return v, true
}

func requiredNumber(rec *dynamic.Record, key string) (float64, error) {
	raw, ok := lookup(rec, key)
	if !ok {
		return 0, fmt.Errorf("%s: missing", key)
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %s", key, typeName(raw))
	}
	return f, nil
}

func optionalNumber(rec *dynamic.Record, key string) (*float64, error) {
	raw, ok := lookup(rec, key)
	if !ok {
		return nil, nil
	}
	f, ok := toFloat(raw)
	if !ok {
		return nil, fmt.Errorf("%s: expected a number, got %s", key, typeName(raw))
	}
	return &f, nil
}

func toFloat(v dynamic.Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

func typeName(v dynamic.Value) string {
	switch v.(type) {
	case nil:
		return "null"
	case *dynamic.Record:
		return "record"
	case []dynamic.Value:
		return "sequence"
	case string:
		return "string"
	case bool:
		return "bool"
	}
	if dynamic.IsUndefined(v) {
		return "undefined"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
