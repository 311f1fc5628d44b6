package detector

import (
	"context"
	"fmt"
	"math"

	"github.com/ayusman/posebridge/internal/dynamic"
	"github.com/ayusman/posebridge/internal/model"
)

// Pair is an edge of the skeleton between two keypoint indices.
type Pair struct {
	A uint32 `json:"a"`
	B uint32 `json:"b"`
}

// AdjacentPairs asks the engine for the skeleton topology of m. No detector is
// created.
func AdjacentPairs(engine Engine, m model.Model) ([]Pair, error) {
	if m == nil {
		return nil, &QueryError{Err: ErrUnsupportedModel}
	}
	name := m.Name()

	raw, err := engine.Invoke(context.Background(), engine.Util(), methodGetAdjacentPairs, model.Describe(m))
	if err != nil {
		return nil, &QueryError{Model: name, Err: err}
	}
	raw, err = dynamic.Resolve(context.Background(), raw)
	if err != nil {
		return nil, &QueryError{Model: name, Err: err}
	}

	pairs, err := decodePairs(raw)
	if err != nil {
		return nil, &QueryError{Model: name, Err: err}
	}
	return pairs, nil
}

func decodePairs(raw dynamic.Value) ([]Pair, error) {
	items, ok := raw.([]dynamic.Value)
	if !ok {
		return nil, fmt.Errorf("expected a sequence of pairs, got %T", raw)
	}

	pairs := make([]Pair, 0, len(items))
	for i, item := range items {
		ends, ok := item.([]dynamic.Value)
		if !ok || len(ends) != 2 {
			return nil, fmt.Errorf("pair %d: expected two indices, got %v", i, item)
		}
		a, okA := toIndex(ends[0])
		b, okB := toIndex(ends[1])
		if !okA || !okB {
			return nil, fmt.Errorf("pair %d: invalid indices %v", i, ends)
		}
		pairs = append(pairs, Pair{A: a, B: b})
	}
	return pairs, nil
}

func toIndex(v dynamic.Value) (uint32, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if f < 0 || f > math.MaxUint32 || f != math.Trunc(f) {
		return 0, false
	}
	return uint32(f), true
}
