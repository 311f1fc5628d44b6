package detector

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/posebridge/internal/dynamic"
	"github.com/ayusman/posebridge/internal/logger"
	"github.com/ayusman/posebridge/internal/model"
	"github.com/ayusman/posebridge/internal/pose"
)

// Handle is a live detector inside the engine. It may be shared between
// goroutines; calls are forwarded to the engine, which decides how they
// interleave. The engine-side dispose runs at most once per Handle.
type Handle struct {
	engine   Engine
	model    string
	value    dynamic.Value
	disposed atomic.Bool
}

var _ Detector = (*Handle)(nil)

func newHandle(engine Engine, modelName string, value dynamic.Value) *Handle {
	return &Handle{
		engine: engine,
		model:  modelName,
		value:  value,
	}
}

// Model returns the name of the model the detector runs.
func (h *Handle) Model() string {
	return h.model
}

// Disposed reports whether Dispose has been called.
func (h *Handle) Disposed() bool {
	return h.disposed.Load()
}

// Estimate encodes config, calls estimatePoses on the engine with
// (input, config, timestamp) and decodes the result. timestamp is sent in
// whole milliseconds; nil sends undefined.
func (h *Handle) Estimate(ctx context.Context, input dynamic.Value, config model.EstimationConfig, timestamp *time.Duration) ([]pose.Pose, error) {
	if h.disposed.Load() {
		return nil, &EstimationError{Kind: InvocationFailed, Err: ErrDisposed}
	}

	ts := dynamic.Undefined
	if timestamp != nil {
		ts = timestamp.Milliseconds()
	}

	raw, err := h.engine.Invoke(ctx, h.value, methodEstimatePoses, input, model.EncodeEstimationConfig(config), ts)
	if err != nil {
		kind := InvocationFailed
		if errors.Is(err, dynamic.ErrMethodNotFound) {
			kind = MethodMissing
		}
		return nil, &EstimationError{Kind: kind, Err: err}
	}

	raw, err = dynamic.Resolve(ctx, raw)
	if err != nil {
		return nil, &EstimationError{Kind: InvocationFailed, Err: err}
	}

	poses, err := pose.Decode(raw)
	if err != nil {
		return nil, &EstimationError{Kind: DecodeFailed, Err: err}
	}
	return poses, nil
}

// Reset calls reset on the engine. A failed reset leaves the detector usable.
func (h *Handle) Reset() error {
	if h.disposed.Load() {
		return fmt.Errorf("reset %s detector: %w", h.model, ErrDisposed)
	}
	if _, err := h.engine.Invoke(context.Background(), h.value, methodReset); err != nil {
		logger.Log().Warn("detector reset failed", zap.String("model", h.model), zap.Error(err))
		return fmt.Errorf("reset %s detector: %w", h.model, err)
	}
	return nil
}

// Dispose calls dispose on the engine the first time it is called and does
// nothing afterwards. The detector counts as disposed even if the engine
// call fails; the failure is returned and not retried.
func (h *Handle) Dispose() error {
	if !h.disposed.CompareAndSwap(false, true) {
		return nil
	}
	if _, err := h.engine.Invoke(context.Background(), h.value, methodDispose); err != nil {
		logger.Log().Warn("detector dispose failed", zap.String("model", h.model), zap.Error(err))
		return fmt.Errorf("dispose %s detector: %w", h.model, err)
	}
	logger.Log().Debug("detector disposed", zap.String("model", h.model))
	return nil
}

// Close is Dispose, so a Handle can be released with defer h.Close().
func (h *Handle) Close() error {
	return h.Dispose()
}
