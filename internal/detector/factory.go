package detector

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ayusman/posebridge/internal/dynamic"
	"github.com/ayusman/posebridge/internal/logger"
	"github.com/ayusman/posebridge/internal/model"
)

// Create loads m in the engine and returns a Handle for it. It blocks until
// the engine resolves or rejects the request, or ctx is done. The adapter
// itself imposes no timeout.
func Create(ctx context.Context, engine Engine, m model.Model) (*Handle, error) {
	if m == nil {
		return nil, &CreationError{Err: ErrUnsupportedModel}
	}

	name := m.Name()
	value, err := engine.CreateDetector(name, model.EncodeModelConfig(m)).Await(ctx)
	if err != nil {
		return nil, &CreationError{Model: name, Err: err}
	}
	if value == nil || dynamic.IsUndefined(value) {
		return nil, &CreationError{Model: name, Err: errors.New("engine returned no detector")}
	}

	logger.Log().Info("detector created", zap.String("model", name))
	return newHandle(engine, name, value), nil
}

// With creates a detector for m, runs fn with it and disposes it on every way
// out of fn, including panics. A dispose failure is returned only when fn
// succeeded.
func With(ctx context.Context, engine Engine, m model.Model, fn func(h *Handle) error) (err error) {
	h, err := Create(ctx, engine, m)
	if err != nil {
		return err
	}
	defer func() {
		if derr := h.Dispose(); derr != nil && err == nil {
			err = derr
		}
	}()
	return fn(h)
}
