package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/posebridge/internal/capture"
	"github.com/ayusman/posebridge/internal/detector"
	"github.com/ayusman/posebridge/internal/frame"
	"github.com/ayusman/posebridge/internal/logger"
)

// runPipeline reads a frame per tick, skips frames that did not change,
// estimates the rest and fans the poses out to the callbacks. It ends when
// ctx is cancelled, the source is exhausted, or the detector fails for a
// reason other than a bad result.
func (a *App) runPipeline(ctx context.Context, d detector.Detector, done chan struct{}) {
	defer close(done)

	fps := a.source.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	start := time.Now()
	n := 0

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		mat, err := a.source.Read()
		if errors.Is(err, capture.ErrEndOfStream) {
			logger.Log().Info("source exhausted", zap.Int("frames", n))
			return
		}
		if err != nil {
			logger.Log().Warn("frame read failed", zap.Error(err))
			continue
		}

		if a.change != nil {
			if changed, percent := a.change.Changed(mat); !changed {
				logger.Log().Debug("frame unchanged", zap.Float64("percent", percent))
				mat.Close()
				continue
			}
		}

		img, err := frame.FromMat(*mat, a.config.Encoding)
		mat.Close()
		if err != nil {
			logger.Log().Warn("frame encode failed", zap.Error(err))
			continue
		}

		ts := time.Since(start)
		poses, err := d.Estimate(ctx, img, a.config.Estimation, &ts)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			var estErr *detector.EstimationError
			if errors.As(err, &estErr) && estErr.Kind == detector.DecodeFailed {
				logger.Log().Warn("engine returned malformed poses", zap.Error(err))
				continue
			}
			a.fail(err)
			return
		}

		n++
		a.emit(Result{Frame: n, Timestamp: ts, Poses: poses})
	}
}

func (a *App) emit(r Result) {
	a.mu.RLock()
	callbacks := make([]Callback, len(a.callbacks))
	copy(callbacks, a.callbacks)
	a.mu.RUnlock()

	for _, fn := range callbacks {
		fn(r)
	}
}

func (a *App) fail(err error) {
	logger.Log().Error("pose pipeline failed", zap.Error(err))
	a.mu.Lock()
	a.err = err
	a.mu.Unlock()
}
