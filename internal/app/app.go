// Package app runs frames from a capture source through a pose detector.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/posebridge/internal/capture"
	"github.com/ayusman/posebridge/internal/detector"
	"github.com/ayusman/posebridge/internal/frame"
	"github.com/ayusman/posebridge/internal/logger"
	"github.com/ayusman/posebridge/internal/model"
	"github.com/ayusman/posebridge/internal/pose"
)

// ErrRunning is returned by Start when the pipeline is already running.
var ErrRunning = errors.New("pipeline already running")

// Config holds the pipeline settings.
type Config struct {
	Engine detector.Engine
	Model  model.Model
	// Detector, when set, is used instead of creating one from Engine and
	// Model. Stop closes it.
	Detector   detector.Detector
	Estimation model.EstimationConfig
	// Encoding is the image format frames are sent in.
	Encoding frame.Encoding
	// MinChange is the percentage of pixels that must change before a frame
	// is estimated again. Zero estimates every frame.
	MinChange float64
}

// Result is the estimation outcome for one frame.
type Result struct {
	Frame     int
	Timestamp time.Duration
	Poses     []pose.Pose
}

// Callback receives every estimated frame.
type Callback func(Result)

// App reads frames from a Source, estimates poses on them and hands the
// results to registered callbacks.
type App struct {
	config    Config
	source    capture.Source
	change    *capture.ChangeDetector
	mu        sync.RWMutex
	detector  detector.Detector
	callbacks []Callback
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
}

// New creates an App reading from source.
func New(config Config, source capture.Source) *App {
	a := &App{config: config, source: source}
	if config.MinChange > 0 {
		a.change = capture.NewChangeDetector(config.MinChange)
	}
	return a
}

// OnPoses registers fn to be called for every estimated frame.
func (a *App) OnPoses(fn Callback) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.callbacks = append(a.callbacks, fn)
}

// Start opens the source, creates the detector unless one was configured,
// and starts the pipeline. ctx bounds detector creation only.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancel != nil {
		return ErrRunning
	}

	d := a.config.Detector
	if d == nil {
		h, err := detector.Create(ctx, a.config.Engine, a.config.Model)
		if err != nil {
			return err
		}
		d = h
	}
	if err := a.source.Open(); err != nil {
		return errors.Join(err, d.Close())
	}

	runCtx, cancel := context.WithCancel(context.Background())
	a.detector = d
	a.cancel = cancel
	a.done = make(chan struct{})
	a.err = nil
	go a.runPipeline(runCtx, d, a.done)

	logger.Log().Info("pose pipeline started", zap.Int("fps", a.source.FPS()))
	return nil
}

// Stop halts the pipeline, closes the source and closes the detector.
// It returns the first error encountered while releasing them.
func (a *App) Stop() error {
	a.mu.Lock()
	cancel, done, d := a.cancel, a.done, a.detector
	a.cancel, a.detector = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done

	var errs []error
	if err := a.source.Close(); err != nil {
		errs = append(errs, err)
	}
	if a.change != nil {
		a.change.Reset()
	}
	if err := d.Close(); err != nil {
		errs = append(errs, err)
	}

	logger.Log().Info("pose pipeline stopped")
	return errors.Join(errs...)
}

// Done is closed when the pipeline loop exits, either because Stop was
// called or because the source ran out of frames.
func (a *App) Done() <-chan struct{} {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return a.done
}

// Err returns the error that ended the pipeline, if any.
func (a *App) Err() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}

// Detector returns the running detector, or nil when stopped.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Close stops the pipeline and releases the change detector.
func (a *App) Close() error {
	err := a.Stop()
	if a.change != nil {
		a.change.Close()
	}
	return err
}
