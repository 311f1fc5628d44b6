// Package detector creates pose detectors inside the engine and drives them
// through their lifecycle: estimate, reset, dispose.
package detector

import (
	"context"
	"time"

	"github.com/ayusman/posebridge/internal/dynamic"
	"github.com/ayusman/posebridge/internal/model"
	"github.com/ayusman/posebridge/internal/pose"
)

// Engine method names.
const (
	methodEstimatePoses    = "estimatePoses"
	methodReset            = "reset"
	methodDispose          = "dispose"
	methodGetAdjacentPairs = "getAdjacentPairs"
)

// Engine is the external pose engine.
type Engine interface {
	dynamic.Invoker

	// CreateDetector asks the engine to load the named model. The promise
	// resolves to an opaque detector value.
	CreateDetector(name string, config dynamic.Value) dynamic.Promise

	// Util returns the engine's utility namespace, the target of
	// getAdjacentPairs.
	Util() dynamic.Value
}

// Detector defines the interface for pose detection implementations.
type Detector interface {
	// Estimate runs the model on input and returns the detected poses.
	// timestamp is optional and only used by models that smooth over time.
	Estimate(ctx context.Context, input dynamic.Value, config model.EstimationConfig, timestamp *time.Duration) ([]pose.Pose, error)

	// Reset clears any temporal state such as smoothing filters and trackers.
	Reset() error

	// Close releases the detector. Calling it more than once is safe.
	Close() error
}
