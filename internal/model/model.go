// Package model describes the pose models the engine can load and the options
// each of them accepts, and encodes those options into dynamic records.
package model

// Model names as understood by the engine.
const (
	NamePoseNet   = "PoseNet"
	NameBlazePose = "BlazePose"
	NameMoveNet   = "MoveNet"
)

// Model is one of PoseNet, BlazePose or MoveNet, each with an optional configuration.
// A nil configuration asks the engine for its defaults.
type Model interface {
	// Name returns the engine identity of the model.
	Name() string

	config() any
}

// PoseNet selects the PoseNet model.
type PoseNet struct {
	Config *PoseNetConfig
}

// Name returns "PoseNet".
func (PoseNet) Name() string { return NamePoseNet }

func (m PoseNet) config() any { return m.Config }

// BlazePose selects the BlazePose model.
type BlazePose struct {
	Config *BlazePoseConfig
}

// Name returns "BlazePose".
func (BlazePose) Name() string { return NameBlazePose }

func (m BlazePose) config() any { return m.Config }

// MoveNet selects the MoveNet model.
type MoveNet struct {
	Config *MoveNetConfig
}

// Name returns "MoveNet".
func (MoveNet) Name() string { return NameMoveNet }

func (m MoveNet) config() any { return m.Config }

// Ptr returns a pointer to v. It is a convenience for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// BackendName identifies a compute backend of the engine.
type BackendName string

// Backends supported by the engine.
const (
	BackendWebGL      BackendName = "webgl"
	BackendCPU        BackendName = "cpu"
	BackendTensorflow BackendName = "tensorflow"
)

func (b BackendName) String() string { return string(b) }

// Valid reports whether b is a known backend.
func (b BackendName) Valid() bool {
	switch b {
	case BackendWebGL, BackendCPU, BackendTensorflow:
		return true
	}
	return false
}
