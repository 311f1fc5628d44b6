package model

// BlazePoseModelType selects the BlazePose landmark model size.
type BlazePoseModelType string

const (
	BlazePoseLite  BlazePoseModelType = "lite"
	BlazePoseFull  BlazePoseModelType = "full"
	BlazePoseHeavy BlazePoseModelType = "heavy"
)

// Runtime names written under the "runtime" key.
const (
	RuntimeMediaPipe = "mediapipe"
	RuntimeTfjs      = "tfjs"
)

// BlazePoseRuntime is either MediaPipeRuntime or TfjsRuntime.
type BlazePoseRuntime interface {
	variant
	blazePoseRuntime()
}

// MediaPipeRuntime runs BlazePose on the MediaPipe solution.
type MediaPipeRuntime struct {
	SolutionPath *string
}

func (MediaPipeRuntime) discriminant() (string, string) { return "runtime", RuntimeMediaPipe }
func (MediaPipeRuntime) blazePoseRuntime()              {}

// TfjsRuntime runs BlazePose on TensorFlow.js graph models.
type TfjsRuntime struct {
	DetectorModelURL *string
	LandmarkModelURL *string
}

func (TfjsRuntime) discriminant() (string, string) { return "runtime", RuntimeTfjs }
func (TfjsRuntime) blazePoseRuntime()              {}

// BlazePoseConfig holds the BlazePose options. Runtime is flattened into the
// encoded record together with a "runtime" discriminant.
type BlazePoseConfig struct {
	Runtime            BlazePoseRuntime
	EnableSmoothing    *bool
	EnableSegmentation *bool
	SmoothSegmentation *bool
	ModelType          *BlazePoseModelType
}
