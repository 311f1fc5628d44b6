package model

// PoseNetArchitecture selects the PoseNet backbone.
type PoseNetArchitecture string

const (
	ResNet50    PoseNetArchitecture = "ResNet50"
	MobileNetV1 PoseNetArchitecture = "MobileNetV1"
)

// OutputStride is the PoseNet output stride in pixels.
type OutputStride int

const (
	OutputStride32 OutputStride = 32
	OutputStride16 OutputStride = 16
	OutputStride8  OutputStride = 8
)

// MobileNetMultiplier is the depth multiplier for MobileNetV1.
type MobileNetMultiplier float64

const (
	Multiplier1    MobileNetMultiplier = 1.0
	Multiplier0_75 MobileNetMultiplier = 0.75
	Multiplier0_5  MobileNetMultiplier = 0.5
)

// QuantBytes is the number of bytes used for weight quantization.
type QuantBytes int

const (
	QuantBytes1 QuantBytes = 1
	QuantBytes2 QuantBytes = 2
	QuantBytes4 QuantBytes = 4
)

// InputResolution is the size the input image is resized to before inference.
type InputResolution struct {
	Width  int
	Height int
}

// PoseNetConfig holds the PoseNet options.
type PoseNetConfig struct {
	Architecture    PoseNetArchitecture
	OutputStride    OutputStride
	InputResolution InputResolution
	Multiplier      *MobileNetMultiplier
	ModelURL        *string
	QuantBytes      *QuantBytes
}
