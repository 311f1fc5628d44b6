package model

// EstimationConfig is the per-call configuration: CommonEstimation for BlazePose
// and MoveNet, PoseNetEstimation for PoseNet.
type EstimationConfig interface {
	estimationConfig()
}

// CommonEstimation holds the options every model accepts.
type CommonEstimation struct {
	MaxPoses       *int
	FlipHorizontal *bool
}

func (CommonEstimation) estimationConfig() {}

// PoseNetEstimation adds the PoseNet decoding options on top of the common ones.
// The encoded record is flat: common keys first, then the PoseNet keys.
type PoseNetEstimation struct {
	CommonEstimation
	ScoreThreshold *float64
	NMSRadius      *float64
}
