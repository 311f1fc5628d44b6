package model

// MoveNetModelType selects the MoveNet variant.
type MoveNetModelType string

const (
	SinglePoseLightning MoveNetModelType = "SinglePose.Lightning"
	SinglePoseThunder   MoveNetModelType = "SinglePose.Thunder"
	MultiPoseLightning  MoveNetModelType = "MultiPose.Lightning"
)

// TrackerType names the tracker written under the "trackerType" key.
type TrackerType string

const (
	TrackerKeypoint    TrackerType = "keypoint"
	TrackerBoundingBox TrackerType = "boundingBox"
)

// Tracker is either KeypointTracker or BoundingBoxTracker.
type Tracker interface {
	variant
	Type() TrackerType
}

// TrackerLimits are the options shared by every tracker.
type TrackerLimits struct {
	MaxTracks     int
	MaxAge        int
	MinSimilarity float64
}

// KeypointTrackerParams tunes object keypoint similarity tracking.
type KeypointTrackerParams struct {
	KeypointConfidenceThreshold float64
	KeypointFalloff             []float64
	MinNumberOfKeypoints        int
}

// KeypointTrackerConfig is the tracker configuration for keypoint tracking.
type KeypointTrackerConfig struct {
	TrackerLimits
	KeypointTrackerParams KeypointTrackerParams
}

// KeypointTracker tracks poses by keypoint similarity.
type KeypointTracker struct {
	TrackerConfig KeypointTrackerConfig
}

// Type returns TrackerKeypoint.
func (KeypointTracker) Type() TrackerType { return TrackerKeypoint }

func (t KeypointTracker) discriminant() (string, string) { return "trackerType", string(t.Type()) }

// BoundingBoxTrackerParams is empty; the engine has no bounding box tunables.
type BoundingBoxTrackerParams struct{}

// BoundingBoxTrackerConfig is the tracker configuration for bounding box tracking.
type BoundingBoxTrackerConfig struct {
	TrackerLimits
	BoundingBoxTrackerParams BoundingBoxTrackerParams
}

// BoundingBoxTracker tracks poses by bounding box IoU.
type BoundingBoxTracker struct {
	TrackerConfig BoundingBoxTrackerConfig
}

// Type returns TrackerBoundingBox.
func (BoundingBoxTracker) Type() TrackerType { return TrackerBoundingBox }

func (t BoundingBoxTracker) discriminant() (string, string) { return "trackerType", string(t.Type()) }

// MoveNetConfig holds the MoveNet options. Tracker is flattened into the encoded
// record together with a "trackerType" discriminant.
type MoveNetConfig struct {
	EnableSmoothing       *bool
	ModelType             *MoveNetModelType
	ModelURL              *string
	MinPoseScore          *float64
	MultiPoseMaxDimension *int
	EnableTracking        *bool
	Tracker               Tracker
}
