// Package pose holds the typed pose results and converts them from the
// engine's dynamic records.
package pose

// Keypoint is a single landmark. X and Y are in input image pixels.
type Keypoint struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Z     *float64 `json:"z,omitempty"`
	Score *float64 `json:"score,omitempty"`
	Name  *string  `json:"name,omitempty"`
}

// BoundingBox is the box around a pose.
type BoundingBox struct {
	XMin   float64 `json:"xMin"`
	YMin   float64 `json:"yMin"`
	XMax   float64 `json:"xMax"`
	YMax   float64 `json:"yMax"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Pose is one detected person.
type Pose struct {
	Keypoints []Keypoint `json:"keypoints"`
	Score     *float64   `json:"score,omitempty"`
	// Keypoints3D is nil when the model does not produce 3D keypoints.
	Keypoints3D []Keypoint   `json:"keypoints3D,omitempty"`
	Box         *BoundingBox `json:"box,omitempty"`
	// ID is set when tracking is enabled.
	ID *int `json:"id,omitempty"`
}

// Record keys used by the engine.
const (
	keyKeypoints   = "keypoints"
	keyKeypoints3D = "keypoints3D"
	keyScore       = "score"
	keyBox         = "box"
	keyID          = "id"
	keyX           = "x"
	keyY           = "y"
	keyZ           = "z"
	keyName        = "name"
)
