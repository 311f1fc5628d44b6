package pose

import "github.com/ayusman/posebridge/internal/dynamic"

// Encode converts poses into the record sequence the engine returns from
// estimatePoses. Decode(Encode(p)) yields p, except that a nil Keypoints
// slice comes back empty and non-nil: keypoints is always present on the wire.
func Encode(poses []Pose) []dynamic.Value {
	out := make([]dynamic.Value, 0, len(poses))
	for i := range poses {
		out = append(out, EncodePose(poses[i]))
	}
	return out
}

// EncodePose converts a single pose. Absent optional fields are left out.
func EncodePose(p Pose) *dynamic.Record {
	rec := dynamic.NewRecord()
	rec.Set(keyKeypoints, encodeKeypoints(p.Keypoints))
	if p.Score != nil {
		rec.Set(keyScore, *p.Score)
	}
	if p.Keypoints3D != nil {
		rec.Set(keyKeypoints3D, encodeKeypoints(p.Keypoints3D))
	}
	if p.Box != nil {
		box := dynamic.NewRecord()
		box.Set("xMin", p.Box.XMin)
		box.Set("yMin", p.Box.YMin)
		box.Set("xMax", p.Box.XMax)
		box.Set("yMax", p.Box.YMax)
		box.Set("width", p.Box.Width)
		box.Set("height", p.Box.Height)
		rec.Set(keyBox, box)
	}
	if p.ID != nil {
		rec.Set(keyID, float64(*p.ID))
	}
	return rec
}

func encodeKeypoints(kps []Keypoint) []dynamic.Value {
	out := make([]dynamic.Value, 0, len(kps))
	for _, kp := range kps {
		rec := dynamic.NewRecord()
		rec.Set(keyX, kp.X)
		rec.Set(keyY, kp.Y)
		if kp.Z != nil {
			rec.Set(keyZ, *kp.Z)
		}
		if kp.Score != nil {
			rec.Set(keyScore, *kp.Score)
		}
		if kp.Name != nil {
			rec.Set(keyName, *kp.Name)
		}
		out = append(out, rec)
	}
	return out
}
