package pose

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ayusman/posebridge/internal/dynamic"
)

func ptr[T any](v T) *T { return &v }

func keypoint(x, y float64) *dynamic.Record {
	rec := dynamic.NewRecord()
	rec.Set("x", x)
	rec.Set("y", y)
	return rec
}

func poseRecord(kps ...dynamic.Value) *dynamic.Record {
	rec := dynamic.NewRecord()
	rec.Set("keypoints", kps)
	return rec
}

func TestDecode_MinimalPose(t *testing.T) {
	raw := []dynamic.Value{poseRecord(keypoint(10, 20))}

	poses, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	want := []Pose{{Keypoints: []Keypoint{{X: 10, Y: 20}}}}
	if !reflect.DeepEqual(poses, want) {
		t.Errorf("expected %+v, got %+v", want, poses)
	}
}

func TestDecode_EmptyResult(t *testing.T) {
	poses, err := Decode([]dynamic.Value{})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if len(poses) != 0 {
		t.Errorf("expected no poses, got %d", len(poses))
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		pose Pose
	}{
		{
			name: "keypoints only",
			pose: Pose{Keypoints: []Keypoint{{X: 1, Y: 2}, {X: 3, Y: 4}}},
		},
		{
			name: "empty keypoints",
			pose: Pose{Keypoints: []Keypoint{}},
		},
		{
			name: "all keypoint fields",
			pose: Pose{Keypoints: []Keypoint{
				{X: 1.5, Y: 2.5, Z: ptr(-0.3), Score: ptr(0.9), Name: ptr("nose")},
			}},
		},
		{
			name: "score and id",
			pose: Pose{Keypoints: []Keypoint{{X: 0, Y: 0}}, Score: ptr(0.42), ID: ptr(7)},
		},
		{
			name: "3d keypoints and box",
			pose: Pose{
				Keypoints:   []Keypoint{{X: 100, Y: 200, Name: ptr("left_wrist")}},
				Keypoints3D: []Keypoint{{X: 0.1, Y: 0.2, Z: ptr(0.3), Score: ptr(0.8)}},
				Box:         &BoundingBox{XMin: 1, YMin: 2, XMax: 11, YMax: 22, Width: 10, Height: 20},
			},
		},
		{
			name: "empty 3d keypoints stay present",
			pose: Pose{Keypoints: []Keypoint{}, Keypoints3D: []Keypoint{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(Encode([]Pose{tt.pose}))
			if err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("expected 1 pose, got %d", len(got))
			}
			if !reflect.DeepEqual(got[0], tt.pose) {
				t.Errorf("round trip mismatch:\nwant %+v\ngot  %+v", tt.pose, got[0])
			}
		})
	}
}

func TestDecode_RoundTripNilKeypoints(t *testing.T) {
	got, err := Decode(Encode([]Pose{{Score: ptr(0.1)}}))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if got[0].Keypoints == nil || len(got[0].Keypoints) != 0 {
		t.Errorf("expected empty non-nil keypoints, got %#v", got[0].Keypoints)
	}
	if got[0].Keypoints3D != nil {
		t.Errorf("absent 3d keypoints should stay nil, got %#v", got[0].Keypoints3D)
	}
}

func TestDecode_Failures(t *testing.T) {
	missingY := dynamic.NewRecord()
	missingY.Set("x", 1.0)

	badScore := poseRecord(keypoint(1, 2))
	badScore.Set("score", "high")

	badBox := poseRecord(keypoint(1, 2))
	box := dynamic.NewRecord()
	box.Set("xMin", 0.0)
	badBox.Set("box", box)

	fractionalID := poseRecord(keypoint(1, 2))
	fractionalID.Set("id", 1.5)

	badName := dynamic.NewRecord()
	badName.Set("x", 1.0)
	badName.Set("y", 1.0)
	badName.Set("name", 3.0)

	tests := []struct {
		name     string
		raw      dynamic.Value
		position int
		reason   string
	}{
		{"not a sequence", dynamic.NewRecord(), -1, "expected a sequence"},
		{"undefined result", dynamic.Undefined, -1, "got undefined"},
		{"element not a record", []dynamic.Value{poseRecord(), "pose"}, 1, "expected a record"},
		{"missing keypoints", []dynamic.Value{dynamic.NewRecord()}, 0, "keypoints: missing"},
		{"missing y", []dynamic.Value{poseRecord(keypoint(1, 2)), poseRecord(keypoint(3, 4), missingY)}, 1, "keypoints[1].y: missing"},
		{"score type mismatch", []dynamic.Value{badScore}, 0, "score: expected a number"},
		{"incomplete box", []dynamic.Value{poseRecord(), badBox}, 1, "box.yMin: missing"},
		{"fractional id", []dynamic.Value{fractionalID}, 0, "id: expected an integer"},
		{"name type mismatch", []dynamic.Value{poseRecord(badName)}, 0, "keypoints[0].name: expected a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poses, err := Decode(tt.raw)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if poses != nil {
				t.Errorf("expected no partial result, got %v", poses)
			}

			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %T", err)
			}
			if de.Position != tt.position {
				t.Errorf("expected position %d, got %d", tt.position, de.Position)
			}
			if !strings.Contains(de.Reason, tt.reason) {
				t.Errorf("expected reason containing %q, got %q", tt.reason, de.Reason)
			}
		})
	}
}

func TestDecode_NullOptionalFieldsAreAbsent(t *testing.T) {
	kp := keypoint(5, 6)
	kp.Set("z", nil)
	kp.Set("score", dynamic.Undefined)
	rec := poseRecord(kp)
	rec.Set("box", nil)

	poses, err := Decode([]dynamic.Value{rec})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	want := Pose{Keypoints: []Keypoint{{X: 5, Y: 6}}}
	if !reflect.DeepEqual(poses[0], want) {
		t.Errorf("expected %+v, got %+v", want, poses[0])
	}
}

func TestDecode_IntegerCoordinates(t *testing.T) {
	kp := dynamic.NewRecord()
	kp.Set("x", 10)
	kp.Set("y", int64(20))

	poses, err := Decode([]dynamic.Value{poseRecord(kp)})
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if poses[0].Keypoints[0].X != 10 || poses[0].Keypoints[0].Y != 20 {
		t.Errorf("unexpected keypoint %+v", poses[0].Keypoints[0])
	}
}
