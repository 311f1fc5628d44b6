package model

import (
	"reflect"
	"testing"

	"github.com/ayusman/posebridge/internal/dynamic"
)

func mustRecord(t *testing.T, v dynamic.Value) *dynamic.Record {
	t.Helper()
	rec, ok := v.(*dynamic.Record)
	if !ok {
		t.Fatalf("expected *dynamic.Record, got %T", v)
	}
	return rec
}

func get(t *testing.T, rec *dynamic.Record, key string) dynamic.Value {
	t.Helper()
	v, ok := rec.Get(key)
	if !ok {
		t.Fatalf("expected key %q in %v", key, rec.Keys())
	}
	return v
}

func TestEncodeModelConfig_NoConfigIsUndefined(t *testing.T) {
	models := []Model{PoseNet{}, BlazePose{}, MoveNet{}}
	for _, m := range models {
		t.Run(m.Name(), func(t *testing.T) {
			if got := EncodeModelConfig(m); !dynamic.IsUndefined(got) {
				t.Errorf("expected undefined, got %#v", got)
			}
		})
	}

	if got := EncodeModelConfig(nil); !dynamic.IsUndefined(got) {
		t.Errorf("expected undefined for nil model, got %#v", got)
	}
}

func TestEncodeModelConfig_PoseNet(t *testing.T) {
	t.Run("required fields only", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(PoseNet{Config: &PoseNetConfig{
			Architecture:    MobileNetV1,
			OutputStride:    OutputStride16,
			InputResolution: InputResolution{Width: 257, Height: 200},
		}}))

		want := []string{"architecture", "outputStride", "inputResolution"}
		if got := rec.Keys(); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected keys %v, got %v", want, got)
		}
		if v := get(t, rec, "architecture"); v != "MobileNetV1" {
			t.Errorf("expected architecture MobileNetV1, got %v", v)
		}
		if v := get(t, rec, "outputStride"); v != 16 {
			t.Errorf("expected outputStride 16, got %v", v)
		}
		res := mustRecord(t, get(t, rec, "inputResolution"))
		if got := res.Keys(); !reflect.DeepEqual(got, []string{"width", "height"}) {
			t.Errorf("expected width/height keys, got %v", got)
		}
	})

	t.Run("all fields", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(PoseNet{Config: &PoseNetConfig{
			Architecture:    ResNet50,
			OutputStride:    OutputStride32,
			InputResolution: InputResolution{Width: 640, Height: 480},
			Multiplier:      Ptr(Multiplier0_75),
			ModelURL:        Ptr("https://example.com/posenet/model.json"),
			QuantBytes:      Ptr(QuantBytes2),
		}}))

		want := []string{"architecture", "outputStride", "inputResolution", "multiplier", "modelUrl", "quantBytes"}
		if got := rec.Keys(); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected keys %v, got %v", want, got)
		}
		if v := get(t, rec, "multiplier"); v != 0.75 {
			t.Errorf("expected multiplier 0.75, got %v", v)
		}
		if v := get(t, rec, "quantBytes"); v != 2 {
			t.Errorf("expected quantBytes 2, got %v", v)
		}
	})
}

func TestEncodeModelConfig_BlazePoseRuntime(t *testing.T) {
	t.Run("mediapipe", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(BlazePose{Config: &BlazePoseConfig{
			Runtime:         MediaPipeRuntime{SolutionPath: Ptr("/pose")},
			EnableSmoothing: Ptr(true),
			ModelType:       Ptr(BlazePoseHeavy),
		}}))

		want := []string{"enableSmoothing", "modelType", "solutionPath", "runtime"}
		if got := rec.Keys(); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected keys %v, got %v", want, got)
		}
		if v := get(t, rec, "runtime"); v != "mediapipe" {
			t.Errorf("expected runtime mediapipe, got %v", v)
		}
		if v := get(t, rec, "modelType"); v != "heavy" {
			t.Errorf("expected modelType heavy, got %v", v)
		}
		for _, k := range []string{"detectorModelUrl", "landmarkModelUrl", "Runtime"} {
			if rec.Has(k) {
				t.Errorf("unexpected key %q", k)
			}
		}
	})

	t.Run("tfjs", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(BlazePose{Config: &BlazePoseConfig{
			Runtime: TfjsRuntime{
				DetectorModelURL: Ptr("detector.json"),
				LandmarkModelURL: Ptr("landmark.json"),
			},
		}}))

		want := []string{"detectorModelUrl", "landmarkModelUrl", "runtime"}
		if got := rec.Keys(); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected keys %v, got %v", want, got)
		}
		if v := get(t, rec, "runtime"); v != "tfjs" {
			t.Errorf("expected runtime tfjs, got %v", v)
		}
		if rec.Has("solutionPath") {
			t.Error("mediapipe key leaked into tfjs record")
		}
	})

	t.Run("runtime without options", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(BlazePose{Config: &BlazePoseConfig{
			Runtime: TfjsRuntime{},
		}}))
		if got := rec.Keys(); !reflect.DeepEqual(got, []string{"runtime"}) {
			t.Errorf("expected only runtime, got %v", got)
		}
	})

	t.Run("no runtime", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(BlazePose{Config: &BlazePoseConfig{}}))
		if rec.Len() != 0 {
			t.Errorf("expected empty record, got %v", rec.Keys())
		}
	})
}

func TestEncodeModelConfig_MoveNetTracker(t *testing.T) {
	t.Run("keypoint tracker", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(MoveNet{Config: &MoveNetConfig{
			ModelType:      Ptr(MultiPoseLightning),
			EnableTracking: Ptr(true),
			Tracker: KeypointTracker{TrackerConfig: KeypointTrackerConfig{
				TrackerLimits: TrackerLimits{MaxTracks: 18, MaxAge: 1000, MinSimilarity: 0.2},
				KeypointTrackerParams: KeypointTrackerParams{
					KeypointConfidenceThreshold: 0.3,
					KeypointFalloff:             []float64{0.026, 0.025},
					MinNumberOfKeypoints:        4,
				},
			}},
		}}))

		want := []string{"modelType", "enableTracking", "trackerConfig", "trackerType"}
		if got := rec.Keys(); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected keys %v, got %v", want, got)
		}
		if v := get(t, rec, "trackerType"); v != "keypoint" {
			t.Errorf("expected trackerType keypoint, got %v", v)
		}

		tc := mustRecord(t, get(t, rec, "trackerConfig"))
		wantTC := []string{"maxTracks", "maxAge", "minSimilarity", "keypointTrackerParams"}
		if got := tc.Keys(); !reflect.DeepEqual(got, wantTC) {
			t.Fatalf("expected tracker keys %v, got %v", wantTC, got)
		}
		params := mustRecord(t, get(t, tc, "keypointTrackerParams"))
		falloff := get(t, params, "keypointFalloff")
		if !reflect.DeepEqual(falloff, []dynamic.Value{0.026, 0.025}) {
			t.Errorf("unexpected falloff %v", falloff)
		}
	})

	t.Run("bounding box tracker", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(MoveNet{Config: &MoveNetConfig{
			Tracker: BoundingBoxTracker{TrackerConfig: BoundingBoxTrackerConfig{
				TrackerLimits: TrackerLimits{MaxTracks: 4, MaxAge: 500, MinSimilarity: 0.15},
			}},
		}}))

		if v := get(t, rec, "trackerType"); v != "boundingBox" {
			t.Errorf("expected trackerType boundingBox, got %v", v)
		}
		tc := mustRecord(t, get(t, rec, "trackerConfig"))
		if tc.Has("keypointTrackerParams") {
			t.Error("keypoint params leaked into bounding box tracker")
		}
		params := mustRecord(t, get(t, tc, "boundingBoxTrackerParams"))
		if params.Len() != 0 {
			t.Errorf("expected empty params, got %v", params.Keys())
		}
	})

	t.Run("optional fields only", func(t *testing.T) {
		rec := mustRecord(t, EncodeModelConfig(MoveNet{Config: &MoveNetConfig{
			MinPoseScore:          Ptr(0.25),
			MultiPoseMaxDimension: Ptr(256),
		}}))
		want := []string{"minPoseScore", "multiPoseMaxDimension"}
		if got := rec.Keys(); !reflect.DeepEqual(got, want) {
			t.Errorf("expected keys %v, got %v", want, got)
		}
	})
}

func TestEncodeModelConfig_NilPointerVariantIsAbsent(t *testing.T) {
	tests := []struct {
		name string
		m    Model
		want []string
	}{
		{
			name: "movenet tracker",
			m:    MoveNet{Config: &MoveNetConfig{EnableTracking: Ptr(true), Tracker: (*KeypointTracker)(nil)}},
			want: []string{"enableTracking"},
		},
		{
			name: "blazepose runtime",
			m:    BlazePose{Config: &BlazePoseConfig{Runtime: (*TfjsRuntime)(nil), ModelType: Ptr(BlazePoseLite)}},
			want: []string{"modelType"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := mustRecord(t, EncodeModelConfig(tt.m))
			if got := rec.Keys(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected keys %v, got %v", tt.want, got)
			}
		})
	}
}

func TestMergeVariant_NestedValueWins(t *testing.T) {
	dst := dynamic.NewRecord()
	dst.Set("trackerConfig", "parent")
	dst.Set("other", 1)

	mergeVariant(dst, BoundingBoxTracker{})

	v, _ := dst.Get("trackerConfig")
	if _, ok := v.(*dynamic.Record); !ok {
		t.Errorf("expected variant trackerConfig to replace parent value, got %v", v)
	}
	want := []string{"trackerConfig", "other", "trackerType"}
	if got := dst.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected keys %v, got %v", want, got)
	}
}

func TestEncodeEstimationConfig(t *testing.T) {
	t.Run("nil is undefined", func(t *testing.T) {
		if got := EncodeEstimationConfig(nil); !dynamic.IsUndefined(got) {
			t.Errorf("expected undefined, got %#v", got)
		}
	})

	t.Run("common with unset flip", func(t *testing.T) {
		rec := mustRecord(t, EncodeEstimationConfig(CommonEstimation{MaxPoses: Ptr(1)}))
		if got := rec.Keys(); !reflect.DeepEqual(got, []string{"maxPoses"}) {
			t.Fatalf("expected [maxPoses], got %v", got)
		}
		if v := get(t, rec, "maxPoses"); v != 1 {
			t.Errorf("expected maxPoses 1, got %v", v)
		}
	})

	t.Run("posenet merges flat, common first", func(t *testing.T) {
		rec := mustRecord(t, EncodeEstimationConfig(PoseNetEstimation{
			CommonEstimation: CommonEstimation{MaxPoses: Ptr(5), FlipHorizontal: Ptr(true)},
			ScoreThreshold:   Ptr(0.5),
			NMSRadius:        Ptr(20.0),
		}))
		want := []string{"maxPoses", "flipHorizontal", "scoreThreshold", "nmsRadius"}
		if got := rec.Keys(); !reflect.DeepEqual(got, want) {
			t.Fatalf("expected keys %v, got %v", want, got)
		}
	})

	t.Run("pointer config", func(t *testing.T) {
		rec := mustRecord(t, EncodeEstimationConfig(&CommonEstimation{FlipHorizontal: Ptr(false)}))
		if v := get(t, rec, "flipHorizontal"); v != false {
			t.Errorf("expected flipHorizontal false, got %v", v)
		}
	})

	t.Run("empty common", func(t *testing.T) {
		rec := mustRecord(t, EncodeEstimationConfig(CommonEstimation{}))
		if rec.Len() != 0 {
			t.Errorf("expected no keys, got %v", rec.Keys())
		}
	})
}

func TestDescribe(t *testing.T) {
	rec := Describe(MoveNet{})
	if got := rec.Keys(); !reflect.DeepEqual(got, []string{"model"}) {
		t.Fatalf("expected [model], got %v", got)
	}

	rec = Describe(BlazePose{Config: &BlazePoseConfig{Runtime: MediaPipeRuntime{}}})
	if v := get(t, rec, "model"); v != "BlazePose" {
		t.Errorf("expected model BlazePose, got %v", v)
	}
	cfg := mustRecord(t, get(t, rec, "modelConfig"))
	if v := get(t, cfg, "runtime"); v != "mediapipe" {
		t.Errorf("expected runtime mediapipe, got %v", v)
	}
}
