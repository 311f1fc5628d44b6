package config

import (
	"errors"
	"fmt"

	"github.com/ayusman/posebridge/internal/model"
)

// ModelConfig selects the model by name. Only the section matching Name is used.
type ModelConfig struct {
	Name      string            `yaml:"name"`
	PoseNet   *PoseNetOptions   `yaml:"posenet"`
	BlazePose *BlazePoseOptions `yaml:"blazepose"`
	MoveNet   *MoveNetOptions   `yaml:"movenet"`
}

// PoseNetOptions mirror model.PoseNetConfig.
type PoseNetOptions struct {
	Architecture    model.PoseNetArchitecture  `yaml:"architecture"`
	OutputStride    model.OutputStride         `yaml:"outputStride"`
	InputResolution model.InputResolution      `yaml:"inputResolution"`
	Multiplier      *model.MobileNetMultiplier `yaml:"multiplier"`
	ModelURL        *string                    `yaml:"modelUrl"`
	QuantBytes      *model.QuantBytes          `yaml:"quantBytes"`
}

// BlazePoseOptions mirror model.BlazePoseConfig. Runtime is "mediapipe" or "tfjs".
type BlazePoseOptions struct {
	Runtime            string                    `yaml:"runtime"`
	SolutionPath       *string                   `yaml:"solutionPath"`
	DetectorModelURL   *string                   `yaml:"detectorModelUrl"`
	LandmarkModelURL   *string                   `yaml:"landmarkModelUrl"`
	EnableSmoothing    *bool                     `yaml:"enableSmoothing"`
	EnableSegmentation *bool                     `yaml:"enableSegmentation"`
	SmoothSegmentation *bool                     `yaml:"smoothSegmentation"`
	ModelType          *model.BlazePoseModelType `yaml:"modelType"`
}

// MoveNetOptions mirror model.MoveNetConfig. TrackerType picks the tracker
// variant; Tracker holds its settings.
type MoveNetOptions struct {
	EnableSmoothing       *bool                   `yaml:"enableSmoothing"`
	ModelType             *model.MoveNetModelType `yaml:"modelType"`
	ModelURL              *string                 `yaml:"modelUrl"`
	MinPoseScore          *float64                `yaml:"minPoseScore"`
	MultiPoseMaxDimension *int                    `yaml:"multiPoseMaxDimension"`
	EnableTracking        *bool                   `yaml:"enableTracking"`
	TrackerType           model.TrackerType       `yaml:"trackerType"`
	Tracker               TrackerOptions          `yaml:"tracker"`
}

// TrackerOptions hold the tracker settings. The keypoint fields are ignored
// by the bounding box tracker.
type TrackerOptions struct {
	MaxTracks                   int       `yaml:"maxTracks"`
	MaxAge                      int       `yaml:"maxAge"`
	MinSimilarity               float64   `yaml:"minSimilarity"`
	KeypointConfidenceThreshold float64   `yaml:"keypointConfidenceThreshold"`
	KeypointFalloff             []float64 `yaml:"keypointFalloff"`
	MinNumberOfKeypoints        int       `yaml:"minNumberOfKeypoints"`
}

func (m ModelConfig) validate() error {
	switch m.Name {
	case model.NamePoseNet, model.NameBlazePose, model.NameMoveNet:
	default:
		return fmt.Errorf("model.name: unknown model %q", m.Name)
	}

	if o := m.PoseNet; o != nil && m.Name == model.NamePoseNet {
		switch o.Architecture {
		case model.ResNet50, model.MobileNetV1:
		default:
			return fmt.Errorf("model.posenet.architecture: unknown architecture %q", o.Architecture)
		}
		switch o.OutputStride {
		case model.OutputStride8, model.OutputStride16, model.OutputStride32:
		default:
			return fmt.Errorf("model.posenet.outputStride: must be 8, 16 or 32, got %d", o.OutputStride)
		}
		if o.InputResolution.Width <= 0 || o.InputResolution.Height <= 0 {
			return errors.New("model.posenet.inputResolution: width and height must be positive")
		}
	}

	if o := m.BlazePose; o != nil && m.Name == model.NameBlazePose {
		switch o.Runtime {
		case model.RuntimeMediaPipe, model.RuntimeTfjs:
		default:
			return fmt.Errorf("model.blazepose.runtime: unknown runtime %q", o.Runtime)
		}
	}

	if o := m.MoveNet; o != nil && m.Name == model.NameMoveNet {
		switch o.TrackerType {
		case "", model.TrackerKeypoint, model.TrackerBoundingBox:
		default:
			return fmt.Errorf("model.movenet.trackerType: unknown tracker %q", o.TrackerType)
		}
	}
	return nil
}

// Build returns the typed model. A missing options section yields a model
// with no configuration, which makes the engine use its defaults.
func (m ModelConfig) Build() (model.Model, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	switch m.Name {
	case model.NamePoseNet:
		if m.PoseNet == nil {
			return model.PoseNet{}, nil
		}
		o := m.PoseNet
		return model.PoseNet{Config: &model.PoseNetConfig{
			Architecture:    o.Architecture,
			OutputStride:    o.OutputStride,
			InputResolution: o.InputResolution,
			Multiplier:      o.Multiplier,
			ModelURL:        o.ModelURL,
			QuantBytes:      o.QuantBytes,
		}}, nil

	case model.NameBlazePose:
		if m.BlazePose == nil {
			return model.BlazePose{}, nil
		}
		o := m.BlazePose
		cfg := &model.BlazePoseConfig{
			EnableSmoothing:    o.EnableSmoothing,
			EnableSegmentation: o.EnableSegmentation,
			SmoothSegmentation: o.SmoothSegmentation,
			ModelType:          o.ModelType,
		}
		if o.Runtime == model.RuntimeTfjs {
			cfg.Runtime = model.TfjsRuntime{DetectorModelURL: o.DetectorModelURL, LandmarkModelURL: o.LandmarkModelURL}
		} else {
			cfg.Runtime = model.MediaPipeRuntime{SolutionPath: o.SolutionPath}
		}
		return model.BlazePose{Config: cfg}, nil

	default:
		if m.MoveNet == nil {
			return model.MoveNet{}, nil
		}
		o := m.MoveNet
		cfg := &model.MoveNetConfig{
			EnableSmoothing:       o.EnableSmoothing,
			ModelType:             o.ModelType,
			ModelURL:              o.ModelURL,
			MinPoseScore:          o.MinPoseScore,
			MultiPoseMaxDimension: o.MultiPoseMaxDimension,
			EnableTracking:        o.EnableTracking,
		}
		limits := model.TrackerLimits{
			MaxTracks:     o.Tracker.MaxTracks,
			MaxAge:        o.Tracker.MaxAge,
			MinSimilarity: o.Tracker.MinSimilarity,
		}
		switch o.TrackerType {
		case model.TrackerKeypoint:
			cfg.Tracker = model.KeypointTracker{TrackerConfig: model.KeypointTrackerConfig{
				TrackerLimits: limits,
				KeypointTrackerParams: model.KeypointTrackerParams{
					KeypointConfidenceThreshold: o.Tracker.KeypointConfidenceThreshold,
					KeypointFalloff:             o.Tracker.KeypointFalloff,
					MinNumberOfKeypoints:        o.Tracker.MinNumberOfKeypoints,
				},
			}}
		case model.TrackerBoundingBox:
			cfg.Tracker = model.BoundingBoxTracker{TrackerConfig: model.BoundingBoxTrackerConfig{TrackerLimits: limits}}
		}
		return model.MoveNet{Config: cfg}, nil
	}
}
