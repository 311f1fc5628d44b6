// Package config loads posebridge settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/posebridge/internal/frame"
	"github.com/ayusman/posebridge/internal/model"
)

// Transports.
const (
	TransportProcess = "process"
	TransportHTTP    = "http"
)

// BackendEnv is the environment variable the bridge process reads its
// compute backend from.
const BackendEnv = "POSEBRIDGE_BACKEND"

// Config is the top-level configuration file.
type Config struct {
	Engine     EngineConfig     `yaml:"engine"`
	Model      ModelConfig      `yaml:"model"`
	Estimation EstimationConfig `yaml:"estimation"`
	Capture    CaptureConfig    `yaml:"capture"`
	Log        LogConfig        `yaml:"log"`
}

// EngineConfig says how to reach the engine bridge.
type EngineConfig struct {
	Transport string            `yaml:"transport"`
	Command   string            `yaml:"command"`
	Args      []string          `yaml:"args"`
	URL       string            `yaml:"url"`
	Timeout   time.Duration     `yaml:"timeout"`
	Backend   model.BackendName `yaml:"backend"`
}

// EstimationConfig holds the per-frame estimation options. ScoreThreshold
// and NMSRadius only apply to PoseNet.
type EstimationConfig struct {
	MaxPoses       *int     `yaml:"maxPoses"`
	FlipHorizontal *bool    `yaml:"flipHorizontal"`
	ScoreThreshold *float64 `yaml:"scoreThreshold"`
	NMSRadius      *float64 `yaml:"nmsRadius"`
}

// CaptureConfig selects the frame source for watch. File wins over Device.
type CaptureConfig struct {
	Device    int            `yaml:"device"`
	File      string         `yaml:"file"`
	FPS       int            `yaml:"fps"`
	MinChange float64        `yaml:"minChange"`
	Encoding  frame.Encoding `yaml:"encoding"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file is given: a MoveNet
// detector behind a local "node bridge.js" process.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Transport: TransportProcess,
			Command:   "node",
			Args:      []string{"bridge.js"},
			Timeout:   30 * time.Second,
			Backend:   model.BackendWebGL,
		},
		Model:   ModelConfig{Name: model.NameMoveNet},
		Capture: CaptureConfig{FPS: 10, Encoding: frame.JPEG},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads path on top of Default. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot accept.
func (c *Config) Validate() error {
	var errs []error

	switch c.Engine.Transport {
	case TransportProcess:
		if c.Engine.Command == "" {
			errs = append(errs, errors.New("engine.command is required for the process transport"))
		}
	case TransportHTTP:
		if c.Engine.URL == "" {
			errs = append(errs, errors.New("engine.url is required for the http transport"))
		}
	default:
		errs = append(errs, fmt.Errorf("engine.transport: unknown transport %q", c.Engine.Transport))
	}
	if c.Engine.Backend != "" && !c.Engine.Backend.Valid() {
		errs = append(errs, fmt.Errorf("engine.backend: unknown backend %q", c.Engine.Backend))
	}
	if c.Engine.Timeout < 0 {
		errs = append(errs, errors.New("engine.timeout must not be negative"))
	}

	if err := c.Model.validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Model.Name != model.NamePoseNet && (c.Estimation.ScoreThreshold != nil || c.Estimation.NMSRadius != nil) {
		errs = append(errs, fmt.Errorf("estimation.scoreThreshold and estimation.nmsRadius only apply to %s", model.NamePoseNet))
	}

	switch c.Capture.Encoding {
	case "", frame.PNG, frame.JPEG:
	default:
		errs = append(errs, fmt.Errorf("capture.encoding: unknown encoding %q", c.Capture.Encoding))
	}
	if c.Capture.MinChange < 0 || c.Capture.MinChange > 100 {
		errs = append(errs, errors.New("capture.minChange must be between 0 and 100"))
	}

	return errors.Join(errs...)
}

// EstimationFor returns the estimation options in the shape the configured
// model expects, or nil when none are set.
func (c *Config) EstimationFor() model.EstimationConfig {
	e := c.Estimation
	common := model.CommonEstimation{MaxPoses: e.MaxPoses, FlipHorizontal: e.FlipHorizontal}

	if c.Model.Name == model.NamePoseNet {
		if e == (EstimationConfig{}) {
			return nil
		}
		return model.PoseNetEstimation{
			CommonEstimation: common,
			ScoreThreshold:   e.ScoreThreshold,
			NMSRadius:        e.NMSRadius,
		}
	}
	if common == (model.CommonEstimation{}) {
		return nil
	}
	return common
}
