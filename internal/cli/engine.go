package cli

import (
	"context"

	"go.uber.org/zap"

	"github.com/ayusman/posebridge/internal/bridge"
	"github.com/ayusman/posebridge/internal/config"
	"github.com/ayusman/posebridge/internal/detector"
	"github.com/ayusman/posebridge/internal/logger"
)

// cocoPairs are the skeleton edges of the 17-keypoint COCO layout, used by
// the mock engine.
var cocoPairs = [][2]int{
	{0, 1}, {0, 2}, {1, 3}, {2, 4}, {5, 6}, {5, 7}, {5, 11}, {6, 8},
	{6, 12}, {7, 9}, {8, 10}, {11, 12}, {11, 13}, {12, 14}, {13, 15}, {14, 16},
}

// openEngine returns the engine selected by the flags and config, and a
// function releasing it.
func openEngine() (detector.Engine, func() error, error) {
	if useMock {
		m := detector.NewMockEngine()
		m.SetAdjacentPairs(cocoPairs)
		logger.Log().Debug("using mock engine")
		return m, func() error { return nil }, nil
	}

	e := cfg.Engine
	var t bridge.Transport
	switch e.Transport {
	case config.TransportHTTP:
		t = bridge.NewHTTP(e.URL, e.Timeout)
	default:
		var env []string
		if e.Backend != "" {
			env = append(env, config.BackendEnv+"="+e.Backend.String())
		}
		t = bridge.NewProcess(e.Command, e.Args, env...)
	}

	logger.Log().Debug("using engine bridge", zap.String("transport", e.Transport), zap.String("backend", e.Backend.String()))
	c := bridge.NewClient(t)
	return c, c.Close, nil
}

// engineContext bounds a single command by the configured engine timeout.
func engineContext(parent context.Context) (context.Context, context.CancelFunc) {
	if cfg.Engine.Timeout > 0 && !useMock {
		return context.WithTimeout(parent, cfg.Engine.Timeout)
	}
	return context.WithCancel(parent)
}
