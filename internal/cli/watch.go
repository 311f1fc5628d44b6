package cli

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/posebridge/internal/app"
	"github.com/ayusman/posebridge/internal/capture"
	"github.com/ayusman/posebridge/internal/pose"
)

func init() {
	watchCmd.Flags().IntVar(&watchDevice, "device", -1, "Camera device (overrides config)")
	watchCmd.Flags().StringVar(&watchFile, "file", "", "Video file to read instead of a camera (overrides config)")
	watchCmd.Flags().IntVar(&watchFPS, "fps", 0, "Frames per second (overrides config)")
	rootCmd.AddCommand(watchCmd)
}

var (
	watchDevice int
	watchFile   string
	watchFPS    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Estimate poses continuously from a camera or video file",
	Long: `Stream frames from a camera or video file through the configured model
and print one JSON line per estimated frame until interrupted or the
file ends.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

type watchLine struct {
	Frame       int         `json:"frame"`
	TimestampMs int64       `json:"timestampMs"`
	Poses       []pose.Pose `json:"poses"`
}

func runWatch(cmd *cobra.Command, args []string) error {
	m, err := cfg.Model.Build()
	if err != nil {
		return err
	}

	engine, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	src := newSource()
	fps := cfg.Capture.FPS
	if watchFPS > 0 {
		fps = watchFPS
	}
	src.SetFPS(fps)

	a := app.New(app.Config{
		Engine:     engine,
		Model:      m,
		Estimation: cfg.EstimationFor(),
		Encoding:   cfg.Capture.Encoding,
		MinChange:  cfg.Capture.MinChange,
	}, src)
	defer a.Close()

	enc := json.NewEncoder(cmd.OutOrStdout())
	a.OnPoses(func(r app.Result) {
		enc.Encode(watchLine{Frame: r.Frame, TimestampMs: r.Timestamp.Milliseconds(), Poses: r.Poses})
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := engineContext(ctx)
	defer cancel()
	if err := a.Start(startCtx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-a.Done():
	}
	if err := a.Close(); err != nil {
		return err
	}
	return a.Err()
}

func newSource() capture.Source {
	switch {
	case watchFile != "":
		return capture.NewFile(watchFile)
	case watchDevice >= 0:
		return capture.NewCamera(watchDevice)
	case cfg.Capture.File != "":
		return capture.NewFile(cfg.Capture.File)
	default:
		return capture.NewCamera(cfg.Capture.Device)
	}
}
