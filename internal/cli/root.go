// Package cli implements the posebridge command-line interface using Cobra.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ayusman/posebridge/internal/config"
	"github.com/ayusman/posebridge/internal/logger"
)

var (
	configPath string
	useMock    bool
	logLevel   string

	cfg *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "Use the in-process mock engine instead of the bridge")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
}

var rootCmd = &cobra.Command{
	Use:   "posebridge",
	Short: "posebridge - pose estimation through an external engine",
	Long: `posebridge drives a PoseNet, BlazePose or MoveNet detector living in an
external pose engine and reports the poses it finds in images, videos and
camera streams.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { logger.Sync() },
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg = config.Default()
	}
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	if err := logger.Init(cfg.Log.Development, level); err != nil {
		return err
	}
	logger.S().Debugw("configuration loaded",
		"path", configPath,
		"model", cfg.Model.Name,
		"transport", cfg.Engine.Transport,
	)
	return nil
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
