package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ayusman/posebridge/internal/detector"
	"github.com/ayusman/posebridge/internal/frame"
)

func init() {
	rootCmd.AddCommand(estimateCmd)
}

var estimateCmd = &cobra.Command{
	Use:   "estimate IMAGE",
	Short: "Estimate the poses in an image file",
	Long:  `Load the configured model, estimate the poses in IMAGE and print them as JSON.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEstimate,
}

func runEstimate(cmd *cobra.Command, args []string) error {
	img, err := frame.Read(args[0], cfg.Capture.Encoding)
	if err != nil {
		return err
	}

	m, err := cfg.Model.Build()
	if err != nil {
		return err
	}

	engine, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	ctx, cancel := engineContext(cmd.Context())
	defer cancel()

	return detector.With(ctx, engine, m, func(h *detector.Handle) error {
		poses, err := h.Estimate(ctx, img, cfg.EstimationFor(), nil)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(poses)
	})
}
