package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayusman/posebridge/internal/detector"
)

func init() {
	rootCmd.AddCommand(pairsCmd)
}

var pairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "List the skeleton edges of the configured model",
	Args:  cobra.NoArgs,
	RunE:  runPairs,
}

func runPairs(cmd *cobra.Command, args []string) error {
	m, err := cfg.Model.Build()
	if err != nil {
		return err
	}

	engine, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	pairs, err := detector.AdjacentPairs(engine, m)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		fmt.Fprintf(cmd.OutOrStdout(), "%d-%d\n", p.A, p.B)
	}
	return nil
}
