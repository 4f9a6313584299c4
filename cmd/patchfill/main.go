// Command patchfill fills masked holes in an image, or a stack of SVBRDF maps sharing one mask,
// with multi-resolution PatchMatch running on the ebsynth backend.
//
// Usage:
//
//	patchfill run --albedo albedo.png --mask bmask0.png [--map normal.png ...] [--backend cuda]
//	patchfill plan --width 640 --height 480 --patchsize 5
//
// Synthesis defaults are read from the synthesis section of --config (config.yaml if present)
// and are overridden by the flags given on the command line.
package main

import (
	"fmt"
	"os"

	"github.com/TIANLI0/InpaintKit/utils"
	"github.com/spf13/cobra"
)

var Version = "dev"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "patchfill",
		Short:         "PatchMatch hole filling for images and material maps",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return utils.InitLogger("cli", verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			utils.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newRunCmd(), newPlanCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
