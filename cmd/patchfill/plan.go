package main

import (
	"fmt"
	"io"

	"github.com/TIANLI0/InpaintKit/patchmatch"
	"github.com/spf13/cobra"
)

func newPlanCmd() *cobra.Command {
	var width, height, patchSize, levels int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the pyramid levels used for an image size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlan(cmd.OutOrStdout(), width, height, patchSize, levels)
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&width, "width", 0, "image width")
	fs.IntVar(&height, "height", 0, "image height")
	fs.IntVar(&patchSize, "patchsize", 5, "patch size")
	fs.IntVar(&levels, "pyramidlevels", patchmatch.AutoLevels, "requested pyramid levels, -1 for as many as fit")
	_ = cmd.MarkFlagRequired("width")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}

func printPlan(w io.Writer, width, height, patchSize, levels int) error {
	if width <= 0 || height <= 0 || patchSize < 1 {
		return fmt.Errorf("%w: width, height and patchsize must be positive", patchmatch.ErrInvalidOptions)
	}
	plan, err := patchmatch.PlanPyramid(width, height, patchSize, levels)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "maxlevels: %d\n", plan.MaxLevels)
	fmt.Fprintf(w, "pyramidlevels: %d\n", plan.Levels)
	for level := 0; level < plan.Levels; level++ {
		lw, lh := patchmatch.LevelSize(width, height, level)
		fmt.Fprintf(w, "level %d: %dx%d\n", level, lw, lh)
	}
	return nil
}
