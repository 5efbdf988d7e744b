package main

import (
	"fmt"

	"github.com/philipparndt/rigfit/pkg/geometry"
	"github.com/philipparndt/rigfit/pkg/report"
	"github.com/spf13/cobra"
)

type circleFlags struct {
	iterations int
	threshold  float64
	seed       int64
	ids        []string
	watch      bool
}

func (a *app) circleCommand() *cobra.Command {
	var f circleFlags

	cmd := &cobra.Command{
		Use:   "circle [layout]",
		Short: "Fit a circle through ring-shaped fixtures",
		Long: `Fit a circle through the fixtures with RANSAC, rejecting stray fixtures,
and report where each fixture sits around the ring.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.ransacOptions(cmd, f)
			return a.runWatched(cmd, args[0], f.watch, func() error {
				return a.fitCircle(cmd, args[0], f.ids, opts)
			})
		},
	}

	defaults := geometry.DefaultRansacOptions()
	cmd.Flags().IntVar(&f.iterations, "iterations", defaults.Iterations, "number of RANSAC trials")
	cmd.Flags().Float64Var(&f.threshold, "threshold", defaults.InlierThreshold, "inlier distance from the circle")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "random seed for repeatable fits (0 = random)")
	cmd.Flags().StringSliceVar(&f.ids, "ids", nil, "only fit these fixture ids")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "refit whenever the layout changes")

	return cmd
}

// ransacOptions layers explicitly set flags over the config values
func (a *app) ransacOptions(cmd *cobra.Command, f circleFlags) geometry.RansacOptions {
	opts := a.cfg.RansacOptions()
	if cmd.Flags().Changed("iterations") {
		opts.Iterations = f.iterations
	}
	if cmd.Flags().Changed("threshold") {
		opts.InlierThreshold = f.threshold
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed = f.seed
	}
	return opts
}

func (a *app) fitCircle(cmd *cobra.Command, path string, ids []string, opts geometry.RansacOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	l, err := loadLayout(ctx, path)
	if err != nil {
		return err
	}

	points := l.Points()
	if len(ids) > 0 {
		if points, err = l.Filter(ids); err != nil {
			return err
		}
	}

	logger.Debug("fitting circle", "fixtures", len(points), "iterations", opts.Iterations, "threshold", opts.InlierThreshold)
	result, err := geometry.FitCircle3D(points, opts)
	if err != nil {
		return fmt.Errorf("circle fit of %s (%d fixtures): %w", l.Name, len(points), err)
	}
	if result.Fallback {
		logger.Warn("no credible circle through the fixtures, using centroid approximation")
	}
	logger.Debug("circle fitted", "radius", result.Radius, "inliers", result.InlierCount)

	return a.emit(cmd, result, func() { report.WriteCircle(cmd.OutOrStdout(), result) })
}
