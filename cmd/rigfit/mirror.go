package main

import (
	"github.com/philipparndt/rigfit/pkg/geometry"
	"github.com/philipparndt/rigfit/pkg/report"
	"github.com/spf13/cobra"
)

type mirrorFlags struct {
	threshold float64
	snap      float64
	watch     bool
}

// mirrorOutput is the JSON shape of the mirror command
type mirrorOutput struct {
	Fixtures []geometry.Point3D `json:"fixtures"`
	*geometry.MirrorPairResult
}

func (a *app) mirrorCommand() *cobra.Command {
	var f mirrorFlags

	cmd := &cobra.Command{
		Use:   "mirror [layout]",
		Short: "Find fixtures mirrored across the rig's symmetry plane",
		Long: `Pair up fixtures that mirror each other across a plane of constant x
through the middle of the rig. Fixtures without a partner are listed as unmatched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := a.mirrorOptions(cmd, f)
			return a.runWatched(cmd, args[0], f.watch, func() error {
				return a.matchMirrors(cmd, args[0], opts)
			})
		},
	}

	defaults := geometry.DefaultMirrorOptions()
	cmd.Flags().Float64Var(&f.threshold, "threshold", defaults.Threshold, "largest distance between a fixture's mirror image and its partner")
	cmd.Flags().Float64Var(&f.snap, "snap", defaults.SnapTolerance, "snap the symmetry plane to x = 0 within this distance")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "rematch whenever the layout changes")

	return cmd
}

func (a *app) mirrorOptions(cmd *cobra.Command, f mirrorFlags) geometry.MirrorOptions {
	opts := a.cfg.MirrorOptions()
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = f.threshold
	}
	if cmd.Flags().Changed("snap") {
		opts.SnapTolerance = f.snap
	}
	return opts
}

func (a *app) matchMirrors(cmd *cobra.Command, path string, opts geometry.MirrorOptions) error {
	ctx := cmd.Context()
	l, err := loadLayout(ctx, path)
	if err != nil {
		return err
	}

	points := l.Points()
	result := geometry.FindMirrorPairs(points, opts)
	loggerFromContext(ctx).Debug("mirror pairs", "centerX", result.CenterX, "pairs", len(result.Pairs), "unmatched", len(result.Unmatched))

	out := mirrorOutput{Fixtures: points, MirrorPairResult: result}
	return a.emit(cmd, out, func() { report.WriteMirror(cmd.OutOrStdout(), result, points) })
}
