package main

import (
	"fmt"

	"github.com/philipparndt/rigfit/pkg/geometry"
	"github.com/philipparndt/rigfit/pkg/report"
	"github.com/spf13/cobra"
)

func (a *app) planeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plane [layout]",
		Short: "Fit a plane through the fixtures",
		Long:  "Fit the least-squares plane through all fixtures and print each fixture's coordinates within it.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLayout(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fit, err := geometry.FitPlane(l.Points())
			if err != nil {
				return fmt.Errorf("plane fit of %s: %w", l.Name, err)
			}
			if fit.Degenerate {
				loggerFromContext(cmd.Context()).Warn("fixtures have no planar spread, using default basis")
			}

			return a.emit(cmd, fit, func() { report.WritePlane(cmd.OutOrStdout(), fit) })
		},
	}
}
