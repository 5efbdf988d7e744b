package main

import (
	"github.com/philipparndt/rigfit/pkg/report"
	"github.com/spf13/cobra"
)

func (a *app) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [layout]",
		Short: "Display general information about a rig layout",
		Long:  "Show the fixture count, bounding box, dimensions and closest fixture spacing of a layout.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLayout(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			info := report.AnalyzeLayout(l)
			return a.emit(cmd, info, func() { report.WriteInfo(cmd.OutOrStdout(), info) })
		},
	}
}
