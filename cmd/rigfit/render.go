package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/rigfit/pkg/geometry"
	"github.com/philipparndt/rigfit/pkg/viewer"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	output string
	width  int
	height int
	pitch  float64
	yaw    float64
	zoom   float64
	circle bool
	mirror bool
}

func (a *app) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [layout]",
		Short: "Render a PNG preview of a rig layout",
		Long: `Draw the fixtures of a layout as seen from above, optionally with the
fitted circle and the mirror pairs overlaid. Pitch and yaw (degrees) orbit
the camera away from the top-down view; zoom above 1 moves it closer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.renderLayout(cmd, args[0], f)
		},
	}

	defaults := viewer.DefaultOptions()
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: layout name with .png)")
	cmd.Flags().IntVar(&f.width, "width", defaults.Width, "image width in pixels")
	cmd.Flags().IntVar(&f.height, "height", defaults.Height, "image height in pixels")
	cmd.Flags().Float64Var(&f.pitch, "pitch", 0, "camera pitch in degrees")
	cmd.Flags().Float64Var(&f.yaw, "yaw", 0, "camera yaw in degrees")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 1, "magnification relative to the fitted view")
	cmd.Flags().BoolVar(&f.circle, "circle", false, "overlay the fitted circle")
	cmd.Flags().BoolVar(&f.mirror, "mirror", false, "overlay the mirror plane and pairs")

	return cmd
}

func (a *app) renderLayout(cmd *cobra.Command, path string, f renderFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("image size must be positive, got %dx%d", f.width, f.height)
	}
	if f.zoom <= 0 {
		return fmt.Errorf("zoom must be positive, got %g", f.zoom)
	}

	l, err := loadLayout(ctx, path)
	if err != nil {
		return err
	}

	scene := viewer.Scene{Fixtures: l.Points()}
	if f.circle {
		result, err := geometry.FitCircle3D(scene.Fixtures, a.cfg.RansacOptions())
		if err != nil {
			logger.Warn("skipping circle overlay", "err", err)
		} else {
			scene.Circle = result
		}
	}
	if f.mirror {
		scene.Mirror = geometry.FindMirrorPairs(scene.Fixtures, a.cfg.MirrorOptions())
	}

	img := viewer.Render(scene, viewer.Options{
		Width:  f.width,
		Height: f.height,
		Pitch:  f.pitch * math.Pi / 180,
		Yaw:    f.yaw * math.Pi / 180,
		Zoom:   f.zoom,
	})

	output := f.output
	if output == "" {
		output = strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	}

	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := viewer.WritePNG(file, img); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	logger.Info("rendered preview", "output", output, "fixtures", len(scene.Fixtures))
	return nil
}
