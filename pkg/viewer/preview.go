// Package viewer renders a still preview of a rig layout with the results of
// the circle and mirror fits drawn over it.
package viewer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/philipparndt/rigfit/pkg/geometry"
)

const (
	fixtureRadius  = 4
	circleSegments = 96
)

var (
	backgroundColor = color.RGBA{24, 24, 28, 255}
	fixtureColor    = color.RGBA{240, 240, 240, 255}
	outlierColor    = color.RGBA{230, 60, 60, 255}
	unmatchedColor  = color.RGBA{255, 160, 40, 255}
	circleColor     = color.RGBA{80, 200, 120, 255}
	pairColor       = color.RGBA{230, 200, 60, 255}
	planeColor      = color.RGBA{50, 70, 110, 255}
)

// Scene is what gets drawn. Circle and Mirror are optional overlays.
type Scene struct {
	Fixtures []geometry.Point3D
	Circle   *geometry.CircleFitResult
	Mirror   *geometry.MirrorPairResult
}

// Options controls the image size and view direction
type Options struct {
	Width  int
	Height int
	// Pitch and Yaw orbit the camera away from the top-down view, in radians
	Pitch float64
	Yaw   float64
	// Zoom magnifies the view; 0 and 1 keep the framing that fits the rig
	Zoom float64
}

// DefaultOptions is an 800x600 top-down view
func DefaultOptions() Options {
	return Options{Width: 800, Height: 600}
}

type frame struct {
	img    *image.RGBA
	camera *Camera
}

func (f *frame) project(p geometry.Vector3) (int, int) {
	b := f.img.Bounds()
	x, y, _ := f.camera.Project(p, float64(b.Dx()), float64(b.Dy()))
	return int(math.Round(x)), int(math.Round(y))
}

func (f *frame) line(a, b geometry.Vector3, col color.RGBA) {
	x1, y1 := f.project(a)
	x2, y2 := f.project(b)
	limit := 8 * (f.img.Bounds().Dx() + f.img.Bounds().Dy())
	if abs(x1) > limit || abs(y1) > limit || abs(x2) > limit || abs(y2) > limit {
		return
	}
	drawLine(f.img, x1, y1, x2, y2, col)
}

func (f *frame) triangle(a, b, c geometry.Vector3, col color.RGBA) {
	b0 := f.img.Bounds()
	w, h := float64(b0.Dx()), float64(b0.Dy())
	x1, y1, _ := f.camera.Project(a, w, h)
	x2, y2, _ := f.camera.Project(b, w, h)
	x3, y3, _ := f.camera.Project(c, w, h)
	fillTriangle(f.img, x1, y1, x2, y2, x3, y3, col)
}

// newFrame sets up an image and a camera that frames everything in the scene
func newFrame(scene Scene, opts Options) *frame {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}

	bbox := geometry.BoundsOf(scene.Fixtures)
	if c := scene.Circle; c != nil && len(scene.Fixtures) > 0 {
		for _, axis := range []geometry.Vector3{c.BasisU, c.BasisV} {
			bbox.Extend(c.Center.Add(axis.Mul(c.Radius)))
			bbox.Extend(c.Center.Sub(axis.Mul(c.Radius)))
		}
	}

	camera := NewCamera(bbox)
	camera.Rotate(opts.Pitch, opts.Yaw)
	if opts.Zoom > 0 && opts.Zoom != 1 {
		camera.Zoom(1/opts.Zoom - 1)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	return &frame{img: img, camera: camera}
}

// Render draws the scene: the mirror plane first, then the fitted circle,
// mirror pair links and finally the fixtures on top
func Render(scene Scene, opts Options) *image.RGBA {
	f := newFrame(scene, opts)

	fixtureColors := make([]color.RGBA, len(scene.Fixtures))
	for i := range fixtureColors {
		fixtureColors[i] = fixtureColor
	}

	if m := scene.Mirror; m != nil && len(scene.Fixtures) > 0 {
		e := m.PlaneExtents
		corners := []geometry.Vector3{
			geometry.NewVector3(m.CenterX, e.MinY, e.MinZ),
			geometry.NewVector3(m.CenterX, e.MaxY, e.MinZ),
			geometry.NewVector3(m.CenterX, e.MaxY, e.MaxZ),
			geometry.NewVector3(m.CenterX, e.MinY, e.MaxZ),
		}
		f.triangle(corners[0], corners[1], corners[2], planeColor)
		f.triangle(corners[0], corners[2], corners[3], planeColor)
		for i := range corners {
			f.line(corners[i], corners[(i+1)%len(corners)], planeColor)
		}

		for _, p := range m.Pairs {
			f.line(scene.Fixtures[p.IndexA].Vec(), scene.Fixtures[p.IndexB].Vec(), pairColor)
		}
		for _, idx := range m.Unmatched {
			fixtureColors[idx] = unmatchedColor
		}
	}

	if c := scene.Circle; c != nil {
		point := func(i int) geometry.Vector3 {
			angle := 2 * math.Pi * float64(i) / circleSegments
			return c.Center.
				Add(c.BasisU.Mul(c.Radius * math.Cos(angle))).
				Add(c.BasisV.Mul(c.Radius * math.Sin(angle)))
		}
		for i := 0; i < circleSegments; i++ {
			f.line(point(i), point(i+1), circleColor)
		}

		for i, info := range c.Fixtures {
			if i < len(fixtureColors) && !info.IsInlier {
				fixtureColors[i] = outlierColor
			}
		}
	}

	for i, p := range scene.Fixtures {
		x, y := f.project(p.Vec())
		fillDisc(f.img, x, y, fixtureRadius, fixtureColors[i])
	}

	return f.img
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
