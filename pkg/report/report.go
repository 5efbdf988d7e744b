package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/philipparndt/rigfit/pkg/geometry"
	"github.com/philipparndt/rigfit/pkg/layout"
)

// LayoutInfo summarises the extent of a layout
type LayoutInfo struct {
	Name         string               `json:"name"`
	FixtureCount int                  `json:"fixtureCount"`
	BoundingBox  geometry.BoundingBox `json:"boundingBox"`
	Dimensions   geometry.Vector3     `json:"dimensions"`
	Center       geometry.Vector3     `json:"center"`
	Diagonal     float64              `json:"diagonal"`
	// NearestSpacing is the smallest distance between two fixtures
	NearestSpacing float64 `json:"nearestSpacing"`
}

// AnalyzeLayout gathers the summary shown by the info command
func AnalyzeLayout(l *layout.Layout) *LayoutInfo {
	bbox := l.BoundingBox()
	info := &LayoutInfo{
		Name:         l.Name,
		FixtureCount: l.FixtureCount(),
		BoundingBox:  bbox,
		Dimensions:   bbox.Size(),
		Center:       bbox.Center(),
		Diagonal:     bbox.Diagonal(),
	}

	for i := range l.Fixtures {
		for j := i + 1; j < len(l.Fixtures); j++ {
			d := l.Fixtures[i].Vec().Distance(l.Fixtures[j].Vec())
			if info.NearestSpacing == 0 || d < info.NearestSpacing {
				info.NearestSpacing = d
			}
		}
	}

	return info
}

// FormatMeasurement formats a measurement with appropriate units
func FormatMeasurement(value float64, unit string) string {
	if unit == "" {
		unit = "units"
	}
	return fmt.Sprintf("%.6f %s", value, unit)
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}

// WriteJSON writes v as indented JSON
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
}

// WriteInfo prints a layout summary
func WriteInfo(w io.Writer, info *LayoutInfo) {
	heading(w, "Rig Layout Information")
	if info.Name != "" {
		fmt.Fprintf(w, "Name: %s\n", info.Name)
	}
	fmt.Fprintf(w, "Fixtures: %d\n\n", info.FixtureCount)

	fmt.Fprintln(w, "Bounding Box:")
	fmt.Fprintf(w, "  Min: %s\n", FormatVector(info.BoundingBox.Min))
	fmt.Fprintf(w, "  Max: %s\n", FormatVector(info.BoundingBox.Max))
	fmt.Fprintf(w, "  Center: %s\n\n", FormatVector(info.Center))

	fmt.Fprintln(w, "Dimensions:")
	fmt.Fprintf(w, "  Width (X): %s\n", FormatMeasurement(info.Dimensions.X, ""))
	fmt.Fprintf(w, "  Depth (Y): %s\n", FormatMeasurement(info.Dimensions.Y, ""))
	fmt.Fprintf(w, "  Height (Z): %s\n", FormatMeasurement(info.Dimensions.Z, ""))
	fmt.Fprintf(w, "  Diagonal: %s\n", FormatMeasurement(info.Diagonal, ""))
	if info.FixtureCount > 1 {
		fmt.Fprintf(w, "  Nearest spacing: %s\n", FormatMeasurement(info.NearestSpacing, ""))
	}
}

// WritePlane prints a plane fit with the projected coordinates of every fixture
func WritePlane(w io.Writer, fit *geometry.PlaneFit) {
	heading(w, "Best-Fit Plane")
	fmt.Fprintf(w, "Centroid: %s\n", FormatVector(fit.Centroid))
	fmt.Fprintf(w, "Normal:   %s\n", FormatVector(fit.Basis.Normal))
	fmt.Fprintf(w, "Basis U:  %s\n", FormatVector(fit.Basis.BasisU))
	fmt.Fprintf(w, "Basis V:  %s\n", FormatVector(fit.Basis.BasisV))
	if fit.Degenerate {
		fmt.Fprintln(w, "Warning: points have no planar spread, default basis used")
	}

	fmt.Fprintf(w, "\nProjected fixtures (%d):\n", len(fit.Projected))
	for _, p := range fit.Projected {
		fmt.Fprintf(w, "  %-20s u=%12.6f  v=%12.6f\n", p.ID, p.U, p.V)
	}
}

// WriteCircle prints a 3D circle fit and the placement of every fixture on it
func WriteCircle(w io.Writer, result *geometry.CircleFitResult) {
	heading(w, "Fitted Circle")
	fmt.Fprintf(w, "Center: %s\n", FormatVector(result.Center))
	fmt.Fprintf(w, "Radius: %s\n", FormatMeasurement(result.Radius, ""))
	fmt.Fprintf(w, "Normal: %s\n", FormatVector(result.Normal))
	fmt.Fprintf(w, "Inliers: %d of %d\n", result.InlierCount, len(result.Fixtures))
	fmt.Fprintf(w, "Std dev: %s\n", FormatMeasurement(result.StdDev, ""))
	if result.Fallback {
		fmt.Fprintln(w, "Warning: no credible circle, centroid approximation used")
	}

	fmt.Fprintln(w, "\nFixtures:")
	for _, f := range result.Fixtures {
		marker := " "
		if !f.IsInlier {
			marker = "x"
		}
		fmt.Fprintf(w, "  %s %-20s angle=%7.2f°  off=%10.6f\n",
			marker, f.ID, f.AngularPosition*360, f.DistanceFromCircle)
	}
}

// WriteMirror prints mirror pairs using the fixture ids of points
func WriteMirror(w io.Writer, result *geometry.MirrorPairResult, points []geometry.Point3D) {
	heading(w, "Mirror Pairs")
	fmt.Fprintf(w, "Symmetry plane: x = %.6f\n", result.CenterX)
	fmt.Fprintf(w, "Plane extents: y %.6f..%.6f, z %.6f..%.6f\n\n",
		result.PlaneExtents.MinY, result.PlaneExtents.MaxY,
		result.PlaneExtents.MinZ, result.PlaneExtents.MaxZ)

	fmt.Fprintf(w, "Pairs (%d):\n", len(result.Pairs))
	for _, p := range result.Pairs {
		fmt.Fprintf(w, "  %-20s <-> %-20s error=%.6f\n", points[p.IndexA].ID, points[p.IndexB].ID, p.Error)
	}

	if len(result.Unmatched) > 0 {
		fmt.Fprintf(w, "\nUnmatched (%d):\n", len(result.Unmatched))
		for _, idx := range result.Unmatched {
			fmt.Fprintf(w, "  %s %s\n", points[idx].ID, FormatVector(points[idx].Vec()))
		}
	}
}
