package geometry

import "math"

// maxRadiusRatio bounds a fitted radius relative to the spread of the points.
// Beyond it the points are treated as a line, not an arc.
const maxRadiusRatio = 10.0

// FixtureFitInfo describes one input point relative to a fitted circle
type FixtureFitInfo struct {
	ID       string  `json:"id"`
	Position Vector3 `json:"position"`
	// AngularPosition is the position around the circle normalised to [0, 1)
	AngularPosition float64 `json:"angularPosition"`
	// DistanceFromCircle is measured within the fitted plane, between the
	// projected position and the circle. Height off the plane is ignored,
	// matching how inliers are classified.
	DistanceFromCircle float64 `json:"distanceFromCircle"`
	IsInlier           bool    `json:"isInlier"`
}

// CircleFitResult is a circle fitted in 3D space
type CircleFitResult struct {
	Center   Vector3          `json:"center"`
	Radius   float64          `json:"radius"`
	Normal   Vector3          `json:"normal"`
	BasisU   Vector3          `json:"basisU"`
	BasisV   Vector3          `json:"basisV"`
	Centroid Vector3          `json:"centroid"`
	Fixtures []FixtureFitInfo `json:"fixtures"`

	InlierCount int `json:"inlierCount"`
	// StdDev is the RMS distance of the inliers from the circle
	StdDev float64 `json:"stdDev"`
	// Fallback is set when the circle was approximated from the centroid
	// because no credible fit existed
	Fallback bool `json:"fallback"`
}

// FitCircle3D fits a circle through fixtures arranged in a ring.
//
// The points are projected onto their best-fit plane, a circle is fitted in
// the plane with RansacFit, and the result is mapped back into 3D. Every
// input point, inlier or not, gets an angular position and its distance from
// the circle.
//
// Nearly collinear input produces a huge RANSAC radius; when the radius
// exceeds ten times the spread of the points, or RANSAC finds nothing, the
// circle falls back to the centroid with the mean distance as radius and all
// points as inliers.
//
// The only error is ErrTooFewPoints.
func FitCircle3D(points []Point3D, opts RansacOptions) (*CircleFitResult, error) {
	plane, err := FitPlane(points)
	if err != nil {
		return nil, err
	}

	var boundingRadius, meanRadius float64
	for _, p := range plane.Projected {
		d := math.Hypot(p.U, p.V)
		boundingRadius = math.Max(boundingRadius, d)
		meanRadius += d
	}
	meanRadius /= float64(len(plane.Projected))

	// Without a credible fit every fixture counts towards the approximation
	model := CircleModel{A: 0, B: 0, R: meanRadius}
	inlier := func(int) bool { return true }
	fallback := true

	if fit, err := RansacFit(plane.Projected, opts); err == nil && fit.Model.R <= maxRadiusRatio*boundingRadius {
		model = fit.Model
		inlier = fit.IsInlier
		fallback = false
	}

	result := &CircleFitResult{
		Center:   plane.Unproject(model.A, model.B),
		Radius:   model.R,
		Normal:   plane.Basis.Normal,
		BasisU:   plane.Basis.BasisU,
		BasisV:   plane.Basis.BasisV,
		Centroid: plane.Centroid,
		Fixtures: make([]FixtureFitInfo, len(points)),
		Fallback: fallback,
	}

	var sumSq float64
	for i, p := range plane.Projected {
		dist := model.DistanceTo(p)
		result.Fixtures[i] = FixtureFitInfo{
			ID:                 p.ID,
			Position:           p.Original.Vec(),
			AngularPosition:    AngularPosition(p, model),
			DistanceFromCircle: dist,
			IsInlier:           inlier(i),
		}
		if result.Fixtures[i].IsInlier {
			result.InlierCount++
			sumSq += dist * dist
		}
	}
	if result.InlierCount > 0 {
		result.StdDev = math.Sqrt(sumSq / float64(result.InlierCount))
	}

	return result, nil
}

// AngularPosition returns where p sits around the circle as a fraction of a
// full turn in [0, 1), measured from the negative U axis.
func AngularPosition(p Point2D, c CircleModel) float64 {
	angle := math.Atan2(p.V-c.B, p.U-c.A)
	pos := (angle + math.Pi) / (2 * math.Pi)
	if pos >= 1 {
		pos -= 1
	}
	return pos
}
