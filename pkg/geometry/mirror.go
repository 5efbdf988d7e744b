package geometry

import (
	"math"
	"sort"
)

// MirrorOptions tunes FindMirrorPairs. A zero Threshold falls back to the
// default, a zero SnapTolerance does not: it turns snapping off.
type MirrorOptions struct {
	// Threshold is the largest distance between a point's expected mirror
	// position and its partner. Values <= 0 use DefaultMirrorOptions.
	Threshold float64
	// SnapTolerance snaps the symmetry axis to x = 0 when the mean x is
	// closer to zero than this. Zero disables snapping.
	SnapTolerance float64
}

// DefaultMirrorOptions returns a 0.5 unit match threshold and 0.1 unit snap
func DefaultMirrorOptions() MirrorOptions {
	return MirrorOptions{Threshold: 0.5, SnapTolerance: 0.1}
}

// MirrorPair links two point indices mirrored across the symmetry plane
type MirrorPair struct {
	IndexA int     `json:"indexA"`
	IndexB int     `json:"indexB"`
	Error  float64 `json:"error"`
}

// PlaneExtents is the Y/Z rectangle covered by the input, used to draw the
// symmetry plane
type PlaneExtents struct {
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
	MinZ float64 `json:"minZ"`
	MaxZ float64 `json:"maxZ"`
}

// MirrorPairResult is the outcome of FindMirrorPairs.
// Pairs and Unmatched together contain every input index exactly once.
type MirrorPairResult struct {
	CenterX      float64      `json:"centerX"`
	Pairs        []MirrorPair `json:"pairs"`
	Unmatched    []int        `json:"unmatched"`
	PlaneExtents PlaneExtents `json:"planeExtents"`
}

// FindMirrorPairs matches points that mirror each other across the plane
// x = CenterX, where CenterX is the mean x of the input.
//
// Matching is greedy, outermost point first: each point claims the nearest
// unclaimed point to its expected mirror position if it lies within
// Threshold. Points left without a partner are reported as unmatched.
// Inputs with fewer than two points come back with every index unmatched.
func FindMirrorPairs(points []Point3D, opts MirrorOptions) *MirrorPairResult {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultMirrorOptions().Threshold
	}

	n := len(points)
	result := &MirrorPairResult{
		Pairs:     []MirrorPair{},
		Unmatched: []int{},
	}

	bounds := BoundsOf(points)
	result.PlaneExtents = PlaneExtents{
		MinY: bounds.Min.Y,
		MaxY: bounds.Max.Y,
		MinZ: bounds.Min.Z,
		MaxZ: bounds.Max.Z,
	}

	if n > 0 {
		result.CenterX = Centroid(points).X
		if math.Abs(result.CenterX) < opts.SnapTolerance {
			result.CenterX = 0
		}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	cx := result.CenterX
	sort.SliceStable(order, func(a, b int) bool {
		return math.Abs(points[order[a]].X-cx) > math.Abs(points[order[b]].X-cx)
	})

	matched := make([]bool, n)
	for _, i := range order {
		if matched[i] {
			continue
		}
		p := points[i]
		expected := NewVector3(2*cx-p.X, p.Y, p.Z)

		bestIdx := -1
		bestDist := math.Inf(1)
		for j := range points {
			if j == i || matched[j] {
				continue
			}
			if d := expected.Distance(points[j].Vec()); d < bestDist {
				bestIdx = j
				bestDist = d
			}
		}

		if bestIdx >= 0 && bestDist < opts.Threshold {
			matched[i] = true
			matched[bestIdx] = true
			result.Pairs = append(result.Pairs, MirrorPair{IndexA: i, IndexB: bestIdx, Error: bestDist})
		}
	}

	for i, m := range matched {
		if !m {
			result.Unmatched = append(result.Unmatched, i)
		}
	}
	return result
}
