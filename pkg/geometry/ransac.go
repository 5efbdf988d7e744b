package geometry

import (
	"errors"
	"math/rand"
)

var (
	// ErrCollinear is returned when the only available sample has no circumcircle
	ErrCollinear = errors.New("points are collinear")

	// ErrNoConsensus is returned when no RANSAC trial produced a usable circle
	ErrNoConsensus = errors.New("no circle reached consensus")
)

// Sampler is the random source used to draw RANSAC samples.
// *rand.Rand satisfies it.
type Sampler interface {
	Intn(n int) int
}

// globalSampler draws from the process-wide math/rand source
type globalSampler struct{}

func (globalSampler) Intn(n int) int { return rand.Intn(n) }

// NewSeededSampler returns a deterministic sampler, so repeated fits of the
// same input give identical results.
func NewSeededSampler(seed int64) Sampler {
	//nolint:gosec
	return rand.New(rand.NewSource(seed))
}

// RansacOptions tunes RansacFit
type RansacOptions struct {
	// Iterations is the number of 3-point trials
	Iterations int
	// InlierThreshold is the maximum distance from the circumference for a
	// point to count as an inlier
	InlierThreshold float64
	// EarlyExitFraction stops sampling once this share of points are inliers
	EarlyExitFraction float64
	// Seed, when non-zero and Rand is nil, gives every fit its own sampler
	// seeded with it, so reusing the options repeats the same fit
	Seed int64
	// Rand draws sample indices and takes precedence over Seed. It is shared
	// by every fit using these options. Nil without a Seed uses the global
	// math/rand source.
	Rand Sampler
}

// DefaultRansacOptions returns the standard tuning: 100 trials, 2.5 unit
// inlier band, stop at 90% inliers.
func DefaultRansacOptions() RansacOptions {
	return RansacOptions{
		Iterations:        100,
		InlierThreshold:   2.5,
		EarlyExitFraction: 0.9,
	}
}

// withDefaults fills zero fields from DefaultRansacOptions
func (o RansacOptions) withDefaults() RansacOptions {
	d := DefaultRansacOptions()
	if o.Iterations <= 0 {
		o.Iterations = d.Iterations
	}
	if o.InlierThreshold <= 0 {
		o.InlierThreshold = d.InlierThreshold
	}
	if o.EarlyExitFraction <= 0 {
		o.EarlyExitFraction = d.EarlyExitFraction
	}
	switch {
	case o.Rand != nil:
	case o.Seed != 0:
		o.Rand = NewSeededSampler(o.Seed)
	default:
		o.Rand = globalSampler{}
	}
	return o
}

// RansacResult is a robust circle fit with the indices of the points that
// agree with it, in ascending order.
type RansacResult struct {
	Model   CircleModel `json:"model"`
	Inliers []int       `json:"inliers"`
}

// IsInlier reports whether point i is in the inlier set
func (r *RansacResult) IsInlier(i int) bool {
	for _, idx := range r.Inliers {
		if idx == i {
			return true
		}
		if idx > i {
			return false
		}
	}
	return false
}

// RansacFit fits a circle to points that may contain outliers.
//
// Each trial fits the exact circle through three distinct random points and
// counts the points within InlierThreshold of it; the trial with the most
// inliers wins. The winner is refined with KasaFit over its inliers and the
// inlier set recomputed against the refined circle. If the refinement is
// singular the raw three-point circle is kept.
//
// With exactly three points the circumcircle is returned directly.
func RansacFit(points []Point2D, opts RansacOptions) (*RansacResult, error) {
	n := len(points)
	if n < 3 {
		return nil, ErrTooFewPoints
	}
	opts = opts.withDefaults()

	if n == 3 {
		model, ok := FitThree(points[0], points[1], points[2])
		if !ok {
			return nil, ErrCollinear
		}
		return &RansacResult{Model: model, Inliers: []int{0, 1, 2}}, nil
	}

	earlyExit := int(opts.EarlyExitFraction*float64(n) + 1e-9)

	var best CircleModel
	var bestInliers []int
	for trial := 0; trial < opts.Iterations; trial++ {
		i0, i1, i2 := sampleThree(opts.Rand, n)
		model, ok := FitThree(points[i0], points[i1], points[i2])
		if !ok {
			continue
		}

		inliers := collectInliers(points, model, opts.InlierThreshold)
		if len(inliers) > len(bestInliers) {
			best = model
			bestInliers = inliers
		}

		if len(inliers) >= earlyExit {
			break
		}
	}

	if len(bestInliers) < 3 {
		return nil, ErrNoConsensus
	}

	subset := make([]Point2D, len(bestInliers))
	for i, idx := range bestInliers {
		subset[i] = points[idx]
	}
	if refined, ok := KasaFit(subset); ok {
		best = refined
		bestInliers = collectInliers(points, best, opts.InlierThreshold)
	}

	return &RansacResult{Model: best, Inliers: bestInliers}, nil
}

// sampleThree draws three distinct indices in [0, n), n >= 3
func sampleThree(s Sampler, n int) (int, int, int) {
	i0 := s.Intn(n)
	i1 := s.Intn(n)
	for i1 == i0 {
		i1 = s.Intn(n)
	}
	i2 := s.Intn(n)
	for i2 == i0 || i2 == i1 {
		i2 = s.Intn(n)
	}
	return i0, i1, i2
}

func collectInliers(points []Point2D, model CircleModel, threshold float64) []int {
	inliers := make([]int, 0, len(points))
	for i, p := range points {
		if model.DistanceTo(p) < threshold {
			inliers = append(inliers, i)
		}
	}
	return inliers
}
