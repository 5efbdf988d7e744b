package geometry

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMirrorPairsExactPairs(t *testing.T) {
	points := []Point3D{
		NewPoint3D("r1", 1, 0, 0),
		NewPoint3D("l1", -1, 0, 0),
		NewPoint3D("r2", 2, 1, 0),
		NewPoint3D("l2", -2, 1, 0),
	}

	result := FindMirrorPairs(points, DefaultMirrorOptions())

	assert.InDelta(t, 0.0, result.CenterX, 1e-12)
	assert.Empty(t, result.Unmatched)
	require.Len(t, result.Pairs, 2)

	// Outermost points are matched first
	assert.Equal(t, 2, result.Pairs[0].IndexA)
	assert.Equal(t, 3, result.Pairs[0].IndexB)
	assert.Equal(t, 0, result.Pairs[1].IndexA)
	assert.Equal(t, 1, result.Pairs[1].IndexB)
	for _, p := range result.Pairs {
		assert.InDelta(t, 0.0, p.Error, 1e-12)
	}
}

func TestFindMirrorPairsWithUnpairedFixture(t *testing.T) {
	points := []Point3D{
		NewPoint3D("r1", 1, 0, 2),
		NewPoint3D("l1", -1.1, 0, 2),
		NewPoint3D("r2", 2, 1, 2),
		NewPoint3D("l2", -2, 1.05, 2),
		NewPoint3D("r3", 3, 0.5, 3),
		NewPoint3D("l3", -3, 0.5, 3.1),
		NewPoint3D("odd", 0.35, 5, 2),
	}

	result := FindMirrorPairs(points, DefaultMirrorOptions())

	// Mean x is about 0.036, snapped onto the origin
	assert.Equal(t, 0.0, result.CenterX)
	assert.Len(t, result.Pairs, 3)
	assert.Equal(t, []int{6}, result.Unmatched)
	for _, p := range result.Pairs {
		assert.Less(t, p.Error, 0.2)
	}
}

func TestFindMirrorPairsOffsetAxis(t *testing.T) {
	points := []Point3D{
		NewPoint3D("a", 3, 0, 0),
		NewPoint3D("b", 5, 0, 0),
		NewPoint3D("c", 2, 1, 1),
		NewPoint3D("d", 6, 1, 1),
	}

	result := FindMirrorPairs(points, DefaultMirrorOptions())

	assert.InDelta(t, 4.0, result.CenterX, 1e-12)
	assert.Len(t, result.Pairs, 2)
	assert.Empty(t, result.Unmatched)
}

func TestFindMirrorPairsSnapTolerance(t *testing.T) {
	points := []Point3D{
		NewPoint3D("a", 1.2, 0, 0),
		NewPoint3D("b", -0.8, 0, 0),
	}

	result := FindMirrorPairs(points, DefaultMirrorOptions())
	assert.InDelta(t, 0.2, result.CenterX, 1e-12, "0.2 is outside the default snap")
	assert.Len(t, result.Pairs, 1)

	opts := DefaultMirrorOptions()
	opts.SnapTolerance = 0.25
	result = FindMirrorPairs(points, opts)
	assert.Equal(t, 0.0, result.CenterX)
	// Around x = 0 the expected partner of 1.2 is -1.2, 0.4 away from -0.8
	assert.Len(t, result.Pairs, 1)
	assert.InDelta(t, 0.4, result.Pairs[0].Error, 1e-12)
}

func TestFindMirrorPairsThreshold(t *testing.T) {
	points := []Point3D{
		NewPoint3D("a", 2, 0, 0),
		NewPoint3D("b", -2, 0.4, 0),
	}

	result := FindMirrorPairs(points, DefaultMirrorOptions())
	assert.Len(t, result.Pairs, 1)

	result = FindMirrorPairs(points, MirrorOptions{Threshold: 0.3, SnapTolerance: 0.1})
	assert.Empty(t, result.Pairs)
	assert.Equal(t, []int{0, 1}, result.Unmatched)
}

func TestFindMirrorPairsFewPoints(t *testing.T) {
	var result *MirrorPairResult
	require.NotPanics(t, func() { result = FindMirrorPairs(nil, DefaultMirrorOptions()) })
	assert.Empty(t, result.Pairs)
	assert.Empty(t, result.Unmatched)
	assert.Equal(t, PlaneExtents{}, result.PlaneExtents)

	result = FindMirrorPairs([]Point3D{NewPoint3D("solo", 4, 1, 2)}, DefaultMirrorOptions())
	assert.Empty(t, result.Pairs)
	assert.Equal(t, []int{0}, result.Unmatched)
	assert.Equal(t, 4.0, result.CenterX)
}

func TestFindMirrorPairsPlaneExtents(t *testing.T) {
	points := []Point3D{
		NewPoint3D("a", 1, -2, 3),
		NewPoint3D("b", -1, 4, 0.5),
		NewPoint3D("c", 7, 1, 9),
	}

	result := FindMirrorPairs(points, DefaultMirrorOptions())
	assert.Equal(t, PlaneExtents{MinY: -2, MaxY: 4, MinZ: 0.5, MaxZ: 9}, result.PlaneExtents)
}

func TestFindMirrorPairsPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(30)
		points := make([]Point3D, 0, n)
		for len(points) < n {
			x, y, z := rng.Float64()*4-2, rng.Float64()*2, rng.Float64()
			points = append(points, NewPoint3D(fmt.Sprintf("f%d", len(points)), x, y, z))
			// Mirror roughly half of them so pairs actually form
			if len(points) < n && rng.Intn(2) == 0 {
				points = append(points, NewPoint3D(fmt.Sprintf("f%d", len(points)), -x+rng.Float64()*0.2, y, z))
			}
		}

		result := FindMirrorPairs(points, DefaultMirrorOptions())

		seen := make(map[int]int)
		for _, p := range result.Pairs {
			assert.NotEqual(t, p.IndexA, p.IndexB)
			assert.Less(t, p.Error, 0.5)
			seen[p.IndexA]++
			seen[p.IndexB]++
		}
		for _, idx := range result.Unmatched {
			seen[idx]++
		}

		assert.Equal(t, n, 2*len(result.Pairs)+len(result.Unmatched), "trial %d", trial)
		for i := 0; i < n; i++ {
			assert.Equal(t, 1, seen[i], "trial %d index %d", trial, i)
		}
	}
}

func TestFindMirrorPairsIsDeterministic(t *testing.T) {
	points := []Point3D{
		NewPoint3D("a", 1, 0, 0),
		NewPoint3D("b", -1, 0.1, 0),
		NewPoint3D("c", -0.9, 0, 0),
		NewPoint3D("d", 3, 2, 1),
		NewPoint3D("e", -3, 2, 1.2),
	}
	before := append([]Point3D(nil), points...)

	first := FindMirrorPairs(points, DefaultMirrorOptions())
	second := FindMirrorPairs(points, DefaultMirrorOptions())

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("FindMirrorPairs not deterministic (-first +second):\n%s", diff)
	}
	assert.Equal(t, before, points, "input must not be mutated")
}

func TestFindMirrorPairsZeroOptions(t *testing.T) {
	points := []Point3D{
		NewPoint3D("a", 1.05, 0, 0),
		NewPoint3D("b", -0.95, 0, 0),
		NewPoint3D("c", 2.05, 1, 0),
		NewPoint3D("d", -1.95, 1, 0),
	}

	// Zero threshold takes the default, zero snap tolerance keeps the mean
	result := FindMirrorPairs(points, MirrorOptions{})
	assert.InDelta(t, 0.05, result.CenterX, 1e-12)
	assert.Len(t, result.Pairs, 2)
	for _, p := range result.Pairs {
		assert.InDelta(t, 0.0, p.Error, 1e-12)
	}

	result = FindMirrorPairs(points, DefaultMirrorOptions())
	assert.Equal(t, 0.0, result.CenterX)
	assert.Len(t, result.Pairs, 2)
}
