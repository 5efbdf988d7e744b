package geometry

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// ringPoints places n labeled points evenly around a circle in the XY plane
func ringPoints(n int, cx, cy, radius float64) []Point3D {
	points := make([]Point3D, n)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = NewPoint3D(
			fmt.Sprintf("p%d", i),
			cx+radius*math.Cos(angle),
			cy+radius*math.Sin(angle),
			0,
		)
	}
	return points
}

// ring2D places n points evenly around a circle in plane coordinates
func ring2D(n int, a, b, radius float64) []Point2D {
	points := make([]Point2D, n)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(n)
		points[i] = NewPoint2D(a+radius*math.Cos(angle), b+radius*math.Sin(angle))
	}
	return points
}

// tiltedRing builds a ring of points in a plane through center with the given
// in-plane axes (which must be orthonormal)
func tiltedRing(n int, center, axisU, axisV Vector3, radius float64) []Point3D {
	points := make([]Point3D, n)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(n)
		pos := center.
			Add(axisU.Mul(radius * math.Cos(angle))).
			Add(axisV.Mul(radius * math.Sin(angle)))
		points[i] = NewPoint3D(fmt.Sprintf("t%d", i), pos.X, pos.Y, pos.Z)
	}
	return points
}

func assertVectorInDelta(t *testing.T, expected, actual Vector3, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta, msgAndArgs...)
	assert.InDelta(t, expected.Y, actual.Y, delta, msgAndArgs...)
	assert.InDelta(t, expected.Z, actual.Z, delta, msgAndArgs...)
}

func assertOrthonormal(t *testing.T, b PlaneBasis) {
	t.Helper()
	assert.InDelta(t, 1.0, b.Normal.Length(), 1e-9, "normal length")
	assert.InDelta(t, 1.0, b.BasisU.Length(), 1e-9, "basisU length")
	assert.InDelta(t, 1.0, b.BasisV.Length(), 1e-9, "basisV length")
	assert.InDelta(t, 0.0, b.Normal.Dot(b.BasisU), 1e-9, "normal·basisU")
	assert.InDelta(t, 0.0, b.Normal.Dot(b.BasisV), 1e-9, "normal·basisV")
	assert.InDelta(t, 0.0, b.BasisU.Dot(b.BasisV), 1e-9, "basisU·basisV")
}
