package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVector3Arithmetic(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)

	assert.Equal(t, NewVector3(5, 7, 9), v1.Add(v2))
	assert.Equal(t, NewVector3(3, 3, 3), v2.Sub(v1))
	assert.Equal(t, NewVector3(2, 4, 6), v1.Mul(2))
	assert.InDelta(t, 32.0, v1.Dot(v2), 1e-10) // 1*4 + 2*5 + 3*6
}

func TestVector3Cross(t *testing.T) {
	x := NewVector3(1, 0, 0)
	y := NewVector3(0, 1, 0)

	assert.Equal(t, NewVector3(0, 0, 1), x.Cross(y))
	assert.Equal(t, NewVector3(0, 0, -1), y.Cross(x))
}

func TestVector3LengthAndDistance(t *testing.T) {
	assert.InDelta(t, 5.0, NewVector3(3, 4, 0).Length(), 1e-10)
	assert.InDelta(t, 5.0, NewVector3(0, 0, 0).Distance(NewVector3(3, 4, 0)), 1e-10)
}

func TestVector3Normalize(t *testing.T) {
	n := NewVector3(3, 4, 0).Normalize()
	assert.InDelta(t, 1.0, n.Length(), 1e-10)
	assert.InDelta(t, 0.6, n.X, 1e-10)
	assert.InDelta(t, 0.8, n.Y, 1e-10)

	assert.Equal(t, Vector3{}, Vector3{}.Normalize(), "zero vector should stay zero")
}

func TestPoint3DVec(t *testing.T) {
	p := NewPoint3D("spot-1", 1.5, -2, 3)
	assert.Equal(t, NewVector3(1.5, -2, 3), p.Vec())
}

func TestPoint2DDistance(t *testing.T) {
	a := NewPoint2D(0, 0)
	b := NewPoint2D(-3, 4)
	assert.InDelta(t, 5.0, a.Distance(b), 1e-10)
	assert.InDelta(t, 0.0, a.Distance(a), 1e-10)
}

func TestCentroid(t *testing.T) {
	points := []Point3D{
		NewPoint3D("a", 0, 0, 0),
		NewPoint3D("b", 2, 0, 0),
		NewPoint3D("c", 2, 4, 0),
		NewPoint3D("d", 0, 4, 6),
	}
	assert.Equal(t, NewVector3(1, 2, 1.5), Centroid(points))
	assert.Equal(t, Vector3{}, Centroid(nil))
}

func TestBoundingBox(t *testing.T) {
	bbox := NewBoundingBox()
	bbox.Extend(NewVector3(1, 2, 3))
	bbox.Extend(NewVector3(4, 5, 6))
	bbox.Extend(NewVector3(-1, 0, 2))

	assert.Equal(t, NewVector3(-1, 0, 2), bbox.Min)
	assert.Equal(t, NewVector3(4, 5, 6), bbox.Max)
	assert.Equal(t, NewVector3(5, 5, 4), bbox.Size())
	assert.Equal(t, NewVector3(1.5, 2.5, 4), bbox.Center())
	assert.InDelta(t, math.Sqrt(66), bbox.Diagonal(), 1e-10)
}

func TestBoundsOf(t *testing.T) {
	assert.Equal(t, BoundingBox{}, BoundsOf(nil))

	bbox := BoundsOf([]Point3D{
		NewPoint3D("a", 1, -1, 0),
		NewPoint3D("b", -2, 3, 5),
	})
	assert.Equal(t, NewVector3(-2, -1, 0), bbox.Min)
	assert.Equal(t, NewVector3(1, 3, 5), bbox.Max)
}
