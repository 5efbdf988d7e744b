package geometry

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CircleModel is a circle in a 2D coordinate system: center (A, B), radius R
type CircleModel struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	R float64 `json:"r"`
}

// Center returns the circle center as a plane point
func (c CircleModel) Center() Point2D {
	return NewPoint2D(c.A, c.B)
}

// DistanceTo returns how far p lies from the circle's circumference
func (c CircleModel) DistanceTo(p Point2D) float64 {
	return math.Abs(math.Hypot(p.U-c.A, p.V-c.B) - c.R)
}

// FitThree returns the circle through three points.
// Collinear points have no circumcircle and report false.
//
// Uses the 3-point determinant formula:
//
//	D  = 2(x₁(y₂-y₃) + x₂(y₃-y₁) + x₃(y₁-y₂))
//	cx = ((x₁²+y₁²)(y₂-y₃) + (x₂²+y₂²)(y₃-y₁) + (x₃²+y₃²)(y₁-y₂)) / D
//	cy = ((x₁²+y₁²)(x₃-x₂) + (x₂²+y₂²)(x₁-x₃) + (x₃²+y₃²)(x₂-x₁)) / D
func FitThree(p1, p2, p3 Point2D) (CircleModel, bool) {
	x1, y1 := p1.U, p1.V
	x2, y2 := p2.U, p2.V
	x3, y3 := p3.U, p3.V

	d := 2.0 * (x1*(y2-y3) + x2*(y3-y1) + x3*(y1-y2))
	if math.Abs(d) < degenerateEpsilon {
		return CircleModel{}, false
	}

	s1 := x1*x1 + y1*y1
	s2 := x2*x2 + y2*y2
	s3 := x3*x3 + y3*y3

	a := (s1*(y2-y3) + s2*(y3-y1) + s3*(y1-y2)) / d
	b := (s1*(x3-x2) + s2*(x1-x3) + s3*(x2-x1)) / d

	return CircleModel{A: a, B: b, R: math.Hypot(x1-a, y1-b)}, true
}

// KasaFit is the algebraic least-squares circle fit of Kåsa.
//
// Writing the circle as u²+v² = 2au + 2bv + c makes the problem linear in
// (a, b, c). The 3x3 normal equations are solved with Cramer's rule and the
// radius recovered as sqrt(a²+b²+c). Fewer than three points, a singular
// system or a non-positive squared radius report false.
func KasaFit(points []Point2D) (CircleModel, bool) {
	n := len(points)
	if n < 3 {
		return CircleModel{}, false
	}

	var su, sv, suu, svv, suv, suuu, svvv, suuv, suvv float64
	for _, p := range points {
		u, v := p.U, p.V
		su += u
		sv += v
		suu += u * u
		svv += v * v
		suv += u * v
		suuu += u * u * u
		svvv += v * v * v
		suuv += u * u * v
		suvv += u * v * v
	}

	ata := mat.NewDense(3, 3, []float64{
		4 * suu, 4 * suv, 2 * su,
		4 * suv, 4 * svv, 2 * sv,
		2 * su, 2 * sv, float64(n),
	})
	atz := []float64{
		2 * (suuu + suvv),
		2 * (suuv + svvv),
		suu + svv,
	}

	det := mat.Det(ata)
	if math.Abs(det) < degenerateEpsilon {
		return CircleModel{}, false
	}

	var sol [3]float64
	for col := range sol {
		m := mat.DenseCopyOf(ata)
		m.SetCol(col, atz)
		sol[col] = mat.Det(m) / det
	}

	a, b, c := sol[0], sol[1], sol[2]
	r2 := a*a + b*b + c
	if r2 <= 0 {
		return CircleModel{}, false
	}
	return CircleModel{A: a, B: b, R: math.Sqrt(r2)}, true
}
