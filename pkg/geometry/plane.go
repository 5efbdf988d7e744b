package geometry

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

// powerIterations is the fixed iteration count of the eigenvector search.
// For a 3x3 covariance this converges well past display precision.
const powerIterations = 20

// degenerateEpsilon is the threshold below which a vector is treated as zero
const degenerateEpsilon = 1e-10

// ErrTooFewPoints is returned when a fit is requested with fewer points than
// the model needs (3 for planes and circles).
var ErrTooFewPoints = errors.New("too few points to fit")

// PlaneBasis is an orthonormal frame describing a best-fit plane.
// Normal is the direction of least variance; BasisU and BasisV span the plane.
type PlaneBasis struct {
	Normal Vector3 `json:"normal"`
	BasisU Vector3 `json:"basisU"`
	BasisV Vector3 `json:"basisV"`
}

// DefaultPlaneBasis is used when the point cloud has no usable spread
// (coincident or collinear points).
var DefaultPlaneBasis = PlaneBasis{
	Normal: Vector3{X: 0, Y: 0, Z: 1},
	BasisU: Vector3{X: 1, Y: 0, Z: 0},
	BasisV: Vector3{X: 0, Y: 1, Z: 0},
}

// PlaneFit is the result of FitPlane
type PlaneFit struct {
	Centroid   Vector3    `json:"centroid"`
	Basis      PlaneBasis `json:"basis"`
	Projected  []Point2D  `json:"projected"`
	Degenerate bool       `json:"degenerate"`
}

// Project expresses a 3D point in the plane's (u, v) coordinates
func (f *PlaneFit) Project(p Point3D) Point2D {
	d := p.Vec().Sub(f.Centroid)
	return Point2D{
		ID:       p.ID,
		U:        d.Dot(f.Basis.BasisU),
		V:        d.Dot(f.Basis.BasisV),
		Original: p,
	}
}

// Unproject maps plane coordinates back into 3D
func (f *PlaneFit) Unproject(u, v float64) Vector3 {
	return f.Centroid.Add(f.Basis.BasisU.Mul(u)).Add(f.Basis.BasisV.Mul(v))
}

// FitPlane finds the least-squares plane through points using principal
// component analysis and projects every point onto it.
//
// The two dominant eigenvectors of the covariance matrix are found by power
// iteration with deflation; their cross product is the plane normal. When the
// spread is too small to define two directions the DefaultPlaneBasis is used
// and the result is flagged Degenerate.
func FitPlane(points []Point3D) (*PlaneFit, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	centroid := Centroid(points)
	cov := covariance(points, centroid)

	basis, ok := principalBasis(cov)
	fit := &PlaneFit{
		Centroid:   centroid,
		Basis:      basis,
		Degenerate: !ok,
		Projected:  make([]Point2D, len(points)),
	}
	for i, p := range points {
		fit.Projected[i] = fit.Project(p)
	}
	return fit, nil
}

// Centroid returns the arithmetic mean of the points.
// It returns the zero vector for an empty slice.
func Centroid(points []Point3D) Vector3 {
	if len(points) == 0 {
		return Vector3{}
	}
	var sum Vector3
	for _, p := range points {
		sum = sum.Add(p.Vec())
	}
	return sum.Mul(1.0 / float64(len(points)))
}

// covariance builds the (unnormalised) scatter matrix of the centred points
func covariance(points []Point3D, centroid Vector3) *mat.SymDense {
	var c [6]float64
	for _, p := range points {
		d := p.Vec().Sub(centroid)
		c[0] += d.X * d.X
		c[1] += d.X * d.Y
		c[2] += d.X * d.Z
		c[3] += d.Y * d.Y
		c[4] += d.Y * d.Z
		c[5] += d.Z * d.Z
	}
	return mat.NewSymDense(3, []float64{
		c[0], c[1], c[2],
		c[1], c[3], c[4],
		c[2], c[4], c[5],
	})
}

// principalBasis returns the plane frame spanned by the two dominant
// eigenvectors of cov. The bool is false when DefaultPlaneBasis was used.
func principalBasis(cov *mat.SymDense) (PlaneBasis, bool) {
	tol := degenerateEpsilon * max(mat.Trace(cov), 1)

	v1, ok := powerIteration(cov, tol)
	if !ok {
		return DefaultPlaneBasis, false
	}

	lambda := rayleighQuotient(cov, v1)
	var deflated mat.SymDense
	deflated.SymRankOne(cov, -lambda, v1)

	v2, ok := powerIteration(&deflated, tol)
	if !ok {
		return DefaultPlaneBasis, false
	}

	u := toVector3(v1)
	normal := u.Cross(toVector3(v2))
	if normal.Length() < degenerateEpsilon {
		return DefaultPlaneBasis, false
	}
	normal = normal.Normalize()
	u = u.Normalize()

	basis := PlaneBasis{
		Normal: normal,
		BasisU: u,
		BasisV: normal.Cross(u).Normalize(),
	}

	// A start axis that is itself the least-variance eigenvector traps the
	// iteration on it, and the normal comes out as a high-variance axis.
	if !isLeastVariance(cov, basis, tol) {
		return eigenBasis(cov)
	}
	return basis, true
}

// isLeastVariance reports whether the normal carries no more variance than
// either in-plane axis
func isLeastVariance(cov *mat.SymDense, b PlaneBasis, tol float64) bool {
	n := quadraticForm(cov, b.Normal)
	return n <= quadraticForm(cov, b.BasisU)+tol && n <= quadraticForm(cov, b.BasisV)+tol
}

func quadraticForm(m *mat.SymDense, v Vector3) float64 {
	x := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	return mat.Inner(x, m, x)
}

// eigenBasis builds the plane frame from a full symmetric eigendecomposition.
// Eigenvalues come back ascending, so column 0 is the normal and column 2 the
// dominant in-plane direction.
func eigenBasis(cov *mat.SymDense) (PlaneBasis, bool) {
	var es mat.EigenSym
	if !es.Factorize(cov, true) {
		return DefaultPlaneBasis, false
	}
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	normal := toVector3(mat.NewVecDense(3, mat.Col(nil, 0, &vecs))).Normalize()
	u := toVector3(mat.NewVecDense(3, mat.Col(nil, 2, &vecs))).Normalize()
	return PlaneBasis{
		Normal: normal,
		BasisU: u,
		BasisV: normal.Cross(u).Normalize(),
	}, true
}

// powerIteration finds the dominant eigenvector of m, starting from the X
// axis. If a start axis lies in the null space of m the product vanishes and
// the next axis is tried; false means every axis collapsed below tol.
func powerIteration(m *mat.SymDense, tol float64) (*mat.VecDense, bool) {
	starts := [][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

next:
	for _, start := range starts {
		v := mat.NewVecDense(3, append([]float64(nil), start...))
		var w mat.VecDense
		for i := 0; i < powerIterations; i++ {
			w.MulVec(m, v)
			norm := mat.Norm(&w, 2)
			if norm < tol {
				continue next
			}
			v.ScaleVec(1/norm, &w)
		}
		return v, true
	}
	return nil, false
}

// rayleighQuotient returns vᵀMv for a unit vector v, the eigenvalue estimate
func rayleighQuotient(m *mat.SymDense, v *mat.VecDense) float64 {
	var mv mat.VecDense
	mv.MulVec(m, v)
	return mat.Dot(v, &mv)
}

func toVector3(v *mat.VecDense) Vector3 {
	return Vector3{X: v.AtVec(0), Y: v.AtVec(1), Z: v.AtVec(2)}
}
