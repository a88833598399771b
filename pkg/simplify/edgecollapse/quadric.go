package edgecollapse

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl64"
)

// conditionEpsilon bounds 27*det(A)/trace(A)^3, the ratio of the geometric to the
// arithmetic mean of the eigenvalues of the quadric's 3x3 block (cubed). Below it the
// system is treated as singular.
const conditionEpsilon = 1e-6

// Quadric is a symmetric 4x4 error matrix stored as its 10 upper-triangle coefficients:
//
//	[q0 q1 q2 q3]
//	[q1 q4 q5 q6]
//	[q2 q5 q7 q8]
//	[q3 q6 q8 q9]
type Quadric [10]float64

// PlaneQuadric returns the fundamental quadric of the plane ax + by + cz + d = 0.
// (a, b, c) must be a unit normal for Error to measure squared distance.
func PlaneQuadric(a, b, c, d float64) Quadric {
	return Quadric{
		a * a, a * b, a * c, a * d,
		b * b, b * c, b * d,
		c * c, c * d,
		d * d,
	}
}

// Add returns q + o.
func (q Quadric) Add(o Quadric) Quadric {
	var r Quadric
	for i := range q {
		r[i] = q[i] + o[i]
	}
	return r
}

// Error evaluates v^T Q v for the homogeneous point (p, 1). Rounding can make the
// raw value slightly negative; it is clamped at zero.
func (q Quadric) Error(p mgl64.Vec3) float64 {
	x, y, z := p[0], p[1], p[2]
	e := q[0]*x*x + 2*q[1]*x*y + 2*q[2]*x*z + 2*q[3]*x +
		q[4]*y*y + 2*q[5]*y*z + 2*q[6]*y +
		q[7]*z*z + 2*q[8]*z +
		q[9]
	return max(e, 0)
}

// Optimal returns the point minimising the quadric error. ok is false when the
// 3x3 block is singular or too ill-conditioned to solve.
func (q Quadric) Optimal() (p mgl64.Vec3, ok bool) {
	a := mgl64.Mat3{
		q[0], q[1], q[2],
		q[1], q[4], q[5],
		q[2], q[5], q[7],
	}
	trace := q[0] + q[4] + q[7]
	if trace <= 0 {
		return mgl64.Vec3{}, false
	}
	det := a.Det()
	if 27*det/(trace*trace*trace) < conditionEpsilon {
		return mgl64.Vec3{}, false
	}

	p = a.Inv().Mul3x1(mgl64.Vec3{-q[3], -q[6], -q[8]})
	for _, c := range p {
		if gomath.IsNaN(c) || gomath.IsInf(c, 0) {
			return mgl64.Vec3{}, false
		}
	}
	return p, true
}

// placement picks the merge position for an edge with endpoints a and b under q.
// It solves for the optimum and falls back to the best of the midpoint and the two
// endpoints when the system cannot be solved.
func placement(q Quadric, a, b mgl64.Vec3) (mgl64.Vec3, float64) {
	if p, ok := q.Optimal(); ok {
		return p, q.Error(p)
	}

	best := a.Add(b).Mul(0.5)
	bestErr := q.Error(best)
	for _, p := range [2]mgl64.Vec3{a, b} {
		if e := q.Error(p); e < bestErr {
			best, bestErr = p, e
		}
	}
	return best, bestErr
}
