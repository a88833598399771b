package edgecollapse

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestPlaneQuadricError(t *testing.T) {
	q := PlaneQuadric(0, 0, 1, 0) // z = 0
	tests := []struct {
		p    mgl64.Vec3
		want float64
	}{
		{mgl64.Vec3{0, 0, 0}, 0},
		{mgl64.Vec3{5, -3, 0}, 0},
		{mgl64.Vec3{0, 0, 3}, 9},
		{mgl64.Vec3{1, 1, -2}, 4},
	}
	for _, tt := range tests {
		if got := q.Error(tt.p); gomath.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Error(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestQuadricAdd(t *testing.T) {
	q := PlaneQuadric(1, 0, 0, -1).Add(PlaneQuadric(0, 1, 0, -1))
	// Distance² to x = 1 plus distance² to y = 1.
	if got := q.Error(mgl64.Vec3{3, 4, 7}); gomath.Abs(got-13) > 1e-12 {
		t.Errorf("Error() = %v, want 13", got)
	}
}

func TestQuadricOptimal(t *testing.T) {
	q := PlaneQuadric(1, 0, 0, -1).
		Add(PlaneQuadric(0, 1, 0, -2)).
		Add(PlaneQuadric(0, 0, 1, -3))

	p, ok := q.Optimal()
	if !ok {
		t.Fatal("Optimal() reported singular system for three orthogonal planes")
	}
	if !p.ApproxEqualThreshold(mgl64.Vec3{1, 2, 3}, 1e-9) {
		t.Errorf("Optimal() = %v, want (1,2,3)", p)
	}
	if e := q.Error(p); e > 1e-12 {
		t.Errorf("Error at optimum = %v, want 0", e)
	}
}

func TestQuadricOptimalSingular(t *testing.T) {
	tests := []struct {
		name string
		q    Quadric
	}{
		{"zero", Quadric{}},
		{"one plane", PlaneQuadric(0, 0, 1, 0)},
		{"two planes", PlaneQuadric(0, 0, 1, 0).Add(PlaneQuadric(1, 0, 0, 0))},
		{"coplanar twice", PlaneQuadric(0, 1, 0, -2).Add(PlaneQuadric(0, 1, 0, -2))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.q.Optimal(); ok {
				t.Error("Optimal() ok = true, want false")
			}
		})
	}
}

func TestPlacementFallsBackToMidpoint(t *testing.T) {
	q := PlaneQuadric(0, 0, 1, 0)
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{2, 0, 0}

	p, err := placement(q, a, b)
	if !p.ApproxEqual(mgl64.Vec3{1, 0, 0}) {
		t.Errorf("placement() = %v, want midpoint (1,0,0)", p)
	}
	if err != 0 {
		t.Errorf("placement() error = %v, want 0", err)
	}
}

func TestPlacementFallsBackToEndpoint(t *testing.T) {
	// b sits on the plane, a does not: b beats both a and the midpoint.
	q := PlaneQuadric(0, 0, 1, 0)
	a := mgl64.Vec3{0, 0, 2}
	b := mgl64.Vec3{1, 0, 0}

	p, err := placement(q, a, b)
	if !p.ApproxEqual(b) {
		t.Errorf("placement() = %v, want endpoint %v", p, b)
	}
	if err != 0 {
		t.Errorf("placement() error = %v, want 0", err)
	}
}
