package clustering

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/meshreduce/pkg/math"
	"github.com/Faultbox/meshreduce/pkg/mesh"
)

func TestSimplifyCubeToSingleCell(t *testing.T) {
	m := mesh.Cube(2)
	out := New(nil).Simplify(m, 1)

	if out.VertexCount() != 1 {
		t.Errorf("VertexCount() = %d, want 1", out.VertexCount())
	}
	if out.FaceCount() != 0 {
		t.Errorf("FaceCount() = %d, want 0", out.FaceCount())
	}
	if out.Vertices[0] != (math.Vec3{}) {
		t.Errorf("representative = %v, want cube centre", out.Vertices[0])
	}
}

func TestSimplifyResolutionBelowOne(t *testing.T) {
	out := New(nil).Simplify(mesh.Cube(2), 0)
	if out.VertexCount() != 1 {
		t.Errorf("VertexCount() = %d, want 1", out.VertexCount())
	}
}

func TestSimplifyDeterministic(t *testing.T) {
	m := mesh.UVSphere(12, 16, 3)
	s := New(nil)

	first := s.Simplify(m, 4)
	for run := 0; run < 5; run++ {
		again := s.Simplify(m, 4)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d produced a different mesh", run)
		}
	}
}

func TestSimplifyBounds(t *testing.T) {
	m := mesh.UVSphere(12, 16, 1)
	s := New(nil)

	for _, res := range []int{1, 2, 3, 5, 8, 20} {
		out := s.Simplify(m, res)
		if out.VertexCount() > res*res*res {
			t.Errorf("res %d: VertexCount() = %d exceeds %d cells", res, out.VertexCount(), res*res*res)
		}
		if out.VertexCount() > m.VertexCount() {
			t.Errorf("res %d: VertexCount() = %d exceeds input %d", res, out.VertexCount(), m.VertexCount())
		}
		if !out.ValidIndices() {
			t.Errorf("res %d: face index out of range", res)
		}
		if out.FaceCount() > m.FaceCount() {
			t.Errorf("res %d: FaceCount() = %d exceeds input %d", res, out.FaceCount(), m.FaceCount())
		}
	}
}

func TestSimplifyCellAssignment(t *testing.T) {
	// 3x3 vertices at 0, 0.5, 1 on X and Y; Z extent is zero.
	m := mesh.Grid(2, 1)
	out := New(nil).Simplify(m, 2)

	// Coordinates at the upper bound clamp into the last cell.
	want := []math.Vec3{
		{X: 0, Y: 0},
		{X: 0.75, Y: 0},
		{X: 0, Y: 0.75},
		{X: 0.75, Y: 0.75},
	}
	if !reflect.DeepEqual(out.Vertices, want) {
		t.Errorf("Vertices = %v, want %v", out.Vertices, want)
	}
}

func TestSimplifyKeepsPartiallyDegenerateFaces(t *testing.T) {
	m := mesh.Grid(2, 1)
	out := New(nil).Simplify(m, 2)

	if out.DegenerateFaces() == 0 {
		t.Fatal("expected zero-area faces with two shared corners to be kept")
	}
	if out.Validate() {
		t.Error("Validate() = true, want false while degenerate faces are kept")
	}
	if !out.ValidIndices() {
		t.Error("ValidIndices() = false")
	}
	for i, f := range out.Faces {
		if f[0] == f[1] && f[1] == f[2] {
			t.Errorf("face %d %v collapsed to a point but was emitted", i, f)
		}
	}

	out.RemoveDegenerateFaces()
	if !out.Validate() {
		t.Error("Validate() = false after RemoveDegenerateFaces")
	}
}

func TestSimplifyDropDegenerate(t *testing.T) {
	m := mesh.Grid(2, 1)
	s := &Simplifier{DropDegenerate: true}
	out := s.Simplify(m, 2)

	if out.DegenerateFaces() != 0 {
		t.Errorf("DegenerateFaces() = %d, want 0", out.DegenerateFaces())
	}
	if !out.Validate() {
		t.Error("Validate() = false")
	}
}

func TestSimplifyEmpty(t *testing.T) {
	out := New(nil).Simplify(&mesh.Mesh{}, 4)
	if out.VertexCount() != 0 || out.FaceCount() != 0 {
		t.Errorf("got %d vertices %d faces, want empty", out.VertexCount(), out.FaceCount())
	}
}

func TestSimplifyDoesNotMutateInput(t *testing.T) {
	m := mesh.UVSphere(6, 8, 1)
	before := m.Clone()
	New(nil).Simplify(m, 2)
	if !reflect.DeepEqual(m, before) {
		t.Error("Simplify modified its input")
	}
}

func TestResolutionForFactor(t *testing.T) {
	tests := []struct {
		n      int
		factor float32
		want   int
	}{
		{1000, 0.5, 7},
		{10, 0.1, 2},
		{500, 2, 7},
		{500, -1, 2},
	}
	for _, tt := range tests {
		if got := ResolutionForFactor(tt.n, tt.factor); got != tt.want {
			t.Errorf("ResolutionForFactor(%d, %v) = %d, want %d", tt.n, tt.factor, got, tt.want)
		}
	}
}

func TestSimplifyByFactorReduces(t *testing.T) {
	m := mesh.UVSphere(16, 24, 1)
	out := New(nil).SimplifyByFactor(m, 0.5)
	if out.VertexCount() >= m.VertexCount() {
		t.Errorf("VertexCount() = %d, want fewer than %d", out.VertexCount(), m.VertexCount())
	}
}

func TestSimplifyLogsSummary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	New(zap.New(core)).Simplify(mesh.Cube(2), 1)

	entries := logs.FilterMessage("vertex clustering finished").All()
	if len(entries) != 1 {
		t.Fatalf("expected one summary entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["vertices_out"] != int64(1) || fields["faces_dropped"] != int64(12) {
		t.Errorf("unexpected summary fields: %v", fields)
	}
}
