package mesh

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/meshreduce/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-5
}

func TestFromBuffer(t *testing.T) {
	b := Buffer{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
	}
	m := FromBuffer(b)

	if m.VertexCount() != 3 {
		t.Fatalf("VertexCount() = %d, want 3", m.VertexCount())
	}
	if m.FaceCount() != 1 {
		t.Fatalf("FaceCount() = %d, want 1", m.FaceCount())
	}
	if m.Faces[0] != (Face{0, 1, 2}) {
		t.Errorf("Faces[0] = %v, want [0 1 2]", m.Faces[0])
	}
	if len(m.Normals) != 3 {
		t.Errorf("len(Normals) = %d, want 3", len(m.Normals))
	}
}

func TestFromBufferBadIndexCount(t *testing.T) {
	b := Buffer{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2, 0},
	}
	m := FromBuffer(b)
	if m.VertexCount() != 0 || m.FaceCount() != 0 {
		t.Errorf("expected empty mesh, got %d vertices %d faces", m.VertexCount(), m.FaceCount())
	}
	if !m.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
}

func TestFromBufferIgnoresMismatchedNormals(t *testing.T) {
	b := Buffer{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
		Normals:   []float32{0, 0, 1},
	}
	if m := FromBuffer(b); len(m.Normals) != 0 {
		t.Errorf("len(Normals) = %d, want 0", len(m.Normals))
	}
}

func TestBufferRoundTrip(t *testing.T) {
	m := Cube(2)
	b := m.Buffer()

	if len(b.Positions) != 8*3 {
		t.Errorf("len(Positions) = %d, want 24", len(b.Positions))
	}
	if len(b.Indices) != 12*3 {
		t.Errorf("len(Indices) = %d, want 36", len(b.Indices))
	}
	if len(b.Normals) != 8*3 {
		t.Errorf("len(Normals) = %d, want 24", len(b.Normals))
	}

	back := FromBuffer(b)
	if back.VertexCount() != m.VertexCount() || back.FaceCount() != m.FaceCount() {
		t.Errorf("round trip changed counts: %d/%d -> %d/%d",
			m.VertexCount(), m.FaceCount(), back.VertexCount(), back.FaceCount())
	}
}

func TestBufferWithoutNormals(t *testing.T) {
	m := &Mesh{
		Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Faces:    []Face{{0, 1, 2}},
	}
	if b := m.Buffer(); b.Normals != nil {
		t.Errorf("Normals = %v, want nil", b.Normals)
	}
}

func TestComputeNormals(t *testing.T) {
	m := &Mesh{
		Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}, {X: 5, Y: 5, Z: 5}},
		Faces:    []Face{{0, 1, 2}},
	}
	m.ComputeNormals()

	if len(m.Normals) != 4 {
		t.Fatalf("len(Normals) = %d, want 4", len(m.Normals))
	}
	for i := 0; i < 3; i++ {
		n := m.Normals[i]
		if !near(n.X, 0) || !near(n.Y, 0) || !near(n.Z, 1) {
			t.Errorf("Normals[%d] = %v, want (0,0,1)", i, n)
		}
	}
	// Unreferenced vertex keeps a zero normal.
	if !m.Normals[3].IsZero() {
		t.Errorf("Normals[3] = %v, want zero", m.Normals[3])
	}
}

func TestComputeNormalsCube(t *testing.T) {
	m := Cube(2)
	for i, v := range m.Vertices {
		n := m.Normals[i]
		if !near(n.Length(), 1) {
			t.Errorf("Normals[%d] length = %v, want 1", i, n.Length())
		}
		// Corner normals point away from the centre.
		if n.Dot(v) <= 0 {
			t.Errorf("Normals[%d] = %v points inward for vertex %v", i, n, v)
		}
	}
}

func TestValidate(t *testing.T) {
	verts := []math.Vec3{{}, {X: 1}, {Y: 1}}
	tests := []struct {
		name  string
		faces []Face
		want  bool
	}{
		{"valid", []Face{{0, 1, 2}}, true},
		{"repeated index", []Face{{0, 1, 1}}, false},
		{"out of range", []Face{{0, 1, 3}}, false},
		{"no faces", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: verts, Faces: tt.faces}
			if got := m.Validate(); got != tt.want {
				t.Errorf("Validate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidIndicesIgnoresDegeneracy(t *testing.T) {
	m := &Mesh{
		Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Faces:    []Face{{0, 1, 1}},
	}
	if !m.ValidIndices() {
		t.Error("ValidIndices() = false, want true")
	}
	if m.Validate() {
		t.Error("Validate() = true, want false")
	}
}

func TestRemoveDegenerateFaces(t *testing.T) {
	m := &Mesh{
		Vertices: []math.Vec3{{}, {X: 1}, {Y: 1}},
		Faces:    []Face{{0, 1, 2}, {0, 0, 1}, {2, 2, 2}},
	}
	if got := m.DegenerateFaces(); got != 2 {
		t.Errorf("DegenerateFaces() = %d, want 2", got)
	}
	if got := m.RemoveDegenerateFaces(); got != 2 {
		t.Errorf("RemoveDegenerateFaces() = %d, want 2", got)
	}
	if m.FaceCount() != 1 || !m.Validate() {
		t.Errorf("after removal: %d faces, Validate() = %v", m.FaceCount(), m.Validate())
	}
}

func TestClone(t *testing.T) {
	m := Cube(1)
	c := m.Clone()
	c.Vertices[0] = math.Vec3{X: 100}
	c.Faces[0] = Face{7, 7, 7}
	if m.Vertices[0].X == 100 {
		t.Error("Clone shares vertex storage with the original")
	}
	if m.Faces[0] == (Face{7, 7, 7}) {
		t.Error("Clone shares face storage with the original")
	}
}

func TestBounds(t *testing.T) {
	lo, hi := Cube(4).Bounds()
	if lo != (math.Vec3{X: -2, Y: -2, Z: -2}) {
		t.Errorf("min = %v, want (-2,-2,-2)", lo)
	}
	if hi != (math.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("max = %v, want (2,2,2)", hi)
	}

	lo, hi = (&Mesh{}).Bounds()
	if !lo.IsZero() || !hi.IsZero() {
		t.Errorf("empty Bounds() = %v, %v, want zero", lo, hi)
	}
}

func TestEdges(t *testing.T) {
	// A closed cube has 12 edges on its box plus 6 face diagonals.
	edges := Cube(1).Edges()
	if len(edges) != 18 {
		t.Errorf("len(Edges()) = %d, want 18", len(edges))
	}
	for i, e := range edges {
		if e.A >= e.B {
			t.Errorf("edge %d = %v not ordered", i, e)
		}
		if i > 0 {
			prev := edges[i-1]
			if prev.A > e.A || (prev.A == e.A && prev.B >= e.B) {
				t.Errorf("edges not sorted at %d: %v then %v", i, prev, e)
			}
		}
	}
}
