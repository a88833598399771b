package mesh

import (
	"errors"
	"testing"
)

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name      string
		mesh      *Mesh
		vertices  int
		faces     int
		edgeCount int
	}{
		{"cube", Cube(1), 8, 12, 18},
		{"grid 4", Grid(4, 1), 25, 32, 56},
		{"hexagon fan", Fan(6, 1), 7, 6, 12},
		{"sphere 4x6", UVSphere(4, 6, 1), 20, 36, 54},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.mesh.VertexCount(); got != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", got, tt.vertices)
			}
			if got := tt.mesh.FaceCount(); got != tt.faces {
				t.Errorf("FaceCount() = %d, want %d", got, tt.faces)
			}
			if got := len(tt.mesh.Edges()); got != tt.edgeCount {
				t.Errorf("len(Edges()) = %d, want %d", got, tt.edgeCount)
			}
			if !tt.mesh.Validate() {
				t.Error("Validate() = false")
			}
			if len(tt.mesh.Normals) != tt.vertices {
				t.Errorf("len(Normals) = %d, want %d", len(tt.mesh.Normals), tt.vertices)
			}
		})
	}
}

func TestGridFacesUp(t *testing.T) {
	m := Grid(3, 2)
	for i, f := range m.Faces {
		if n := m.FaceNormal(f); n.Z <= 0 {
			t.Errorf("face %d normal = %v, want +Z", i, n)
		}
	}
}

func TestSphereFacesOutward(t *testing.T) {
	m := UVSphere(6, 8, 1)
	for i, f := range m.Faces {
		centroid := m.Vertices[f[0]].Add(m.Vertices[f[1]]).Add(m.Vertices[f[2]])
		if n := m.FaceNormal(f); n.Dot(centroid) <= 0 {
			t.Errorf("face %d normal %v points inward", i, n)
		}
	}
}

func TestPrimitive(t *testing.T) {
	for _, shape := range Shapes {
		m, err := Primitive(shape, 8, 2)
		if err != nil {
			t.Errorf("Primitive(%q) error: %v", shape, err)
			continue
		}
		if m.IsEmpty() || !m.Validate() {
			t.Errorf("Primitive(%q) returned an empty or invalid mesh", shape)
		}
	}

	if _, err := Primitive("torus", 8, 2); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("Primitive(torus) error = %v, want ErrUnknownShape", err)
	}
}
