package mesh

import (
	"cmp"
	"slices"

	"github.com/Faultbox/meshreduce/pkg/math"
)

// FromBuffer builds a mesh from a flat renderable buffer.
// A position or index count that is not a multiple of 3 yields an empty mesh.
// Normals are kept only when they match the position count.
func FromBuffer(b Buffer) *Mesh {
	m := &Mesh{}
	if len(b.Positions)%3 != 0 || len(b.Indices)%3 != 0 {
		return m
	}

	m.Vertices = make([]math.Vec3, 0, len(b.Positions)/3)
	for i := 0; i+2 < len(b.Positions); i += 3 {
		m.Vertices = append(m.Vertices, math.Vec3{X: b.Positions[i], Y: b.Positions[i+1], Z: b.Positions[i+2]})
	}

	m.Faces = make([]Face, 0, len(b.Indices)/3)
	for i := 0; i+2 < len(b.Indices); i += 3 {
		m.Faces = append(m.Faces, Face{b.Indices[i], b.Indices[i+1], b.Indices[i+2]})
	}

	if len(b.Normals) > 0 && len(b.Normals) == len(b.Positions) {
		m.Normals = make([]math.Vec3, 0, len(b.Normals)/3)
		for i := 0; i+2 < len(b.Normals); i += 3 {
			m.Normals = append(m.Normals, math.Vec3{X: b.Normals[i], Y: b.Normals[i+1], Z: b.Normals[i+2]})
		}
	}

	return m
}

// Buffer flattens the mesh for rendering. Normals are included only if present.
func (m *Mesh) Buffer() Buffer {
	b := Buffer{
		Positions: make([]float32, 0, len(m.Vertices)*3),
		Indices:   make([]uint32, 0, len(m.Faces)*3),
	}
	for _, v := range m.Vertices {
		b.Positions = append(b.Positions, v.X, v.Y, v.Z)
	}
	for _, f := range m.Faces {
		b.Indices = append(b.Indices, f[0], f[1], f[2])
	}
	if len(m.Normals) > 0 {
		b.Normals = make([]float32, 0, len(m.Normals)*3)
		for _, n := range m.Normals {
			b.Normals = append(b.Normals, n.X, n.Y, n.Z)
		}
	}
	return b
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int { return len(m.Faces) }

// IsEmpty reports whether the mesh has no vertices or no faces.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Clone returns a deep copy.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: slices.Clone(m.Vertices),
		Faces:    slices.Clone(m.Faces),
		Normals:  slices.Clone(m.Normals),
	}
}

// FaceNormal returns the un-normalized normal (v1-v0)x(v2-v0) of face f.
func (m *Mesh) FaceNormal(f Face) math.Vec3 {
	v0 := m.Vertices[f[0]]
	e1 := m.Vertices[f[1]].Sub(v0)
	e2 := m.Vertices[f[2]].Sub(v0)
	return e1.Cross(e2)
}

// ComputeNormals recomputes per-vertex normals as the normalized sum of the
// area-weighted normals of incident faces. Vertices with a zero sum keep a zero normal.
// It must be re-run after any topology edit.
func (m *Mesh) ComputeNormals() {
	if cap(m.Normals) >= len(m.Vertices) {
		m.Normals = m.Normals[:len(m.Vertices)]
		clear(m.Normals)
	} else {
		m.Normals = make([]math.Vec3, len(m.Vertices))
	}

	for _, f := range m.Faces {
		n := m.FaceNormal(f)
		m.Normals[f[0]] = m.Normals[f[0]].Add(n)
		m.Normals[f[1]] = m.Normals[f[1]].Add(n)
		m.Normals[f[2]] = m.Normals[f[2]].Add(n)
	}

	for i, n := range m.Normals {
		if n.Length() > 0 {
			m.Normals[i] = n.Normalize()
		}
	}
}

// Validate reports false if any face is degenerate or references a vertex
// out of range. It is a diagnostic; nothing in this module enforces it.
func (m *Mesh) Validate() bool {
	n := uint32(len(m.Vertices))
	for _, f := range m.Faces {
		if f.Degenerate() {
			return false
		}
		if f[0] >= n || f[1] >= n || f[2] >= n {
			return false
		}
	}
	return true
}

// ValidIndices reports whether every face index is in range, ignoring degeneracy.
func (m *Mesh) ValidIndices() bool {
	n := uint32(len(m.Vertices))
	for _, f := range m.Faces {
		if f[0] >= n || f[1] >= n || f[2] >= n {
			return false
		}
	}
	return true
}

// DegenerateFaces counts faces that repeat a vertex index.
func (m *Mesh) DegenerateFaces() int {
	count := 0
	for _, f := range m.Faces {
		if f.Degenerate() {
			count++
		}
	}
	return count
}

// RemoveDegenerateFaces drops faces that repeat a vertex index and
// returns how many were removed.
func (m *Mesh) RemoveDegenerateFaces() int {
	before := len(m.Faces)
	m.Faces = slices.DeleteFunc(m.Faces, Face.Degenerate)
	return before - len(m.Faces)
}

// Bounds returns the axis-aligned bounding box of the vertices.
// An empty mesh returns two zero vectors.
func (m *Mesh) Bounds() (lo, hi math.Vec3) {
	if len(m.Vertices) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// Edges returns the unique undirected edges of all faces, sorted by (A, B).
// Degenerate face sides (a vertex paired with itself) are skipped.
func (m *Mesh) Edges() []Edge {
	seen := make(map[Edge]struct{}, len(m.Faces)*3/2)
	edges := make([]Edge, 0, len(m.Faces)*3/2)
	for _, f := range m.Faces {
		for i := 0; i < 3; i++ {
			a, b := f[i], f[(i+1)%3]
			if a == b {
				continue
			}
			e := NewEdge(a, b)
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	slices.SortFunc(edges, func(x, y Edge) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return edges
}
