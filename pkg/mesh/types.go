// Package mesh provides the indexed triangle mesh shared by all simplifiers.
package mesh

import "github.com/Faultbox/meshreduce/pkg/math"

// Face is a triangle as three vertex indices.
type Face [3]uint32

// Degenerate reports whether the face repeats a vertex index.
func (f Face) Degenerate() bool {
	return f[0] == f[1] || f[1] == f[2] || f[2] == f[0]
}

// Has reports whether the face references vertex v.
func (f Face) Has(v uint32) bool {
	return f[0] == v || f[1] == v || f[2] == v
}

// Edge is an undirected edge with A < B.
type Edge struct {
	A, B uint32
}

// NewEdge returns the edge between a and b with its endpoints ordered.
func NewEdge(a, b uint32) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Mesh is an indexed triangle mesh.
// Normals is either empty or has one entry per vertex.
type Mesh struct {
	Vertices []math.Vec3
	Faces    []Face
	Normals  []math.Vec3
}

// Buffer is the flat renderable form of a mesh, as consumed by GPU-side collaborators.
type Buffer struct {
	Positions []float32 // xyz per vertex
	Indices   []uint32  // 3 per triangle
	Normals   []float32 // xyz per vertex, optional
}
