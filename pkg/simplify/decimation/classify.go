package decimation

import (
	gomath "math"
	"slices"

	"github.com/Faultbox/meshreduce/pkg/math"
	"github.com/Faultbox/meshreduce/pkg/mesh"
)

// VertexInfo is the per-pass classification of one vertex.
type VertexInfo struct {
	Index    int
	Feature  bool // two incident faces meet at more than the feature angle
	Boundary bool // an incident edge belongs to exactly one face
	// DistanceError is the distance from the vertex to the average plane of its
	// incident faces.
	DistanceError float64
	// Candidate is false for vertices with no incident faces or no defined
	// average plane. Such vertices are never removed.
	Candidate bool
}

// adjacency is the incidence index of one pass. It is rebuilt after every removal.
type adjacency struct {
	vertexFaces [][]int
	edgeCount   map[mesh.Edge]int
	faceNormals []math.Vec3 // unit, zero for zero-area faces
}

func buildAdjacency(m *mesh.Mesh) *adjacency {
	adj := &adjacency{
		vertexFaces: make([][]int, m.VertexCount()),
		edgeCount:   make(map[mesh.Edge]int, m.FaceCount()*3/2),
		faceNormals: make([]math.Vec3, m.FaceCount()),
	}
	for fi, f := range m.Faces {
		adj.faceNormals[fi] = m.FaceNormal(f).Normalize()
		for k, v := range f {
			if slices.Contains(f[:k], v) {
				continue
			}
			adj.vertexFaces[v] = append(adj.vertexFaces[v], fi)
		}
		for k := 0; k < 3; k++ {
			a, b := f[k], f[(k+1)%3]
			if a != b {
				adj.edgeCount[mesh.NewEdge(a, b)]++
			}
		}
	}
	return adj
}

// classify computes the VertexInfo of vertex v.
func (p params) classify(m *mesh.Mesh, adj *adjacency, v uint32) VertexInfo {
	info := VertexInfo{Index: int(v), DistanceError: gomath.Inf(1)}
	faces := adj.vertexFaces[v]
	if len(faces) == 0 {
		return info
	}

	info.Feature = p.isFeature(adj, faces)
	info.Boundary = isBoundary(m, adj, faces, v)

	var sum math.Vec3
	for _, fi := range faces {
		sum = sum.Add(adj.faceNormals[fi])
	}
	if sum.Length() == 0 {
		return info
	}
	n := sum.Normalize()

	anchor, ok := firstNeighbour(m, faces, v)
	if !ok {
		return info
	}
	d := m.Vertices[v].Sub(m.Vertices[anchor])
	info.DistanceError = gomath.Abs(float64(n.Dot(d)))
	info.Candidate = true
	return info
}

// isFeature compares every pair of incident face normals against the feature angle
// by cosine. Zero-area faces have no direction and are skipped.
func (p params) isFeature(adj *adjacency, faces []int) bool {
	for i := 0; i < len(faces); i++ {
		ni := adj.faceNormals[faces[i]]
		if ni.IsZero() {
			continue
		}
		for j := i + 1; j < len(faces); j++ {
			nj := adj.faceNormals[faces[j]]
			if nj.IsZero() {
				continue
			}
			cos := min(max(float64(ni.Dot(nj)), -1), 1)
			if cos < p.cosFeature {
				return true
			}
		}
	}
	return false
}

func isBoundary(m *mesh.Mesh, adj *adjacency, faces []int, v uint32) bool {
	for _, fi := range faces {
		for _, u := range m.Faces[fi] {
			if u == v {
				continue
			}
			if adj.edgeCount[mesh.NewEdge(v, u)] == 1 {
				return true
			}
		}
	}
	return false
}

// firstNeighbour returns a vertex other than v from the first incident face that has one.
func firstNeighbour(m *mesh.Mesh, faces []int, v uint32) (uint32, bool) {
	for _, fi := range faces {
		for _, u := range m.Faces[fi] {
			if u != v {
				return u, true
			}
		}
	}
	return 0, false
}
