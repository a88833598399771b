// Package decimation implements Schroeder-Zarge-Lorensen vertex decimation.
//
// Each pass classifies every vertex, then removes the cheapest one that is neither
// on a sharp feature nor (beyond a relaxed allowance) on the mesh boundary, and
// whose removal can be patched by a well-shaped fan. The pass repeats until the
// target is met or nothing qualifies. Every pass rebuilds adjacency from scratch, so
// one removal costs time proportional to the face count.
package decimation

import (
	"cmp"
	gomath "math"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/meshreduce/pkg/mesh"
)

// Defaults applied to zero-valued Simplifier fields.
const (
	DefaultFeatureAngle = 60.0 // degrees
	DefaultAspectRatio  = 10.0
	DefaultMaxDistance  = 0.1
)

// Simplifier removes vertices and retriangulates the holes.
// Zero-valued thresholds fall back to the package defaults.
type Simplifier struct {
	// FeatureAngle in degrees; incident faces meeting at a larger angle pin the vertex.
	FeatureAngle float64
	// AspectRatio caps longest/shortest edge of every patch triangle.
	AspectRatio float64
	// MaxDistance caps the distance from a vertex to its average plane.
	// Boundary vertices must stay below half of it.
	MaxDistance float64
	Logger      *zap.Logger
}

// New returns a Simplifier with default thresholds. A nil logger disables logging.
func New(logger *zap.Logger) *Simplifier {
	return &Simplifier{
		FeatureAngle: DefaultFeatureAngle,
		AspectRatio:  DefaultAspectRatio,
		MaxDistance:  DefaultMaxDistance,
		Logger:       logger,
	}
}

// params holds resolved thresholds for one call.
type params struct {
	cosFeature  float64
	aspectRatio float64
	maxDistance float64
}

func (s *Simplifier) params() params {
	angle := s.FeatureAngle
	if angle == 0 {
		angle = DefaultFeatureAngle
	}
	p := params{
		cosFeature:  gomath.Cos(angle * gomath.Pi / 180),
		aspectRatio: s.AspectRatio,
		maxDistance: s.MaxDistance,
	}
	if p.aspectRatio == 0 {
		p.aspectRatio = DefaultAspectRatio
	}
	if p.maxDistance == 0 {
		p.maxDistance = DefaultMaxDistance
	}
	return p
}

func (s *Simplifier) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// SimplifyByFactor simplifies to floor(vertexCount * factor) vertices.
// factor is clamped to [0, 1].
func (s *Simplifier) SimplifyByFactor(m *mesh.Mesh, factor float32) *mesh.Mesh {
	factor = min(max(factor, 0), 1)
	target := int(gomath.Floor(float64(m.VertexCount()) * float64(factor)))
	return s.Simplify(m, target)
}

// Classify returns the classification of every vertex of m.
func (s *Simplifier) Classify(m *mesh.Mesh) []VertexInfo {
	p := s.params()
	adj := buildAdjacency(m)
	infos := make([]VertexInfo, m.VertexCount())
	for v := range infos {
		infos[v] = p.classify(m, adj, uint32(v))
	}
	return infos
}

// Simplify removes one vertex per pass until the mesh has at most targetVertices
// vertices or a pass finds nothing removable, in which case the result stays above
// the target. A target at or above the current count returns an unchanged copy.
// The input is never modified. Patch triangles never repeat an index; degenerate
// faces already present in the input are left alone.
func (s *Simplifier) Simplify(m *mesh.Mesh, targetVertices int) *mesh.Mesh {
	if targetVertices >= m.VertexCount() {
		return m.Clone()
	}

	p := s.params()
	work := m.Clone()
	removed := 0
	stalled := false

	for work.VertexCount() > targetVertices {
		adj := buildAdjacency(work)
		infos := make([]VertexInfo, 0, work.VertexCount())
		for v := range work.Vertices {
			if info := p.classify(work, adj, uint32(v)); info.Candidate {
				infos = append(infos, info)
			}
		}
		slices.SortStableFunc(infos, func(a, b VertexInfo) int {
			return cmp.Compare(a.DistanceError, b.DistanceError)
		})

		info, ring, ok := p.pick(work, adj, infos)
		if !ok {
			stalled = true
			break
		}

		removeVertex(work, adj, uint32(info.Index), ring)
		removed++
		s.log().Debug("vertex removed",
			zap.Int("vertex", info.Index),
			zap.Float64("error", info.DistanceError),
			zap.Bool("boundary", info.Boundary),
			zap.Int("ring", len(ring)))
	}

	work.ComputeNormals()

	s.log().Info("vertex decimation finished",
		zap.Int("vertices_in", m.VertexCount()),
		zap.Int("vertices_out", work.VertexCount()),
		zap.Int("faces_in", m.FaceCount()),
		zap.Int("faces_out", work.FaceCount()),
		zap.Int("target", targetVertices),
		zap.Int("removed", removed),
		zap.Bool("stalled", stalled))
	return work
}

// pick scans candidates in order and returns the first removable one with its
// ordered one-ring.
func (p params) pick(m *mesh.Mesh, adj *adjacency, infos []VertexInfo) (VertexInfo, []uint32, bool) {
	for _, info := range infos {
		if !p.admissible(info) {
			continue
		}
		v := uint32(info.Index)
		ring := oneRing(m, adj.vertexFaces[v], v)
		if len(ring) < 3 {
			continue
		}
		if !p.fanAcceptable(m, ring) {
			continue
		}
		return info, ring, true
	}
	return VertexInfo{}, nil, false
}

// admissible applies the classification criteria: no features, boundary vertices
// only under half the distance limit, and the distance limit itself.
func (p params) admissible(info VertexInfo) bool {
	if !info.Candidate || info.Feature {
		return false
	}
	if info.Boundary && info.DistanceError >= p.maxDistance/2 {
		return false
	}
	return info.DistanceError < p.maxDistance
}

// fanAcceptable reports whether every fan triangle over ring keeps its
// longest/shortest edge ratio within the limit.
func (p params) fanAcceptable(m *mesh.Mesh, ring []uint32) bool {
	for _, f := range fan(ring) {
		if aspectRatio(m, f) > p.aspectRatio {
			return false
		}
	}
	return true
}

// aspectRatio returns longest/shortest edge length, +Inf for a zero-length edge.
func aspectRatio(m *mesh.Mesh, f mesh.Face) float64 {
	a, b, c := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
	l0 := float64(a.Distance(b))
	l1 := float64(b.Distance(c))
	l2 := float64(c.Distance(a))
	shortest := min(l0, l1, l2)
	if shortest == 0 {
		return gomath.Inf(1)
	}
	return max(l0, l1, l2) / shortest
}
