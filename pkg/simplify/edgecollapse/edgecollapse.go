// Package edgecollapse implements Garland-Heckbert quadric error edge contraction.
//
// Every vertex carries the sum of the plane quadrics of its incident faces. Edges are
// contracted cheapest first; the survivor moves to the position minimising the summed
// quadric and inherits that sum. Output meshes contain no degenerate faces.
package edgecollapse

import (
	"container/heap"
	gomath "math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/meshreduce/pkg/math"
	"github.com/Faultbox/meshreduce/pkg/mesh"
)

// Collapse describes one contraction, reported through Simplifier.OnCollapse.
// Indices refer to the input mesh.
type Collapse struct {
	Kept     uint32
	Removed  uint32
	Position math.Vec3
	Error    float64
}

// Simplifier contracts edges by quadric error. The zero value is ready to use.
type Simplifier struct {
	// Logger receives a summary per call and one debug entry per contraction.
	Logger *zap.Logger
	// OnCollapse, if set, is called after every contraction.
	OnCollapse func(Collapse)
}

// New returns a Simplifier that logs to logger. A nil logger disables logging.
func New(logger *zap.Logger) *Simplifier {
	return &Simplifier{Logger: logger}
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

// Simplify contracts edges until the mesh has at most targetVertices vertices or no
// edge remains. A target at or above the current count returns an unchanged copy.
// The input is never modified.
func (s *Simplifier) Simplify(m *mesh.Mesh, targetVertices int) *mesh.Mesh {
	if targetVertices >= m.VertexCount() {
		return m.Clone()
	}
	targetVertices = max(targetVertices, 0)

	c := newCollapser(m)
	collapses := 0
	maxErr := 0.0

	for c.remaining > targetVertices && c.queue.Len() > 0 {
		e := heap.Pop(&c.queue).(*candidate)
		if c.stale(e) {
			continue
		}

		c.collapse(e)
		collapses++
		maxErr = max(maxErr, e.err)

		pos := toVec3(e.pos)
		s.log().Debug("edge collapsed",
			zap.Uint32("kept", e.a),
			zap.Uint32("removed", e.b),
			zap.Float64("error", e.err))
		if s.OnCollapse != nil {
			s.OnCollapse(Collapse{Kept: e.a, Removed: e.b, Position: pos, Error: e.err})
		}
	}

	out := c.result()
	s.log().Info("edge collapse finished",
		zap.Int("vertices_in", m.VertexCount()),
		zap.Int("vertices_out", out.VertexCount()),
		zap.Int("faces_in", m.FaceCount()),
		zap.Int("faces_out", out.FaceCount()),
		zap.Int("target", targetVertices),
		zap.Int("collapses", collapses),
		zap.Float64("max_error", maxErr))
	return out
}

// collapser holds the working state of one Simplify call.
type collapser struct {
	verts       []mgl64.Vec3
	quadrics    []Quadric
	faces       []mesh.Face
	faceAlive   []bool
	removed     []bool
	version     []uint32
	vertexFaces [][]int
	queue       edgeQueue
	remaining   int
}

func newCollapser(m *mesh.Mesh) *collapser {
	n := m.VertexCount()
	c := &collapser{
		verts:       make([]mgl64.Vec3, n),
		quadrics:    make([]Quadric, n),
		removed:     make([]bool, n),
		version:     make([]uint32, n),
		vertexFaces: make([][]int, n),
		remaining:   n,
	}
	for i, v := range m.Vertices {
		c.verts[i] = mgl64.Vec3{float64(v.X), float64(v.Y), float64(v.Z)}
	}

	// Degenerate input faces carry no area and are dropped up front, as are
	// faces referencing vertices that do not exist.
	for _, f := range m.Faces {
		if f.Degenerate() || max(f[0], f[1], f[2]) >= uint32(n) {
			continue
		}
		fi := len(c.faces)
		c.faces = append(c.faces, f)
		c.faceAlive = append(c.faceAlive, true)
		for _, v := range f {
			c.vertexFaces[v] = append(c.vertexFaces[v], fi)
		}

		q, ok := c.faceQuadric(f)
		if !ok {
			continue
		}
		for _, v := range f {
			c.quadrics[v] = c.quadrics[v].Add(q)
		}
	}

	edges := (&mesh.Mesh{Faces: c.faces}).Edges()
	c.queue = make(edgeQueue, 0, len(edges))
	for _, e := range edges {
		c.queue = append(c.queue, c.newCandidate(e.A, e.B))
	}
	heap.Init(&c.queue)
	return c
}

// faceQuadric returns the plane quadric of f, or false for a zero-area face.
func (c *collapser) faceQuadric(f mesh.Face) (Quadric, bool) {
	v0, v1, v2 := c.verts[f[0]], c.verts[f[1]], c.verts[f[2]]
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	if n.Len() == 0 {
		return Quadric{}, false
	}
	n = n.Normalize()
	d := -n.Dot(v0)
	return PlaneQuadric(n[0], n[1], n[2], d), true
}

func (c *collapser) newCandidate(a, b uint32) *candidate {
	if a > b {
		a, b = b, a
	}
	q := c.quadrics[a].Add(c.quadrics[b])
	pos, err := placement(q, c.verts[a], c.verts[b])
	return &candidate{
		a:      a,
		b:      b,
		pos:    pos,
		err:    err,
		stampA: c.version[a],
		stampB: c.version[b],
	}
}

func (c *collapser) stale(e *candidate) bool {
	return c.removed[e.a] || c.removed[e.b] ||
		c.version[e.a] != e.stampA || c.version[e.b] != e.stampB
}

// collapse contracts e.b into e.a and requeues the edges around the survivor.
func (c *collapser) collapse(e *candidate) {
	a, b := e.a, e.b
	c.verts[a] = e.pos
	c.quadrics[a] = c.quadrics[a].Add(c.quadrics[b])
	c.removed[b] = true
	c.remaining--

	for _, fi := range c.vertexFaces[b] {
		if !c.faceAlive[fi] {
			continue
		}
		f := &c.faces[fi]
		for k := range f {
			if f[k] == b {
				f[k] = a
			}
		}
		if f.Degenerate() {
			c.faceAlive[fi] = false
			continue
		}
		c.vertexFaces[a] = append(c.vertexFaces[a], fi)
	}
	c.vertexFaces[b] = nil
	c.version[a]++

	// Compact a's incidence list and requeue an edge to every neighbour.
	live := c.vertexFaces[a][:0]
	var neighbours []uint32
	for _, fi := range c.vertexFaces[a] {
		if !c.faceAlive[fi] {
			continue
		}
		live = append(live, fi)
		for _, v := range c.faces[fi] {
			if v != a {
				neighbours = append(neighbours, v)
			}
		}
	}
	c.vertexFaces[a] = live

	slices.Sort(neighbours)
	for _, v := range slices.Compact(neighbours) {
		heap.Push(&c.queue, c.newCandidate(a, v))
	}
}

// result compacts the surviving vertices, preserving their order.
func (c *collapser) result() *mesh.Mesh {
	remap := make([]uint32, len(c.verts))
	out := &mesh.Mesh{
		Vertices: make([]math.Vec3, 0, c.remaining),
	}
	for i, v := range c.verts {
		if c.removed[i] {
			continue
		}
		remap[i] = uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, toVec3(v))
	}
	for fi, f := range c.faces {
		if !c.faceAlive[fi] {
			continue
		}
		out.Faces = append(out.Faces, mesh.Face{remap[f[0]], remap[f[1]], remap[f[2]]})
	}
	out.ComputeNormals()
	return out
}

func toVec3(v mgl64.Vec3) math.Vec3 {
	return math.Vec3{X: float32(v[0]), Y: float32(v[1]), Z: float32(v[2])}
}
