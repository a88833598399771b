// Package clustering implements Rossignac-Borrel uniform grid vertex clustering.
//
// The bounding box is divided into resolution^3 cells and all vertices falling into
// a cell merge into one representative at their centroid. Faces are remapped onto
// the representatives; a face is dropped only when all three corners land in the
// same cell. Faces with exactly two corners in one cell survive as zero-area
// triangles unless DropDegenerate is set.
package clustering

import (
	gomath "math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/Faultbox/meshreduce/pkg/math"
	"github.com/Faultbox/meshreduce/pkg/mesh"
)

// extentEpsilon replaces bounding box extents that are too small to divide by.
const extentEpsilon = 1e-6

type cellKey [3]int

type gridCell struct {
	key     cellKey
	members []uint32
	rep     math.Vec3
}

// Simplifier merges vertices on a uniform grid. The zero value is ready to use.
type Simplifier struct {
	Logger *zap.Logger
	// DropDegenerate also discards faces left with only two distinct corners.
	// Keeping them is the compatible default, though the zero-area triangles
	// fail Validate and are of doubtful use.
	DropDegenerate bool
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

// ResolutionForFactor estimates the grid resolution that keeps roughly
// vertexCount*factor vertices: max(2, cbrt(vertexCount*factor)).
func ResolutionForFactor(vertexCount int, factor float32) int {
	factor = min(max(factor, 0), 1)
	res := int(gomath.Cbrt(float64(vertexCount) * float64(factor)))
	return max(2, res)
}

// SimplifyByFactor clusters with ResolutionForFactor(vertexCount, factor).
func (s *Simplifier) SimplifyByFactor(m *mesh.Mesh, factor float32) *mesh.Mesh {
	return s.Simplify(m, ResolutionForFactor(m.VertexCount(), factor))
}

// Simplify clusters vertices on a resolution^3 grid. Resolutions below 1 are
// treated as 1. The output is deterministic for a given mesh and resolution and
// the input is never modified.
func (s *Simplifier) Simplify(m *mesh.Mesh, resolution int) *mesh.Mesh {
	if m.IsEmpty() {
		return m.Clone()
	}
	resolution = max(resolution, 1)

	cells, remap := assignCells(m, resolution)

	out := &mesh.Mesh{
		Vertices: make([]math.Vec3, 0, len(cells)),
		Faces:    make([]mesh.Face, 0, len(m.Faces)),
	}
	for i := range cells {
		cells[i].rep = centroid(m, cells[i].members)
		out.Vertices = append(out.Vertices, cells[i].rep)
	}

	collapsed, kept := 0, 0
	for _, f := range m.Faces {
		g := mesh.Face{remap[f[0]], remap[f[1]], remap[f[2]]}
		if g[0] == g[1] && g[1] == g[2] {
			collapsed++
			continue
		}
		if g.Degenerate() {
			if s.DropDegenerate {
				collapsed++
				continue
			}
			kept++
		}
		out.Faces = append(out.Faces, g)
	}

	out.ComputeNormals()

	s.log().Info("vertex clustering finished",
		zap.Int("resolution", resolution),
		zap.Int("vertices_in", m.VertexCount()),
		zap.Int("vertices_out", out.VertexCount()),
		zap.Int("faces_in", m.FaceCount()),
		zap.Int("faces_out", out.FaceCount()),
		zap.Int("faces_dropped", collapsed),
		zap.Int("degenerate_kept", kept))
	return out
}

// assignCells buckets every vertex into its grid cell. Cells are returned in the
// order they are first occupied when scanning vertices by index; remap gives the
// output index of each input vertex.
func assignCells(m *mesh.Mesh, resolution int) ([]gridCell, []uint32) {
	box := bounds(m)
	size := box.Size()
	size.X = max(size.X, extentEpsilon)
	size.Y = max(size.Y, extentEpsilon)
	size.Z = max(size.Z, extentEpsilon)

	var cells []gridCell
	index := make(map[cellKey]uint32)
	remap := make([]uint32, m.VertexCount())

	for i, v := range m.Vertices {
		key := cellOf(toR3(v), box.Min, size, resolution)
		ci, ok := index[key]
		if !ok {
			ci = uint32(len(cells))
			index[key] = ci
			cells = append(cells, gridCell{key: key})
		}
		cells[ci].members = append(cells[ci].members, uint32(i))
		remap[i] = ci
	}
	return cells, remap
}

// cellOf maps p to its cell, clamping each axis to [0, resolution-1] so points on
// the upper face of the box stay inside the grid.
func cellOf(p, lo, size r3.Vec, resolution int) cellKey {
	d := r3.Sub(p, lo)
	n := [3]float64{d.X / size.X, d.Y / size.Y, d.Z / size.Z}

	var key cellKey
	for axis, t := range n {
		t = min(max(t, 0), 1)
		key[axis] = min(int(t*float64(resolution)), resolution-1)
	}
	return key
}

func bounds(m *mesh.Mesh) r3.Box {
	lo, hi := m.Bounds()
	return r3.Box{Min: toR3(lo), Max: toR3(hi)}
}

// centroid averages member positions in float64.
func centroid(m *mesh.Mesh, members []uint32) math.Vec3 {
	if len(members) == 0 {
		return math.Vec3{}
	}
	var sum r3.Vec
	for _, vi := range members {
		sum = r3.Add(sum, toR3(m.Vertices[vi]))
	}
	c := r3.Scale(1/float64(len(members)), sum)
	return math.Vec3{X: float32(c.X), Y: float32(c.Y), Z: float32(c.Z)}
}

func toR3(v math.Vec3) r3.Vec {
	return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}
