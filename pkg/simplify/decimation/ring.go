package decimation

import (
	"slices"

	"github.com/Faultbox/meshreduce/pkg/mesh"
)

// oneRing returns the neighbours of v bounding the hole its removal would open.
// Each incident face contributes the two corners following v in winding order.
// Those pairs are chained into a loop (or, at a boundary, an open chain) so the
// ring follows the surface orientation; when the faces do not chain cleanly the
// pairs are used in face order. Consecutive duplicates, including a last entry
// equal to the first, are collapsed.
func oneRing(m *mesh.Mesh, faces []int, v uint32) []uint32 {
	raw := make([]uint32, 0, 2*len(faces))
	next := make(map[uint32]uint32, len(faces))
	manifold := true

	for _, fi := range faces {
		f := m.Faces[fi]
		k := slices.Index(f[:], v)
		a, b := f[(k+1)%3], f[(k+2)%3]
		if a == v || b == v || a == b {
			continue
		}
		raw = append(raw, a, b)
		if _, dup := next[a]; dup {
			manifold = false
		}
		next[a] = b
	}

	ring := raw
	if manifold {
		if chain, ok := walk(next, raw); ok {
			ring = chain
		}
	}
	return collapseRepeats(ring)
}

// walk follows next from the start of the chain. An open chain starts at the only
// vertex that is never a successor; a closed loop starts at raw[0]. It fails when
// the walk does not visit every link exactly once.
func walk(next map[uint32]uint32, raw []uint32) ([]uint32, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	successors := make(map[uint32]bool, len(next))
	for _, b := range next {
		successors[b] = true
	}
	start := raw[0]
	starts := 0
	for i := 0; i < len(raw); i += 2 {
		if a := raw[i]; !successors[a] {
			start = a
			starts++
		}
	}
	if starts > 1 {
		return nil, false
	}

	chain := []uint32{start}
	cur := start
	for steps := 0; steps < len(next); steps++ {
		b, ok := next[cur]
		if !ok {
			return nil, false
		}
		if b == start {
			if steps != len(next)-1 {
				return nil, false
			}
			return chain, true
		}
		chain = append(chain, b)
		cur = b
	}
	// Open chain: the last vertex has no successor.
	if _, ok := next[cur]; ok {
		return nil, false
	}
	return chain, true
}

func collapseRepeats(ring []uint32) []uint32 {
	out := slices.Compact(slices.Clone(ring))
	for len(out) > 1 && out[len(out)-1] == out[0] {
		out = out[:len(out)-1]
	}
	return out
}

// fan triangulates ring around ring[0], skipping triangles that repeat an index.
func fan(ring []uint32) []mesh.Face {
	if len(ring) < 3 {
		return nil
	}
	faces := make([]mesh.Face, 0, len(ring)-2)
	for i := 1; i+1 < len(ring); i++ {
		f := mesh.Face{ring[0], ring[i], ring[i+1]}
		if f.Degenerate() {
			continue
		}
		faces = append(faces, f)
	}
	return faces
}

// removeVertex deletes v and its incident faces, shifts higher indices down by one
// and patches the hole with a fan over ring.
func removeVertex(m *mesh.Mesh, adj *adjacency, v uint32, ring []uint32) {
	incident := make(map[int]bool, len(adj.vertexFaces[v]))
	for _, fi := range adj.vertexFaces[v] {
		incident[fi] = true
	}

	shift := func(i uint32) uint32 {
		if i > v {
			return i - 1
		}
		return i
	}

	faces := make([]mesh.Face, 0, len(m.Faces))
	for fi, f := range m.Faces {
		if incident[fi] {
			continue
		}
		faces = append(faces, mesh.Face{shift(f[0]), shift(f[1]), shift(f[2])})
	}
	for _, f := range fan(ring) {
		faces = append(faces, mesh.Face{shift(f[0]), shift(f[1]), shift(f[2])})
	}
	m.Faces = faces

	if len(m.Normals) == len(m.Vertices) {
		m.Normals = slices.Delete(m.Normals, int(v), int(v)+1)
	}
	m.Vertices = slices.Delete(m.Vertices, int(v), int(v)+1)
}
