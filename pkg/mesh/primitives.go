package mesh

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/meshreduce/pkg/math"
)

// Cube returns an axis-aligned cube centred on the origin with 8 vertices and
// 12 outward-facing triangles.
func Cube(size float32) *Mesh {
	h := size / 2
	m := &Mesh{
		Vertices: []math.Vec3{
			{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h}, {X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h},
			{X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h}, {X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
		},
		Faces: []Face{
			{0, 2, 1}, {0, 3, 2}, // -Z
			{4, 5, 6}, {4, 6, 7}, // +Z
			{0, 1, 5}, {0, 5, 4}, // -Y
			{3, 7, 6}, {3, 6, 2}, // +Y
			{0, 4, 7}, {0, 7, 3}, // -X
			{1, 2, 6}, {1, 6, 5}, // +X
		},
	}
	m.ComputeNormals()
	return m
}

// Grid returns a flat n x n cell grid in the XY plane spanning [0, size] on both
// axes: (n+1)^2 vertices and 2n^2 triangles facing +Z.
func Grid(n int, size float32) *Mesh {
	n = max(n, 1)
	step := size / float32(n)
	stride := uint32(n + 1)

	m := &Mesh{
		Vertices: make([]math.Vec3, 0, (n+1)*(n+1)),
		Faces:    make([]Face, 0, 2*n*n),
	}
	for row := 0; row <= n; row++ {
		for col := 0; col <= n; col++ {
			m.Vertices = append(m.Vertices, math.Vec3{X: float32(col) * step, Y: float32(row) * step})
		}
	}
	for row := uint32(0); row < uint32(n); row++ {
		for col := uint32(0); col < uint32(n); col++ {
			i := row*stride + col
			m.Faces = append(m.Faces,
				Face{i, i + 1, i + stride + 1},
				Face{i, i + stride + 1, i + stride},
			)
		}
	}
	m.ComputeNormals()
	return m
}

// Fan returns a regular polygon in the XY plane triangulated as a fan around a
// centre vertex. The centre is vertex 0, ring vertices follow counter-clockwise.
func Fan(sides int, radius float32) *Mesh {
	sides = max(sides, 3)
	m := &Mesh{
		Vertices: make([]math.Vec3, 0, sides+1),
		Faces:    make([]Face, 0, sides),
	}
	m.Vertices = append(m.Vertices, math.Vec3{})
	for k := 0; k < sides; k++ {
		angle := 2 * gomath.Pi * float64(k) / float64(sides)
		m.Vertices = append(m.Vertices, math.Vec3{
			X: radius * float32(gomath.Cos(angle)),
			Y: radius * float32(gomath.Sin(angle)),
		})
	}
	for k := 1; k <= sides; k++ {
		next := k%sides + 1
		m.Faces = append(m.Faces, Face{0, uint32(k), uint32(next)})
	}
	m.ComputeNormals()
	return m
}

// UVSphere returns a closed latitude/longitude sphere centred on the origin with
// Y as the polar axis. It has 2 + (rings-1)*segments vertices.
func UVSphere(rings, segments int, radius float32) *Mesh {
	rings = max(rings, 2)
	segments = max(segments, 3)

	m := &Mesh{}
	m.Vertices = append(m.Vertices, math.Vec3{Y: radius})
	for i := 1; i < rings; i++ {
		phi := gomath.Pi * float64(i) / float64(rings)
		y := radius * float32(gomath.Cos(phi))
		r := radius * float32(gomath.Sin(phi))
		for j := 0; j < segments; j++ {
			theta := 2 * gomath.Pi * float64(j) / float64(segments)
			m.Vertices = append(m.Vertices, math.Vec3{
				X: r * float32(gomath.Cos(theta)),
				Y: y,
				Z: r * float32(gomath.Sin(theta)),
			})
		}
	}
	south := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, math.Vec3{Y: -radius})

	seg := uint32(segments)
	ring := func(i, j uint32) uint32 { return 1 + (i-1)*seg + j%seg }

	for j := uint32(0); j < seg; j++ {
		m.Faces = append(m.Faces, Face{0, ring(1, j+1), ring(1, j)})
	}
	for i := uint32(1); i < uint32(rings-1); i++ {
		for j := uint32(0); j < seg; j++ {
			m.Faces = append(m.Faces,
				Face{ring(i, j), ring(i, j+1), ring(i+1, j+1)},
				Face{ring(i, j), ring(i+1, j+1), ring(i+1, j)},
			)
		}
	}
	last := uint32(rings - 1)
	for j := uint32(0); j < seg; j++ {
		m.Faces = append(m.Faces, Face{south, ring(last, j), ring(last, j+1)})
	}

	m.ComputeNormals()
	return m
}

// ErrUnknownShape is returned by Primitive for an unrecognised shape name.
var ErrUnknownShape = errors.New("unknown primitive shape")

// Shapes lists the names accepted by Primitive.
var Shapes = []string{"sphere", "grid", "cube", "fan"}

// Primitive builds a named shape. detail is the sphere's ring count (with twice as
// many segments), the grid's cells per side or the fan's side count; cubes ignore it.
func Primitive(shape string, detail int, size float32) (*Mesh, error) {
	switch shape {
	case "sphere":
		return UVSphere(detail, 2*detail, size/2), nil
	case "grid":
		return Grid(detail, size), nil
	case "cube":
		return Cube(size), nil
	case "fan":
		return Fan(detail, size/2), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownShape, shape)
}
