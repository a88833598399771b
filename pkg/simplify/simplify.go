// Package simplify selects and runs one of the mesh reduction algorithms.
package simplify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshreduce/pkg/mesh"
	"github.com/Faultbox/meshreduce/pkg/simplify/clustering"
	"github.com/Faultbox/meshreduce/pkg/simplify/decimation"
	"github.com/Faultbox/meshreduce/pkg/simplify/edgecollapse"
)

// ErrUnknownMethod is returned for an unrecognised method name or value.
var ErrUnknownMethod = errors.New("unknown simplification method")

// Method identifies a reduction algorithm.
type Method int

const (
	EdgeCollapse     Method = iota // Garland-Heckbert
	VertexDecimation               // Schroeder-Zarge-Lorensen
	VertexClustering               // Rossignac-Borrel
)

// Methods lists every method in display order.
var Methods = []Method{EdgeCollapse, VertexDecimation, VertexClustering}

// String returns the method's config name.
func (m Method) String() string {
	switch m {
	case EdgeCollapse:
		return "edge_collapse"
	case VertexDecimation:
		return "vertex_decimation"
	case VertexClustering:
		return "vertex_clustering"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Title returns a human-readable name.
func (m Method) Title() string {
	switch m {
	case EdgeCollapse:
		return "Edge Collapse (Garland-Heckbert)"
	case VertexDecimation:
		return "Vertex Decimation (Schroeder-Zarge-Lorensen)"
	case VertexClustering:
		return "Vertex Clustering (Rossignac-Borrel)"
	default:
		return m.String()
	}
}

// ParseMethod parses a config name or short alias (ec, vd, vc). Case, dashes and
// spaces are ignored.
func ParseMethod(s string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	switch key {
	case "edge_collapse", "ec", "garland_heckbert":
		return EdgeCollapse, nil
	case "vertex_decimation", "vd", "decimation":
		return VertexDecimation, nil
	case "vertex_clustering", "vc", "clustering":
		return VertexClustering, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Options configures all methods. Fields irrelevant to a method are ignored.
type Options struct {
	// Reduction is the fraction of vertices to keep, in [0, 1].
	Reduction float32
	// GridResolution overrides the clustering resolution derived from Reduction
	// when positive.
	GridResolution int
	FeatureAngle   float64
	AspectRatio    float64
	MaxDistance    float64
	DropDegenerate bool
	Logger         *zap.Logger
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Reduction:    0.5,
		FeatureAngle: decimation.DefaultFeatureAngle,
		AspectRatio:  decimation.DefaultAspectRatio,
		MaxDistance:  decimation.DefaultMaxDistance,
	}
}

// Simplifier is the behaviour shared by every method.
type Simplifier interface {
	SimplifyByFactor(m *mesh.Mesh, factor float32) *mesh.Mesh
}

// fixedGrid ignores the factor and clusters at a set resolution.
type fixedGrid struct {
	s          *clustering.Simplifier
	resolution int
}

func (g fixedGrid) SimplifyByFactor(m *mesh.Mesh, _ float32) *mesh.Mesh {
	return g.s.Simplify(m, g.resolution)
}

// New builds the simplifier for method.
func New(method Method, opts Options) (Simplifier, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.Stringer("method", method))

	switch method {
	case EdgeCollapse:
		return edgecollapse.New(logger), nil
	case VertexDecimation:
		return &decimation.Simplifier{
			FeatureAngle: opts.FeatureAngle,
			AspectRatio:  opts.AspectRatio,
			MaxDistance:  opts.MaxDistance,
			Logger:       logger,
		}, nil
	case VertexClustering:
		c := &clustering.Simplifier{Logger: logger, DropDegenerate: opts.DropDegenerate}
		if opts.GridResolution > 0 {
			return fixedGrid{s: c, resolution: opts.GridResolution}, nil
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownMethod, method)
}

// Result reports one simplification run.
type Result struct {
	Method        Method
	Mesh          *mesh.Mesh
	InputVertices int
	InputFaces    int
	Elapsed       time.Duration
	// Valid is the Validate result of the output. Clustering may legitimately
	// report false while it keeps zero-area faces.
	Valid bool
}

// Ratio returns output vertices over input vertices.
func (r Result) Ratio() float64 {
	if r.InputVertices == 0 {
		return 1
	}
	return float64(r.Mesh.VertexCount()) / float64(r.InputVertices)
}

// Run simplifies m with method using opts.Reduction as the factor.
func Run(m *mesh.Mesh, method Method, opts Options) (Result, error) {
	s, err := New(method, opts)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	out := s.SimplifyByFactor(m, opts.Reduction)
	return Result{
		Method:        method,
		Mesh:          out,
		InputVertices: m.VertexCount(),
		InputFaces:    m.FaceCount(),
		Elapsed:       time.Since(start),
		Valid:         out.Validate(),
	}, nil
}

// RunAll runs every method on the same input, in Methods order.
func RunAll(m *mesh.Mesh, opts Options) []Result {
	results := make([]Result, 0, len(Methods))
	for _, method := range Methods {
		// Methods only holds known values, so Run cannot fail here.
		r, _ := Run(m, method, opts)
		results = append(results, r)
	}
	return results
}
