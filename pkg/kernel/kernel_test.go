package kernel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/topology"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	if !(&Mesh{}).IsEmpty() {
		t.Error("IsEmpty() = false for empty mesh, want true")
	}
	if (&Mesh{Vertices: []float32{1, 2, 3}}).IsEmpty() {
		t.Error("IsEmpty() = true for non-empty mesh, want false")
	}
}

// --- ToObject ---

// quad is two triangles sharing an edge, unwelded as marching cubes emits
// them.
func quad() *Mesh {
	return &Mesh{
		Vertices: []float32{
			0, 0, 0, 1, 0, 0, 1, 1, 0,
			0, 0, 0, 1, 1, 0, 0, 1, 0,
		},
		Normals: []float32{
			0, 0, 1, 0, 0, 1, 0, 0, 1,
			0, 0, 1, 0, 0, 1, 0, 0, 1,
		},
		Indices: []uint32{0, 1, 2, 3, 4, 5},
	}
}

func TestToObjectWelds(t *testing.T) {
	o := ToObject(quad()).Build()

	if got := geo.Classify(o); got != geo.Mesh {
		t.Fatalf("Classify() = %v, want Mesh", got)
	}
	pts := geo.Points(o)
	if len(pts) != 4 {
		t.Fatalf("welded point count = %d, want 4", len(pts))
	}
	fv := geo.FaceVertexIndices(o)
	want := []int32{0, 1, 2, 0, 2, 3}
	for i := range want {
		if fv[i] != want[i] {
			t.Fatalf("face vertices = %v, want %v", fv, want)
		}
	}
	offsets, ok := geo.FaceOffsets(o)
	if !ok {
		t.Fatal("missing face offsets")
	}
	if err := topology.Validate(offsets); err != nil {
		t.Fatalf("invalid offsets %v: %v", offsets, err)
	}
	counts, _ := topology.OffsetsToCounts(offsets)
	for _, c := range counts {
		if c != 3 {
			t.Fatalf("counts = %v, want all 3", counts)
		}
	}

	normals, ok := geo.GeoValues[mgl32.Vec3](o, geo.PropPointNormal)
	if !ok || len(normals) != 4 {
		t.Fatalf("normals = %v, want 4 entries", normals)
	}
	for i, n := range normals {
		if !n.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
			t.Errorf("normal[%d] = %v, want +Z", i, n)
		}
	}
}

func TestToObjectEmpty(t *testing.T) {
	o := ToObject(&Mesh{}).Build()
	if geo.PointCount(o) != 0 {
		t.Errorf("PointCount() = %d, want 0", geo.PointCount(o))
	}
	offsets, _ := geo.FaceOffsets(o)
	if len(offsets) != 1 || offsets[0] != 0 {
		t.Errorf("offsets = %v, want [0]", offsets)
	}
}

// --- Compile-time interface check with a stub kernel ---

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB [3]float64
}

func (s *stubSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

// stubKernel proves the interface is satisfiable.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-x / 2, -y / 2, -z / 2},
		maxBB: [3]float64{x / 2, y / 2, z / 2},
	}, nil
}

func (k *stubKernel) Cylinder(height, radius float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -height / 2},
		maxBB: [3]float64{radius, radius, height / 2},
	}, nil
}

func (k *stubKernel) Sphere(radius float64) (Solid, error) {
	return &stubSolid{
		minBB: [3]float64{-radius, -radius, -radius},
		maxBB: [3]float64{radius, radius, radius},
	}, nil
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(_ Solid) (*Mesh, error) {
	return quad(), nil
}

var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelPipeline(t *testing.T) {
	var k Kernel = &stubKernel{}
	s, err := k.Box(10, 20, 30)
	if err != nil {
		t.Fatalf("Box() error = %v", err)
	}
	min, max := s.BoundingBox()
	if min != [3]float64{-5, -10, -15} || max != [3]float64{5, 10, 15} {
		t.Errorf("Box bounds = %v..%v", min, max)
	}
	m, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if got := geo.PointCount(ToObject(m).Build()); got != 4 {
		t.Errorf("PointCount() = %d, want 4", got)
	}
}
