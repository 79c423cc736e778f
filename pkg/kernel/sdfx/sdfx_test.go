package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/kernel"
)

// testCells keeps tessellation fast.
const testCells = 40

// mustSolid fails the test when a primitive constructor returns an error:
// mustSolid(t)(k.Box(1, 2, 3)).
func mustSolid(t *testing.T) func(kernel.Solid, error) kernel.Solid {
	return func(s kernel.Solid, err error) kernel.Solid {
		t.Helper()
		if err != nil {
			t.Fatalf("primitive failed: %v", err)
		}
		return s
	}
}

func TestNewDefaultCells(t *testing.T) {
	if got := New(0).MeshCells(); got != DefaultMeshCells {
		t.Errorf("MeshCells() = %d, want %d", got, DefaultMeshCells)
	}
	if got := New(12).MeshCells(); got != 12 {
		t.Errorf("MeshCells() = %d, want 12", got)
	}
}

func TestBox(t *testing.T) {
	k := New(testCells)
	box := mustSolid(t)(k.Box(100, 50, 25))
	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != triCount*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), triCount*3)
	}
}

func TestInvalidPrimitives(t *testing.T) {
	k := New(testCells)
	if _, err := k.Box(-1, 1, 1); err == nil {
		t.Error("Box(-1,1,1) succeeded, want error")
	}
	if _, err := k.Cylinder(10, -2); err == nil {
		t.Error("Cylinder(10,-2) succeeded, want error")
	}
	if _, err := k.Sphere(0); err == nil {
		t.Error("Sphere(0) succeeded, want error")
	}
}

func TestCylinderAndSphere(t *testing.T) {
	k := New(testCells)
	for name, s := range map[string]kernel.Solid{
		"cylinder": mustSolid(t)(k.Cylinder(50, 10)),
		"sphere":   mustSolid(t)(k.Sphere(20)),
	} {
		mesh, err := k.ToMesh(s)
		if err != nil {
			t.Fatalf("%s: ToMesh failed: %v", name, err)
		}
		if mesh.TriangleCount() == 0 {
			t.Fatalf("%s: expected non-zero triangle count", name)
		}
	}
}

func TestDifference(t *testing.T) {
	k := New(testCells)

	box := mustSolid(t)(k.Box(100, 100, 100))
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	cyl := mustSolid(t)(k.Cylinder(120, 20))
	diffMesh, err := k.ToMesh(k.Difference(box, cyl))
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnionAndIntersection(t *testing.T) {
	k := New(testCells)
	a := mustSolid(t)(k.Box(50, 50, 50))
	b := k.Translate(mustSolid(t)(k.Box(50, 50, 50)), 30, 0, 0)

	umin, umax := k.Union(a, b).BoundingBox()
	if umin[0] > -24.5 || umax[0] < 54.5 {
		t.Errorf("union x range = [%f, %f], want ~[-25, 55]", umin[0], umax[0])
	}
	imin, imax := k.Intersection(a, b).BoundingBox()
	if imax[0]-imin[0] > umax[0]-umin[0] {
		t.Errorf("intersection wider than union")
	}
}

func TestTranslate(t *testing.T) {
	k := New(testCells)
	box := mustSolid(t)(k.Box(10, 10, 10))
	min, max := k.Translate(box, 100, 200, 300).BoundingBox()

	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestRotate(t *testing.T) {
	k := New(testCells)
	box := mustSolid(t)(k.Box(100, 10, 10))
	min, max := k.Rotate(box, 0, 0, 90).BoundingBox()
	if w := max[0] - min[0]; w > 20 {
		t.Errorf("rotated x extent = %f, want ~10", w)
	}
	if h := max[1] - min[1]; h < 90 {
		t.Errorf("rotated y extent = %f, want ~100", h)
	}
}

func TestToObject(t *testing.T) {
	k := New(testCells)
	mesh, err := k.ToMesh(mustSolid(t)(k.Sphere(10)))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	o := kernel.ToObject(mesh).Build()

	if geo.Classify(o) != geo.Mesh {
		t.Fatalf("Classify() = %v, want Mesh", geo.Classify(o))
	}
	n := geo.PointCount(o)
	if n == 0 || n >= mesh.VertexCount() {
		t.Fatalf("welded %d vertices into %d points, want fewer", mesh.VertexCount(), n)
	}
	for _, idx := range geo.FaceVertexIndices(o) {
		if idx < 0 || int(idx) >= n {
			t.Fatalf("face vertex %d out of range [0,%d)", idx, n)
		}
	}
	offsets, _ := geo.FaceOffsets(o)
	if len(offsets) != mesh.TriangleCount()+1 {
		t.Fatalf("len(offsets) = %d, want %d", len(offsets), mesh.TriangleCount()+1)
	}
}

func TestBoxToObjectWelds(t *testing.T) {
	k := New(testCells)
	mesh, err := k.ToMesh(mustSolid(t)(k.Box(20, 10, 10)))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	o := kernel.ToObject(mesh).Build()

	n := geo.PointCount(o)
	if n == 0 || n >= mesh.VertexCount() {
		t.Fatalf("welded %d vertices into %d points, want fewer", mesh.VertexCount(), n)
	}
	const tol = 0.5
	for i, p := range geo.Points(o) {
		if math.Abs(float64(p[0])) > 10+tol || math.Abs(float64(p[1])) > 5+tol || math.Abs(float64(p[2])) > 5+tol {
			t.Fatalf("point %d = %v outside box bounds", i, p)
		}
	}
	if fv := geo.FaceVertexIndices(o); len(fv) != mesh.TriangleCount()*3 {
		t.Fatalf("face vertices = %d, want %d", len(fv), mesh.TriangleCount()*3)
	}
}
