// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/geobridge/pkg/kernel"
)

var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells is the marching cubes resolution along the longest axis.
const DefaultMeshCells = 200

type sdfxSolid struct {
	s sdf.SDF3
}

func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel evaluates solids as signed distance fields and tessellates
// them with uniform marching cubes.
type SdfxKernel struct {
	meshCells int
}

// New returns a kernel tessellating with the given number of marching
// cubes cells; non-positive values select DefaultMeshCells.
func New(meshCells int) *SdfxKernel {
	if meshCells <= 0 {
		meshCells = DefaultMeshCells
	}
	return &SdfxKernel{meshCells: meshCells}
}

// MeshCells returns the tessellation resolution.
func (k *SdfxKernel) MeshCells() int {
	return k.meshCells
}

func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions, centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: box: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a Z-aligned cylinder centered on the origin.
func (k *SdfxKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx: cylinder: %w", err)
	}
	return wrap(s), nil
}

func (k *SdfxKernel) Sphere(radius float64) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx: sphere: %w", err)
	}
	return wrap(s), nil
}

func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return combine(func(a, b sdf.SDF3) sdf.SDF3 { return sdf.Union3D(a, b) }, a, b)
}

// Difference subtracts b from a.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return combine(sdf.Difference3D, a, b)
}

func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return combine(sdf.Intersect3D, a, b)
}

func combine(op func(a, b sdf.SDF3) sdf.SDF3, a, b kernel.Solid) kernel.Solid {
	return wrap(op(unwrap(a), unwrap(b)))
}

func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(sdf.Transform3D(unwrap(s), sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})))
}

// Rotate applies Euler angles in degrees, X first, then Y, then Z.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(mgl64.DegToRad(z)).
		Mul(sdf.RotateY(mgl64.DegToRad(y))).
		Mul(sdf.RotateX(mgl64.DegToRad(x)))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh runs marching cubes over the solid's bounding box. The result is
// unwelded: each triangle owns three vertices carrying its face normal.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	tris := render.ToTriangles(unwrap(s), render.NewMarchingCubesUniform(k.meshCells))

	m := &kernel.Mesh{
		Vertices: make([]float32, len(tris)*9),
		Normals:  make([]float32, len(tris)*9),
		Indices:  make([]uint32, len(tris)*3),
	}
	for i, tri := range tris {
		n := tri.Normal()
		for j, v := range tri {
			vi := i*3 + j
			copy(m.Vertices[vi*3:], []float32{float32(v.X), float32(v.Y), float32(v.Z)})
			copy(m.Normals[vi*3:], []float32{float32(n.X), float32(n.Y), float32(n.Z)})
			m.Indices[vi] = uint32(vi)
		}
	}
	return m, nil
}
