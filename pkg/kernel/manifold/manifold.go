//go:build manifold

// Package manifold implements kernel.Kernel with the Manifold C library
// (https://github.com/elalish/manifold). Booleans are exact and always
// produce manifold meshes, so tessellation needs no resolution setting.
//
// Requires manifoldc; build with -tags=manifold.
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/geobridge/pkg/kernel"
)

var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)

type manifoldSolid struct {
	ptr *C.ManifoldManifold
}

func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	bbox := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(bbox)

	min = [3]float64{
		float64(C.manifold_box_min_x(bbox)),
		float64(C.manifold_box_min_y(bbox)),
		float64(C.manifold_box_min_z(bbox)),
	}
	max = [3]float64{
		float64(C.manifold_box_max_x(bbox)),
		float64(C.manifold_box_max_y(bbox)),
		float64(C.manifold_box_max_z(bbox)),
	}
	return min, max
}

// newSolid takes ownership of ptr; it is freed when the solid is collected.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap(s kernel.Solid) *C.ManifoldManifold {
	return s.(*manifoldSolid).ptr
}

// ManifoldKernel implements kernel.Kernel using Manifold. Round primitives
// are approximated with segments facets around their circumference.
type ManifoldKernel struct {
	segments int
}

// New returns a Manifold kernel; non-positive segments selects
// DefaultSegments.
func New(segments int) (kernel.Kernel, error) {
	if segments <= 0 {
		segments = DefaultSegments
	}
	return &ManifoldKernel{segments: segments}, nil
}

func (k *ManifoldKernel) Box(x, y, z float64) (kernel.Solid, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return nil, fmt.Errorf("manifold: box: dimensions must be positive, got %g %g %g", x, y, z)
	}
	ptr := C.manifold_cube(C.manifold_alloc_manifold(),
		C.double(x), C.double(y), C.double(z),
		C.int(1), // centered
	)
	return newSolid(ptr), nil
}

// Cylinder creates a Z-aligned cylinder centered on the origin.
func (k *ManifoldKernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if height <= 0 || radius <= 0 {
		return nil, fmt.Errorf("manifold: cylinder: height and radius must be positive, got %g %g", height, radius)
	}
	ptr := C.manifold_cylinder(C.manifold_alloc_manifold(),
		C.double(height),
		C.double(radius), C.double(radius),
		C.int(k.segments),
		C.int(1), // centered
	)
	return newSolid(ptr), nil
}

func (k *ManifoldKernel) Sphere(radius float64) (kernel.Solid, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("manifold: sphere: radius must be positive, got %g", radius)
	}
	ptr := C.manifold_sphere(C.manifold_alloc_manifold(), C.double(radius), C.int(k.segments))
	return newSolid(ptr), nil
}

func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_union(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_difference(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return newSolid(C.manifold_intersection(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return newSolid(C.manifold_translate(C.manifold_alloc_manifold(), unwrap(s),
		C.double(x), C.double(y), C.double(z)))
}

// Rotate takes Euler angles in degrees.
func (k *ManifoldKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return newSolid(C.manifold_rotate(C.manifold_alloc_manifold(), unwrap(s),
		C.double(x), C.double(y), C.double(z)))
}

// ToMesh copies the solid's MeshGL. Manifold shares vertices between
// triangles; normals come from the vertex properties when present and
// are averaged from the faces otherwise.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	meshGL := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), unwrap(s))
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	// Positions are properties 0-2 of each vertex, normals 3-5 if present.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	props := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), meshGL)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), meshGL)

	m := &kernel.Mesh{
		Vertices: make([]float32, numVert*3),
		Indices:  indices,
	}
	hasNormals := numProp >= 6
	if hasNormals {
		m.Normals = make([]float32, numVert*3)
	}
	for i := 0; i < numVert; i++ {
		p := props[i*numProp:]
		copy(m.Vertices[i*3:i*3+3], p[:3])
		if hasNormals {
			copy(m.Normals[i*3:i*3+3], p[3:6])
		}
	}
	if !hasNormals {
		m.Normals = faceAveragedNormals(m.Vertices, indices)
	}
	return m, nil
}

// faceAveragedNormals sums the area-weighted face normals around each
// vertex and normalizes the result.
func faceAveragedNormals(vertices []float32, indices []uint32) []float32 {
	normals := make([]float64, len(vertices))
	at := func(i uint32) [3]float64 {
		return [3]float64{float64(vertices[i*3]), float64(vertices[i*3+1]), float64(vertices[i*3+2])}
	}
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := at(indices[t]), at(indices[t+1]), at(indices[t+2])
		e1 := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n := [3]float64{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, idx := range indices[t : t+3] {
			for j := 0; j < 3; j++ {
				normals[idx*3+uint32(j)] += n[j]
			}
		}
	}

	out := make([]float32, len(normals))
	for i := 0; i+2 < len(normals); i += 3 {
		l := math.Sqrt(normals[i]*normals[i] + normals[i+1]*normals[i+1] + normals[i+2]*normals[i+2])
		if l > 1e-12 {
			for j := 0; j < 3; j++ {
				out[i+j] = float32(normals[i+j] / l)
			}
		}
	}
	return out
}
