package kernel

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/geobridge/pkg/geo"
)

// Mesh is an unwelded triangle soup.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 // [nx0,ny0,nz0, ...]
	Indices  []uint32  // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

func (m *Mesh) vertex(i uint32) mgl32.Vec3 {
	return mgl32.Vec3{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

func (m *Mesh) normal(i uint32) mgl32.Vec3 {
	if int(3*i+2) >= len(m.Normals) {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{m.Normals[3*i], m.Normals[3*i+1], m.Normals[3*i+2]}
}

// ToObject welds coincident vertices of m and returns a flat mesh object
// with one triangle face per input triangle. Per-point normals are the
// normalized sum of the normals of every vertex welded into the point.
func ToObject(m *Mesh) *geo.Builder {
	welded := make(map[mgl32.Vec3]int32, m.VertexCount())
	var points, normalSums []mgl32.Vec3

	faceVertices := make([]int32, len(m.Indices))
	for i, vi := range m.Indices {
		v := m.vertex(vi)
		idx, ok := welded[v]
		if !ok {
			idx = int32(len(points))
			welded[v] = idx
			points = append(points, v)
			normalSums = append(normalSums, mgl32.Vec3{})
		}
		normalSums[idx] = normalSums[idx].Add(m.normal(vi))
		faceVertices[i] = idx
	}

	faceOffsets := make([]int32, m.TriangleCount()+1)
	for i := range faceOffsets {
		faceOffsets[i] = int32(3 * i)
	}

	normals := make([]mgl32.Vec3, len(normalSums))
	for i, n := range normalSums {
		if n.Len() > 0 {
			normals[i] = n.Normalize()
		}
	}

	return geo.NewMesh(points, faceVertices[:3*m.TriangleCount()], faceOffsets).
		SetGeo(geo.PropPointNormal, geo.TargetPoint, normals)
}
