package geo

import "github.com/go-gl/mathgl/mgl32"

// NewMesh returns a builder for a polygon mesh. faceOffsets has one entry
// per face plus a leading zero and indexes into faceVertices.
func NewMesh(points []mgl32.Vec3, faceVertices, faceOffsets []int32) *Builder {
	return NewBuilder(TagMesh).
		SetGeo(PropPointPosition, TargetPoint, points).
		SetGeo(PropFaceVertex, TargetFaceVertex, faceVertices).
		SetGeo(PropFaceOffset, TargetFace, faceOffsets)
}

// NewStrands returns a builder for a set of curves. strandOffsets indexes
// into the points directly; add face_vertex to reorder them.
func NewStrands(points []mgl32.Vec3, strandOffsets []int32) *Builder {
	return NewBuilder(TagStrands).
		SetGeo(PropPointPosition, TargetPoint, points).
		SetGeo(PropStrandOffset, TargetStrand, strandOffsets)
}

func NewPointCloud(points []mgl32.Vec3) *Builder {
	return NewBuilder(TagPointCloud).
		SetGeo(PropPointPosition, TargetPoint, points)
}

// NewInstances returns a builder for an instancer. Each point is an
// instance; instanceIDs selects its prototype in shapes, and each shape's
// render geometry is what gets instanced.
func NewInstances(points []mgl32.Vec3, instanceIDs []int64, shapes []*Object) *Builder {
	entries := make([]*Object, len(shapes))
	for i, s := range shapes {
		entries[i] = NewBuilder(TagNone).Set(PropRenderGeometry, s).Build()
	}
	shape := NewBuilder(TagNone).Set(PropInstanceShapes, entries).Build()
	return NewBuilder(TagInstances).
		SetGeo(PropPointPosition, TargetPoint, points).
		SetGeo(PropPointInstanceID, TargetPoint, instanceIDs).
		Set(PropInstanceShape, shape)
}
