package geo

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cubePoints() []mgl32.Vec3 {
	return []mgl32.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
}

func TestBuilderSnapshot(t *testing.T) {
	b := NewBuilder(TagMesh).SetGeo(PropPointSize, TargetPoint, []float32{1, 2})
	first := b.Build()

	b.SetGeo(PropPointColor, TargetPoint, []mgl32.Vec3{{1, 0, 0}})
	b.Set("name", "later")
	second := b.Build()

	assert.Equal(t, []string{PropPointSize}, first.Keys())
	assert.Equal(t, []string{PropPointSize, PropPointColor, "name"}, second.Keys())
}

func TestBuildIsolatedFromCallerSlices(t *testing.T) {
	points := cubePoints()
	faceVertices := []int32{0, 1, 2, 3}
	o := NewMesh(points, faceVertices, []int32{0, 4}).Build()

	points[0] = mgl32.Vec3{9, 9, 9}
	faceVertices[0] = 7

	stored, ok := GeoValues[mgl32.Vec3](o, PropPointPosition)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, stored[0])
	assert.Equal(t, int32(0), FaceVertexIndices(o)[0])
}

func TestSetKeepsPosition(t *testing.T) {
	o := NewBuilder(TagNone).Set("a", 1).Set("b", 2).Set("a", 3).Build()
	assert.Equal(t, []string{"a", "b"}, o.Keys())
	v, ok := o.Property("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestNilObject(t *testing.T) {
	var o *Object
	assert.True(t, o.Empty())
	assert.Equal(t, TagNone, o.Tag())
	assert.Empty(t, Points(o))
	_, ok := o.Property(PropPointPosition)
	assert.False(t, ok)
	assert.Equal(t, "<nil>", o.String())
}

func TestAccessorsPresent(t *testing.T) {
	pts := cubePoints()
	o := NewMesh(pts, []int32{0, 1, 2, 3}, []int32{0, 4}).
		SetGeo(PropPointColor, TargetPoint, []mgl32.Vec3{{1, 0, 0}}).
		SetGeo(PropPointSize, TargetPoint, []float32{0.5}).
		SetGeo(PropPointID, TargetPoint, []int64{7}).
		Build()

	assert.Equal(t, pts, Points(o))
	assert.Equal(t, []mgl32.Vec3{{1, 0, 0}}, DisplayColor(o))
	assert.Equal(t, []int32{0, 1, 2, 3}, FaceVertexIndices(o))
	assert.Equal(t, []float32{0.5}, Width(o))
	assert.Equal(t, []int64{7}, PointIDs(o))
	assert.Equal(t, 8, PointCount(o))

	offsets, ok := FaceOffsets(o)
	require.True(t, ok)
	assert.Equal(t, []int32{0, 4}, offsets)
	_, ok = StrandOffsets(o)
	assert.False(t, ok)

	target, ok := TargetOf(o, PropFaceOffset)
	require.True(t, ok)
	assert.Equal(t, TargetFace, target)
}

func TestAccessorsReturnCopies(t *testing.T) {
	o := NewPointCloud(cubePoints()).Build()
	pts := Points(o)
	pts[0] = mgl32.Vec3{9, 9, 9}
	assert.Equal(t, mgl32.Vec3{-1, -1, -1}, Points(o)[0])
}

func TestAccessorsDefaultOnMismatch(t *testing.T) {
	o := NewBuilder(TagMesh).
		SetGeo(PropPointPosition, TargetPoint, []float32{1, 2, 3}).
		SetGeo(PropPointSize, TargetPoint, []mgl32.Vec3{{1, 1, 1}}).
		Set(PropPointColor, "red").
		Set(PropInstanceShape, "nope").
		Build()

	assert.NotNil(t, Points(o))
	assert.Empty(t, Points(o))
	assert.Empty(t, Width(o))
	assert.Empty(t, DisplayColor(o))
	assert.Empty(t, PointInstanceIDs(o))
	_, ok := InstanceShape(o)
	assert.False(t, ok)
	_, ok = RenderGeometry(o)
	assert.False(t, ok)
}

func TestShapeFromID(t *testing.T) {
	mesh := NewMesh(cubePoints(), []int32{0, 1, 2}, []int32{0, 3}).Build()
	inst := NewInstances(
		[]mgl32.Vec3{{0, 0, 0}, {2, 0, 0}},
		[]int64{0, 0},
		[]*Object{mesh},
	).Build()

	shape, ok := InstanceShape(inst)
	require.True(t, ok)

	entry, ok := ShapeFromID(shape, 0)
	require.True(t, ok)
	geom, ok := RenderGeometry(entry)
	require.True(t, ok)
	assert.Same(t, mesh, geom)

	for _, id := range []int64{-1, 1, 100} {
		_, ok := ShapeFromID(shape, id)
		assert.False(t, ok, "id %d", id)
	}
}

func TestClassify(t *testing.T) {
	pts := []mgl32.Vec3{{0, 0, 0}}
	tests := []struct {
		name string
		obj  *Object
		want GeoType
	}{
		{"nil", nil, Empty},
		{"no properties", EmptyObject(TagMesh), Empty},
		{"mesh", NewMesh(pts, nil, []int32{0}).Build(), Mesh},
		{"strands", NewStrands(pts, []int32{0, 1}).Build(), Strands},
		{"point cloud", NewPointCloud(pts).Build(), PointCloud},
		{"instances", NewInstances(pts, []int64{0}, nil).Build(), PointCloud},
		{"unknown tag", NewBuilder("volume").Set("density", 1.0).Build(), Empty},
		{"untagged", NewBuilder(TagNone).Set("x", 1).Build(), Empty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.obj))
		})
	}
}

func TestGeoTypeString(t *testing.T) {
	assert.Equal(t, "Empty", Empty.String())
	assert.Equal(t, "Mesh", Mesh.String())
	assert.Equal(t, "Strands", Strands.String())
	assert.Equal(t, "PointCloud", PointCloud.String())
}

func TestObjectString(t *testing.T) {
	o := NewMesh(cubePoints(), []int32{0, 1, 2}, []int32{0, 3}).Build()
	assert.Equal(t, "mesh{point_position[8], face_vertex[3], face_offset[2]}", o.String())
}
