package geo

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Well-known property names.
const (
	PropPointPosition   = "point_position"
	PropPointColor      = "point_color"
	PropPointSize       = "point_size"
	PropPointID         = "point_id"
	PropPointInstanceID = "point_instance_id"
	PropPointNormal     = "point_normal"
	PropFaceVertex      = "face_vertex"
	PropFaceOffset      = "face_offset"
	PropStrandOffset    = "strand_offset"
	PropInstanceShape   = "instance_shape"
	PropInstanceShapes  = "instance_shapes"
	PropRenderGeometry  = "render_geometry"
)

// GeoValues returns the array stored in the geometric property name when it
// has element type T. The returned slice aliases the object's storage and
// must not be modified.
func GeoValues[T any](o *Object, name string) ([]T, bool) {
	v, ok := o.Property(name)
	if !ok {
		return nil, false
	}
	gp, ok := v.(*GeoProperty)
	if !ok {
		return nil, false
	}
	data, ok := gp.Data.([]T)
	return data, ok
}

// TargetOf returns the component target of a geometric property.
func TargetOf(o *Object, name string) (Target, bool) {
	v, ok := o.Property(name)
	if !ok {
		return "", false
	}
	gp, ok := v.(*GeoProperty)
	if !ok {
		return "", false
	}
	return gp.Target, true
}

// copyOf returns a caller-owned copy of a geometric array, or an empty
// non-nil slice when the property is absent or has another type.
func copyOf[T any](o *Object, name string) []T {
	data, ok := GeoValues[T](o, name)
	if !ok {
		return []T{}
	}
	return slices.Clone(data)
}

// Points returns the point positions.
func Points(o *Object) []mgl32.Vec3 { return copyOf[mgl32.Vec3](o, PropPointPosition) }

// DisplayColor returns the per-point colors.
func DisplayColor(o *Object) []mgl32.Vec3 { return copyOf[mgl32.Vec3](o, PropPointColor) }

// FaceVertexIndices returns the flattened vertex-index array shared by
// faces and strands.
func FaceVertexIndices(o *Object) []int32 { return copyOf[int32](o, PropFaceVertex) }

// Width returns the per-point sizes.
func Width(o *Object) []float32 { return copyOf[float32](o, PropPointSize) }

func PointIDs(o *Object) []int64         { return copyOf[int64](o, PropPointID) }
func PointInstanceIDs(o *Object) []int64 { return copyOf[int64](o, PropPointInstanceID) }

// PointCount returns the number of point positions.
func PointCount(o *Object) int {
	pts, _ := GeoValues[mgl32.Vec3](o, PropPointPosition)
	return len(pts)
}

// FaceOffsets returns the face offsets array, if present.
func FaceOffsets(o *Object) ([]int32, bool) {
	data, ok := GeoValues[int32](o, PropFaceOffset)
	if !ok {
		return nil, false
	}
	return slices.Clone(data), true
}

// StrandOffsets returns the strand offsets array, if present.
func StrandOffsets(o *Object) ([]int32, bool) {
	data, ok := GeoValues[int32](o, PropStrandOffset)
	if !ok {
		return nil, false
	}
	return slices.Clone(data), true
}

// InstanceShape returns the nested object holding an instancer's shapes.
func InstanceShape(o *Object) (*Object, bool) {
	return objectProp(o, PropInstanceShape)
}

// ShapeFromID returns entry id of the shape object's instance_shapes
// array. Out-of-range ids are absent.
func ShapeFromID(shape *Object, id int64) (*Object, bool) {
	v, ok := shape.Property(PropInstanceShapes)
	if !ok {
		return nil, false
	}
	shapes, ok := v.([]*Object)
	if !ok || id < 0 || id >= int64(len(shapes)) || shapes[id] == nil {
		return nil, false
	}
	return shapes[id], true
}

// RenderGeometry returns the renderable geometry attached to a shape.
func RenderGeometry(o *Object) (*Object, bool) {
	return objectProp(o, PropRenderGeometry)
}

func objectProp(o *Object, name string) (*Object, bool) {
	v, ok := o.Property(name)
	if !ok {
		return nil, false
	}
	obj, ok := v.(*Object)
	if !ok || obj == nil {
		return nil, false
	}
	return obj, true
}
