// Package geo implements the flat property-bag geometry model: objects are
// ordered bags of named values, where geometric arrays carry the component
// domain (point, face, face-vertex, strand) they apply to.
package geo

import (
	"fmt"
	"slices"
	"strings"

	"cogentcore.org/core/base/keylist"
	"github.com/go-gl/mathgl/mgl32"
)

// Tag is the declared type of an object. The classifier dispatches on it.
type Tag string

const (
	TagNone       Tag = ""
	TagMesh       Tag = "mesh"
	TagStrands    Tag = "strands"
	TagPointCloud Tag = "pointcloud"
	TagInstances  Tag = "instances"
)

// Target is the component domain a geometric property applies to.
type Target string

const (
	TargetPoint      Target = "point_component"
	TargetFace       Target = "face_component"
	TargetFaceVertex Target = "face_vertex_component"
	TargetStrand     Target = "strand_component"
)

// GeoProperty is a typed array tagged with its component target.
// Data holds one of []float32, []mgl32.Vec3, []int32 or []int64.
type GeoProperty struct {
	Target Target
	Data   any
}

// Len returns the number of elements in the property's array, or zero for
// an unsupported payload.
func (p *GeoProperty) Len() int {
	switch d := p.Data.(type) {
	case []float32:
		return len(d)
	case []int32:
		return len(d)
	case []int64:
		return len(d)
	case []mgl32.Vec3:
		return len(d)
	default:
		return 0
	}
}

// Object is an immutable property bag. Build one with a Builder.
type Object struct {
	tag   Tag
	props *keylist.List[string, any]
}

// Tag returns the declared type of the object.
func (o *Object) Tag() Tag {
	if o == nil {
		return TagNone
	}
	return o.tag
}

// Property returns the value stored under name.
func (o *Object) Property(name string) (any, bool) {
	if o == nil || o.props == nil {
		return nil, false
	}
	return o.props.AtTry(name)
}

// Keys returns the property names in insertion order.
func (o *Object) Keys() []string {
	if o == nil || o.props == nil {
		return nil
	}
	keys := make([]string, len(o.props.Keys))
	copy(keys, o.props.Keys)
	return keys
}

// Len returns the number of properties.
func (o *Object) Len() int {
	if o == nil || o.props == nil {
		return 0
	}
	return o.props.Len()
}

// Empty reports whether the object is nil or holds no properties.
func (o *Object) Empty() bool {
	return o.Len() == 0
}

func (o *Object) String() string {
	if o == nil || o.props == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s{", o.tag)
	for i, k := range o.props.Keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		if gp, ok := o.props.Values[i].(*GeoProperty); ok {
			fmt.Fprintf(&b, "[%d]", gp.Len())
		}
	}
	b.WriteString("}")
	return b.String()
}

// Builder accumulates properties for a new Object. A Builder is not safe
// for concurrent use.
type Builder struct {
	tag   Tag
	props *keylist.List[string, any]
}

// NewBuilder returns a builder for an object with the given type tag.
func NewBuilder(tag Tag) *Builder {
	return &Builder{tag: tag, props: keylist.New[string, any]()}
}

// Set stores a value under name, replacing any previous value but keeping
// its position.
func (b *Builder) Set(name string, v any) *Builder {
	b.props.Set(name, v)
	return b
}

// SetGeo stores a copy of the typed array data tagged with target, so later
// changes to the caller's slice do not reach built objects.
func (b *Builder) SetGeo(name string, target Target, data any) *Builder {
	return b.Set(name, &GeoProperty{Target: target, Data: cloneArray(data)})
}

func cloneArray(data any) any {
	switch d := data.(type) {
	case []mgl32.Vec3:
		return slices.Clone(d)
	case []int32:
		return slices.Clone(d)
	case []int64:
		return slices.Clone(d)
	case []float32:
		return slices.Clone(d)
	case []float64:
		return slices.Clone(d)
	}
	return data
}

// Build returns an immutable snapshot of the builder's current state.
// Subsequent builder calls do not affect the returned object.
func (b *Builder) Build() *Object {
	props := keylist.New[string, any]()
	for i, k := range b.props.Keys {
		props.Set(k, b.props.Values[i])
	}
	return &Object{tag: b.tag, props: props}
}

// EmptyObject returns an object with the given tag and no properties.
func EmptyObject(tag Tag) *Object {
	return NewBuilder(tag).Build()
}
