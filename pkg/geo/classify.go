package geo

// GeoType is the concrete geometry kind of an object.
type GeoType int

const (
	Empty GeoType = iota
	Mesh
	Strands
	PointCloud
)

func (t GeoType) String() string {
	switch t {
	case Mesh:
		return "Mesh"
	case Strands:
		return "Strands"
	case PointCloud:
		return "PointCloud"
	default:
		return "Empty"
	}
}

// classifyRule maps a declared tag to a geometry kind. Rules are tried in
// order and the first match wins.
type classifyRule struct {
	match  func(Tag) bool
	result GeoType
}

func tagIs(want Tag) func(Tag) bool {
	return func(t Tag) bool { return t == want }
}

var classifyRules = []classifyRule{
	{tagIs(TagMesh), Mesh},
	{tagIs(TagStrands), Strands},
	{tagIs(TagPointCloud), PointCloud},
	// Instancers are point clouds carrying instance data.
	{tagIs(TagInstances), PointCloud},
}

// Classify returns the geometry kind of o. Nil and property-less objects
// are Empty, as are objects whose tag matches no known kind.
func Classify(o *Object) GeoType {
	if o.Empty() {
		return Empty
	}
	tag := o.Tag()
	for _, r := range classifyRules {
		if r.match(tag) {
			return r.result
		}
	}
	return Empty
}
