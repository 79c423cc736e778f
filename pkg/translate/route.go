package translate

import (
	"fmt"

	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/scene"
)

// Route names the builder responsible for an object.
type Route int

const (
	RouteSkip Route = iota
	RouteMesh
	RouteCurves
	RouteInstancer
)

func (r Route) String() string {
	switch r {
	case RouteMesh:
		return "mesh"
	case RouteCurves:
		return "curves"
	case RouteInstancer:
		return "instancer"
	default:
		return "skip"
	}
}

// RouteOf decides how o is translated. Plain point clouds have no scene
// representation and are skipped; point clouds declared as instances go to
// the instancer builder.
func RouteOf(o *geo.Object) Route {
	switch geo.Classify(o) {
	case geo.Mesh:
		return RouteMesh
	case geo.Strands:
		return RouteCurves
	case geo.PointCloud:
		if o.Tag() == geo.TagInstances {
			return RouteInstancer
		}
	}
	return RouteSkip
}

// Child is one scene prim produced by a Geometry. Path is relative to the
// procedural prim.
type Child struct {
	Path    string
	Node    scene.Node
	Locator scene.Locator
}

// Geometry is the set of prims one object translates to.
type Geometry interface {
	PrimType() scene.Token
	TopologyLocator() scene.Locator
	Children() []Child
}

// NewGeometry translates o, the index-th output object. It returns false
// when o is routed to RouteSkip.
func NewGeometry(o *geo.Object, index int) (Geometry, bool) {
	switch RouteOf(o) {
	case RouteMesh:
		return newMeshGeometry(o, index), true
	case RouteCurves:
		return newCurvesGeometry(o, index), true
	case RouteInstancer:
		return newInstancesGeometry(o), true
	default:
		return nil, false
	}
}

type meshGeometry struct {
	children []Child
}

func newMeshGeometry(o *geo.Object, index int) *meshGeometry {
	return &meshGeometry{children: []Child{{
		Path:    fmt.Sprintf("mesh%d", index),
		Node:    BuildMesh(o),
		Locator: scene.MeshTopologyLocator,
	}}}
}

func (*meshGeometry) PrimType() scene.Token          { return scene.PrimMesh }
func (*meshGeometry) TopologyLocator() scene.Locator { return scene.MeshTopologyLocator }
func (g *meshGeometry) Children() []Child            { return g.children }

type curvesGeometry struct {
	children []Child
}

func newCurvesGeometry(o *geo.Object, index int) *curvesGeometry {
	return &curvesGeometry{children: []Child{{
		Path:    fmt.Sprintf("curves%d", index),
		Node:    BuildBasisCurves(o),
		Locator: scene.BasisCurvesTopologyLocator,
	}}}
}

func (*curvesGeometry) PrimType() scene.Token          { return scene.PrimBasisCurves }
func (*curvesGeometry) TopologyLocator() scene.Locator { return scene.BasisCurvesTopologyLocator }
func (g *curvesGeometry) Children() []Child            { return g.children }

type instancesGeometry struct {
	children []Child
}

// newInstancesGeometry emits the instancer and, when the first point's
// shape resolves to render geometry, the prototype mesh it references.
func newInstancesGeometry(o *geo.Object) *instancesGeometry {
	g := &instancesGeometry{children: []Child{{
		Path:    "instancer",
		Node:    BuildInstancer(o),
		Locator: scene.InstancerTopologyLocator,
	}}}

	if proto, ok := prototypeGeometry(o); ok {
		g.children = append(g.children, Child{
			Path:    "instancer/prototypes/mesh/" + PrototypePath.Name(),
			Node:    BuildMesh(proto),
			Locator: scene.MeshTopologyLocator,
		})
	}
	return g
}

func prototypeGeometry(o *geo.Object) (*geo.Object, bool) {
	shape, ok := geo.InstanceShape(o)
	if !ok {
		return nil, false
	}
	ids := geo.PointInstanceIDs(o)
	if len(ids) == 0 {
		return nil, false
	}
	entry, ok := geo.ShapeFromID(shape, ids[0])
	if !ok {
		return nil, false
	}
	return geo.RenderGeometry(entry)
}

func (*instancesGeometry) PrimType() scene.Token          { return scene.PrimInstancer }
func (*instancesGeometry) TopologyLocator() scene.Locator { return scene.InstancerTopologyLocator }
func (g *instancesGeometry) Children() []Child            { return g.children }
