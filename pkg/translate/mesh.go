// Package translate converts flat geometry objects into scene nodes and
// back. Builders never fail: missing or mistyped properties degrade to
// empty arrays or omitted sub-trees.
package translate

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/scene"
	"github.com/chazu/geobridge/pkg/topology"
)

// BuildMesh returns a mesh node for o. The root container holds mesh,
// primvars and xform in that order; mesh is omitted when o has no face
// offsets.
func BuildMesh(o *geo.Object) scene.Node {
	faceVertices := geo.FaceVertexIndices(o)

	root := scene.NewContainerBuilder().
		Set(scene.TokMesh, meshSchema(o, faceVertices)).
		Set(scene.TokPrimvars, meshPrimvars(o, faceVertices)).
		Set(scene.TokXform, xformSchema(o)).
		Build()

	return scene.Node{Type: scene.PrimMesh, Data: root}
}

func meshSchema(o *geo.Object, faceVertices []int32) scene.DataSource {
	offsets, ok := geo.FaceOffsets(o)
	if !ok {
		return nil
	}
	counts, err := topology.OffsetsToCounts(offsets)
	if err != nil {
		return nil
	}
	return scene.NewContainerBuilder().
		Set(scene.TokTopology, scene.BuildMeshTopology(counts, faceVertices)).
		Build()
}

func meshPrimvars(o *geo.Object, faceVertices []int32) scene.Container {
	b := scene.NewContainerBuilder().
		Set(scene.PrimvarPoints, scene.BuildPrimvar(
			scene.NewRetained(geo.Points(o)), scene.InterpVertex, scene.RolePoint))

	// Colors are stored per point but rendered per face-vertex, so the
	// face-vertex indices double as the lookup table.
	if colors := geo.DisplayColor(o); len(colors) > 0 {
		b.Set(scene.PrimvarDisplayColor, scene.BuildIndexedPrimvar(
			scene.NewRetained(colors), faceVertices, scene.InterpFaceVarying, scene.RoleColor))
	}
	return b.Build()
}

// xformSchema returns an identity transform that resets the parent stack.
// Flat objects carry no transform of their own.
func xformSchema(o *geo.Object) scene.Container {
	matrix := scene.NewLazy(func() mgl64.Mat4 { return objectTransform(o) })
	return scene.BuildXform(matrix, true)
}

func objectTransform(*geo.Object) mgl64.Mat4 {
	return mgl64.Ident4()
}
