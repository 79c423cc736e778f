package translate

import (
	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/scene"
	"github.com/chazu/geobridge/pkg/topology"
)

// BuildBasisCurves returns a basis-curves node for a strands object. The
// root container holds basisCurves, primvars and xform in that order;
// basisCurves is omitted when o has no strand offsets.
func BuildBasisCurves(o *geo.Object) scene.Node {
	root := scene.NewContainerBuilder().
		Set(scene.TokBasisCurves, curvesSchema(o)).
		Set(scene.TokPrimvars, curvesPrimvars(o)).
		Set(scene.TokXform, xformSchema(o)).
		Build()

	return scene.Node{Type: scene.PrimBasisCurves, Data: root}
}

func curvesSchema(o *geo.Object) scene.DataSource {
	offsets, ok := geo.StrandOffsets(o)
	if !ok {
		return nil
	}
	counts, err := topology.OffsetsToCounts(offsets)
	if err != nil {
		return nil
	}
	return scene.NewContainerBuilder().
		Set(scene.TokTopology, scene.BuildBasisCurvesTopology(counts, geo.FaceVertexIndices(o))).
		Build()
}

func curvesPrimvars(o *geo.Object) scene.Container {
	return scene.NewContainerBuilder().
		Set(scene.PrimvarDisplayColor, scene.BuildPrimvar(
			scene.NewRetained(geo.DisplayColor(o)), scene.InterpVarying, scene.RoleColor)).
		Set(scene.PrimvarPoints, scene.BuildPrimvar(
			scene.NewRetained(geo.Points(o)), scene.InterpVertex, scene.RolePoint)).
		Set(scene.PrimvarWidths, scene.BuildPrimvar(
			scene.NewRetained(geo.Width(o)), scene.InterpVertex, scene.RoleNone)).
		Build()
}
