package translate

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/chazu/geobridge/internal/logger"
	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/scene"
	"github.com/chazu/geobridge/pkg/topology"
)

// harvester converts a primvar value into a property payload. It reports
// false when the value is not of its type or is empty.
type harvester func(v any) (any, bool)

func harvestArray[T any](v any) (any, bool) {
	data, ok := v.([]T)
	if !ok || len(data) == 0 {
		return nil, false
	}
	return slices.Clone(data), true
}

// Tried in order; the first match wins.
var harvesters = []harvester{
	harvestArray[float32],
	harvestArray[mgl32.Vec3],
}

// BuildMeshObject converts a mesh node back into a flat mesh object.
//
// A node without usable points or topology yields an empty mesh object and
// a logged warning. Primvars other than points are copied as point
// properties when they hold float or 3-vector arrays; their original
// interpolation is not preserved.
func BuildMeshObject(n scene.Node) *geo.Object {
	log := logger.Log.Named("translate")

	raw, _ := primvarValue(n.Data, scene.PrimvarPoints)
	points, ok := raw.([]mgl32.Vec3)
	if !ok {
		log.Warn("couldn't get mesh points", zap.String("type", typeName(raw)))
		return geo.EmptyObject(geo.TagMesh)
	}

	topo, ok := scene.GetContainer(n.Data, scene.MeshTopologyLocator...)
	if !ok {
		log.Warn("couldn't get mesh topology")
		return geo.EmptyObject(geo.TagMesh)
	}
	faceVertices, ok := scene.GetValue[[]int32](topo, 0, scene.TokFaceVertexIndices)
	if !ok {
		log.Warn("couldn't get mesh face vertex indices")
		return geo.EmptyObject(geo.TagMesh)
	}
	counts, ok := scene.GetValue[[]int32](topo, 0, scene.TokFaceVertexCounts)
	if !ok {
		log.Warn("couldn't get mesh face vertex counts")
		return geo.EmptyObject(geo.TagMesh)
	}

	b := geo.NewMesh(points, faceVertices, topology.CountsToOffsets(counts))

	for _, name := range scene.PrimvarNames(n.Data) {
		if name == scene.PrimvarPoints {
			continue
		}
		v, ok := primvarValue(n.Data, name)
		if !ok {
			continue
		}
		for _, h := range harvesters {
			if data, ok := h(v); ok {
				b.SetGeo(string(name), geo.TargetPoint, data)
				break
			}
		}
	}

	return b.Build()
}

func primvarValue(root scene.Container, name scene.Token) (any, bool) {
	pv, ok := scene.GetPrimvar(root, name)
	if !ok {
		return nil, false
	}
	return pv.Value(0)
}

func typeName(v any) string {
	if v == nil {
		return "none"
	}
	return fmt.Sprintf("%T", v)
}
