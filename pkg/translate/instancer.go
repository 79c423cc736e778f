package translate

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/scene"
)

// PrototypePath is the single prototype every instancer references.
const PrototypePath scene.Path = "/instancer/prototypes/mesh/proto0_mesh_id0"

// InstanceIndices groups point indices by prototype id: result[id] lists,
// in ascending order, the points whose id equals id. The result has
// max(ids)+1 groups and ids that never occur get an empty group. Negative
// ids belong to no group.
func InstanceIndices(ids []int64) [][]int32 {
	var groups [][]int32
	for i, id := range ids {
		if id < 0 {
			continue
		}
		for int64(len(groups)) <= id {
			groups = append(groups, []int32{})
		}
		groups[id] = append(groups[id], int32(i))
	}
	return groups
}

// BuildInstancer returns an instancer node for an instances object. The
// root container holds instancerTopology, xform, primvars and
// instanceCategories in that order.
func BuildInstancer(o *geo.Object) scene.Node {
	points := geo.Points(o)
	ids := geo.PointInstanceIDs(o)
	if len(ids) == 0 {
		ids = make([]int64, len(points))
	}

	root := scene.NewContainerBuilder().
		Set(scene.TokInstancerTopology, instancerTopology(ids)).
		Set(scene.TokXform, xformSchema(o)).
		Set(scene.TokPrimvars, instancerPrimvars(points)).
		Set(scene.TokInstanceCategories, scene.NewContainerBuilder().
			Set(scene.TokCategoriesValues, scene.NewVector()).
			Build()).
		Build()

	return scene.Node{Type: scene.PrimInstancer, Data: root}
}

func instancerTopology(ids []int64) scene.Container {
	groups := InstanceIndices(ids)
	elems := make([]scene.DataSource, len(groups))
	for i, g := range groups {
		elems[i] = scene.NewRetained(g)
	}
	return scene.NewContainerBuilder().
		Set(scene.TokPrototypes, scene.NewRetained([]scene.Path{PrototypePath})).
		Set(scene.TokInstanceIndices, scene.NewVector(elems...)).
		Build()
}

func instancerPrimvars(points []mgl32.Vec3) scene.Container {
	rotations := make([]mgl32.Quat, len(points))
	scales := make([]mgl32.Vec3, len(points))
	for i := range points {
		rotations[i] = mgl32.QuatIdent()
		scales[i] = mgl32.Vec3{1, 1, 1}
	}
	return scene.NewContainerBuilder().
		Set(scene.PrimvarInstanceRotations, scene.BuildPrimvar(
			scene.NewRetained(rotations), scene.InterpInstance, scene.RoleNone)).
		Set(scene.PrimvarInstanceScales, scene.BuildPrimvar(
			scene.NewRetained(scales), scene.InterpInstance, scene.RoleNone)).
		Set(scene.PrimvarInstanceTranslations, scene.BuildPrimvar(
			scene.NewRetained(points), scene.InterpInstance, scene.RoleVector)).
		Build()
}
