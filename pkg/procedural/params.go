package procedural

import (
	"maps"
	"slices"

	"github.com/chazu/geobridge/pkg/scene"
)

// Procedural prim schema.
const (
	PrimType       scene.Token = "generativeProcedural"
	ProceduralType             = "GeobridgeProcedural"

	PrimvarProceduralType scene.Token = "hdGp:proceduralType"
	PrimvarGraph          scene.Token = "procedural:graph"
	PrimvarOutput         scene.Token = "procedural:output"
)

// Parameters is what an Evaluator needs for one evaluation.
type Parameters struct {
	// Graph names the script to run.
	Graph string
	// Output selects which named output becomes the procedural's children.
	// Empty selects the first output the script writes.
	Output string
	// Inputs holds every other primvar of the procedural prim by name. A
	// scene.Path input pointing at a mesh prim is replaced by the mesh as a
	// *geo.Object before evaluation.
	Inputs map[string]any
	Frame  float64
	Time   float64
}

// ParametersFromPrim reads the procedural prim's primvars.
func ParametersFromPrim(n scene.Node) Parameters {
	p := Parameters{Inputs: make(map[string]any)}
	if n.Data == nil {
		return p
	}
	for _, name := range scene.PrimvarNames(n.Data) {
		pv, ok := scene.GetPrimvar(n.Data, name)
		if !ok {
			continue
		}
		v, ok := pv.Value(0)
		if !ok {
			continue
		}
		switch name {
		case PrimvarProceduralType:
		case PrimvarGraph:
			p.Graph = stringValue(v)
		case PrimvarOutput:
			p.Output = stringValue(v)
		default:
			p.Inputs[name.String()] = v
		}
	}
	return p
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case scene.Token:
		return s.String()
	case scene.Path:
		return s.String()
	}
	return ""
}

// NewPrim builds a procedural prim running graph and publishing output.
// Inputs become constant primvars in sorted name order.
func NewPrim(graph, output string, inputs map[string]any) scene.Node {
	pvs := scene.NewContainerBuilder().
		Set(PrimvarProceduralType, constant(scene.Token(ProceduralType))).
		Set(PrimvarGraph, constant(scene.Token(graph)))
	if output != "" {
		pvs.Set(PrimvarOutput, constant(output))
	}
	for _, name := range slices.Sorted(maps.Keys(inputs)) {
		pvs.Set(scene.Token(name), constant(inputs[name]))
	}
	return scene.Node{
		Type: PrimType,
		Data: scene.NewContainerBuilder().Set(scene.TokPrimvars, pvs.Build()).Build(),
	}
}

func constant[T any](v T) scene.Container {
	return scene.BuildPrimvar(scene.NewRetained(v), scene.InterpConstant, scene.RoleNone)
}
