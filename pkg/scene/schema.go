package scene

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// ------------------------------------------------------------------------
// Builders
// ------------------------------------------------------------------------

// BuildPrimvar returns a non-indexed primvar container.
func BuildPrimvar(value Sampled, interpolation, role Token) Container {
	return NewContainerBuilder().
		Set(TokPrimvarValue, value).
		Set(TokInterpolation, NewRetained(interpolation)).
		Set(TokRole, NewRetained(role)).
		Build()
}

// BuildIndexedPrimvar returns a primvar whose value is looked up through
// indices.
func BuildIndexedPrimvar(values Sampled, indices []int32, interpolation, role Token) Container {
	return NewContainerBuilder().
		Set(TokIndexedPrimvarValue, values).
		Set(TokIndices, NewRetained(indices)).
		Set(TokInterpolation, NewRetained(interpolation)).
		Set(TokRole, NewRetained(role)).
		Build()
}

// BuildMeshTopology returns a mesh topology container.
func BuildMeshTopology(faceVertexCounts, faceVertexIndices []int32) Container {
	return NewContainerBuilder().
		Set(TokFaceVertexCounts, NewRetained(faceVertexCounts)).
		Set(TokFaceVertexIndices, NewRetained(faceVertexIndices)).
		Build()
}

// BuildBasisCurvesTopology returns a curves topology container.
func BuildBasisCurvesTopology(curveVertexCounts, curveIndices []int32) Container {
	return NewContainerBuilder().
		Set(TokCurveVertexCounts, NewRetained(curveVertexCounts)).
		Set(TokCurveIndices, NewRetained(curveIndices)).
		Build()
}

// BuildXform returns a transform container.
func BuildXform(matrix Typed[mgl64.Mat4], resetXformStack bool) Container {
	return NewContainerBuilder().
		Set(TokMatrix, matrix).
		Set(TokResetXformStack, NewRetained(resetXformStack)).
		Build()
}

// ------------------------------------------------------------------------
// Readers
// ------------------------------------------------------------------------

// Primvar reads a single primvar container.
type Primvar struct {
	c Container
}

// PrimvarNames returns the primvar names under a node's root container.
func PrimvarNames(root Container) []Token {
	pvs, ok := GetContainer(root, TokPrimvars)
	if !ok {
		return nil
	}
	return pvs.Names()
}

// GetPrimvar returns the named primvar of a node's root container.
func GetPrimvar(root Container, name Token) (Primvar, bool) {
	c, ok := GetContainer(root, TokPrimvars, name)
	if !ok {
		return Primvar{}, false
	}
	return Primvar{c: c}, true
}

// Value returns the primvar's value at t. Indexed primvars are flattened
// through their indices; out-of-range indices yield zero elements.
func (p Primvar) Value(t Time) (any, bool) {
	if v, ok := GetValue[any](p.c, t, TokPrimvarValue); ok {
		return v, true
	}
	vals, ok := GetValue[any](p.c, t, TokIndexedPrimvarValue)
	if !ok {
		return nil, false
	}
	indices, ok := p.Indices(t)
	if !ok {
		return vals, true
	}
	return flatten(vals, indices), true
}

// IndexedValue returns the unflattened values of an indexed primvar.
func (p Primvar) IndexedValue(t Time) (any, bool) {
	return GetValue[any](p.c, t, TokIndexedPrimvarValue)
}

func (p Primvar) Indices(t Time) ([]int32, bool) {
	return GetValue[[]int32](p.c, t, TokIndices)
}

func (p Primvar) Interpolation() Token {
	tok, _ := GetValue[Token](p.c, 0, TokInterpolation)
	return tok
}

func (p Primvar) Role() Token {
	tok, _ := GetValue[Token](p.c, 0, TokRole)
	return tok
}

func flatten(vals any, indices []int32) any {
	switch v := vals.(type) {
	case []mgl32.Vec3:
		return flattenSlice(v, indices)
	case []float32:
		return flattenSlice(v, indices)
	case []int32:
		return flattenSlice(v, indices)
	case []mgl32.Quat:
		return flattenSlice(v, indices)
	default:
		return vals
	}
}

func flattenSlice[T any](vals []T, indices []int32) []T {
	out := make([]T, len(indices))
	for i, idx := range indices {
		if idx >= 0 && int(idx) < len(vals) {
			out[i] = vals[idx]
		}
	}
	return out
}
