package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/kernel"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec mgl32.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpObject wraps a built geometry object.
type sexpObject struct {
	obj *geo.Object
}

func (o *sexpObject) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(object %s)", o.obj)
}
func (o *sexpObject) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid. It is tessellated wherever an object is
// expected.
type sexpSolid struct {
	solid kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	min, max := s.solid.BoundingBox()
	return fmt.Sprintf("(solid %v %v)", min, max)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword with no value is recorded as SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); {
		name, ok := isKW(args[i])
		switch {
		case ok && i+1 < len(args):
			result.kw[name] = args[i+1]
			i += 2
		case ok:
			result.kw[name] = zygo.SexpNull
			i++
		default:
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt64(s zygo.Sexp) (int64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		if v.Val == float64(int64(v.Val)) {
			return int64(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	if s == zygo.SexpNull {
		return false, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (mgl32.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toSlice converts a list or array with conv applied to every element.
func toSlice[T any](s zygo.Sexp, conv func(zygo.Sexp) (T, error)) ([]T, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	for i, item := range items {
		v, err := conv(item)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func toInt32(s zygo.Sexp) (int32, error) {
	v, err := toInt64(s)
	return int32(v), err
}

func toFloat32(s zygo.Sexp) (float32, error) {
	v, err := toFloat64(s)
	return float32(v), err
}

// fromValue converts a procedural input value into a Sexp.
func fromValue(v any) (zygo.Sexp, error) {
	switch x := v.(type) {
	case nil:
		return zygo.SexpNull, nil
	case zygo.Sexp:
		return x, nil
	case *geo.Object:
		return &sexpObject{obj: x}, nil
	case bool:
		return &zygo.SexpBool{Val: x}, nil
	case string:
		return &zygo.SexpStr{S: x}, nil
	case int:
		return &zygo.SexpInt{Val: int64(x)}, nil
	case int32:
		return &zygo.SexpInt{Val: int64(x)}, nil
	case int64:
		return &zygo.SexpInt{Val: x}, nil
	case float32:
		return &zygo.SexpFloat{Val: float64(x)}, nil
	case float64:
		return &zygo.SexpFloat{Val: x}, nil
	case mgl32.Vec3:
		return &sexpVec3{vec: x}, nil
	case []float32:
		return listOf(x, func(f float32) zygo.Sexp { return &zygo.SexpFloat{Val: float64(f)} }), nil
	case []int32:
		return listOf(x, func(n int32) zygo.Sexp { return &zygo.SexpInt{Val: int64(n)} }), nil
	case []int64:
		return listOf(x, func(n int64) zygo.Sexp { return &zygo.SexpInt{Val: n} }), nil
	case []mgl32.Vec3:
		return listOf(x, func(p mgl32.Vec3) zygo.Sexp { return &sexpVec3{vec: p} }), nil
	}
	return nil, fmt.Errorf("unsupported input type %T", v)
}

func listOf[T any](xs []T, f func(T) zygo.Sexp) zygo.Sexp {
	items := make([]zygo.Sexp, len(xs))
	for i, x := range xs {
		items[i] = f(x)
	}
	return zygo.MakeList(items)
}
