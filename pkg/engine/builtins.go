package engine

import (
	"errors"
	"fmt"

	"cogentcore.org/core/base/keylist"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/kernel"
	"github.com/chazu/geobridge/pkg/topology"
)

// errNoKernel is returned by sdf-* forms when the engine has no kernel.
var errNoKernel = errors.New("no geometry kernel configured")

// evalState is the per-evaluation state the builtins read and write.
type evalState struct {
	kernel  kernel.Kernel
	env     Env
	outputs *keylist.List[string, []*geo.Object]
}

func newEvalState(k kernel.Kernel, env Env) *evalState {
	return &evalState{
		kernel:  k,
		env:     env,
		outputs: keylist.New[string, []*geo.Object](),
	}
}

// toObject resolves an object argument. Solids are tessellated through the
// kernel.
func (st *evalState) toObject(s zygo.Sexp) (*geo.Object, error) {
	switch v := s.(type) {
	case *sexpObject:
		return v.obj, nil
	case *sexpSolid:
		if st.kernel == nil {
			return nil, errNoKernel
		}
		m, err := st.kernel.ToMesh(v.solid)
		if err != nil {
			return nil, fmt.Errorf("tessellate: %w", err)
		}
		return kernel.ToObject(m).Build(), nil
	}
	return nil, fmt.Errorf("expected geometry object, got %T (%s)", s, s.SexpString(nil))
}

// toObjects flattens object arguments, expanding nested lists.
func (st *evalState) toObjects(args []zygo.Sexp) ([]*geo.Object, error) {
	var out []*geo.Object
	for _, a := range args {
		switch a.(type) {
		case *zygo.SexpPair, *zygo.SexpArray:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, err
			}
			objs, err := st.toObjects(items)
			if err != nil {
				return nil, err
			}
			out = append(out, objs...)
		default:
			o, err := st.toObject(a)
			if err != nil {
				return nil, err
			}
			out = append(out, o)
		}
	}
	return out, nil
}

func (st *evalState) requireKernel() error {
	if st.kernel == nil {
		return errNoKernel
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the geometry builtins into a zygomys
// environment. Forms are registered under their snake_case names;
// preprocessSource rewrites the kebab-case spelling used in scripts.
func registerBuiltins(env *zygo.Zlisp, st *evalState) {
	registerValueForms(env, st)
	registerGeometryForms(env, st)
	registerSolidForms(env, st)
}

func registerValueForms(env *zygo.Zlisp, st *evalState) {

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v mgl32.Vec3
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			v[i] = float32(f)
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (input "size") or (input "size" 2.0)
	// -----------------------------------------------------------------------
	env.AddFunction("input", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 || len(args) > 2 {
			return zygo.SexpNull, fmt.Errorf("input requires a name and an optional default")
		}
		inName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("input: name: %w", err)
		}
		v, ok := st.env.Inputs[inName]
		if !ok {
			if len(args) == 2 {
				return args[1], nil
			}
			return zygo.SexpNull, fmt.Errorf("input: no input named %q", inName)
		}
		s, err := fromValue(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("input: %s: %w", inName, err)
		}
		return s, nil
	})

	// (frame) and (time)
	env.AddFunction("frame", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: st.env.Frame}, nil
	})
	env.AddFunction("time", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return &zygo.SexpFloat{Val: st.env.Time}, nil
	})

	// -----------------------------------------------------------------------
	// (point-count obj)
	// -----------------------------------------------------------------------
	env.AddFunction("point_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("point-count requires exactly 1 argument, got %d", len(args))
		}
		o, err := st.toObject(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point-count: %w", err)
		}
		return &zygo.SexpInt{Val: int64(geo.PointCount(o))}, nil
	})

	// -----------------------------------------------------------------------
	// (output "name" obj ...)
	// -----------------------------------------------------------------------
	env.AddFunction("output", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("output requires a name argument")
		}
		outName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("output: name: %w", err)
		}
		objs, err := st.toObjects(args[1:])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("output: %s: %w", outName, err)
		}
		prev, _ := st.outputs.AtTry(outName)
		st.outputs.Set(outName, append(prev, objs...))
		return zygo.SexpNull, nil
	})
}

func registerGeometryForms(env *zygo.Zlisp, st *evalState) {

	// -----------------------------------------------------------------------
	// (mesh :points (list (vec3 ..) ..) :face-vertices (list ..)
	//       :face-offsets (list ..) :colors (list (vec3 ..) ..))
	// -----------------------------------------------------------------------
	env.AddFunction("mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		points, err := kwSlice(pa, "points", toVec3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
		}
		faceVertices, err := kwSlice(pa, "face-vertices", toInt32)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
		}
		faceOffsets, err := kwSlice(pa, "face-offsets", toInt32)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
		}
		if err := topology.Validate(faceOffsets); err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: face-offsets: %w", err)
		}
		if n := int(faceOffsets[len(faceOffsets)-1]); n != len(faceVertices) {
			return zygo.SexpNull, fmt.Errorf("mesh: face-offsets end at %d, have %d face vertices", n, len(faceVertices))
		}
		for i, fv := range faceVertices {
			if fv < 0 || int(fv) >= len(points) {
				return zygo.SexpNull, fmt.Errorf("mesh: face-vertices: element %d: index %d out of range", i, fv)
			}
		}

		b := geo.NewMesh(points, faceVertices, faceOffsets)
		if err := setColors(b, pa, len(points)); err != nil {
			return zygo.SexpNull, fmt.Errorf("mesh: %w", err)
		}
		return &sexpObject{obj: b.Build()}, nil
	})

	// -----------------------------------------------------------------------
	// (cube-mesh :size 2 :colored true)
	// -----------------------------------------------------------------------
	env.AddFunction("cube_mesh", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		size := 1.0
		if v, ok := pa.kw["size"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube-mesh: size: %w", err)
			}
			size = f
		}
		colored := false
		if v, ok := pa.kw["colored"]; ok {
			c, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube-mesh: colored: %w", err)
			}
			colored = c
		}
		return &sexpObject{obj: cubeMesh(float32(size), colored)}, nil
	})

	// -----------------------------------------------------------------------
	// (strands :points (list ..) :offsets (list 0 3 6) :indices (list ..)
	//          :colors (list ..) :widths (list ..))
	// -----------------------------------------------------------------------
	env.AddFunction("strands", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		points, err := kwSlice(pa, "points", toVec3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("strands: %w", err)
		}
		offsets, err := kwSlice(pa, "offsets", toInt32)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("strands: %w", err)
		}
		if err := topology.Validate(offsets); err != nil {
			return zygo.SexpNull, fmt.Errorf("strands: offsets: %w", err)
		}

		// Offsets index the points directly unless :indices reorders them.
		var indices []int32
		vertexCount := len(points)
		if _, ok := pa.kw["indices"]; ok {
			indices, err = kwSlice(pa, "indices", toInt32)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("strands: %w", err)
			}
			for i, idx := range indices {
				if idx < 0 || int(idx) >= len(points) {
					return zygo.SexpNull, fmt.Errorf("strands: indices: element %d: index %d out of range", i, idx)
				}
			}
			vertexCount = len(indices)
		}
		if n := int(offsets[len(offsets)-1]); n != vertexCount {
			return zygo.SexpNull, fmt.Errorf("strands: offsets end at %d, have %d strand vertices", n, vertexCount)
		}

		b := geo.NewStrands(points, offsets)
		if indices != nil {
			b.SetGeo(geo.PropFaceVertex, geo.TargetFaceVertex, indices)
		}
		if err := setColors(b, pa, len(points)); err != nil {
			return zygo.SexpNull, fmt.Errorf("strands: %w", err)
		}
		if _, ok := pa.kw["widths"]; ok {
			widths, err := kwSlice(pa, "widths", toFloat32)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("strands: %w", err)
			}
			b.SetGeo(geo.PropPointSize, geo.TargetPoint, widths)
		}
		return &sexpObject{obj: b.Build()}, nil
	})

	// -----------------------------------------------------------------------
	// (point-cloud :points (list ..))
	// -----------------------------------------------------------------------
	env.AddFunction("point_cloud", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		points, err := kwSlice(pa, "points", toVec3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("point-cloud: %w", err)
		}
		return &sexpObject{obj: geo.NewPointCloud(points).Build()}, nil
	})

	// -----------------------------------------------------------------------
	// (instances :points (list ..) :ids (list 0 1 0) :shapes (list obj ..))
	// -----------------------------------------------------------------------
	env.AddFunction("instances", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		points, err := kwSlice(pa, "points", toVec3)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("instances: %w", err)
		}
		ids := make([]int64, len(points))
		if _, ok := pa.kw["ids"]; ok {
			ids, err = kwSlice(pa, "ids", toInt64)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("instances: %w", err)
			}
			if len(ids) != len(points) {
				return zygo.SexpNull, fmt.Errorf("instances: ids: have %d, want one per point (%d)", len(ids), len(points))
			}
		}
		var shapes []*geo.Object
		if v, ok := pa.kw["shapes"]; ok {
			items, err := sexpListToSlice(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("instances: shapes: %w", err)
			}
			shapes, err = st.toObjects(items)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("instances: shapes: %w", err)
			}
		}
		return &sexpObject{obj: geo.NewInstances(points, ids, shapes).Build()}, nil
	})
}

func registerSolidForms(env *zygo.Zlisp, st *evalState) {

	// -----------------------------------------------------------------------
	// (sdf-box 10 20 30), (sdf-cylinder h r), (sdf-sphere r)
	// -----------------------------------------------------------------------
	primitive := func(form string, arity int, build func(p []float64) (kernel.Solid, error)) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if err := st.requireKernel(); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			if len(args) != arity {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly %d arguments, got %d", form, arity, len(args))
			}
			p := make([]float64, arity)
			for i, a := range args {
				f, err := toFloat64(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: argument %d: %w", form, i+1, err)
				}
				p[i] = f
			}
			s, err := build(p)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			return &sexpSolid{solid: s}, nil
		}
	}
	env.AddFunction("sdf_box", primitive("sdf-box", 3, func(p []float64) (kernel.Solid, error) {
		return st.kernel.Box(p[0], p[1], p[2])
	}))
	env.AddFunction("sdf_cylinder", primitive("sdf-cylinder", 2, func(p []float64) (kernel.Solid, error) {
		return st.kernel.Cylinder(p[0], p[1])
	}))
	env.AddFunction("sdf_sphere", primitive("sdf-sphere", 1, func(p []float64) (kernel.Solid, error) {
		return st.kernel.Sphere(p[0])
	}))

	// -----------------------------------------------------------------------
	// (sdf-union a b), (sdf-difference a b), (sdf-intersection a b)
	// -----------------------------------------------------------------------
	boolean := func(form string, op func(a, b kernel.Solid) kernel.Solid) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires exactly 2 arguments, got %d", form, len(args))
			}
			a, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			b, err := toSolid(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			return &sexpSolid{solid: op(a, b)}, nil
		}
	}
	env.AddFunction("sdf_union", boolean("sdf-union", func(a, b kernel.Solid) kernel.Solid {
		return st.kernel.Union(a, b)
	}))
	env.AddFunction("sdf_difference", boolean("sdf-difference", func(a, b kernel.Solid) kernel.Solid {
		return st.kernel.Difference(a, b)
	}))
	env.AddFunction("sdf_intersection", boolean("sdf-intersection", func(a, b kernel.Solid) kernel.Solid {
		return st.kernel.Intersection(a, b)
	}))

	// -----------------------------------------------------------------------
	// (sdf-translate s (vec3 x y z)), (sdf-rotate s (vec3 rx ry rz))
	// -----------------------------------------------------------------------
	transform := func(form string, op func(s kernel.Solid, v mgl32.Vec3) kernel.Solid) zygo.ZlispUserFunction {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) != 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid and a vec3", form)
			}
			s, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			v, err := toVec3(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			return &sexpSolid{solid: op(s, v)}, nil
		}
	}
	env.AddFunction("sdf_translate", transform("sdf-translate", func(s kernel.Solid, v mgl32.Vec3) kernel.Solid {
		return st.kernel.Translate(s, float64(v[0]), float64(v[1]), float64(v[2]))
	}))
	env.AddFunction("sdf_rotate", transform("sdf-rotate", func(s kernel.Solid, v mgl32.Vec3) kernel.Solid {
		return st.kernel.Rotate(s, float64(v[0]), float64(v[1]), float64(v[2]))
	}))

	// (tessellate solid)
	env.AddFunction("tessellate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("tessellate requires exactly 1 argument, got %d", len(args))
		}
		if _, err := toSolid(args[0]); err != nil {
			return zygo.SexpNull, fmt.Errorf("tessellate: %w", err)
		}
		o, err := st.toObject(args[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpObject{obj: o}, nil
	})
}

// kwSlice reads a required list-valued keyword argument.
func kwSlice[T any](pa kwArgs, key string, conv func(zygo.Sexp) (T, error)) ([]T, error) {
	v, ok := pa.kw[key]
	if !ok {
		return nil, fmt.Errorf("missing :%s", key)
	}
	out, err := toSlice(v, conv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return out, nil
}

// setColors applies an optional per-point :colors list.
func setColors(b *geo.Builder, pa kwArgs, numPoints int) error {
	if _, ok := pa.kw["colors"]; !ok {
		return nil
	}
	colors, err := kwSlice(pa, "colors", toVec3)
	if err != nil {
		return err
	}
	if len(colors) != numPoints {
		return fmt.Errorf("colors: have %d, want one per point (%d)", len(colors), numPoints)
	}
	b.SetGeo(geo.PropPointColor, geo.TargetPoint, colors)
	return nil
}

var cubeFaces = []int32{
	0, 3, 2, 1, // -z
	4, 5, 6, 7, // +z
	0, 1, 5, 4, // -y
	2, 3, 7, 6, // +y
	1, 2, 6, 5, // +x
	0, 4, 7, 3, // -x
}

// cubeMesh builds an axis-aligned cube of edge length size centered on the
// origin: 8 points and 6 quads. colored adds a point color equal to each
// corner's position in the unit cube.
func cubeMesh(size float32, colored bool) *geo.Object {
	h := size / 2
	points := make([]mgl32.Vec3, 8)
	colors := make([]mgl32.Vec3, 8)
	for i := range points {
		c := mgl32.Vec3{float32(i & 1), float32(i >> 1 & 1), float32(i >> 2 & 1)}
		// corners 2 and 3 swap x so the point order runs around each face
		if i&2 != 0 {
			c[0] = 1 - c[0]
		}
		colors[i] = c
		points[i] = c.Mul(size).Sub(mgl32.Vec3{h, h, h})
	}
	faceVertices := make([]int32, len(cubeFaces))
	copy(faceVertices, cubeFaces)

	b := geo.NewMesh(points, faceVertices, topology.CountsToOffsets([]int32{4, 4, 4, 4, 4, 4}))
	if colored {
		b.SetGeo(geo.PropPointColor, geo.TargetPoint, colors)
	}
	return b.Build()
}
