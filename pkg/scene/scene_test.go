package scene

import (
	"bytes"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestContainerOrderAndSnapshot(t *testing.T) {
	b := NewContainerBuilder().
		Set("b", NewRetained(1)).
		Set("a", NewRetained(2)).
		Set("skipped", nil)
	c := b.Build()

	b.Set("c", NewRetained(3))
	b.Set("a", NewRetained(4))

	assert.Equal(t, []Token{"b", "a"}, c.Names())
	v, ok := GetValue[int](c, 0, "a")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = c.Get("skipped")
	assert.False(t, ok)

	c2 := b.Build()
	assert.Equal(t, []Token{"b", "a", "c"}, c2.Names())
}

func TestNamesReturnsCopy(t *testing.T) {
	c := NewContainerBuilder().Set("x", NewRetained(true)).Build()
	names := c.Names()
	names[0] = "mutated"
	assert.Equal(t, []Token{"x"}, c.Names())
}

func TestLookup(t *testing.T) {
	inner := NewContainerBuilder().Set("leaf", NewRetained(Token("v"))).Build()
	root := NewContainerBuilder().Set("inner", inner).Build()

	tok, ok := GetValue[Token](root, 0, "inner", "leaf")
	require.True(t, ok)
	assert.Equal(t, Token("v"), tok)

	_, ok = GetValue[int](root, 0, "inner", "leaf")
	assert.False(t, ok, "type mismatch")
	_, ok = Lookup(root, "inner", "leaf", "deeper")
	assert.False(t, ok)
	_, ok = GetContainer(root, "inner", "leaf")
	assert.False(t, ok)
	_, ok = Lookup(nil, "x")
	assert.False(t, ok)

	ds, ok := Lookup(root)
	require.True(t, ok)
	assert.Equal(t, root, ds)
}

func TestRetainedIsTimeInvariant(t *testing.T) {
	r := NewRetained([]int32{1, 2})
	assert.Equal(t, []int32{1, 2}, r.TypedValue(0))
	assert.Equal(t, []int32{1, 2}, r.Value(0.5))
	times, varying := r.SampleTimes(-1, 1)
	assert.False(t, varying)
	assert.Empty(t, times)
}

func TestLazyComputesOnce(t *testing.T) {
	var calls atomic.Int32
	l := NewLazy(func() mgl64.Mat4 {
		calls.Add(1)
		return mgl64.Ident4()
	})
	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, mgl64.Ident4(), l.TypedValue(0))
	assert.Equal(t, mgl64.Ident4(), l.Value(1))
	assert.Equal(t, int32(1), calls.Load())
}

func TestVector(t *testing.T) {
	v := NewVector(NewRetained([]int32{0}), NewRetained([]int32{1, 2}))
	assert.Equal(t, 2, v.Len())
	e, ok := v.Element(1)
	require.True(t, ok)
	assert.Equal(t, []int32{1, 2}, e.(Sampled).Value(0))
	_, ok = v.Element(2)
	assert.False(t, ok)
	_, ok = v.Element(-1)
	assert.False(t, ok)
}

func TestPrimvarFlattening(t *testing.T) {
	colors := []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}}
	root := NewContainerBuilder().
		Set(TokPrimvars, NewContainerBuilder().
			Set(PrimvarDisplayColor, BuildIndexedPrimvar(NewRetained(colors), []int32{1, 0, 1, 5}, InterpFaceVarying, RoleColor)).
			Set(PrimvarPoints, BuildPrimvar(NewRetained([]mgl32.Vec3{{0, 0, 0}}), InterpVertex, RolePoint)).
			Build()).
		Build()

	assert.Equal(t, []Token{PrimvarDisplayColor, PrimvarPoints}, PrimvarNames(root))

	dc, ok := GetPrimvar(root, PrimvarDisplayColor)
	require.True(t, ok)
	v, ok := dc.Value(0)
	require.True(t, ok)
	assert.Equal(t, []mgl32.Vec3{{0, 1, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 0}}, v)
	raw, ok := dc.IndexedValue(0)
	require.True(t, ok)
	assert.Equal(t, colors, raw)
	assert.Equal(t, InterpFaceVarying, dc.Interpolation())
	assert.Equal(t, RoleColor, dc.Role())

	pts, ok := GetPrimvar(root, PrimvarPoints)
	require.True(t, ok)
	_, ok = pts.IndexedValue(0)
	assert.False(t, ok)
	assert.Equal(t, InterpVertex, pts.Interpolation())

	_, ok = GetPrimvar(root, PrimvarWidths)
	assert.False(t, ok)
}

func TestPath(t *testing.T) {
	p := RootPath.AppendChild("procedural")
	assert.Equal(t, Path("/procedural"), p)
	child := p.AppendChild("mesh0")
	assert.Equal(t, Path("/procedural/mesh0"), child)
	assert.Equal(t, "mesh0", child.Name())
	assert.Equal(t, p, child.Parent())
	assert.Equal(t, RootPath, p.Parent())
	assert.True(t, child.HasPrefix(p))
	assert.False(t, Path("/proceduralX").HasPrefix(p))
	assert.Equal(t, Path("/procedural/instancer/prototypes/mesh"), p.AppendPath("instancer/prototypes/mesh"))
}

func TestLocatorString(t *testing.T) {
	assert.Equal(t, "mesh/topology", MeshTopologyLocator.String())
}

func TestMapIndex(t *testing.T) {
	idx := NewMapIndex()
	idx.Add("/a", Node{Type: PrimMesh})
	idx.Add("/b", Node{Type: PrimBasisCurves})

	n, ok := idx.Prim("/b")
	require.True(t, ok)
	assert.Equal(t, PrimBasisCurves, n.Type)
	assert.Equal(t, []Path{"/a", "/b"}, idx.Paths())

	assert.True(t, idx.Remove("/a"))
	assert.False(t, idx.Remove("/a"))
	_, ok = idx.Prim("/a")
	assert.False(t, ok)
}

func sampleNode() Node {
	return Node{
		Type: PrimMesh,
		Data: NewContainerBuilder().
			Set(TokMesh, NewContainerBuilder().
				Set(TokTopology, BuildMeshTopology([]int32{3}, []int32{0, 1, 2})).
				Build()).
			Set(TokXform, BuildXform(NewLazy(mgl64.Ident4), true)).
			Build(),
	}
}

func TestExportString(t *testing.T) {
	got := ExportString(sampleNode())
	want := dumpRule +
		"Type: mesh\n" +
		"mesh\n" +
		"    topology\n" +
		"        faceVertexCounts\n" +
		"            is a sampled data source of type []int32\n" +
		"                        value: 3\n" +
		"        faceVertexIndices\n" +
		"            is a sampled data source of type []int32\n" +
		"                        value: 0\n" +
		"                        value: 1\n" +
		"                        value: 2\n" +
		"xform\n" +
		"    matrix\n" +
		"        is a sampled data source of type mgl64.Mat4\n" +
		"                value: ({1.000000, 0.000000, 0.000000, 0.000000}, {0.000000, 1.000000, 0.000000, 0.000000}, {0.000000, 0.000000, 1.000000, 0.000000}, {0.000000, 0.000000, 0.000000, 1.000000})\n" +
		"    resetXformStack\n" +
		"        is a sampled data source of type bool\n" +
		"                value: true\n" +
		dumpRule
	assert.Equal(t, want, got)
}

func TestExportStringUnsupported(t *testing.T) {
	n := Node{Type: "custom", Data: NewContainerBuilder().Set("x", NewRetained(struct{}{})).Build()}
	assert.Contains(t, ExportString(n), "[WARNING] type struct {} is not supported")
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, sampleNode()))

	var decoded struct {
		Type string `yaml:"type"`
		Data struct {
			Mesh struct {
				Topology struct {
					Counts  []int `yaml:"faceVertexCounts"`
					Indices []int `yaml:"faceVertexIndices"`
				} `yaml:"topology"`
			} `yaml:"mesh"`
			Xform struct {
				Matrix [][]float64 `yaml:"matrix"`
				Reset  bool        `yaml:"resetXformStack"`
			} `yaml:"xform"`
		} `yaml:"data"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "mesh", decoded.Type)
	assert.Equal(t, []int{3}, decoded.Data.Mesh.Topology.Counts)
	assert.Equal(t, []int{0, 1, 2}, decoded.Data.Mesh.Topology.Indices)
	assert.True(t, decoded.Data.Xform.Reset)
	require.Len(t, decoded.Data.Xform.Matrix, 4)
	assert.Equal(t, []float64{1, 0, 0, 0}, decoded.Data.Xform.Matrix[0])

	assert.True(t, strings.Index(buf.String(), "mesh:") < strings.Index(buf.String(), "xform:"))
}
