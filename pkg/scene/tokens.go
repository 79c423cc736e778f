package scene

import "strings"

// Token is an interned schema name.
type Token string

func (t Token) String() string { return string(t) }

// Prim types.
const (
	PrimMesh        Token = "mesh"
	PrimBasisCurves Token = "basisCurves"
	PrimInstancer   Token = "instancer"
)

// Schema names.
const (
	TokMesh              Token = "mesh"
	TokBasisCurves       Token = "basisCurves"
	TokTopology          Token = "topology"
	TokFaceVertexCounts  Token = "faceVertexCounts"
	TokFaceVertexIndices Token = "faceVertexIndices"
	TokCurveVertexCounts Token = "curveVertexCounts"
	TokCurveIndices      Token = "curveIndices"

	TokPrimvars            Token = "primvars"
	TokPrimvarValue        Token = "primvarValue"
	TokIndexedPrimvarValue Token = "indexedPrimvarValue"
	TokIndices             Token = "indices"
	TokInterpolation       Token = "interpolation"
	TokRole                Token = "role"

	TokXform           Token = "xform"
	TokMatrix          Token = "matrix"
	TokResetXformStack Token = "resetXformStack"

	TokInstancerTopology  Token = "instancerTopology"
	TokPrototypes         Token = "prototypes"
	TokInstanceIndices    Token = "instanceIndices"
	TokInstanceCategories Token = "instanceCategories"
	TokCategoriesValues   Token = "categoriesValues"
)

// Well-known primvar names.
const (
	PrimvarPoints       Token = "points"
	PrimvarDisplayColor Token = "displayColor"
	PrimvarWidths       Token = "widths"

	PrimvarInstanceRotations    Token = "hydra:instanceRotations"
	PrimvarInstanceScales       Token = "hydra:instanceScales"
	PrimvarInstanceTranslations Token = "hydra:instanceTranslations"
)

// Interpolation modes.
const (
	InterpConstant    Token = "constant"
	InterpUniform     Token = "uniform"
	InterpVarying     Token = "varying"
	InterpVertex      Token = "vertex"
	InterpFaceVarying Token = "faceVarying"
	InterpInstance    Token = "instance"
)

// Primvar roles. The empty token means no role.
const (
	RoleNone   Token = ""
	RolePoint  Token = "point"
	RoleColor  Token = "color"
	RoleVector Token = "vector"
)

// Locator addresses a data source below a node's root container.
type Locator []Token

func (l Locator) String() string {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = string(t)
	}
	return strings.Join(parts, "/")
}

// Common locators.
var (
	MeshTopologyLocator        = Locator{TokMesh, TokTopology}
	BasisCurvesTopologyLocator = Locator{TokBasisCurves, TokTopology}
	InstancerTopologyLocator   = Locator{TokInstancerTopology}
)
