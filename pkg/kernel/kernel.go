// Package kernel defines the abstract solid-modeling kernel used by the
// procedural engine. Solids are tessellated into triangle meshes, which
// ToObject turns into flat geometry objects.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface. Primitives are
// centered on the origin and fail on non-positive dimensions.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
