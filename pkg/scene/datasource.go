// Package scene implements the hierarchical scene-description model: typed
// nodes whose data is a tree of named containers, vectors and time-sampled
// leaves.
//
// Everything in this package is read-only once built. Containers are
// assembled with a ContainerBuilder and frozen by Build; leaves wrap values
// that callers must not modify after handing them over.
package scene

import (
	"sync"
)

// Time is a shutter-relative sample time. Zero is the current frame.
type Time float32

// DataSource is any node of a data-source tree.
type DataSource interface {
	dataSource()
}

// Container is a data source with named children in a stable order.
type Container interface {
	DataSource
	Names() []Token
	Get(name Token) (DataSource, bool)
}

// Sampled is a leaf data source producing a value at a time.
type Sampled interface {
	DataSource
	Value(t Time) any
	// SampleTimes reports the times in [start, end] at which the value
	// changes. It returns false for time-invariant values.
	SampleTimes(start, end Time) ([]Time, bool)
}

// Typed is a Sampled with a statically known value type.
type Typed[T any] interface {
	Sampled
	TypedValue(t Time) T
}

// Vector is an indexable sequence of data sources.
type Vector interface {
	DataSource
	Len() int
	Element(i int) (DataSource, bool)
}

// Node is a typed prim: a kind tag plus its data-source tree.
type Node struct {
	Type Token
	Data Container
}

// IsZero reports whether the node has neither a type nor data.
func (n Node) IsZero() bool {
	return n.Type == "" && n.Data == nil
}

// ------------------------------------------------------------------------
// Leaves
// ------------------------------------------------------------------------

// Retained is a time-invariant leaf holding a single value.
type Retained[T any] struct {
	v T
}

// NewRetained wraps v in a time-invariant leaf.
func NewRetained[T any](v T) *Retained[T] {
	return &Retained[T]{v: v}
}

func (*Retained[T]) dataSource() {}

func (r *Retained[T]) Value(Time) any { return r.v }
func (r *Retained[T]) TypedValue(Time) T { return r.v }
func (r *Retained[T]) SampleTimes(_, _ Time) ([]Time, bool) { return nil, false }

// Lazy is a time-invariant leaf whose value is computed on first access.
type Lazy[T any] struct {
	once sync.Once
	fn   func() T
	v    T
}

// NewLazy returns a leaf that calls fn at most once.
func NewLazy[T any](fn func() T) *Lazy[T] {
	return &Lazy[T]{fn: fn}
}

func (*Lazy[T]) dataSource() {}

func (l *Lazy[T]) TypedValue(Time) T {
	l.once.Do(func() { l.v = l.fn() })
	return l.v
}

func (l *Lazy[T]) Value(t Time) any { return l.TypedValue(t) }
func (l *Lazy[T]) SampleTimes(_, _ Time) ([]Time, bool) { return nil, false }

// ------------------------------------------------------------------------
// Vectors
// ------------------------------------------------------------------------

type retainedVector struct {
	elems []DataSource
}

// NewVector returns a vector over the given elements.
func NewVector(elems ...DataSource) Vector {
	v := &retainedVector{elems: make([]DataSource, len(elems))}
	copy(v.elems, elems)
	return v
}

func (*retainedVector) dataSource() {}

func (v *retainedVector) Len() int { return len(v.elems) }

func (v *retainedVector) Element(i int) (DataSource, bool) {
	if i < 0 || i >= len(v.elems) {
		return nil, false
	}
	return v.elems[i], true
}
