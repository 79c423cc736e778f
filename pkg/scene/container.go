package scene

import (
	"cogentcore.org/core/base/keylist"
)

type retainedContainer struct {
	children *keylist.List[Token, DataSource]
}

func (*retainedContainer) dataSource() {}

func (c *retainedContainer) Names() []Token {
	names := make([]Token, len(c.children.Keys))
	copy(names, c.children.Keys)
	return names
}

func (c *retainedContainer) Get(name Token) (DataSource, bool) {
	return c.children.AtTry(name)
}

// ContainerBuilder assembles the children of a container in insertion
// order. It is the only way to populate a container.
type ContainerBuilder struct {
	children *keylist.List[Token, DataSource]
}

func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{children: keylist.New[Token, DataSource]()}
}

// Set adds or replaces a child. A nil data source is skipped, so optional
// children can be passed through unconditionally.
func (b *ContainerBuilder) Set(name Token, ds DataSource) *ContainerBuilder {
	if ds == nil {
		return b
	}
	b.children.Set(name, ds)
	return b
}

// Len returns the number of children added so far.
func (b *ContainerBuilder) Len() int {
	return b.children.Len()
}

// Build freezes the current children into a read-only container.
func (b *ContainerBuilder) Build() Container {
	children := keylist.New[Token, DataSource]()
	for i, k := range b.children.Keys {
		children.Set(k, b.children.Values[i])
	}
	return &retainedContainer{children: children}
}

// GetContainer walks loc from c and returns the container found there.
func GetContainer(c Container, loc ...Token) (Container, bool) {
	ds, ok := Lookup(c, loc...)
	if !ok {
		return nil, false
	}
	child, ok := ds.(Container)
	return child, ok
}

// GetValue walks loc from c and returns the sampled value at t when it has
// type T.
func GetValue[T any](c Container, t Time, loc ...Token) (T, bool) {
	var zero T
	ds, ok := Lookup(c, loc...)
	if !ok {
		return zero, false
	}
	s, ok := ds.(Sampled)
	if !ok {
		return zero, false
	}
	v, ok := s.Value(t).(T)
	return v, ok
}

// Lookup walks loc from c. An empty locator returns c itself.
func Lookup(c Container, loc ...Token) (DataSource, bool) {
	if c == nil {
		return nil, false
	}
	var cur DataSource = c
	for _, name := range loc {
		cont, ok := cur.(Container)
		if !ok {
			return nil, false
		}
		cur, ok = cont.Get(name)
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}
