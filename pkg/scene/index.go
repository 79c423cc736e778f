package scene

import (
	"sync"

	"cogentcore.org/core/base/keylist"
)

// Index resolves prims by path.
type Index interface {
	Prim(path Path) (Node, bool)
}

// MapIndex is an in-memory Index. It is safe for concurrent use.
type MapIndex struct {
	mu    sync.RWMutex
	prims *keylist.List[Path, Node]
}

func NewMapIndex() *MapIndex {
	return &MapIndex{prims: keylist.New[Path, Node]()}
}

// Add inserts or replaces the prim at path.
func (m *MapIndex) Add(path Path, n Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prims.Set(path, n)
}

// Remove deletes the prim at path and reports whether it existed.
func (m *MapIndex) Remove(path Path) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prims.DeleteByKey(path)
}

func (m *MapIndex) Prim(path Path) (Node, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.prims.AtTry(path)
}

// Paths returns the prim paths in insertion order.
func (m *MapIndex) Paths() []Path {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]Path, len(m.prims.Keys))
	copy(paths, m.prims.Keys)
	return paths
}
