// Package procedural exposes script-generated geometry as child prims of a
// procedural prim. Each Update runs the evaluator, routes every resulting
// object through the translators and records the prims they produce.
package procedural

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cogentcore.org/core/base/keylist"
	"go.uber.org/zap"

	"github.com/chazu/geobridge/internal/logger"
	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/scene"
	"github.com/chazu/geobridge/pkg/translate"
)

var (
	ErrNoEvaluator  = errors.New("procedural: no evaluator")
	ErrPrimNotFound = errors.New("procedural: prim not found")
)

// Evaluator produces flat geometry for a set of parameters.
type Evaluator interface {
	Evaluate(ctx context.Context, p Parameters) ([]*geo.Object, error)
}

// DirtiedEntry names a child prim whose data changed in an Update.
type DirtiedEntry struct {
	Path     scene.Path
	Locators []scene.Locator
}

// Procedural is bound to one prim path. ChildPrim may be called from
// several goroutines; Update takes the write lock.
type Procedural struct {
	path scene.Path
	eval Evaluator
	log  *zap.Logger

	mu       sync.RWMutex
	frame    float64
	time     float64
	children *keylist.List[scene.Path, scene.Node]
}

func New(path scene.Path, eval Evaluator) *Procedural {
	return &Procedural{
		path:     path,
		eval:     eval,
		log:      logger.Named("procedural"),
		children: keylist.New[scene.Path, scene.Node](),
	}
}

// Path returns the procedural prim's path.
func (p *Procedural) Path() scene.Path { return p.path }

// SetTime sets the frame and time passed to the next Update.
func (p *Procedural) SetTime(frame, time float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frame, p.time = frame, time
}

// Update re-evaluates the procedural against input and replaces its child
// prims. It returns the type of every child and one dirtied entry per
// child naming its topology locator. On error the procedural has no
// children.
func (p *Procedural) Update(ctx context.Context, input scene.Index) (map[scene.Path]scene.Token, []DirtiedEntry, error) {
	if p.eval == nil {
		return nil, nil, ErrNoEvaluator
	}
	prim, ok := input.Prim(p.path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrPrimNotFound, p.path)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.children = keylist.New[scene.Path, scene.Node]()

	params := ParametersFromPrim(prim)
	params.Frame, params.Time = p.frame, p.time
	p.resolveInputs(params.Inputs, input)

	objs, err := p.eval.Evaluate(ctx, params)
	if err != nil {
		return nil, nil, fmt.Errorf("procedural: %s: %w", p.path, err)
	}

	types := make(map[scene.Path]scene.Token)
	var dirtied []DirtiedEntry
	dirtyAt := make(map[scene.Path]int)
	for i, o := range objs {
		g, ok := translate.NewGeometry(o, i)
		if !ok {
			p.log.Debug("skipping output object",
				zap.Int("index", i), zap.Stringer("type", geo.Classify(o)))
			continue
		}
		for _, c := range g.Children() {
			path := p.path.AppendPath(c.Path)
			p.children.Set(path, c.Node)
			types[path] = c.Node.Type
			entry := DirtiedEntry{Path: path, Locators: []scene.Locator{c.Locator}}
			if at, dup := dirtyAt[path]; dup {
				p.log.Warn("output replaces an earlier child", zap.Stringer("path", path))
				dirtied[at] = entry
				continue
			}
			dirtyAt[path] = len(dirtied)
			dirtied = append(dirtied, entry)
		}
	}

	p.log.Debug("updated",
		zap.Stringer("path", p.path),
		zap.String("graph", params.Graph),
		zap.Int("objects", len(objs)),
		zap.Int("children", p.children.Len()))
	return types, dirtied, nil
}

// resolveInputs replaces path inputs that name a mesh prim in input with
// the prim converted to a flat mesh object. Paths to other prim types are
// passed through unchanged.
func (p *Procedural) resolveInputs(inputs map[string]any, input scene.Index) {
	for name, v := range inputs {
		var path scene.Path
		switch x := v.(type) {
		case scene.Path:
			path = x
		case []scene.Path:
			if len(x) != 1 {
				continue
			}
			path = x[0]
		default:
			continue
		}
		prim, ok := input.Prim(path)
		if !ok {
			p.log.Warn("input prim not found", zap.String("input", name), zap.Stringer("path", path))
			continue
		}
		if prim.Type != scene.PrimMesh {
			continue
		}
		inputs[name] = translate.BuildMeshObject(prim)
	}
}

// ChildPrim returns the prim built for path by the last Update.
func (p *Procedural) ChildPrim(path scene.Path) (scene.Node, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.children.AtTry(path)
}

// ChildPaths returns the child prim paths in creation order.
func (p *Procedural) ChildPaths() []scene.Path {
	p.mu.RLock()
	defer p.mu.RUnlock()
	paths := make([]scene.Path, len(p.children.Keys))
	copy(paths, p.children.Keys)
	return paths
}
