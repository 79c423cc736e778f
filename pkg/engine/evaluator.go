package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/procedural"
)

// ErrNoOutput is returned when a script never writes the requested output.
var ErrNoOutput = errors.New("no such output")

// Loader returns the script source for a graph name.
type Loader func(name string) (string, error)

// DirLoader loads graph name from dir, adding a .lisp extension when name
// has none.
func DirLoader(dir string) Loader {
	return func(name string) (string, error) {
		if filepath.Ext(name) == "" {
			name += ".lisp"
		}
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		b, err := os.ReadFile(name)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// Evaluator runs procedural parameters through an Engine.
type Evaluator struct {
	engine *Engine
	load   Loader
}

var _ procedural.Evaluator = (*Evaluator)(nil)

func NewEvaluator(e *Engine, load Loader) *Evaluator {
	return &Evaluator{engine: e, load: load}
}

// Evaluate loads p.Graph, runs it and returns the objects of p.Output.
// Script errors are returned as a joined error of EvalErrors.
func (ev *Evaluator) Evaluate(ctx context.Context, p procedural.Parameters) ([]*geo.Object, error) {
	src, err := ev.load(p.Graph)
	if err != nil {
		return nil, fmt.Errorf("engine: load %q: %w", p.Graph, err)
	}
	res, err := ev.engine.Evaluate(ctx, src, Env{Inputs: p.Inputs, Frame: p.Frame, Time: p.Time})
	if err != nil {
		return nil, fmt.Errorf("engine: %s: %w", p.Graph, err)
	}
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("engine: %s: %w", p.Graph, err)
	}

	name := p.Output
	if name == "" {
		if res.Outputs.Len() == 0 {
			return nil, nil
		}
		name = res.Outputs.Keys[0]
	}
	objs, ok := res.Output(name)
	if !ok {
		return nil, fmt.Errorf("engine: %s: %w %q", p.Graph, ErrNoOutput, name)
	}
	return objs, nil
}
