// Package engine evaluates geometry scripts written in a small Lisp
// dialect. It wraps zygomys in a sandboxed environment; scripts build flat
// geometry objects and publish them under named outputs.
package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"cogentcore.org/core/base/keylist"
	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"

	"github.com/chazu/geobridge/internal/logger"
	"github.com/chazu/geobridge/pkg/geo"
	"github.com/chazu/geobridge/pkg/kernel"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Env is what a script can read: named inputs plus the evaluation time.
type Env struct {
	Inputs map[string]any
	Frame  float64
	Time   float64
}

// EvalResult bundles the full output of an evaluation. Outputs keeps the
// order in which scripts first wrote each name.
type EvalResult struct {
	Outputs *keylist.List[string, []*geo.Object]
	Errors  []EvalError
}

// Output returns the objects published under name.
func (r *EvalResult) Output(name string) ([]*geo.Object, bool) {
	if r == nil || r.Outputs == nil {
		return nil, false
	}
	return r.Outputs.AtTry(name)
}

// Err joins the evaluation errors, or returns nil if there are none.
func (r *EvalResult) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds every evaluation; non-positive values keep the
// default.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithKernel enables the sdf-* forms.
func WithKernel(k kernel.Kernel) Option {
	return func(e *Engine) { e.kernel = k }
}

// Engine wraps the zygomys interpreter.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	kernel     kernel.Kernel
	log        *zap.Logger
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{timeout: DefaultTimeout, log: logger.Named("engine")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Timeout returns the per-evaluation time limit.
func (e *Engine) Timeout() time.Duration {
	return e.timeout
}

// Evaluate runs source against env.
//
// Return semantics:
//   - On success: result with outputs and no errors, nil error
//   - On parse/eval failure: result with errors and empty outputs, nil error
//   - On fatal failure (timeout, superseded, cancelled, panic): nil, error
func (e *Engine) Evaluate(ctx context.Context, source string, env Env) (*EvalResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		res, err := e.evaluate(source, env)
		ch <- evalResult{result: res, err: err}
	}()

	res, err := waitWithTimeout(ctx, ch, gen, &e.mu, &e.generation, e.timeout)
	if err != nil {
		e.log.Warn("evaluation failed", zap.Uint64("generation", gen), zap.Error(err))
		return nil, err
	}
	e.log.Debug("evaluation finished",
		zap.Uint64("generation", gen),
		zap.Strings("outputs", res.Outputs.Keys),
		zap.Int("errors", len(res.Errors)))
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string, in Env) (*EvalResult, error) {
	st := newEvalState(e.kernel, in)

	// Empty source is a valid program with no outputs.
	if strings.TrimSpace(source) == "" {
		return &EvalResult{Outputs: st.outputs}, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return failed(err), nil
	}
	if _, err := env.Run(); err != nil {
		return failed(err), nil
	}
	return &EvalResult{Outputs: st.outputs}, nil
}

func failed(err error) *EvalResult {
	return &EvalResult{
		Outputs: keylist.New[string, []*geo.Object](),
		Errors:  parseZygomysError(err),
	}
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// Fallback: no line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
