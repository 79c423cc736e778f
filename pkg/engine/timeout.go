package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultTimeout is the limit for a single evaluation unless WithTimeout
// overrides it.
const DefaultTimeout = 5 * time.Second

var (
	// ErrTimeout is returned when an evaluation exceeds its time limit.
	ErrTimeout = errors.New("evaluation timed out")
	// ErrSuperseded is returned when a newer evaluation started first.
	ErrSuperseded = errors.New("evaluation superseded by newer request")
)

// evalResult is passed from the evaluation goroutine to the caller.
type evalResult struct {
	result *EvalResult
	err    error
}

// waitWithTimeout waits for a result from ch, giving up after timeout or
// when ctx is done. It uses a generation counter to discard stale results
// from previous evaluations.
//
// On timeout, the goroutine may still be running; the generation check
// ensures its result is discarded when it eventually completes.
func waitWithTimeout(
	ctx context.Context,
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
	timeout time.Duration,
) (*EvalResult, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, ErrSuperseded
		}
		return res.result, res.err

	case <-timer.C:
		return nil, fmt.Errorf("%w after %s", ErrTimeout, timeout)

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
