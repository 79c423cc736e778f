//go:build !manifold

// Package manifold implements kernel.Kernel with the Manifold C library.
// Without the "manifold" build tag New always fails with ErrUnavailable.
package manifold

import (
	"github.com/chazu/geobridge/pkg/kernel"
)

// New reports that the Manifold kernel was not compiled in.
func New(segments int) (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
