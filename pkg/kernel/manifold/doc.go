package manifold

import "errors"

// DefaultSegments is the facet count for round primitives.
const DefaultSegments = 64

// ErrUnavailable is returned by New in builds without the manifold tag.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")
