/*
errors.go - Error types for the tower engine

PURPOSE:
  All engine errors in one place. Two families exist and they are
  deliberately different in kind:

  1. Structural errors - the tower itself is malformed (non-positive
     limit, layers out of ascending attachment order). The engine
     refuses to produce output for a malformed tower rather than
     guessing a repair. Rejected synchronously, wrapped in structured
     types that carry the offending layer.

  2. Indeterminate values - an unpriced layer, a missing override, an
     undated window. These are expected states, NOT errors: they
     propagate as nil through every dependent figure so the caller can
     render "unknown" instead of a bogus zero. Nothing in this file
     models them.

USAGE:
  Callers branch with errors.Is:

    if errors.Is(err, tower.ErrNonPositiveLimit) { ... }

  or recover the offending layer with errors.As:

    var lerr *tower.LimitError
    if errors.As(err, &lerr) { reject layer lerr.Index }
*/
package tower

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNonPositiveLimit is returned when a layer carries a zero or
	// negative limit. Attachment and rate math are undefined without a
	// positive limit, so the whole tower is rejected.
	ErrNonPositiveLimit = errors.New("layer limit must be positive")

	// ErrAttachmentOrder is returned when cached attachments on the
	// input are not in ascending order. Ordering is the caller's
	// responsibility; the engine never re-sorts.
	ErrAttachmentOrder = errors.New("layers not in ascending attachment order")

	// ErrLayerIndex is returned for an out-of-range layer index.
	ErrLayerIndex = errors.New("layer index out of range")
)

// =============================================================================
// STRUCTURED ERRORS - Carry the offending layer
// =============================================================================

// LimitError identifies the layer whose limit made the tower invalid.
type LimitError struct {
	Index   int
	Carrier string
	Limit   Money
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("layer %d (%s): limit %s is not positive", e.Index, e.Carrier, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrNonPositiveLimit }

// OrderError identifies where the ascending-attachment invariant broke.
type OrderError struct {
	Index      int
	Attachment Money
	Previous   Money
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("layer %d: attachment %s below preceding attachment %s",
		e.Index, e.Attachment, e.Previous)
}

func (e *OrderError) Unwrap() error { return ErrAttachmentOrder }

// IsStructural reports whether the error means the tower itself is
// malformed (as opposed to a persistence or decoding failure).
func IsStructural(err error) bool {
	return errors.Is(err, ErrNonPositiveLimit) ||
		errors.Is(err, ErrAttachmentOrder) ||
		errors.Is(err, ErrLayerIndex)
}
