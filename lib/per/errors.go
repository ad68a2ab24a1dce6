package per

import (
	"github.com/pkg/errors"
)

// Encoding failures are reported synchronously through these sentinels,
// wrapped with call context. Match with errors.Is; a failed encode
// yields no usable byte sequence.
var (
	// ErrInvalidConstraint marks a constraint whose lower bound exceeds
	// its upper bound. Rejected before any bit is emitted.
	ErrInvalidConstraint = errors.New("per: invalid constraint")

	// ErrConstraintViolation marks a value outside the root range of a
	// non-extensible constraint. The value is never truncated or
	// wrapped to fit.
	ErrConstraintViolation = errors.New("per: value violates constraint")
)
