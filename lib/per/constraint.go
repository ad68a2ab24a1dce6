package per

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
)

// ConstraintKind classifies the PER-visible bounds of a constraint.
type ConstraintKind uint8

const (
	// Unconstrained has no usable bound in either direction.
	Unconstrained ConstraintKind = iota
	// LowerBounded has a lower bound only (semi-constrained).
	LowerBounded
	// UpperBounded has an upper bound only; PER gives it an implied
	// lower bound of zero, making it effectively bounded.
	UpperBounded
	// Bounded has both bounds.
	Bounded
)

func (k ConstraintKind) String() string {
	switch k {
	case LowerBounded:
		return "LowerBounded"
	case UpperBounded:
		return "UpperBounded"
	case Bounded:
		return "Bounded"
	default:
		return "Unconstrained"
	}
}

// Constraint is an immutable value-range (or size-range) constraint with
// an extensibility flag. It is built once per encode call from the
// caller's optional bounds and carries everything the whole-number and
// length encoders need: no shared schema state, no post-construction
// mutation.
//
// The zero Constraint is valid and means "unconstrained, not extensible".
type Constraint struct {
	kind       ConstraintKind
	lb, ub     int64
	extensible bool
}

// NewConstraint derives the constraint kind from which bounds are
// present: both present is Bounded, lower only is LowerBounded, upper
// only is UpperBounded (implied lower bound zero), neither is
// Unconstrained. A single-value constraint is the degenerate case
// lb == ub. Bounds with lb > ub are rejected with ErrInvalidConstraint.
func NewConstraint(lb, ub *int64, extensible bool) (Constraint, error) {
	c := Constraint{extensible: extensible}
	switch {
	case lb != nil && ub != nil:
		if *lb > *ub {
			return Constraint{}, errors.Wrapf(ErrInvalidConstraint,
				"lower bound %d exceeds upper bound %d", *lb, *ub)
		}
		c.kind = Bounded
		c.lb, c.ub = *lb, *ub
	case lb != nil:
		c.kind = LowerBounded
		c.lb = *lb
	case ub != nil:
		if *ub < 0 {
			return Constraint{}, errors.Wrapf(ErrInvalidConstraint,
				"upper bound %d below implied lower bound 0", *ub)
		}
		c.kind = UpperBounded
		c.ub = *ub
	default:
		c.kind = Unconstrained
	}
	return c, nil
}

// NewSizeConstraint builds a Constraint over a length count. Identical
// to NewConstraint except that negative bounds are meaningless for sizes
// and are rejected outright.
func NewSizeConstraint(lb, ub *int64, extensible bool) (Constraint, error) {
	if lb != nil && *lb < 0 {
		return Constraint{}, errors.Wrapf(ErrInvalidConstraint,
			"negative size lower bound %d", *lb)
	}
	if ub != nil && *ub < 0 {
		return Constraint{}, errors.Wrapf(ErrInvalidConstraint,
			"negative size upper bound %d", *ub)
	}
	return NewConstraint(lb, ub, extensible)
}

// Kind reports how the constraint is bounded.
func (c Constraint) Kind() ConstraintKind {
	return c.kind
}

// Extensible reports whether the constraint carries an extension marker.
func (c Constraint) Extensible() bool {
	return c.extensible
}

// Root returns the effective root range. For UpperBounded constraints
// the implied lower bound zero is materialized. ok is false when the
// constraint has no finite root range (Unconstrained or LowerBounded).
func (c Constraint) Root() (lb, ub int64, ok bool) {
	switch c.kind {
	case Bounded:
		return c.lb, c.ub, true
	case UpperBounded:
		return 0, c.ub, true
	default:
		return 0, 0, false
	}
}

// LowerBound returns the lower bound if one exists, implied or explicit.
func (c Constraint) LowerBound() (int64, bool) {
	switch c.kind {
	case Bounded, LowerBounded:
		return c.lb, true
	case UpperBounded:
		return 0, true
	default:
		return 0, false
	}
}

// UpperBound returns the upper bound if one exists.
func (c Constraint) UpperBound() (int64, bool) {
	switch c.kind {
	case Bounded, UpperBounded:
		return c.ub, true
	default:
		return 0, false
	}
}

// SpanMinusOne returns ub - lb for a bounded root range, computed in
// uint64 so the full int64 domain cannot overflow. Zero means the
// degenerate single-value range.
func (c Constraint) SpanMinusOne() uint64 {
	lb, ub, ok := c.Root()
	if !ok {
		return 0
	}
	return uint64(ub) - uint64(lb)
}

// RootBits is the minimum number of bits representing any value of the
// root range as an offset from the lower bound: ceil(log2(span)), and 0
// for the degenerate single-value range where nothing is encoded.
func (c Constraint) RootBits() int {
	span := c.SpanMinusOne()
	if span == 0 {
		return 0
	}
	return bits.Len64(span)
}

// Contains reports whether v lies within every bound the constraint has.
// An unconstrained constraint contains everything.
func (c Constraint) Contains(v int64) bool {
	if lb, ok := c.LowerBound(); ok && v < lb {
		return false
	}
	if ub, ok := c.UpperBound(); ok && v > ub {
		return false
	}
	return true
}

func (c Constraint) String() string {
	ext := ""
	if c.extensible {
		ext = ",..."
	}
	switch c.kind {
	case Bounded:
		return fmt.Sprintf("(%d..%d%s)", c.lb, c.ub, ext)
	case LowerBounded:
		return fmt.Sprintf("(%d..MAX%s)", c.lb, ext)
	case UpperBounded:
		return fmt.Sprintf("(0..%d%s)", c.ub, ext)
	default:
		if c.extensible {
			return "(MIN..MAX,...)"
		}
		return "(MIN..MAX)"
	}
}
