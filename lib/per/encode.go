// Package per implements the value encoder for ASN.1 Packed Encoding
// Rules (ITU-T X.691) in both the Aligned (APER) and Unaligned (UPER)
// variants, covering the BOOLEAN, INTEGER and OCTET STRING types.
//
// Callers supply the value together with a resolved Constraint; no
// ASN.1 schema text is interpreted. Every encode call is a pure
// function of (value, constraint, variant) and owns its own bit
// buffer, so independent calls may run concurrently.
package per

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/percodec/per-go/lib/bitstring"
)

// Encoder drives a single PER encoding into a bit stream.
// aligned selects the APER variant; false selects UPER.
type Encoder struct {
	w       *bitstring.Writer
	aligned bool
}

// NewEncoder returns an empty Encoder for the chosen variant.
func NewEncoder(aligned bool) *Encoder {
	return &Encoder{
		w:       bitstring.NewWriter(),
		aligned: aligned,
	}
}

// Aligned reports whether the encoder produces the APER variant.
func (e *Encoder) Aligned() bool {
	return e.aligned
}

// Bytes finalizes and returns the encoding, zero-padded to the next
// octet boundary. A value that encodes to zero bits yields nil.
func (e *Encoder) Bytes() []byte {
	return e.w.Bytes()
}

// BitsWritten reports the logical bit length of the encoding so far,
// before trailing pad bits.
func (e *Encoder) BitsWritten() uint64 {
	return e.w.BitsWritten()
}

// 11.3 Non-negative-binary-integer encoding: a whole number goes into a
// bit-field of given length, or into the minimum number of octets whose
// leading octet is non-zero (unless the field is exactly one octet).

// BitsNonNegativeBinaryInteger returns the minimum bit-field width for
// value; zero still occupies one bit.
func BitsNonNegativeBinaryInteger(value uint64) int {
	if value == 0 {
		return 1
	}
	return bits.Len64(value)
}

// OctetsNonNegativeBinaryIntegerLength returns the minimum octet count
// for value per 11.3.6.
func OctetsNonNegativeBinaryIntegerLength(value uint64) int {
	return (BitsNonNegativeBinaryInteger(value) + 7) >> 3
}

// 11.4 2's-complement-binary-integer encoding: a signed whole number in
// the minimum number of octets such that the leading nine bits are
// neither all zeros nor all ones.

// BitsTwosComplementBinaryInteger returns the minimum signed bit width
// for value, sign bit included.
func BitsTwosComplementBinaryInteger(value int64) int {
	if value == 0 {
		return 1
	}
	if value > 0 {
		return bits.Len64(uint64(value)) + 1
	}
	return bits.Len64(uint64(^value)) + 1
}

// OctetsTwosComplementBinaryInteger returns the minimum octet count for
// value per 11.4.6.
func OctetsTwosComplementBinaryInteger(value int64) int {
	return (BitsTwosComplementBinaryInteger(value) + 7) >> 3
}

// EncodeConstrainedWholeNumber encodes n relative to the finite range
// [lb, ub] per 11.5. A degenerate range (lb == ub) encodes to nothing.
//
// UNALIGNED: n-lb in the minimum bits for the range (11.5.6).
// ALIGNED: ranges up to 255 use an unaligned bit-field per the 11.5.7.1
// table (which is the same minimum width); range 256 one aligned octet;
// up to 64K two aligned octets; beyond that the indefinite-length case
// of 11.5.7.4 applies, a constrained length determinant (lb 1, ub the
// octet count covering the range, per 13.2.6 a) followed by the
// aligned minimal-octet value.
func (e *Encoder) EncodeConstrainedWholeNumber(lb, ub, n int64) error {
	if lb > ub {
		return errors.Wrapf(ErrInvalidConstraint, "range %d..%d", lb, ub)
	}
	if n < lb || n > ub {
		return errors.Wrapf(ErrConstraintViolation, "%d outside %d..%d", n, lb, ub)
	}

	// span is ub-lb, the range minus one; uint64 arithmetic keeps the
	// full int64 domain from overflowing.
	span := uint64(ub) - uint64(lb)
	if span == 0 {
		return nil
	}
	value := uint64(n) - uint64(lb)

	if !e.aligned {
		return e.w.Write(uint8(BitsNonNegativeBinaryInteger(span)), value)
	}

	switch {
	case span <= 0xFE: // range <= 255: bit-field, no alignment
		return e.w.Write(uint8(BitsNonNegativeBinaryInteger(span)), value)
	case span == 0xFF: // range 256: one octet
		e.w.Align()
		return e.w.Write(8, value)
	case span <= 0xFFFF: // range 257..64K: two octets
		e.w.Align()
		return e.w.Write(16, value)
	}

	// 11.5.7.4 indefinite length case
	octets := OctetsNonNegativeBinaryIntegerLength(value)
	var (
		lenLB = uint64(1)
		lenUB = uint64(OctetsNonNegativeBinaryIntegerLength(span))
	)
	if _, err := e.EncodeLengthDeterminant(uint64(octets), &lenLB, &lenUB); err != nil {
		return err
	}
	e.w.Align()
	return e.w.Write(uint8(octets*8), value)
}

// EncodeSemiConstrainedWholeNumber encodes n with only a lower bound
// per 11.7: the offset n-lb in the minimum number of octets, preceded
// by an unconstrained length determinant, octet-aligned in APER.
func (e *Encoder) EncodeSemiConstrainedWholeNumber(lb, n int64) error {
	if n < lb {
		return errors.Wrapf(ErrConstraintViolation, "%d below lower bound %d", n, lb)
	}
	offset := uint64(n) - uint64(lb)
	octets := OctetsNonNegativeBinaryIntegerLength(offset)
	if _, err := e.EncodeUnconstrainedLength(uint64(octets)); err != nil {
		return err
	}
	return e.w.Write(uint8(octets*8), offset)
}

// EncodeUnconstrainedWholeNumber encodes n with no usable bounds per
// 11.8: the minimal 2's-complement octets preceded by an unconstrained
// length determinant, octet-aligned in APER. Minimal widths flip at
// every signed power-of-two boundary (127 is one octet, 128 two).
func (e *Encoder) EncodeUnconstrainedWholeNumber(n int64) error {
	octets := OctetsTwosComplementBinaryInteger(n)
	if _, err := e.EncodeUnconstrainedLength(uint64(octets)); err != nil {
		return err
	}
	return e.w.Write(uint8(octets*8), uint64(n))
}

// EncodeLengthDeterminant encodes the length count n per 11.9. With
// both bounds known and ub below 64K the length is a constrained whole
// number (the lower bound never offsets the unconstrained forms, per
// the 11.9.3.5 NOTE); otherwise the unconstrained forms apply and the
// returned pending count is the portion of n not yet covered when the
// fragmented form was used.
func (e *Encoder) EncodeLengthDeterminant(n uint64, lb, ub *uint64) (uint64, error) {
	if lb != nil && ub != nil && *ub < MAX_CONSTRAINED_LENGTH {
		return 0, e.EncodeConstrainedWholeNumber(int64(*lb), int64(*ub), int64(n))
	}
	return e.EncodeUnconstrainedLength(n)
}

// EncodeUnconstrainedLength encodes n in the unconstrained forms of
// 11.9.3.6-11.9.3.8, octet-aligned in APER: one octet below 128, two
// octets with leading bits 10 below 16K, else a fragment header octet
// with leading bits 11 and a 16K-multiplier of 1 to 4. In the fragment
// case the returned pending count is n minus the fragment's coverage;
// the caller emits that fragment's content and reapplies the procedure.
func (e *Encoder) EncodeUnconstrainedLength(n uint64) (uint64, error) {
	if e.aligned {
		e.w.Align()
	}

	if n <= 127 {
		return 0, e.w.Write(8, n)
	}
	if n < FRAGMENT_SIZE {
		return 0, e.w.Write(16, 1<<15|n)
	}

	k := n / FRAGMENT_SIZE
	if k > 4 {
		k = 4
	}
	if err := e.w.Write(8, 3<<6|k); err != nil {
		return 0, err
	}
	return n - k*FRAGMENT_SIZE, nil
}

// EncodeBoolean appends the single bit of clause 12: 1 for true, 0 for
// false. Alignment never affects it.
func (e *Encoder) EncodeBoolean(value bool) error {
	if value {
		return e.w.Write(1, 1)
	}
	return e.w.Write(1, 0)
}

// EncodeInteger encodes value under c per clause 13. An extensible
// constraint first emits the extension marker bit; values inside the
// extension root then encode as if the marker were absent, values
// outside it encode as unconstrained whole numbers (13.1). For a
// non-extensible constraint a value outside the root range is an
// ErrConstraintViolation.
func (e *Encoder) EncodeInteger(value int64, c Constraint) error {
	if c.Extensible() {
		extended := !c.Contains(value)
		if err := e.w.Write(1, boolBit(extended)); err != nil {
			return err
		}
		if extended {
			return e.EncodeUnconstrainedWholeNumber(value)
		}
	} else if !c.Contains(value) {
		return errors.Wrapf(ErrConstraintViolation, "INTEGER %d outside %s", value, c)
	}

	switch c.Kind() {
	case Bounded, UpperBounded:
		lb, ub, _ := c.Root()
		if lb == ub {
			// 13.2.1: single permitted value, nothing to encode
			return nil
		}
		return e.EncodeConstrainedWholeNumber(lb, ub, value)
	case LowerBounded:
		lb, _ := c.LowerBound()
		return e.EncodeSemiConstrainedWholeNumber(lb, value)
	default:
		return e.EncodeUnconstrainedWholeNumber(value)
	}
}

// EncodeOctetString encodes value under the size constraint per clause
// 17. Fixed sizes up to two octets stay unaligned with no length field;
// larger fixed sizes below 64K are octet-aligned in APER with no length
// field; everything else carries a length determinant followed by the
// octet-aligned content, fragmenting at 16K. An extensible size outside
// the root encodes the marker followed by a semi-constrained length
// with lower bound zero (17.3).
func (e *Encoder) EncodeOctetString(value []byte, size Constraint) error {
	n := int64(len(value))

	if size.Extensible() {
		extended := !size.Contains(n)
		if err := e.w.Write(1, boolBit(extended)); err != nil {
			return err
		}
		if extended {
			return e.encodeOctetStringFragments(value, Constraint{kind: LowerBounded})
		}
	} else if !size.Contains(n) {
		return errors.Wrapf(ErrConstraintViolation,
			"OCTET STRING length %d outside SIZE%s", n, size)
	}

	lb, ub, bounded := size.Root()
	switch {
	case bounded && ub == 0:
		// 17.5: constrained to empty, no encoding
		return nil
	case bounded && lb == ub && ub <= 2:
		// 17.6: short fixed size, unaligned, no length
		return e.w.WriteBytes(value)
	case bounded && lb == ub && ub < MAX_CONSTRAINED_LENGTH:
		// 17.7: fixed size below 64K, aligned, no length
		if e.aligned {
			e.w.Align()
		}
		return e.w.WriteBytes(value)
	}

	// 17.8
	return e.encodeOctetStringFragments(value, size)
}

// encodeOctetStringFragments emits the length determinant followed by
// the content, octet-aligned in APER. Lengths of 16K or more use the
// fragmented form, each fragment's content following its header
// immediately; an exact 16K multiple is closed by a final zero length
// (11.9.3.8.3 NOTE).
func (e *Encoder) encodeOctetStringFragments(value []byte, size Constraint) error {
	n := uint64(len(value))

	if lb, ub, ok := size.Root(); ok && ub < MAX_CONSTRAINED_LENGTH {
		if err := e.EncodeConstrainedWholeNumber(lb, ub, int64(n)); err != nil {
			return err
		}
		if n > 0 && e.aligned {
			e.w.Align()
		}
		return e.w.WriteBytes(value)
	}

	offset := uint64(0)
	for {
		remaining := n - offset
		if remaining < FRAGMENT_SIZE {
			if _, err := e.EncodeUnconstrainedLength(remaining); err != nil {
				return err
			}
			if remaining > 0 && e.aligned {
				e.w.Align()
			}
			return e.w.WriteBytes(value[offset:])
		}

		k := remaining / FRAGMENT_SIZE
		if k > 4 {
			k = 4
		}
		if e.aligned {
			e.w.Align()
		}
		if err := e.w.Write(8, 3<<6|k); err != nil {
			return err
		}
		if err := e.w.WriteBytes(value[offset : offset+k*FRAGMENT_SIZE]); err != nil {
			return err
		}
		offset += k * FRAGMENT_SIZE
	}
}

func boolBit(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
