// Package bitstring provides MSB-first bit-level buffers for PER
// (Packed Encoding Rules) value encoding.
//
// Writer is an append-only bit sink: values go in most-significant-bit
// first, 1 to 64 bits per call, with explicit alignment to octet
// boundaries where the encoding rules demand it. Reader is the matching
// bit source, used mainly by tests that take an encoding apart again.
//
// Neither type knows anything about ASN.1 semantics; constraint handling
// and type encoding live in lib/per. Instances are not safe for
// concurrent use; each encoding operation owns its own Writer.
package bitstring

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/pkg/errors"
)

// ErrBitCount is returned when a single call asks for more than 64 bits.
// Splitting the value into multiple calls is the caller's job.
var ErrBitCount = errors.New("bitstring: bit count exceeds 64")

const initialCapacity = 64

// Writer accumulates a bit stream into a growable byte buffer.
//
// fill tracks the bit position inside the last buffer byte: 0 means the
// byte is untouched, 1-7 partially used, 8 fully used (the next write
// starts a fresh byte). written counts every bit appended, including
// alignment padding.
type Writer struct {
	buf     []byte
	fill    uint8
	written uint64
}

// NewWriter returns an empty Writer with a small pre-allocated buffer.
func NewWriter() *Writer {
	return &Writer{
		buf: make([]byte, 0, initialCapacity),
	}
}

// BitsWritten reports the total number of bits appended so far,
// alignment padding included.
func (w *Writer) BitsWritten() uint64 {
	return w.written
}

// Len reports the number of buffer bytes holding at least one written bit.
func (w *Writer) Len() int {
	return len(w.buf)
}

// grow extends the buffer by n bytes, doubling capacity when needed so
// repeated appends stay amortized O(1).
func (w *Writer) grow(n int) {
	if cap(w.buf) < len(w.buf)+n {
		capacity := max(cap(w.buf)*2, len(w.buf)+n)
		w.buf = slices.Grow(w.buf, capacity-len(w.buf))
	}
	w.buf = w.buf[:len(w.buf)+n]
}

// Write appends the num low-order bits of value, most significant first.
// num may be 0 (a no-op); more than 64 is rejected with ErrBitCount.
//
// When the stream sits on a byte boundary the bits are laid down with a
// single big-endian store; mid-byte writes fall back to packing the value
// bit group by bit group across byte boundaries.
func (w *Writer) Write(num uint8, value uint64) error {
	if num == 0 {
		return nil
	}
	if num > 64 {
		return errors.Wrapf(ErrBitCount, "write of %d bits", num)
	}
	if num < 64 {
		value &= (1 << num) - 1
	}

	if len(w.buf) == 0 || w.fill == 8 {
		w.fill = 0

		nbytes := (int(num) + 7) >> 3
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], value<<(64-uint(num)))
		w.buf = append(w.buf, tmp[:nbytes]...)

		w.fill = num & 7
		if w.fill == 0 {
			w.fill = 8
		}
		w.written += uint64(num)
		return nil
	}

	pending := num
	for pending > 0 {
		if w.fill == 8 {
			w.grow(1)
			w.fill = 0
		}
		var (
			room      = 8 - w.fill
			nbits     = min(pending, room)
			remaining = pending - nbits
			chunk     = uint8(value>>remaining) & ((1 << nbits) - 1)
			pos       = len(w.buf) - 1
		)
		w.buf[pos] |= chunk << (room - nbits)
		w.fill += nbits
		pending = remaining
	}

	w.written += uint64(num)
	return nil
}

// WriteBytes appends whole octets starting at the current bit offset.
// It does not align first; callers needing octet-aligned content call
// Align themselves. On a byte boundary the data is appended directly,
// otherwise each octet is packed through Write.
func (w *Writer) WriteBytes(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if len(w.buf) == 0 || w.fill == 8 {
		w.buf = append(w.buf, data...)
		w.fill = 8
		w.written += uint64(len(data)) * 8
		return nil
	}
	for _, b := range data {
		if err := w.Write(8, uint64(b)); err != nil {
			return err
		}
	}
	return nil
}

// Align pads with zero bits up to the next octet boundary. The padding
// bits are already zero in the buffer, so only the counters move; a
// stream already on a boundary is left untouched.
func (w *Writer) Align() {
	if w.fill > 0 && w.fill < 8 {
		w.written += uint64(8 - w.fill)
		w.fill = 8
	}
}

// Bytes returns the accumulated stream. A final partial byte is
// zero-padded. The slice aliases the Writer's buffer; the Writer must
// not be written to afterwards if the caller keeps the slice.
func (w *Writer) Bytes() []byte {
	if w.written == 0 {
		return nil
	}
	return w.buf
}

// String describes the Writer state for debugging.
func (w *Writer) String() string {
	return fmt.Sprintf("bitstring.Writer{len: %d, fill: %d, written: %d}",
		len(w.buf), w.fill, w.written)
}
