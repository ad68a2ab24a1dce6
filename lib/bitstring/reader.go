package bitstring

import (
	"github.com/pkg/errors"
)

// ErrShortData is returned when a read runs past the end of the stream.
var ErrShortData = errors.New("bitstring: insufficient data")

// Reader consumes a bit stream produced by Writer, MSB-first.
//
// pos is the bit position inside the leading buffer byte; 8 marks a
// fully consumed byte that is dropped lazily on the next read.
type Reader struct {
	buf  []byte
	pos  uint8
	read uint64
}

// NewReader wraps data, which is assumed to start on a byte boundary.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// BitsRead reports the total number of bits consumed, skipped padding
// included.
func (r *Reader) BitsRead() uint64 {
	return r.read
}

// Read consumes the next num bits and returns them right-aligned.
// num may be 0 (returns 0); more than 64 is rejected with ErrBitCount.
func (r *Reader) Read(num uint8) (uint64, error) {
	if num == 0 {
		return 0, nil
	}
	if num > 64 {
		return 0, errors.Wrapf(ErrBitCount, "read of %d bits", num)
	}

	var (
		result  uint64
		pending = num
	)
	for pending > 0 {
		if r.pos == 8 {
			r.buf = r.buf[1:]
			r.pos = 0
		}
		if len(r.buf) == 0 {
			return 0, errors.Wrapf(ErrShortData, "%d of %d bits missing", pending, num)
		}
		var (
			room    = 8 - r.pos
			reading = min(pending, room)
			mask    = uint8(1<<reading) - 1
			bits    = uint64((r.buf[0] >> (room - reading)) & mask)
		)
		result = result<<reading | bits
		r.pos += reading
		pending -= reading
	}

	r.read += uint64(num)
	return result, nil
}

// ReadBytes consumes exactly n octets starting at the current bit offset.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.New("bitstring: negative byte count")
	}
	if n == 0 {
		return []byte{}, nil
	}

	if r.pos == 0 || r.pos == 8 {
		if r.pos == 8 {
			r.buf = r.buf[1:]
			r.pos = 0
		}
		if len(r.buf) < n {
			return nil, errors.Wrapf(ErrShortData, "%d bytes requested", n)
		}
		result := make([]byte, n)
		copy(result, r.buf[:n])
		r.buf = r.buf[n:]
		r.read += uint64(n) * 8
		return result, nil
	}

	result := make([]byte, n)
	for i := range result {
		val, err := r.Read(8)
		if err != nil {
			return nil, err
		}
		result[i] = uint8(val)
	}
	return result, nil
}

// Advance skips to the next byte boundary, the read-side counterpart of
// Writer.Align.
func (r *Reader) Advance() {
	if r.pos > 0 && r.pos < 8 {
		r.read += uint64(8 - r.pos)
		r.pos = 8
	}
}
