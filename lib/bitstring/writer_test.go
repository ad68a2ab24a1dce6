package bitstring

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterInitialState(t *testing.T) {
	w := NewWriter()
	if w.BitsWritten() != 0 {
		t.Errorf("initial written should be 0, got %d", w.BitsWritten())
	}
	if w.Len() != 0 {
		t.Errorf("initial length should be 0, got %d", w.Len())
	}
	if w.Bytes() != nil {
		t.Errorf("empty writer should yield nil, got %v", w.Bytes())
	}
}

func TestWriterSingleBits(t *testing.T) {
	w := NewWriter()

	// 1010 1100, one bit at a time
	for _, bit := range []uint64{1, 0, 1, 0, 1, 1, 0, 0} {
		if err := w.Write(1, bit); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if w.BitsWritten() != 8 {
		t.Errorf("written should be 8, got %d", w.BitsWritten())
	}
	if !bytes.Equal(w.Bytes(), []byte{0xAC}) {
		t.Errorf("Bytes() = %x, want ac", w.Bytes())
	}
}

func TestWriterCrossesByteBoundary(t *testing.T) {
	w := NewWriter()

	// 3 bits then 10 bits: 101 | 11_0011_0011 -> 1011 1001 1001 1xxx
	if err := w.Write(3, 0b101); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Write(10, 0b1100110011); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if w.BitsWritten() != 13 {
		t.Errorf("written should be 13, got %d", w.BitsWritten())
	}
	if !bytes.Equal(w.Bytes(), []byte{0xB9, 0x98}) {
		t.Errorf("Bytes() = %x, want b998", w.Bytes())
	}
}

func TestWriterAlignedMultiByteWrite(t *testing.T) {
	w := NewWriter()

	// a 64-bit write lands on the boundary in one store
	if err := w.Write(64, 0x0123456789ABCDEF); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	expected := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF}
	if !bytes.Equal(w.Bytes(), expected) {
		t.Errorf("Bytes() = %x, want %x", w.Bytes(), expected)
	}

	// a 12-bit write leaves a half-filled trailing byte
	if err := w.Write(12, 0xFFF); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if w.fill != 4 {
		t.Errorf("fill should be 4, got %d", w.fill)
	}
	if w.BitsWritten() != 76 {
		t.Errorf("written should be 76, got %d", w.BitsWritten())
	}
}

func TestWriterMasksExcessValueBits(t *testing.T) {
	w := NewWriter()
	if err := w.Write(4, 0xFFFF); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !bytes.Equal(w.Bytes(), []byte{0xF0}) {
		t.Errorf("Bytes() = %x, want f0", w.Bytes())
	}
}

func TestWriterZeroAndOversizedCounts(t *testing.T) {
	w := NewWriter()
	if err := w.Write(0, 0xFF); err != nil {
		t.Errorf("zero-bit write should be a no-op, got %v", err)
	}
	if w.BitsWritten() != 0 {
		t.Errorf("written should be 0 after no-op, got %d", w.BitsWritten())
	}
	if err := w.Write(65, 0); !errors.Is(err, ErrBitCount) {
		t.Errorf("65-bit write should fail with ErrBitCount, got %v", err)
	}
}

func TestWriterAlign(t *testing.T) {
	w := NewWriter()

	// aligning an empty writer does nothing
	w.Align()
	if w.BitsWritten() != 0 {
		t.Errorf("written should be 0, got %d", w.BitsWritten())
	}

	if err := w.Write(3, 0b111); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	w.Align()
	if w.BitsWritten() != 8 {
		t.Errorf("written should be 8 after align, got %d", w.BitsWritten())
	}
	if !bytes.Equal(w.Bytes(), []byte{0xE0}) {
		t.Errorf("Bytes() = %x, want e0", w.Bytes())
	}

	// aligning on a boundary is idempotent
	w.Align()
	if w.BitsWritten() != 8 {
		t.Errorf("written should still be 8, got %d", w.BitsWritten())
	}
}

func TestWriterWriteBytes(t *testing.T) {
	w := NewWriter()

	// aligned: appended directly
	if err := w.WriteBytes([]byte{0xDE, 0xAD}); err != nil {
		t.Fatalf("WriteBytes failed: %v", err)
	}
	if !bytes.Equal(w.Bytes(), []byte{0xDE, 0xAD}) {
		t.Errorf("Bytes() = %x, want dead", w.Bytes())
	}

	// unaligned: every octet shifts across the boundary
	if err := w.Write(4, 0xF); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.WriteBytes([]byte{0x00, 0xFF}); err != nil {
		t.Fatalf("WriteBytes failed: %v", err)
	}
	expected := []byte{0xDE, 0xAD, 0xF0, 0x0F, 0xF0}
	if !bytes.Equal(w.Bytes(), expected) {
		t.Errorf("Bytes() = %x, want %x", w.Bytes(), expected)
	}
	if w.BitsWritten() != 36 {
		t.Errorf("written should be 36, got %d", w.BitsWritten())
	}

	// empty slice is a no-op
	if err := w.WriteBytes(nil); err != nil {
		t.Errorf("empty WriteBytes should be a no-op, got %v", err)
	}
	if w.BitsWritten() != 36 {
		t.Errorf("written should still be 36, got %d", w.BitsWritten())
	}
}

func TestWriterGrowth(t *testing.T) {
	w := NewWriter()
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}
	if err := w.WriteBytes(data); err != nil {
		t.Fatalf("WriteBytes failed: %v", err)
	}
	if w.Len() != 1000 {
		t.Errorf("length should be 1000, got %d", w.Len())
	}
	if !bytes.Equal(w.Bytes(), data) {
		t.Errorf("buffer content diverged from input")
	}
}
