// Package bitvector implements the codec's random-access bit storage: an
// append-cursor buffer that can be serialized to and read back from a file
// at an explicit offset. Bit i lives at byte i/8, mask 1<<(i&7) — little
// endian by bit index — and that ordering is preserved on disk.
package bitvector

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kelbwah/huffmin/internal/errs"
)

// Mode selects whether GetSize/AppendVector operate over the vector's full
// storage capacity or only the bits actually written via Append.
type Mode int

const (
	// Full reports capacity_bits — the total addressable bit count.
	Full Mode = iota
	// Stream reports cursor_bits — the number of bits written via Append.
	Stream
)

// Vector is a growable bit buffer with a write cursor.
type Vector struct {
	storage      []byte
	capacityBits uint64
	cursorBits   uint64
}

// New creates a vector with the given capacity, zero-initialized storage,
// and cursor at 0. It fails if nBits is 0.
func New(nBits uint64) (*Vector, error) {
	if nBits == 0 {
		return nil, fmt.Errorf("bitvector: new: zero capacity: %w", errs.InvalidArgument)
	}
	return &Vector{
		storage:      make([]byte, byteLen(nBits)),
		capacityBits: nBits,
	}, nil
}

func byteLen(nBits uint64) uint64 {
	return (nBits + 7) / 8
}

// CapacityBits returns the total addressable bit count.
func (v *Vector) CapacityBits() uint64 { return v.capacityBits }

// CursorBits returns the number of bits written via Append.
func (v *Vector) CursorBits() uint64 { return v.cursorBits }

func (v *Vector) checkIndex(i uint64) error {
	if i >= v.capacityBits {
		return fmt.Errorf("bitvector: index %d out of range (capacity %d): %w", i, v.capacityBits, errs.InvalidArgument)
	}
	return nil
}

// Set sets bit i to 1.
func (v *Vector) Set(i uint64) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	v.storage[i/8] |= 1 << (i & 7)
	return nil
}

// Clear sets bit i to 0.
func (v *Vector) Clear(i uint64) error {
	if err := v.checkIndex(i); err != nil {
		return err
	}
	v.storage[i/8] &^= 1 << (i & 7)
	return nil
}

// Check returns the value of bit i.
func (v *Vector) Check(i uint64) (bool, error) {
	if err := v.checkIndex(i); err != nil {
		return false, err
	}
	return v.storage[i/8]&(1<<(i&7)) != 0, nil
}

// grow doubles capacity (first doubling from 1) and zero-extends storage.
func (v *Vector) grow() {
	newCap := v.capacityBits * 2
	if newCap == 0 {
		newCap = 1
	}
	v.reallocate(newCap)
}

func (v *Vector) reallocate(newCapBits uint64) {
	newStorage := make([]byte, byteLen(newCapBits))
	copy(newStorage, v.storage)
	v.storage = newStorage
	v.capacityBits = newCapBits
}

// AppendBit writes b at the cursor position, growing capacity if needed,
// and advances the cursor.
func (v *Vector) AppendBit(b bool) error {
	if v.cursorBits == v.capacityBits {
		v.grow()
	}
	idx := v.cursorBits
	var err error
	if b {
		err = v.Set(idx)
	} else {
		err = v.Clear(idx)
	}
	if err != nil {
		return err
	}
	v.cursorBits++
	return nil
}

// AppendVector appends bits [0, other.GetSize(mode)) from other via
// AppendBit.
func (v *Vector) AppendVector(other *Vector, mode Mode) error {
	n := other.GetSize(mode)
	for i := uint64(0); i < n; i++ {
		b, err := other.Check(i)
		if err != nil {
			return err
		}
		if err := v.AppendBit(b); err != nil {
			return err
		}
	}
	return nil
}

// GetSize returns capacity_bits for Full or cursor_bits for Stream.
func (v *Vector) GetSize(mode Mode) uint64 {
	if mode == Stream {
		return v.cursorBits
	}
	return v.capacityBits
}

// Resize reallocates storage to ceil(newBits/8) bytes. It does not alter
// the cursor; shrinking past the cursor is the caller's responsibility.
func (v *Vector) Resize(newBits uint64) error {
	v.reallocate(newBits)
	return nil
}

// Output writes a little-endian u64 header equal to GetSize(mode), then
// ceil(that/8)+1 raw storage bytes, at offset and offset+8 respectively. It
// returns the next free offset.
func (v *Vector) Output(w io.WriterAt, offset uint64, mode Mode) (uint64, error) {
	size := v.GetSize(mode)
	header := make([]byte, 8)
	binary.LittleEndian.PutUint64(header, size)
	if _, err := w.WriteAt(header, int64(offset)); err != nil {
		return 0, fmt.Errorf("bitvector: output: write header: %w", errs.IO)
	}

	bodyLen := byteLen(size) + 1
	body := make([]byte, bodyLen)
	copy(body, v.storage)
	if _, err := w.WriteAt(body, int64(offset+8)); err != nil {
		return 0, fmt.Errorf("bitvector: output: write body: %w", errs.IO)
	}
	return offset + 8 + bodyLen, nil
}

// Input reads a vector previously written by Output: a little-endian u64
// capacity header followed by ceil(capacity/8)+1 storage bytes. The cursor
// is set equal to the capacity (the whole vector is treated as written).
func Input(r io.ReaderAt, offset uint64) (*Vector, uint64, error) {
	header := make([]byte, 8)
	if _, err := r.ReadAt(header, int64(offset)); err != nil {
		return nil, 0, fmt.Errorf("bitvector: input: read header: %w", errs.CorruptArtifact)
	}
	size := binary.LittleEndian.Uint64(header)
	if size == 0 {
		return nil, 0, fmt.Errorf("bitvector: input: zero-length stream: %w", errs.CorruptArtifact)
	}

	bodyLen := byteLen(size) + 1
	body := make([]byte, bodyLen)
	if _, err := r.ReadAt(body, int64(offset+8)); err != nil {
		return nil, 0, fmt.Errorf("bitvector: input: read body: %w", errs.CorruptArtifact)
	}

	v := &Vector{
		storage:      body,
		capacityBits: size,
		cursorBits:   size,
	}
	return v, offset + 8 + bodyLen, nil
}

// Convert parses a string over the alphabet {'0','1'}; other characters are
// silently ignored. The returned vector's capacity is compacted to exactly
// the number of valid bits accepted, so that appending it in Full mode
// carries only its code length (see the encoder's FULL-mode append
// invariant).
func Convert(text string) (*Vector, error) {
	v, err := New(1)
	if err != nil {
		return nil, err
	}
	for _, c := range text {
		switch c {
		case '0':
			if err := v.AppendBit(false); err != nil {
				return nil, err
			}
		case '1':
			if err := v.AppendBit(true); err != nil {
				return nil, err
			}
		default:
			continue
		}
	}
	if err := v.Resize(v.cursorBits); err != nil {
		return nil, err
	}
	return v, nil
}
