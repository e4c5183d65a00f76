// Package artifact implements the codec's on-disk layout: the tree header
// written by huffman.Tree.Serialize, followed by a body in one of two
// framings — a length-prefixed packed bit stream, or raw unframed ASCII
// '0'/'1' text. Neither framing carries a mode flag; encode and decode must
// agree on mode out of band (see the design notes on the artifact format).
package artifact

import (
	"fmt"
	"io"

	"github.com/kelbwah/huffmin/internal/bitvector"
	"github.com/kelbwah/huffmin/internal/errs"
)

// WriteBitBody writes body's STREAM-mode bit count and packed storage at
// offset, per bitvector.Vector.Output, and returns the next free offset.
func WriteBitBody(w io.WriterAt, offset uint64, body *bitvector.Vector) (uint64, error) {
	return body.Output(w, offset, bitvector.Stream)
}

// ReadBitBody reads a body previously written by WriteBitBody.
func ReadBitBody(r io.ReaderAt, offset uint64) (*bitvector.Vector, uint64, error) {
	return bitvector.Input(r, offset)
}

// WriteTextBody writes text raw at offset, length implied by the caller's
// own bookkeeping rather than any on-disk framing.
func WriteTextBody(w io.WriterAt, offset uint64, text []byte) (uint64, error) {
	if len(text) == 0 {
		return offset, nil
	}
	if _, err := w.WriteAt(text, int64(offset)); err != nil {
		return 0, fmt.Errorf("artifact: write text body: %w", errs.IO)
	}
	return offset + uint64(len(text)), nil
}

// ReadTextBody reads the remainder of a size-byte artifact starting at
// offset: the text body's length is implied by end-of-file.
func ReadTextBody(r io.ReaderAt, offset uint64, size int64) ([]byte, error) {
	remaining := size - int64(offset)
	if remaining < 0 {
		return nil, fmt.Errorf("artifact: read text body: offset past end of file: %w", errs.CorruptArtifact)
	}
	if remaining == 0 {
		return nil, nil
	}
	buf := make([]byte, remaining)
	n, err := r.ReadAt(buf, int64(offset))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("artifact: read text body: %w", errs.IO)
	}
	return buf[:n], nil
}

// SequentialBuffer is a minimal io.WriterAt over an in-memory buffer for
// callers (such as the HTTP front end) that need the positional-write API
// but have no backing file. Writes must land exactly at the buffer's
// current end, matching the codec's own monotonically-increasing offset
// discipline; anything else is a programmer error, not a runtime one.
type SequentialBuffer struct {
	buf []byte
}

// WriteAt appends p to the buffer. off must equal the buffer's current
// length.
func (s *SequentialBuffer) WriteAt(p []byte, off int64) (int, error) {
	if off != int64(len(s.buf)) {
		return 0, fmt.Errorf("artifact: non-sequential write at offset %d (buffer length %d): %w", off, len(s.buf), errs.InvalidArgument)
	}
	s.buf = append(s.buf, p...)
	return len(p), nil
}

// Bytes returns the accumulated buffer.
func (s *SequentialBuffer) Bytes() []byte { return s.buf }

// Len returns the current buffer length, i.e. the next write's required
// offset.
func (s *SequentialBuffer) Len() int64 { return int64(len(s.buf)) }
