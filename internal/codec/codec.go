// Package codec wires the frequency/tree/bit-vector subsystems into the two
// end-to-end pipelines: Encode builds a tree from the input, serializes it,
// and emits an opcode stream; Decode reverses that, state-stepping the
// reconstructed tree one opcode at a time until it emits the original
// bytes.
package codec

import (
	"fmt"
	"io"

	"github.com/kelbwah/huffmin/internal/artifact"
	"github.com/kelbwah/huffmin/internal/bitvector"
	"github.com/kelbwah/huffmin/internal/errs"
	"github.com/kelbwah/huffmin/internal/huffman"
)

// Mode selects the opcode body encoding: packed bits or ASCII text. Files
// produced in one mode can only be decoded in that same mode — the
// artifact carries no mode flag.
type Mode int

const (
	Bit Mode = iota
	Text
)

// Stats summarizes one Encode call, suitable for a CLI's one-line summary.
type Stats struct {
	InputBytes  int
	OutputBytes int64
	Symbols     int
}

// Encode reads all of r, builds a Huffman tree over its byte frequencies,
// and writes the tree header followed by the opcode body (in mode) to w
// starting at offset 0.
func Encode(r io.Reader, w io.WriterAt, mode Mode) (Stats, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Stats{}, fmt.Errorf("codec: encode: read input: %w", errs.IO)
	}
	return EncodeBytes(data, w, mode)
}

// BuildTable runs the frequency/merge/parse passes over data and returns
// its code table, without writing anything. Callers that need the table
// ahead of (or instead of) writing an artifact — such as the CLI's -p
// opcode-body preview — use this directly.
func BuildTable(data []byte) (map[byte]string, error) {
	tree, err := huffman.Build(data)
	if err != nil {
		return nil, err
	}
	return tree.Parse()
}

// TextBody renders data's opcode stream as ASCII '0'/'1' text under table,
// independent of which mode (if any) is ultimately written to an artifact.
func TextBody(data []byte, table map[byte]string) string {
	var buf []byte
	for _, b := range data {
		buf = append(buf, table[b]...)
	}
	return string(buf)
}

// EncodeBytes is Encode over an already-read-in-memory input, so callers
// that also need the data for another purpose (e.g. rendering the opcode
// body for display) need not read the input twice.
func EncodeBytes(data []byte, w io.WriterAt, mode Mode) (Stats, error) {
	tree, err := huffman.Build(data)
	if err != nil {
		return Stats{}, err
	}
	table, err := tree.Parse()
	if err != nil {
		return Stats{}, err
	}

	offset, err := tree.Serialize(w, 0)
	if err != nil {
		return Stats{}, err
	}

	var next uint64
	switch mode {
	case Bit:
		next, err = encodeBitBody(w, offset, data, table)
	case Text:
		next, err = encodeTextBody(w, offset, data, table)
	default:
		return Stats{}, fmt.Errorf("codec: encode: unknown mode %d: %w", mode, errs.InvalidArgument)
	}
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		InputBytes:  len(data),
		OutputBytes: int64(next),
		Symbols:     len(table),
	}, nil
}

func encodeBitBody(w io.WriterAt, offset uint64, data []byte, table map[byte]string) (uint64, error) {
	body, err := bitvector.New(1)
	if err != nil {
		return 0, err
	}
	for _, b := range data {
		code, ok := table[b]
		if !ok {
			return 0, fmt.Errorf("codec: encode: byte %#x missing from code table: %w", b, errs.InvalidState)
		}
		codeVec, err := bitvector.Convert(code)
		if err != nil {
			return 0, err
		}
		// FULL mode relies on Convert having compacted codeVec's capacity
		// down to its cursor, so capacity_bits equals the code's length.
		if err := body.AppendVector(codeVec, bitvector.Full); err != nil {
			return 0, err
		}
	}
	return artifact.WriteBitBody(w, offset, body)
}

func encodeTextBody(w io.WriterAt, offset uint64, data []byte, table map[byte]string) (uint64, error) {
	var buf []byte
	for _, b := range data {
		code, ok := table[b]
		if !ok {
			return 0, fmt.Errorf("codec: encode: byte %#x missing from code table: %w", b, errs.InvalidState)
		}
		buf = append(buf, code...)
	}
	return artifact.WriteTextBody(w, offset, buf)
}

// Decode reads a tree header and opcode body from r (size bytes total) and
// returns the reconstructed original bytes.
func Decode(r io.ReaderAt, size int64, mode Mode) ([]byte, error) {
	tree, offset, err := huffman.Deserialize(r, 0)
	if err != nil {
		return nil, err
	}

	switch mode {
	case Bit:
		return decodeBitBody(tree, r, offset)
	case Text:
		return decodeTextBody(tree, r, offset, size)
	default:
		return nil, fmt.Errorf("codec: decode: unknown mode %d: %w", mode, errs.InvalidArgument)
	}
}

func decodeBitBody(tree *huffman.Tree, r io.ReaderAt, offset uint64) ([]byte, error) {
	body, _, err := artifact.ReadBitBody(r, offset)
	if err != nil {
		return nil, err
	}

	n := body.GetSize(bitvector.Stream)
	out := make([]byte, 0, n/8)
	current := tree.Root
	for i := uint64(0); i < n; i++ {
		bit, err := body.Check(i)
		if err != nil {
			return nil, err
		}
		var opcode byte
		if bit {
			opcode = 1
		}
		next, emitted, err := tree.StateStep(current, opcode)
		if err != nil {
			return nil, err
		}
		current = next
		if emitted != nil {
			out = append(out, *emitted)
		}
	}
	if current != tree.Root {
		return nil, fmt.Errorf("codec: decode: opcode stream ended mid-symbol: %w", errs.CorruptArtifact)
	}
	return out, nil
}

func decodeTextBody(tree *huffman.Tree, r io.ReaderAt, offset uint64, size int64) ([]byte, error) {
	text, err := artifact.ReadTextBody(r, offset, size)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, len(text))
	current := tree.Root
	for _, c := range text {
		var opcode byte
		switch c {
		case '0':
			opcode = 0
		case '1':
			opcode = 1
		default:
			return nil, fmt.Errorf("codec: decode: invalid opcode character %q: %w", c, errs.CorruptArtifact)
		}
		next, emitted, err := tree.StateStep(current, opcode)
		if err != nil {
			return nil, err
		}
		current = next
		if emitted != nil {
			out = append(out, *emitted)
		}
	}
	if current != tree.Root {
		return nil, fmt.Errorf("codec: decode: opcode stream ended mid-symbol: %w", errs.CorruptArtifact)
	}
	return out, nil
}
