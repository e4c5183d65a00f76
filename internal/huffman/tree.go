package huffman

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/kelbwah/huffmin/internal/errs"
)

// Tree owns a root node and tracks whether Parse has run since the last
// structural mutation. count is only reliable after a parse pass, and
// Serialize requires parsed to be true.
type Tree struct {
	Root   *Node
	Table  map[byte]string
	parsed bool
	count  int
}

// Build runs the frequency accumulation and repeated-merge passes described
// in the encoder pipeline: stream the input through add_or_increment, then
// repeatedly extract the two least-frequent nodes and fold them into a new
// internal node until one node remains, which becomes the tree's root.
//
// A single distinct input byte is the degenerate case: the frequency list
// never accumulates a second entry, so the loop never runs and the lone
// leaf becomes the root directly. Parse resolves the resulting empty code
// string (see Parse's doc comment).
func Build(data []byte) (*Tree, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("huffman: build: empty input: %w", errs.InvalidArgument)
	}

	fl := newFreqList()
	for _, b := range data {
		fl.addOrIncrement(b, 0)
	}

	for fl.Count() >= 2 {
		x, y, err := fl.getTwoMin()
		if err != nil {
			return nil, err
		}
		parent := newInternal(x.Frequency + y.Frequency)
		fl.insertInternal(parent)
		connect(parent, x, y)
	}

	t := &Tree{Root: fl.head.node}
	return t, nil
}

// Parse walks the tree depth-first in pre-order, appending '0' when
// descending left and '1' when descending right, and records each leaf's
// accumulated opcode string in the returned code table. It also recomputes
// count and sets parsed to true.
//
// Degenerate case: a tree consisting of a single leaf (one distinct input
// byte) would naturally produce an empty opcode string for that leaf, since
// no descent ever happens. Per the fixed-bit resolution of that case, Parse
// instead assigns it the one-bit code "0" — state_step on a single-leaf
// tree re-emits the root's symbol on every step regardless of opcode value,
// so any single bit per occurrence round-trips.
func (t *Tree) Parse() (map[byte]string, error) {
	if t.Root == nil {
		return nil, fmt.Errorf("huffman: parse: empty tree: %w", errs.InvalidState)
	}

	table := make(map[byte]string)
	count := 0

	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		count++
		if n.IsLeaf {
			code := prefix
			if code == "" {
				code = "0"
			}
			table[n.Symbol] = code
			return
		}
		walk(n.Left, prefix+"0")
		walk(n.Right, prefix+"1")
	}
	walk(t.Root, "")

	t.Table = table
	t.count = count
	t.parsed = true
	return table, nil
}

// StateStep descends once from current following opcode (0 left, 1 right).
// If the child reached is a leaf, it returns the root as the next node
// (the stream restarts) along with the emitted symbol. Otherwise it returns
// the descended-to child and no symbol.
//
// A single-leaf tree (current == root == a leaf) is the degenerate case:
// there is nothing to descend into, so every call re-emits the root's
// symbol and returns the root again, regardless of opcode.
func (t *Tree) StateStep(current *Node, opcode byte) (*Node, *byte, error) {
	if current == nil {
		return nil, nil, fmt.Errorf("huffman: stateStep: nil current node: %w", errs.InvalidState)
	}
	if current == t.Root && current.IsLeaf {
		sym := current.Symbol
		return current, &sym, nil
	}

	var child *Node
	switch opcode {
	case 0:
		child = current.Left
	case 1:
		child = current.Right
	default:
		return nil, nil, fmt.Errorf("huffman: stateStep: invalid opcode %d: %w", opcode, errs.InvalidArgument)
	}
	if child == nil {
		return nil, nil, fmt.Errorf("huffman: stateStep: missing child: %w", errs.CorruptArtifact)
	}
	if child.IsLeaf {
		sym := child.Symbol
		return t.Root, &sym, nil
	}
	return child, nil, nil
}

// Serialize writes count as a little-endian u64, then the pre-order
// sequence of (symbol, is_leaf) byte pairs, to w starting at offset. It
// requires a prior Parse.
func (t *Tree) Serialize(w io.WriterAt, offset uint64) (uint64, error) {
	if !t.parsed {
		return 0, fmt.Errorf("huffman: serialize: tree not parsed: %w", errs.InvalidState)
	}
	if t.count == 0 {
		return 0, fmt.Errorf("huffman: serialize: empty tree: %w", errs.InvalidState)
	}

	header := make([]byte, 8)
	binary.LittleEndian.PutUint64(header, uint64(t.count))
	if _, err := w.WriteAt(header, int64(offset)); err != nil {
		return 0, fmt.Errorf("huffman: serialize: write header: %w", errs.IO)
	}

	buf := make([]byte, 2*t.count)
	idx := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		buf[idx*2] = n.Symbol
		if n.IsLeaf {
			buf[idx*2+1] = 1
		}
		idx++
		if !n.IsLeaf {
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(t.Root)

	if _, err := w.WriteAt(buf, int64(offset+8)); err != nil {
		return 0, fmt.Errorf("huffman: serialize: write nodes: %w", errs.IO)
	}
	return offset + 8 + uint64(len(buf)), nil
}

// Deserialize is the inverse of Serialize: it reads count, then
// reconstructs the tree from its flat pre-order encoding. The root is node
// index 0; a non-leaf node at index k has its left child at k+1 and its
// right child at leftSubtreeLastIndex+1, where leftSubtreeLastIndex is the
// index returned by reconstructing the left subtree (a leaf's
// reconstruction returns its own index). This invariant holds only because
// every internal node has exactly two children in the serialized stream.
//
// Leaves get Frequency defaulting to 1; frequencies are not serialized
// because they are not needed for decoding. Deserialize also runs Parse on
// the reconstructed tree, so the returned Tree is immediately ready for
// further Serialize calls or for StateStep-driven decoding.
func Deserialize(r io.ReaderAt, offset uint64) (*Tree, uint64, error) {
	header := make([]byte, 8)
	if _, err := r.ReadAt(header, int64(offset)); err != nil {
		return nil, 0, fmt.Errorf("huffman: deserialize: read count: %w", errs.CorruptArtifact)
	}
	count := binary.LittleEndian.Uint64(header)
	if count == 0 {
		return nil, 0, fmt.Errorf("huffman: deserialize: zero node count: %w", errs.CorruptArtifact)
	}

	buf := make([]byte, 2*count)
	if _, err := r.ReadAt(buf, int64(offset+8)); err != nil {
		return nil, 0, fmt.Errorf("huffman: deserialize: read nodes: %w", errs.CorruptArtifact)
	}

	var build func(k uint64) (*Node, uint64, error)
	build = func(k uint64) (*Node, uint64, error) {
		if k >= count {
			return nil, 0, fmt.Errorf("huffman: deserialize: pre-order index %d past count %d: %w", k, count, errs.CorruptArtifact)
		}
		symbol := buf[k*2]
		isLeaf := buf[k*2+1] != 0
		if isLeaf {
			return newLeaf(symbol, 1), k, nil
		}

		node := newInternal(0)
		left, leftLast, err := build(k + 1)
		if err != nil {
			return nil, 0, err
		}
		right, rightLast, err := build(leftLast + 1)
		if err != nil {
			return nil, 0, err
		}
		node.Left, node.Right = left, right
		return node, rightLast, nil
	}

	root, lastIdx, err := build(0)
	if err != nil {
		return nil, 0, err
	}
	if lastIdx != count-1 {
		return nil, 0, fmt.Errorf("huffman: deserialize: pre-order stream left %d unconsumed nodes: %w", count-1-lastIdx, errs.CorruptArtifact)
	}

	t := &Tree{Root: root}
	if _, err := t.Parse(); err != nil {
		return nil, 0, err
	}
	return t, offset + 8 + 2*count, nil
}
