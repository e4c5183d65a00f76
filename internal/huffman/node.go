// Package huffman implements the frequency-ordered priority structure and
// the binary tree at the core of the codec: building a tree from byte
// frequencies, walking it into a code table, and serializing/deserializing
// it in pre-order so a decoder can reconstruct parentage from a flat stream.
package huffman

// internalSentinel flags a non-leaf node's Symbol field as carrying no
// meaning. 0xFF is also a legal input byte; IsLeaf, never Symbol alone,
// disambiguates an internal node from a leaf holding 0xFF.
const internalSentinel byte = 0xFF

// Node is a single Huffman tree node: a leaf holding one input byte's
// frequency, or an internal node whose frequency is the sum of its two
// children's. Leaves never have children; internal nodes always have both.
type Node struct {
	Symbol    byte
	IsLeaf    bool
	Frequency uint64
	Left      *Node
	Right     *Node
}

func newLeaf(symbol byte, freq uint64) *Node {
	return &Node{Symbol: symbol, Frequency: freq, IsLeaf: true}
}

func newInternal(freq uint64) *Node {
	return &Node{Symbol: internalSentinel, Frequency: freq, IsLeaf: false}
}

// connect attaches a and b as children of parent, which must be non-leaf.
// Canonical ordering rule: if b is a leaf, a goes left and b goes right;
// otherwise b goes left and a goes right. The rule is cosmetic but must be
// preserved because the serialized pre-order form depends on it.
func connect(parent, a, b *Node) {
	if b.IsLeaf {
		parent.Left, parent.Right = a, b
	} else {
		parent.Left, parent.Right = b, a
	}
}
