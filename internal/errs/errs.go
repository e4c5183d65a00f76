// Package errs defines the sentinel error kinds shared across the codec's
// core packages (bitvector, huffman, codec, artifact). Callers distinguish
// failure modes with errors.Is against these sentinels rather than parsing
// messages.
package errs

import "errors"

var (
	// IO wraps a short read, short write, or open failure.
	IO = errors.New("io error")

	// InvalidArgument covers out-of-range bit indices, invalid opcode
	// values, empty input, and incompatible flag combinations.
	InvalidArgument = errors.New("invalid argument")

	// InvalidState covers serializing an unparsed or empty tree, or
	// stepping from a nil current node.
	InvalidState = errors.New("invalid state")

	// CorruptArtifact covers a deserialize that hits EOF mid-node, a decode
	// that exhausts its opcodes without returning to the root, and a
	// text-mode character outside {'0','1'}.
	CorruptArtifact = errors.New("corrupt artifact")

	// Allocation is the kind for an allocation request that cannot be
	// satisfied. No function in this module returns it; bitvector.New
	// reports a zero capacity as InvalidArgument.
	Allocation = errors.New("allocation failure")
)
