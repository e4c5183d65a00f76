package huffman

import (
	"fmt"

	"github.com/kelbwah/huffmin/internal/errs"
)

// listNode is the frequency list's own link wrapper around a *Node. Keeping
// list linkage separate from the tree's Left/Right fields (rather than one
// record carrying both roles' links) removes the "only one role active at a
// time" hazard: a Node is free to become a tree root the instant it leaves
// the list, with no shared link fields to confuse the two roles.
type listNode struct {
	node *Node
	prev *listNode
	next *listNode
}

// freqList is the ascending-frequency sequence used to drive the merge
// loop: head always holds the minimum frequency, new entries are inserted
// at the head and bubbled rightward, and get_two_min detaches the front
// pair in O(1).
type freqList struct {
	head *listNode
	tail *listNode
	len  int
}

func newFreqList() *freqList {
	return &freqList{}
}

// Count is O(1).
func (l *freqList) Count() int { return l.len }

func (l *freqList) insertAtHead(n *Node) *listNode {
	ln := &listNode{node: n, next: l.head}
	if l.head != nil {
		l.head.prev = ln
	}
	l.head = ln
	if l.tail == nil {
		l.tail = ln
	}
	l.len++
	return ln
}

// bubble moves ln rightward by swapping its payload with its neighbor's
// while its frequency strictly exceeds the neighbor's, so ties are broken
// by insertion order (recent-first, since new nodes enter at the head).
func (l *freqList) bubble(ln *listNode) {
	for ln.next != nil && ln.node.Frequency > ln.next.node.Frequency {
		ln.node, ln.next.node = ln.next.node, ln.node
		ln = ln.next
	}
}

// addOrIncrement finds an existing leaf for symbol and bumps its frequency
// by one, or inserts a fresh leaf (defaulting to frequency 1 when freq==0)
// if none exists yet.
func (l *freqList) addOrIncrement(symbol byte, freq uint64) {
	for cur := l.head; cur != nil; cur = cur.next {
		if cur.node.IsLeaf && cur.node.Symbol == symbol {
			cur.node.Frequency++
			l.bubble(cur)
			return
		}
	}
	f := freq
	if f == 0 {
		f = 1
	}
	ln := l.insertAtHead(newLeaf(symbol, f))
	l.bubble(ln)
}

// insertInternal inserts a freshly built internal node at the head without
// searching — internal nodes are never coalesced, even on a sentinel
// collision.
func (l *freqList) insertInternal(n *Node) {
	ln := l.insertAtHead(n)
	l.bubble(ln)
}

// getTwoMin detaches and returns the first two (least-frequent) nodes,
// leaving the third entry as the new head. It fails when count < 2 — that
// failure is the signal that tree construction is complete.
func (l *freqList) getTwoMin() (*Node, *Node, error) {
	if l.len < 2 {
		return nil, nil, fmt.Errorf("huffman: getTwoMin: fewer than two entries: %w", errs.InvalidArgument)
	}
	first := l.head
	second := first.next
	third := second.next

	l.head = third
	if third != nil {
		third.prev = nil
	} else {
		l.tail = nil
	}
	l.len -= 2
	return first.node, second.node, nil
}
