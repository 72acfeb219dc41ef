package btree

import (
	"fmt"

	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/storage"
)

// InteriorNode is a table-interior page viewed as a routing node.
//
// Semantics:
//
//   - Cells e[0..n-1] hold (left_i, key_i) in ascending key order.
//
//   - Every rowid under left_i is <= key_i and > key_{i-1}.
//
//   - Rowids greater than key_{n-1} live under the right-most pointer.
//
//   - To choose a child for rowid R: the first i with R <= key_i gives
//     left_i, otherwise the right-most pointer.
type InteriorNode struct {
	Page *storage.Page
}

func (n InteriorNode) NumKeys() int { return len(n.Page.Cells) }

// EntryAt returns the i-th (key, left child) pair.
func (n InteriorNode) EntryAt(i int) (int64, uint32, error) {
	c, ok := n.Page.Cells[i].(*storage.InteriorTableCell)
	if !ok {
		return 0, 0, fmt.Errorf("%w: page %d cell %d is %T", dberr.ErrCorrupt, n.Page.Num, i, n.Page.Cells[i])
	}
	return c.Key, c.LeftChild, nil
}

// Children lists child pages in rowid order: every left child, then the
// right-most pointer.
func (n InteriorNode) Children() ([]uint32, error) {
	out := make([]uint32, 0, n.NumKeys()+1)
	for i := 0; i < n.NumKeys(); i++ {
		_, child, err := n.EntryAt(i)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return append(out, n.Page.Header.RightmostPointer), nil
}

// ChildFor picks the subtree that may hold rowid.
func (n InteriorNode) ChildFor(rowid int64) (uint32, error) {
	lo, hi := 0, n.NumKeys()
	for lo < hi {
		mid := (lo + hi) / 2
		key, _, err := n.EntryAt(mid)
		if err != nil {
			return 0, err
		}
		if rowid <= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	if lo == n.NumKeys() {
		return n.Page.Header.RightmostPointer, nil
	}
	_, child, err := n.EntryAt(lo)
	return child, err
}
