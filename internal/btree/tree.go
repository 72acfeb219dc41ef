package btree

import (
	"log/slog"

	"github.com/tuannm99/litescan/internal/bufferpool"
	"github.com/tuannm99/litescan/internal/storage"
)

// Tree is a read-only handle on one table b-tree rooted at Root.
type Tree struct {
	BP   bufferpool.Manager
	Root uint32
}

func NewTree(bp bufferpool.Manager, root uint32) *Tree {
	return &Tree{BP: bp, Root: root}
}

// page fetches a decoded page. Pages are immutable, so the pin is released
// before returning.
func (t *Tree) page(n uint32) (*storage.Page, error) {
	p, err := t.BP.GetPage(n)
	if err != nil {
		return nil, err
	}
	t.BP.Unpin(n)
	return p, nil
}

// Scan returns a cursor over the table in rowid order.
func (t *Tree) Scan() *Scanner {
	return newScanner(t)
}

// Walk calls fn for every row in rowid order and stops at the first error.
func (t *Tree) Walk(fn func(Row) error) error {
	s := t.Scan()
	for s.Next() {
		if err := fn(s.Row()); err != nil {
			return err
		}
	}
	return s.Err()
}

// Count returns the number of rows without materializing them.
func (t *Tree) Count() (int, error) {
	n := 0
	err := t.walkPages(func(p *storage.Page) error {
		if p.IsLeaf() {
			n += len(p.Cells)
		}
		return nil
	})
	return n, err
}

// walkPages visits every page of the tree depth-first, children in order.
func (t *Tree) walkPages(fn func(*storage.Page) error) error {
	stack := []uint32{t.Root}
	seen := make(map[uint32]struct{})

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, dup := seen[n]; dup {
			return errCycle(n)
		}
		seen[n] = struct{}{}

		p, err := t.page(n)
		if err != nil {
			return err
		}
		if !p.Header.Type.IsTable() {
			return errNotTable(n, p.Header.Type)
		}
		if err := fn(p); err != nil {
			return err
		}
		if p.IsLeaf() {
			continue
		}

		children, err := InteriorNode{Page: p}.Children()
		if err != nil {
			return err
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}

// Find descends from the root along interior keys to the leaf that may hold
// rowid.
func (t *Tree) Find(rowid int64) (Row, bool, error) {
	n := t.Root
	seen := make(map[uint32]struct{})
	for {
		if _, dup := seen[n]; dup {
			return Row{}, false, errCycle(n)
		}
		seen[n] = struct{}{}

		p, err := t.page(n)
		if err != nil {
			return Row{}, false, err
		}
		if !p.Header.Type.IsTable() {
			return Row{}, false, errNotTable(n, p.Header.Type)
		}
		if p.IsLeaf() {
			return LeafNode{Page: p}.Find(rowid)
		}

		next, err := InteriorNode{Page: p}.ChildFor(rowid)
		if err != nil {
			return Row{}, false, err
		}
		slog.Debug("btree.Find: descend", "page", n, "rowid", rowid, "child", next)
		n = next
	}
}
