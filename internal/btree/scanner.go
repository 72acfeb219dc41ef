package btree

import "log/slog"

// Scanner is a pull cursor over a table in rowid order. The root page is
// not read until the first call to Next. A Scanner is single-use and not
// safe for concurrent use.
//
//	s := tree.Scan()
//	for s.Next() {
//		row := s.Row()
//	}
//	if err := s.Err(); err != nil { ... }
type Scanner struct {
	tree *Tree

	started bool
	stack   []uint32
	seen    map[uint32]struct{}

	leaf LeafNode
	idx  int

	row Row
	err error
}

func newScanner(t *Tree) *Scanner {
	return &Scanner{tree: t, seen: make(map[uint32]struct{})}
}

// Next advances to the next row. It returns false at the end of the table
// or on the first error, which Err then reports.
func (s *Scanner) Next() bool {
	if s.err != nil {
		return false
	}
	if !s.started {
		s.started = true
		s.stack = append(s.stack, s.tree.Root)
	}

	for {
		if s.leaf.Page != nil && s.idx < s.leaf.NumRows() {
			row, err := s.leaf.RowAt(s.idx)
			if err != nil {
				s.err = err
				return false
			}
			s.idx++
			s.row = row
			return true
		}

		if len(s.stack) == 0 {
			s.leaf = LeafNode{}
			return false
		}
		if err := s.descend(); err != nil {
			s.err = err
			return false
		}
	}
}

// descend pops one page. Interior pages push their children; leaf pages
// become the current leaf.
func (s *Scanner) descend() error {
	n := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	if _, dup := s.seen[n]; dup {
		return errCycle(n)
	}
	s.seen[n] = struct{}{}

	p, err := s.tree.page(n)
	if err != nil {
		return err
	}
	if !p.Header.Type.IsTable() {
		return errNotTable(n, p.Header.Type)
	}

	if p.IsLeaf() {
		for _, sk := range p.Skipped {
			slog.Warn("btree: skipping undecodable row",
				"page", n,
				"cell", sk.Index,
				"err", sk.Err,
			)
		}
		s.leaf, s.idx = LeafNode{Page: p}, 0
		return nil
	}

	children, err := InteriorNode{Page: p}.Children()
	if err != nil {
		return err
	}
	for i := len(children) - 1; i >= 0; i-- {
		s.stack = append(s.stack, children[i])
	}
	return nil
}

// Row returns the row Next advanced to.
func (s *Scanner) Row() Row { return s.row }

func (s *Scanner) Err() error { return s.err }
