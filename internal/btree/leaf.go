package btree

import (
	"fmt"

	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/record"
	"github.com/tuannm99/litescan/internal/storage"
)

// Row is one table record with its rowid.
type Row struct {
	RowID  int64
	Record record.Record
	Page   uint32
}

// LeafNode is a table-leaf page. Cells are sorted by rowid.
type LeafNode struct {
	Page *storage.Page
}

func (n LeafNode) NumRows() int { return len(n.Page.Cells) }

func (n LeafNode) RowAt(i int) (Row, error) {
	c, ok := n.Page.Cells[i].(*storage.LeafTableCell)
	if !ok {
		return Row{}, fmt.Errorf("%w: page %d cell %d is %T", dberr.ErrCorrupt, n.Page.Num, i, n.Page.Cells[i])
	}
	return Row{RowID: c.RowID, Record: c.Record, Page: n.Page.Num}, nil
}

// Find binary-searches the leaf for rowid.
func (n LeafNode) Find(rowid int64) (Row, bool, error) {
	lo, hi := 0, n.NumRows()
	for lo < hi {
		mid := (lo + hi) / 2
		r, err := n.RowAt(mid)
		if err != nil {
			return Row{}, false, err
		}
		switch {
		case r.RowID == rowid:
			return r, true, nil
		case r.RowID < rowid:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return Row{}, false, nil
}
