package btree

import (
	"fmt"

	"github.com/tuannm99/litescan/internal/dberr"
)

func errCycle(page uint32) error {
	return fmt.Errorf("%w: page %d reached twice while walking the tree", dberr.ErrCorrupt, page)
}

func errNotTable(page uint32, typ fmt.Stringer) error {
	return fmt.Errorf("%w: page %d is %s inside a table tree", dberr.ErrCorrupt, page, typ)
}
