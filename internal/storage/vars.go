package storage

import "fmt"

const (
	FileHeaderSize = 100

	MinPageSize = 512
	MaxPageSize = 65536
	// MinUsableSize is the smallest page size minus reserved bytes a valid
	// file can declare.
	MinUsableSize = 480

	LeafHeaderSize     = 8
	InteriorHeaderSize = 12

	// page 1 shares its buffer with the file header
	Page1Shift = FileHeaderSize
)

// PageType is the first byte of every b-tree page header.
type PageType uint8

const (
	IndexInterior PageType = 0x02
	TableInterior PageType = 0x05
	IndexLeaf     PageType = 0x0a
	TableLeaf     PageType = 0x0d
)

func (t PageType) String() string {
	switch t {
	case IndexInterior:
		return "index-interior"
	case TableInterior:
		return "table-interior"
	case IndexLeaf:
		return "index-leaf"
	case TableLeaf:
		return "table-leaf"
	default:
		return fmt.Sprintf("unknown(0x%02x)", uint8(t))
	}
}

func (t PageType) Valid() bool {
	switch t {
	case IndexInterior, TableInterior, IndexLeaf, TableLeaf:
		return true
	}
	return false
}

func (t PageType) IsInterior() bool { return t == IndexInterior || t == TableInterior }

func (t PageType) IsTable() bool { return t == TableInterior || t == TableLeaf }

// HeaderSize is the b-tree page header length for pages of this type.
func (t PageType) HeaderSize() int {
	if t.IsInterior() {
		return InteriorHeaderSize
	}
	return LeafHeaderSize
}
