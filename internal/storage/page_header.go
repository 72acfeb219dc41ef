package storage

import (
	"fmt"

	"github.com/tuannm99/litescan/internal/alias/bx"
	"github.com/tuannm99/litescan/internal/dberr"
)

// Page header offsets, relative to the start of the b-tree header.
const (
	offType          = 0
	offFirstFree     = 1
	offCellCount     = 3
	offContentStart  = 5
	offFragmented    = 7
	offRightmostPage = 8
)

//	+------------------------+ 0
//	| type            u8     |
//	| first freeblock u16    |
//	| cell count      u16    |
//	| content start   u16    | 0 means 65536
//	| fragmented      u8     |
//	| right-most ptr  u32    | interior pages only
//	+------------------------+ 8 or 12
//	| cell pointers   u16[]  |
type PageHeader struct {
	Type              PageType
	FirstFreeblock    uint16
	CellCount         uint16
	CellContentOffset uint32
	FragmentedBytes   uint8
	RightmostPointer  uint32
	HasRightmost      bool
}

// Size is the on-disk length of this header.
func (h PageHeader) Size() int { return h.Type.HeaderSize() }

// DecodePageHeader decodes the b-tree header at the start of b. For page 1
// the caller passes the buffer already advanced past the file header, and
// the content offset is reported in that same shifted frame.
func DecodePageHeader(b []byte, pageNum uint32) (PageHeader, error) {
	if len(b) < 1 {
		return PageHeader{}, fmt.Errorf("%w: page %d is empty", dberr.ErrTruncated, pageNum)
	}

	typ := PageType(b[offType])
	if !typ.Valid() {
		return PageHeader{}, fmt.Errorf("%w: page %d has type byte 0x%02x", dberr.ErrInvalidPageType, pageNum, b[offType])
	}
	if len(b) < typ.HeaderSize() {
		return PageHeader{}, fmt.Errorf("%w: page %d header needs %d bytes, have %d",
			dberr.ErrTruncated, pageNum, typ.HeaderSize(), len(b))
	}

	h := PageHeader{
		Type:              typ,
		FirstFreeblock:    bx.U16At(b, offFirstFree),
		CellCount:         bx.U16At(b, offCellCount),
		CellContentOffset: uint32(bx.U16At(b, offContentStart)),
		FragmentedBytes:   b[offFragmented],
	}
	if h.CellContentOffset == 0 {
		h.CellContentOffset = MaxPageSize
	}
	if pageNum == 1 && h.CellContentOffset >= Page1Shift {
		h.CellContentOffset -= Page1Shift
	}
	if typ.IsInterior() {
		h.RightmostPointer = bx.U32At(b, offRightmostPage)
		h.HasRightmost = true
	}
	return h, nil
}
