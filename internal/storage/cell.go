package storage

import (
	"fmt"

	"github.com/tuannm99/litescan/internal/alias/bx"
	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/record"
	"github.com/tuannm99/litescan/internal/varint"
)

// Cell is one entry of a b-tree page. The concrete type follows the page
// type: *LeafTableCell, *InteriorTableCell, *IndexLeafCell or
// *IndexInteriorCell.
type Cell interface {
	PageType() PageType
	cell()
}

// LeafTableCell: varint payload size, varint rowid, record.
type LeafTableCell struct {
	PayloadSize int64
	RowID       int64
	Record      record.Record
}

// InteriorTableCell: u32 left child, varint key. Every rowid in the left
// subtree is <= Key.
type InteriorTableCell struct {
	LeftChild uint32
	Key       int64
}

// IndexLeafCell: varint payload size, record.
type IndexLeafCell struct {
	PayloadSize int64
	Record      record.Record
}

// IndexInteriorCell: u32 left child, varint payload size, record.
type IndexInteriorCell struct {
	LeftChild   uint32
	PayloadSize int64
	Record      record.Record
}

func (*LeafTableCell) PageType() PageType     { return TableLeaf }
func (*InteriorTableCell) PageType() PageType { return TableInterior }
func (*IndexLeafCell) PageType() PageType     { return IndexLeaf }
func (*IndexInteriorCell) PageType() PageType { return IndexInterior }

func (*LeafTableCell) cell()     {}
func (*InteriorTableCell) cell() {}
func (*IndexLeafCell) cell()     {}
func (*IndexInteriorCell) cell() {}

// DecodeCell decodes the cell that starts at b[0]. base is the position of
// b[0] in the page-local buffer and becomes the origin of column offsets.
// usable is the usable page size from the file header.
func DecodeCell(typ PageType, b []byte, base, usable int) (Cell, error) {
	switch typ {
	case TableLeaf:
		return decodeLeafTable(b, base, usable)
	case TableInterior:
		return decodeInteriorTable(b)
	case IndexLeaf:
		return decodeIndexLeaf(b, base, usable)
	case IndexInterior:
		return decodeIndexInterior(b, base, usable)
	default:
		return nil, fmt.Errorf("%w: 0x%02x", dberr.ErrInvalidPageType, uint8(typ))
	}
}

func readVarint(b []byte, pos int, what string) (int64, int, error) {
	v, n := varint.Decode(b[pos:])
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: %s varint at cell offset %d", dberr.ErrTruncated, what, pos)
	}
	return v, pos + n, nil
}

func readChild(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, fmt.Errorf("%w: left child pointer needs 4 bytes, have %d", dberr.ErrTruncated, len(b))
	}
	return bx.U32(b), nil
}

func decodePayload(b []byte, pos int, payloadSize int64, base, usable int, tableLeaf bool) (record.Record, error) {
	payload, err := splitPayload(b[pos:], payloadSize, usable, tableLeaf)
	if err != nil {
		return record.Record{}, err
	}
	return record.Decode(payload, base+pos)
}

func decodeLeafTable(b []byte, base, usable int) (*LeafTableCell, error) {
	size, pos, err := readVarint(b, 0, "payload size")
	if err != nil {
		return nil, err
	}
	rowid, pos, err := readVarint(b, pos, "rowid")
	if err != nil {
		return nil, err
	}
	rec, err := decodePayload(b, pos, size, base, usable, true)
	if err != nil {
		return nil, fmt.Errorf("rowid %d: %w", rowid, err)
	}
	return &LeafTableCell{PayloadSize: size, RowID: rowid, Record: rec}, nil
}

func decodeInteriorTable(b []byte) (*InteriorTableCell, error) {
	child, err := readChild(b)
	if err != nil {
		return nil, err
	}
	key, _, err := readVarint(b, 4, "key")
	if err != nil {
		return nil, err
	}
	return &InteriorTableCell{LeftChild: child, Key: key}, nil
}

func decodeIndexLeaf(b []byte, base, usable int) (*IndexLeafCell, error) {
	size, pos, err := readVarint(b, 0, "payload size")
	if err != nil {
		return nil, err
	}
	rec, err := decodePayload(b, pos, size, base, usable, false)
	if err != nil {
		return nil, err
	}
	return &IndexLeafCell{PayloadSize: size, Record: rec}, nil
}

func decodeIndexInterior(b []byte, base, usable int) (*IndexInteriorCell, error) {
	child, err := readChild(b)
	if err != nil {
		return nil, err
	}
	size, pos, err := readVarint(b, 4, "payload size")
	if err != nil {
		return nil, err
	}
	rec, err := decodePayload(b, pos, size, base, usable, false)
	if err != nil {
		return nil, err
	}
	return &IndexInteriorCell{LeftChild: child, PayloadSize: size, Record: rec}, nil
}
