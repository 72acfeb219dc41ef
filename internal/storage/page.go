package storage

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuannm99/litescan/internal/alias/bx"
	"github.com/tuannm99/litescan/internal/dberr"
)

// Page is a decoded b-tree page. It is never modified after decoding and
// may be shared between readers.
//
//	raw page  +------------------+ 0
//	          | file header      | page 1 only (100 bytes)
//	local     +------------------+ 0 (page-local frame)
//	          | page header      |
//	          | cell pointers    |
//	          | ...              |
//	          | cell content     | <- CellContentOffset
//	          +------------------+ usable size
//	          | reserved         |
//	          +------------------+ page size
//
// Pointers and column offsets are expressed in the page-local frame.
type Page struct {
	Num      uint32
	Header   PageHeader
	Pointers []uint16
	Cells    []Cell

	// Skipped lists cells left out by DecodePageLenient.
	Skipped []SkippedCell

	local []byte
	shift int // bytes of raw page before the local frame
}

// SkippedCell records a cell that failed to decode under the lenient policy.
type SkippedCell struct {
	Index   int
	Pointer uint16
	Err     error
}

// Local returns the page-local bytes the page was decoded from.
func (p *Page) Local() []byte { return p.local }

// RawOffset converts a page-local offset, such as a pointer or a column
// offset, to its position in the raw page read from the file. The two differ
// by the file header on page 1 only.
func (p *Page) RawOffset(off int) int { return off + p.shift }

// IsLeaf reports whether the page holds records rather than child pointers.
func (p *Page) IsLeaf() bool { return !p.Header.Type.IsInterior() }

// DecodePage decodes a raw page read from the file. Any bad cell fails the
// whole page, so CellCount == len(Pointers) == len(Cells) on success.
func DecodePage(raw []byte, pageNum uint32, usable int) (*Page, error) {
	return decodePage(raw, pageNum, usable, false)
}

// DecodePageLenient decodes what it can. Cells that fail are recorded in
// Skipped and left out of Cells. Header and pointer array errors still fail.
func DecodePageLenient(raw []byte, pageNum uint32, usable int) (*Page, error) {
	return decodePage(raw, pageNum, usable, true)
}

func decodePage(raw []byte, pageNum uint32, usable int, lenient bool) (*Page, error) {
	if usable <= 0 {
		return nil, fmt.Errorf("%w: page %d usable size %d", dberr.ErrCorrupt, pageNum, usable)
	}
	if usable > len(raw) {
		usable = len(raw)
	}
	local := raw[:usable]
	shift := 0
	if pageNum == 1 {
		if len(local) < Page1Shift {
			return nil, fmt.Errorf("%w: page 1 shorter than the file header", dberr.ErrTruncated)
		}
		local = local[Page1Shift:]
		shift = Page1Shift
	}

	hdr, err := DecodePageHeader(local, pageNum)
	if err != nil {
		return nil, err
	}

	ptrStart := hdr.Size()
	ptrEnd := ptrStart + int(hdr.CellCount)*2
	if ptrEnd > len(local) {
		return nil, fmt.Errorf("%w: page %d pointer array of %d cells ends at %d, page has %d bytes",
			dberr.ErrTruncated, pageNum, hdr.CellCount, ptrEnd, len(local))
	}

	p := &Page{
		Num:      pageNum,
		Header:   hdr,
		Pointers: make([]uint16, 0, hdr.CellCount),
		Cells:    make([]Cell, 0, hdr.CellCount),
		local:    local,
		shift:    shift,
	}

	for i := 0; i < int(hdr.CellCount); i++ {
		ptr := int(bx.U16At(local, ptrStart+i*2))
		off := ptr - shift
		if off < ptrEnd || off >= len(local) {
			return nil, fmt.Errorf("%w: page %d cell %d pointer %d outside content area [%d,%d)",
				dberr.ErrTruncated, pageNum, i, ptr, ptrEnd+shift, len(local)+shift)
		}
		p.Pointers = append(p.Pointers, uint16(off))

		c, err := DecodeCell(hdr.Type, local[off:], off, usable)
		if err != nil {
			var oe *OverflowError
			if errors.As(err, &oe) {
				oe.PageNum, oe.CellIndex = pageNum, i
			}
			if !lenient {
				return nil, fmt.Errorf("page %d cell %d: %w", pageNum, i, err)
			}
			slog.Debug("storage: skipping cell", "page", pageNum, "cell", i, "err", err)
			p.Skipped = append(p.Skipped, SkippedCell{Index: i, Pointer: uint16(off), Err: err})
			continue
		}
		p.Cells = append(p.Cells, c)
	}

	return p, nil
}
