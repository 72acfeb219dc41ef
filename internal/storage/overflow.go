package storage

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/litescan/internal/alias/bx"
	"github.com/tuannm99/litescan/internal/dberr"
)

// OverflowError reports a cell whose payload does not fit on its page.
// Reading the spilled bytes from the overflow chain is not supported; the
// condition is surfaced instead of returning a partial record.
type OverflowError struct {
	PageNum       uint32
	CellIndex     int
	PayloadSize   int64
	LocalSize     int
	FirstOverflow uint32
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: page %d cell %d payload %d bytes, %d on page, chain starts at page %d",
		dberr.ErrOverflow, e.PageNum, e.CellIndex, e.PayloadSize, e.LocalSize, e.FirstOverflow)
}

func (e *OverflowError) Unwrap() error { return dberr.ErrOverflow }

// maxLocal is the largest payload kept entirely on a page (X).
func maxLocal(usable int, tableLeaf bool) int {
	if tableLeaf {
		return usable - 35
	}
	return (usable-12)*64/255 - 23
}

// minLocal is the least payload kept on a page once it spills (M).
func minLocal(usable int) int {
	return (usable-12)*32/255 - 23
}

// LocalPayload returns how many of the payloadSize bytes are stored inside
// the cell itself on a page with the given usable size.
func LocalPayload(payloadSize int64, usable int, tableLeaf bool) int {
	x := maxLocal(usable, tableLeaf)
	if payloadSize <= int64(x) {
		return int(payloadSize)
	}
	m := minLocal(usable)
	k := int64(m) + (payloadSize-int64(m))%int64(usable-4)
	if k <= int64(x) {
		return int(k)
	}
	return m
}

// Spills reports whether a payload of this size needs overflow pages.
func Spills(payloadSize int64, usable int, tableLeaf bool) bool {
	return payloadSize > int64(maxLocal(usable, tableLeaf))
}

// splitPayload cuts the in-page payload out of a cell body that starts at
// rest. It returns an *OverflowError when the payload spills.
func splitPayload(rest []byte, payloadSize int64, usable int, tableLeaf bool) ([]byte, error) {
	if payloadSize < 0 {
		return nil, fmt.Errorf("%w: negative payload size %d", dberr.ErrCorrupt, payloadSize)
	}
	if !Spills(payloadSize, usable, tableLeaf) {
		if int64(len(rest)) < payloadSize {
			return nil, fmt.Errorf("%w: payload of %d bytes, %d left on page", dberr.ErrTruncated, payloadSize, len(rest))
		}
		return rest[:payloadSize], nil
	}

	local := LocalPayload(payloadSize, usable, tableLeaf)
	oe := &OverflowError{PayloadSize: payloadSize, LocalSize: local}
	if len(rest) >= local+4 {
		oe.FirstOverflow = bx.U32At(rest, local)
	}
	slog.Debug("storage: payload spills to overflow",
		"payload", payloadSize,
		"local", local,
		"firstOverflow", oe.FirstOverflow,
	)
	return nil, oe
}
