package record

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/tuannm99/litescan/internal/alias/bx"
	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/varint"
)

// Record layout:
//
//	+-----------------------------+ 0
//	| varint head_size            |
//	| varint tag[0] .. tag[n-1]   |
//	+-----------------------------+ head_size
//	| value[0] .. value[n-1]      |  widths derived from the tags
//	+-----------------------------+
type Record struct {
	Columns []Column
}

// Column is one decoded value. Offset is the position of the value bytes
// inside the buffer the record was cut from, shifted by the base passed to
// Decode. Records decoded from pages use the page-local frame, which on
// page 1 starts after the 100-byte file header; storage.Page.RawOffset maps
// it back to the raw page.
//
// Value holds nil for Null, int8/int16/int32/int64 for the integer widths
// (I24 widens to int32, I48 to int64), int64 for Zero and One, float64,
// string, or an owned []byte.
type Column struct {
	Offset int
	Tag    int64
	Type   SerialType
	Value  any
}

func (r Record) Len() int { return len(r.Columns) }

// Column returns the i-th column, or false when the record is shorter.
// Rows written before an ALTER TABLE ADD COLUMN are legitimately short.
func (r Record) Column(i int) (Column, bool) {
	if i < 0 || i >= len(r.Columns) {
		return Column{}, false
	}
	return r.Columns[i], true
}

// Values returns the column values in declaration order.
func (r Record) Values() []any {
	out := make([]any, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Value
	}
	return out
}

// Decode decodes a record from the in-page portion of a cell payload.
// base is the offset of payload[0] within its page buffer.
func Decode(payload []byte, base int) (Record, error) {
	headSize, n := varint.Decode(payload)
	if n == 0 {
		return Record{}, fmt.Errorf("%w: record header size at offset %d", dberr.ErrTruncated, base)
	}
	if headSize < int64(n) {
		return Record{}, fmt.Errorf("%w: header size %d shorter than its own varint", dberr.ErrInvalidSerialType, headSize)
	}
	if headSize > int64(len(payload)) {
		return Record{}, fmt.Errorf("%w: header size %d exceeds payload of %d bytes", dberr.ErrTruncated, headSize, len(payload))
	}

	hdrEnd := int(headSize)
	cols := make([]Column, 0, hdrEnd-n)

	tagPos, valPos := n, hdrEnd
	for tagPos < hdrEnd {
		tag, m := varint.Decode(payload[tagPos:hdrEnd])
		if m == 0 {
			return Record{}, fmt.Errorf("%w: tag at %d crosses header end %d", dberr.ErrInvalidSerialType, tagPos, hdrEnd)
		}
		tagPos += m

		st, width, err := TypeOf(tag)
		if err != nil {
			return Record{}, fmt.Errorf("column %d: %w", len(cols), err)
		}
		if width > len(payload)-valPos {
			return Record{}, fmt.Errorf("%w: column %d (%s) needs %d bytes at %d, payload has %d",
				dberr.ErrTruncated, len(cols), st, width, valPos, len(payload))
		}

		v, err := decodeValue(st, payload[valPos:valPos+width])
		if err != nil {
			return Record{}, fmt.Errorf("column %d at offset %d: %w", len(cols), base+valPos, err)
		}

		cols = append(cols, Column{
			Offset: base + valPos,
			Tag:    tag,
			Type:   st,
			Value:  v,
		})
		valPos += width
	}

	return Record{Columns: cols}, nil
}

func decodeValue(st SerialType, b []byte) (any, error) {
	switch st {
	case Null:
		return nil, nil
	case I8:
		return int8(b[0]), nil
	case I16:
		return bx.I16(b), nil
	case I24:
		return bx.I24(b), nil
	case I32:
		return bx.I32(b), nil
	case I48:
		return bx.I48(b), nil
	case I64:
		return bx.I64(b), nil
	case Float64:
		return math.Float64frombits(bx.U64(b)), nil
	case Zero:
		return int64(0), nil
	case One:
		return int64(1), nil
	case String:
		if !utf8.Valid(b) {
			return nil, fmt.Errorf("%w: %d bytes", dberr.ErrUTF8, len(b))
		}
		return string(b), nil
	case Blob:
		// copy so the value does not pin the page buffer
		cp := make([]byte, len(b))
		copy(cp, b)
		return cp, nil
	default:
		return nil, fmt.Errorf("%w: %s", dberr.ErrInvalidSerialType, st)
	}
}

// ---- typed accessors ----

func (c Column) IsNull() bool { return c.Type == Null }

// Int returns the value widened to int64 for any integer type.
func (c Column) Int() (int64, bool) {
	switch v := c.Value.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func (c Column) Float() (float64, bool) {
	if f, ok := c.Value.(float64); ok {
		return f, true
	}
	if i, ok := c.Int(); ok {
		return float64(i), true
	}
	return 0, false
}

func (c Column) Text() (string, bool) {
	s, ok := c.Value.(string)
	return s, ok
}

func (c Column) Bytes() ([]byte, bool) {
	b, ok := c.Value.([]byte)
	return b, ok
}

// String renders the value the way the CLI prints it.
func (c Column) String() string {
	switch v := c.Value.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return fmt.Sprintf("x'%x'", v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	if i, ok := c.Int(); ok {
		return strconv.FormatInt(i, 10)
	}
	return fmt.Sprint(c.Value)
}
