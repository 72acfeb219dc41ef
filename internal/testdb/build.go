// Package testdb builds database bytes for tests: hand-laid records and
// pages for byte-exact cases, and real files written by modernc.org/sqlite.
package testdb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tuannm99/litescan/internal/varint"
)

// Page type bytes.
const (
	IndexInterior byte = 0x02
	TableInterior byte = 0x05
	IndexLeaf     byte = 0x0a
	TableLeaf     byte = 0x0d
)

// Record encodes values as a record payload. Accepted values: nil, int,
// int64, float64, string, []byte. Integers take the narrowest tag.
func Record(values ...any) []byte {
	var tags, body []byte
	for _, v := range values {
		tag, b := encodeValue(v)
		tags = varint.Append(tags, uint64(tag))
		body = append(body, b...)
	}

	// head_size includes its own varint
	hs := len(tags) + 1
	if varint.Len(uint64(hs)) > 1 {
		hs = len(tags) + varint.Len(uint64(len(tags)+2))
	}
	out := varint.Append(nil, uint64(hs))
	out = append(out, tags...)
	return append(out, body...)
}

func encodeValue(v any) (int64, []byte) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case int:
		return encodeInt(int64(x))
	case int64:
		return encodeInt(x)
	case float64:
		b := make([]byte, 8)
		binary.BigEndian.PutUint64(b, math.Float64bits(x))
		return 7, b
	case string:
		return int64(13 + 2*len(x)), []byte(x)
	case []byte:
		return int64(12 + 2*len(x)), append([]byte(nil), x...)
	default:
		panic(fmt.Sprintf("testdb: unsupported value %T", v))
	}
}

func encodeInt(v int64) (int64, []byte) {
	switch {
	case v == 0:
		return 8, nil
	case v == 1:
		return 9, nil
	case v >= math.MinInt8 && v <= math.MaxInt8:
		return 1, []byte{byte(v)}
	case v >= math.MinInt16 && v <= math.MaxInt16:
		return 2, beBytes(v, 2)
	case v >= -1<<23 && v < 1<<23:
		return 3, beBytes(v, 3)
	case v >= math.MinInt32 && v <= math.MaxInt32:
		return 4, beBytes(v, 4)
	case v >= -1<<47 && v < 1<<47:
		return 5, beBytes(v, 6)
	default:
		return 6, beBytes(v, 8)
	}
}

func beBytes(v int64, n int) []byte {
	b := make([]byte, n)
	for i := n - 1; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
	return b
}

// LeafTableCell lays out a table leaf cell around an encoded record.
func LeafTableCell(rowid int64, rec []byte) []byte {
	out := varint.Append(nil, uint64(len(rec)))
	out = varint.Append(out, uint64(rowid))
	return append(out, rec...)
}

// InteriorTableCell lays out a table interior cell.
func InteriorTableCell(child uint32, key int64) []byte {
	out := binary.BigEndian.AppendUint32(nil, child)
	return varint.Append(out, uint64(key))
}

// IndexLeafCell lays out an index leaf cell.
func IndexLeafCell(rec []byte) []byte {
	out := varint.Append(nil, uint64(len(rec)))
	return append(out, rec...)
}

// IndexInteriorCell lays out an index interior cell.
func IndexInteriorCell(child uint32, rec []byte) []byte {
	out := binary.BigEndian.AppendUint32(nil, child)
	out = varint.Append(out, uint64(len(rec)))
	return append(out, rec...)
}

// PageSpec describes one b-tree page for BuildPage.
type PageSpec struct {
	Size      int
	Type      byte
	Rightmost uint32
	Cells     [][]byte
	// First makes this page 1: the b-tree header starts after a 100-byte
	// file header and pointers are counted from the raw page start.
	First bool
}

// BuildPage lays out cells from the end of the page toward the header,
// the way the file format stores them.
func BuildPage(s PageSpec) []byte {
	buf := make([]byte, s.Size)
	hdr := 0
	if s.First {
		hdr = 100
	}

	interior := s.Type == TableInterior || s.Type == IndexInterior
	hsize := 8
	if interior {
		hsize = 12
	}

	content := s.Size
	ptrs := make([]uint16, len(s.Cells))
	for i, c := range s.Cells {
		content -= len(c)
		copy(buf[content:], c)
		ptrs[i] = uint16(content)
	}
	if hdr+hsize+2*len(s.Cells) > content {
		panic("testdb: cells do not fit on page")
	}

	buf[hdr] = s.Type
	binary.BigEndian.PutUint16(buf[hdr+3:], uint16(len(s.Cells)))
	// 65536 is stored as 0
	binary.BigEndian.PutUint16(buf[hdr+5:], uint16(content))
	if interior {
		binary.BigEndian.PutUint32(buf[hdr+8:], s.Rightmost)
	}
	for i, p := range ptrs {
		binary.BigEndian.PutUint16(buf[hdr+hsize+2*i:], p)
	}
	return buf
}

// FileHeader writes the fields a reader consults into the first 100 bytes
// of page1, which must already be laid out with First set.
func FileHeader(page1 []byte, pageSize int, pageCount uint32) {
	copy(page1, "SQLite format 3\x00")
	ps := uint16(pageSize)
	if pageSize == 65536 {
		ps = 1
	}
	binary.BigEndian.PutUint16(page1[16:], ps)
	page1[18], page1[19] = 1, 1
	page1[21], page1[22], page1[23] = 64, 32, 32
	binary.BigEndian.PutUint32(page1[28:], pageCount)
	binary.BigEndian.PutUint32(page1[44:], 4)
	binary.BigEndian.PutUint32(page1[56:], 1)
}

// File concatenates pages into a database image and stamps the header.
func File(pageSize int, pages ...[]byte) []byte {
	out := make([]byte, 0, pageSize*len(pages))
	for _, p := range pages {
		if len(p) != pageSize {
			panic(fmt.Sprintf("testdb: page of %d bytes, want %d", len(p), pageSize))
		}
		out = append(out, p...)
	}
	FileHeader(out[:pageSize], pageSize, uint32(len(pages)))
	return out
}
