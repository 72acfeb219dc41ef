package record

import (
	"fmt"

	"github.com/tuannm99/litescan/internal/dberr"
)

// SerialType is the decoded interpretation of a column's type tag.
//
//	tag        width       meaning
//	0          0           NULL
//	1..4       1,2,3,4     big-endian two's-complement integer
//	5          6           48-bit integer
//	6          8           64-bit integer
//	7          8           IEEE 754 float64
//	8, 9       0           the literals 0 and 1
//	10, 11     -           reserved, never valid on disk
//	N>=12 even (N-12)/2    BLOB
//	N>=13 odd  (N-13)/2    TEXT
type SerialType uint8

const (
	Null SerialType = iota
	I8
	I16
	I24
	I32
	I48
	I64
	Float64
	Zero
	One
	String
	Blob
)

func (s SerialType) String() string {
	switch s {
	case Null:
		return "NULL"
	case I8:
		return "I8"
	case I16:
		return "I16"
	case I24:
		return "I24"
	case I32:
		return "I32"
	case I48:
		return "I48"
	case I64:
		return "I64"
	case Float64:
		return "FLOAT64"
	case Zero:
		return "ZERO"
	case One:
		return "ONE"
	case String:
		return "TEXT"
	case Blob:
		return "BLOB"
	default:
		return fmt.Sprintf("SerialType(%d)", uint8(s))
	}
}

// IsInteger reports whether values of this type decode to an integer.
func (s SerialType) IsInteger() bool {
	switch s {
	case I8, I16, I24, I32, I48, I64, Zero, One:
		return true
	}
	return false
}

var fixedWidths = [...]int{
	Null:    0,
	I8:      1,
	I16:     2,
	I24:     3,
	I32:     4,
	I48:     6,
	I64:     8,
	Float64: 8,
	Zero:    0,
	One:     0,
}

// TypeOf maps a tag to its type and the number of value bytes it occupies.
func TypeOf(tag int64) (SerialType, int, error) {
	switch {
	case tag < 0:
		return 0, 0, fmt.Errorf("%w: negative tag %d", dberr.ErrInvalidSerialType, tag)
	case tag <= 9:
		st := SerialType(tag)
		return st, fixedWidths[st], nil
	case tag == 10 || tag == 11:
		return 0, 0, fmt.Errorf("%w: reserved tag %d", dberr.ErrInvalidSerialType, tag)
	case tag%2 == 0:
		return Blob, int((tag - 12) / 2), nil
	default:
		return String, int((tag - 13) / 2), nil
	}
}
