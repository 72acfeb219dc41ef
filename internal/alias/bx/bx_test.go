package bx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestBigEndianReadWrite verifies the BE helpers round-trip and lay out the
// most-significant byte first, which is how the file format stores integers.
func TestBigEndianReadWrite(t *testing.T) {
	// ---- U16 ----
	{
		b := make([]byte, 2)
		var v uint16 = 0x1234

		PutU16(b, v)
		assert.Equal(t, []byte{0x12, 0x34}, b)
		assert.Equal(t, v, U16(b))
	}

	// ---- U32 ----
	{
		b := make([]byte, 4)
		var v uint32 = 0x01020304

		PutU32(b, v)
		assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, b)
		assert.Equal(t, v, U32(b))
	}

	// ---- U64 ----
	{
		b := make([]byte, 8)
		var v uint64 = 0x0102030405060708

		PutU64(b, v)
		assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, b)
		assert.Equal(t, v, U64(b))
	}
}

// TestBigEndianAt verifies the *At variants used for header fields.
func TestBigEndianAt(t *testing.T) {
	buf := make([]byte, 16)

	PutU16At(buf, 0, 0x0A0B)
	PutU32At(buf, 2, 0x01020304)

	assert.Equal(t, uint16(0x0A0B), U16At(buf, 0))
	assert.Equal(t, uint32(0x01020304), U32At(buf, 2))
	assert.Equal(t, uint64(0x0102030400000000), U64At(buf, 2))
}

func TestIntAliases(t *testing.T) {
	assert.Equal(t, int16(-1), I16([]byte{0xFF, 0xFF}))
	assert.Equal(t, int32(-2), I32([]byte{0xFF, 0xFF, 0xFF, 0xFE}))
	assert.Equal(t, int64(-1), I64([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}))
}

// TestOddWidthSignExtension covers the 24 and 48 bit column widths.
func TestOddWidthSignExtension(t *testing.T) {
	assert.Equal(t, int32(0x7FFFFF), I24([]byte{0x7F, 0xFF, 0xFF}))
	assert.Equal(t, int32(-1), I24([]byte{0xFF, 0xFF, 0xFF}))
	assert.Equal(t, int32(-8388608), I24([]byte{0x80, 0x00, 0x00}))
	assert.Equal(t, int32(258), I24([]byte{0x00, 0x01, 0x02}))

	assert.Equal(t, int64(1), I48([]byte{0, 0, 0, 0, 0, 1}))
	assert.Equal(t, int64(-1), I48([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}))
	assert.Equal(t, int64(-140737488355328), I48([]byte{0x80, 0, 0, 0, 0, 0}))
	assert.Equal(t, int64(140737488355327), I48([]byte{0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}))
}
