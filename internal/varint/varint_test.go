package varint

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_SingleAndMultiByte(t *testing.T) {
	cases := []struct {
		in   []byte
		want int64
		n    int
	}{
		{[]byte{0x00}, 0, 1},
		{[]byte{0x7f}, 127, 1},
		{[]byte{0x81, 0x00}, 128, 2},
		{[]byte{0x81, 0x7f}, 255, 2},
		{[]byte{0xff, 0x7f}, 0x3fff, 2},
		{[]byte{0x81, 0x80, 0x00}, 1 << 14, 3},
		// trailing bytes are not consumed
		{[]byte{0x05, 0xff, 0xff}, 5, 1},
	}
	for _, tc := range cases {
		v, n := Decode(tc.in)
		assert.Equal(t, tc.want, v, "input % x", tc.in)
		assert.Equal(t, tc.n, n, "input % x", tc.in)
	}
}

// The 9th byte contributes all 8 bits and terminates even with its high bit set.
func TestDecode_NinthByteUsesAllBits(t *testing.T) {
	in := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	v, n := Decode(in)
	require.Equal(t, 9, n)
	assert.Equal(t, int64(-1), v)

	in = []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	v, n = Decode(in)
	require.Equal(t, 9, n)
	assert.Equal(t, int64(0x80), v)

	in = []byte{0x81, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	v, n = Decode(in)
	require.Equal(t, 9, n)
	assert.Equal(t, int64(1<<57|1), v)
}

func TestDecode_Incomplete(t *testing.T) {
	_, n := Decode(nil)
	assert.Equal(t, 0, n)

	_, n = Decode([]byte{0x81})
	assert.Equal(t, 0, n)

	_, n = Decode([]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff})
	assert.Equal(t, 0, n)
}

func TestRoundTrip_Below2Pow56(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 240, 2287, 2288, 67823, 1<<21 - 1, 1 << 21, 1<<28 + 7, 1<<35 - 1, 1 << 49, 1<<56 - 1}
	r := rand.New(rand.NewSource(42))
	for range 2000 {
		values = append(values, uint64(r.Int63n(1<<56)))
	}

	for _, v := range values {
		enc := Append(nil, v)
		require.Len(t, enc, Len(v))
		require.LessOrEqual(t, len(enc), MaxLen)

		got, n := Decode(enc)
		require.Equal(t, int64(v), got, "value %d", v)
		require.Equal(t, len(enc), n, "value %d", v)
	}
}

func TestRoundTrip_NineByteForm(t *testing.T) {
	for _, v := range []uint64{1 << 56, 1<<63 + 12345, math.MaxUint64} {
		enc := Append(nil, v)
		require.Len(t, enc, MaxLen)

		got, n := Decode(enc)
		assert.Equal(t, MaxLen, n)
		assert.Equal(t, v, uint64(got))
	}
}

func TestLen(t *testing.T) {
	assert.Equal(t, 1, Len(0))
	assert.Equal(t, 1, Len(127))
	assert.Equal(t, 2, Len(128))
	assert.Equal(t, 8, Len(1<<56-1))
	assert.Equal(t, 9, Len(1<<56))
}
