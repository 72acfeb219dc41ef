// Package varint implements the variable-length integer used throughout the
// database file: big-endian, 7 bits per byte, high bit set means "more bytes
// follow", at most 9 bytes. The 9th byte carries a full 8 bits.
package varint

// MaxLen is the widest encoding.
const MaxLen = 9

// Decode reads one varint from the front of b and returns the value and the
// number of bytes consumed. It never allocates and never panics.
//
// A count of 0 means b ended before a terminating byte; callers treat that
// as truncated input.
func Decode(b []byte) (int64, int) {
	var v uint64
	for i := 0; i < MaxLen; i++ {
		if i >= len(b) {
			return 0, 0
		}
		c := b[i]
		if i == MaxLen-1 {
			v = v<<8 | uint64(c)
			return int64(v), MaxLen
		}
		v = v<<7 | uint64(c&0x7f)
		if c < 0x80 {
			return int64(v), i + 1
		}
	}
	return int64(v), MaxLen
}

// Len reports how many bytes Put would write for v.
func Len(v uint64) int {
	if v > 1<<56-1 {
		return MaxLen
	}
	n := 1
	for v >>= 7; v > 0; v >>= 7 {
		n++
	}
	return n
}

// Put writes v into dst, which must have room for Len(v) bytes, and returns
// the number of bytes written.
func Put(dst []byte, v uint64) int {
	if v > 1<<56-1 {
		// 9-byte form: last byte takes the low 8 bits
		dst[8] = byte(v)
		v >>= 8
		for i := 7; i >= 0; i-- {
			dst[i] = byte(v&0x7f) | 0x80
			v >>= 7
		}
		return MaxLen
	}

	n := Len(v)
	for i := n - 1; i >= 0; i-- {
		c := byte(v & 0x7f)
		if i != n-1 {
			c |= 0x80
		}
		dst[i] = c
		v >>= 7
	}
	return n
}

// Append encodes v and appends it to dst.
func Append(dst []byte, v uint64) []byte {
	var buf [MaxLen]byte
	n := Put(buf[:], v)
	return append(dst, buf[:n]...)
}
