// stand for bytes helper
//
// Every multi-byte integer in the database file is big-endian, so the
// helpers here read BE only. The odd widths (24/48 bit) used by record
// columns are sign-extended to the next native width.
package bx

import "encoding/binary"

var BE = binary.BigEndian

// --- BE: read ---
func U16(b []byte) uint16 { return BE.Uint16(b) }
func U32(b []byte) uint32 { return BE.Uint32(b) }
func U64(b []byte) uint64 { return BE.Uint64(b) }
func I16(b []byte) int16  { return int16(U16(b)) }
func I32(b []byte) int32  { return int32(U32(b)) }
func I64(b []byte) int64  { return int64(U64(b)) }

// I24 reads a 3-byte two's-complement integer.
func I24(b []byte) int32 {
	_ = b[2]
	v := int32(b[0])<<16 | int32(b[1])<<8 | int32(b[2])
	// shift the sign bit (bit 23) into bit 31 and back
	return v << 8 >> 8
}

// I48 reads a 6-byte two's-complement integer.
func I48(b []byte) int64 {
	_ = b[5]
	v := int64(b[0])<<40 | int64(b[1])<<32 | int64(b[2])<<24 |
		int64(b[3])<<16 | int64(b[4])<<8 | int64(b[5])
	return v << 16 >> 16
}

// --- BE: write ---
func PutU16(b []byte, v uint16) { BE.PutUint16(b, v) }
func PutU32(b []byte, v uint32) { BE.PutUint32(b, v) }
func PutU64(b []byte, v uint64) { BE.PutUint64(b, v) }

// --- BE: At (offset) ---
func U16At(b []byte, off int) uint16       { return U16(b[off:]) }
func U32At(b []byte, off int) uint32       { return U32(b[off:]) }
func U64At(b []byte, off int) uint64       { return U64(b[off:]) }
func PutU16At(b []byte, off int, v uint16) { PutU16(b[off:], v) }
func PutU32At(b []byte, off int, v uint32) { PutU32(b[off:], v) }
