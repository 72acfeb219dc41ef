package storage

import (
	"errors"
	"fmt"
	"io"

	"github.com/tuannm99/litescan/internal/alias/bx"
	"github.com/tuannm99/litescan/internal/dberr"
)

// File header offsets
const (
	offPageSize      = 16
	offReservedBytes = 20
	offPageCount     = 28
	offSchemaFormat  = 44
	offTextEncoding  = 56
)

// FileHeader is the 100-byte preamble at the start of the database file.
// Only the fields a reader needs are kept. The magic string is not checked.
type FileHeader struct {
	PageSize      uint16 // 1 means 65536
	ReservedBytes uint8
	PageCount     uint32
	SchemaFormat  uint32
	TextEncoding  uint32 // 1 utf-8, 2 utf-16le, 3 utf-16be
}

// Size is the effective page size in bytes.
func (h FileHeader) Size() int {
	if h.PageSize == 1 {
		return MaxPageSize
	}
	return int(h.PageSize)
}

// UsableSize is the page size minus the reserved tail of every page.
func (h FileHeader) UsableSize() int {
	return h.Size() - int(h.ReservedBytes)
}

func DecodeFileHeader(b []byte) (FileHeader, error) {
	if len(b) < FileHeaderSize {
		return FileHeader{}, fmt.Errorf("%w: file header needs %d bytes, have %d",
			dberr.ErrTruncated, FileHeaderSize, len(b))
	}
	h := FileHeader{
		PageSize:      bx.U16At(b, offPageSize),
		ReservedBytes: b[offReservedBytes],
		PageCount:     bx.U32At(b, offPageCount),
		SchemaFormat:  bx.U32At(b, offSchemaFormat),
		TextEncoding:  bx.U32At(b, offTextEncoding),
	}
	if err := h.validate(); err != nil {
		return FileHeader{}, err
	}
	return h, nil
}

// validate rejects page geometry no reader can slice pages with.
func (h FileHeader) validate() error {
	ps := int(h.PageSize)
	if ps != 1 && (ps < MinPageSize || ps&(ps-1) != 0) {
		return fmt.Errorf("%w: page size %d is not a power of two in [%d, %d]",
			dberr.ErrCorrupt, ps, MinPageSize, MaxPageSize/2)
	}
	if u := h.UsableSize(); u < MinUsableSize {
		return fmt.Errorf("%w: %d reserved bytes leave %d usable bytes of a %d-byte page, need %d",
			dberr.ErrCorrupt, h.ReservedBytes, u, h.Size(), MinUsableSize)
	}
	return nil
}

// ReadFileHeader reads the header from the start of r.
func ReadFileHeader(r io.ReaderAt) (FileHeader, error) {
	buf := make([]byte, FileHeaderSize)
	n, err := readFull(r, buf, 0)
	if err != nil {
		return FileHeader{}, err
	}
	return DecodeFileHeader(buf[:n])
}

// readFull keeps issuing positioned reads until buf is full or the source
// ends. A short source is reported by the returned count, not as an error.
func readFull(r io.ReaderAt, buf []byte, off int64) (int, error) {
	read := 0
	for read < len(buf) {
		n, err := r.ReadAt(buf[read:], off+int64(read))
		read += n
		if errors.Is(err, io.EOF) {
			return read, nil
		}
		if err != nil {
			return read, fmt.Errorf("%w: read at %d: %v", dberr.ErrIO, off+int64(read), err)
		}
		if n == 0 {
			return read, nil
		}
	}
	return read, nil
}
