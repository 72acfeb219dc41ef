package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/litescan/internal/dberr"
	"github.com/tuannm99/litescan/internal/testdb"
)

func TestDecodeFileHeader(t *testing.T) {
	buf := make([]byte, FileHeaderSize)
	testdb.FileHeader(buf, 4096, 4)
	buf[offReservedBytes] = 8

	h, err := DecodeFileHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(4096), h.PageSize)
	assert.Equal(t, uint32(4), h.PageCount)
	assert.Equal(t, 4096, h.Size())
	assert.Equal(t, 4088, h.UsableSize())
	assert.Equal(t, uint32(1), h.TextEncoding)
	assert.Equal(t, uint32(4), h.SchemaFormat)

	testdb.FileHeader(buf, 65536, 1)
	h, err = DecodeFileHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint16(1), h.PageSize)
	assert.Equal(t, 65536, h.Size())

	_, err = DecodeFileHeader(buf[:99])
	require.ErrorIs(t, err, dberr.ErrTruncated)
}

func TestDecodeFileHeader_BadGeometry(t *testing.T) {
	cases := []struct {
		name     string
		pageSize uint16
		reserved byte
	}{
		{"zero page size", 0, 0},
		{"not a power of two", 1000, 0},
		{"below minimum", 256, 0},
		{"reserved exceeds page", 512, 255},
		{"usable below minimum", 512, 33},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, FileHeaderSize)
			testdb.FileHeader(buf, 4096, 1)
			buf[offPageSize] = byte(tc.pageSize >> 8)
			buf[offPageSize+1] = byte(tc.pageSize)
			buf[offReservedBytes] = tc.reserved

			_, err := DecodeFileHeader(buf)
			require.ErrorIs(t, err, dberr.ErrCorrupt)
		})
	}

	// 32 reserved bytes on a 512-byte page is the smallest legal layout
	buf := make([]byte, FileHeaderSize)
	testdb.FileHeader(buf, 512, 1)
	buf[offReservedBytes] = 32
	h, err := DecodeFileHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, MinUsableSize, h.UsableSize())
}

func TestNewPager_CorruptHeaderDoesNotPanic(t *testing.T) {
	// all-zero file: page size 0, page count 0
	_, err := NewPager(bytes.NewReader(make([]byte, 4096)), 4096)
	require.ErrorIs(t, err, dberr.ErrCorrupt)

	img := make([]byte, 4096)
	testdb.FileHeader(img, 512, 1)
	img[offPageSize], img[offPageSize+1] = 0, 200
	img[offReservedBytes] = 255
	_, err = NewPager(bytes.NewReader(img), int64(len(img)))
	require.ErrorIs(t, err, dberr.ErrCorrupt)
	assert.Equal(t, "Corrupt", dberr.KindOf(err))
}

func TestPager_RealFile(t *testing.T) {
	p, err := OpenPager(testdb.Fruits(t))
	require.NoError(t, err)
	defer func() { require.NoError(t, p.Close()) }()

	assert.Equal(t, 4096, p.PageSize())
	assert.Equal(t, uint32(4), p.PageCount())

	page1, err := p.LoadPage(1)
	require.NoError(t, err)
	assert.Equal(t, TableLeaf, page1.Header.Type)
	assert.Len(t, page1.Cells, 3)

	for n := uint32(2); n <= p.PageCount(); n++ {
		pg, err := p.LoadPage(n)
		require.NoError(t, err, "page %d", n)
		assert.Equal(t, TableLeaf, pg.Header.Type)
	}

	_, err = p.ReadPage(0)
	require.ErrorIs(t, err, dberr.ErrCorrupt)
	_, err = p.ReadPage(5)
	require.ErrorIs(t, err, dberr.ErrCorrupt)
}

func TestPager_TruncatedFile(t *testing.T) {
	src, err := os.ReadFile(testdb.Fruits(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "cut.db")
	require.NoError(t, os.WriteFile(path, src[:len(src)-10], 0o644))

	p, err := OpenPager(path)
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	_, err = p.ReadPage(p.PageCount())
	require.ErrorIs(t, err, dberr.ErrTruncated)

	require.NoError(t, os.WriteFile(path, src[:50], 0o644))
	_, err = OpenPager(path)
	require.ErrorIs(t, err, dberr.ErrTruncated)
}

func TestPager_MissingFile(t *testing.T) {
	_, err := OpenPager(filepath.Join(t.TempDir(), "nope.db"))
	require.ErrorIs(t, err, dberr.ErrIO)
	assert.Equal(t, "IoError", dberr.KindOf(err))
}

func TestPager_OverflowTable(t *testing.T) {
	p, err := OpenPager(testdb.Overflow(t))
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	// schema on page 1, the table root on page 2
	_, err = p.LoadPage(2)
	require.ErrorIs(t, err, dberr.ErrOverflow)

	raw, err := p.ReadPage(2)
	require.NoError(t, err)
	pg, err := DecodePageLenient(raw, 2, p.UsableSize())
	require.NoError(t, err)
	assert.Len(t, pg.Cells, 2)
	require.Len(t, pg.Skipped, 1)
	assert.ErrorIs(t, pg.Skipped[0].Err, dberr.ErrOverflow)
}
