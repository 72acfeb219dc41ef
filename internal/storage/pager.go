package storage

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tuannm99/litescan/internal/alias/util"
	"github.com/tuannm99/litescan/internal/dberr"
)

// Pager reads raw pages from a database file with positioned reads, so
// concurrent callers never share a file cursor. It never writes.
type Pager struct {
	r         io.ReaderAt
	closer    io.Closer
	header    FileHeader
	pageCount uint32
}

// OpenPager opens path read-only and parses its file header.
func OpenPager(path string) (*Pager, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open database file: %v", dberr.ErrIO, err)
	}

	info, err := f.Stat()
	if err != nil {
		util.CloseFileFunc(f)
		return nil, fmt.Errorf("%w: stat database file: %v", dberr.ErrIO, err)
	}

	p, err := NewPager(f, info.Size())
	if err != nil {
		util.CloseFileFunc(f)
		return nil, err
	}
	p.closer = f
	return p, nil
}

// NewPager reads the header from r. fileSize is used only when the header
// carries no page count; pass 0 if unknown.
func NewPager(r io.ReaderAt, fileSize int64) (*Pager, error) {
	h, err := ReadFileHeader(r)
	if err != nil {
		return nil, err
	}

	p := &Pager{r: r, header: h, pageCount: h.PageCount}
	if p.pageCount == 0 && fileSize > 0 {
		p.pageCount = uint32(fileSize / int64(h.Size()))
	}

	slog.Debug("pager: opened",
		"pageSize", h.Size(),
		"usable", h.UsableSize(),
		"pageCount", p.pageCount,
	)
	return p, nil
}

func (p *Pager) Header() FileHeader { return p.header }

func (p *Pager) PageSize() int { return p.header.Size() }

func (p *Pager) UsableSize() int { return p.header.UsableSize() }

func (p *Pager) PageCount() uint32 { return p.pageCount }

// ReadPage returns the raw bytes of 1-based page n.
func (p *Pager) ReadPage(n uint32) ([]byte, error) {
	if n == 0 || n > p.pageCount {
		return nil, fmt.Errorf("%w: page %d out of range [1,%d]", dberr.ErrCorrupt, n, p.pageCount)
	}

	size := p.header.Size()
	buf := make([]byte, size)
	off := int64(n-1) * int64(size)

	got, err := readFull(p.r, buf, off)
	if err != nil {
		return nil, err
	}
	if got < size {
		return nil, fmt.Errorf("%w: page %d has %d of %d bytes", dberr.ErrTruncated, n, got, size)
	}
	return buf, nil
}

// LoadPage reads and strictly decodes page n.
func (p *Pager) LoadPage(n uint32) (*Page, error) {
	raw, err := p.ReadPage(n)
	if err != nil {
		return nil, err
	}
	return DecodePage(raw, n, p.UsableSize())
}

func (p *Pager) Close() error {
	if p.closer == nil {
		return nil
	}
	if err := p.closer.Close(); err != nil {
		return fmt.Errorf("%w: close: %v", dberr.ErrIO, err)
	}
	p.closer = nil
	return nil
}
