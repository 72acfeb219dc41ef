package storage

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/tuannm99/litescan/internal/record"
)

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Fprintf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

func (e *errWriter) Fprintln(a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, a...)
}

// printable -> itself, else '.'
func asciiPreview(b []byte) string {
	var buf bytes.Buffer
	for _, c := range b {
		r := rune(c)
		if r < unicode.MaxASCII && unicode.IsPrint(r) {
			buf.WriteRune(r)
		} else {
			buf.WriteByte('.')
		}
	}
	return buf.String()
}

func recordPreview(r record.Record) string {
	parts := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		s := c.String()
		if len(s) > 24 {
			s = s[:24] + "..."
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func cellSummary(c Cell) string {
	switch v := c.(type) {
	case *LeafTableCell:
		return fmt.Sprintf("rowid=%d payload=%d %s", v.RowID, v.PayloadSize, recordPreview(v.Record))
	case *InteriorTableCell:
		return fmt.Sprintf("left=%d key=%d", v.LeftChild, v.Key)
	case *IndexLeafCell:
		return fmt.Sprintf("payload=%d %s", v.PayloadSize, recordPreview(v.Record))
	case *IndexInteriorCell:
		return fmt.Sprintf("left=%d payload=%d %s", v.LeftChild, v.PayloadSize, recordPreview(v.Record))
	default:
		return fmt.Sprintf("%T", c)
	}
}

// Debug prints the header, cell pointers and decoded cells to w.
func (p *Page) Debug(w io.Writer) error {
	ew := &errWriter{w: w}
	h := p.Header

	ew.Fprintf("=== Page %d ===\n", p.Num)
	ew.Fprintf("type=%s cells=%d freeblock=%d content=%d fragmented=%d\n",
		h.Type, h.CellCount, h.FirstFreeblock, h.CellContentOffset, h.FragmentedBytes)
	if h.HasRightmost {
		ew.Fprintf("rightmost=%d\n", h.RightmostPointer)
	}

	ew.Fprintln("\n-- Cells --")
	if len(p.Pointers) == 0 {
		ew.Fprintln("(none)")
	}
	const maxPreview = 32
	ci := 0
	skipped := make(map[int]error, len(p.Skipped))
	for _, s := range p.Skipped {
		skipped[s.Index] = s.Err
	}
	for i, off := range p.Pointers {
		if ew.err != nil {
			break
		}
		if err, ok := skipped[i]; ok {
			ew.Fprintf("[%d] off=%d <skipped: %v>\n", i, off, err)
			continue
		}
		ew.Fprintf("[%d] off=%d %s\n", i, off, cellSummary(p.Cells[ci]))
		ci++

		preview := p.local[off:]
		if len(preview) > maxPreview {
			preview = preview[:maxPreview]
		}
		ew.Fprintf("     hex=%s ascii=\"%s\"\n", hex.EncodeToString(preview), asciiPreview(preview))
	}

	ew.Fprintln("=== End Page ===")
	return ew.err
}

func (p *Page) DebugString() string {
	var b bytes.Buffer
	if err := p.Debug(&b); err != nil {
		_, _ = b.WriteString("\n<debug write error: " + err.Error() + ">\n")
	}
	return b.String()
}
