package executor

import (
	"fmt"
	"io"
	"strings"
)

// Result is the generic query result returned to the caller.
type Result struct {
	Columns []string
	Rows    [][]any
}

func (r *Result) Len() int { return len(r.Rows) }

// FormatValue renders one result cell the way the shell prints it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("x'%x'", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// Print writes res as an aligned table followed by a row count.
func (r *Result) Print(w io.Writer) error {
	cols := r.Columns

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c)
	}
	cells := make([][]string, len(r.Rows))
	for ri, row := range r.Rows {
		cells[ri] = make([]string, len(cols))
		for i := range cols {
			s := "NULL"
			if i < len(row) {
				s = FormatValue(row[i])
			}
			cells[ri][i] = s
			widths[i] = max(widths[i], len(s))
		}
	}

	var b strings.Builder
	printRow := func(values []string) {
		for i := range cols {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(padRight(values[i], widths[i]))
		}
		b.WriteByte('\n')
	}

	printRow(cols)
	for i := range cols {
		if i > 0 {
			b.WriteString("-+-")
		}
		b.WriteString(strings.Repeat("-", widths[i]))
	}
	b.WriteByte('\n')
	for _, row := range cells {
		printRow(row)
	}
	fmt.Fprintf(&b, "(%d rows)\n", len(r.Rows))

	_, err := io.WriteString(w, b.String())
	return err
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}
