package util

import (
	"io"
	"log/slog"
)

// CloseFileFunc closes c and logs a failure instead of returning it. Meant
// for defer on read-only handles where a close error changes nothing.
func CloseFileFunc(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("close failed", "err", err)
	}
}
