// Package dberr holds the error kinds shared by every decoding layer.
//
// Decoders wrap one of the sentinels with context:
//
//	fmt.Errorf("%w: cell %d needs %d bytes, have %d", dberr.ErrTruncated, i, need, have)
//
// and callers match with errors.Is.
package dberr

import "errors"

var (
	ErrIO                = errors.New("io error")
	ErrTruncated         = errors.New("truncated")
	ErrInvalidPageType   = errors.New("invalid page type")
	ErrInvalidSerialType = errors.New("invalid serial type")
	ErrUTF8              = errors.New("invalid utf-8")
	ErrOverflow          = errors.New("payload overflow")
	ErrCorrupt           = errors.New("corrupt database")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrIO, "IoError"},
	{ErrTruncated, "Truncated"},
	{ErrInvalidPageType, "InvalidPageType"},
	{ErrInvalidSerialType, "InvalidSerialType"},
	{ErrUTF8, "Utf8Error"},
	{ErrOverflow, "Overflow"},
	{ErrCorrupt, "Corrupt"},
}

// KindOf names the kind of err for user-facing output. Errors that do not
// wrap a known kind report "Error".
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return "Error"
}
