package dberr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, "Truncated", KindOf(fmt.Errorf("%w: need 4 bytes", ErrTruncated)))
	assert.Equal(t, "InvalidPageType", KindOf(fmt.Errorf("page 3: %w", fmt.Errorf("%w: 0x07", ErrInvalidPageType))))
	assert.Equal(t, "Overflow", KindOf(ErrOverflow))
	assert.Equal(t, "Utf8Error", KindOf(ErrUTF8))
	assert.Equal(t, "IoError", KindOf(errors.Join(ErrIO, errors.New("eof"))))
	assert.Equal(t, "Error", KindOf(errors.New("something else")))
}
