package internal

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefix(t *testing.T) {
	name := filepath.Join("path", "to", "a.zip")
	assert.Equal(t, `[1/3] "`+filepath.Join("to", "a.zip")+`" - `, Prefix(0, 3, name))

	long := filepath.Join("dir", "a-very-long-archive-name-that-is-truncated.zip")
	assert.Equal(t, `[3/3] "dir`+string(filepath.Separator)+`a-very-long-archive-name-t..." - `, Prefix(2, 3, long))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, 0, 1, "a.zip").Printf("hello")
	assert.Contains(t, buf.String(), `a.zip" - hello`)

	// nil writer discards.
	NewLogger(nil, 0, 1, "a.zip").Printf("hello")
}
