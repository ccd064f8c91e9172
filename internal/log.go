package internal

import (
	"fmt"
	"io"
	"log"

	"github.com/nguyengg/rezip/util"
)

// Prefix creates a consistent prefix for every archive being processed.
//
// i and n are the zero-based ordinal and expected count.
func Prefix(i, n int, name string) string {
	return fmt.Sprintf(`[%d/%d] "%s" - `, i+1, n, util.TruncateRightWithSuffix(util.DirBase(name), 30, "..."))
}

// NewLogger returns a logger writing to w with Prefix.
//
// If w is nil, the logger discards everything.
func NewLogger(w io.Writer, i, n int, name string) *log.Logger {
	if w == nil {
		w = io.Discard
	}

	return log.New(w, Prefix(i, n, name), 0)
}
