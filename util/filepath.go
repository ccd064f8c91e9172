package util

import (
	"path/filepath"
	"strings"
)

// maxExtLen is the longest extension (dot included) that StemAndExt recognises.
const maxExtLen = 6

// StemAndExt splits the base name of path into its stem and extension.
//
// Unlike filepath.Ext, an extension must be at most 5 characters after the dot so that names such as
// "report.final-draft" are treated as having no extension. A leading dot (hidden file) is part of the stem, so
// ".rezip" has stem ".rezip" and no extension.
//
// For example, "/path/to/app.jar" returns "app" and ".jar".
func StemAndExt(path string) (stem, ext string) {
	base := filepath.Base(path)

	i := strings.LastIndexByte(base, '.')
	if i <= 0 || len(base)-i > maxExtLen {
		return base, ""
	}

	return base[:i], base[i:]
}
