package util

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// OpenExclFile creates a new, empty file with the condition that the file did not exist prior to this call.
//
// The file is named stem+ext inside parent. If that name is taken, numeric suffixes are tried in order: stem-1+ext,
// stem-2+ext, and so on. Use StemAndExt to split an existing name into stem and ext.
//
// The file is opened with flag `os.O_RDWR|os.O_CREATE|os.O_EXCL` and the given perm (before umask). Caller is
// responsible for closing the file upon a successful return.
func OpenExclFile(parent, stem, ext string, perm os.FileMode) (file *os.File, err error) {
	name := filepath.Join(parent, stem+ext)
	for i := 0; ; {
		switch file, err = os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm); {
		case err == nil:
			return
		case errors.Is(err, os.ErrExist):
			i++
			name = filepath.Join(parent, stem+"-"+strconv.Itoa(i)+ext)
		default:
			return nil, fmt.Errorf("create file error: %w", err)
		}
	}
}

// DirBase joins both filepath.Dir and filepath.Base for the given file name.
//
// The idea is that sometimes the working directory is not clear so by printing both the directory and the basename of
// a file, it is clearer where the file is.
func DirBase(name string) string {
	dir := filepath.Dir(name)
	base := filepath.Base(name)
	if dir != "" && dir != "." {
		return filepath.Join(filepath.Base(dir), base)
	}

	if abs, err := filepath.Abs(name); err == nil {
		return filepath.Join(filepath.Base(filepath.Dir(abs)), base)
	}

	return base
}
