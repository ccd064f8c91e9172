package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpenExclFile(t *testing.T) {
	dir := t.TempDir()

	want := []string{"a.zip", "a-1.zip", "a-2.zip"}
	for _, name := range want {
		f, err := OpenExclFile(dir, "a", ".zip", 0600)
		if !assert.NoErrorf(t, err, "OpenExclFile() error = %v", err) {
			return
		}

		assert.Equal(t, filepath.Join(dir, name), f.Name())

		fi, err := f.Stat()
		assert.NoError(t, err)
		assert.Equal(t, int64(0), fi.Size())
		assert.NoError(t, f.Close())
	}

	_, err := OpenExclFile(filepath.Join(dir, "missing"), "a", ".zip", 0600)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDirBase(t *testing.T) {
	assert.Equal(t, filepath.Join("to", "a.zip"), DirBase(filepath.Join("path", "to", "a.zip")))
	assert.Equal(t, "a.zip", filepath.Base(DirBase("a.zip")))
}
