package rezip

import (
	"archive/zip"
	"encoding/binary"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testEntry struct {
	name     string
	kind     Kind
	data     []byte // file content or symlink target.
	method   uint16
	modified time.Time
}

// createZip writes the entries to dir/name using archive/zip and returns the path.
func createZip(t *testing.T, dir, name string, entries []testEntry) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if !assert.NoErrorf(t, err, "os.Create() error = %v", err) {
		t.FailNow()
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		fh := &zip.FileHeader{Name: e.name, Method: e.method, Modified: e.modified}
		switch e.kind {
		case KindDir:
			fh.SetMode(fs.ModeDir | 0o755)
		case KindSymlink:
			fh.SetMode(fs.ModeSymlink | 0o777)
		default:
			fh.SetMode(0o644)
		}

		w, err := zw.CreateHeader(fh)
		if !assert.NoErrorf(t, err, "zip.Writer.CreateHeader() error = %v", err) {
			t.FailNow()
		}

		if e.kind != KindDir {
			_, err = w.Write(e.data)
			assert.NoErrorf(t, err, "write entry error = %v", err)
		}
	}

	assert.NoErrorf(t, zw.Close(), "zip.Writer.Close() error")
	return path
}

type gotEntry struct {
	name     string
	kind     Kind
	method   uint16
	data     []byte
	modified time.Time
}

// readZip opens the archive with archive/zip and returns every entry with its decompressed content.
func readZip(t *testing.T, path string) (entries []gotEntry, comment string) {
	t.Helper()

	r, err := zip.OpenReader(path)
	if !assert.NoErrorf(t, err, "zip.OpenReader() error = %v", err) {
		t.FailNow()
	}
	defer r.Close()

	for _, f := range r.File {
		rc, err := f.Open()
		if !assert.NoErrorf(t, err, "zip.File.Open() error = %v", err) {
			t.FailNow()
		}

		data, err := io.ReadAll(rc)
		_ = rc.Close()
		assert.NoErrorf(t, err, "read entry %s error = %v", f.Name, err)

		entries = append(entries, gotEntry{
			name:     f.Name,
			kind:     zipEntry(f).Kind,
			method:   f.Method,
			data:     data,
			modified: f.Modified,
		})
	}

	return entries, r.Comment
}

func names(entries []gotEntry) []string {
	ns := make([]string, 0, len(entries))
	for _, e := range entries {
		ns = append(ns, e.name)
	}
	return ns
}

// collect returns an Observer that records names in visiting order.
func collect(visited *[]string) func(*Options) {
	return func(opts *Options) {
		opts.Observer = func(name string) {
			*visited = append(*visited, name)
		}
	}
}

// listDir returns the names of the files in dir.
func listDir(t *testing.T, dir string) []string {
	t.Helper()

	des, err := os.ReadDir(dir)
	assert.NoErrorf(t, err, "os.ReadDir() error = %v", err)

	ns := make([]string, 0, len(des))
	for _, de := range des {
		ns = append(ns, de.Name())
	}
	return ns
}

func repeat(b byte, n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = b
	}
	return data
}

type localHeader struct {
	name   string
	flags  uint16
	method uint16
	crc32  uint32
	csize  uint32
	usize  uint32
}

// localHeaders walks the local file headers of the archive in order.
//
// The central directory only supplies the compressed size of entries followed by a data descriptor.
func localHeaders(t *testing.T, path string) []localHeader {
	t.Helper()

	data, err := os.ReadFile(path)
	if !assert.NoErrorf(t, err, "os.ReadFile() error = %v", err) {
		t.FailNow()
	}

	r, err := zip.OpenReader(path)
	if !assert.NoErrorf(t, err, "zip.OpenReader() error = %v", err) {
		t.FailNow()
	}
	defer r.Close()

	le := binary.LittleEndian
	var hs []localHeader
	off := 0
	for i := 0; off+30 <= len(data) && le.Uint32(data[off:]) == 0x04034b50; i++ {
		h := localHeader{
			flags:  le.Uint16(data[off+6:]),
			method: le.Uint16(data[off+8:]),
			crc32:  le.Uint32(data[off+14:]),
			csize:  le.Uint32(data[off+18:]),
			usize:  le.Uint32(data[off+22:]),
		}
		n, m := int(le.Uint16(data[off+26:])), int(le.Uint16(data[off+28:]))
		h.name = string(data[off+30 : off+30+n])
		hs = append(hs, h)

		off += 30 + n + m
		if h.flags&0x8 != 0 {
			// signature, crc-32, and 32-bit sizes.
			off += int(r.File[i].CompressedSize64) + 16
		} else {
			off += int(h.csize)
		}
	}

	assert.Lenf(t, hs, len(r.File), "local headers vs central directory")
	return hs
}
