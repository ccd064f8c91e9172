package rezip

import (
	"archive/zip"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"io/fs"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"
)

// ZipReader implements EntryReader for zip archives.
type ZipReader struct {
	zr *zip.Reader
}

var _ EntryReader = &ZipReader{}

// NewZipReader opens the zip archive of the given size for random access by entry index.
//
// Deflate entries are decompressed with github.com/klauspost/compress/flate.
func NewZipReader(r io.ReaderAt, size int64) (*ZipReader, error) {
	// zip.ErrInsecurePath still comes with a usable reader; entry names are copied verbatim, never extracted.
	zr, err := zip.NewReader(r, size)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, err
	}

	zr.RegisterDecompressor(zip.Deflate, func(r io.Reader) io.ReadCloser {
		return flate.NewReader(r)
	})

	return &ZipReader{zr: zr}, nil
}

// Comment returns the archive comment.
func (r *ZipReader) Comment() string {
	return r.zr.Comment
}

func (r *ZipReader) Len() int {
	return len(r.zr.File)
}

func (r *ZipReader) Name(i int) (string, bool) {
	if i < 0 || i >= len(r.zr.File) {
		return "", false
	}

	name := r.zr.File[i].Name
	return name, name != ""
}

func (r *ZipReader) Open(i int) (Entry, io.ReadCloser, error) {
	if i < 0 || i >= len(r.zr.File) {
		return Entry{}, nil, fmt.Errorf("entry index %d out of range [0, %d)", i, len(r.zr.File))
	}

	f := r.zr.File[i]
	rc, err := f.Open()
	if err != nil {
		return Entry{}, nil, fmt.Errorf(`open entry "%s" error: %w`, f.Name, err)
	}

	return zipEntry(f), rc, nil
}

func zipEntry(f *zip.File) Entry {
	e := Entry{
		Name:     f.Name,
		Size:     f.UncompressedSize64,
		CRC32:    f.CRC32,
		Modified: f.Modified,
		Mode:     f.Mode(),
		Comment:  f.Comment,
	}

	switch {
	case e.Mode.IsDir() || strings.HasSuffix(f.Name, "/"):
		e.Kind = KindDir
	case e.Mode&fs.ModeSymlink != 0:
		e.Kind = KindSymlink
	}

	return e
}

// ZipWriter implements EntryWriter for zip archives.
//
// Deflate entries are compressed at CompressionLevel with github.com/klauspost/compress/flate.
type ZipWriter struct {
	zw *zip.Writer
}

var _ EntryWriter = &ZipWriter{}

// NewZipWriter creates a new archive writing to w.
func NewZipWriter(w io.Writer) *ZipWriter {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, CompressionLevel)
	})

	return &ZipWriter{zw: zw}
}

// SetComment sets the archive comment written by Close.
func (w *ZipWriter) SetComment(comment string) error {
	return w.zw.SetComment(comment)
}

// AddDirectory writes e as a directory entry under the same name.
//
// A name without the "/" suffix stays that way; the directory mode bits alone mark it as a directory.
func (w *ZipWriter) AddDirectory(e Entry) error {
	mode := e.Mode
	if !mode.IsDir() {
		mode = fs.ModeDir | mode.Perm() | 0o700
	}

	if _, err := w.zw.CreateRaw(rawHeader(e, mode, 0, 0)); err != nil {
		return fmt.Errorf(`create directory "%s" error: %w`, e.Name, err)
	}

	return nil
}

func (w *ZipWriter) AddSymlink(e Entry, target string) error {
	mode := e.Mode
	if mode&fs.ModeSymlink == 0 {
		mode = fs.ModeSymlink | 0o777
	}

	fw, err := w.zw.CreateRaw(rawHeader(e, mode, crc32.ChecksumIEEE([]byte(target)), uint64(len(target))))
	if err != nil {
		return fmt.Errorf(`create symlink "%s" error: %w`, e.Name, err)
	}

	if _, err = io.WriteString(fw, target); err != nil {
		return fmt.Errorf(`write symlink "%s" error: %w`, e.Name, err)
	}

	return nil
}

// CreateFile starts a regular file entry.
//
// Stored entries have their CRC-32 and sizes written up front in the local header, taken from e.CRC32 and e.Size, so
// exactly e.Size bytes matching e.CRC32 must be written. Deflated entries, and stored ones too large for a local
// header without zip64, are followed by a data descriptor instead.
func (w *ZipWriter) CreateFile(e Entry, method Method) (io.Writer, error) {
	var (
		fw  io.Writer
		err error
	)
	if method == Store && e.Size < math.MaxUint32 {
		fw, err = w.zw.CreateRaw(rawHeader(e, e.Mode, e.CRC32, e.Size))
	} else {
		fw, err = w.zw.CreateHeader(fileHeader(e, method))
	}
	if err != nil {
		return nil, fmt.Errorf(`create file "%s" error: %w`, e.Name, err)
	}

	return fw, nil
}

// Close finishes the last entry, then writes the central directory and flushes.
//
// Close does not close the underlying io.Writer.
func (w *ZipWriter) Close() error {
	return w.zw.Close()
}

func fileHeader(e Entry, method Method) *zip.FileHeader {
	fh := &zip.FileHeader{
		Name:     e.Name,
		Comment:  e.Comment,
		Method:   uint16(method),
		Modified: e.Modified,
	}
	fh.SetMode(e.Mode)
	return fh
}

const (
	zipVersion20   = 20
	extTimeExtraID = 0x5455
	utf8Flag       = 0x800
)

// rawHeader builds a stored header without data descriptor for zip.Writer.CreateRaw.
//
// CreateRaw writes the header as is, so the fields that zip.Writer.CreateHeader would fill in are filled in here:
// versions, MS-DOS and extended timestamps, and the UTF-8 flag.
func rawHeader(e Entry, mode fs.FileMode, crc uint32, size uint64) *zip.FileHeader {
	fh := &zip.FileHeader{
		Name:               e.Name,
		Comment:            e.Comment,
		Method:             zip.Store,
		Modified:           e.Modified,
		CRC32:              crc,
		CompressedSize64:   size,
		UncompressedSize64: size,
	}
	fh.SetMode(mode)
	fh.CreatorVersion = fh.CreatorVersion&0xff00 | zipVersion20
	fh.ReaderVersion = zipVersion20

	if needsUTF8(fh.Name) || needsUTF8(fh.Comment) {
		if utf8.ValidString(fh.Name) && utf8.ValidString(fh.Comment) {
			fh.Flags |= utf8Flag
		}
	}

	if !e.Modified.IsZero() {
		fh.ModifiedDate, fh.ModifiedTime = msDosTime(e.Modified)

		// extended timestamp with only the modification time, same as zip.Writer.CreateHeader.
		extra := binary.LittleEndian.AppendUint16(nil, extTimeExtraID)
		extra = binary.LittleEndian.AppendUint16(extra, 5)
		extra = append(extra, 1)
		fh.Extra = binary.LittleEndian.AppendUint32(extra, uint32(e.Modified.Unix()))
	}

	return fh
}

func needsUTF8(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return true
		}
	}

	return false
}

func msDosTime(t time.Time) (date uint16, tm uint16) {
	date = uint16(t.Day() + int(t.Month())<<5 + (t.Year()-1980)<<9)
	tm = uint16(t.Second()/2 + t.Minute()<<5 + t.Hour()<<11)
	return
}
