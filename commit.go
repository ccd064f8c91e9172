package rezip

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/mholt/archives"
	"github.com/nguyengg/rezip/util"
)

// TempInfix is inserted between the stem and the extension of the temporary archive.
//
// For example, the temporary archive for "app.jar" is ".app.rezip-tmp.jar" in the same directory.
const TempInfix = ".rezip-tmp"

// rename replaces the original archive with the finished temporary archive.
var rename = os.Rename

// RecompactFile rewrites the named zip archive in place.
//
// Entries are enumerated, ordered per Options.Sort, then copied into a temporary archive created next to the named
// file. Only after the temporary archive has been completely written, flushed, and synced does it replace the named
// file with a rename. If any step fails, the temporary archive is removed and the named file is left untouched.
//
// With Options.DryRun, every entry is still enumerated, ordered, opened, and reported to Options.Observer but no
// temporary archive is ever created.
//
// All errors except context cancellation are returned as *Error with Path set to name.
func RecompactFile(ctx context.Context, name string, optFns ...func(*Options)) error {
	opts := newOptions(optFns...)

	f, err := os.Open(name)
	if err != nil {
		return &Error{Kind: OpenFailure, Path: name, Err: err}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return &Error{Kind: OpenFailure, Path: name, Err: fmt.Errorf("stat file error: %w", err)}
	}
	if !fi.Mode().IsRegular() {
		return &Error{Kind: OpenFailure, Path: name, Err: fmt.Errorf("not a regular file")}
	}

	src, err := NewZipReader(f, fi.Size())
	if err != nil {
		return &Error{Kind: OpenFailure, Path: name, Err: identify(ctx, f, err)}
	}

	ds := Enumerate(src)
	SortDescriptors(ds, opts.Sort)

	if opts.DryRun {
		if err = Recompact(ctx, src, nil, ds, opts); err != nil {
			return withPath(err, name)
		}

		opts.Logger.Printf("validated %d entries (%s)", len(ds), humanize.IBytes(uint64(fi.Size())))
		return nil
	}

	stem, ext := util.StemAndExt(name)
	tmp, err := util.OpenExclFile(filepath.Dir(name), "."+stem+TempInfix, ext, fi.Mode().Perm())
	if err != nil {
		return &Error{Kind: WriteFailure, Path: name, Err: fmt.Errorf("create temporary archive error: %w", err)}
	}

	persisted := false
	defer func() {
		if !persisted {
			_, _ = tmp.Close(), os.Remove(tmp.Name())
		}
	}()

	size, err := write(ctx, src, tmp, ds, fi.Mode().Perm(), opts)
	if err != nil {
		return withPath(err, name)
	}

	// the source must be closed before the rename on platforms that refuse to replace open files.
	_ = f.Close()

	if err = rename(tmp.Name(), name); err != nil {
		return &Error{Kind: PersistFailure, Path: name, Err: err}
	}
	persisted = true

	opts.Logger.Printf("recompacted %d entries (%s -> %s)", len(ds), humanize.IBytes(uint64(fi.Size())), humanize.IBytes(uint64(size)))
	return nil
}

// write runs Recompact into tmp then finalizes, syncs, and closes tmp; the size of the finished archive is returned.
//
// The permission bits of tmp are set to perm so that the replaced file keeps its mode regardless of umask.
func write(ctx context.Context, src *ZipReader, tmp *os.File, ds []Descriptor, perm os.FileMode, opts Options) (int64, error) {
	zw := NewZipWriter(tmp)
	if err := zw.SetComment(src.Comment()); err != nil {
		return 0, newError(WriteFailure, "", fmt.Errorf("set archive comment error: %w", err))
	}

	if err := Recompact(ctx, src, zw, ds, opts); err != nil {
		return 0, err
	}

	if err := zw.Close(); err != nil {
		return 0, newError(WriteFailure, "", fmt.Errorf("finalize archive error: %w", err))
	}

	fi, err := tmp.Stat()
	if err != nil {
		return 0, newError(WriteFailure, "", fmt.Errorf("stat temporary archive error: %w", err))
	}

	if err = tmp.Chmod(perm); err != nil {
		return 0, newError(WriteFailure, "", fmt.Errorf("chmod temporary archive error: %w", err))
	}

	if err = tmp.Sync(); err != nil {
		return 0, newError(WriteFailure, "", fmt.Errorf("sync temporary archive error: %w", err))
	}

	if err = tmp.Close(); err != nil {
		return 0, newError(WriteFailure, "", fmt.Errorf("close temporary archive error: %w", err))
	}

	return fi.Size(), nil
}

// identify enriches the error from opening a file that is not a readable zip archive with the detected format.
func identify(ctx context.Context, f *os.File, err error) error {
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return fmt.Errorf("open zip archive error: %w", err)
	}

	format, _, ierr := archives.Identify(ctx, "", f)
	if ierr != nil || format == nil || format.Extension() == ".zip" {
		return fmt.Errorf("open zip archive error: %w", err)
	}

	return fmt.Errorf("not a zip archive (detected %s): %w", format.Extension(), err)
}
