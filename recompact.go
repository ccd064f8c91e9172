package rezip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"
)

const (
	// DefaultBufferSize is the default value for [Options.BufferSize], which is 32 KiB.
	DefaultBufferSize = 32 * 1024
)

// Observer is called with the name of every entry visited by Recompact, in visiting order.
type Observer func(name string)

// PrintObserver returns an Observer that writes one name per line to w.
func PrintObserver(w io.Writer) Observer {
	return func(name string) {
		_, _ = fmt.Fprintln(w, name)
	}
}

// Options customises Recompact and RecompactFile.
type Options struct {
	// DryRun only enumerates, orders, and opens every entry; nothing is written.
	DryRun bool

	// CompressThreshold is the uncompressed size at or above which regular files are deflated.
	//
	// Default to DefaultCompressThreshold.
	CompressThreshold uint64

	// Sort controls the order of entries in the new archive.
	//
	// Default to SortNone which keeps the source order.
	Sort Sort

	// Observer is notified of every visited entry.
	//
	// Default to PrintObserver(os.Stdout).
	Observer Observer

	// Progress receives a copy of every uncompressed byte written to the new archive.
	//
	// Default to nil which disables progress report.
	Progress io.Writer

	// Logger receives informational messages.
	//
	// Default to a logger that discards everything.
	Logger *log.Logger

	// BufferSize is the length of the buffer being used for copying file contents.
	//
	// Default to DefaultBufferSize.
	BufferSize int
}

func newOptions(optFns ...func(*Options)) Options {
	opts := Options{CompressThreshold: DefaultCompressThreshold}
	for _, fn := range optFns {
		fn(&opts)
	}

	opts.fill()
	return opts
}

func (o *Options) fill() {
	if o.Observer == nil {
		o.Observer = PrintObserver(os.Stdout)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
}

// Recompact copies the entries identified by ds from src to dst in the order of ds.
//
// If dst is nil, Recompact runs in dry-run mode: each entry is still opened (validating its local header) and
// reported to the Observer but nothing is read or written. Directories and symlinks are copied as such; regular files
// are stored or deflated according to Decide.
//
// The first error aborts the copy. Errors are returned as *Error except for context cancellation which is returned
// as is. dst is not closed.
func Recompact(ctx context.Context, src EntryReader, dst EntryWriter, ds []Descriptor, opts Options) error {
	opts.fill()

	buf := make([]byte, opts.BufferSize)
	sometimes := rate.Sometimes{Interval: 5 * time.Second}

	for i, d := range ds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := copyEntry(ctx, src, dst, d, buf, opts); err != nil {
			return err
		}

		sometimes.Do(func() {
			opts.Logger.Printf("[%d/%d] entries visited so far", i+1, len(ds))
		})
	}

	return nil
}

func copyEntry(ctx context.Context, src EntryReader, dst EntryWriter, d Descriptor, buf []byte, opts Options) error {
	e, rc, err := src.Open(d.Index)
	if err != nil {
		return newError(CorruptEntry, d.Name, err)
	}
	defer rc.Close()

	opts.Observer(e.Name)

	if dst == nil {
		return nil
	}

	switch e.Kind {
	case KindDir:
		if err = dst.AddDirectory(e); err != nil {
			return newError(WriteFailure, e.Name, err)
		}

	case KindSymlink:
		data, err := io.ReadAll(rc)
		if err != nil {
			return newError(CorruptEntry, e.Name, fmt.Errorf("read symlink target error: %w", err))
		}
		if !utf8.Valid(data) {
			return newError(InvalidSymlink, e.Name, fmt.Errorf("target %q is not valid UTF-8", data))
		}

		if err = dst.AddSymlink(e, string(data)); err != nil {
			return newError(WriteFailure, e.Name, err)
		}

	default:
		method := Decide(e.Size, opts.CompressThreshold)

		w, err := dst.CreateFile(e, method)
		if err != nil {
			return newError(WriteFailure, e.Name, err)
		}
		if opts.Progress != nil {
			w = io.MultiWriter(w, opts.Progress)
		}

		r := &readErrorReader{r: rc}
		if _, err = CopyBufferWithContext(ctx, w, r, buf); err != nil {
			switch {
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				return err
			case r.err != nil:
				return newError(CorruptEntry, e.Name, fmt.Errorf("read entry error: %w", err))
			default:
				return newError(WriteFailure, e.Name, fmt.Errorf("write entry (method=%s) error: %w", method, err))
			}
		}
	}

	return nil
}
