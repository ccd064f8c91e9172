package rezip

import (
	"context"
	"fmt"
	"io"
)

// CopyBufferWithContext is a custom implementation of io.CopyBuffer that is cancellable via context.
//
// Similar to io.CopyBuffer, if buf is nil, a new buffer of size 32*1024 is created.
// Unlike io.CopyBuffer, it does not matter if src implements [io.WriterTo] or dst implements [io.ReaderFrom] because
// those interfaces do not support context.
//
// The context is checked for done status after every write. As a result, having too small a buffer may introduce too
// much overhead, while having a very large buffer may cause context cancellation to have a delayed effect.
func CopyBufferWithContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (written int64, err error) {
	if buf == nil {
		buf = make([]byte, 32*1024)
	}

	for {
		nr, rerr := src.Read(buf)

		if nr > 0 {
			switch nw, werr := dst.Write(buf[0:nr]); {
			case werr != nil:
				return written, werr
			case nw < nr:
				return written, io.ErrShortWrite
			case nw != nr:
				return written, fmt.Errorf("invalid write: expected to write %d bytes, wrote %d bytes instead", nr, nw)
			default:
				written += int64(nw)
			}

			select {
			case <-ctx.Done():
				return written, ctx.Err()
			default:
			}
		}

		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}

// readErrorReader remembers the last non-EOF error returned by the wrapped io.Reader.
//
// This lets the caller of CopyBufferWithContext tell apart source from destination errors.
type readErrorReader struct {
	r   io.Reader
	err error
}

func (r *readErrorReader) Read(p []byte) (n int, err error) {
	if n, err = r.r.Read(p); err != nil && err != io.EOF {
		r.err = err
	}

	return
}
