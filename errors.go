package rezip

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why recompacting an archive failed.
//
// All kinds are fatal to the archive being processed; none are retried.
type ErrorKind int

const (
	// OpenFailure means the archive could not be opened or is not a valid zip file.
	OpenFailure ErrorKind = iota + 1
	// CorruptEntry means an entry's metadata or content could not be read.
	CorruptEntry
	// InvalidSymlink means a symlink entry's target is not valid UTF-8 text.
	InvalidSymlink
	// WriteFailure means writing or finalizing the temporary archive failed.
	WriteFailure
	// PersistFailure means the temporary archive could not replace the original.
	PersistFailure
)

func (k ErrorKind) String() string {
	switch k {
	case OpenFailure:
		return "open failure"
	case CorruptEntry:
		return "corrupt entry"
	case InvalidSymlink:
		return "invalid symlink"
	case WriteFailure:
		return "write failure"
	case PersistFailure:
		return "persist failure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is returned by RecompactFile and Recompact.
//
// Path is the archive being processed, which is empty when the error comes straight out of Recompact. Entry is the
// name of the entry being processed if the failure is specific to one entry.
type Error struct {
	Kind  ErrorKind
	Path  string
	Entry string
	Err   error
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Error does not include Path so that callers can format it as "<path>: <message>".
func (e *Error) Error() string {
	if e.Entry != "" {
		return fmt.Sprintf(`%s: entry "%s": %v`, e.Kind, e.Entry, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// IsKind returns true if err wraps an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

func newError(kind ErrorKind, entry string, err error) *Error {
	return &Error{Kind: kind, Entry: entry, Err: err}
}

// withPath attaches the archive path to err if it is an *Error.
func withPath(err error, path string) error {
	if e := (*Error)(nil); errors.As(err, &e) {
		e.Path = path
	}

	return err
}
