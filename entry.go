package rezip

import (
	"io"
	"io/fs"
	"time"
)

// Kind is the type of an archive entry.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
)

func (k Kind) String() string {
	switch k {
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "file"
	}
}

// Entry describes one entry of an archive.
type Entry struct {
	Name     string
	Kind     Kind
	Size     uint64 // uncompressed.
	CRC32    uint32 // of the uncompressed content.
	Modified time.Time
	Mode     fs.FileMode
	Comment  string
}

// EntryReader is a read-only view over an opened archive.
type EntryReader interface {
	// Len returns the number of entries.
	Len() int
	// Name returns the name of the i-th entry without opening it. ok is false if the name is not available.
	Name(i int) (name string, ok bool)
	// Open resolves the i-th entry and opens its content for reading. Caller must close rc upon a successful return.
	Open(i int) (e Entry, rc io.ReadCloser, err error)
}

// EntryWriter is an append-only builder of a new archive.
//
// Entries appear in the archive in the order they are added. Calling CreateFile or any Add method implicitly
// finishes the previous file.
//
// CreateFile with Store expects exactly Entry.Size bytes whose checksum is Entry.CRC32.
type EntryWriter interface {
	AddDirectory(e Entry) error
	AddSymlink(e Entry, target string) error
	CreateFile(e Entry, method Method) (io.Writer, error)
}

// Descriptor identifies one entry to be copied by Recompact.
//
// Name is captured once by Enumerate and only used for ordering; Named is false if the name was not available.
type Descriptor struct {
	Index int
	Name  string
	Named bool
}

// Enumerate returns a Descriptor for every entry in src in on-disk order.
func Enumerate(src EntryReader) []Descriptor {
	n := src.Len()
	ds := make([]Descriptor, n)
	for i := range n {
		ds[i].Index = i
		ds[i].Name, ds[i].Named = src.Name(i)
	}

	return ds
}
