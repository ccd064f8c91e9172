package rezip

import (
	"archive/zip"

	"github.com/klauspost/compress/flate"
)

const (
	// DefaultCompressThreshold is the default value for [Options.CompressThreshold], which is 256 bytes.
	DefaultCompressThreshold = 256

	// CompressionLevel is the deflate level used for every compressed entry.
	CompressionLevel = flate.BestCompression
)

// Method is the storage method of a regular file entry.
type Method uint16

const (
	// Store writes the entry verbatim.
	Store = Method(zip.Store)
	// Deflate compresses the entry at CompressionLevel.
	Deflate = Method(zip.Deflate)
)

func (m Method) String() string {
	switch m {
	case Store:
		return "store"
	case Deflate:
		return "deflate"
	default:
		return "unknown"
	}
}

// Decide returns the storage method for a regular file of the given uncompressed size.
//
// Files at or above threshold are compressed, smaller files are stored.
func Decide(size, threshold uint64) Method {
	if size >= threshold {
		return Deflate
	}

	return Store
}
