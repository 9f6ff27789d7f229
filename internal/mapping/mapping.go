// Package mapping provides an opaque region that can produce bounded,
// read-only sub-views: a concrete, runnable default (file-backed, via
// mmap) plus an in-memory implementation used by tests.
package mapping

import "fmt"

// View is a bounded, read-only window into a Mapping.
type View interface {
	// Bytes returns the view's backing bytes. The slice is only valid
	// for as long as the owning Mapping is open.
	Bytes() []byte
}

// Mapping is a bounded memory-mapped (or equivalent) region over an
// archive file.
type Mapping interface {
	// Size reports the total mapped length in bytes.
	Size() int64

	// View returns a bounded sub-view [offset, offset+length) of the
	// mapping. Implementations must reject out-of-range requests.
	View(offset, length int64) (View, error)

	// Close releases the mapping and invalidates all views obtained
	// from it.
	Close() error
}

// ErrOutOfRange is returned by View when [offset, offset+length) does
// not fit inside the mapped region.
var ErrOutOfRange = fmt.Errorf("mapping: requested view out of range")
