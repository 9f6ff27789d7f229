package sga

import (
	"fmt"
	"os"
)

// Archive signature and recognized schema versions.

const (
	signature = "_ARCHIVE"

	// checksumChunkSize is the fixed chunk size the validator feeds
	// through the incremental CRC32, independent of file size.
	checksumChunkSize = 32 * 1024
)

// schemaVersion identifies which record-layout descriptor governs a
// given archive: count width is 16-bit in v4, 32-bit in v5; offsets
// and the file record layout are identical in both.
type schemaVersion struct {
	Major uint16
	Minor uint16
}

var (
	versionV4 = schemaVersion{Major: 4, Minor: 0}
	versionV5 = schemaVersion{Major: 5, Minor: 0}
)

func (v schemaVersion) supported() bool {
	return v == versionV4 || v == versionV5
}

// debugf writes a diagnostic line to stderr when SGA_DEBUG is set.
func debugf(format string, args ...interface{}) {
	if os.Getenv("SGA_DEBUG") == "" {
		return
	}
	fmt.Fprintf(os.Stderr, "[sga] "+format+"\n", args...)
}
