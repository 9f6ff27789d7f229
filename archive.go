package sga

import (
	"sgafs/internal/layout"
	"sgafs/internal/mapping"
)

// Archive is an opened SGA container: a validated header, directory
// tables, and the reconstructed folder tree. Open fails closed — the
// zero value is never handed to a caller, so a caller never sees a
// partially built tree.
type Archive struct {
	mapping mapping.Mapping
	hdr     layout.ArchiveHeader
	width   layout.Width
	dir     *directory
	root    *Folder
}

// Open maps path and parses it as an SGA archive.
func Open(path string) (*Archive, error) {
	m, err := mapping.OpenFile(path)
	if err != nil {
		return nil, err
	}
	a, err := OpenMapping(m)
	if err != nil {
		m.Close()
		return nil, err
	}
	return a, nil
}

// OpenMapping parses an already-open mapping as an SGA archive. Used
// directly by tests that build an in-memory image instead of a file
// (internal/mapping.MemoryMapping).
func OpenMapping(m mapping.Mapping) (*Archive, error) {
	hdr, width, err := parseHeader(m)
	if err != nil {
		return nil, err
	}
	dir, err := parseDirectory(m, hdr, width)
	if err != nil {
		return nil, err
	}
	if err := validatePayloadBounds(dir, hdr, m.Size()); err != nil {
		return nil, err
	}
	if err := validateSectionRanges(dir); err != nil {
		return nil, err
	}
	root, err := buildRoot(dir)
	if err != nil {
		return nil, err
	}
	return &Archive{mapping: m, hdr: hdr, width: width, dir: dir, root: root}, nil
}

// validatePayloadBounds checks every file record before any tree is
// exposed: the payload header and the payload bytes it precedes must
// both lie within the mapping.
func validatePayloadBounds(dir *directory, hdr layout.ArchiveHeader, mappingSize int64) error {
	for i := 0; i < dir.fileCount(); i++ {
		f := dir.file(i)
		payloadStart := int64(hdr.FileDataOff) + int64(f.Offset)
		if payloadStart < int64(layout.PayloadHeaderSize) {
			return ErrPayloadOutOfRange
		}
		if payloadStart+int64(f.SizeOnDisk) > mappingSize {
			return ErrPayloadOutOfRange
		}
	}
	return nil
}

// validateSectionRanges checks section-level folder and file ranges,
// which the tree builder never indexes directly (it only follows each
// section's single FolderRootIndex) and so would otherwise go
// unchecked.
func validateSectionRanges(dir *directory) error {
	folderCount := uint64(dir.folderCount())
	fileCount := uint64(dir.fileCount())
	for i := 0; i < dir.sectionCount(); i++ {
		s := dir.section(i)
		if s.FolderStart > s.FolderEnd || s.FolderEnd > folderCount {
			return ErrFolderTableOverflow
		}
		if s.FileStart > s.FileEnd || s.FileEnd > fileCount {
			return ErrFileTableOverflow
		}
		if s.FolderRootIndex >= folderCount {
			return ErrFolderTableOverflow
		}
	}
	return nil
}

// Close unmaps the archive. Any open streams or in-flight validations
// must be finished first: closing invalidates them.
func (a *Archive) Close() error {
	return a.mapping.Close()
}

// Root returns the synthetic root folder of the reconstructed tree.
func (a *Archive) Root() *Folder { return a.root }

// Type, Extension and Description report the fixed identity every
// archive exposes to its host.
func (a *Archive) Type() string        { k, _, _ := typeDescription(); return k }
func (a *Archive) Extension() string   { _, e, _ := typeDescription(); return e }
func (a *Archive) Description() string { _, _, d := typeDescription(); return d }

// FileSize returns a file's uncompressed size.
func (a *Archive) FileSize(file *File) uint32 {
	return a.dir.file(file.id).Size
}

// FileSizeOnDisk returns a file's stored (possibly compressed) size.
func (a *Archive) FileSizeOnDisk(file *File) uint32 {
	return a.dir.file(file.id).SizeOnDisk
}

// FileExtractable reports whether file's stream can be created. Deflate
// support is always compiled in here, so every file is extractable.
func (a *Archive) FileExtractable(*File) bool { return true }
