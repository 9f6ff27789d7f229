package sga

import (
	"sgafs/internal/layout"
	"sgafs/internal/mapping"
)

// parseHeader maps and validates the fixed archive header, selecting
// the v4/v5 schema width on success: read a small fixed prefix,
// validate it, then dispatch on what it says before touching anything
// else.
func parseHeader(m mapping.Mapping) (layout.ArchiveHeader, layout.Width, error) {
	if m.Size() < layout.ArchiveHeaderSize {
		return layout.ArchiveHeader{}, 0, ErrHeaderTooSmall
	}
	v, err := m.View(0, layout.ArchiveHeaderSize)
	if err != nil {
		return layout.ArchiveHeader{}, 0, ErrHeaderTooSmall
	}
	hdr := layout.DecodeArchiveHeader(v.Bytes())
	if string(hdr.Signature[:]) != signature {
		return layout.ArchiveHeader{}, 0, ErrBadSignature
	}
	sv := schemaVersion{Major: hdr.MajorVersion, Minor: hdr.MinorVersion}
	if !sv.supported() {
		return layout.ArchiveHeader{}, 0, &UnsupportedVersionError{Major: hdr.MajorVersion, Minor: hdr.MinorVersion}
	}
	if int64(layout.ArchiveHeaderSize)+int64(hdr.HeaderLength) > m.Size() {
		return layout.ArchiveHeader{}, 0, ErrHeaderRegionTruncated
	}
	width := layout.Width16
	if sv == versionV5 {
		width = layout.Width32
	}
	return hdr, width, nil
}
