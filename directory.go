package sga

import (
	"sgafs/internal/layout"
	"sgafs/internal/mapping"
)

// directory is the directory parser, mapped once over the extended
// header region and exposing bounds-checked slices over sections,
// folders, files, and the string table. A single implementation serves
// both schema versions: only field widths, not parsing logic, differ
// between them.
type directory struct {
	width  layout.Width
	region []byte // the whole mapped [ArchiveHeaderSize, ArchiveHeaderSize+HeaderLength) region
	hdr    layout.DirectoryHeader

	sectionSize int
	folderSize  int
}

// parseDirectory maps the extended header region and validates every
// table's bounds before any record is read.
func parseDirectory(m mapping.Mapping, hdr layout.ArchiveHeader, width layout.Width) (*directory, error) {
	v, err := m.View(int64(layout.ArchiveHeaderSize), int64(hdr.HeaderLength))
	if err != nil {
		return nil, ErrHeaderRegionTruncated
	}
	region := v.Bytes()
	if len(region) < layout.DirectoryHeaderSize(width) {
		return nil, ErrHeaderRegionTruncated
	}
	d := &directory{
		width:       width,
		region:      region,
		hdr:         layout.DecodeDirectoryHeader(region, width),
		sectionSize: layout.SectionRecordSize(width),
		folderSize:  layout.FolderRecordSize(width),
	}

	headerLength := uint64(hdr.HeaderLength)
	if d.hdr.SectionCount > 0 {
		end := uint64(d.hdr.SectionOffset) + uint64(d.sectionSize)*d.hdr.SectionCount
		if end > headerLength {
			return nil, ErrSectionTableOverflow
		}
	}
	if d.hdr.FolderCount > 0 {
		end := uint64(d.hdr.FolderOffset) + uint64(d.folderSize)*d.hdr.FolderCount
		if end > headerLength {
			return nil, ErrFolderTableOverflow
		}
	}
	if d.hdr.FileCount > 0 {
		end := uint64(d.hdr.FileOffset) + uint64(layout.FileRecordSize)*d.hdr.FileCount
		if end > headerLength {
			return nil, ErrFileTableOverflow
		}
	}
	if uint64(d.hdr.StringTableOffset) > headerLength {
		return nil, ErrStringTableOverflow
	}

	debugf("directory: sections=%d folders=%d files=%d width=%d",
		d.hdr.SectionCount, d.hdr.FolderCount, d.hdr.FileCount, width)
	return d, nil
}

func (d *directory) sectionCount() int { return int(d.hdr.SectionCount) }
func (d *directory) folderCount() int  { return int(d.hdr.FolderCount) }
func (d *directory) fileCount() int    { return int(d.hdr.FileCount) }

func (d *directory) section(i int) layout.Section {
	off := int(d.hdr.SectionOffset) + i*d.sectionSize
	return layout.DecodeSection(d.region[off:off+d.sectionSize], d.width)
}

func (d *directory) folder(i int) layout.Folder {
	off := int(d.hdr.FolderOffset) + i*d.folderSize
	return layout.DecodeFolder(d.region[off:off+d.folderSize], d.width)
}

func (d *directory) file(i int) layout.File {
	off := int(d.hdr.FileOffset) + i*layout.FileRecordSize
	return layout.DecodeFile(d.region[off : off+layout.FileRecordSize])
}

// nameAt resolves a NUL-terminated ASCII string at the given string
// table offset. The string table's record count is never validated
// against anything, so reads are bounded purely by the header region's
// end and fail with ErrNameOutOfRange if no NUL is found before it.
func (d *directory) nameAt(offset uint32) (string, error) {
	start := int(d.hdr.StringTableOffset) + int(offset)
	if start < 0 || start > len(d.region) {
		return "", ErrNameOutOfRange
	}
	for i := start; i < len(d.region); i++ {
		if d.region[i] == 0 {
			return string(d.region[start:i]), nil
		}
	}
	return "", ErrNameOutOfRange
}
