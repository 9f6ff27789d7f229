// Package layout holds the packed, little-endian on-disk record
// layouts for the SGA container and the decode helpers shared across
// schema versions. The Width constant (2 bytes in v4, 4 in v5) plus a
// single generic accessor, Uint, cover every version-dependent count
// or index field.
package layout

import "encoding/binary"

// Width is a record field's byte width: 2 for SGA v4's 16-bit
// counts/indices, 4 for v5's 32-bit ones. Every other field in the
// format (offsets, the file record, the payload header) is a fixed
// width in both versions.
type Width int

const (
	Width16 Width = 2
	Width32 Width = 4
)

// Uint reads a little-endian unsigned integer of the given width at
// offset in b and returns it widened to uint64, the one generic
// accessor both schema versions share.
func Uint(b []byte, offset int, w Width) uint64 {
	switch w {
	case Width16:
		return uint64(binary.LittleEndian.Uint16(b[offset : offset+2]))
	case Width32:
		return uint64(binary.LittleEndian.Uint32(b[offset : offset+4]))
	default:
		panic("layout: invalid width")
	}
}

// ArchiveHeader is the fixed 184-byte header at offset 0, identical in
// both schema versions.
type ArchiveHeader struct {
	Signature    [8]byte
	MajorVersion uint16
	MinorVersion uint16
	FileMD5      [16]byte
	Name         [64]uint16 // 64 UTF-16LE code units
	HeaderMD5    [16]byte
	HeaderLength uint32
	FileDataOff  uint32
	Dummy0       uint32
}

// ArchiveHeaderSize is the exact on-disk byte size of ArchiveHeader (8+2+2+16+128+16+4+4+4).
const ArchiveHeaderSize = 184

// DecodeArchiveHeader parses the fixed header from b, which must be at
// least ArchiveHeaderSize bytes.
func DecodeArchiveHeader(b []byte) ArchiveHeader {
	var h ArchiveHeader
	copy(h.Signature[:], b[0:8])
	h.MajorVersion = binary.LittleEndian.Uint16(b[8:10])
	h.MinorVersion = binary.LittleEndian.Uint16(b[10:12])
	copy(h.FileMD5[:], b[12:28])
	for i := 0; i < 64; i++ {
		h.Name[i] = binary.LittleEndian.Uint16(b[28+i*2 : 30+i*2])
	}
	copy(h.HeaderMD5[:], b[156:172])
	h.HeaderLength = binary.LittleEndian.Uint32(b[172:176])
	h.FileDataOff = binary.LittleEndian.Uint32(b[176:180])
	h.Dummy0 = binary.LittleEndian.Uint32(b[180:184])
	return h
}

// DirectoryHeader is the eight-field table of offset+count pairs
// immediately following ArchiveHeader. Offsets are always 32-bit;
// counts are Width-wide.
type DirectoryHeader struct {
	SectionOffset     uint32
	SectionCount      uint64
	FolderOffset      uint32
	FolderCount       uint64
	FileOffset        uint32
	FileCount         uint64
	StringTableOffset uint32
	StringTableCount  uint64
}

// DirectoryHeaderSize returns the on-disk size of DirectoryHeader for
// the given count width.
func DirectoryHeaderSize(w Width) int { return 4*4 + 4*int(w) }

// DecodeDirectoryHeader parses a DirectoryHeader at the start of b.
func DecodeDirectoryHeader(b []byte, w Width) DirectoryHeader {
	var d DirectoryHeader
	off := 0
	d.SectionOffset = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	d.SectionCount = Uint(b, off, w)
	off += int(w)
	d.FolderOffset = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	d.FolderCount = Uint(b, off, w)
	off += int(w)
	d.FileOffset = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	d.FileCount = Uint(b, off, w)
	off += int(w)
	d.StringTableOffset = binary.LittleEndian.Uint32(b[off : off+4])
	off += 4
	d.StringTableCount = Uint(b, off, w)
	return d
}

// Section is one top-level container record.
type Section struct {
	Alias           string
	Name            string
	FolderStart     uint64
	FolderEnd       uint64
	FileStart       uint64
	FileEnd         uint64
	FolderRootIndex uint64
}

// SectionRecordSize is the on-disk size of one Section record for the
// given index width.
func SectionRecordSize(w Width) int { return 64 + 64 + 5*int(w) }

// DecodeSection parses one Section record at the start of b.
func DecodeSection(b []byte, w Width) Section {
	var s Section
	s.Alias = cString(b[0:64])
	s.Name = cString(b[64:128])
	off := 128
	s.FolderStart = Uint(b, off, w)
	off += int(w)
	s.FolderEnd = Uint(b, off, w)
	off += int(w)
	s.FileStart = Uint(b, off, w)
	off += int(w)
	s.FileEnd = Uint(b, off, w)
	off += int(w)
	s.FolderRootIndex = Uint(b, off, w)
	return s
}

// Folder is one folder record; Name is resolved indirectly through
// NameOffset into the string table.
type Folder struct {
	NameOffset  uint32
	FolderStart uint64
	FolderEnd   uint64
	FileStart   uint64
	FileEnd     uint64
}

// FolderRecordSize is the on-disk size of one Folder record for the
// given index width.
func FolderRecordSize(w Width) int { return 4 + 4*int(w) }

// DecodeFolder parses one Folder record at the start of b.
func DecodeFolder(b []byte, w Width) Folder {
	var f Folder
	f.NameOffset = binary.LittleEndian.Uint32(b[0:4])
	off := 4
	f.FolderStart = Uint(b, off, w)
	off += int(w)
	f.FolderEnd = Uint(b, off, w)
	off += int(w)
	f.FileStart = Uint(b, off, w)
	off += int(w)
	f.FileEnd = Uint(b, off, w)
	return f
}

// File is one file record. Its layout is identical in both schema
// versions.
type File struct {
	NameOffset   uint32
	Offset       uint32
	SizeOnDisk   uint32
	Size         uint32
	TimeModified uint32
	Dummy0       byte
	Type         byte
}

// FileRecordSize is the fixed on-disk size of one File record.
const FileRecordSize = 4 + 4 + 4 + 4 + 4 + 1 + 1

// DecodeFile parses one File record at the start of b.
func DecodeFile(b []byte) File {
	var f File
	f.NameOffset = binary.LittleEndian.Uint32(b[0:4])
	f.Offset = binary.LittleEndian.Uint32(b[4:8])
	f.SizeOnDisk = binary.LittleEndian.Uint32(b[8:12])
	f.Size = binary.LittleEndian.Uint32(b[12:16])
	f.TimeModified = binary.LittleEndian.Uint32(b[16:20])
	f.Dummy0 = b[20]
	f.Type = b[21]
	return f
}

// PayloadHeader immediately precedes each file's payload bytes in the
// data region.
type PayloadHeader struct {
	Name  string
	CRC32 uint32
}

// PayloadHeaderSize is the fixed on-disk size of PayloadHeader.
const PayloadHeaderSize = 256 + 4

// DecodePayloadHeader parses a PayloadHeader at the start of b.
func DecodePayloadHeader(b []byte) PayloadHeader {
	return PayloadHeader{
		Name:  cString(b[0:256]),
		CRC32: binary.LittleEndian.Uint32(b[256:260]),
	}
}

// cString returns the NUL-terminated ASCII string stored in b, or all
// of b if no NUL is present.
func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
