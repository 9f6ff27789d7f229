package sga

import (
	"encoding/binary"
	"hash/crc32"
	"unicode/utf16"

	"sgafs/internal/layout"
)

// fileSpec, folderSpec and sectionSpec describe the archive fixtures
// built by buildArchive, mirroring the on-disk record fields closely
// enough that a test can set only the fields it cares about.
type fileSpec struct {
	name     string
	data     []byte // on-disk bytes: raw for stored, deflate-compressed for type != 0
	size     uint32 // uncompressed size; defaults to len(data) when 0 and typ == 0
	typ      byte
	crc      uint32 // stored CRC32 of the *uncompressed* bytes; computed from data when 0 and typ == 0
	modified uint32
}

type folderSpec struct {
	name                               string
	folderStart, folderEnd             uint64
	fileStart, fileEnd                 uint64
}

type sectionSpec struct {
	alias, name            string
	folderStart, folderEnd uint64
	fileStart, fileEnd     uint64
	folderRoot             uint64
}

type archiveSpec struct {
	major, minor uint16
	fileMD5      [16]byte
	headerMD5    [16]byte
	name         string
	sections     []sectionSpec
	folders      []folderSpec
	files        []fileSpec
}

// buildArchive lays out a complete, well-formed SGA byte image from a
// spec, computing every offset/width/crc a real encoder would. Tests
// start from a valid image and mutate specific bytes to exercise
// individual failure paths.
func buildArchive(spec archiveSpec) []byte {
	width := layout.Width16
	if spec.major == 5 {
		width = layout.Width32
	}
	w := int(width)

	var stringTable []byte
	folderNameOff := make([]uint32, len(spec.folders))
	for i, f := range spec.folders {
		folderNameOff[i] = uint32(len(stringTable))
		stringTable = append(stringTable, []byte(f.name)...)
		stringTable = append(stringTable, 0)
	}
	fileNameOff := make([]uint32, len(spec.files))
	for i, f := range spec.files {
		fileNameOff[i] = uint32(len(stringTable))
		stringTable = append(stringTable, []byte(f.name)...)
		stringTable = append(stringTable, 0)
	}

	sectionRecSize := 64 + 64 + 5*w
	folderRecSize := 4 + 4*w
	fileRecSize := layout.FileRecordSize
	dirHdrSize := 4*4 + 4*w

	sectionsOff := dirHdrSize
	sectionsSize := len(spec.sections) * sectionRecSize
	foldersOff := sectionsOff + sectionsSize
	foldersSize := len(spec.folders) * folderRecSize
	filesOff := foldersOff + foldersSize
	filesSize := len(spec.files) * fileRecSize
	stringsOff := filesOff + filesSize
	headerLength := stringsOff + len(stringTable)

	region := make([]byte, headerLength)
	putU32 := binary.LittleEndian.PutUint32
	putWidth := func(b []byte, off int, v uint64) {
		if width == layout.Width16 {
			binary.LittleEndian.PutUint16(b[off:], uint16(v))
		} else {
			putU32(b[off:], uint32(v))
		}
	}

	off := 0
	putU32(region[off:], uint32(sectionsOff))
	off += 4
	putWidth(region, off, uint64(len(spec.sections)))
	off += w
	putU32(region[off:], uint32(foldersOff))
	off += 4
	putWidth(region, off, uint64(len(spec.folders)))
	off += w
	putU32(region[off:], uint32(filesOff))
	off += 4
	putWidth(region, off, uint64(len(spec.files)))
	off += w
	putU32(region[off:], uint32(stringsOff))
	off += 4
	putWidth(region, off, uint64(len(stringTable)))

	for i, s := range spec.sections {
		base := sectionsOff + i*sectionRecSize
		copy(region[base:base+64], s.alias)
		copy(region[base+64:base+128], s.name)
		f := base + 128
		putWidth(region, f, s.folderStart)
		putWidth(region, f+w, s.folderEnd)
		putWidth(region, f+2*w, s.fileStart)
		putWidth(region, f+3*w, s.fileEnd)
		putWidth(region, f+4*w, s.folderRoot)
	}

	for i, f := range spec.folders {
		base := foldersOff + i*folderRecSize
		putU32(region[base:], folderNameOff[i])
		putWidth(region, base+4, f.folderStart)
		putWidth(region, base+4+w, f.folderEnd)
		putWidth(region, base+4+2*w, f.fileStart)
		putWidth(region, base+4+3*w, f.fileEnd)
	}

	// Payload region is laid out after the file table is known, since
	// each file's on-disk offset depends on the cumulative size of the
	// files before it.
	var payload []byte
	cumulative := uint64(0)
	fileOffsets := make([]uint64, len(spec.files))
	for i, f := range spec.files {
		hdrStart := cumulative
		payloadStart := hdrStart + layout.PayloadHeaderSize
		fileOffsets[i] = payloadStart
		cumulative = payloadStart + uint64(len(f.data))
	}
	payload = make([]byte, cumulative)
	for i, f := range spec.files {
		base := filesOff + i*fileRecSize
		putU32(region[base:], fileNameOff[i])
		putU32(region[base+4:], uint32(fileOffsets[i]))
		putU32(region[base+8:], uint32(len(f.data)))
		size := f.size
		if size == 0 && f.typ == 0 {
			size = uint32(len(f.data))
		}
		putU32(region[base+12:], size)
		putU32(region[base+16:], f.modified)
		region[base+20] = 0
		region[base+21] = f.typ

		crc := f.crc
		if crc == 0 && f.typ == 0 {
			crc = crc32.ChecksumIEEE(f.data)
		}
		hdrStart := fileOffsets[i] - layout.PayloadHeaderSize
		copy(payload[hdrStart:hdrStart+256], f.name)
		binary.LittleEndian.PutUint32(payload[hdrStart+256:], crc)
		copy(payload[fileOffsets[i]:], f.data)
	}

	copy(region[stringsOff:], stringTable)

	header := make([]byte, layout.ArchiveHeaderSize)
	copy(header[0:8], signature)
	binary.LittleEndian.PutUint16(header[8:], spec.major)
	binary.LittleEndian.PutUint16(header[10:], spec.minor)
	copy(header[12:28], spec.fileMD5[:])
	units := utf16.Encode([]rune(spec.name))
	for i, u := range units {
		if i >= 64 {
			break
		}
		binary.LittleEndian.PutUint16(header[28+i*2:], u)
	}
	copy(header[156:172], spec.headerMD5[:])
	binary.LittleEndian.PutUint32(header[172:], uint32(headerLength))
	binary.LittleEndian.PutUint32(header[176:], uint32(layout.ArchiveHeaderSize+headerLength))
	binary.LittleEndian.PutUint32(header[180:], 0)

	out := make([]byte, 0, len(header)+len(region)+len(payload))
	out = append(out, header...)
	out = append(out, region...)
	out = append(out, payload...)
	return out
}
