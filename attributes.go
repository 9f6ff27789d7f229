package sga

import (
	"encoding/hex"
	"time"
	"unicode/utf16"

	"sgafs/internal/layout"
)

// Attribute is a single resolved attribute value: exactly one of a
// string or an unsigned integer, the latter tagged for hex display.
type Attribute struct {
	IsString bool
	Str      string
	Uint     uint64
	Hex      bool
}

// ArchiveAttributeID enumerates the per-archive attributes.
type ArchiveAttributeID int

const (
	AttrVersionMajor ArchiveAttributeID = iota
	AttrVersionMinor
	AttrMD5File
	AttrName
	AttrMD5Header
)

// ArchiveAttribute answers a whole-archive attribute query.
func (a *Archive) ArchiveAttribute(id ArchiveAttributeID) (Attribute, error) {
	switch id {
	case AttrVersionMajor:
		return Attribute{Uint: uint64(a.hdr.MajorVersion)}, nil
	case AttrVersionMinor:
		return Attribute{Uint: uint64(a.hdr.MinorVersion)}, nil
	case AttrMD5File:
		return Attribute{IsString: true, Str: hex.EncodeToString(a.hdr.FileMD5[:])}, nil
	case AttrMD5Header:
		return Attribute{IsString: true, Str: hex.EncodeToString(a.hdr.HeaderMD5[:])}, nil
	case AttrName:
		return Attribute{IsString: true, Str: decodeArchiveName(a.hdr.Name[:])}, nil
	default:
		return Attribute{}, ErrNotFound
	}
}

// decodeArchiveName converts the fixed 64-code-unit UTF-16LE archive
// name to UTF-8, truncating at the first NUL code unit.
func decodeArchiveName(units []uint16) string {
	for i, u := range units {
		if u == 0 {
			units = units[:i]
			break
		}
	}
	return string(utf16.Decode(units))
}

// ItemAttributeID enumerates the per-item attributes. SectionAlias and
// SectionName apply to folders and files; Modified, Type and CRC apply
// only to files.
type ItemAttributeID int

const (
	AttrSectionAlias ItemAttributeID = iota
	AttrSectionName
	AttrModified
	AttrType
	AttrCRC
)

// ItemAttribute answers a per-item attribute query. Items with
// ItemIDInvalid yield ErrNotFound without further lookup, matching the
// synthetic root and section-alias folders built in tree.go.
func (a *Archive) ItemAttribute(item Item, id ItemAttributeID) (Attribute, error) {
	if item.ID() == ItemIDInvalid {
		return Attribute{}, ErrNotFound
	}
	switch id {
	case AttrSectionAlias, AttrSectionName:
		sec, err := a.sectionFor(item)
		if err != nil {
			return Attribute{}, err
		}
		if id == AttrSectionAlias {
			return Attribute{IsString: true, Str: sec.Alias}, nil
		}
		return Attribute{IsString: true, Str: sec.Name}, nil
	case AttrModified:
		file, ok := item.(*File)
		if !ok {
			return Attribute{}, ErrNotFound
		}
		rec := a.dir.file(file.id)
		return Attribute{IsString: true, Str: formatModified(rec.TimeModified)}, nil
	case AttrType:
		file, ok := item.(*File)
		if !ok {
			return Attribute{}, ErrNotFound
		}
		rec := a.dir.file(file.id)
		return Attribute{Uint: uint64(rec.Type)}, nil
	case AttrCRC:
		file, ok := item.(*File)
		if !ok {
			return Attribute{}, ErrNotFound
		}
		crc, err := a.payloadCRC(file.id)
		if err != nil {
			return Attribute{}, err
		}
		return Attribute{Uint: uint64(crc), Hex: true}, nil
	default:
		return Attribute{}, ErrNotFound
	}
}

// formatModified renders epoch seconds as a fixed-locale, reentrant
// stand-in for C's "%c" ctime rendering, reproducing its field order.
func formatModified(epochSeconds uint32) string {
	return time.Unix(int64(epochSeconds), 0).Local().Format("Mon Jan  2 15:04:05 2006")
}

// sectionFor finds the section whose folder or file index range
// contains item's id.
func (a *Archive) sectionFor(item Item) (layout.Section, error) {
	id := uint64(item.ID())
	isFile := item.Kind() == KindFile
	for i := 0; i < a.dir.sectionCount(); i++ {
		sec := a.dir.section(i)
		if isFile {
			if id >= sec.FileStart && id < sec.FileEnd {
				return sec, nil
			}
			continue
		}
		if id >= sec.FolderStart && id < sec.FolderEnd {
			return sec, nil
		}
	}
	return layout.Section{}, ErrNotFound
}

// payloadCRC sub-maps the payload header preceding fileIndex's payload
// bytes and returns its recorded CRC32.
func (a *Archive) payloadCRC(fileIndex int) (uint32, error) {
	rec := a.dir.file(fileIndex)
	hdrView, err := a.payloadHeaderView(rec)
	if err != nil {
		return 0, err
	}
	return layout.DecodePayloadHeader(hdrView).CRC32, nil
}

// payloadHeaderView returns the raw bytes of the payload header
// immediately preceding a file record's payload.
func (a *Archive) payloadHeaderView(rec layout.File) ([]byte, error) {
	start := int64(a.hdr.FileDataOff) + int64(rec.Offset) - int64(layout.PayloadHeaderSize)
	if start < 0 {
		return nil, ErrPayloadOutOfRange
	}
	v, err := a.mapping.View(start, int64(layout.PayloadHeaderSize))
	if err != nil {
		return nil, ErrPayloadOutOfRange
	}
	return v.Bytes(), nil
}

// typeDescription renders the extension/description pair the host
// surface reports for every archive.
func typeDescription() (kind, extension, description string) {
	return "SGA archive", "sga", "Archive File"
}

// archiveAttributeNames lets a host enumerate the five archive-level
// attributes by index instead of hardcoding AttrVersionMajor..AttrMD5Header.
var archiveAttributeNames = [...]string{
	AttrVersionMajor: "Version Major",
	AttrVersionMinor: "Version Minor",
	AttrMD5File:      "MD5 File Hash",
	AttrName:         "Name",
	AttrMD5Header:    "MD5 Header Hash",
}

// ArchiveAttributeCount reports how many archive-level attribute ids
// exist.
func ArchiveAttributeCount() int { return len(archiveAttributeNames) }

// ArchiveAttributeName returns the display name of an archive-level
// attribute id.
func ArchiveAttributeName(id ArchiveAttributeID) (string, error) {
	if id < 0 || int(id) >= len(archiveAttributeNames) {
		return "", ErrNotFound
	}
	return archiveAttributeNames[id], nil
}

// itemAttributeNames lets a host enumerate the five per-item
// attributes by index.
var itemAttributeNames = [...]string{
	AttrSectionAlias: "Section Alias",
	AttrSectionName:  "Section Name",
	AttrModified:     "Modified",
	AttrType:         "Type",
	AttrCRC:          "CRC",
}

// ItemAttributeCount reports how many item-level attribute ids exist.
func ItemAttributeCount() int { return len(itemAttributeNames) }

// ItemAttributeName returns the display name of an item-level
// attribute id.
func ItemAttributeName(id ItemAttributeID) (string, error) {
	if id < 0 || int(id) >= len(itemAttributeNames) {
		return "", ErrNotFound
	}
	return itemAttributeNames[id], nil
}
