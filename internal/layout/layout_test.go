package layout

import (
	"encoding/binary"
	"testing"
)

func TestUint_Widths(t *testing.T) {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint16(b, 0xABCD)
	if got := Uint(b, 0, Width16); got != 0xABCD {
		t.Fatalf("Width16: got %x", got)
	}
	binary.LittleEndian.PutUint32(b, 0xDEADBEEF)
	if got := Uint(b, 0, Width32); got != 0xDEADBEEF {
		t.Fatalf("Width32: got %x", got)
	}
}

func TestDecodeFile(t *testing.T) {
	b := make([]byte, FileRecordSize)
	binary.LittleEndian.PutUint32(b[0:], 10)
	binary.LittleEndian.PutUint32(b[4:], 20)
	binary.LittleEndian.PutUint32(b[8:], 30)
	binary.LittleEndian.PutUint32(b[12:], 40)
	binary.LittleEndian.PutUint32(b[16:], 50)
	b[20] = 0
	b[21] = 1

	f := DecodeFile(b)
	if f.NameOffset != 10 || f.Offset != 20 || f.SizeOnDisk != 30 || f.Size != 40 || f.TimeModified != 50 || f.Type != 1 {
		t.Fatalf("unexpected decode: %+v", f)
	}
}

func TestDecodeSection_CStrings(t *testing.T) {
	b := make([]byte, SectionRecordSize(Width32))
	copy(b[0:64], "alias\x00garbage")
	copy(b[64:128], "Display Name\x00")
	s := DecodeSection(b, Width32)
	if s.Alias != "alias" {
		t.Fatalf("Alias: got %q", s.Alias)
	}
	if s.Name != "Display Name" {
		t.Fatalf("Name: got %q", s.Name)
	}
}
