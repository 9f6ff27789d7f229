package sga

import "testing"

func helloFile(t *testing.T, a *Archive) *File {
	t.Helper()
	dataFolder, ok := a.Root().GetItem("data")
	if !ok {
		t.Fatalf("expected data folder")
	}
	item, ok := dataFolder.(*Folder).GetItem("hello.txt")
	if !ok {
		t.Fatalf("expected hello.txt")
	}
	return item.(*File)
}

func TestValidate_Ok(t *testing.T) {
	a := openArchive(t, minimalSpec())
	defer a.Close()

	result, err := a.Validate(helloFile(t, a), nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result != Ok {
		t.Fatalf("got %v, want Ok", result)
	}
}

func TestValidate_Corrupt(t *testing.T) {
	spec := minimalSpec()
	spec.files[0].crc = 0xDEADBEEF
	a := openArchive(t, spec)
	defer a.Close()

	result, err := a.Validate(helloFile(t, a), nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result != Corrupt {
		t.Fatalf("got %v, want Corrupt", result)
	}
}

func TestValidate_Canceled(t *testing.T) {
	spec := minimalSpec()
	// 100 KiB of zero bytes, larger than the 32 KiB chunk size so the
	// progress callback fires more than once.
	data := make([]byte, 100*1024)
	spec.files[0].data = data
	spec.files[0].crc = 0
	a := openArchive(t, spec)
	defer a.Close()

	calls := 0
	result, err := a.Validate(helloFile(t, a), func(done, total uint32) bool {
		calls++
		return true // cancel on the very first invocation, including the pre-loop one
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result != Canceled {
		t.Fatalf("got %v, want Canceled", result)
	}
	if calls != 1 {
		t.Fatalf("expected cancellation to stop after the first callback, got %d calls", calls)
	}
}

func TestValidate_ChunkedProgress(t *testing.T) {
	spec := minimalSpec()
	data := make([]byte, 100*1024)
	spec.files[0].data = data
	spec.files[0].crc = 0
	a := openArchive(t, spec)
	defer a.Close()

	var totalSeen uint32
	var calls int
	result, err := a.Validate(helloFile(t, a), func(done, total uint32) bool {
		calls++
		totalSeen = total
		return false
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result != Ok {
		t.Fatalf("got %v, want Ok", result)
	}
	if totalSeen != uint32(len(data)) {
		t.Fatalf("got total %d, want %d", totalSeen, len(data))
	}
	// pre-loop call + ceil(100KiB/32KiB) = 1 + 4 = 5 calls.
	if want := 5; calls != want {
		t.Fatalf("got %d progress calls, want %d", calls, want)
	}
}
