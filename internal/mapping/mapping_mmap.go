package mapping

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// FileMapping is the production Mapping backend: the whole archive
// file is mapped once with mmap.Map, and sub-views are plain re-slices
// of that mapping, giving the stream factory zero-copy random access
// to stored (uncompressed) file payloads.
type FileMapping struct {
	f *os.File
	m mmap.MMap
}

// OpenFile maps path read-only in its entirety.
func OpenFile(path string) (*FileMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("mapping: %s is empty", path)
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mapping: mmap %s: %w", path, err)
	}
	return &FileMapping{f: f, m: m}, nil
}

func (fm *FileMapping) Size() int64 { return int64(len(fm.m)) }

func (fm *FileMapping) View(offset, length int64) (View, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(fm.m)) {
		return nil, ErrOutOfRange
	}
	return sliceView(fm.m[offset : offset+length]), nil
}

func (fm *FileMapping) Close() error {
	err := fm.m.Unmap()
	if cerr := fm.f.Close(); err == nil {
		err = cerr
	}
	return err
}

type sliceView []byte

func (v sliceView) Bytes() []byte { return v }
