package sga

import (
	"bytes"
	"errors"
	"io"

	"github.com/klauspost/compress/flate"

	"sgafs/internal/layout"
)

var (
	errInvalidWhence    = errors.New("sga: invalid seek whence")
	errNegativePosition = errors.New("sga: negative seek position")
)

// Stream is a uniform random-access byte source over a file's
// uncompressed contents, whether backed by the mapping (stored files)
// or an owned inflated buffer (deflated files).
type Stream interface {
	io.ReadSeeker
	io.Closer
}

// mappingStream is a zero-copy stream over a slice of the mapping.
type mappingStream struct {
	data []byte
	pos  int64
}

func (s *mappingStream) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *mappingStream) Seek(offset int64, whence int) (int64, error) {
	pos, err := seekTo(s.pos, int64(len(s.data)), offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = pos
	return pos, nil
}

func (s *mappingStream) Close() error {
	s.data = nil
	return nil
}

// memoryStream is a stream over an owned, fully-inflated buffer.
type memoryStream struct {
	data []byte
	pos  int64
}

func (s *memoryStream) Read(p []byte) (int, error) {
	if s.pos >= int64(len(s.data)) {
		return 0, io.EOF
	}
	n := copy(p, s.data[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *memoryStream) Seek(offset int64, whence int) (int64, error) {
	pos, err := seekTo(s.pos, int64(len(s.data)), offset, whence)
	if err != nil {
		return 0, err
	}
	s.pos = pos
	return pos, nil
}

func (s *memoryStream) Close() error {
	s.data = nil
	return nil
}

func seekTo(cur, size, offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = cur + offset
	case io.SeekEnd:
		target = size + offset
	default:
		return 0, errInvalidWhence
	}
	if target < 0 {
		return 0, errNegativePosition
	}
	return target, nil
}

// OpenStream returns a readable stream over file's uncompressed
// contents. Stored files are served zero-copy straight from the
// mapping; deflated files are fully inflated into an owned buffer up
// front.
func (a *Archive) OpenStream(file *File) (Stream, error) {
	rec := a.dir.file(file.id)
	payload, err := a.payloadView(rec)
	if err != nil {
		return nil, err
	}
	if rec.Type == 0 {
		return &mappingStream{data: payload}, nil
	}
	out, err := inflate(payload, rec.Size)
	if err != nil {
		return nil, err
	}
	return &memoryStream{data: out}, nil
}

// payloadView sub-maps a file's payload bytes, which begin immediately
// after its payload header.
func (a *Archive) payloadView(rec layout.File) ([]byte, error) {
	start := int64(a.hdr.FileDataOff) + int64(rec.Offset)
	v, err := a.mapping.View(start, int64(rec.SizeOnDisk))
	if err != nil {
		return nil, ErrPayloadOutOfRange
	}
	return v.Bytes(), nil
}

// inflate runs compressed through the raw-deflate decoder and returns
// exactly wantSize uncompressed bytes, classifying any failure. Every
// failure branch below returns before any allocation outlives the
// call, so no buffer is leaked on error.
func inflate(compressed []byte, wantSize uint32) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(compressed))
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, int64(wantSize)+1))
	if err != nil {
		return nil, &DecodeError{Kind: classifyInflateError(err), Err: err}
	}
	if len(out) < int(wantSize) {
		return nil, &DecodeError{Kind: DecodeMalformedData, Err: io.ErrUnexpectedEOF}
	}
	if len(out) > int(wantSize) {
		return nil, &DecodeError{Kind: DecodeOutputBufferTooSmall}
	}
	return out, nil
}

func classifyInflateError(err error) DecodeErrorKind {
	var corrupt flate.CorruptInputError
	if errors.As(err, &corrupt) {
		return DecodeMalformedData
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return DecodeMalformedData
	}
	return DecodeUnknown
}
