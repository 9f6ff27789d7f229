package sga

import (
	"sgafs/internal/crc"
	"sgafs/internal/layout"
)

// ValidationResult is the outcome of Validate.
type ValidationResult int

const (
	Ok ValidationResult = iota
	Corrupt
	Error
	Canceled
	AssumedOk
)

func (r ValidationResult) String() string {
	switch r {
	case Ok:
		return "Ok"
	case Corrupt:
		return "Corrupt"
	case Error:
		return "Error"
	case Canceled:
		return "Canceled"
	case AssumedOk:
		return "AssumedOk"
	default:
		return "Unknown"
	}
}

// ProgressFunc reports bytesDone out of bytesTotal and may request
// cancellation by returning true.
type ProgressFunc func(bytesDone, bytesTotal uint32) (cancel bool)

// Validate scans file's uncompressed payload in fixed 32 KiB chunks,
// accumulating CRC32, and compares the result against the stored
// payload-header checksum. A mapping or inflate failure yields Error,
// returned together with the underlying error.
func (a *Archive) Validate(file *File, progress ProgressFunc) (ValidationResult, error) {
	rec := a.dir.file(file.id)

	headerStart := int64(a.hdr.FileDataOff) + int64(rec.Offset) - int64(layout.PayloadHeaderSize)
	if headerStart < 0 {
		return Error, ErrPayloadOutOfRange
	}
	v, err := a.mapping.View(headerStart, int64(layout.PayloadHeaderSize)+int64(rec.SizeOnDisk))
	if err != nil {
		return Error, ErrPayloadOutOfRange
	}
	region := v.Bytes()
	storedCRC := layout.DecodePayloadHeader(region[:layout.PayloadHeaderSize]).CRC32
	payload := region[layout.PayloadHeaderSize:]

	var buf []byte
	if rec.Type == 0 {
		buf = payload
	} else {
		buf, err = inflate(payload, rec.Size)
		if err != nil {
			return Error, err
		}
	}

	if progress != nil && progress(0, uint32(len(buf))) {
		return Canceled, nil
	}

	var running uint32
	total := uint32(len(buf))
	var done uint32
	for done < total {
		end := done + checksumChunkSize
		if end > total {
			end = total
		}
		running = crc.UpdateCRC32(running, buf[done:end])
		done = end
		if progress != nil && progress(done, total) {
			return Canceled, nil
		}
	}

	if running != storedCRC {
		debugf("validate: file id=%d crc mismatch got=%08x want=%08x", file.id, running, storedCRC)
		return Corrupt, nil
	}
	return Ok, nil
}
