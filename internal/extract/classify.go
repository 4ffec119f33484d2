package extract

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"bankrip/internal/bankerr"
	"bankrip/internal/index"
)

// Signature marks the start of a FLAC stream.
var Signature = []byte("fLaC")

const prefixSize = 4

// Classify recovers the payload for entry from blob. It never reads outside
// blob and never panics for any entry values.
//
// The little-endian u32 at entry.Offset is trusted whenever the window it
// describes fits in the blob. Otherwise, or when that window does not start
// with Signature, the declared window [Offset, Offset+Length) is scanned for
// the first Signature and everything from there to the window end is kept.
// A window without any Signature is returned verbatim as a raw fallback.
func Classify(blob []byte, entry index.SampleEntry) Result {
	res := Result{Entry: entry}
	size := uint64(len(blob))

	if entry.Offset > size || size-entry.Offset < prefixSize {
		res.Err = bankerr.Wrap(bankerr.ErrOutOfBounds, entry.Bank.String(), "classify",
			fmt.Sprintf("%s: offset %d + %d exceeds bank size %d", entry.Name, entry.Offset, prefixSize, size), nil)
		return res
	}

	res.DeclaredLength = binary.LittleEndian.Uint32(blob[entry.Offset:])
	start := entry.Offset + prefixSize
	end := start + uint64(res.DeclaredLength)

	if end <= size {
		candidate := blob[start:end]
		if bytes.HasPrefix(candidate, Signature) {
			res.Kind = KindValidated
			res.Payload = candidate
			res.Offset = start
			return res
		}
	}

	window := declaredWindow(blob, entry)
	if p := bytes.Index(window, Signature); p >= 0 {
		res.Kind = KindSalvaged
		res.Payload = window[p:]
		res.Offset = entry.Offset + uint64(p)
		return res
	}

	res.Kind = KindRawFallback
	res.Payload = window
	res.Offset = entry.Offset
	return res
}

// declaredWindow returns blob[Offset:Offset+Length] clamped to the blob.
func declaredWindow(blob []byte, entry index.SampleEntry) []byte {
	size := uint64(len(blob))
	if entry.Offset >= size {
		return blob[size:]
	}
	end := size
	if entry.Length < size-entry.Offset {
		end = entry.Offset + entry.Length
	}
	return blob[entry.Offset:end]
}
