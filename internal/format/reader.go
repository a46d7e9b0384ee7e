// Package format implements the on-disk binary layout of the paired
// header/body asset container: the file summary, name/import/export tables,
// the opaque depends and asset-registry regions, and the preload dependency
// list. The property codec that interprets the body file lives in the
// sibling format/property package.
package format

import (
	"io"
)

// ByteReader is a seekable byte source with a stack of soft end-of-stream
// limits. Pushing a limit lets a caller enforce that a nested value consumes
// at most N bytes without threading a budget through every read call.
type ByteReader struct {
	buf      []byte
	pos      int
	endStack []int
	end      int // -1 means unlimited
}

// NewByteReader wraps buf for sequential, limit-aware reading.
func NewByteReader(buf []byte) *ByteReader {
	return &ByteReader{buf: buf, pos: 0, end: -1}
}

// Limit pushes current position + size as the new soft end.
func (r *ByteReader) Limit(size int) {
	if r.end >= 0 {
		r.endStack = append(r.endStack, r.end)
	}
	r.end = r.pos + size
}

// Unlimit pops the most recently pushed limit, restoring the previous one
// (or removing the limit entirely if the stack is empty).
func (r *ByteReader) Unlimit() {
	if len(r.endStack) == 0 {
		r.end = -1
		return
	}
	r.end = r.endStack[len(r.endStack)-1]
	r.endStack = r.endStack[:len(r.endStack)-1]
}

// Position returns the current offset from the start of the buffer.
func (r *ByteReader) Position() int64 {
	return int64(r.pos)
}

// AtEnd reports whether the reader has reached the active soft limit. With
// no limit pushed, it reports whether the underlying buffer is exhausted.
func (r *ByteReader) AtEnd() bool {
	if r.end < 0 {
		return r.pos >= len(r.buf)
	}
	return r.pos >= r.end
}

// RemainingBytes is the number of bytes until the active limit (or the end
// of the buffer, with no limit pushed).
func (r *ByteReader) RemainingBytes() int64 {
	if r.end < 0 {
		return int64(len(r.buf) - r.pos)
	}
	return int64(r.end - r.pos)
}

// Len is the total length of the wrapped buffer, ignoring any active limit.
func (r *ByteReader) Len() int64 {
	return int64(len(r.buf))
}

// Read implements io.Reader, honoring the active soft limit as an early EOF.
func (r *ByteReader) Read(p []byte) (int, error) {
	limit := len(r.buf)
	if r.end >= 0 && r.end < limit {
		limit = r.end
	}
	if r.pos >= limit {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.pos:limit])
	r.pos += n
	return n, nil
}

// Seek implements io.Seeker relative to the underlying buffer (not the
// active limit); the property codec uses it to rewind after peeking ahead.
func (r *ByteReader) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = int64(r.pos) + offset
	case io.SeekEnd:
		newPos = int64(len(r.buf)) + offset
	}
	r.pos = int(newPos)
	return newPos, nil
}

// ReadByte implements io.ByteReader.
func (r *ByteReader) ReadByte() (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// PeekMatches reports whether the next len(want) bytes equal want, without
// advancing the reader. The active soft limit bounds the comparison: bytes
// past it never match.
func (r *ByteReader) PeekMatches(want []byte) bool {
	limit := len(r.buf)
	if r.end >= 0 && r.end < limit {
		limit = r.end
	}
	if r.pos+len(want) > limit {
		return false
	}
	for i, b := range want {
		if r.buf[r.pos+i] != b {
			return false
		}
	}
	return true
}
