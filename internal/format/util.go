package format

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// readBytes reads exactly n bytes, erroring with context on premature EOF —
// this is the codec's one choke point for spec.md's "Premature EOF" error
// kind.
func readBytes(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, errors.Wrapf(err, "reading %d bytes", n)
	}
	return buf, nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.Wrap(err, "reading u32")
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.Wrap(err, "reading u64")
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func writeU64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readI32(r io.Reader) (int32, error) {
	v, err := readU32(r)
	return int32(v), err
}

func writeI32(w io.Writer, v int32) error {
	return writeU32(w, uint32(v))
}

func readU16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.Wrap(err, "reading u16")
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

func writeU16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// readBool32 reads a 4-byte boolean, the on-disk representation used
// throughout the export record (spec.md §3: "Booleans are 4 bytes").
func readBool32(r io.Reader) (bool, error) {
	v, err := readU32(r)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func writeBool32(w io.Writer, v bool) error {
	if v {
		return writeU32(w, 1)
	}
	return writeU32(w, 0)
}

// ReadLengthPrefixedString reads a u32 byte-length (including the trailing
// nul) followed by that many bytes, with the final byte being the nul
// terminator stripped from the returned string.
func ReadLengthPrefixedString(r io.Reader) (string, error) {
	length, err := readU32(r)
	if err != nil {
		return "", errors.Wrap(err, "reading string length")
	}
	if length == 0 {
		return "", nil
	}
	raw, err := readBytes(r, int(length))
	if err != nil {
		return "", errors.Wrap(err, "reading string body")
	}
	return string(bytes.TrimRight(raw, "\x00")), nil
}

// WriteLengthPrefixedString is the inverse of ReadLengthPrefixedString.
func WriteLengthPrefixedString(w io.Writer, s string) error {
	if s == "" {
		return writeU32(w, 0)
	}
	if err := writeU32(w, uint32(len(s)+1)); err != nil {
		return err
	}
	if _, err := w.Write([]byte(s)); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

// PositionMismatchError is returned whenever a section's reader position
// doesn't match the offset the summary declares for it (spec.md §7).
type PositionMismatchError struct {
	Section  string
	Expected int64
	Actual   int64
}

func (e *PositionMismatchError) Error() string {
	return fmt.Sprintf("%s: expected to be at position %#X, but at %#X", e.Section, e.Expected, e.Actual)
}

// CheckPosition returns a *PositionMismatchError if pos != want.
func CheckPosition(section string, want, pos int64) error {
	if pos != want {
		return &PositionMismatchError{Section: section, Expected: want, Actual: pos}
	}
	return nil
}
