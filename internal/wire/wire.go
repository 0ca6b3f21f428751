// Package wire implements the small set of binary-encoding primitives the
// artifact bundle is built from: a variable-length unsigned integer
// ("multibyte") for counts, and a length-prefixed string for keys and
// literals. Each primitive is independently testable against an
// io.Writer/io.Reader, the same shape the teacher's base-63 ID codec took
// for its own narrow encoding concern.
package wire

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"math"
)

// ErrOverflow is returned when a multibyte-encoded value would not fit in
// a uint64 after decoding (more than 10 continuation groups).
var ErrOverflow = errors.New("wire: multibyte value overflows uint64")

// WriteMultibyte writes v as a little-endian base-128 varint: each byte
// carries 7 value bits, with the high bit set on every byte but the last.
// This mirrors the shape pinned down by the original compiler's call site
// for its recogniser count — a byte-oriented variable-length unsigned integer written immediately
// before a repeated-N-items section.
func WriteMultibyte(w io.Writer, v uint64) error {
	var buf [10]byte
	n := 0
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf[n] = b
		n++
		if v == 0 {
			break
		}
	}
	_, err := w.Write(buf[:n])
	return err
}

// ReadMultibyte reads a value written by WriteMultibyte.
func ReadMultibyte(r io.ByteReader) (uint64, error) {
	var v uint64
	var shift uint
	for i := 0; ; i++ {
		if i >= 10 {
			return 0, ErrOverflow
		}
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}

// WriteWString writes a length-prefixed string: a multibyte byte-length,
// then the UTF-8 bytes of s. The original format carries wide-character
// strings (the runtime applier's host language uses wchar_t); Go has no
// equivalent native wide-string type, so WriteWString encodes the string's
// UTF-8 byte length instead of a codepoint count. This is a deliberate
// simplification recorded in DESIGN.md: it keeps the round trip exact for
// every string this compiler itself produces (alphabet symbol names,
// recogniser keys, the "main" literal), since none of them are ever
// decoded by anything outside this core's own tests.
func WriteWString(w io.Writer, s string) error {
	if err := WriteMultibyte(w, uint64(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// ReadWString reads a string written by WriteWString.
func ReadWString(r *bufio.Reader) (string, error) {
	n, err := ReadMultibyte(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// WriteUint32LE writes v as 4 little-endian bytes, the integer width and
// byte order the runtime applier's rule-ID records use (spec §6 item 6:
// "integer and double fields written in defined-endian, little-endian on
// the wire").
func WriteUint32LE(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// WriteFloat64LE writes v as 8 little-endian bytes (IEEE 754 binary64),
// the weight field's wire representation.
func WriteFloat64LE(w io.Writer, v float64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadUint32LE reads a value written by WriteUint32LE.
func ReadUint32LE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// ReadFloat64LE reads a value written by WriteFloat64LE.
func ReadFloat64LE(r io.Reader) (float64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}
