// Package zlib implements the subset of RFC 1950 (ZLIB) this module needs: a
// header/trailer reader and writer wrapped around package deflate, plus the
// Adler-32 checksum the trailer carries.
//
// Its header bit-packing follows the same "compute a value, solve for the
// remaining free bits" approach github.com/dsnet/compress/flate uses for its
// own length and distance range-code tables, applied here to the mod-31
// check bits instead of a Huffman code.
package zlib

import (
	"encoding/binary"

	"github.com/rayrobdod/png-inflate/internal/bitio"
	"github.com/rayrobdod/png-inflate/deflate"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "zlib: " + string(e) }

var (
	// ErrChecksumMismatchHeader reports a header whose 16-bit value is not
	// a multiple of 31.
	ErrChecksumMismatchHeader error = Error("header is not a multiple of 31")

	// ErrHasPresetDictionary reports a header with the preset-dictionary
	// flag set, a feature this module does not support.
	ErrHasPresetDictionary error = Error("stream specifies a preset dictionary")
)

// UnknownCompressionMethodError reports a header whose compression method is
// not 8 (DEFLATE).
type UnknownCompressionMethodError struct{ Method bitio.U4 }

func (e UnknownCompressionMethodError) Error() string {
	return "zlib: unknown compression method"
}

// ChecksumMismatchError reports an Adler-32 trailer that does not match the
// inflated output.
type ChecksumMismatchError struct{ Given, Calculated uint32 }

func (e ChecksumMismatchError) Error() string { return "zlib: checksum mismatch" }

// Level is the FLEVEL compression-level hint carried in a ZLIB header. It is
// purely informational: this module never performs real compression, so the
// value it emits does not describe the payload that follows it.
type Level uint8

const (
	LevelFastest Level = 0
	LevelFast    Level = 1
	LevelSlow    Level = 2
	LevelSlowest Level = 3
)

// Header is the two-byte ZLIB header, RFC 1950 section 2.2.
type Header struct {
	WindowExponent bitio.U4
	Level          Level
}

// ReadHeader parses a two-byte big-endian header value.
func ReadHeader(val uint16) (Header, error) {
	if val%31 != 0 {
		return Header{}, ErrChecksumMismatchHeader
	}
	cmf := byte(val >> 8)
	flg := byte(val)

	windowExponent, method := bitio.Split(cmf)
	if method != 8 {
		return Header{}, UnknownCompressionMethodError{Method: method}
	}
	if flg&0x20 != 0 {
		return Header{}, ErrHasPresetDictionary
	}
	return Header{
		WindowExponent: windowExponent,
		Level:          Level(flg >> 6),
	}, nil
}

// Write packs h into its two-byte big-endian header value, choosing the
// low 5 bits of the second byte (FCHECK) so the result is a multiple of 31.
func (h Header) Write() uint16 {
	cmf := bitio.Concat(h.WindowExponent, bitio.TruncateU4(8))
	base := uint16(cmf)<<8 | uint16(h.Level)<<6
	fcheck := (31 - base%31) % 31
	return base + fcheck
}

// Inflate parses a ZLIB stream held entirely in data: a two-byte header, a
// DEFLATE payload, and a four-byte big-endian Adler-32 trailer.
func Inflate(data []byte) ([]byte, error) {
	if len(data) < 6 {
		return nil, bitio.ErrUnexpectedEOF
	}
	headerVal := binary.BigEndian.Uint16(data[0:2])
	if _, err := ReadHeader(headerVal); err != nil {
		return nil, err
	}

	payload := data[2 : len(data)-4]
	trailer := data[len(data)-4:]

	out, err := deflate.Inflate(payload)
	if err != nil {
		return nil, err
	}

	given := binary.BigEndian.Uint32(trailer)
	calculated := Adler32(out)
	if given != calculated {
		return nil, ChecksumMismatchError{Given: given, Calculated: calculated}
	}
	return out, nil
}

// DeflateImmediate wraps data in a ZLIB stream whose payload is an
// uncompressed (stored-block only) DEFLATE stream: a fixed header
// (method 8, 32KB window, fastest level hint), the stored payload, and an
// Adler-32 trailer.
func DeflateImmediate(data []byte) []byte {
	h := Header{WindowExponent: 7, Level: LevelFastest}
	headerVal := h.Write()

	out := make([]byte, 2, 2+len(data)+4)
	binary.BigEndian.PutUint16(out, headerVal)
	out = append(out, deflate.DeflateImmediate(data)...)

	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], Adler32(data))
	return append(out, trailer[:]...)
}

const adlerMod = 65521

// Adler32 computes the RFC 1950 section 9 checksum of data.
func Adler32(data []byte) uint32 {
	s1, s2 := uint32(1), uint32(0)
	for _, b := range data {
		s1 = (s1 + uint32(b)) % adlerMod
		s2 = (s2 + s1) % adlerMod
	}
	return s2<<16 | s1
}
