// Package png implements the PNG chunk-framing layer this module needs:
// reading and writing the 8-byte signature and the length/type/data/CRC-32
// chunk structure defined by the PNG specification, plus the IDAT-coalescing
// pass that groups consecutive IDAT chunks before they reach package
// rewrite.
//
// Its reader shape, a function that consumes a whole io.Reader and returns a
// slice of decoded records (rather than an iterator), follows
// github.com/dsnet/compress/flate's non-streaming test harnesses more than
// its production Reader: this module always holds a complete PNG file in
// memory before rewriting it (cmd/png-inflate reads every chunk before
// rewriting any), so there is no benefit to a lazily-pulled chunk sequence.
package png

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
)

var magic = [8]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "png: " + string(e) }

var (
	// ErrMagicMismatch reports a file not beginning with the PNG signature.
	ErrMagicMismatch error = Error("signature mismatch")

	// ErrUnexpectedEOF reports a stream that ended in the middle of a
	// chunk, as opposed to cleanly between two chunks.
	ErrUnexpectedEOF error = Error("unexpected end of file inside a chunk")
)

// InvalidTypError reports a chunk type containing a byte outside the ASCII
// letter ranges.
type InvalidTypError struct{ Typ [4]byte }

func (e InvalidTypError) Error() string { return "png: chunk type is not four ASCII letters" }

// CRCMismatchError reports a chunk whose stored CRC-32 does not match the
// one computed over its type and data.
type CRCMismatchError struct{ Stated, Calculated uint32 }

func (e CRCMismatchError) Error() string { return "png: chunk CRC mismatch" }

// Chunk is one length-prefixed, CRC-checked record of a PNG file.
type Chunk struct {
	Typ  [4]byte
	Data []byte
}

// SafeToCopy reports whether bit 0x20 of the chunk type's fourth byte is
// set, the PNG convention marking a chunk as safe for an editor unaware of
// its semantics to copy through unmodified.
func (c Chunk) SafeToCopy() bool {
	return c.Typ[3]&0x20 != 0
}

func isASCIILetter(b byte) bool {
	return (b >= 0x41 && b <= 0x5A) || (b >= 0x61 && b <= 0x7A)
}

// ReadChunks reads a PNG signature followed by a sequence of chunks,
// stopping at end of file. It does not require an IEND chunk to be present;
// whatever was read is returned.
func ReadChunks(r io.Reader) ([]Chunk, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, ErrMagicMismatch
	}
	if sig != magic {
		return nil, ErrMagicMismatch
	}

	var chunks []Chunk
	for {
		c, ok, err := readChunk(r)
		if err != nil {
			return nil, err
		}
		if !ok {
			return chunks, nil
		}
		chunks = append(chunks, c)
	}
}

func readChunk(r io.Reader) (c Chunk, ok bool, err error) {
	var lengthBuf [4]byte
	n, err := io.ReadFull(r, lengthBuf[:])
	if err != nil {
		if n == 0 && err == io.EOF {
			return Chunk{}, false, nil
		}
		return Chunk{}, false, ErrUnexpectedEOF
	}
	length := binary.BigEndian.Uint32(lengthBuf[:])

	var typ [4]byte
	if _, err := io.ReadFull(r, typ[:]); err != nil {
		return Chunk{}, false, ErrUnexpectedEOF
	}
	for _, b := range typ {
		if !isASCIILetter(b) {
			return Chunk{}, false, InvalidTypError{Typ: typ}
		}
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return Chunk{}, false, ErrUnexpectedEOF
	}

	var crcBuf [4]byte
	if _, err := io.ReadFull(r, crcBuf[:]); err != nil {
		return Chunk{}, false, ErrUnexpectedEOF
	}
	stated := binary.BigEndian.Uint32(crcBuf[:])

	calc := crc32.NewIEEE()
	calc.Write(typ[:])
	calc.Write(data)
	calculated := calc.Sum32()
	if stated != calculated {
		return Chunk{}, false, CRCMismatchError{Stated: stated, Calculated: calculated}
	}

	return Chunk{Typ: typ, Data: data}, true, nil
}

// WriteChunks writes the PNG signature followed by chunks, in order.
func WriteChunks(w io.Writer, chunks []Chunk) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	for _, c := range chunks {
		if err := writeChunk(w, c); err != nil {
			return err
		}
	}
	return nil
}

func writeChunk(w io.Writer, c Chunk) error {
	var lengthBuf [4]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(c.Data)))
	if _, err := w.Write(lengthBuf[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.Typ[:]); err != nil {
		return err
	}
	if _, err := w.Write(c.Data); err != nil {
		return err
	}

	calc := crc32.NewIEEE()
	calc.Write(c.Typ[:])
	calc.Write(c.Data)
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], calc.Sum32())
	_, err := w.Write(crcBuf[:])
	return err
}

var idatType = [4]byte{'I', 'D', 'A', 'T'}

// CoalesceIDAT merges every maximal run of consecutive IDAT chunks into a
// single IDAT chunk holding the concatenation of their payloads. Chunks of
// any other type, and the boundaries between IDAT runs, are left exactly as
// given.
func CoalesceIDAT(chunks []Chunk) []Chunk {
	out := make([]Chunk, 0, len(chunks))
	for i := 0; i < len(chunks); {
		if chunks[i].Typ != idatType {
			out = append(out, chunks[i])
			i++
			continue
		}
		var buf bytes.Buffer
		j := i
		for j < len(chunks) && chunks[j].Typ == idatType {
			buf.Write(chunks[j].Data)
			j++
		}
		out = append(out, Chunk{Typ: idatType, Data: buf.Bytes()})
		i = j
	}
	return out
}
