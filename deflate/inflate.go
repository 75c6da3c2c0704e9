package deflate

import (
	"bytes"

	"github.com/rayrobdod/png-inflate/internal/bitio"
	"github.com/rayrobdod/png-inflate/internal/huffman"
)

// Inflate decodes a complete RFC 1951 DEFLATE stream held entirely in data,
// returning the decompressed bytes.
//
// Its block-type dispatch follows github.com/dsnet/compress/flate's Reader
// (readBlockHeader/readBlock), but as a single pass over an in-memory buffer:
// this module only ever inflates whole PNG chunk streams that have already
// been assembled in memory, so there is no streaming io.Reader to resume
// against block boundaries.
func Inflate(data []byte) ([]byte, error) {
	r := bitio.NewReader(data)
	var out bytes.Buffer

	for {
		final, err := r.ReadBitsLSB(1)
		if err != nil {
			return nil, err
		}
		btype, err := r.ReadBitsLSB(2)
		if err != nil {
			return nil, err
		}

		switch btype {
		case 0:
			if err := inflateStored(r, &out); err != nil {
				return nil, err
			}
		case 1:
			if err := inflateHuffman(r, &out, fixedLitDecoder, fixedDistDecoder); err != nil {
				return nil, err
			}
		case 2:
			lit, dist, err := readDynamicTables(r)
			if err != nil {
				return nil, err
			}
			if err := inflateHuffman(r, &out, lit, dist); err != nil {
				return nil, err
			}
		default:
			return nil, ErrInvalidBtype
		}

		if final != 0 {
			break
		}
	}
	return out.Bytes(), nil
}

func inflateStored(r *bitio.Reader, out *bytes.Buffer) error {
	rest := r.AlignToByte()
	if len(rest) < 4 {
		return bitio.ErrUnexpectedEOF
	}
	length := uint16(rest[0]) | uint16(rest[1])<<8
	nlength := uint16(rest[2]) | uint16(rest[3])<<8
	if nlength != length^0xFFFF {
		return ErrNonCompressedLengthInvalid
	}
	rest = rest[4:]
	if len(rest) < int(length) {
		return bitio.ErrUnexpectedEOF
	}
	out.Write(rest[:length])
	r.Advance(4 + int(length))
	return nil
}

// inflateHuffman decodes one Huffman-coded block (fixed or dynamic) using
// the given literal/length and distance decoders, appending to out. dist may
// be nil if the block's distance alphabet was empty, which is only valid if
// no back-reference is ever decoded.
func inflateHuffman(r *bitio.Reader, out *bytes.Buffer, lit, dist *huffman.Decoder) error {
	for {
		sym, err := lit.Decode(r)
		if err != nil {
			return err
		}
		switch {
		case sym < 256:
			out.WriteByte(byte(sym))
		case sym == endOfBlockSym:
			return nil
		case int(sym) < len(lenLUT)+257:
			lc := lenLUT[sym-257]
			extra, err := r.ReadBitsLSB(uint(lc.bits))
			if err != nil {
				return err
			}
			length := int(lc.base) + int(extra)

			if dist == nil {
				return errCorrupt
			}
			dsym, err := dist.Decode(r)
			if err != nil {
				return err
			}
			if int(dsym) >= len(distLUT) {
				return errCorrupt
			}
			dc := distLUT[dsym]
			dextra, err := r.ReadBitsLSB(uint(dc.bits))
			if err != nil {
				return err
			}
			distance := int(dc.base) + int(dextra)

			if distance <= 0 || distance > out.Len() {
				return errCorrupt
			}
			copyBackref(out, distance, length)
		default:
			return errCorrupt
		}
	}
}

// copyBackref appends length bytes to out, copying from distance bytes
// before the current end. The source and destination ranges may overlap
// (the defining case is distance < length), so the copy proceeds one byte
// at a time rather than via a single slice copy.
func copyBackref(out *bytes.Buffer, distance, length int) {
	b := out.Bytes()
	start := len(b) - distance
	for i := 0; i < length; i++ {
		out.WriteByte(b[start+i])
		b = out.Bytes()
	}
}
