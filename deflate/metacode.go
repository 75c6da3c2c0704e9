package deflate

import "github.com/rayrobdod/png-inflate/internal/bitio"
import "github.com/rayrobdod/png-inflate/internal/huffman"

// readDynamicTables reads the HLIT/HDIST/HCLEN header and the two code-length
// sequences of a type-2 block, per RFC 1951 section 3.2.7, and returns the
// literal/length and distance decoders they describe.
func readDynamicTables(r *bitio.Reader) (lit, dist *huffman.Decoder, err error) {
	hlit, err := r.ReadBitsLSB(5)
	if err != nil {
		return nil, nil, err
	}
	hdist, err := r.ReadBitsLSB(5)
	if err != nil {
		return nil, nil, err
	}
	hclen, err := r.ReadBitsLSB(4)
	if err != nil {
		return nil, nil, err
	}
	numLit := int(hlit) + 257
	numDist := int(hdist) + 1
	numClen := int(hclen) + 4

	var clenLens [maxCLenSyms]uint8
	for i := 0; i < numClen; i++ {
		v, err := r.ReadBitsLSB(3)
		if err != nil {
			return nil, nil, err
		}
		clenLens[clenOrder[i]] = uint8(v)
	}

	var clenCodes []huffman.Code
	for sym, length := range clenLens {
		if length > 0 {
			clenCodes = append(clenCodes, huffman.Code{Sym: uint16(sym), Len: length})
		}
	}
	if len(clenCodes) == 0 {
		return nil, nil, errCorrupt
	}
	clenDecoder := safeNewDecoder(clenCodes)
	if clenDecoder == nil {
		return nil, nil, errCorrupt
	}

	lens, err := readCodeLengths(r, clenDecoder, numLit+numDist)
	if err != nil {
		return nil, nil, err
	}

	var litCodes, distCodes []huffman.Code
	for sym, length := range lens[:numLit] {
		if length > 0 {
			litCodes = append(litCodes, huffman.Code{Sym: uint16(sym), Len: length})
		}
	}
	for sym, length := range lens[numLit:] {
		if length > 0 {
			distCodes = append(distCodes, huffman.Code{Sym: uint16(sym), Len: length})
		}
	}

	lit = safeNewDecoder(litCodes)
	if lit == nil {
		return nil, nil, errCorrupt
	}
	// A single-symbol distance alphabet (or an empty one, when the data
	// simply never back-references) is legal; only build a decoder when
	// there is something to decode.
	if len(distCodes) > 0 {
		dist = safeNewDecoder(distCodes)
		if dist == nil {
			return nil, nil, errCorrupt
		}
	}
	return lit, dist, nil
}

// readCodeLengths decodes n code lengths using the code-length alphabet
// described by clenDecoder. Symbols 0..15 are literal lengths; 16 repeats the
// previous length 3..6 times; 17 and 18 repeat a zero length 3..10 and
// 11..138 times respectively.
func readCodeLengths(r *bitio.Reader, clenDecoder *huffman.Decoder, n int) ([]uint8, error) {
	lens := make([]uint8, n)
	var prev uint8
	i := 0
	for i < n {
		sym, err := clenDecoder.Decode(r)
		if err != nil {
			return nil, err
		}
		switch {
		case sym <= 15:
			lens[i] = uint8(sym)
			prev = uint8(sym)
			i++
		case sym == 16:
			if i == 0 {
				return nil, errCorrupt
			}
			extra, err := r.ReadBitsLSB(2)
			if err != nil {
				return nil, err
			}
			repeat := int(extra) + 3
			if i+repeat > n {
				return nil, errCorrupt
			}
			for ; repeat > 0; repeat-- {
				lens[i] = prev
				i++
			}
		case sym == 17:
			extra, err := r.ReadBitsLSB(3)
			if err != nil {
				return nil, err
			}
			repeat := int(extra) + 3
			if i+repeat > n {
				return nil, errCorrupt
			}
			i += repeat
			prev = 0
		case sym == 18:
			extra, err := r.ReadBitsLSB(7)
			if err != nil {
				return nil, err
			}
			repeat := int(extra) + 11
			if i+repeat > n {
				return nil, errCorrupt
			}
			i += repeat
			prev = 0
		default:
			return nil, errCorrupt
		}
	}
	return lens, nil
}

// safeNewDecoder converts huffman.NewDecoder's panic-on-corrupt-table
// convention into a nil return, since a dynamic block's tables come straight
// from untrusted input.
func safeNewDecoder(codes []huffman.Code) (d *huffman.Decoder) {
	defer func() {
		if recover() != nil {
			d = nil
		}
	}()
	return huffman.NewDecoder(codes)
}
