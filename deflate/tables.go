package deflate

import "github.com/rayrobdod/png-inflate/internal/huffman"

// rangeCode describes how a length or distance symbol expands into an
// actual value: base, plus the next Bits bits read LSB-first.
//
// Grounded on github.com/dsnet/compress/flate's identically-shaped
// rangeCode and the lenLUT/distLUT tables built from it (flate/prefix.go),
// which construct these tables programmatically from the RFC 1951 section
// 3.2.5 pattern rather than transcribing the RFC's tables by hand.
type rangeCode struct {
	base uint32
	bits uint32
}

// numLenSyms is the count of valid length symbols, 257..285 inclusive;
// symbols 286 and 287 occupy slots in the fixed 288-symbol literal/length
// alphabet but are never emitted.
const numLenSyms = 285 - 257 + 1

// numDistSyms is the count of valid distance symbols, 0..29 inclusive;
// symbols 30 and 31 occupy slots in the fixed 32-symbol distance alphabet
// but are never emitted.
const numDistSyms = 30

var (
	lenLUT  [numLenSyms]rangeCode  // symbols 257..285, RFC 1951 section 3.2.5
	distLUT [numDistSyms]rangeCode // symbols 0..29, RFC 1951 section 3.2.5
)

// clenOrder is the fixed permutation RFC 1951 section 3.2.7 uses to read the
// code-length-of-code-lengths alphabet: the HCLEN field supplies this many
// 3-bit lengths, applied to symbols in this order, not in symbol order. This
// is called out in the design notes as the most common implementation
// mistake, so it is isolated here under an explanatory name rather than
// inlined at the call site.
var clenOrder = [maxCLenSyms]uint16{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

func init() {
	// RFC 1951 section 3.2.5: length codes 257..284 follow a repeating
	// pattern of four codes per extra-bit width, widening every four codes
	// starting after the first eight (zero extra bits); symbol 285 is the
	// single fixed case, length 258 with no extra bits.
	for i, base := 0, 3; i < len(lenLUT)-1; i++ {
		nb := uint32(0)
		if i >= 8 {
			nb = uint32((i-8)/4 + 1)
		}
		lenLUT[i] = rangeCode{base: uint32(base), bits: nb}
		base += 1 << nb
	}
	lenLUT[len(lenLUT)-1] = rangeCode{base: 258, bits: 0}

	// RFC 1951 section 3.2.5: distance codes 0..3 (distances 1..4) have zero
	// extra bits, then two codes per extra-bit width starting at code 4.
	for i, base := 0, 1; i < len(distLUT); i++ {
		nb := uint32(0)
		if i >= 4 {
			nb = uint32((i-4)/2 + 1)
		}
		distLUT[i] = rangeCode{base: uint32(base), bits: nb}
		base += 1 << nb
	}
}

// fixedLitDecoder and fixedDistDecoder implement the fixed Huffman tables of
// RFC 1951 section 3.2.6, used by type-1 blocks.
var (
	fixedLitDecoder  = newFixedLitDecoder()
	fixedDistDecoder = newFixedDistDecoder()
)

func newFixedLitDecoder() *huffman.Decoder {
	var codes []huffman.Code
	for i := 0; i < 144; i++ {
		codes = append(codes, huffman.Code{Sym: uint16(i), Len: 8})
	}
	for i := 144; i < 256; i++ {
		codes = append(codes, huffman.Code{Sym: uint16(i), Len: 9})
	}
	for i := 256; i < 280; i++ {
		codes = append(codes, huffman.Code{Sym: uint16(i), Len: 7})
	}
	for i := 280; i < 288; i++ {
		codes = append(codes, huffman.Code{Sym: uint16(i), Len: 8})
	}
	return huffman.NewDecoder(codes)
}

func newFixedDistDecoder() *huffman.Decoder {
	var codes []huffman.Code
	for i := 0; i < 32; i++ {
		codes = append(codes, huffman.Code{Sym: uint16(i), Len: 5})
	}
	return huffman.NewDecoder(codes)
}
