// Package huffman builds and decodes canonical Huffman codes as defined by
// RFC 1951 section 3.2.2, the scheme DEFLATE uses for all three of its
// alphabets (literal/length, distance, and code-length).
//
// The construction follows the two-level table design in
// github.com/dsnet/compress/brotli's prefixDecoder (that package's
// Init/decode split), collapsed to a single lookup keyed by a sentinel-bit
// prefix rather than a dense chunk table: this module decodes whole PNG
// files in one shot rather than a live byte stream, so the constant-time
// multi-bit table lookup the brotli decoder needs for throughput is not
// worth the extra bookkeeping here.
package huffman

import "github.com/rayrobdod/png-inflate/internal/bitio"

const maxCodeLen = 15

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "huffman: " + string(e) }

// ErrCorrupt indicates an over- or under-subscribed code-length table, or an
// unmatched bit sequence during decode.
var ErrCorrupt error = Error("prefix code table is corrupt")

// Code describes one symbol's assigned code length, in the table passed to
// NewDecoder. A zero Len means the symbol is unused and must be omitted.
type Code struct {
	Sym uint16
	Len uint8
}

// Decoder matches a canonically-assigned bit sequence to its symbol.
//
// It is built from a table of (symbol, code length) pairs; the codes
// themselves are assigned by the canonical algorithm: symbols are sorted by
// (length, symbol), and the first code at each length is the previous
// length's next unused code, shifted left by one, starting from 0 at the
// smallest length present.
type Decoder struct {
	// table maps (1<<len | code) to symbol, where code is the Huffman code
	// value with its first-received bit in the most-significant position.
	// The leading 1 bit distinguishes codes of different lengths that would
	// otherwise collide numerically (e.g. code 0 of length 1 versus code 00
	// of length 2).
	table map[uint32]uint16
}

// NewDecoder builds a Decoder from a table of per-symbol code lengths.
// Entries with Len == 0 are dropped. Panics with ErrCorrupt if the lengths
// describe an over-subscribed tree, an under-subscribed one (a lone code of
// length 1 excepted), or if the length of any code exceeds 15 bits. A table
// with no used entries yields a Decoder that matches nothing.
func NewDecoder(codes []Code) *Decoder {
	var used []Code
	for _, c := range codes {
		if c.Len > 0 {
			if c.Len > maxCodeLen {
				panic(ErrCorrupt)
			}
			used = append(used, c)
		}
	}

	d := &Decoder{table: make(map[uint32]uint16, len(used))}
	if len(used) == 0 {
		return d
	}

	var bitCount [maxCodeLen + 1]int
	for _, c := range used {
		bitCount[c.Len]++
	}

	// left counts the codes still unassigned at each length (Kraft sum).
	left := 1
	for length := 1; length <= maxCodeLen; length++ {
		left = left<<1 - bitCount[length]
		if left < 0 {
			panic(ErrCorrupt)
		}
	}
	if left > 0 && !(len(used) == 1 && used[0].Len == 1) {
		panic(ErrCorrupt)
	}

	var code uint32
	var nextCode [maxCodeLen + 1]uint32
	for length := 1; length <= maxCodeLen; length++ {
		code = (code + uint32(bitCount[length-1])) << 1
		nextCode[length] = code
	}

	// Symbols must be assigned codes in ascending symbol order within each
	// length for the canonical assignment to be well-defined; sort (stable,
	// small n) rather than require the caller to pre-sort.
	sorted := append([]Code(nil), used...)
	insertionSortBySymbol(sorted)

	for _, c := range sorted {
		v := nextCode[c.Len]
		nextCode[c.Len]++
		key := uint32(1)<<c.Len | v
		if _, dup := d.table[key]; dup {
			panic(ErrCorrupt)
		}
		d.table[key] = c.Sym
	}
	return d
}

func insertionSortBySymbol(c []Code) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].Sym < c[j-1].Sym; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}

// Decode reads one symbol from r, matching bits most-significant-bit first
// per RFC 1951 section 3.2.2, the shortest matching code winning.
func (d *Decoder) Decode(r *bitio.Reader) (uint16, error) {
	var v uint32 = 1
	for length := 1; length <= maxCodeLen; length++ {
		bit, ok := r.NextBit()
		if !ok {
			return 0, bitio.ErrUnexpectedEOF
		}
		v = v<<1 | bit
		if sym, ok := d.table[v]; ok {
			return sym, nil
		}
	}
	return 0, ErrCorrupt
}
