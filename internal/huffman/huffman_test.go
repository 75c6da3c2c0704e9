package huffman

import (
	"testing"

	"github.com/rayrobdod/png-inflate/internal/bitio"
)

// TestDecodeRFCExample builds the canonical code table from RFC 1951's own
// worked example in section 3.2.2: lengths (3,3,3,3,3,2,4,4) for symbols
// A..H, producing codes 010,011,100,101,110,00,1110,1111.
func TestDecodeRFCExample(t *testing.T) {
	d := NewDecoder([]Code{
		{Sym: 'A', Len: 3},
		{Sym: 'B', Len: 3},
		{Sym: 'C', Len: 3},
		{Sym: 'D', Len: 3},
		{Sym: 'E', Len: 3},
		{Sym: 'F', Len: 2},
		{Sym: 'G', Len: 4},
		{Sym: 'H', Len: 4},
	})

	tests := []struct {
		bits []uint32
		want uint16
	}{
		{[]uint32{0, 1, 0}, 'A'},
		{[]uint32{0, 1, 1}, 'B'},
		{[]uint32{1, 0, 0}, 'C'},
		{[]uint32{1, 0, 1}, 'D'},
		{[]uint32{1, 1, 0}, 'E'},
		{[]uint32{0, 0}, 'F'},
		{[]uint32{1, 1, 1, 0}, 'G'},
		{[]uint32{1, 1, 1, 1}, 'H'},
	}
	for _, tt := range tests {
		r := bitio.NewReader(packMSBFirst(tt.bits))
		got, err := d.Decode(r)
		if err != nil {
			t.Fatalf("Decode(%v): %v", tt.bits, err)
		}
		if got != tt.want {
			t.Errorf("Decode(%v) = %c, want %c", tt.bits, got, tt.want)
		}
	}
}

func TestNewDecoderRejectsOversubscribed(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for an over-subscribed code table")
		}
	}()
	NewDecoder([]Code{
		{Sym: 0, Len: 1},
		{Sym: 1, Len: 1},
		{Sym: 2, Len: 1},
	})
}

// packMSBFirst packs a sequence of individual bits, as would be matched
// MSB-first by Decode, into bytes whose bits bitio.Reader yields in the same
// order: bitio reads LSB of each byte first, so bit i of the input sequence
// must land at bit (i mod 8) of its byte.
func packMSBFirst(bits []uint32) []byte {
	nbytes := (len(bits) + 7) / 8
	out := make([]byte, nbytes)
	for i, b := range bits {
		if b != 0 {
			out[i/8] |= 1 << uint(i%8)
		}
	}
	return out
}
