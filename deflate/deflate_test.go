package deflate

import (
	"bytes"
	"testing"
)

func TestInflateFixedHuffman(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []byte
	}{
		{
			name: "single zero byte",
			in:   []byte{0x63, 0x00, 0x00},
			want: []byte{0x00},
		},
		{
			name: "four zero bytes via backreference",
			in:   []byte{0x63, 0x00, 0x02, 0x00},
			want: []byte{0, 0, 0, 0},
		},
		{
			name: "abcde repeated five times",
			in:   []byte{0x4B, 0x4C, 0x4A, 0x4E, 0x49, 0xC5, 0x46, 0x00, 0x00},
			want: bytes.Repeat([]byte("abcde"), 5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Inflate(tt.in)
			if err != nil {
				t.Fatalf("Inflate: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Inflate(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDeflateImmediateRoundTrip(t *testing.T) {
	tests := [][]byte{
		nil,
		[]byte{},
		[]byte("hello, world"),
		bytes.Repeat([]byte{0xAB}, 0x10000+37),
	}
	for _, in := range tests {
		enc := DeflateImmediate(in)
		got, err := Inflate(enc)
		if err != nil {
			t.Fatalf("Inflate(DeflateImmediate(%d bytes)): %v", len(in), err)
		}
		if !bytes.Equal(got, in) {
			t.Errorf("round trip of %d bytes did not match", len(in))
		}
	}
}

func TestDeflateImmediateEmptyIsOneFinalBlock(t *testing.T) {
	enc := DeflateImmediate(nil)
	if len(enc) != 5 {
		t.Fatalf("empty input: got %d bytes, want 5 (header+len+nlen)", len(enc))
	}
	if enc[0] != 1 {
		t.Errorf("empty input: final-block flag not set, header = %#x", enc[0])
	}
}

func TestInflateInvalidBtype(t *testing.T) {
	// final=1, btype=3 (reserved): 0b111 LSB-first packed into the first
	// three bits of the byte.
	_, err := Inflate([]byte{0x07})
	if err != ErrInvalidBtype {
		t.Errorf("Inflate(reserved btype) = %v, want ErrInvalidBtype", err)
	}
}

func TestInflateStoredLengthMismatch(t *testing.T) {
	// final=1, btype=0, then LEN=1, NLEN=1 (should be ^1).
	_, err := Inflate([]byte{0x01, 0x01, 0x00, 0x01, 0x00, 0xAA})
	if err != ErrNonCompressedLengthInvalid {
		t.Errorf("Inflate(bad NLEN) = %v, want ErrNonCompressedLengthInvalid", err)
	}
}
