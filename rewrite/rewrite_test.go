package rewrite

import (
	"bytes"
	"testing"

	"github.com/rayrobdod/png-inflate/png"
	"github.com/rayrobdod/png-inflate/zlib"
)

func mkChunk(t string, data []byte) png.Chunk {
	var typ [4]byte
	copy(typ[:], t)
	return png.Chunk{Typ: typ, Data: data}
}

func TestIHDRRejectsUnsupportedCompressionMethod(t *testing.T) {
	data := make([]byte, 13)
	data[10] = 1
	_, err := Chunk(Config{}, mkChunk("IHDR", data))
	if err != ErrUnsupportedCompressionMethod {
		t.Fatalf("got %v, want ErrUnsupportedCompressionMethod", err)
	}
}

func TestIHDRPassesThrough(t *testing.T) {
	data := make([]byte, 13)
	out, err := Chunk(Config{}, mkChunk("IHDR", data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out.Data, data) {
		t.Errorf("IHDR payload changed")
	}
}

func TestIDATRoundTripsThroughStoredOnly(t *testing.T) {
	payload := []byte("the quick brown fox jumps over the lazy dog")
	in := zlib.DeflateImmediate(payload)
	out, err := Chunk(Config{}, mkChunk("IDAT", in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := zlib.Inflate(out.Data)
	if err != nil {
		t.Fatalf("inflating rewritten IDAT: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload changed across rewrite")
	}
}

func TestUnrecognisedSafeChunkPassesThrough(t *testing.T) {
	c := mkChunk("xXXt", []byte("hello"))
	out, err := Chunk(Config{}, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out.Data, c.Data) {
		t.Errorf("payload changed")
	}
}

func TestUnrecognisedUnsafeChunkFails(t *testing.T) {
	c := mkChunk("xXXT", []byte("hello"))
	_, err := Chunk(Config{}, c)
	if _, ok := err.(CannotCopySafelyError); !ok {
		t.Fatalf("got %v, want CannotCopySafelyError", err)
	}
}

func TestUnrecognisedUnsafeChunkAllowedWithFlag(t *testing.T) {
	c := mkChunk("xXXT", []byte("hello"))
	out, err := Chunk(Config{IgnoreUnsafeToCopy: true}, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out.Data, c.Data) {
		t.Errorf("payload changed")
	}
}

func TestACTLRequiresFlag(t *testing.T) {
	c := mkChunk("acTL", []byte{0, 0, 0, 1, 0, 0, 0, 0})
	if _, err := Chunk(Config{}, c); err == nil {
		t.Fatal("expected error without ProcessAPNG or IgnoreUnsafeToCopy")
	}
	if _, err := Chunk(Config{ProcessAPNG: true}, c); err != nil {
		t.Fatalf("unexpected error with ProcessAPNG: %v", err)
	}
}

func TestITXtUncompressedPassesThrough(t *testing.T) {
	data := append([]byte("Title\x00"), 0, 0)
	data = append(data, "\x00\x00"...)
	data = append(data, "hello world"...)
	out, err := Chunk(Config{}, mkChunk("iTXt", data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out.Data, data) {
		t.Errorf("uncompressed iTXt payload changed")
	}
}

func TestZTXtRoundTrips(t *testing.T) {
	text := []byte("a long comment that would normally be compressed")
	compressed := zlib.DeflateImmediate(text)
	data := append([]byte("Comment\x00"), 0)
	data = append(data, compressed...)

	out, err := Chunk(Config{}, mkChunk("zTXt", data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	i := bytes.IndexByte(out.Data, 0)
	stream := out.Data[i+2:]
	got, err := zlib.Inflate(stream)
	if err != nil {
		t.Fatalf("inflating rewritten zTXt: %v", err)
	}
	if !bytes.Equal(got, text) {
		t.Errorf("zTXt text changed across rewrite")
	}
}
