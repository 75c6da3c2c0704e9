package main

import (
	"bytes"
	"testing"

	"github.com/rayrobdod/png-inflate/png"
	"github.com/rayrobdod/png-inflate/zlib"
)

func buildMinimalPNG(t *testing.T) []byte {
	t.Helper()
	ihdr := make([]byte, 13)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // color type

	idatPayload := zlib.DeflateImmediate(bytes.Repeat([]byte{0}, 4))

	chunks := []png.Chunk{
		{Typ: [4]byte{'I', 'H', 'D', 'R'}, Data: ihdr},
		{Typ: [4]byte{'I', 'D', 'A', 'T'}, Data: idatPayload},
		{Typ: [4]byte{'I', 'E', 'N', 'D'}},
	}
	var buf bytes.Buffer
	if err := png.WriteChunks(&buf, chunks); err != nil {
		t.Fatalf("WriteChunks: %v", err)
	}
	return buf.Bytes()
}

func TestRunRewritesStdinToStdout(t *testing.T) {
	in := buildMinimalPNG(t)
	var stdout, stderr bytes.Buffer
	code := run(nil, bytes.NewReader(in), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run() = %d, stderr = %q", code, stderr.String())
	}

	chunks, err := png.ReadChunks(bytes.NewReader(stdout.Bytes()))
	if err != nil {
		t.Fatalf("ReadChunks(output): %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
}

func TestRunIsIdempotent(t *testing.T) {
	in := buildMinimalPNG(t)
	var first, second, stderr bytes.Buffer
	if code := run(nil, bytes.NewReader(in), &first, &stderr); code != 0 {
		t.Fatalf("first run() = %d: %s", code, stderr.String())
	}
	if code := run(nil, bytes.NewReader(first.Bytes()), &second, &stderr); code != 0 {
		t.Fatalf("second run() = %d: %s", code, stderr.String())
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("rewrite is not idempotent")
	}
}

func TestHelpExitsZeroWithoutReadingInput(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--help"}, bytes.NewReader(nil), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run(--help) = %d", code)
	}
	if stdout.Len() == 0 {
		t.Error("expected usage text on stdout")
	}
}

func TestLeadingSlashOptionSynonym(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"/version"}, bytes.NewReader(nil), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("run(/version) = %d", code)
	}
	if stdout.Len() == 0 {
		t.Error("expected version text on stdout")
	}
}
