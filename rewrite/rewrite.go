// Package rewrite implements the per-chunk-type policy that decides whether
// a PNG chunk's payload is re-inflated, passed through untouched, or
// rejected: package png's C5 framing gives it chunks, package zlib does the
// re-inflation work, and the result flows back to package png for writing.
package rewrite

import (
	"bytes"

	"github.com/rayrobdod/png-inflate/png"
	"github.com/rayrobdod/png-inflate/zlib"
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "rewrite: " + string(e) }

// ErrUnsupportedCompressionMethod reports an IHDR compression-method byte,
// or a textual chunk's embedded method byte, that is not 0.
var ErrUnsupportedCompressionMethod error = Error("unsupported compression method")

// CannotCopySafelyError reports a chunk that is not marked safe-to-copy and
// that the current Config does not otherwise allow through.
type CannotCopySafelyError struct{ Typ [4]byte }

func (e CannotCopySafelyError) Error() string { return "rewrite: chunk cannot be copied safely" }

// Config controls the handling of chunk types the core PNG specification
// does not define a compression-aware policy for.
type Config struct {
	// IgnoreUnsafeToCopy allows unrecognised not-safe-to-copy chunks, and
	// APNG chunks, through unmodified instead of failing.
	IgnoreUnsafeToCopy bool
	// ProcessAPNG allows the acTL/fcTL animation chunks through unmodified
	// and enables re-inflation of fdAT frame data.
	ProcessAPNG bool
}

var passthroughTypes = map[[4]byte]bool{
	typ("PLTE"): true, typ("IEND"): true, typ("tRNS"): true, typ("cHRM"): true,
	typ("gAMA"): true, typ("sBIT"): true, typ("sRGB"): true, typ("cICP"): true,
	typ("mDCV"): true, typ("cLLI"): true, typ("tEXt"): true, typ("bKGD"): true,
	typ("hIST"): true, typ("pHYs"): true, typ("sPLT"): true, typ("eXIf"): true,
	typ("tIME"): true, typ("oFFs"): true, typ("pCAL"): true, typ("sCAL"): true,
	typ("gIFg"): true, typ("gIFx"): true, typ("sTER"): true, typ("gIFt"): true,
}

func typ(s string) [4]byte {
	var t [4]byte
	copy(t[:], s)
	return t
}

// Chunk applies the rewrite policy to a single chunk, returning the chunk to
// emit in its place.
func Chunk(cfg Config, c png.Chunk) (png.Chunk, error) {
	switch c.Typ {
	case typ("IHDR"):
		if len(c.Data) < 11 || c.Data[10] != 0 {
			return png.Chunk{}, ErrUnsupportedCompressionMethod
		}
		return c, nil

	case typ("IDAT"):
		out, err := reinflate(c.Data)
		if err != nil {
			return png.Chunk{}, err
		}
		return png.Chunk{Typ: c.Typ, Data: out}, nil

	case typ("zTXt"), typ("iCCP"):
		return rewriteCompressedKeyword(c)

	case typ("iTXt"):
		return rewriteITXt(c)

	case typ("acTL"), typ("fcTL"):
		if cfg.ProcessAPNG || cfg.IgnoreUnsafeToCopy {
			return c, nil
		}
		return png.Chunk{}, CannotCopySafelyError{Typ: c.Typ}

	case typ("fdAT"):
		return rewriteFdAT(cfg, c)
	}

	if passthroughTypes[c.Typ] {
		return c, nil
	}
	if c.SafeToCopy() || cfg.IgnoreUnsafeToCopy {
		return c, nil
	}
	return png.Chunk{}, CannotCopySafelyError{Typ: c.Typ}
}

func reinflate(data []byte) ([]byte, error) {
	decoded, err := zlib.Inflate(data)
	if err != nil {
		return nil, err
	}
	return zlib.DeflateImmediate(decoded), nil
}

// rewriteCompressedKeyword handles zTXt and iCCP, both shaped
// keyword NUL method stream.
func rewriteCompressedKeyword(c png.Chunk) (png.Chunk, error) {
	i := bytes.IndexByte(c.Data, 0)
	if i < 0 || i+1 >= len(c.Data) {
		return png.Chunk{}, png.ErrUnexpectedEOF
	}
	keyword := c.Data[:i]
	method := c.Data[i+1]
	stream := c.Data[i+2:]
	if method != 0 {
		return png.Chunk{}, ErrUnsupportedCompressionMethod
	}

	out, err := reinflate(stream)
	if err != nil {
		return png.Chunk{}, err
	}

	data := make([]byte, 0, len(keyword)+2+len(out))
	data = append(data, keyword...)
	data = append(data, 0, 0)
	data = append(data, out...)
	return png.Chunk{Typ: c.Typ, Data: data}, nil
}

// rewriteITXt handles iTXt: keyword NUL is_compressed method language NUL
// translated_keyword NUL text.
func rewriteITXt(c png.Chunk) (png.Chunk, error) {
	rest := c.Data
	i := bytes.IndexByte(rest, 0)
	if i < 0 {
		return png.Chunk{}, png.ErrUnexpectedEOF
	}
	keyword := rest[:i+1]
	rest = rest[i+1:]

	if len(rest) < 2 {
		return png.Chunk{}, png.ErrUnexpectedEOF
	}
	isCompressed := rest[0]
	method := rest[1]
	rest = rest[2:]

	j := bytes.IndexByte(rest, 0)
	if j < 0 {
		return png.Chunk{}, png.ErrUnexpectedEOF
	}
	language := rest[:j+1]
	rest = rest[j+1:]

	k := bytes.IndexByte(rest, 0)
	if k < 0 {
		return png.Chunk{}, png.ErrUnexpectedEOF
	}
	translatedKeyword := rest[:k+1]
	text := rest[k+1:]

	if isCompressed == 0 {
		return c, nil
	}
	if method != 0 {
		return png.Chunk{}, ErrUnsupportedCompressionMethod
	}

	out, err := reinflate(text)
	if err != nil {
		return png.Chunk{}, err
	}

	data := make([]byte, 0, len(keyword)+2+len(language)+len(translatedKeyword)+len(out))
	data = append(data, keyword...)
	data = append(data, 1, 0)
	data = append(data, language...)
	data = append(data, translatedKeyword...)
	data = append(data, out...)
	return png.Chunk{Typ: c.Typ, Data: data}, nil
}

// rewriteFdAT handles the APNG frame-data chunk: a 4-byte sequence number
// followed by a DEFLATE payload shaped like IDAT's.
func rewriteFdAT(cfg Config, c png.Chunk) (png.Chunk, error) {
	if !cfg.ProcessAPNG {
		if cfg.IgnoreUnsafeToCopy {
			return c, nil
		}
		return png.Chunk{}, CannotCopySafelyError{Typ: c.Typ}
	}
	if len(c.Data) < 4 {
		return png.Chunk{}, png.ErrUnexpectedEOF
	}
	seq := c.Data[:4]
	out, err := reinflate(c.Data[4:])
	if err != nil {
		return png.Chunk{}, err
	}
	data := make([]byte, 0, 4+len(out))
	data = append(data, seq...)
	data = append(data, out...)
	return png.Chunk{Typ: c.Typ, Data: data}, nil
}
