package deflate

// DeflateImmediate encodes data as a sequence of RFC 1951 stored (type 0)
// blocks, performing no compression whatsoever. Each block holds at most
// maxStoredBlockSize bytes; empty input still produces a single empty final
// block, so that every DEFLATE stream this module writes has at least one
// block.
//
// This is the module's only writer: it never needs to reproduce a Huffman
// encoder, since every embedded stream it rewrites is re-emitted uncompressed
// (see the rewrite package).
func DeflateImmediate(data []byte) []byte {
	var out []byte
	for {
		chunk := data
		final := true
		if len(chunk) > maxStoredBlockSize {
			chunk = chunk[:maxStoredBlockSize]
			final = false
		}

		var header byte
		if final {
			header = 1
		}
		out = append(out, header)

		n := uint16(len(chunk))
		out = append(out, byte(n), byte(n>>8))
		out = append(out, byte(^n), byte(^n>>8))
		out = append(out, chunk...)

		data = data[len(chunk):]
		if final {
			break
		}
	}
	return out
}
