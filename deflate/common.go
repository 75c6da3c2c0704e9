// Package deflate implements the subset of RFC 1951 (DEFLATE) this module
// needs: a full inflater (all three block types) and a deflater that only
// ever emits stored blocks.
//
// The inflater's control-flow shape — a loop over per-block-type functions
// until the final-block flag is seen — follows
// github.com/dsnet/compress/flate's Reader (readBlockHeader/readRawData/
// readBlock), collapsed from that package's resumable io.Reader state
// machine into ordinary functions that each run to completion and return a
// Go error, since this module always has the whole compressed payload in
// memory before inflating it (see package png's chunk reader) rather than
// streaming from an io.Reader a block at a time.
package deflate

const endOfBlockSym = 256 // RFC 1951 section 3.2.3

const (
	maxLitSyms  = 288
	maxDistSyms = 32
	maxCLenSyms = 19

	maxStoredBlockSize = 0xFFFF
)

// Error is the wrapper type for errors specific to this package.
type Error string

func (e Error) Error() string { return "deflate: " + string(e) }

var (
	// ErrNonCompressedLengthInvalid reports a stored block whose LEN field
	// does not equal its NLEN field bitwise-complemented.
	ErrNonCompressedLengthInvalid error = Error("non-compressed block length invalid")

	// ErrInvalidBtype reports the reserved block type (3).
	ErrInvalidBtype error = Error("invalid block type")

	// errCorrupt is an internal detection of a malformed payload (e.g. an
	// over-subscribed Huffman table, an out-of-range back-reference
	// distance) beyond the two specific cases named above. It is not part
	// of the published error taxonomy but is still surfaced as a plain
	// error rather than a crash.
	errCorrupt error = Error("stream is corrupted")
)
