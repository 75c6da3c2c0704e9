// Command png-inflate rewrites a PNG file so that every embedded DEFLATE
// stream uses only stored (uncompressed) blocks.
//
// Its option-parsing shape, hand-rolled rather than built on the standard
// library's flag package, follows the same reasoning the design notes give
// for the package's other stdlib uses: flag does not support this
// interface's leading-slash option synonyms or its bare "-?" help alias, and
// no option-parsing library appears anywhere in the retrieved corpus to
// generalize from instead.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rayrobdod/png-inflate/png"
	"github.com/rayrobdod/png-inflate/rewrite"
)

const usage = `usage: png-inflate [OPTIONS] [--] infile.png [outfile.png]
       png-inflate [OPTIONS] < infile.png > outfile.png
       png-inflate --help|-?|--version

options:
  --apng                 rewrite acTL/fcTL/fdAT animation chunks
  --copy-unsafe           pass through unrecognised not-safe-to-copy chunks
  --assume-filename NAME  filename to use in diagnostics when reading stdin
  --compare               report stored-only size against external compressors
  --help, -?              show this message
  --version               show version information
`

const version = "png-inflate (rayrobdod/png-inflate), Go rewrite"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	cfg            rewrite.Config
	compare        bool
	assumeFilename string
	inPath         string
	outPath        string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, code, done := parseArgs(args, stdout, stderr)
	if done {
		return code
	}

	displayName := opts.inPath
	if displayName == "" {
		displayName = opts.assumeFilename
		if displayName == "" {
			displayName = "<stdin>"
		}
	}

	in, closeIn, err := openInput(opts.inPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", displayName, err)
		return 1
	}
	defer closeIn()

	chunks, err := png.ReadChunks(in)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", displayName, err)
		return 1
	}

	coalesced := png.CoalesceIDAT(chunks)
	out := make([]png.Chunk, len(coalesced))
	for i, c := range coalesced {
		rewritten, err := rewrite.Chunk(opts.cfg, c)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", displayName, err)
			return 1
		}
		out[i] = rewritten
	}

	if opts.compare {
		reportComparison(stderr, chunks, out)
	}

	if err := writeOutputAtomically(opts.outPath, stdout, out); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", displayName, err)
		return 1
	}
	return 0
}

// parseArgs interprets args, normalizing leading-slash long options to
// double-dash form before matching them. done is true when main should exit
// immediately (help, version, or a usage error) without running the
// pipeline.
func parseArgs(args []string, stdout, stderr io.Writer) (opts options, code int, done bool) {
	var positional []string
	endOfOptions := false

	for i := 0; i < len(args); i++ {
		a := args[i]
		if endOfOptions {
			positional = append(positional, a)
			continue
		}
		if a == "--" {
			endOfOptions = true
			continue
		}
		if len(a) > 1 && a[0] == '/' {
			a = "--" + a[1:]
		}

		switch a {
		case "--help", "-?":
			fmt.Fprint(stdout, usage)
			return options{}, 0, true
		case "--version":
			fmt.Fprintln(stdout, version)
			return options{}, 0, true
		case "--apng":
			opts.cfg.ProcessAPNG = true
		case "--copy-unsafe":
			opts.cfg.IgnoreUnsafeToCopy = true
		case "--compare":
			opts.compare = true
		case "--assume-filename":
			i++
			if i >= len(args) {
				fmt.Fprintln(stderr, "png-inflate: --assume-filename requires an argument")
				return options{}, 1, true
			}
			opts.assumeFilename = args[i]
		default:
			if len(a) > 0 && a[0] == '-' && a != "-" {
				fmt.Fprintf(stderr, "png-inflate: unrecognised option %q\n", a)
				return options{}, 1, true
			}
			positional = append(positional, a)
		}
	}

	if len(positional) > 2 {
		fmt.Fprint(stderr, usage)
		return options{}, 1, true
	}
	if len(positional) >= 1 {
		opts.inPath = positional[0]
	}
	if len(positional) == 2 {
		opts.outPath = positional[1]
	}
	return opts, 0, false
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "" {
		return stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// writeOutputAtomically writes chunks to outPath via a temporary sibling
// file and renames it into place, so a failed or interrupted write never
// leaves a partial file at the destination. An empty outPath writes
// directly to stdout, where atomicity is the caller's problem, not this
// command's.
func writeOutputAtomically(outPath string, stdout io.Writer, chunks []png.Chunk) error {
	if outPath == "" {
		return png.WriteChunks(stdout, chunks)
	}

	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, filepath.Base(outPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := png.WriteChunks(tmp, chunks); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, outPath)
}

func chunkStreamSize(chunks []png.Chunk) int {
	n := 8
	for _, c := range chunks {
		n += 4 + 4 + len(c.Data) + 4
	}
	return n
}
