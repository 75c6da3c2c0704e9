// Command png-check reads a file and reports whether it parses as a
// structurally valid PNG chunk stream, without validating pixel content.
//
// Grounded on _examples/original_source/src/check.rs: the Rust program this
// module's corpus was distilled from includes exactly this minimal
// validator alongside the inflater, built on the same chunk reader.
package main

import (
	"fmt"
	"os"

	"github.com/rayrobdod/png-inflate/png"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s input.png\n", os.Args[0])
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()

	if _, err := png.ReadChunks(f); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	fmt.Println("OK")
}
