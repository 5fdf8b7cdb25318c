// Command chapgen generates sermon chapters from a transcript file and lists
// the book and topic vocabularies the generator recognizes.
package main

import (
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
