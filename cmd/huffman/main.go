// Command huffman is the static Huffman codec's command-line front end:
// huffman [-e|-d] [-a] [-p] -i <input> -o <output>
package main

import (
	"fmt"
	"os"

	"github.com/kelbwah/huffmin/internal/cli"
)

func main() {
	root := cli.NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "huffman:", err)
		os.Exit(cli.ExitCode(err))
	}
}
