// Command bf is the Brainfuck execution engine's CLI: it wires the
// compilation pipeline (tokenize -> parse -> optimize -> back-patch) to
// one of three backends, plus a couple of debug dumps used while working
// on the pipeline itself.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bf <command> [options] <file>

commands:
  run [-backend interpret|jit|crane-lift] [-cells n] [-measure n] <file>
                            Run the program (default -backend interpret)
  tokens <file>             Dump tokenizer output
  ir <file>                 Dump the optimized, back-patched IR`)
	os.Exit(1)
}

func readSource(file string) []byte {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return src
}

func main() {
	log.SetOutput(os.Stderr)

	if len(os.Args) < 2 {
		usage()
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "tokens":
		cmdTokens(args)
	case "ir":
		cmdIR(args)
	case "run":
		cmdRun(args)
	default:
		usage()
	}
}
