package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bflang/bfjit/internal/core"
)

func cmdIR(args []string) {
	fs := flag.NewFlagSet("ir", flag.ExitOnError)
	raw := fs.Bool("raw", false, "dump the parsed op stream before optimizing/back-patching")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bf ir [-raw] <file>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
	}

	file := filepath.Clean(fs.Arg(0))
	src := readSource(file)

	ops := core.Parse(core.Tokenize(src))
	if !*raw {
		ops = core.Optimise(ops)
		if err := core.Backpatch(ops); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	fmt.Print(core.Dump(ops))
}
