package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/bflang/bfjit/internal/core"
	"github.com/bflang/bfjit/internal/hostio"
	"github.com/bflang/bfjit/internal/native"
	"github.com/bflang/bfjit/internal/portable"
	"github.com/bflang/bfjit/internal/tape"
	"github.com/bflang/bfjit/internal/vm"
)

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	backend := fs.String("backend", "interpret", "backend: interpret, jit, or crane-lift")
	cells := fs.Int("cells", core.TapeSize, "tape size in bytes")
	measure := fs.Int("measure", 0, "repeat execution this many times and report timings (0 disables)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: bf run [-backend interpret|jit|crane-lift] [-cells n] [-measure n] <file>")
		fs.PrintDefaults()
		os.Exit(1)
	}
	fs.Parse(args)

	if fs.NArg() != 1 {
		fs.Usage()
	}
	if *backend != "interpret" && *backend != "jit" && *backend != "crane-lift" {
		fmt.Fprintf(os.Stderr, "invalid -backend %q: must be interpret, jit, or crane-lift\n", *backend)
		os.Exit(1)
	}

	file := filepath.Clean(fs.Arg(0))
	src := readSource(file)

	ops := core.Optimise(core.Parse(core.Tokenize(src)))
	if err := core.Backpatch(ops); err != nil {
		log.WithError(err).Error("bracket mismatch, refusing to run")
		os.Exit(1)
	}

	printer := hostio.NewStreamPrinter(os.Stdout)
	scanner := hostio.NewLineScanner(os.Stdin)
	defer printer.Flush()

	if *measure > 0 {
		runBench(*backend, ops, *cells, printer, scanner, *measure)
		return
	}

	if err := runOnce(*backend, ops, *cells, printer, scanner); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runOnce(backend string, ops []core.Op, cells int, printer hostio.Printer, scanner hostio.Scanner) error {
	switch backend {
	case "interpret":
		machine := vm.New(vm.WithMemorySize(cells), vm.WithPrinter(printer), vm.WithScanner(scanner))
		return machine.Run(ops)

	case "jit":
		return native.Execute(ops, tape.New(cells), printer, scanner)

	case "crane-lift":
		portable.Compile(ops).Run(tape.New(cells), printer, scanner)
		return nil
	}
	return fmt.Errorf("unknown backend %q", backend)
}

func runBench(backend string, ops []core.Op, cells int, printer hostio.Printer, scanner hostio.Scanner, repeats int) {
	var total time.Duration

	switch backend {
	case "interpret":
		machine := vm.New(vm.WithMemorySize(cells), vm.WithPrinter(printer), vm.WithScanner(scanner))
		for i := 0; i < repeats; i++ {
			start := time.Now()
			if err := machine.Run(ops); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			total += time.Since(start)
		}

	case "jit":
		m, err := native.ExecuteBench(ops, tape.New(cells), printer, scanner, repeats)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		total = m.Total()

	case "crane-lift":
		m := portable.Compile(ops).RunBench(tape.New(cells), printer, scanner, repeats)
		total = m.Total()

	default:
		fmt.Fprintf(os.Stderr, "unknown backend %q\n", backend)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "%s: %d runs, total %s, average %s\n", backend, repeats, total, total/time.Duration(repeats))
}
