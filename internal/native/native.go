package native

import (
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/bflang/bfjit/internal/bench"
	"github.com/bflang/bfjit/internal/core"
	"github.com/bflang/bfjit/internal/hostio"
)

// Execute lowers ops to native code, maps it executable, and calls it once
// with tape, printer and scanner as the host collaborators, per spec §4.5
// and §4.6. ops must not contain an unresolved bracket; callers should run
// core.Backpatch first purely for diagnostics, since this backend performs
// its own fix-up during emission and ignores any Target already set.
func Execute(ops []core.Op, tape []byte, printer hostio.Printer, scanner hostio.Scanner) error {
	code, err := Emit(ops)
	if err != nil {
		return err
	}

	mem, err := allocExecutable(code)
	if err != nil {
		return err
	}
	defer mem.Close()

	tr := newTrampolines(printer, scanner)
	defer tr.release()

	purego.SyscallN(mem.entry(),
		uintptr(unsafe.Pointer(&tape[0])),
		uintptr(tr.printerObj),
		tr.printerFn,
		uintptr(tr.scannerObj),
		tr.scannerFn,
	)
	return nil
}

// ExecuteBench emits and maps the code once, then invokes it repeats times,
// timing each run. The tape is reused as-is across runs, matching the
// source's Runner::exec_bench capability.
func ExecuteBench(ops []core.Op, tape []byte, printer hostio.Printer, scanner hostio.Scanner, repeats int) (*bench.Measured, error) {
	code, err := Emit(ops)
	if err != nil {
		return nil, err
	}

	mem, err := allocExecutable(code)
	if err != nil {
		return nil, err
	}
	defer mem.Close()

	tr := newTrampolines(printer, scanner)
	defer tr.release()

	var m bench.Measured
	for i := 0; i < repeats; i++ {
		m.Measure("run", func() {
			purego.SyscallN(mem.entry(),
				uintptr(unsafe.Pointer(&tape[0])),
				uintptr(tr.printerObj),
				tr.printerFn,
				uintptr(tr.scannerObj),
				tr.scannerFn,
			)
		})
	}
	return &m, nil
}
