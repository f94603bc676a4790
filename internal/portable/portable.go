// Package portable implements the IR backend named "crane-lift" on the
// CLI run selector: an alternative lowering of the same back-patched op
// stream the interpreter and the native emitter consume, using no
// hand-rolled machine code and no native code generation at all. Per spec
// §2 its contract is identical to the native emitter's; only the IR
// contract it consumes is specified in detail, so this backend is free to
// implement that contract however best suits a portable (non-x86-64)
// target — here, by compiling each op into a Go closure once and then
// threading control between closures, instead of re-dispatching on Op.Code
// every step the way the tree interpreter does.
package portable

import (
	"github.com/bflang/bfjit/internal/bench"
	"github.com/bflang/bfjit/internal/core"
	"github.com/bflang/bfjit/internal/hostio"
)

type state struct {
	tape    []byte
	cell    int
	printer hostio.Printer
	scanner hostio.Scanner
}

// step runs one compiled instruction and returns the next program counter.
type step func(s *state, pc int) int

// Program is a back-patched op stream lowered to one closure per op.
type Program []step

// Compile lowers a back-patched op stream into a Program. ops must already
// have valid jump Targets (core.Backpatch must have succeeded).
func Compile(ops []core.Op) Program {
	prog := make(Program, len(ops))
	for i, op := range ops {
		prog[i] = compileOp(op)
	}
	return prog
}

func compileOp(op core.Op) step {
	switch op.Code {
	case core.OpRight:
		n := int(op.Count)
		return func(s *state, pc int) int { s.cell += n; return pc + 1 }

	case core.OpLeft:
		n := int(op.Count)
		return func(s *state, pc int) int { s.cell -= n; return pc + 1 }

	case core.OpInc:
		c, off := op.Byte, int(op.Offset)
		return func(s *state, pc int) int { s.tape[s.cell+off] += c; return pc + 1 }

	case core.OpDec:
		c, off := op.Byte, int(op.Offset)
		return func(s *state, pc int) int { s.tape[s.cell+off] -= c; return pc + 1 }

	case core.OpSetZero:
		return func(s *state, pc int) int { s.tape[s.cell] = 0; return pc + 1 }

	case core.OpMul:
		f, off := op.Byte, int(op.Offset)
		return func(s *state, pc int) int {
			s.tape[s.cell+off] += s.tape[s.cell] * f
			s.tape[s.cell] = 0
			return pc + 1
		}

	case core.OpOutput:
		return func(s *state, pc int) int { s.printer.Print(s.tape[s.cell]); return pc + 1 }

	case core.OpInput:
		return func(s *state, pc int) int { s.tape[s.cell] = s.scanner.Scan(); return pc + 1 }

	case core.OpJumpIfZero:
		target := op.Target
		return func(s *state, pc int) int {
			if s.tape[s.cell] == 0 {
				return target
			}
			return pc + 1
		}

	case core.OpJumpIfNotZero:
		target := op.Target
		return func(s *state, pc int) int {
			if s.tape[s.cell] != 0 {
				return target
			}
			return pc + 1
		}
	}

	return func(s *state, pc int) int { return pc + 1 }
}

// Run threads control across the compiled program until pc runs off the
// end, exactly mirroring the interpreter's termination rule.
func (p Program) Run(tapeBuf []byte, printer hostio.Printer, scanner hostio.Scanner) {
	s := &state{tape: tapeBuf, printer: printer, scanner: scanner}
	pc := 0
	for pc < len(p) {
		pc = p[pc](s, pc)
	}
}

// RunBench runs the program repeats times against the same tape, timing
// each run.
func (p Program) RunBench(tapeBuf []byte, printer hostio.Printer, scanner hostio.Scanner, repeats int) *bench.Measured {
	var m bench.Measured
	for i := 0; i < repeats; i++ {
		m.Measure("run", func() { p.Run(tapeBuf, printer, scanner) })
	}
	return &m
}
