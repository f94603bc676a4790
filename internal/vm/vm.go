// Package vm implements the op-stream interpreter backend: direct dispatch
// over a back-patched op vector.
package vm

import (
	"fmt"

	"github.com/bflang/bfjit/internal/core"
	"github.com/bflang/bfjit/internal/hostio"
	"github.com/bflang/bfjit/internal/tape"
)

// RuntimeError represents an error during VM execution.
type RuntimeError struct {
	Msg string
	Pos *core.Position
	PC  int
}

func (e *RuntimeError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("runtime error at PC %d (line %d, col %d): %s",
			e.PC, e.Pos.Line, e.Pos.Column, e.Msg)
	}
	return fmt.Sprintf("runtime error at PC %d: %s", e.PC, e.Msg)
}

// VM executes a back-patched Brainfuck op stream.
type VM struct {
	memSize int
	printer hostio.Printer
	scanner hostio.Scanner
	memory  []byte
	cell    int // data pointer
	ip      int // program counter, index into ops
}

// Option is a functional option for configuring a VM.
type Option func(*VM)

// WithMemorySize sets the tape size (default core.TapeSize).
func WithMemorySize(size int) Option {
	return func(v *VM) { v.memSize = size }
}

// WithPrinter sets the output sink. There is no default: a VM built without
// a printer panics on the first Output op.
func WithPrinter(p hostio.Printer) Option {
	return func(v *VM) { v.printer = p }
}

// WithScanner sets the input source.
func WithScanner(s hostio.Scanner) Option {
	return func(v *VM) { v.scanner = s }
}

// New creates a VM with the given options.
func New(opts ...Option) *VM {
	v := &VM{memSize: core.TapeSize}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Run executes ops, which must already be back-patched: every
// JumpIfZero/JumpIfNotZero.Target must be valid. Termination is
// ip >= len(ops).
func (v *VM) Run(ops []core.Op) error {
	v.memory = tape.New(v.memSize)
	v.cell = 0
	v.ip = 0

	memory := v.memory
	memSize := v.memSize
	numOps := len(ops)

	inBounds := func(idx int) bool { return idx >= 0 && idx < memSize }

	for v.ip < numOps {
		op := ops[v.ip]

		switch op.Code {
		case core.OpRight:
			v.cell += int(op.Count)
			if !inBounds(v.cell) {
				return v.oob(op, v.cell)
			}

		case core.OpLeft:
			v.cell -= int(op.Count)
			if !inBounds(v.cell) {
				return v.oob(op, v.cell)
			}

		case core.OpInc:
			idx := v.cell + int(op.Offset)
			if !inBounds(idx) {
				return v.oob(op, idx)
			}
			memory[idx] += op.Byte

		case core.OpDec:
			idx := v.cell + int(op.Offset)
			if !inBounds(idx) {
				return v.oob(op, idx)
			}
			memory[idx] -= op.Byte

		case core.OpSetZero:
			memory[v.cell] = 0

		case core.OpMul:
			idx := v.cell + int(op.Offset)
			if !inBounds(idx) {
				return v.oob(op, idx)
			}
			memory[idx] += memory[v.cell] * op.Byte
			memory[v.cell] = 0

		case core.OpOutput:
			v.printer.Print(memory[v.cell])

		case core.OpInput:
			memory[v.cell] = v.scanner.Scan()

		case core.OpJumpIfZero:
			if memory[v.cell] == 0 {
				v.ip = op.Target
				continue
			}

		case core.OpJumpIfNotZero:
			if memory[v.cell] != 0 {
				v.ip = op.Target
				continue
			}
		}

		v.ip++
	}

	return nil
}

func (v *VM) oob(op core.Op, idx int) error {
	return &RuntimeError{
		Msg: fmt.Sprintf("tape index out of bounds: %d (valid range 0-%d)", idx, v.memSize-1),
		Pos: op.Pos,
		PC:  v.ip,
	}
}
