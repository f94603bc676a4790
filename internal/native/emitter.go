// Package native implements the hand-rolled x86-64 System-V native
// emitter: it streams machine code into a buffer, maps the buffer
// executable, and invokes it with a calling-convention-compatible
// trampoline into host I/O callbacks.
package native

import (
	"fmt"

	"github.com/bflang/bfjit/internal/core"
	"github.com/bflang/bfjit/pkg/amd64"
)

// UnresolvedJumpError is returned when the emitted op stream contains a
// bracket that never closed; the emitted code would contain an
// unpatched, meaningless rel32.
type UnresolvedJumpError struct {
	Count int
}

func (e *UnresolvedJumpError) Error() string {
	return fmt.Sprintf("native: %d unmatched '[' left unresolved during emission", e.Count)
}

// emitter streams x86-64 bytes for one op stream and performs the
// single-pass forward-jump back-patching described in spec §4.5.
type emitter struct {
	code      []byte
	openStack []int // byte offsets immediately after each open JumpIfZero's rel32
}

// Emit lowers ops directly to x86-64 machine code for a System-V function
// taking (cells, printer_obj, printer_fn, scanner_obj, scanner_fn) in
// rdi, rsi, rdx, rcx and r8, with the cursor kept in rbx. It does
// not consult core.Backpatch: the fix-up for forward jumps is embedded in
// the emission loop itself, exactly as spec §4.3 describes for this
// backend.
func Emit(ops []core.Op) ([]byte, error) {
	e := &emitter{code: make([]byte, 0, len(ops)*8+8)}

	e.emit(amd64.Prologue())
	for _, op := range ops {
		e.emitOp(op)
	}
	e.emit(amd64.Epilogue())

	if len(e.openStack) > 0 {
		return nil, &UnresolvedJumpError{Count: len(e.openStack)}
	}
	return e.code, nil
}

func (e *emitter) emit(b []byte) {
	e.code = append(e.code, b...)
}

func (e *emitter) emitOp(op core.Op) {
	switch op.Code {
	case core.OpRight:
		e.emit(amd64.MoveRight(op.Count))
	case core.OpLeft:
		e.emit(amd64.MoveLeft(op.Count))
	case core.OpInc:
		e.emit(amd64.AddCell(op.Byte, op.Offset))
	case core.OpDec:
		e.emit(amd64.SubCell(op.Byte, op.Offset))
	case core.OpSetZero:
		e.emit(amd64.SetZeroCell())
	case core.OpMul:
		e.emit(amd64.Mul(op.Byte, op.Offset))
	case core.OpOutput:
		e.emitOutput()
	case core.OpInput:
		e.emitInput()
	case core.OpJumpIfZero:
		e.emit(amd64.JumpIfZero())
		e.openStack = append(e.openStack, len(e.code))
	case core.OpJumpIfNotZero:
		e.emitJumpIfNotZero()
	}
}

// emitJumpIfNotZero implements the back-patch algorithm of spec §4.5
// exactly: the jnz at the closing bracket jumps forward into the loop
// body (to the byte right after the opening jz's rel32); the jz at the
// opening bracket jumps forward past the jnz (loop exit).
func (e *emitter) emitJumpIfNotZero() {
	if len(e.openStack) == 0 {
		// Caller (Backpatch, run earlier against the same op stream for
		// the interpreter's benefit) should already have refused to run
		// an unbalanced program; reaching here with a clean op stream
		// means this should never execute, but emit a ud2-free no-op
		// jump-to-next so generated code stays well-formed if it does.
		e.emit(amd64.JumpIfNotZero())
		amd64.PatchRel32(e.code, len(e.code)-4, 0)
		return
	}

	openAfterImm := e.openStack[len(e.openStack)-1]
	e.openStack = e.openStack[:len(e.openStack)-1]

	e.emit(amd64.JumpIfNotZero())
	closeEnd := len(e.code)
	closeImmStart := closeEnd - 4

	amd64.PatchRel32(e.code, closeImmStart, int32(openAfterImm-closeEnd))
	amd64.PatchRel32(e.code, openAfterImm-4, int32(closeEnd-openAfterImm))
}

// emitOutput implements the Output row of spec §4.5's encoding table: save
// the full live-state register set (including scratch rax, which is pure
// scratch here), shuffle the printer object and the current cell byte into
// the call-argument registers in the order that avoids clobbering either
// before it is read, call through rdx, then restore.
func (e *emitter) emitOutput() {
	for _, r := range []amd64.Reg{amd64.RDI, amd64.RSI, amd64.RDX, amd64.RCX, amd64.R8, amd64.RBX, amd64.RAX} {
		e.emit(amd64.PushReg(r))
	}

	e.emit(amd64.MovRaxFromRsi())      // rax := printer object (rsi, about to be clobbered)
	e.emit(amd64.MovzxRsiFromCell())   // rsi := current cell, zero-extended (reads original rdi/rbx)
	e.emit(amd64.MovRdiFromRax())      // rdi := printer object
	e.emit(amd64.CallRdx())            // call printer_fn(rdi, sil)

	for _, r := range []amd64.Reg{amd64.RAX, amd64.RBX, amd64.R8, amd64.RCX, amd64.RDX, amd64.RSI, amd64.RDI} {
		e.emit(amd64.PopReg(r))
	}
}

// emitInput implements the Input row of spec §4.5's encoding table. RAX is
// deliberately excluded from the saved set here, unlike Output: it carries
// the scanner's live return byte out of the call, across the restore of
// the other registers, to be stored into the tape using the just-restored
// rdi/rbx.
func (e *emitter) emitInput() {
	for _, r := range []amd64.Reg{amd64.RDI, amd64.RSI, amd64.RDX, amd64.RCX, amd64.R8, amd64.RBX} {
		e.emit(amd64.PushReg(r))
	}

	e.emit(amd64.MovRdiFromRcx()) // rdi := scanner object
	e.emit(amd64.CallR8())        // call scanner_fn(rdi) -> al

	for _, r := range []amd64.Reg{amd64.RBX, amd64.R8, amd64.RCX, amd64.RDX, amd64.RSI, amd64.RDI} {
		e.emit(amd64.PopReg(r))
	}

	e.emit(amd64.StoreAlToCell())
}
