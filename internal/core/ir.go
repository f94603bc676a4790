package core

import (
	"fmt"
	"strings"
)

// OpCode identifies the kind of IR operation.
type OpCode int

const (
	OpRight         OpCode = iota // advance cursor by Count
	OpLeft                        // retreat cursor by Count
	OpInc                         // add Byte mod 256 to cell at cursor+Offset
	OpDec                         // subtract Byte mod 256 from cell at cursor+Offset
	OpOutput                      // emit cell at cursor to the printer
	OpInput                       // read one byte from the scanner into cell at cursor
	OpJumpIfZero                  // jump to Target if cell at cursor == 0
	OpJumpIfNotZero               // jump to Target if cell at cursor != 0
	OpSetZero                     // store 0 into cell at cursor
	OpMul                         // cell[cursor+Offset] += cell[cursor]*Byte; cell[cursor] := 0
)

var opNames = [...]string{
	OpRight:         "RIGHT",
	OpLeft:          "LEFT",
	OpInc:           "INC",
	OpDec:           "DEC",
	OpOutput:        "OUT",
	OpInput:         "IN",
	OpJumpIfZero:    "JZ",
	OpJumpIfNotZero: "JNZ",
	OpSetZero:       "ZERO",
	OpMul:           "MUL",
}

func (k OpCode) String() string {
	if int(k) < 0 || int(k) >= len(opNames) {
		return "INVALID"
	}
	return opNames[k]
}

// Op is one IR instruction. Not every field is meaningful for every Code;
// see the per-opcode constructors for the fields each tag actually uses.
type Op struct {
	Code   OpCode
	Count  uint32 // Right, Left
	Byte   uint8  // Inc, Dec (count); Mul (factor)
	Offset int32  // Inc, Dec, Mul
	Target int    // JumpIfZero, JumpIfNotZero (filled in by the back-patcher)
	Pos    *Position
}

func Right(count uint32, pos *Position) Op { return Op{Code: OpRight, Count: count, Pos: pos} }
func Left(count uint32, pos *Position) Op  { return Op{Code: OpLeft, Count: count, Pos: pos} }

func Inc(count uint8, offset int32, pos *Position) Op {
	return Op{Code: OpInc, Byte: count, Offset: offset, Pos: pos}
}

func Dec(count uint8, offset int32, pos *Position) Op {
	return Op{Code: OpDec, Byte: count, Offset: offset, Pos: pos}
}

func Output(pos *Position) Op { return Op{Code: OpOutput, Pos: pos} }
func Input(pos *Position) Op  { return Op{Code: OpInput, Pos: pos} }

// JumpIfZero returns an unresolved jump; Target is filled in by Backpatch.
func JumpIfZero(pos *Position) Op { return Op{Code: OpJumpIfZero, Pos: pos} }

// JumpIfNotZero returns an unresolved jump; Target is filled in by Backpatch.
func JumpIfNotZero(pos *Position) Op { return Op{Code: OpJumpIfNotZero, Pos: pos} }

func SetZero(pos *Position) Op { return Op{Code: OpSetZero, Pos: pos} }

func Mul(factor uint8, offset int32, pos *Position) Op {
	return Op{Code: OpMul, Byte: factor, Offset: offset, Pos: pos}
}

// Dump renders an op stream in a debug-friendly one-instruction-per-line form.
func Dump(ops []Op) string {
	var out strings.Builder
	for i, op := range ops {
		switch op.Code {
		case OpRight:
			fmt.Fprintf(&out, "%04d: RIGHT %d\n", i, op.Count)
		case OpLeft:
			fmt.Fprintf(&out, "%04d: LEFT  %d\n", i, op.Count)
		case OpInc:
			fmt.Fprintf(&out, "%04d: INC   %d offset=%+d\n", i, op.Byte, op.Offset)
		case OpDec:
			fmt.Fprintf(&out, "%04d: DEC   %d offset=%+d\n", i, op.Byte, op.Offset)
		case OpOutput:
			fmt.Fprintf(&out, "%04d: OUT\n", i)
		case OpInput:
			fmt.Fprintf(&out, "%04d: IN\n", i)
		case OpJumpIfZero:
			fmt.Fprintf(&out, "%04d: JZ    -> %d\n", i, op.Target)
		case OpJumpIfNotZero:
			fmt.Fprintf(&out, "%04d: JNZ   -> %d\n", i, op.Target)
		case OpSetZero:
			fmt.Fprintf(&out, "%04d: ZERO\n", i)
		case OpMul:
			fmt.Fprintf(&out, "%04d: MUL   factor=%d offset=%+d\n", i, op.Byte, op.Offset)
		}
	}
	return out.String()
}
