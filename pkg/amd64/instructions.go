// Package amd64 provides x86-64 (AMD64) machine code encoding utilities.
// This package has no dependencies on compiler internals and can be used
// standalone for generating x86-64 machine code.
//
// The encoders here target exactly the calling convention the native
// emitter needs: a tape base in RDI, host callback registers in RSI/RDX/
// RCX/R8, and the Brainfuck cursor kept live in RBX across the whole
// function. For details on x86-64 instruction encoding (REX prefixes,
// ModRM, SIB bytes), see: https://wiki.osdev.org/X86-64_Instruction_Encoding
package amd64

// Reg identifies a general-purpose register by its 4-bit encoding
// (register number, independent of REX extension).
type Reg uint8

const (
	RAX Reg = 0
	RCX Reg = 1
	RDX Reg = 2
	RBX Reg = 3
	RSI Reg = 6
	RDI Reg = 7
	R8  Reg = 8
)

// extended reports whether encoding this register requires a REX.B bit.
func (r Reg) extended() bool { return r >= 8 }

// low3 returns the register's 3-bit field, independent of REX.B.
func (r Reg) low3() byte { return byte(r) & 0x7 }

// PushReg encodes: push <reg>.
func PushReg(r Reg) []byte {
	if r.extended() {
		return []byte{0x41, 0x50 + r.low3()}
	}
	return []byte{0x50 + r.low3()}
}

// PopReg encodes: pop <reg>.
func PopReg(r Reg) []byte {
	if r.extended() {
		return []byte{0x41, 0x58 + r.low3()}
	}
	return []byte{0x58 + r.low3()}
}

// Prologue encodes: push rbx; xor rbx, rbx. Saves the caller's RBX and
// zeroes the cursor.
func Prologue() []byte {
	return []byte{
		0x53, // push rbx
		0x48, 0x31, 0xdb, // xor rbx, rbx
	}
}

// Epilogue encodes: pop rbx; ret.
func Epilogue() []byte {
	return []byte{
		0x5b, // pop rbx
		0xc3, // ret
	}
}

// MoveRight encodes: add ebx, imm32. Pointer motion operates on the
// 32-bit sub-register; writing EBX implicitly zero-extends into RBX,
// which is what the [rdi+rbx] addressing below relies on.
func MoveRight(count uint32) []byte {
	buf := make([]byte, 6)
	buf[0], buf[1] = 0x81, 0xc3
	writeLE32(buf[2:], count)
	return buf
}

// MoveLeft encodes: sub ebx, imm32.
func MoveLeft(count uint32) []byte {
	buf := make([]byte, 6)
	buf[0], buf[1] = 0x81, 0xeb
	writeLE32(buf[2:], count)
	return buf
}

// AddCell encodes: add byte [rdi+rbx+offset], imm8.
func AddCell(count uint8, offset int32) []byte {
	buf := make([]byte, 8)
	buf[0], buf[1], buf[2] = 0x80, 0x84, 0x1f
	writeLE32(buf[3:], uint32(offset))
	buf[7] = count
	return buf
}

// SubCell encodes: sub byte [rdi+rbx+offset], imm8.
func SubCell(count uint8, offset int32) []byte {
	buf := make([]byte, 8)
	buf[0], buf[1], buf[2] = 0x80, 0xac, 0x1f
	writeLE32(buf[3:], uint32(offset))
	buf[7] = count
	return buf
}

// SetZeroCell encodes: mov byte [rdi+rbx], 0.
func SetZeroCell() []byte {
	return []byte{0xc6, 0x04, 0x1f, 0x00}
}

// testCellAndJump encodes the shared "load the current cell and branch on
// whether it is zero" prefix used by both JumpIfZero and JumpIfNotZero:
// mov al, [rdi+rbx]; cmp al, 0; followed by a two-byte conditional jump
// opcode and a 4-byte rel32 placeholder that the caller back-patches.
func testCellAndJump(opcode byte) []byte {
	return []byte{
		0x8a, 0x04, 0x1f, // mov al, [rdi+rbx]
		0x3c, 0x00, // cmp al, 0
		0x0f, opcode, 0x00, 0x00, 0x00, 0x00, // jcc rel32 (placeholder)
	}
}

// JumpIfZero encodes the opcode-only form of a conditional forward jump
// taken when the current cell is zero. The last 4 bytes are a rel32
// placeholder; the caller is responsible for back-patching it.
func JumpIfZero() []byte { return testCellAndJump(0x84) }

// JumpIfNotZero encodes the opcode-only form of a conditional jump taken
// when the current cell is nonzero. The last 4 bytes are a rel32
// placeholder; the caller is responsible for back-patching it.
func JumpIfNotZero() []byte { return testCellAndJump(0x85) }

// PatchRel32 writes a little-endian rel32 into buf at byte offset immStart,
// the offset of the start of a previously-emitted placeholder field.
func PatchRel32(buf []byte, immStart int, rel32 int32) {
	writeLE32(buf[immStart:], uint32(rel32))
}

// Mul encodes the multiply-move idiom:
//
//	movzx rax, [rdi+rbx]
//	imul  rax, rax, factor
//	add   [rdi+rbx+offset], al
//	mov   [rdi+rbx], 0
func Mul(factor uint8, offset int32) []byte {
	buf := make([]byte, 20)
	copy(buf[0:5], []byte{0x48, 0x0f, 0xb6, 0x04, 0x1f}) // movzx rax,[rdi+rbx]
	buf[5], buf[6], buf[7] = 0x48, 0x6b, 0xc0            // imul rax,rax,imm8
	buf[8] = factor
	buf[9], buf[10], buf[11] = 0x00, 0x84, 0x1f // add [rdi+rbx+offset],al
	writeLE32(buf[12:16], uint32(offset))
	copy(buf[16:20], []byte{0xc6, 0x04, 0x1f, 0x00}) // mov [rdi+rbx],0
	return buf
}

// MovRaxFromRsi encodes: mov rax, rsi. Used to stash the printer object
// pointer before RSI is overwritten with the argument byte.
func MovRaxFromRsi() []byte { return []byte{0x48, 0x89, 0xf0} }

// MovzxRsiFromCell encodes: movzx rsi, byte [rdi+rbx]. Loads the current
// cell, zero-extended, into the second call argument register.
func MovzxRsiFromCell() []byte { return []byte{0x48, 0x0f, 0xb6, 0x34, 0x1f} }

// MovRdiFromRax encodes: mov rdi, rax. Moves the stashed printer object
// pointer into the first call argument register.
func MovRdiFromRax() []byte { return []byte{0x48, 0x89, 0xc7} }

// CallRdx encodes: call rdx (indirect call through the printer function
// pointer register).
func CallRdx() []byte { return []byte{0xff, 0xd2} }

// MovRdiFromRcx encodes: mov rdi, rcx. Moves the scanner object pointer
// into the first call argument register.
func MovRdiFromRcx() []byte { return []byte{0x48, 0x89, 0xcf} }

// CallR8 encodes: call r8 (indirect call through the scanner function
// pointer register).
func CallR8() []byte { return []byte{0x41, 0xff, 0xd0} }

// StoreAlToCell encodes: mov [rdi+rbx], al. Stores a scanned byte into the
// current cell.
func StoreAlToCell() []byte { return []byte{0x88, 0x04, 0x1f} }
