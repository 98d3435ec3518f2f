package compiler

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Instr is one decoded instruction from a CodeBlock's Code, used by tests to
// assert on the emitted sequence without hand-computing byte offsets. It is
// a lightweight stand-in for nenuphar's textual assembler/disassembler
// (lang/compiler/asm.go): this core's tests read structured instructions
// directly instead of round-tripping through assembly text.
type Instr struct {
	Pos   int // byte offset of op within Code
	Op    Opcode
	Arg   uint32 // the 4-byte operand for PushInt32/PushLiteral/PushNewArray/
	// GetName/SetName/.../jump targets and every other OpcodeArgMin+ opcode
	// except PushInt8/PushInt16/PushRational (decoded into the fields below).
	Int8    int8
	Int16   int16
	Float64 float64
}

// Disassemble decodes every instruction in b.Code in order. It panics if
// Code is malformed (truncated operand, unknown opcode), since that can only
// indicate a compiler bug: Disassemble is a test and debugging aid, never
// fed untrusted input.
func Disassemble(b *CodeBlock) []Instr {
	var out []Instr
	code := b.Code
	for i := 0; i < len(code); {
		op := Opcode(code[i])
		instr := Instr{Pos: i, Op: op}
		i++
		switch {
		case op > OpcodeMax:
			panic(fmt.Sprintf("compiler: unknown opcode %d at offset %d", op, instr.Pos))
		case op == PushInt8:
			instr.Int8 = int8(code[i])
			i++
		case op == PushInt16:
			instr.Int16 = int16(binary.NativeEndian.Uint16(code[i : i+2]))
			i += 2
		case op == PushRational:
			instr.Float64 = math.Float64frombits(binary.NativeEndian.Uint64(code[i : i+8]))
			i += 8
		case op >= OpcodeArgMin:
			instr.Arg = binary.NativeEndian.Uint32(code[i : i+4])
			i += 4
		}
		out = append(out, instr)
	}
	return out
}

// Ops returns just the opcode sequence of Disassemble(b), for tests that
// only care about instruction shape, not operand values.
func Ops(b *CodeBlock) []Opcode {
	instrs := Disassemble(b)
	ops := make([]Opcode, len(instrs))
	for i, in := range instrs {
		ops[i] = in.Op
	}
	return ops
}
