// Package compiler lowers the AST in lang/ast into flat CodeBlock bytecode
// (spec.md §3.1-§3.3, §4.1).
package compiler

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/mna/ecmacore/lang/jsstring"
	"github.com/mna/ecmacore/lang/token"
)

// Compiler lowers a single function or top-level chunk body into a
// *CodeBlock. A new Compiler is created per function literal encountered
// while compiling an enclosing one (see compileFunction); each has its own
// literal/name pools and jump-control stack.
type Compiler struct {
	file *token.File

	block *CodeBlock

	literalsMap map[literalKey]uint32
	namesMap    map[string]uint32

	jumpInfo []*jumpControlInfo

	// pending tracks the byte offset of every jump operand not yet patched;
	// Finish panics if this is non-empty, since an unpatched jump is a
	// compiler bug, not a user error.
	pending map[int]bool

	tmpSeq int

	done bool
}

// New creates a Compiler that will lower statements into a fresh top-level
// CodeBlock named name. file resolves token.Pos values to line/column
// positions for diagnostics.
func New(file *token.File, name string, strict bool) *Compiler {
	return &Compiler{
		file: file,
		block: &CodeBlock{
			Name:        name,
			ThisMode:    ThisGlobal,
			Constructor: true,
			Strict:      strict,
		},
		literalsMap: make(map[literalKey]uint32),
		namesMap:    make(map[string]uint32),
		pending:     make(map[int]bool),
	}
}

// Finish returns the completed CodeBlock. It panics if any loop/switch
// context or jump was left unresolved, which would indicate a bug in the
// compiler itself rather than in the input program.
func (c *Compiler) Finish() *CodeBlock {
	if c.done {
		panic("compiler: Finish called twice")
	}
	if len(c.jumpInfo) != 0 {
		panic("compiler: jump control stack not empty at Finish")
	}
	if len(c.pending) != 0 {
		panic(fmt.Sprintf("compiler: %d unpatched jump(s) at Finish", len(c.pending)))
	}
	c.done = true
	return c.block
}

// literalKey is a comparable dedup key for a Literal. jsstring.String and
// *big.Int are not themselves valid map keys (a String may wrap a heap
// pointer with no content-equality guarantee from Go's == operator, and
// *big.Int never satisfies ==), so literal dedup runs over a normalized
// text form of each entry's content instead of the value itself.
type literalKey struct {
	kind LitKind
	str  string
	big  string
}

func keyForLiteral(lit Literal) literalKey {
	switch lit.Kind {
	case LitString:
		return literalKey{kind: LitString, str: codeUnitsKey(lit.Str)}
	case LitBigInt:
		return literalKey{kind: LitBigInt, big: lit.Big.Text(10)}
	default:
		panic("compiler: invalid literal kind")
	}
}

// codeUnitsKey encodes a string's UTF-16 code units into a byte string that
// is a bijection on content, so two strings built from different heap
// allocations but equal code units produce equal keys.
func codeUnitsKey(s jsstring.String) string {
	n := s.Len()
	b := make([]byte, n*2)
	for i := 0; i < n; i++ {
		cu := s.At(i)
		b[2*i] = byte(cu >> 8)
		b[2*i+1] = byte(cu)
	}
	return string(b)
}

func (c *Compiler) addStringLiteral(s jsstring.String) uint32 {
	return c.addLiteral(Literal{Kind: LitString, Str: s})
}

func (c *Compiler) addBigIntLiteral(v *big.Int) uint32 {
	return c.addLiteral(Literal{Kind: LitBigInt, Big: v})
}

func (c *Compiler) addLiteral(lit Literal) uint32 {
	k := keyForLiteral(lit)
	if idx, ok := c.literalsMap[k]; ok {
		return idx
	}
	idx := uint32(len(c.block.Literals))
	c.block.Literals = append(c.block.Literals, lit)
	c.literalsMap[k] = idx
	return idx
}

func (c *Compiler) addName(name string) uint32 {
	if idx, ok := c.namesMap[name]; ok {
		return idx
	}
	idx := uint32(len(c.block.Names))
	c.block.Names = append(c.block.Names, name)
	c.namesMap[name] = idx
	return idx
}

// newTempName synthesizes a unique, source-unreachable binding name used to
// spill an intermediate value (the base/key of a computed-property compound
// assignment, or a property-assignment's result) into the name-indexed
// variable space instead of the operand stack, since the opcode set has no
// "duplicate top two" primitive.
func (c *Compiler) newTempName(hint string) string {
	c.tmpSeq++
	return fmt.Sprintf("%%%s%d", hint, c.tmpSeq)
}

// --- emission primitives (spec.md §4.1.2) ---

func (c *Compiler) emitOp(op Opcode) {
	c.block.Code = append(c.block.Code, byte(op))
}

func (c *Compiler) emitUint32(op Opcode, v uint32) {
	c.block.Code = append(c.block.Code, byte(op))
	c.block.Code = binary.NativeEndian.AppendUint32(c.block.Code, v)
}

func (c *Compiler) emitName(op Opcode, name string) {
	c.emitUint32(op, c.addName(name))
}

func (c *Compiler) emitStringLiteral(s jsstring.String) {
	c.emitUint32(PushLiteral, c.addStringLiteral(s))
}

func (c *Compiler) emitBigIntLiteral(v *big.Int) {
	c.emitUint32(PushLiteral, c.addBigIntLiteral(v))
}

func (c *Compiler) emitCount(op Opcode, n int) {
	c.emitUint32(op, uint32(n))
}

func (c *Compiler) emitFunction(idx uint32) {
	c.emitUint32(GetFunction, idx)
}

// emitNumber emits the most compact opcode that represents f exactly
// (spec.md §4.1.2): the dedicated zero-operand pushes for the handful of
// values that have one, then PushInt8/16/32 for exactly-representable
// integers of increasing width, falling back to PushRational's raw 8-byte
// IEEE-754 bit pattern.
func (c *Compiler) emitNumber(f float64) {
	switch {
	case f == 0 && !math.Signbit(f):
		c.emitOp(PushZero)
		return
	case f == 1:
		c.emitOp(PushOne)
		return
	case math.IsNaN(f):
		c.emitOp(PushNaN)
		return
	case math.IsInf(f, 1):
		c.emitOp(PushPositiveInfinity)
		return
	case math.IsInf(f, -1):
		c.emitOp(PushNegativeInfinity)
		return
	}

	// f != 0 keeps -0 out of the integer forms, which cannot carry its sign.
	if i := int64(f); f != 0 && float64(i) == f {
		switch {
		case i >= math.MinInt8 && i <= math.MaxInt8:
			c.block.Code = append(c.block.Code, byte(PushInt8), byte(int8(i)))
			return
		case i >= math.MinInt16 && i <= math.MaxInt16:
			c.block.Code = append(c.block.Code, byte(PushInt16))
			c.block.Code = binary.NativeEndian.AppendUint16(c.block.Code, uint16(int16(i)))
			return
		case i >= math.MinInt32 && i <= math.MaxInt32:
			c.block.Code = append(c.block.Code, byte(PushInt32))
			c.block.Code = binary.NativeEndian.AppendUint32(c.block.Code, uint32(int32(i)))
			return
		}
	}

	c.block.Code = append(c.block.Code, byte(PushRational))
	c.block.Code = binary.NativeEndian.AppendUint64(c.block.Code, math.Float64bits(f))
}
