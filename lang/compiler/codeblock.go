package compiler

import (
	"math/big"

	"github.com/mna/ecmacore/lang/jsstring"
)

// ThisMode classifies how a CodeBlock's `this` binding behaves when called
// (spec.md §3.1).
type ThisMode uint8

const (
	// ThisGlobal coerces a nil/undefined this to the global object.
	ThisGlobal ThisMode = iota
	// ThisStrict passes this through unchanged.
	ThisStrict
	// ThisLexical inherits this from the enclosing scope (arrow functions).
	ThisLexical
)

func (m ThisMode) String() string {
	switch m {
	case ThisGlobal:
		return "global"
	case ThisStrict:
		return "strict"
	case ThisLexical:
		return "lexical"
	default:
		return "invalid"
	}
}

// LitKind identifies the dynamic kind carried by a Literal (spec.md §3.1:
// "literals: an ordered sequence of boxed values (strings and big integers)").
type LitKind uint8

const (
	LitString LitKind = iota
	LitBigInt
)

// Literal is one entry of a CodeBlock's literal pool: a string or a big
// integer, never both (spec.md §3.1, §4.1.9).
type Literal struct {
	Kind LitKind
	Str  jsstring.String // present iff Kind == LitString
	Big  *big.Int        // present iff Kind == LitBigInt
}

// CodeBlock is the compiler's output: a self-contained unit of bytecode with
// its own constant pools (spec.md §3.1).
type CodeBlock struct {
	Name        string
	Code        []byte
	Literals    []Literal
	Names       []string
	Functions   []*CodeBlock
	Params      []string
	Length      int
	Strict      bool
	ThisMode    ThisMode
	Constructor bool
}
