// Package ast defines the abstract syntax tree consumed by the bytecode
// compiler. The lexer and parser that would produce this tree from source
// text are external collaborators (see spec.md §1) and are not part of this
// module; the node set here exists to give the compiler package something
// concrete to lower.
package ast

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mna/ecmacore/lang/token"
)

// Node represents any node in the AST.
type Node interface {
	// Every Node implements fmt.Formatter so it can print a short description
	// of itself. Supported verbs are 'v' and 's'; the '#' flag additionally
	// prints child counts.
	fmt.Formatter

	// Span reports the start and end position of the node.
	Span() (start, end token.Pos)

	// Walk visits the node's direct children using v.
	Walk(v Visitor)
}

// Expr represents an expression.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement.
type Stmt interface {
	Node
	stmt()
}

// Pattern represents a binding target: an identifier or a destructuring
// pattern (array or object) appearing on the left of a declaration or as a
// for-in/assignment target.
type Pattern interface {
	Node
	pattern()

	// Idents returns, in binding order, every identifier this pattern binds.
	Idents() []*IdentExpr
}

// Chunk is the root node of a parsed script or module.
type Chunk struct {
	Name  string // filename, may be empty
	Block *Block
	EOF   token.Pos
}

// Block is a sequence of statements delimited by braces (or the whole file
// for a top-level chunk).
type Block struct {
	Lbrace token.Pos // may be NoPos for an implicit top-level block
	Rbrace token.Pos
	Stmts  []Stmt
}

func (n *Chunk) Format(f fmt.State, verb rune) {
	lbl := "chunk"
	if n.Name != "" {
		lbl += " " + strings.ReplaceAll(n.Name, "\\", "/")
	}
	format(f, verb, n, lbl, nil)
}
func (n *Chunk) Span() (start, end token.Pos) {
	if n.Block != nil {
		return n.Block.Span()
	}
	return n.EOF, n.EOF
}
func (n *Chunk) Walk(v Visitor) {
	if n.Block != nil {
		Walk(v, n.Block)
	}
}

func (n *Block) Format(f fmt.State, verb rune) {
	format(f, verb, n, "block", map[string]int{"stmts": len(n.Stmts)})
}
func (n *Block) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace }
func (n *Block) Walk(v Visitor) {
	for _, s := range n.Stmts {
		Walk(v, s)
	}
}

// stmt lets a Block stand in directly as an IfStmt.Else value (a plain
// `else { ... }`, as opposed to an `else if`).
func (n *Block) stmt() {}

// format renders a short, single-line description of a node; shared by every
// node's Format method.
func format(f fmt.State, verb rune, n Node, label string, counts map[string]int) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(f, "%%!%c(%T)", verb, n)
		return
	}

	label = strings.ReplaceAll(label, "\n", "⏎")
	label = strings.ReplaceAll(label, "\t", "⭾")

	fmt.Fprint(f, label)
	if f.Flag('#') && len(counts) > 0 {
		keys := make([]string, 0, len(counts))
		for k := range counts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprint(f, " {")
		for i, k := range keys {
			if i > 0 {
				fmt.Fprint(f, ", ")
			}
			fmt.Fprintf(f, "%s=%d", k, counts[k])
		}
		fmt.Fprint(f, "}")
	}
}
