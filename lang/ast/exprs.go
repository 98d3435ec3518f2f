package ast

import (
	"fmt"

	"github.com/mna/ecmacore/lang/token"
)

// Unwrap returns e unchanged. This AST has no parenthesized-expression node
// (parens only affect the original source's concrete syntax), so there is
// nothing to strip.
func Unwrap(e Expr) Expr { return e }

// IsAssignable reports whether e is a valid assignment/increment target: an
// identifier, a dotted property, or an indexed property.
func IsAssignable(e Expr) bool {
	switch e.(type) {
	case *IdentExpr, *DotExpr, *IndexExpr:
		return true
	default:
		return false
	}
}

type (
	// ConstantExpr is a literal: string, int, float, big integer, boolean,
	// null or undefined (spec.md §6.1).
	ConstantExpr struct {
		Kind  LitKind
		Pos   token.Pos
		Raw   string      // source text, informational
		Value interface{} // string | int64 | float64 | *big.Int | bool | nil
	}

	// IdentExpr is an identifier reference.
	IdentExpr struct {
		NamePos token.Pos
		Name    string
	}

	// ThisExpr is the `this` marker.
	ThisExpr struct {
		Pos token.Pos
	}

	// DotExpr is a property access by constant field name: Object.Name.
	DotExpr struct {
		Object Expr
		Dot    token.Pos
		Name   *IdentExpr
	}

	// IndexExpr is a property access by computed key: Object[Index].
	IndexExpr struct {
		Object Expr
		Lbrack token.Pos
		Index  Expr
		Rbrack token.Pos
	}

	// UnaryExpr applies a unary operator to Operand.
	UnaryExpr struct {
		Op      UnaryOp
		OpPos   token.Pos
		Operand Expr
	}

	// UpdateExpr is a pre- or post-increment/decrement of Operand, which must
	// be IsAssignable.
	UpdateExpr struct {
		Op      UpdateOp
		OpPos   token.Pos
		Operand Expr
		Prefix  bool
	}

	// BinaryExpr applies a binary or assignment operator to Left and Right.
	// When Op.IsAssign(), Left must be IsAssignable.
	BinaryExpr struct {
		Left  Expr
		Op    BinaryOp
		OpPos token.Pos
		Right Expr
	}

	// ConditionalExpr is the ternary `Cond ? Then : Else`.
	ConditionalExpr struct {
		Cond     Expr
		Question token.Pos
		Then     Expr
		Colon    token.Pos
		Else     Expr
	}

	// ArrayExpr is an array literal. A SpreadExpr element is not implemented
	// (spec.md §4.1.6, §9) and must be rejected by the compiler.
	ArrayExpr struct {
		Lbrack   token.Pos
		Elements []Expr
		Rbrack   token.Pos
	}

	// SpreadExpr is a `...expr` element of an array or object literal. Never
	// implemented by the compiler; present only so the AST can represent it
	// and the compiler can reject it with a precise error.
	SpreadExpr struct {
		Ellipsis token.Pos
		Operand  Expr
	}

	// Property is one entry of an ObjectExpr.
	Property struct {
		Kind     PropKind
		Computed bool // Key is a computed expression rather than a name
		Key      Expr // *IdentExpr (shorthand/key-value/method) or any Expr (computed)
		Value    Expr // nil for PropSpread, which instead uses Key as the spread operand
		Method   MethodKind
	}

	// ObjectExpr is an object literal.
	ObjectExpr struct {
		Lbrace token.Pos
		Props  []*Property
		Rbrace token.Pos
	}

	// CallExpr is a function call Callee(Args...).
	CallExpr struct {
		Callee Expr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// FuncExpr is a function declaration, function expression or arrow
	// function. Name is nil for expressions and arrows. Arrow is true only
	// for arrow functions, which compile with ThisMode = Lexical and
	// Constructor = false (spec.md §3.1, §4.1.8).
	FuncExpr struct {
		FnPos  token.Pos
		Name   *IdentExpr
		Params []Pattern
		Arrow  bool
		Body   *Block
		EndPos token.Pos
	}
)

func (n *ConstantExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Kind.String(), nil) }
func (n *ConstantExpr) Span() (start, end token.Pos) {
	return n.Pos, n.Pos + token.Pos(len(n.Raw))
}
func (n *ConstantExpr) Walk(_ Visitor) {}
func (n *ConstantExpr) expr()          {}

func (n *IdentExpr) Format(f fmt.State, verb rune) { format(f, verb, n, n.Name, nil) }
func (n *IdentExpr) Span() (start, end token.Pos) {
	return n.NamePos, n.NamePos + token.Pos(len(n.Name))
}
func (n *IdentExpr) Walk(_ Visitor) {}
func (n *IdentExpr) expr()          {}
func (n *IdentExpr) pattern()       {}
func (n *IdentExpr) Idents() []*IdentExpr {
	if n.Name == "" {
		return nil
	}
	return []*IdentExpr{n}
}

func (n *ThisExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "this", nil) }
func (n *ThisExpr) Span() (start, end token.Pos)  { return n.Pos, n.Pos + 4 }
func (n *ThisExpr) Walk(_ Visitor)                {}
func (n *ThisExpr) expr()                         {}

func (n *DotExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr.ident", nil) }
func (n *DotExpr) Span() (start, end token.Pos) {
	start, _ = n.Object.Span()
	_, end = n.Name.Span()
	return start, end
}
func (n *DotExpr) Walk(v Visitor) { Walk(v, n.Object); Walk(v, n.Name) }
func (n *DotExpr) expr()          {}

func (n *IndexExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "expr[index]", nil) }
func (n *IndexExpr) Span() (start, end token.Pos) {
	start, _ = n.Object.Span()
	return start, n.Rbrack + 1
}
func (n *IndexExpr) Walk(v Visitor) { Walk(v, n.Object); Walk(v, n.Index) }
func (n *IndexExpr) expr()          {}

func (n *UnaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "unary "+n.Op.String(), nil) }
func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.Operand.Span()
	return n.OpPos, end
}
func (n *UnaryExpr) Walk(v Visitor) { Walk(v, n.Operand) }
func (n *UnaryExpr) expr()          {}

func (n *UpdateExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "update "+n.Op.String(), nil) }
func (n *UpdateExpr) Span() (start, end token.Pos) {
	ps, pe := n.Operand.Span()
	if n.Prefix {
		return n.OpPos, pe
	}
	return ps, n.OpPos + 2
}
func (n *UpdateExpr) Walk(v Visitor) { Walk(v, n.Operand) }
func (n *UpdateExpr) expr()          {}

func (n *BinaryExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "binary "+n.Op.String(), nil) }
func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}
func (n *BinaryExpr) Walk(v Visitor) { Walk(v, n.Left); Walk(v, n.Right) }
func (n *BinaryExpr) expr()          {}

func (n *ConditionalExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "cond ?:", nil) }
func (n *ConditionalExpr) Span() (start, end token.Pos) {
	start, _ = n.Cond.Span()
	_, end = n.Else.Span()
	return start, end
}
func (n *ConditionalExpr) Walk(v Visitor) { Walk(v, n.Cond); Walk(v, n.Then); Walk(v, n.Else) }
func (n *ConditionalExpr) expr()          {}

func (n *ArrayExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "array", map[string]int{"elems": len(n.Elements)})
}
func (n *ArrayExpr) Span() (start, end token.Pos) { return n.Lbrack, n.Rbrack + 1 }
func (n *ArrayExpr) Walk(v Visitor) {
	for _, e := range n.Elements {
		Walk(v, e)
	}
}
func (n *ArrayExpr) expr() {}

func (n *SpreadExpr) Format(f fmt.State, verb rune) { format(f, verb, n, "...expr", nil) }
func (n *SpreadExpr) Span() (start, end token.Pos) {
	_, end = n.Operand.Span()
	return n.Ellipsis, end
}
func (n *SpreadExpr) Walk(v Visitor) { Walk(v, n.Operand) }
func (n *SpreadExpr) expr()          {}

func (n *ObjectExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "object", map[string]int{"props": len(n.Props)})
}
func (n *ObjectExpr) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace + 1 }
func (n *ObjectExpr) Walk(v Visitor) {
	for _, p := range n.Props {
		Walk(v, p.Key)
		if p.Value != nil {
			Walk(v, p.Value)
		}
	}
}
func (n *ObjectExpr) expr() {}

func (n *CallExpr) Format(f fmt.State, verb rune) {
	format(f, verb, n, "call", map[string]int{"args": len(n.Args)})
}
func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Callee.Span()
	return start, n.Rparen + 1
}
func (n *CallExpr) Walk(v Visitor) {
	Walk(v, n.Callee)
	for _, a := range n.Args {
		Walk(v, a)
	}
}
func (n *CallExpr) expr() {}

func (n *FuncExpr) Format(f fmt.State, verb rune) {
	lbl := "fn"
	if n.Arrow {
		lbl = "arrow fn"
	}
	format(f, verb, n, lbl, map[string]int{"params": len(n.Params)})
}
func (n *FuncExpr) Span() (start, end token.Pos) { return n.FnPos, n.EndPos }
func (n *FuncExpr) Walk(v Visitor) {
	if n.Name != nil {
		Walk(v, n.Name)
	}
	for _, p := range n.Params {
		Walk(v, p)
	}
	Walk(v, n.Body)
}
func (n *FuncExpr) expr() {}
