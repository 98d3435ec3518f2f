package ast

import (
	"fmt"

	"github.com/mna/ecmacore/lang/token"
)

type (
	// ArrayPattern is a destructuring array pattern: [a, b, ...].
	ArrayPattern struct {
		Lbrack   token.Pos
		Elements []Pattern // nil element allowed to represent an elision
		Rbrack   token.Pos
	}

	// ObjectPatternProp is one `key: target` entry of an ObjectPattern.
	ObjectPatternProp struct {
		Key    *IdentExpr
		Target Pattern // == Key for shorthand `{ key }`
	}

	// ObjectPattern is a destructuring object pattern: { a, b: c }.
	ObjectPattern struct {
		Lbrace token.Pos
		Props  []*ObjectPatternProp
		Rbrace token.Pos
	}
)

func (n *ArrayPattern) Format(f fmt.State, verb rune) {
	format(f, verb, n, "array pattern", map[string]int{"elems": len(n.Elements)})
}
func (n *ArrayPattern) Span() (start, end token.Pos) { return n.Lbrack, n.Rbrack + 1 }
func (n *ArrayPattern) Walk(v Visitor) {
	for _, e := range n.Elements {
		if e != nil {
			Walk(v, e)
		}
	}
}
func (n *ArrayPattern) pattern() {}
func (n *ArrayPattern) Idents() []*IdentExpr {
	var out []*IdentExpr
	for _, e := range n.Elements {
		if e != nil {
			out = append(out, e.Idents()...)
		}
	}
	return out
}

func (n *ObjectPattern) Format(f fmt.State, verb rune) {
	format(f, verb, n, "object pattern", map[string]int{"props": len(n.Props)})
}
func (n *ObjectPattern) Span() (start, end token.Pos) { return n.Lbrace, n.Rbrace + 1 }
func (n *ObjectPattern) Walk(v Visitor) {
	for _, p := range n.Props {
		Walk(v, p.Target)
	}
}
func (n *ObjectPattern) pattern() {}
func (n *ObjectPattern) Idents() []*IdentExpr {
	var out []*IdentExpr
	for _, p := range n.Props {
		out = append(out, p.Target.Idents()...)
	}
	return out
}
