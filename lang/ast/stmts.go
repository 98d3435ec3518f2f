package ast

import (
	"fmt"

	"github.com/mna/ecmacore/lang/token"
)

type (
	// Declarator is one `target = init` entry of a DeclStmt.
	Declarator struct {
		Target Pattern
		Init   Expr // may be nil
	}

	// DeclStmt is a var, let or const declaration statement.
	DeclStmt struct {
		Kind     DeclKind
		DeclPos  token.Pos
		Decls    []*Declarator
		Semi     token.Pos
	}

	// ExprStmt is an expression evaluated for its side effects.
	ExprStmt struct {
		X Expr
	}

	// EmptyStmt is a bare `;` and emits nothing.
	EmptyStmt struct {
		Pos token.Pos
	}

	// IfStmt is an if/else statement. Else may be nil, a *Block, or
	// another *IfStmt (for `else if`).
	IfStmt struct {
		IfPos  token.Pos
		Cond   Expr
		Then   *Block
		ElsePos token.Pos
		Else   Stmt
	}

	// WhileStmt is a pretest loop.
	WhileStmt struct {
		WhilePos token.Pos
		Cond     Expr
		Body     *Block
	}

	// DoWhileStmt is a posttest loop.
	DoWhileStmt struct {
		DoPos    token.Pos
		Body     *Block
		WhilePos token.Pos
		Cond     Expr
	}

	// CaseClause is one `case expr:` or `default:` arm of a SwitchStmt. Test
	// is nil for the default arm.
	CaseClause struct {
		CasePos token.Pos
		Test    Expr
		Body    []Stmt
	}

	// SwitchStmt evaluates Disc once and dispatches to the matching case.
	SwitchStmt struct {
		SwitchPos token.Pos
		Disc      Expr
		Cases     []*CaseClause
		EndPos    token.Pos
	}

	// BreakStmt exits the innermost (or, with Label, a specific) enclosing
	// loop or switch.
	BreakStmt struct {
		Pos   token.Pos
		Label *IdentExpr // nil if unlabeled
	}

	// ContinueStmt jumps to the top of the innermost (or, with Label, a
	// specific) enclosing loop.
	ContinueStmt struct {
		Pos   token.Pos
		Label *IdentExpr // nil if unlabeled
	}

	// ThrowStmt throws Arg.
	ThrowStmt struct {
		Pos token.Pos
		Arg Expr
	}

	// ReturnStmt returns Arg, or undefined if Arg is nil.
	ReturnStmt struct {
		Pos token.Pos
		Arg Expr // may be nil
	}

	// LabeledStmt attaches Label to Stmt (normally a loop or switch), so
	// break/continue can name it explicitly.
	LabeledStmt struct {
		Label *IdentExpr
		Colon token.Pos
		Stmt  Stmt
	}

	// FuncDeclStmt is a function declaration statement; Fn.Name is non-nil.
	FuncDeclStmt struct {
		Fn *FuncExpr
	}
)

func (n *DeclStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, n.Kind.String()+" decl", map[string]int{"decls": len(n.Decls)})
}
func (n *DeclStmt) Span() (start, end token.Pos) { return n.DeclPos, n.Semi }
func (n *DeclStmt) Walk(v Visitor) {
	for _, d := range n.Decls {
		Walk(v, d.Target)
		if d.Init != nil {
			Walk(v, d.Init)
		}
	}
}
func (n *DeclStmt) stmt() {}

func (n *ExprStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "expr stmt", nil) }
func (n *ExprStmt) Span() (start, end token.Pos)  { return n.X.Span() }
func (n *ExprStmt) Walk(v Visitor)                { Walk(v, n.X) }
func (n *ExprStmt) stmt()                         {}

func (n *EmptyStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "empty", nil) }
func (n *EmptyStmt) Span() (start, end token.Pos)  { return n.Pos, n.Pos + 1 }
func (n *EmptyStmt) Walk(_ Visitor)                {}
func (n *EmptyStmt) stmt()                         {}

func (n *IfStmt) Format(f fmt.State, verb rune) {
	lbl := "if"
	if n.Else != nil {
		lbl += " else"
	}
	format(f, verb, n, lbl, nil)
}
func (n *IfStmt) Span() (start, end token.Pos) {
	end, _ = n.Then.Span()
	if n.Else != nil {
		_, end = n.Else.Span()
	} else {
		_, end = n.Then.Span()
	}
	return n.IfPos, end
}
func (n *IfStmt) Walk(v Visitor) {
	Walk(v, n.Cond)
	Walk(v, n.Then)
	if n.Else != nil {
		Walk(v, n.Else)
	}
}
func (n *IfStmt) stmt() {}

func (n *WhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "while", nil) }
func (n *WhileStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.WhilePos, end
}
func (n *WhileStmt) Walk(v Visitor) { Walk(v, n.Cond); Walk(v, n.Body) }
func (n *WhileStmt) stmt()          {}

func (n *DoWhileStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "do-while", nil) }
func (n *DoWhileStmt) Span() (start, end token.Pos) {
	_, end = n.Cond.Span()
	return n.DoPos, end
}
func (n *DoWhileStmt) Walk(v Visitor) { Walk(v, n.Body); Walk(v, n.Cond) }
func (n *DoWhileStmt) stmt()          {}

func (n *SwitchStmt) Format(f fmt.State, verb rune) {
	format(f, verb, n, "switch", map[string]int{"cases": len(n.Cases)})
}
func (n *SwitchStmt) Span() (start, end token.Pos) { return n.SwitchPos, n.EndPos }
func (n *SwitchStmt) Walk(v Visitor) {
	Walk(v, n.Disc)
	for _, c := range n.Cases {
		if c.Test != nil {
			Walk(v, c.Test)
		}
		for _, s := range c.Body {
			Walk(v, s)
		}
	}
}
func (n *SwitchStmt) stmt() {}

func (n *BreakStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "break", nil) }
func (n *BreakStmt) Span() (start, end token.Pos) {
	end = n.Pos + 5
	if n.Label != nil {
		_, end = n.Label.Span()
	}
	return n.Pos, end
}
func (n *BreakStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
}
func (n *BreakStmt) stmt() {}

func (n *ContinueStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "continue", nil) }
func (n *ContinueStmt) Span() (start, end token.Pos) {
	end = n.Pos + 8
	if n.Label != nil {
		_, end = n.Label.Span()
	}
	return n.Pos, end
}
func (n *ContinueStmt) Walk(v Visitor) {
	if n.Label != nil {
		Walk(v, n.Label)
	}
}
func (n *ContinueStmt) stmt() {}

func (n *ThrowStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "throw", nil) }
func (n *ThrowStmt) Span() (start, end token.Pos) {
	_, end = n.Arg.Span()
	return n.Pos, end
}
func (n *ThrowStmt) Walk(v Visitor) { Walk(v, n.Arg) }
func (n *ThrowStmt) stmt()          {}

func (n *ReturnStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "return", nil) }
func (n *ReturnStmt) Span() (start, end token.Pos) {
	end = n.Pos + 6
	if n.Arg != nil {
		_, end = n.Arg.Span()
	}
	return n.Pos, end
}
func (n *ReturnStmt) Walk(v Visitor) {
	if n.Arg != nil {
		Walk(v, n.Arg)
	}
}
func (n *ReturnStmt) stmt() {}

func (n *LabeledStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "label", nil) }
func (n *LabeledStmt) Span() (start, end token.Pos) {
	start, _ = n.Label.Span()
	_, end = n.Stmt.Span()
	return start, end
}
func (n *LabeledStmt) Walk(v Visitor) { Walk(v, n.Label); Walk(v, n.Stmt) }
func (n *LabeledStmt) stmt()          {}

func (n *FuncDeclStmt) Format(f fmt.State, verb rune) { format(f, verb, n, "fn decl", nil) }
func (n *FuncDeclStmt) Span() (start, end token.Pos)  { return n.Fn.Span() }
func (n *FuncDeclStmt) Walk(v Visitor)                { Walk(v, n.Fn) }
func (n *FuncDeclStmt) stmt()                         {}
