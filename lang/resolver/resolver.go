// Package resolver implements a pre-compile early-error pass over the AST:
// it validates break/continue targets, rejects delete/assignment of `this`,
// and rejects duplicate let/const bindings within one block, accumulating
// every violation it finds rather than stopping at the first one.
package resolver

import (
	"fmt"

	"github.com/mna/ecmacore/lang/ast"
	"github.com/mna/ecmacore/lang/token"
)

// loopCtx tracks one enclosing loop or switch, for validating break/continue
// targets the same way the compiler's own jump-info stack does at codegen
// time (spec.md-equivalent of §4.1.4), but as an early error instead of a
// compiler panic.
type loopCtx struct {
	label  string // "" if unlabeled
	isLoop bool   // false for a bare labeled statement or a switch
}

// Resolver walks a chunk once, collecting early errors.
type Resolver struct {
	file *token.File
	errs ErrorList
	ctx  []loopCtx
}

// New creates a Resolver reporting positions relative to file.
func New(file *token.File) *Resolver {
	return &Resolver{file: file}
}

// Check walks chunk's top-level block and returns every early error found,
// or nil if none. It does not mutate chunk and may be run independently of
// compilation (spec.md §2.3: the compiler remains correct on its own).
func (r *Resolver) Check(chunk *ast.Chunk) error {
	if chunk.Block != nil {
		r.checkBlock(chunk.Block)
	}
	if len(r.errs) == 0 {
		return nil
	}
	return r.errs
}

func (r *Resolver) errorf(pos token.Pos, format string, args ...interface{}) {
	r.errs = append(r.errs, &Error{Pos: r.file.Position(pos), Msg: fmt.Sprintf(format, args...)})
}

// checkBlock validates a fresh lexical block: every let/const name it binds
// directly (not through a nested block or function) must be unique.
func (r *Resolver) checkBlock(b *ast.Block) {
	seen := map[string]token.Pos{}
	for _, s := range b.Stmts {
		if decl, ok := s.(*ast.DeclStmt); ok && decl.Kind != ast.Var {
			for _, d := range decl.Decls {
				for _, id := range d.Target.Idents() {
					if prev, dup := seen[id.Name]; dup {
						r.errorf(id.NamePos, "duplicate %s binding of %q (previously bound at offset %d)",
							decl.Kind, id.Name, r.file.Offset(prev))
						continue
					}
					seen[id.Name] = id.NamePos
				}
			}
		}
		r.checkStmt(s)
	}
}

func (r *Resolver) checkStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Block:
		r.checkBlock(n)
	case *ast.DeclStmt:
		for _, d := range n.Decls {
			if d.Init != nil {
				r.checkExpr(d.Init)
			}
		}
	case *ast.ExprStmt:
		r.checkExpr(n.X)
	case *ast.IfStmt:
		r.checkExpr(n.Cond)
		r.checkBlock(n.Then)
		if n.Else != nil {
			r.checkStmt(n.Else)
		}
	case *ast.WhileStmt:
		r.checkExpr(n.Cond)
		r.withLoop("", func() { r.checkBlock(n.Body) })
	case *ast.DoWhileStmt:
		r.withLoop("", func() { r.checkBlock(n.Body) })
		r.checkExpr(n.Cond)
	case *ast.SwitchStmt:
		r.checkExpr(n.Disc)
		r.withSwitch("", func() {
			for _, cl := range n.Cases {
				if cl.Test != nil {
					r.checkExpr(cl.Test)
				}
				for _, body := range cl.Body {
					r.checkStmt(body)
				}
			}
		})
	case *ast.BreakStmt:
		r.checkBreak(n.Pos, labelName(n.Label))
	case *ast.ContinueStmt:
		r.checkContinue(n.Pos, labelName(n.Label))
	case *ast.ThrowStmt:
		r.checkExpr(n.Arg)
	case *ast.ReturnStmt:
		if n.Arg != nil {
			r.checkExpr(n.Arg)
		}
	case *ast.LabeledStmt:
		r.checkLabeled(n)
	case *ast.FuncDeclStmt:
		r.checkFunc(n.Fn)
	case *ast.EmptyStmt:
	default:
		r.errorf(posOfStmt(n), "resolver: unsupported statement %T", s)
	}
}

func (r *Resolver) checkLabeled(n *ast.LabeledStmt) {
	label := n.Label.Name
	switch inner := n.Stmt.(type) {
	case *ast.WhileStmt:
		r.checkExpr(inner.Cond)
		r.withLoop(label, func() { r.checkBlock(inner.Body) })
	case *ast.DoWhileStmt:
		r.withLoop(label, func() { r.checkBlock(inner.Body) })
		r.checkExpr(inner.Cond)
	case *ast.SwitchStmt:
		r.checkExpr(inner.Disc)
		r.withSwitch(label, func() {
			for _, cl := range inner.Cases {
				if cl.Test != nil {
					r.checkExpr(cl.Test)
				}
				for _, body := range cl.Body {
					r.checkStmt(body)
				}
			}
		})
	default:
		r.withSwitch(label, func() { r.checkStmt(n.Stmt) })
	}
}

func (r *Resolver) withLoop(label string, fn func()) {
	r.ctx = append(r.ctx, loopCtx{label: label, isLoop: true})
	fn()
	r.ctx = r.ctx[:len(r.ctx)-1]
}

func (r *Resolver) withSwitch(label string, fn func()) {
	r.ctx = append(r.ctx, loopCtx{label: label, isLoop: false})
	fn()
	r.ctx = r.ctx[:len(r.ctx)-1]
}

// checkBreak validates an unlabeled break against the innermost enclosing
// loop or switch, and a labeled break against any enclosing entry bearing
// that label (loop or switch alike) — spec.md §4.1.4's break rules.
func (r *Resolver) checkBreak(pos token.Pos, label string) {
	if label == "" {
		if len(r.ctx) == 0 {
			r.errorf(pos, "break outside of a loop or switch")
		}
		return
	}
	for _, c := range r.ctx {
		if c.label == label {
			return
		}
	}
	r.errorf(pos, "break: no enclosing label %q", label)
}

// checkContinue validates against loop entries only: an unlabeled continue
// targets the innermost loop (skipping any switch in between), a labeled
// continue must name a loop specifically.
func (r *Resolver) checkContinue(pos token.Pos, label string) {
	if label == "" {
		for _, c := range r.ctx {
			if c.isLoop {
				return
			}
		}
		r.errorf(pos, "continue outside of a loop")
		return
	}
	for _, c := range r.ctx {
		if c.label == label {
			if !c.isLoop {
				r.errorf(pos, "continue: label %q does not label a loop", label)
			}
			return
		}
	}
	r.errorf(pos, "continue: no enclosing label %q", label)
}

func (r *Resolver) checkFunc(fn *ast.FuncExpr) {
	saved := r.ctx
	r.ctx = nil
	r.checkBlock(fn.Body)
	r.ctx = saved
}

func (r *Resolver) checkExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.ConstantExpr, *ast.IdentExpr, *ast.ThisExpr:
	case *ast.DotExpr:
		r.checkExpr(n.Object)
	case *ast.IndexExpr:
		r.checkExpr(n.Object)
		r.checkExpr(n.Index)
	case *ast.UnaryExpr:
		if n.Op == ast.Delete {
			if _, ok := n.Operand.(*ast.ThisExpr); ok {
				r.errorf(n.OpPos, "delete of `this` is not allowed")
			}
		}
		r.checkExpr(n.Operand)
	case *ast.UpdateExpr:
		if _, ok := n.Operand.(*ast.ThisExpr); ok {
			r.errorf(n.OpPos, "invalid increment/decrement target: `this`")
		}
		r.checkExpr(n.Operand)
	case *ast.BinaryExpr:
		if n.Op.IsAssign() {
			if _, ok := n.Left.(*ast.ThisExpr); ok {
				r.errorf(n.OpPos, "invalid assignment target: `this`")
			}
		}
		r.checkExpr(n.Left)
		r.checkExpr(n.Right)
	case *ast.ConditionalExpr:
		r.checkExpr(n.Cond)
		r.checkExpr(n.Then)
		r.checkExpr(n.Else)
	case *ast.ArrayExpr:
		for _, el := range n.Elements {
			r.checkExpr(el)
		}
	case *ast.SpreadExpr:
		r.checkExpr(n.Operand)
	case *ast.ObjectExpr:
		for _, p := range n.Props {
			if p.Computed {
				r.checkExpr(p.Key)
			}
			if p.Value != nil {
				r.checkExpr(p.Value)
			}
		}
	case *ast.CallExpr:
		r.checkExpr(n.Callee)
		for _, a := range n.Args {
			r.checkExpr(a)
		}
	case *ast.FuncExpr:
		r.checkFunc(n)
	default:
		r.errorf(posOfExpr(n), "resolver: unsupported expression %T", e)
	}
}

func labelName(id *ast.IdentExpr) string {
	if id == nil {
		return ""
	}
	return id.Name
}

func posOfStmt(s ast.Stmt) token.Pos {
	start, _ := s.Span()
	return start
}

func posOfExpr(e ast.Expr) token.Pos {
	start, _ := e.Span()
	return start
}
