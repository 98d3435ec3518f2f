package compiler

import (
	"github.com/mna/ecmacore/lang/ast"
	"github.com/mna/ecmacore/lang/token"
)

// CompileStatementList lowers a sequence of statements. useExpr requests
// that the last statement's value (if it is an ExprStmt) be left on the
// stack; every other statement is compiled for its side effects only.
func (c *Compiler) CompileStatementList(stmts []ast.Stmt, useExpr bool) error {
	for i, s := range stmts {
		last := i == len(stmts)-1
		if err := c.compileStmt(s, last && useExpr); err != nil {
			return err
		}
	}
	return nil
}

// CompileStmt lowers a single statement.
func (c *Compiler) CompileStmt(s ast.Stmt, useExpr bool) error {
	return c.compileStmt(s, useExpr)
}

func (c *Compiler) compileStmt(s ast.Stmt, useExpr bool) error {
	switch n := s.(type) {
	case *ast.Block:
		return c.compileBlock(n)
	case *ast.DeclStmt:
		return c.compileDecl(n)
	case *ast.ExprStmt:
		return c.compileExpr(n.X, useExpr)
	case *ast.EmptyStmt:
		return nil
	case *ast.IfStmt:
		return c.compileIf(n)
	case *ast.WhileStmt:
		return c.compileWhile(n, "")
	case *ast.DoWhileStmt:
		return c.compileDoWhile(n, "")
	case *ast.SwitchStmt:
		return c.compileSwitch(n, "")
	case *ast.BreakStmt:
		label := ""
		if n.Label != nil {
			label = n.Label.Name
		}
		return c.compileBreak(n.Pos, label)
	case *ast.ContinueStmt:
		label := ""
		if n.Label != nil {
			label = n.Label.Name
		}
		return c.compileContinue(n.Pos, label)
	case *ast.ThrowStmt:
		if err := c.compileExpr(n.Arg, true); err != nil {
			return err
		}
		c.emitOp(Throw)
		return nil
	case *ast.ReturnStmt:
		if n.Arg != nil {
			if err := c.compileExpr(n.Arg, true); err != nil {
				return err
			}
		} else {
			c.emitOp(PushUndefined)
		}
		c.emitOp(Return)
		return nil
	case *ast.LabeledStmt:
		return c.compileLabeled(n)
	case *ast.FuncDeclStmt:
		return c.compileFuncDecl(n)
	default:
		return c.errorf(posOfStmt(n), "unsupported statement %T", s)
	}
}

func posOfStmt(s ast.Stmt) token.Pos {
	start, _ := s.Span()
	return start
}

func (c *Compiler) compileBlock(b *ast.Block) error {
	return c.CompileStatementList(b.Stmts, false)
}

// compileDecl lowers a var/let/const declaration statement (spec.md
// §4.1.7). A declarator with no initializer must target a plain
// identifier (destructuring always requires one); with an initializer it
// may target any pattern, which compileBindPattern destructures.
func (c *Compiler) compileDecl(n *ast.DeclStmt) error {
	for _, d := range n.Decls {
		if d.Init == nil {
			for _, id := range d.Target.Idents() {
				c.declareOnly(n.Kind, id.Name)
			}
			continue
		}
		if err := c.compileExpr(d.Init, true); err != nil {
			return err
		}
		if err := c.compileBindPattern(n.Kind, d.Target); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) declareOnly(kind ast.DeclKind, name string) {
	switch kind {
	case ast.Var:
		c.emitName(DefVar, name)
	case ast.Let:
		c.emitName(DefLet, name)
	case ast.Const:
		c.emitName(DefConst, name)
	}
}

// compileBindPattern consumes the value currently on top of the stack,
// binding it (directly, or by destructuring) to pat under kind.
func (c *Compiler) compileBindPattern(kind ast.DeclKind, pat ast.Pattern) error {
	switch p := pat.(type) {
	case *ast.IdentExpr:
		c.declareOnly(kind, p.Name)
		switch kind {
		case ast.Var:
			c.emitName(SetName, p.Name)
		case ast.Let, ast.Const:
			c.emitName(InitLexical, p.Name)
		}
		return nil

	case *ast.ArrayPattern:
		tmp := c.newTempName("arr")
		c.emitName(DefVar, tmp)
		c.emitName(SetName, tmp)
		for i, el := range p.Elements {
			if el == nil {
				continue
			}
			c.emitName(GetName, tmp)
			c.emitNumber(float64(i))
			c.emitOp(GetPropertyByValue)
			if err := c.compileBindPattern(kind, el); err != nil {
				return err
			}
		}
		return nil

	case *ast.ObjectPattern:
		tmp := c.newTempName("obj")
		c.emitName(DefVar, tmp)
		c.emitName(SetName, tmp)
		for _, prop := range p.Props {
			c.emitName(GetName, tmp)
			c.emitName(GetPropertyByName, prop.Key.Name)
			if err := c.compileBindPattern(kind, prop.Target); err != nil {
				return err
			}
		}
		return nil

	default:
		return c.errorf(token.NoPos, "unsupported binding pattern %T", pat)
	}
}

func (c *Compiler) compileIf(n *ast.IfStmt) error {
	if err := c.compileExpr(n.Cond, true); err != nil {
		return err
	}
	elseLbl := c.jumpIfFalse()
	if err := c.compileBlock(n.Then); err != nil {
		return err
	}
	if n.Else == nil {
		c.patchJump(elseLbl)
		return nil
	}
	end := c.jump()
	c.patchJump(elseLbl)
	if err := c.compileStmt(n.Else, false); err != nil {
		return err
	}
	c.patchJump(end)
	return nil
}

func (c *Compiler) compileWhile(n *ast.WhileStmt, label string) error {
	start := c.here()
	c.pushLoop(label, start)
	if err := c.compileExpr(n.Cond, true); err != nil {
		return err
	}
	end := c.jumpIfFalse()
	if err := c.compileBlock(n.Body); err != nil {
		return err
	}
	backToCond := c.jump()
	c.patchJumpWithTarget(backToCond, start)
	c.patchJump(end)
	c.popJumpInfo()
	return nil
}

func (c *Compiler) compileDoWhile(n *ast.DoWhileStmt, label string) error {
	start := c.here()
	c.pushLoop(label, start)
	if err := c.compileBlock(n.Body); err != nil {
		return err
	}
	if err := c.compileExpr(n.Cond, true); err != nil {
		return err
	}
	backToStart := c.jumpWithCustomOpcode(JumpIfTrue)
	c.patchJumpWithTarget(backToStart, start)
	c.popJumpInfo()
	return nil
}

// compileSwitch lowers a switch statement: the discriminant is evaluated
// once, each case's test is compared against it in source order with Case
// (which pops the comparison and jumps to its body if equal), falling
// through to Default (or past the statement if there is none).
func (c *Compiler) compileSwitch(n *ast.SwitchStmt, label string) error {
	if err := c.compileExpr(n.Disc, true); err != nil {
		return err
	}
	c.pushSwitch(label)

	var caseLabels []Label
	var defaultIdx = -1
	for i, cl := range n.Cases {
		if cl.Test == nil {
			defaultIdx = i
			continue
		}
		c.emitOp(Dup)
		if err := c.compileExpr(cl.Test, true); err != nil {
			return err
		}
		caseLabels = append(caseLabels, c.jumpWithCustomOpcode(Case))
	}

	var defaultLbl Label
	hasDefault := defaultIdx >= 0
	if hasDefault {
		defaultLbl = c.jumpWithCustomOpcode(Default)
	}
	end := c.jump()

	li := 0
	for _, cl := range n.Cases {
		if cl.Test == nil {
			c.patchJump(defaultLbl)
		} else {
			c.patchJump(caseLabels[li])
			li++
		}
		for _, s := range cl.Body {
			if err := c.compileStmt(s, false); err != nil {
				return err
			}
		}
	}
	c.patchJump(end)
	c.popJumpInfo() // breaks land on the Pop below, so they drop the discriminant too
	c.emitOp(Pop)   // drop the discriminant
	return nil
}

func (c *Compiler) compileLabeled(n *ast.LabeledStmt) error {
	label := n.Label.Name
	switch inner := n.Stmt.(type) {
	case *ast.WhileStmt:
		return c.compileWhile(inner, label)
	case *ast.DoWhileStmt:
		return c.compileDoWhile(inner, label)
	case *ast.SwitchStmt:
		return c.compileSwitch(inner, label)
	default:
		c.pushSwitch(label) // break-only context; labeled non-loop statements can't be continue targets
		if err := c.compileStmt(n.Stmt, false); err != nil {
			return err
		}
		c.popJumpInfo()
		return nil
	}
}

func (c *Compiler) compileFuncDecl(n *ast.FuncDeclStmt) error {
	idx, err := c.compileFunction(n.Fn)
	if err != nil {
		return err
	}
	c.emitName(DefVar, n.Fn.Name.Name)
	c.emitFunction(idx)
	c.emitName(SetName, n.Fn.Name.Name)
	return nil
}
