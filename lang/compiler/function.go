package compiler

import (
	"fmt"

	"github.com/mna/ecmacore/lang/ast"
)

// compileFunction sub-compiles fn into its own CodeBlock, appends it to the
// enclosing compiler's Functions table, and returns its index (spec.md
// §4.1.8). Arrow functions compile with ThisMode = Lexical and
// Constructor = false; every function body, arrow or not, ends with an
// unconditional PushUndefined;Return tail, so a body that falls off the
// end without an explicit return yields undefined without the compiler
// having to prove reachability at every control-flow exit.
func (c *Compiler) compileFunction(fn *ast.FuncExpr) (uint32, error) {
	name := ""
	if fn.Name != nil {
		name = fn.Name.Name
	}

	sub := New(c.file, name, c.block.Strict)
	if fn.Arrow {
		sub.block.ThisMode = ThisLexical
		sub.block.Constructor = false
	}

	for i, p := range fn.Params {
		if id, ok := p.(*ast.IdentExpr); ok {
			sub.block.Params = append(sub.block.Params, id.Name)
			continue
		}
		synthetic := fmt.Sprintf("%%param%d", i)
		sub.block.Params = append(sub.block.Params, synthetic)
		sub.emitName(GetName, synthetic)
		if err := sub.compileBindPattern(ast.Let, p); err != nil {
			return 0, err
		}
	}
	sub.block.Length = leadingSimpleParamCount(fn.Params)

	if err := sub.CompileStatementList(fn.Body.Stmts, false); err != nil {
		return 0, err
	}
	sub.emitOp(PushUndefined)
	sub.emitOp(Return)

	block := sub.Finish()
	idx := uint32(len(c.block.Functions))
	c.block.Functions = append(c.block.Functions, block)
	return idx, nil
}

// leadingSimpleParamCount returns the count of leading plain-identifier
// parameters, stopping at the first destructuring parameter (spec.md
// §3.1: CodeBlock.Length counts only the parameters before the first one
// that isn't a simple binding).
func leadingSimpleParamCount(params []ast.Pattern) int {
	n := 0
	for _, p := range params {
		if _, ok := p.(*ast.IdentExpr); !ok {
			break
		}
		n++
	}
	return n
}

func (c *Compiler) compileFuncLiteral(n *ast.FuncExpr, useExpr bool) error {
	idx, err := c.compileFunction(n)
	if err != nil {
		return err
	}
	c.emitFunction(idx)
	if !useExpr {
		c.emitOp(Pop)
	}
	return nil
}
