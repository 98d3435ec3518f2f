package compiler_test

import (
	"math/big"
	"testing"

	"github.com/mna/ecmacore/lang/ast"
	"github.com/mna/ecmacore/lang/compiler"
	"github.com/mna/ecmacore/lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile() *token.File {
	fset := token.NewFileSet()
	return fset.AddFile("test.js", -1, 1<<20)
}

func ident(name string) *ast.IdentExpr { return &ast.IdentExpr{Name: name} }

func intLit(v int64) *ast.ConstantExpr { return &ast.ConstantExpr{Kind: ast.IntLit, Value: v} }

func boolLit(v bool) *ast.ConstantExpr { return &ast.ConstantExpr{Kind: ast.BoolLit, Value: v} }

func exprStmt(e ast.Expr) *ast.ExprStmt { return &ast.ExprStmt{X: e} }

func compileExpr(t *testing.T, e ast.Expr, useExpr bool) *compiler.CodeBlock {
	t.Helper()
	c := compiler.New(newFile(), "", false)
	require.NoError(t, c.CompileExpr(e, useExpr))
	return c.Finish()
}

func compileStmts(t *testing.T, stmts ...ast.Stmt) *compiler.CodeBlock {
	t.Helper()
	c := compiler.New(newFile(), "", false)
	require.NoError(t, c.CompileStatementList(stmts, false))
	return c.Finish()
}

func TestEmitNumberMostCompactOpcode(t *testing.T) {
	cases := []struct {
		name string
		v    int64
		want compiler.Opcode
	}{
		{"zero", 0, compiler.PushZero},
		{"one", 1, compiler.PushOne},
		{"int8", 42, compiler.PushInt8},
		{"int8-negative", -100, compiler.PushInt8},
		{"int16", 1000, compiler.PushInt16},
		{"int32", 100000, compiler.PushInt32},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			block := compileExpr(t, intLit(tc.v), true)
			ops := compiler.Ops(block)
			require.Len(t, ops, 1)
			assert.Equal(t, tc.want, ops[0])
		})
	}
}

func TestEmitNumberNonIntegerFloatUsesPushRational(t *testing.T) {
	block := compileExpr(t, &ast.ConstantExpr{Kind: ast.FloatLit, Value: 3.5}, true)
	instrs := compiler.Disassemble(block)
	require.Len(t, instrs, 1)
	assert.Equal(t, compiler.PushRational, instrs[0].Op)
	assert.Equal(t, 3.5, instrs[0].Float64)
}

func TestBigIntLiteralDedup(t *testing.T) {
	v := big.NewInt(123456789012345)
	c := compiler.New(newFile(), "", false)
	require.NoError(t, c.CompileExpr(&ast.ArrayExpr{Elements: []ast.Expr{
		&ast.ConstantExpr{Kind: ast.BigIntLit, Value: v},
		&ast.ConstantExpr{Kind: ast.BigIntLit, Value: big.NewInt(123456789012345)},
	}}, true))
	block := c.Finish()
	require.Len(t, block.Literals, 1, "equal big.Int values must dedup to one literal pool entry")
}

func TestArrayLiteralPushesElementsInReverseOrder(t *testing.T) {
	block := compileExpr(t, &ast.ArrayExpr{Elements: []ast.Expr{intLit(1), intLit(2), intLit(3)}}, true)
	ops := compiler.Ops(block)
	// 3 element pushes then PushNewArray; element values pushed 3,2,1.
	require.Len(t, ops, 4)
	assert.Equal(t, []compiler.Opcode{compiler.PushInt8, compiler.PushInt8, compiler.PushOne, compiler.PushNewArray}, ops)
	instrs := compiler.Disassemble(block)
	assert.EqualValues(t, 3, instrs[0].Int8)
	assert.EqualValues(t, 2, instrs[1].Int8)
}

func TestArrayLiteralRejectsSpread(t *testing.T) {
	c := compiler.New(newFile(), "", false)
	err := c.CompileExpr(&ast.ArrayExpr{Elements: []ast.Expr{&ast.SpreadExpr{Operand: ident("x")}}}, true)
	assert.Error(t, err)
}

func TestCallEvaluatesArgumentsInReverseOrder(t *testing.T) {
	block := compileExpr(t, &ast.CallExpr{
		Callee: ident("f"),
		Args:   []ast.Expr{intLit(1), intLit(2)},
	}, true)
	instrs := compiler.Disassemble(block)
	var pushes []compiler.Instr
	for _, in := range instrs {
		if in.Op == compiler.PushOne || (in.Op == compiler.PushInt8 && in.Int8 != 0) {
			pushes = append(pushes, in)
		}
	}
	require.Len(t, pushes, 2)
	assert.EqualValues(t, 2, pushes[0].Int8, "argument 2 must be pushed before argument 1")
	assert.Equal(t, compiler.PushOne, pushes[1].Op)
}

func TestCallBareCalleeGetsUndefinedThis(t *testing.T) {
	block := compileExpr(t, &ast.CallExpr{Callee: ident("f")}, true)
	ops := compiler.Ops(block)
	require.GreaterOrEqual(t, len(ops), 3)
	assert.Equal(t, compiler.PushUndefined, ops[0])
	assert.Equal(t, compiler.GetName, ops[1])
	assert.Equal(t, compiler.Call, ops[len(ops)-1])
}

func TestCallDotExprReceiver(t *testing.T) {
	block := compileExpr(t, &ast.CallExpr{
		Callee: &ast.DotExpr{Object: ident("obj"), Name: ident("method")},
	}, true)
	ops := compiler.Ops(block)
	assert.Equal(t, []compiler.Opcode{
		compiler.GetName, compiler.Dup, compiler.GetPropertyByName, compiler.Call,
	}, ops)
}

func TestDeleteProperty(t *testing.T) {
	block := compileExpr(t, &ast.UnaryExpr{
		Op:      ast.Delete,
		Operand: &ast.DotExpr{Object: ident("obj"), Name: ident("field")},
	}, true)
	ops := compiler.Ops(block)
	assert.Equal(t, []compiler.Opcode{compiler.GetName, compiler.DeletePropertyByName}, ops)
}

func TestDeleteBareIdentifierPushesFalse(t *testing.T) {
	block := compileExpr(t, &ast.UnaryExpr{Op: ast.Delete, Operand: ident("x")}, true)
	ops := compiler.Ops(block)
	assert.Equal(t, []compiler.Opcode{compiler.PushFalse}, ops)
}

func TestDeleteOtherExpressionPushesTrue(t *testing.T) {
	// A bare constant has no side effects, so compiling it with useExpr=false
	// elides it entirely; only the final PushTrue remains.
	block := compileExpr(t, &ast.UnaryExpr{Op: ast.Delete, Operand: intLit(1)}, true)
	ops := compiler.Ops(block)
	assert.Equal(t, []compiler.Opcode{compiler.PushTrue}, ops)
}

func TestDeleteOtherExpressionEvaluatesOperandForSideEffects(t *testing.T) {
	block := compileExpr(t, &ast.UnaryExpr{
		Op:      ast.Delete,
		Operand: &ast.CallExpr{Callee: ident("f")},
	}, true)
	ops := compiler.Ops(block)
	assert.Contains(t, ops, compiler.Call)
	assert.Equal(t, compiler.PushTrue, ops[len(ops)-1])
}

func TestLogicalShortCircuitOpcodes(t *testing.T) {
	block := compileExpr(t, &ast.BinaryExpr{Left: ident("a"), Op: ast.LogicalAnd, Right: ident("b")}, true)
	ops := compiler.Ops(block)
	assert.Equal(t, []compiler.Opcode{
		compiler.GetName, compiler.LogicalAnd, compiler.GetName, compiler.ToBoolean,
	}, ops)
}

func TestLogicalAssignUsesLogicalOpcodeNotJumpIfFalse(t *testing.T) {
	block := compileExpr(t, &ast.BinaryExpr{Left: ident("a"), Op: ast.AndAssign, Right: ident("b")}, false)
	ops := compiler.Ops(block)
	require.Contains(t, ops, compiler.LogicalAnd)
	assert.NotContains(t, ops, compiler.JumpIfFalse)
}

func TestIfElseShape(t *testing.T) {
	block := compileStmts(t, &ast.IfStmt{
		Cond: boolLit(true),
		Then: &ast.Block{Stmts: []ast.Stmt{exprStmt(ident("a"))}},
		Else: &ast.Block{Stmts: []ast.Stmt{exprStmt(ident("b"))}},
	})
	ops := compiler.Ops(block)
	assert.Equal(t, []compiler.Opcode{
		compiler.PushTrue, compiler.JumpIfFalse,
		compiler.GetName, compiler.Pop,
		compiler.Jump,
		compiler.GetName, compiler.Pop,
	}, ops)
}

func TestWhileLoopBreakContinue(t *testing.T) {
	block := compileStmts(t, &ast.WhileStmt{
		Cond: boolLit(true),
		Body: &ast.Block{Stmts: []ast.Stmt{&ast.BreakStmt{}, &ast.ContinueStmt{}}},
	})
	ops := compiler.Ops(block)
	assert.Equal(t, []compiler.Opcode{
		compiler.PushTrue, compiler.JumpIfFalse,
		compiler.Jump, compiler.Jump,
		compiler.Jump,
	}, ops)
}

func TestBreakOutsideLoopIsCompileError(t *testing.T) {
	c := compiler.New(newFile(), "", false)
	err := c.CompileStmt(&ast.BreakStmt{}, false)
	assert.Error(t, err)
}

func TestContinueOutsideLoopIsCompileError(t *testing.T) {
	c := compiler.New(newFile(), "", false)
	err := c.CompileStmt(&ast.ContinueStmt{}, false)
	assert.Error(t, err)
}

func TestSwitchDiscriminantDroppedExactlyOnce(t *testing.T) {
	block := compileStmts(t, &ast.SwitchStmt{
		Disc: ident("x"),
		Cases: []*ast.CaseClause{
			{Test: intLit(1), Body: []ast.Stmt{&ast.BreakStmt{}}},
			{Test: nil, Body: []ast.Stmt{}},
		},
	})
	ops := compiler.Ops(block)
	pops := 0
	for _, op := range ops {
		if op == compiler.Pop {
			pops++
		}
	}
	assert.Equal(t, 1, pops, "the discriminant must be popped exactly once, after the switch")
}

func TestFuncLiteralBodyEndsWithUndefinedReturn(t *testing.T) {
	fn := &ast.FuncExpr{
		Body: &ast.Block{Stmts: []ast.Stmt{exprStmt(ident("x"))}},
	}
	c := compiler.New(newFile(), "", false)
	require.NoError(t, c.CompileExpr(fn, true))
	block := c.Finish()
	require.Len(t, block.Functions, 1)
	sub := block.Functions[0]
	ops := compiler.Ops(sub)
	require.GreaterOrEqual(t, len(ops), 2)
	assert.Equal(t, []compiler.Opcode{compiler.PushUndefined, compiler.Return}, ops[len(ops)-2:])
}

func TestArrowFunctionIsLexicalThisNonConstructor(t *testing.T) {
	fn := &ast.FuncExpr{Arrow: true, Body: &ast.Block{}}
	c := compiler.New(newFile(), "", false)
	require.NoError(t, c.CompileExpr(fn, true))
	block := c.Finish()
	sub := block.Functions[0]
	assert.Equal(t, compiler.ThisLexical, sub.ThisMode)
	assert.False(t, sub.Constructor)
}

func TestFuncLiteralDiscardedPopsResult(t *testing.T) {
	fn := &ast.FuncExpr{Body: &ast.Block{}}
	c := compiler.New(newFile(), "", false)
	require.NoError(t, c.CompileExpr(fn, false))
	block := c.Finish()
	ops := compiler.Ops(block)
	require.GreaterOrEqual(t, len(ops), 2)
	assert.Equal(t, []compiler.Opcode{compiler.GetFunction, compiler.Pop}, ops[len(ops)-2:])
}

func TestStringLiteralDedup(t *testing.T) {
	c := compiler.New(newFile(), "", false)
	require.NoError(t, c.CompileExpr(&ast.ArrayExpr{Elements: []ast.Expr{
		&ast.ConstantExpr{Kind: ast.StringLit, Value: "hello"},
		&ast.ConstantExpr{Kind: ast.StringLit, Value: "hello"},
	}}, true))
	block := c.Finish()
	assert.Len(t, block.Literals, 1)
}

func TestCompoundAssignComputedPropertyRoundTrips(t *testing.T) {
	// obj[key] += 1, used as an expression: must not panic/error despite the
	// opcode set having no "duplicate top two stack items" primitive.
	block := compileExpr(t, &ast.BinaryExpr{
		Left:  &ast.IndexExpr{Object: ident("obj"), Index: ident("key")},
		Op:    ast.AddAssign,
		Right: intLit(1),
	}, true)
	ops := compiler.Ops(block)
	assert.Contains(t, ops, compiler.SetPropertyByValue)
	assert.Contains(t, ops, compiler.GetPropertyByValue)
}
