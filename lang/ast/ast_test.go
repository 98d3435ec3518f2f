package ast_test

import (
	"fmt"
	"testing"

	"github.com/mna/ecmacore/lang/ast"
	"github.com/stretchr/testify/assert"
)

func TestWalkEntersRootAndDirectChildren(t *testing.T) {
	tree := &ast.IfStmt{
		Cond: &ast.BinaryExpr{
			Left:  &ast.IdentExpr{Name: "a"},
			Op:    ast.LogicalAnd,
			Right: &ast.IdentExpr{Name: "b"},
		},
		Then: &ast.Block{Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.CallExpr{Callee: &ast.IdentExpr{Name: "f"}}},
		}},
	}

	var visited []ast.Node
	ast.Walk(ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir == ast.VisitEnter {
			visited = append(visited, n)
		}
		return ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
			if dir == ast.VisitEnter {
				visited = append(visited, n)
			}
			return nil
		})
	}), tree)

	// The outer call registers tree itself; the child visitor registers each
	// direct child (Cond, Then) and returns nil, so nothing deeper is entered.
	assert.NotEmpty(t, visited)
	assert.Equal(t, tree, visited[0])
	assert.Len(t, visited, 3)
}

func TestIsAssignable(t *testing.T) {
	assert.True(t, ast.IsAssignable(&ast.IdentExpr{Name: "x"}))
	assert.True(t, ast.IsAssignable(&ast.DotExpr{Object: &ast.IdentExpr{Name: "o"}, Name: &ast.IdentExpr{Name: "p"}}))
	assert.True(t, ast.IsAssignable(&ast.IndexExpr{Object: &ast.IdentExpr{Name: "o"}, Index: &ast.IdentExpr{Name: "k"}}))
	assert.False(t, ast.IsAssignable(&ast.ConstantExpr{Kind: ast.IntLit, Value: int64(1)}))
	assert.False(t, ast.IsAssignable(&ast.ThisExpr{}))
}

func TestIdentPatternIdents(t *testing.T) {
	id := &ast.IdentExpr{Name: "x"}
	assert.Equal(t, []*ast.IdentExpr{id}, id.Idents())

	anon := &ast.IdentExpr{}
	assert.Nil(t, anon.Idents())
}

func TestBinaryOpIsAssignAndIsLogical(t *testing.T) {
	assert.True(t, ast.Assign.IsAssign())
	assert.True(t, ast.AddAssign.IsAssign())
	assert.True(t, ast.CoalesceAssign.IsAssign())
	assert.False(t, ast.Add.IsAssign())
	assert.False(t, ast.LogicalAnd.IsAssign())

	assert.True(t, ast.LogicalAnd.IsLogical())
	assert.True(t, ast.Coalesce.IsLogical())
	assert.False(t, ast.Add.IsLogical())
}

func TestAssignOpForCompoundOperators(t *testing.T) {
	assert.Equal(t, ast.Add, ast.AddAssign.AssignOpFor())
	assert.Equal(t, ast.LogicalOr, ast.OrAssign.AssignOpFor())
	assert.Panics(t, func() { ast.Add.AssignOpFor() })
}

func TestFormatDoesNotPanic(t *testing.T) {
	nodes := []ast.Node{
		&ast.IdentExpr{Name: "x"},
		&ast.ConstantExpr{Kind: ast.StringLit, Raw: `"s"`},
		&ast.ArrayExpr{Elements: []ast.Expr{&ast.IdentExpr{Name: "a"}}},
		&ast.ObjectExpr{Props: []*ast.Property{{Kind: ast.PropKeyValue, Key: &ast.IdentExpr{Name: "k"}, Value: &ast.IdentExpr{Name: "v"}}}},
	}
	for _, n := range nodes {
		n := n
		assert.NotPanics(t, func() { _ = fmt.Sprintf("%v", n) })
	}
}
