package compiler

import (
	"testing"

	"github.com/mna/ecmacore/lang/token"
	"github.com/stretchr/testify/assert"
)

func TestFinishPanicsOnUnpatchedJump(t *testing.T) {
	fset := token.NewFileSet()
	file := fset.AddFile("test.js", -1, 1024)
	c := New(file, "", false)
	c.jump() // left deliberately unpatched
	assert.Panics(t, func() { c.Finish() })
}

func TestFinishPanicsOnOpenJumpControlStack(t *testing.T) {
	fset := token.NewFileSet()
	file := fset.AddFile("test.js", -1, 1024)
	c := New(file, "", false)
	c.pushLoop("", 0)
	assert.Panics(t, func() { c.Finish() })
}

func TestPatchJumpFillsPlaceholder(t *testing.T) {
	fset := token.NewFileSet()
	file := fset.AddFile("test.js", -1, 1024)
	c := New(file, "", false)
	l := c.jump()
	c.patchJump(l)
	block := c.Finish()
	instrs := Disassemble(block)
	assert.Len(t, instrs, 1)
	assert.EqualValues(t, len(block.Code), instrs[0].Arg)
}
