package compiler

import (
	"encoding/binary"

	"github.com/mna/ecmacore/lang/token"
)

// Label is an opaque token for a not-yet-patched jump operand (spec.md
// §4.1.3). It identifies the 4-byte code offset that must later be filled
// in with patchJump or patchJumpWithTarget; it carries no meaning outside
// the Compiler that produced it.
type Label struct {
	pos int // byte offset of the jump's 4-byte operand within block.Code
}

// jumpPlaceholder marks an operand that has not yet been patched, so a bug
// that forgets to patch a Label produces an obviously-wrong address rather
// than a plausible-looking zero.
const jumpPlaceholder uint32 = 0xFFFFFFFF

// jump unconditionally emits a forward jump and returns its Label.
func (c *Compiler) jump() Label { return c.emitJump(Jump) }

// jumpIfFalse pops the top of stack and emits a jump taken when it is
// falsy.
func (c *Compiler) jumpIfFalse() Label { return c.emitJump(JumpIfFalse) }

// jumpWithCustomOpcode emits any of the other jump-carrying opcodes
// (JumpIfTrue, LogicalAnd, LogicalOr, Coalesce, Case, Default), all of which
// share the same "opcode followed by a 4-byte absolute offset" shape.
func (c *Compiler) jumpWithCustomOpcode(op Opcode) Label { return c.emitJump(op) }

func (c *Compiler) emitJump(op Opcode) Label {
	c.block.Code = append(c.block.Code, byte(op))
	pos := len(c.block.Code)
	c.block.Code = binary.NativeEndian.AppendUint32(c.block.Code, jumpPlaceholder)
	c.pending[pos] = true
	return Label{pos: pos}
}

// patchJump patches l's operand to the current end of the code, i.e. "jump
// to here".
func (c *Compiler) patchJump(l Label) {
	c.patchJumpWithTarget(l, uint32(len(c.block.Code)))
}

// patchJumpWithTarget patches l's operand to an explicit absolute address,
// used for backward jumps (loop conditions, continue) whose target was
// recorded before the jump itself was emitted.
func (c *Compiler) patchJumpWithTarget(l Label, addr uint32) {
	if !c.pending[l.pos] {
		panic("compiler: Label patched more than once")
	}
	binary.NativeEndian.PutUint32(c.block.Code[l.pos:l.pos+4], addr)
	delete(c.pending, l.pos)
}

func (c *Compiler) here() uint32 { return uint32(len(c.block.Code)) }

// jumpControlInfo tracks one enclosing loop or switch so break/continue can
// resolve their target (spec.md §4.1.4). isLoop is false only for a bare
// switch, which continue must skip over when searching outward.
type jumpControlInfo struct {
	label    string // "" if this loop/switch is unlabeled
	start    uint32 // continue target; meaningful only when isLoop
	isLoop   bool
	breaks   []Label // break jumps pending patch to "after this construct"
}

func (c *Compiler) pushLoop(label string, start uint32) {
	c.jumpInfo = append(c.jumpInfo, &jumpControlInfo{label: label, start: start, isLoop: true})
}

func (c *Compiler) pushSwitch(label string) {
	c.jumpInfo = append(c.jumpInfo, &jumpControlInfo{label: label, isLoop: false})
}

// popJumpInfo patches every pending break of the innermost context to jump
// to the current code position ("after the construct") and removes it from
// the stack. Call this once the construct's bytecode is fully emitted.
func (c *Compiler) popJumpInfo() {
	n := len(c.jumpInfo)
	info := c.jumpInfo[n-1]
	c.jumpInfo = c.jumpInfo[:n-1]
	for _, l := range info.breaks {
		c.patchJump(l)
	}
}

// compileBreak resolves a break (possibly labeled) against the jump-control
// stack and records a pending jump to be patched when the matching
// construct is popped.
func (c *Compiler) compileBreak(pos token.Pos, label string) error {
	for i := len(c.jumpInfo) - 1; i >= 0; i-- {
		info := c.jumpInfo[i]
		if label == "" || info.label == label {
			l := c.jump()
			info.breaks = append(info.breaks, l)
			return nil
		}
	}
	if label != "" {
		return c.errorf(pos, "undefined label %q", label)
	}
	return c.errorf(pos, "illegal break statement outside of a loop or switch")
}

// compileContinue resolves a continue (possibly labeled) against the
// jump-control stack. Unlabeled continue and labeled continue alike only
// ever target a loop, skipping over (for unlabeled) or rejecting (for
// labeled, with an error) any intervening switch.
func (c *Compiler) compileContinue(pos token.Pos, label string) error {
	for i := len(c.jumpInfo) - 1; i >= 0; i-- {
		info := c.jumpInfo[i]
		if label != "" && info.label != label {
			continue
		}
		if !info.isLoop {
			if label != "" {
				return c.errorf(pos, "continue label %q does not name a loop", label)
			}
			continue
		}
		l := c.jump()
		c.patchJumpWithTarget(l, info.start)
		return nil
	}
	if label != "" {
		return c.errorf(pos, "undefined label %q", label)
	}
	return c.errorf(pos, "illegal continue statement outside of a loop")
}
