package compiler

import (
	"math/big"

	"github.com/mna/ecmacore/lang/ast"
	"github.com/mna/ecmacore/lang/jsstring"
	"github.com/mna/ecmacore/lang/token"
)

func posOf(e ast.Expr) token.Pos {
	start, _ := e.Span()
	return start
}

// CompileExpr lowers e, leaving its value on the stack iff useExpr, per
// spec.md §4.1.6.
func (c *Compiler) CompileExpr(e ast.Expr, useExpr bool) error {
	return c.compileExpr(e, useExpr)
}

func (c *Compiler) compileExpr(e ast.Expr, useExpr bool) error {
	switch n := e.(type) {
	case *ast.ConstantExpr:
		return c.compileConstant(n, useExpr)
	case *ast.IdentExpr:
		c.emitName(GetName, n.Name)
		c.dropIfUnused(useExpr)
		return nil
	case *ast.ThisExpr:
		c.emitOp(This)
		c.dropIfUnused(useExpr)
		return nil
	case *ast.DotExpr, *ast.IndexExpr:
		a, err := c.resolveAccess(e, false)
		if err != nil {
			return err
		}
		c.accessGet(a, useExpr)
		return nil
	case *ast.UnaryExpr:
		return c.compileUnary(n, useExpr)
	case *ast.UpdateExpr:
		return c.compileUpdate(n, useExpr)
	case *ast.BinaryExpr:
		return c.compileBinary(n, useExpr)
	case *ast.ConditionalExpr:
		return c.compileConditional(n, useExpr)
	case *ast.ArrayExpr:
		return c.compileArray(n, useExpr)
	case *ast.ObjectExpr:
		return c.compileObject(n, useExpr)
	case *ast.CallExpr:
		return c.compileCall(n, useExpr)
	case *ast.FuncExpr:
		return c.compileFuncLiteral(n, useExpr)
	case *ast.SpreadExpr:
		return c.errorf(posOf(e), "spread elements are not supported")
	default:
		return c.errorf(posOf(e), "unsupported expression %T", e)
	}
}

// dropIfUnused pops a value the caller has no use for. Most opcodes are
// emitted only when their result is wanted in the first place, but a few
// constructs (GetName, This, property reads) are simplest to always push
// and discard conditionally.
func (c *Compiler) dropIfUnused(useExpr bool) {
	if !useExpr {
		c.emitOp(Pop)
	}
}

func (c *Compiler) compileConstant(n *ast.ConstantExpr, useExpr bool) error {
	if !useExpr {
		return nil
	}
	switch n.Kind {
	case ast.StringLit:
		s, _ := n.Value.(string)
		c.emitStringLiteral(jsstring.FromUTF8(s))
	case ast.IntLit:
		v, _ := n.Value.(int64)
		c.emitNumber(float64(v))
	case ast.FloatLit:
		v, _ := n.Value.(float64)
		c.emitNumber(v)
	case ast.BigIntLit:
		v, _ := n.Value.(*big.Int)
		c.emitBigIntLiteral(v)
	case ast.BoolLit:
		b, _ := n.Value.(bool)
		if b {
			c.emitOp(PushTrue)
		} else {
			c.emitOp(PushFalse)
		}
	case ast.NullLit:
		c.emitOp(PushNull)
	case ast.UndefinedLit:
		c.emitOp(PushUndefined)
	default:
		return c.errorf(n.Pos, "unsupported literal kind %v", n.Kind)
	}
	return nil
}

func (c *Compiler) compileUnary(n *ast.UnaryExpr, useExpr bool) error {
	if n.Op == ast.Delete {
		return c.compileDelete(n, useExpr)
	}

	if err := c.compileExpr(n.Operand, true); err != nil {
		return err
	}
	switch n.Op {
	case ast.Neg:
		c.emitOp(Neg)
	case ast.Pos:
		c.emitOp(Pos)
	case ast.LogicalNot:
		c.emitOp(LogicalNot)
	case ast.BitNot:
		c.emitOp(BitNot)
	case ast.TypeOf:
		c.emitOp(TypeOf)
	case ast.Void:
		c.emitOp(Void)
	default:
		return c.errorf(n.OpPos, "unsupported unary operator %v", n.Op)
	}
	c.dropIfUnused(useExpr)
	return nil
}

// compileDelete implements `delete x`: deleting a property emits the
// matching delete opcode; deleting a bare identifier pushes false (this
// compiler has no non-strict global-object fallback to actually remove a
// binding); deleting anything else evaluates the operand for any side
// effects it has and pushes true.
func (c *Compiler) compileDelete(n *ast.UnaryExpr, useExpr bool) error {
	switch target := n.Operand.(type) {
	case *ast.DotExpr:
		if err := c.compileExpr(target.Object, true); err != nil {
			return err
		}
		c.emitName(DeletePropertyByName, target.Name.Name)
	case *ast.IndexExpr:
		if err := c.compileExpr(target.Object, true); err != nil {
			return err
		}
		if err := c.compileExpr(target.Index, true); err != nil {
			return err
		}
		c.emitOp(DeletePropertyByValue)
	case *ast.IdentExpr:
		c.emitOp(PushFalse)
	default:
		if err := c.compileExpr(n.Operand, false); err != nil {
			return err
		}
		c.emitOp(PushTrue)
	}
	c.dropIfUnused(useExpr)
	return nil
}

func (c *Compiler) compileUpdate(n *ast.UpdateExpr, useExpr bool) error {
	if !ast.IsAssignable(n.Operand) {
		return c.errorf(n.OpPos, "invalid increment/decrement target")
	}
	a, err := c.resolveAccess(n.Operand, true)
	if err != nil {
		return err
	}

	c.accessGet(a, true)

	// Post-increment/decrement must yield the pre-update value; stash it
	// before combining so it survives the store.
	var oldTmp string
	if useExpr && !n.Prefix {
		oldTmp = c.newTempName("old")
		c.emitName(DefVar, oldTmp)
		c.emitOp(Dup)
		c.emitName(SetName, oldTmp)
	}

	if n.Op == ast.Dec {
		c.emitOp(Dec)
	} else {
		c.emitOp(Inc)
	}

	wantNewValue := useExpr && n.Prefix
	if err := c.accessSet(n.OpPos, a, nil, wantNewValue); err != nil {
		return err
	}
	if useExpr && !n.Prefix {
		c.emitName(GetName, oldTmp)
	}
	return nil
}

func (c *Compiler) compileBinary(n *ast.BinaryExpr, useExpr bool) error {
	if n.Op.IsAssign() {
		return c.compileAssign(n, useExpr)
	}
	if n.Op.IsLogical() {
		return c.compileLogical(n, useExpr)
	}
	if n.Op == ast.Comma {
		if err := c.compileExpr(n.Left, false); err != nil {
			return err
		}
		return c.compileExpr(n.Right, useExpr)
	}

	if err := c.compileExpr(n.Left, true); err != nil {
		return err
	}
	if err := c.compileExpr(n.Right, true); err != nil {
		return err
	}
	op, err := binaryOpcode(n.Op)
	if err != nil {
		return c.errorf(n.OpPos, "%v", err)
	}
	c.emitOp(op)
	c.dropIfUnused(useExpr)
	return nil
}

func binaryOpcode(op ast.BinaryOp) (Opcode, error) {
	switch op {
	case ast.Add:
		return Add, nil
	case ast.Sub:
		return Sub, nil
	case ast.Mul:
		return Mul, nil
	case ast.Div:
		return Div, nil
	case ast.Mod:
		return Mod, nil
	case ast.Pow:
		return Pow, nil
	case ast.BitAnd:
		return BitAnd, nil
	case ast.BitOr:
		return BitOr, nil
	case ast.BitXor:
		return BitXor, nil
	case ast.Shl:
		return ShiftLeft, nil
	case ast.Shr:
		return ShiftRight, nil
	case ast.Ushr:
		return UnsignedShiftRight, nil
	case ast.Lt:
		return LessThan, nil
	case ast.Le:
		return LessThanOrEq, nil
	case ast.Gt:
		return GreaterThan, nil
	case ast.Ge:
		return GreaterThanOrEq, nil
	case ast.Eq:
		return Eq, nil
	case ast.Neq:
		return NotEq, nil
	case ast.StrictEq:
		return StrictEq, nil
	case ast.StrictNeq:
		return StrictNotEq, nil
	case ast.In:
		return In, nil
	case ast.InstanceOf:
		return InstanceOf, nil
	default:
		return 0, errUnsupportedOp{op}
	}
}

type errUnsupportedOp struct{ op ast.BinaryOp }

func (e errUnsupportedOp) Error() string { return "unsupported binary operator " + e.op.String() }

// compileAssign implements plain and compound assignment (spec.md §4.1.6:
// "access_get composed with arithmetic composed with access_set").
func (c *Compiler) compileAssign(n *ast.BinaryExpr, useExpr bool) error {
	if !ast.IsAssignable(n.Left) {
		return c.errorf(n.OpPos, "invalid assignment target")
	}

	if n.Op == ast.Assign {
		a, err := c.resolveAccess(n.Left, false)
		if err != nil {
			return err
		}
		return c.accessSet(n.OpPos, a, n.Right, useExpr)
	}

	if n.Op == ast.AndAssign || n.Op == ast.OrAssign || n.Op == ast.CoalesceAssign {
		return c.compileLogicalAssign(n, useExpr)
	}

	a, err := c.resolveAccess(n.Left, true)
	if err != nil {
		return err
	}
	c.accessGet(a, true)
	if err := c.compileExpr(n.Right, true); err != nil {
		return err
	}
	op, err := binaryOpcode(n.Op.AssignOpFor())
	if err != nil {
		return c.errorf(n.OpPos, "%v", err)
	}
	c.emitOp(op)
	return c.accessSet(n.OpPos, a, nil, useExpr)
}

// compileLogicalAssign implements &&=, ||= and ??=: the right-hand side and
// the store are only reached conditionally, so the whole sequence is a
// short-circuiting jump around access_set rather than an unconditional
// combine.
func (c *Compiler) compileLogicalAssign(n *ast.BinaryExpr, useExpr bool) error {
	a, err := c.resolveAccess(n.Left, true)
	if err != nil {
		return err
	}
	c.accessGet(a, true)

	// LogicalAnd/LogicalOr/Coalesce (not JumpIfFalse/JumpIfTrue, which always
	// pop) leave the probed value on the stack when the jump is taken, so the
	// short-circuited path below can still use it as the expression's result.
	// On fall-through they consume it, so the right-hand side is evaluated
	// directly.
	var skip Label
	switch n.Op {
	case ast.AndAssign:
		skip = c.jumpWithCustomOpcode(LogicalAnd)
	case ast.OrAssign:
		skip = c.jumpWithCustomOpcode(LogicalOr)
	case ast.CoalesceAssign:
		skip = c.jumpWithCustomOpcode(Coalesce)
	}

	if err := c.compileExpr(n.Right, true); err != nil {
		return err
	}
	if err := c.accessSet(n.OpPos, a, nil, useExpr); err != nil {
		return err
	}

	if useExpr {
		end := c.jump()
		c.patchJump(skip)
		// Short-circuited: the jump opcode left the probed value on the
		// stack without consuming it, and it is also the expression's
		// result. A named-property access also left a spare object copy
		// beneath it (resolveAccess duplicated the object so both the
		// probe and a possible store could each consume one); discard it.
		if a.kind == accessNamedProperty {
			c.emitOp(Swap)
			c.emitOp(Pop)
		}
		c.patchJump(end)
		return nil
	}

	c.patchJump(skip)
	c.emitOp(Pop)
	if a.kind == accessNamedProperty {
		c.emitOp(Pop)
	}
	return nil
}

func (c *Compiler) compileLogical(n *ast.BinaryExpr, useExpr bool) error {
	if err := c.compileExpr(n.Left, true); err != nil {
		return err
	}
	var op Opcode
	switch n.Op {
	case ast.LogicalAnd:
		op = LogicalAnd
	case ast.LogicalOr:
		op = LogicalOr
	case ast.Coalesce:
		op = Coalesce
	}
	// On fall-through the jump opcode has already consumed the left value.
	end := c.jumpWithCustomOpcode(op)
	if err := c.compileExpr(n.Right, true); err != nil {
		return err
	}
	if n.Op != ast.Coalesce {
		c.emitOp(ToBoolean)
	}
	c.patchJump(end)
	c.dropIfUnused(useExpr)
	return nil
}

func (c *Compiler) compileConditional(n *ast.ConditionalExpr, useExpr bool) error {
	if err := c.compileExpr(n.Cond, true); err != nil {
		return err
	}
	elseLbl := c.jumpIfFalse()
	if err := c.compileExpr(n.Then, useExpr); err != nil {
		return err
	}
	end := c.jump()
	c.patchJump(elseLbl)
	if err := c.compileExpr(n.Else, useExpr); err != nil {
		return err
	}
	c.patchJump(end)
	return nil
}

// compileArray lowers an array literal. Elements are pushed in reverse
// source order (spec.md §4.1.6) so the runtime builder can pop and place
// them in a single pass; a SpreadExpr element is rejected outright, since
// spread is not implemented.
func (c *Compiler) compileArray(n *ast.ArrayExpr, useExpr bool) error {
	for _, el := range n.Elements {
		if _, ok := el.(*ast.SpreadExpr); ok {
			return c.errorf(posOf(el), "spread elements are not supported in array literals")
		}
	}
	for i := len(n.Elements) - 1; i >= 0; i-- {
		if err := c.compileExpr(n.Elements[i], true); err != nil {
			return err
		}
	}
	c.emitCount(PushNewArray, len(n.Elements))
	c.dropIfUnused(useExpr)
	return nil
}

func (c *Compiler) compileObject(n *ast.ObjectExpr, useExpr bool) error {
	c.emitOp(PushEmptyObject)
	for _, p := range n.Props {
		if p.Kind == ast.PropSpread {
			return c.errorf(posOf(p.Key), "spread properties are not supported in object literals")
		}
		if p.Method == ast.MethodGenerator || p.Method == ast.MethodAsync || p.Method == ast.MethodAsyncGenerator {
			// Recognized but not lowered: compile as if the value were
			// undefined (spec.md §4.1.6, §9).
			c.emitOp(Dup)
			c.emitOp(PushUndefined)
			if err := c.storeProperty(p); err != nil {
				return err
			}
			continue
		}

		c.emitOp(Dup)
		valueExpr := p.Value
		if p.Kind == ast.PropIdentShorthand {
			valueExpr = p.Key
		}
		if valueExpr == nil {
			return c.errorf(posOf(p.Key), "object property has no value")
		}
		if err := c.compileExpr(valueExpr, true); err != nil {
			return err
		}
		if err := c.storeProperty(p); err != nil {
			return err
		}
	}
	c.dropIfUnused(useExpr)
	return nil
}

// storeProperty emits the property-definition opcode for one ObjectExpr
// entry. The receiver object and the value (or getter/setter function) must
// already be on the stack, in that order.
func (c *Compiler) storeProperty(p *ast.Property) error {
	if p.Computed {
		if err := c.compileExpr(p.Key, true); err != nil {
			return err
		}
		// Stack is currently [obj, value, key]; SetPropertyByValue wants
		// [obj, key, value], so swap the top two.
		c.emitOp(Swap)
		switch {
		case p.Method == ast.MethodGetter:
			c.emitOp(SetPropertyGetterByValue)
		case p.Method == ast.MethodSetter:
			c.emitOp(SetPropertySetterByValue)
		default:
			c.emitOp(SetPropertyByValue)
		}
		return nil
	}

	name, err := propertyKeyName(p)
	if err != nil {
		return err
	}
	switch {
	case p.Method == ast.MethodGetter:
		c.emitName(SetPropertyGetterByName, name)
	case p.Method == ast.MethodSetter:
		c.emitName(SetPropertySetterByName, name)
	default:
		c.emitName(SetPropertyByName, name)
	}
	return nil
}

func propertyKeyName(p *ast.Property) (string, error) {
	id, ok := p.Key.(*ast.IdentExpr)
	if !ok {
		return "", &Error{Msg: "object literal key is not a plain identifier"}
	}
	return id.Name, nil
}

// compileCall lowers a call expression, distinguishing the three receiver
// shapes (spec.md §4.1.6): a bare function call has an undefined receiver,
// a method call's receiver is the object of its Dot/Index callee, and any
// other callee shape (e.g. a parenthesized or computed expression that is
// not itself a property access) also receives an undefined this.
func (c *Compiler) compileCall(n *ast.CallExpr, useExpr bool) error {
	// Leaves [receiver, fn] on the stack regardless of which branch runs,
	// so Call always finds the same two-value shape beneath the arguments.
	switch callee := n.Callee.(type) {
	case *ast.DotExpr:
		if err := c.compileExpr(callee.Object, true); err != nil {
			return err
		}
		c.emitOp(Dup)
		c.emitName(GetPropertyByName, callee.Name.Name)
	case *ast.IndexExpr:
		if err := c.compileExpr(callee.Object, true); err != nil {
			return err
		}
		c.emitOp(Dup)
		if err := c.compileExpr(callee.Index, true); err != nil {
			return err
		}
		c.emitOp(GetPropertyByValue)
	default:
		c.emitOp(PushUndefined)
		if err := c.compileExpr(n.Callee, true); err != nil {
			return err
		}
	}

	for _, a := range n.Args {
		if _, ok := a.(*ast.SpreadExpr); ok {
			return c.errorf(posOf(a), "spread arguments are not supported")
		}
	}
	for i := len(n.Args) - 1; i >= 0; i-- {
		if err := c.compileExpr(n.Args[i], true); err != nil {
			return err
		}
	}
	c.emitCount(Call, len(n.Args))
	c.dropIfUnused(useExpr)
	return nil
}
