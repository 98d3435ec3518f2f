package compiler

import (
	"github.com/mna/ecmacore/lang/ast"
	"github.com/mna/ecmacore/lang/token"
)

// accessKind distinguishes the four reference shapes the compiler can read
// from or write to (spec.md §4.1.5).
type accessKind uint8

const (
	accessVariable accessKind = iota
	accessThis
	accessNamedProperty
	accessComputedProperty
)

// access is the opaque token produced by resolveAccess and consumed by
// accessGet/accessSet. For a property access it also records whatever
// object/key state resolveAccess already pushed onto the stack (or spilled
// into temporaries), so access_get and access_set can each consume their
// own copy without re-evaluating the object/key sub-expressions and their
// side effects a second time.
type access struct {
	kind accessKind
	name string // variable name, or named-property key

	// computed-property state: either the object+key sit directly on the
	// stack (plain single use) or were spilled to temp bindings (needsDup,
	// i.e. get-then-set sequences for ++/--/compound-assign), since the
	// opcode set has no primitive to duplicate two stack slots at once.
	usesTemps bool
	tmpObj    string
	tmpKey    string
}

// resolveAccess evaluates e's object/key sub-expressions (if any) and
// returns an access token describing how to complete a get or set. needsDup
// must be true when the same access will be consumed by both accessGet and
// accessSet (pre/post increment, compound assignment); it is ignored for
// accessVariable and accessThis, which never need the object re-evaluated
// since they do not consume stack state.
func (c *Compiler) resolveAccess(e ast.Expr, needsDup bool) (access, error) {
	switch n := e.(type) {
	case *ast.IdentExpr:
		return access{kind: accessVariable, name: n.Name}, nil

	case *ast.ThisExpr:
		return access{kind: accessThis}, nil

	case *ast.DotExpr:
		if err := c.compileExpr(n.Object, true); err != nil {
			return access{}, err
		}
		if needsDup {
			c.emitOp(Dup)
		}
		return access{kind: accessNamedProperty, name: n.Name.Name}, nil

	case *ast.IndexExpr:
		if !needsDup {
			if err := c.compileExpr(n.Object, true); err != nil {
				return access{}, err
			}
			if err := c.compileExpr(n.Index, true); err != nil {
				return access{}, err
			}
			return access{kind: accessComputedProperty}, nil
		}

		tmpObj := c.newTempName("obj")
		tmpKey := c.newTempName("key")
		c.emitName(DefVar, tmpObj)
		if err := c.compileExpr(n.Object, true); err != nil {
			return access{}, err
		}
		c.emitName(SetName, tmpObj)
		c.emitName(DefVar, tmpKey)
		if err := c.compileExpr(n.Index, true); err != nil {
			return access{}, err
		}
		c.emitName(SetName, tmpKey)
		return access{kind: accessComputedProperty, usesTemps: true, tmpObj: tmpObj, tmpKey: tmpKey}, nil

	default:
		panic("compiler: resolveAccess of a non-assignable expression")
	}
}

// accessGet emits the code to read a, leaving its value on the stack (or
// discarding it immediately if useExpr is false, which happens for a
// property read whose value is unused, e.g. the expression statement
// `obj.x;`).
func (c *Compiler) accessGet(a access, useExpr bool) {
	switch a.kind {
	case accessVariable:
		c.emitName(GetName, a.name)
	case accessThis:
		c.emitOp(This)
	case accessNamedProperty:
		c.emitName(GetPropertyByName, a.name)
	case accessComputedProperty:
		if a.usesTemps {
			c.emitName(GetName, a.tmpObj)
			c.emitName(GetName, a.tmpKey)
		}
		c.emitOp(GetPropertyByValue)
	}
	if !useExpr {
		c.emitOp(Pop)
	}
}

// accessSet stores a new value into a. If value is non-nil it is compiled
// first; otherwise the new value is assumed to already be on top of the
// stack (the composed "access_get, compute, access_set" sequence pre/post
// increment and compound assignment use). If useExpr, the stored value is
// left on the stack afterward as the expression's result.
func (c *Compiler) accessSet(pos token.Pos, a access, value ast.Expr, useExpr bool) error {
	if a.kind == accessThis {
		return c.errorf(pos, "invalid assignment target: this")
	}

	// accessComputedProperty built on temps (a compound/update target) keeps
	// its object and key in name-indexed bindings rather than on the stack,
	// so they must be pushed immediately before the Set opcode, after the
	// new value. accessNamedProperty and the non-temp computed form instead
	// already have their object (and key) sitting on the stack from
	// resolveAccess, directly beneath where the value is about to go.
	if value != nil {
		if err := c.compileExpr(value, true); err != nil {
			return err
		}
	}

	if a.kind == accessVariable {
		if useExpr {
			c.emitOp(Dup)
		}
		c.emitName(SetName, a.name)
		return nil
	}

	// Property sets have an object (and, for computed access, a key)
	// beneath the value on the stack, so retaining the result can't use a
	// plain Dup (it would duplicate only the value, which Set would then
	// immediately consume along with it). Spill the value into a temp
	// binding instead, perform the store, then reload the temp.
	var resultTmp string
	if useExpr {
		resultTmp = c.newTempName("set")
		c.emitName(DefVar, resultTmp)
		c.emitOp(Dup)
		c.emitName(SetName, resultTmp)
	}

	switch a.kind {
	case accessNamedProperty:
		c.emitName(SetPropertyByName, a.name)
	case accessComputedProperty:
		if a.usesTemps {
			// Stack is currently [..., value]; obj/key live in temps and
			// must be pushed now, below the value is wrong order for a
			// stack machine, so instead stash the value too and rebuild
			// the triple in (obj, key, value) order.
			valueTmp := c.newTempName("val")
			c.emitName(DefVar, valueTmp)
			c.emitName(SetName, valueTmp)
			c.emitName(GetName, a.tmpObj)
			c.emitName(GetName, a.tmpKey)
			c.emitName(GetName, valueTmp)
		}
		c.emitOp(SetPropertyByValue)
	}

	if useExpr {
		c.emitName(GetName, resultTmp)
	}
	return nil
}
