package compiler

import "fmt"

// Version increments whenever the encoding of Opcode or its operands changes,
// to force recompilation of any saved bytecode.
const Version = 0

// Opcode is a single emitted instruction's leading byte (spec.md §6.3).
type Opcode uint8

const ( //nolint:revive
	// stack push of a fixed, dedicated value — no operand required.
	PushZero Opcode = iota
	PushOne
	PushNaN
	PushPositiveInfinity
	PushNegativeInfinity
	PushTrue
	PushFalse
	PushNull
	PushUndefined
	PushEmptyObject

	// stack manipulation
	Pop
	Dup
	Swap

	// property access by computed key (constant-key forms carry a name index
	// and come after OpcodeArgMin)
	GetPropertyByValue
	SetPropertyByValue
	DeletePropertyByValue
	SetPropertyGetterByValue
	SetPropertySetterByValue

	This

	// unary operators
	Inc
	Dec
	Neg
	Pos
	LogicalNot
	BitNot
	TypeOf
	Void
	ToBoolean

	// binary operators
	Add
	Sub
	Mul
	Div
	Mod
	Pow
	BitAnd
	BitOr
	BitXor
	ShiftLeft
	ShiftRight
	UnsignedShiftRight
	Eq
	NotEq
	StrictEq
	StrictNotEq
	GreaterThan
	GreaterThanOrEq
	LessThan
	LessThanOrEq
	In
	InstanceOf

	Return
	Throw

	// --- opcodes with an operand must go below this line ---

	PushInt8  // 1-byte operand
	PushInt16 // 2-byte operand
	PushInt32 // 4-byte operand
	PushRational // 8-byte operand, bit pattern of an f64

	PushLiteral  // 4-byte literal index
	PushNewArray // 4-byte element count

	GetName
	SetName
	DefVar
	DefLet
	DefConst
	InitLexical

	GetPropertyByName
	SetPropertyByName
	DeletePropertyByName
	SetPropertyGetterByName
	SetPropertySetterByName

	Jump
	JumpIfFalse
	JumpIfTrue
	LogicalAnd
	LogicalOr
	Coalesce
	Case
	Default

	GetFunction

	Call

	// OpcodeArgMin is the first opcode that carries an operand.
	OpcodeArgMin = PushInt8
	OpcodeMax    = Call

	opcodeJumpMin = Jump
	opcodeJumpMax = Default
)

var opcodeNames = [...]string{
	PushZero:             "push_zero",
	PushOne:               "push_one",
	PushNaN:               "push_nan",
	PushPositiveInfinity:  "push_positive_infinity",
	PushNegativeInfinity:  "push_negative_infinity",
	PushTrue:              "push_true",
	PushFalse:             "push_false",
	PushNull:              "push_null",
	PushUndefined:         "push_undefined",
	PushEmptyObject:       "push_empty_object",
	Pop:                   "pop",
	Dup:                   "dup",
	Swap:                  "swap",
	GetPropertyByValue:       "get_property_by_value",
	SetPropertyByValue:       "set_property_by_value",
	DeletePropertyByValue:    "delete_property_by_value",
	SetPropertyGetterByValue: "set_property_getter_by_value",
	SetPropertySetterByValue: "set_property_setter_by_value",
	This:                  "this",
	Inc:                   "inc",
	Dec:                   "dec",
	Neg:                   "neg",
	Pos:                   "pos",
	LogicalNot:            "logical_not",
	BitNot:                "bit_not",
	TypeOf:                "typeof",
	Void:                  "void",
	ToBoolean:             "to_boolean",
	Add:                   "add",
	Sub:                   "sub",
	Mul:                   "mul",
	Div:                   "div",
	Mod:                   "mod",
	Pow:                   "pow",
	BitAnd:                "bit_and",
	BitOr:                 "bit_or",
	BitXor:                "bit_xor",
	ShiftLeft:             "shift_left",
	ShiftRight:            "shift_right",
	UnsignedShiftRight:    "unsigned_shift_right",
	Eq:                    "eq",
	NotEq:                 "not_eq",
	StrictEq:              "strict_eq",
	StrictNotEq:           "strict_not_eq",
	GreaterThan:           "greater_than",
	GreaterThanOrEq:       "greater_than_or_eq",
	LessThan:              "less_than",
	LessThanOrEq:          "less_than_or_eq",
	In:                    "in",
	InstanceOf:            "instance_of",
	Return:                "return",
	Throw:                 "throw",
	PushInt8:              "push_int8",
	PushInt16:             "push_int16",
	PushInt32:             "push_int32",
	PushRational:          "push_rational",
	PushLiteral:           "push_literal",
	PushNewArray:          "push_new_array",
	GetName:               "get_name",
	SetName:               "set_name",
	DefVar:                "def_var",
	DefLet:                "def_let",
	DefConst:              "def_const",
	InitLexical:           "init_lexical",
	GetPropertyByName:       "get_property_by_name",
	SetPropertyByName:       "set_property_by_name",
	DeletePropertyByName:    "delete_property_by_name",
	SetPropertyGetterByName: "set_property_getter_by_name",
	SetPropertySetterByName: "set_property_setter_by_name",
	Jump:                  "jump",
	JumpIfFalse:           "jump_if_false",
	JumpIfTrue:            "jump_if_true",
	LogicalAnd:            "logical_and",
	LogicalOr:             "logical_or",
	Coalesce:              "coalesce",
	Case:                  "case",
	Default:               "default",
	GetFunction:           "get_function",
	Call:                  "call",
}

func (op Opcode) String() string {
	if op <= OpcodeMax {
		if name := opcodeNames[op]; name != "" {
			return name
		}
	}
	return fmt.Sprintf("illegal op (%d)", op)
}

// isJump reports whether op carries a 4-byte absolute code-offset operand
// (spec.md §4.1.3, §6.2: "all jump operands are absolute byte offsets").
func isJump(op Opcode) bool {
	return op >= opcodeJumpMin && op <= opcodeJumpMax
}

// operandWidth returns the number of operand bytes that follow op, or 0 if
// op takes no operand.
func operandWidth(op Opcode) int {
	switch op {
	case PushInt8:
		return 1
	case PushInt16:
		return 2
	case PushRational:
		return 8
	default:
		if op >= OpcodeArgMin {
			return 4
		}
		return 0
	}
}

const variableStackEffect = 0x7f

// stackEffect records the static effect on operand stack depth of each
// zero-operand opcode, and of the fixed-width ones whose effect does not
// depend on the operand value. For a conditional jump the entry is the
// effect on the fall-through path; LogicalAnd, LogicalOr and Coalesce leave
// the tested value on the stack when the jump is taken. Nothing in this
// package reads the table; the VM computes its real stack requirements
// independently.
var stackEffect = map[Opcode]int8{
	PushZero: 1, PushOne: 1, PushNaN: 1, PushPositiveInfinity: 1,
	PushNegativeInfinity: 1, PushTrue: 1, PushFalse: 1, PushNull: 1,
	PushUndefined: 1, PushEmptyObject: 1,
	Pop: -1, Dup: 1, Swap: 0,
	GetPropertyByValue: -1, SetPropertyByValue: -3, DeletePropertyByValue: -1,
	SetPropertyGetterByValue: -3, SetPropertySetterByValue: -3,
	This: 1,
	Inc: 0, Dec: 0, Neg: 0, Pos: 0, LogicalNot: 0, BitNot: 0, TypeOf: 0,
	Void: 0, ToBoolean: 0,
	Add: -1, Sub: -1, Mul: -1, Div: -1, Mod: -1, Pow: -1, BitAnd: -1,
	BitOr: -1, BitXor: -1, ShiftLeft: -1, ShiftRight: -1,
	UnsignedShiftRight: -1, Eq: -1, NotEq: -1, StrictEq: -1, StrictNotEq: -1,
	GreaterThan: -1, GreaterThanOrEq: -1, LessThan: -1, LessThanOrEq: -1,
	In: -1, InstanceOf: -1,
	Return: -1, Throw: -1,
	PushInt8: 1, PushInt16: 1, PushInt32: 1, PushRational: 1,
	PushLiteral: 1,
	GetName:     1, SetName: -1, DefVar: 0, DefLet: 0, DefConst: 0,
	InitLexical: -1,
	GetPropertyByName: -1, SetPropertyByName: -2, DeletePropertyByName: -1,
	SetPropertyGetterByName: -2, SetPropertySetterByName: -2,
	Jump: 0, JumpIfFalse: -1, JumpIfTrue: -1,
	LogicalAnd: -1, LogicalOr: -1, Coalesce: -1, Case: -2, Default: 0,
	GetFunction: 1,
	// PushNewArray and Call have a variable effect depending on the operand
	// (element/argument count) and are marked with variableStackEffect.
	PushNewArray: variableStackEffect,
	Call:         variableStackEffect,
}
