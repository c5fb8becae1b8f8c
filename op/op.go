// Package op classifies CPython bytecode mnemonics into semantic categories.
package op

import "sort"

// Type is the semantic category of a bytecode instruction.
type Type uint8

const (
	Other Type = iota
	Load
	Store
	Call
	Jump
	Compare
	BinaryOp
	Build
	Return
	Loop
)

// String returns the lower-case name of the category, for example
// "binary_op".
func (t Type) String() string {
	switch t {
	case Load:
		return "load"
	case Store:
		return "store"
	case Call:
		return "call"
	case Jump:
		return "jump"
	case Compare:
		return "compare"
	case BinaryOp:
		return "binary_op"
	case Build:
		return "build"
	case Return:
		return "return"
	case Loop:
		return "loop"
	default:
		return "other"
	}
}

// Title returns the category name with every underscore-separated word
// capitalized, for example "Binary_Op".
func (t Type) Title() string {
	b := []byte(t.String())
	upper := true
	for i, c := range b {
		if upper && c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
		upper = c == '_'
	}
	return string(b)
}

// MarshalText encodes the category as its lower-case name.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

var types = map[string]Type{}

var conditionalJumps = map[string]bool{
	"POP_JUMP_IF_TRUE":     true,
	"POP_JUMP_IF_FALSE":    true,
	"JUMP_IF_TRUE_OR_POP":  true,
	"JUMP_IF_FALSE_OR_POP": true,
}

func init() {
	type category struct {
		typ   Type
		names []string
	}
	// Applied in order. FOR_ITER is listed under both Jump and Loop, and
	// Loop comes last, so FOR_ITER classifies as Loop.
	categories := []category{
		{Load, []string{
			"LOAD_CONST", "LOAD_NAME", "LOAD_GLOBAL", "LOAD_FAST",
			"LOAD_DEREF", "LOAD_CLOSURE",
		}},
		{Store, []string{
			"STORE_NAME", "STORE_GLOBAL", "STORE_FAST", "STORE_DEREF",
			"STORE_SUBSCR", "STORE_ATTR",
		}},
		{Call, []string{
			"CALL_FUNCTION", "CALL_FUNCTION_KW", "CALL_FUNCTION_EX",
			"CALL_METHOD", "CALL",
		}},
		{Jump, []string{
			"JUMP_FORWARD", "JUMP_BACKWARD", "JUMP_ABSOLUTE", "JUMP_BACKWARD_NO_INTERRUPT",
			"POP_JUMP_IF_TRUE", "POP_JUMP_IF_FALSE",
			"POP_JUMP_FORWARD_IF_TRUE", "POP_JUMP_FORWARD_IF_FALSE",
			"POP_JUMP_BACKWARD_IF_TRUE", "POP_JUMP_BACKWARD_IF_FALSE",
			"JUMP_IF_TRUE_OR_POP", "JUMP_IF_FALSE_OR_POP", "FOR_ITER", "SETUP_LOOP",
			"BREAK_LOOP", "CONTINUE_LOOP", "SETUP_EXCEPT", "SETUP_FINALLY", "SETUP_WITH",
			"SETUP_ASYNC_WITH", "BEFORE_ASYNC_WITH", "END_ASYNC_FOR",
		}},
		{Compare, []string{
			"COMPARE_OP", "IS_OP", "CONTAINS_OP",
		}},
		{BinaryOp, []string{
			"BINARY_ADD", "BINARY_SUBTRACT", "BINARY_MULTIPLY", "BINARY_DIVIDE",
			"BINARY_MODULO", "BINARY_POWER", "BINARY_AND", "BINARY_OR", "BINARY_XOR",
		}},
		{Build, []string{
			"BUILD_TUPLE", "BUILD_LIST", "BUILD_SET", "BUILD_MAP",
			"BUILD_SLICE", "UNPACK_SEQUENCE",
		}},
		{Return, []string{
			"RETURN_VALUE", "YIELD_VALUE",
		}},
		{Loop, []string{
			"GET_ITER", "FOR_ITER",
		}},
	}
	for _, c := range categories {
		for _, name := range c.names {
			types[name] = c.typ
		}
	}
}

// Classify returns the category of the given mnemonic. Unknown mnemonics
// are classified as Other.
//
// The table is fixed to the mnemonics of CPython 3.10 and earlier plus a
// few later jump and call names. The specialized BINARY_OP of 3.11 and
// later is not in it, so 3.11 arithmetic classifies as Other rather than
// BinaryOp, as do RESUME and the other newer bookkeeping opcodes.
func Classify(opname string) Type {
	return types[opname]
}

// IsConditionalJump reports whether the mnemonic is one of the conditional
// pop-jumps counted as decision points by the complexity metric.
func IsConditionalJump(opname string) bool {
	return conditionalJumps[opname]
}

// Names returns every classified mnemonic in sorted order.
func Names() []string {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Known reports whether the mnemonic has an explicit category.
func Known(opname string) bool {
	_, ok := types[opname]
	return ok
}
