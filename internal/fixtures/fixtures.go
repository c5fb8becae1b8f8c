// Package fixtures provides code objects equivalent to what CPython 3.10
// compiles for small programs, for use in tests.
package fixtures

import "github.com/bytescope/bytescope/bytecode"

// AddOneSource is the source of AddOne.
const AddOneSource = "def f(x):\n    return x + 1\n"

// AddOne returns the module code for AddOneSource.
func AddOne() *bytecode.Code {
	f := bytecode.NewCode(bytecode.CodeParams{
		Name:        "f",
		QualName:    "f",
		Filename:    "<string>",
		FirstLineNo: 1,
		ArgCount:    1,
		VarNames:    []string{"x"},
		Constants:   []any{nil, int64(1)},
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_FAST", Arg: 0, HasArg: true, ArgVal: "x", ArgRepr: "x", StartsLine: 2},
			{Offset: 2, Opname: "LOAD_CONST", Arg: 1, HasArg: true, ArgVal: int64(1), ArgRepr: "1"},
			{Offset: 4, Opname: "BINARY_ADD"},
			{Offset: 6, Opname: "RETURN_VALUE"},
		},
	})
	return bytecode.NewCode(bytecode.CodeParams{
		Name:      "<module>",
		Filename:  "<string>",
		Names:     []string{"f"},
		Constants: []any{f, "f", nil},
		Source:    AddOneSource,
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_CONST", Arg: 0, HasArg: true, ArgVal: bytecode.Repr("<code object f>"), ArgRepr: "<code object f>", StartsLine: 1},
			{Offset: 2, Opname: "LOAD_CONST", Arg: 1, HasArg: true, ArgVal: "f", ArgRepr: "'f'"},
			{Offset: 4, Opname: "MAKE_FUNCTION", Arg: 0, HasArg: true, ArgVal: int64(0)},
			{Offset: 6, Opname: "STORE_NAME", Arg: 0, HasArg: true, ArgVal: "f", ArgRepr: "f"},
			{Offset: 8, Opname: "LOAD_CONST", Arg: 2, HasArg: true, ArgRepr: "None"},
			{Offset: 10, Opname: "RETURN_VALUE"},
		},
	})
}

// CountSource is the source of Count.
const CountSource = `def count(items, limit):
    total = 0
    for item in items:
        if item > limit:
            total = total + 1
    return total

print(count([1, 2, 3], 1))
`

// Count returns the module code for CountSource: a loop, a conditional
// jump and nested calls.
func Count() *bytecode.Code {
	count := bytecode.NewCode(bytecode.CodeParams{
		Name:        "count",
		QualName:    "count",
		Filename:    "<string>",
		FirstLineNo: 1,
		ArgCount:    2,
		VarNames:    []string{"items", "limit", "total", "item"},
		Constants:   []any{nil, int64(0), int64(1)},
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_CONST", Arg: 1, HasArg: true, ArgVal: int64(0), ArgRepr: "0", StartsLine: 2},
			{Offset: 2, Opname: "STORE_FAST", Arg: 2, HasArg: true, ArgVal: "total", ArgRepr: "total"},
			{Offset: 4, Opname: "LOAD_FAST", Arg: 0, HasArg: true, ArgVal: "items", ArgRepr: "items", StartsLine: 3},
			{Offset: 6, Opname: "GET_ITER"},
			{Offset: 8, Opname: "FOR_ITER", Arg: 10, HasArg: true, ArgVal: int64(30), ArgRepr: "to 30", IsJumpTarget: true},
			{Offset: 10, Opname: "STORE_FAST", Arg: 3, HasArg: true, ArgVal: "item", ArgRepr: "item"},
			{Offset: 12, Opname: "LOAD_FAST", Arg: 3, HasArg: true, ArgVal: "item", ArgRepr: "item", StartsLine: 4},
			{Offset: 14, Opname: "LOAD_FAST", Arg: 1, HasArg: true, ArgVal: "limit", ArgRepr: "limit"},
			{Offset: 16, Opname: "COMPARE_OP", Arg: 4, HasArg: true, ArgVal: ">", ArgRepr: ">"},
			{Offset: 18, Opname: "POP_JUMP_IF_FALSE", Arg: 4, HasArg: true, ArgVal: int64(8), ArgRepr: "to 8"},
			{Offset: 20, Opname: "LOAD_FAST", Arg: 2, HasArg: true, ArgVal: "total", ArgRepr: "total", StartsLine: 5},
			{Offset: 22, Opname: "LOAD_CONST", Arg: 2, HasArg: true, ArgVal: int64(1), ArgRepr: "1"},
			{Offset: 24, Opname: "BINARY_ADD"},
			{Offset: 26, Opname: "STORE_FAST", Arg: 2, HasArg: true, ArgVal: "total", ArgRepr: "total"},
			{Offset: 28, Opname: "JUMP_ABSOLUTE", Arg: 4, HasArg: true, ArgVal: int64(8), ArgRepr: "to 8"},
			{Offset: 30, Opname: "LOAD_FAST", Arg: 2, HasArg: true, ArgVal: "total", ArgRepr: "total", StartsLine: 6, IsJumpTarget: true},
			{Offset: 32, Opname: "RETURN_VALUE"},
		},
	})
	return bytecode.NewCode(bytecode.CodeParams{
		Name:      "<module>",
		Filename:  "<string>",
		Names:     []string{"count", "print"},
		Constants: []any{count, "count", bytecode.Tuple{int64(1), int64(2), int64(3)}, int64(1), nil},
		Source:    CountSource,
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_CONST", Arg: 0, HasArg: true, ArgVal: bytecode.Repr("<code object count>"), ArgRepr: "<code object count>", StartsLine: 1},
			{Offset: 2, Opname: "LOAD_CONST", Arg: 1, HasArg: true, ArgVal: "count", ArgRepr: "'count'"},
			{Offset: 4, Opname: "MAKE_FUNCTION", Arg: 0, HasArg: true, ArgVal: int64(0)},
			{Offset: 6, Opname: "STORE_NAME", Arg: 0, HasArg: true, ArgVal: "count", ArgRepr: "count"},
			{Offset: 8, Opname: "LOAD_NAME", Arg: 1, HasArg: true, ArgVal: "print", ArgRepr: "print", StartsLine: 8},
			{Offset: 10, Opname: "LOAD_NAME", Arg: 0, HasArg: true, ArgVal: "count", ArgRepr: "count"},
			{Offset: 12, Opname: "BUILD_LIST", Arg: 0, HasArg: true, ArgVal: int64(0)},
			{Offset: 14, Opname: "LOAD_CONST", Arg: 2, HasArg: true, ArgVal: bytecode.Tuple{int64(1), int64(2), int64(3)}, ArgRepr: "(1, 2, 3)"},
			{Offset: 16, Opname: "LIST_EXTEND", Arg: 1, HasArg: true, ArgVal: int64(1)},
			{Offset: 18, Opname: "LOAD_CONST", Arg: 3, HasArg: true, ArgVal: int64(1), ArgRepr: "1"},
			{Offset: 20, Opname: "CALL_FUNCTION", Arg: 2, HasArg: true, ArgVal: int64(2)},
			{Offset: 22, Opname: "CALL_FUNCTION", Arg: 1, HasArg: true, ArgVal: int64(1)},
			{Offset: 24, Opname: "POP_TOP"},
			{Offset: 26, Opname: "LOAD_CONST", Arg: 4, HasArg: true, ArgRepr: "None"},
			{Offset: 28, Opname: "RETURN_VALUE"},
		},
	})
}

// ClosureSource is the source of Closure.
const ClosureSource = `def outer(a):
    def inner(b):
        return a + b
    return inner

def other():
    return None
`

// Closure returns the module code for ClosureSource: a closure nested in
// a function, followed by a sibling function.
func Closure() *bytecode.Code {
	inner := bytecode.NewCode(bytecode.CodeParams{
		Name:        "inner",
		QualName:    "outer.<locals>.inner",
		FirstLineNo: 2,
		ArgCount:    1,
		VarNames:    []string{"b"},
		FreeVars:    []string{"a"},
		Constants:   []any{nil},
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_DEREF", Arg: 0, HasArg: true, ArgVal: "a", ArgRepr: "a", StartsLine: 3},
			{Offset: 2, Opname: "LOAD_FAST", Arg: 0, HasArg: true, ArgVal: "b", ArgRepr: "b"},
			{Offset: 4, Opname: "BINARY_ADD"},
			{Offset: 6, Opname: "RETURN_VALUE"},
		},
	})
	outer := bytecode.NewCode(bytecode.CodeParams{
		Name:        "outer",
		QualName:    "outer",
		FirstLineNo: 1,
		ArgCount:    1,
		VarNames:    []string{"a", "inner"},
		CellVars:    []string{"a"},
		Constants:   []any{nil, inner, "outer.<locals>.inner"},
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_CLOSURE", Arg: 0, HasArg: true, ArgVal: "a", ArgRepr: "a", StartsLine: 2},
			{Offset: 2, Opname: "BUILD_TUPLE", Arg: 1, HasArg: true, ArgVal: int64(1)},
			{Offset: 4, Opname: "LOAD_CONST", Arg: 1, HasArg: true, ArgVal: bytecode.Repr("<code object inner>"), ArgRepr: "<code object inner>"},
			{Offset: 6, Opname: "LOAD_CONST", Arg: 2, HasArg: true, ArgVal: "outer.<locals>.inner", ArgRepr: "'outer.<locals>.inner'"},
			{Offset: 8, Opname: "MAKE_FUNCTION", Arg: 8, HasArg: true, ArgVal: int64(8), ArgRepr: "closure"},
			{Offset: 10, Opname: "STORE_FAST", Arg: 1, HasArg: true, ArgVal: "inner", ArgRepr: "inner"},
			{Offset: 12, Opname: "LOAD_FAST", Arg: 1, HasArg: true, ArgVal: "inner", ArgRepr: "inner", StartsLine: 4},
			{Offset: 14, Opname: "RETURN_VALUE"},
		},
	})
	other := bytecode.NewCode(bytecode.CodeParams{
		Name:        "other",
		QualName:    "other",
		FirstLineNo: 6,
		Constants:   []any{nil},
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_CONST", Arg: 0, HasArg: true, ArgRepr: "None", StartsLine: 7},
			{Offset: 2, Opname: "RETURN_VALUE"},
		},
	})
	return bytecode.NewCode(bytecode.CodeParams{
		Name:      "<module>",
		Names:     []string{"outer", "other"},
		Constants: []any{outer, "outer", other, "other", nil},
		Source:    ClosureSource,
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_CONST", Arg: 0, HasArg: true, ArgVal: bytecode.Repr("<code object outer>"), ArgRepr: "<code object outer>", StartsLine: 1},
			{Offset: 2, Opname: "LOAD_CONST", Arg: 1, HasArg: true, ArgVal: "outer", ArgRepr: "'outer'"},
			{Offset: 4, Opname: "MAKE_FUNCTION", Arg: 0, HasArg: true, ArgVal: int64(0)},
			{Offset: 6, Opname: "STORE_NAME", Arg: 0, HasArg: true, ArgVal: "outer", ArgRepr: "outer"},
			{Offset: 8, Opname: "LOAD_CONST", Arg: 2, HasArg: true, ArgVal: bytecode.Repr("<code object other>"), ArgRepr: "<code object other>", StartsLine: 6},
			{Offset: 10, Opname: "LOAD_CONST", Arg: 3, HasArg: true, ArgVal: "other", ArgRepr: "'other'"},
			{Offset: 12, Opname: "MAKE_FUNCTION", Arg: 0, HasArg: true, ArgVal: int64(0)},
			{Offset: 14, Opname: "STORE_NAME", Arg: 1, HasArg: true, ArgVal: "other", ArgRepr: "other"},
			{Offset: 16, Opname: "LOAD_CONST", Arg: 4, HasArg: true, ArgRepr: "None"},
			{Offset: 18, Opname: "RETURN_VALUE"},
		},
	})
}

// LoadStore returns a single function with one STORE_FAST and three
// LOAD_FAST instructions on the same variable.
func LoadStore() *bytecode.Code {
	return bytecode.NewCode(bytecode.CodeParams{
		Name:     "<module>",
		VarNames: []string{"v"},
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "STORE_FAST", Arg: 0, HasArg: true, ArgVal: "v", ArgRepr: "v"},
			{Offset: 2, Opname: "LOAD_FAST", Arg: 0, HasArg: true, ArgVal: "v", ArgRepr: "v"},
			{Offset: 4, Opname: "LOAD_FAST", Arg: 0, HasArg: true, ArgVal: "v", ArgRepr: "v"},
			{Offset: 6, Opname: "LOAD_FAST", Arg: 0, HasArg: true, ArgVal: "v", ArgRepr: "v"},
		},
	})
}
