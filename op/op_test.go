package op

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		want Type
	}{
		{"LOAD_CONST", Load},
		{"LOAD_NAME", Load},
		{"LOAD_GLOBAL", Load},
		{"LOAD_FAST", Load},
		{"LOAD_DEREF", Load},
		{"LOAD_CLOSURE", Load},
		{"STORE_NAME", Store},
		{"STORE_GLOBAL", Store},
		{"STORE_FAST", Store},
		{"STORE_DEREF", Store},
		{"STORE_SUBSCR", Store},
		{"STORE_ATTR", Store},
		{"CALL_FUNCTION", Call},
		{"CALL_FUNCTION_KW", Call},
		{"CALL_FUNCTION_EX", Call},
		{"CALL_METHOD", Call},
		{"CALL", Call},
		{"JUMP_FORWARD", Jump},
		{"JUMP_BACKWARD", Jump},
		{"JUMP_ABSOLUTE", Jump},
		{"JUMP_BACKWARD_NO_INTERRUPT", Jump},
		{"POP_JUMP_IF_TRUE", Jump},
		{"POP_JUMP_IF_FALSE", Jump},
		{"POP_JUMP_FORWARD_IF_TRUE", Jump},
		{"POP_JUMP_FORWARD_IF_FALSE", Jump},
		{"POP_JUMP_BACKWARD_IF_TRUE", Jump},
		{"POP_JUMP_BACKWARD_IF_FALSE", Jump},
		{"JUMP_IF_TRUE_OR_POP", Jump},
		{"JUMP_IF_FALSE_OR_POP", Jump},
		{"SETUP_LOOP", Jump},
		{"BREAK_LOOP", Jump},
		{"CONTINUE_LOOP", Jump},
		{"SETUP_EXCEPT", Jump},
		{"SETUP_FINALLY", Jump},
		{"SETUP_WITH", Jump},
		{"SETUP_ASYNC_WITH", Jump},
		{"BEFORE_ASYNC_WITH", Jump},
		{"END_ASYNC_FOR", Jump},
		{"COMPARE_OP", Compare},
		{"IS_OP", Compare},
		{"CONTAINS_OP", Compare},
		{"BINARY_ADD", BinaryOp},
		{"BINARY_SUBTRACT", BinaryOp},
		{"BINARY_MULTIPLY", BinaryOp},
		{"BINARY_DIVIDE", BinaryOp},
		{"BINARY_MODULO", BinaryOp},
		{"BINARY_POWER", BinaryOp},
		{"BINARY_AND", BinaryOp},
		{"BINARY_OR", BinaryOp},
		{"BINARY_XOR", BinaryOp},
		{"BUILD_TUPLE", Build},
		{"BUILD_LIST", Build},
		{"BUILD_SET", Build},
		{"BUILD_MAP", Build},
		{"BUILD_SLICE", Build},
		{"UNPACK_SEQUENCE", Build},
		{"RETURN_VALUE", Return},
		{"YIELD_VALUE", Return},
		{"GET_ITER", Loop},
		{"FOR_ITER", Loop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.name))
		})
	}
}

func TestClassifyUnknown(t *testing.T) {
	for _, name := range []string{"", "NOP", "POP_TOP", "BINARY_OP", "RESUME", "load_fast", "LOAD_FAST ", "🙂"} {
		assert.Equal(t, Other, Classify(name), name)
	}
}

func TestForIterIsLoop(t *testing.T) {
	for i := 0; i < 10; i++ {
		require.Equal(t, Loop, Classify("FOR_ITER"))
	}
}

func TestTypeString(t *testing.T) {
	tests := []struct {
		typ   Type
		str   string
		title string
	}{
		{Load, "load", "Load"},
		{Store, "store", "Store"},
		{Call, "call", "Call"},
		{Jump, "jump", "Jump"},
		{Compare, "compare", "Compare"},
		{BinaryOp, "binary_op", "Binary_Op"},
		{Build, "build", "Build"},
		{Return, "return", "Return"},
		{Loop, "loop", "Loop"},
		{Other, "other", "Other"},
		{Type(200), "other", "Other"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.typ.String())
			assert.Equal(t, tt.title, tt.typ.Title())
		})
	}
}

func TestTypeMarshalText(t *testing.T) {
	text, err := BinaryOp.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "binary_op", string(text))
}

func TestNewerOpcodesAreOther(t *testing.T) {
	// f(x): return x + 1 as compiled by CPython 3.11.
	stream := []string{"RESUME", "LOAD_FAST", "LOAD_CONST", "BINARY_OP", "RETURN_VALUE"}
	want := []Type{Other, Load, Load, Other, Return}
	for i, name := range stream {
		assert.Equal(t, want[i], Classify(name), name)
	}
	require.Equal(t, Other, Classify("BINARY_OP"))
	assert.Equal(t, BinaryOp, Classify("BINARY_ADD"))
}

func TestIsConditionalJump(t *testing.T) {
	assert.True(t, IsConditionalJump("POP_JUMP_IF_TRUE"))
	assert.True(t, IsConditionalJump("POP_JUMP_IF_FALSE"))
	assert.True(t, IsConditionalJump("JUMP_IF_TRUE_OR_POP"))
	assert.True(t, IsConditionalJump("JUMP_IF_FALSE_OR_POP"))
	assert.False(t, IsConditionalJump("POP_JUMP_FORWARD_IF_TRUE"))
	assert.False(t, IsConditionalJump("JUMP_FORWARD"))
	assert.False(t, IsConditionalJump("FOR_ITER"))
}

func TestNames(t *testing.T) {
	names := Names()
	require.Contains(t, names, "LOAD_FAST")
	require.Contains(t, names, "FOR_ITER")
	assert.IsIncreasing(t, names)
	for _, name := range names {
		assert.NotEqual(t, Other, Classify(name), name)
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, Known("LOAD_FAST"))
	assert.True(t, Known("FOR_ITER"))
	assert.False(t, Known("BINARY_OP"))
	assert.False(t, Known("load_fast"))
	assert.False(t, Known(""))
}
