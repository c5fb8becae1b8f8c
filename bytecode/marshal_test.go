package bytecode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	module := addOneModule()

	data, err := Marshal(module)
	require.NoError(t, err)

	restored, err := Unmarshal(data)
	require.NoError(t, err)

	assert.Equal(t, "<module>", restored.Name())
	assert.Equal(t, "def f(x):", restored.GetSourceLine(1))
	require.Equal(t, 3, restored.ConstantCount())
	assert.Equal(t, "f", restored.ConstantAt(1))
	assert.Nil(t, restored.ConstantAt(2))

	f, ok := restored.ConstantAt(0).(*Code)
	require.True(t, ok, "expected nested code object")
	assert.Equal(t, "f", f.Name())
	assert.Equal(t, 1, f.ArgCount())
	assert.Equal(t, []string{"x"}, f.VarNames())
	assert.Equal(t, "    return x + 1", f.GetSourceLine(2))

	orig := module.ConstantAt(0).(*Code)
	for i := 0; i < orig.InstructionCount(); i++ {
		assert.Equal(t, orig.InstructionAt(i), f.InstructionAt(i))
	}
	for i := 0; i < module.InstructionCount(); i++ {
		assert.Equal(t, module.InstructionAt(i), restored.InstructionAt(i))
	}
}

func TestMarshalCodeOperandAsRepr(t *testing.T) {
	inner := NewCode(CodeParams{Name: "inner"})
	code := NewCode(CodeParams{
		Name:         "<module>",
		Constants:    []any{inner},
		Instructions: []Instruction{{Offset: 0, Opname: "LOAD_CONST", HasArg: true, ArgVal: inner}},
	})
	data, err := Marshal(code)
	require.NoError(t, err)
	restored, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, Repr("<code object inner>"), restored.InstructionAt(0).ArgVal)
}

func TestMarshalConstantKinds(t *testing.T) {
	code := NewCode(CodeParams{
		Name: "<module>",
		Constants: []any{
			nil, true, int64(3), 2.5, "s", []byte{1, 2},
			Tuple{int64(1), Tuple{"a"}}, Repr("Ellipsis"),
		},
	})
	data, err := Marshal(code)
	require.NoError(t, err)
	restored, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, code.Constants(), restored.Constants())
}

func TestMarshalNil(t *testing.T) {
	_, err := Marshal(nil)
	require.Error(t, err)
}

func TestMarshalUnsupportedConstant(t *testing.T) {
	code := NewCode(CodeParams{Name: "x", Constants: []any{struct{}{}}})
	_, err := Marshal(code)
	require.Error(t, err)
}

func TestUnmarshalExporterOutput(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "closure.json"))
	require.NoError(t, err)

	code, err := Unmarshal(data)
	require.NoError(t, err)
	require.NoError(t, Validate(code))

	codes := code.Flatten()
	require.Len(t, codes, 3)
	assert.Equal(t, "<module>", codes[0].Name())
	assert.Equal(t, "outer", codes[1].Name())
	assert.Equal(t, "inner", codes[2].Name())

	outer := codes[1]
	assert.Equal(t, []string{"a"}, outer.CellVars())
	assert.Equal(t, 1, outer.KwOnlyArgCount())
	inner := codes[2]
	assert.Equal(t, []string{"a"}, inner.FreeVars())
	assert.Equal(t, "outer.<locals>.inner", inner.QualName())

	// Large integers survive as their decimal text
	assert.Equal(t, Repr("123456789012345678901234567890"), code.ConstantAt(4))
	assert.Equal(t, 1, code.InstructionAt(0).StartsLine)
	assert.Equal(t, 0, code.InstructionAt(1).StartsLine)
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"unknown constant", `{"name":"m","consts":[{"type":"set","value":[]}]}`},
		{"bad bytes", `{"name":"m","consts":[{"type":"bytes","value":"zz"}]}`},
		{"bad operand", `{"name":"m","instructions":[{"offset":0,"opname":"NOP","argval":{"type":"nope"}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			require.Error(t, err)
		})
	}
}
