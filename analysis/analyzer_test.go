package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bytescope/bytescope/bytecode"
	"github.com/bytescope/bytescope/errz"
	"github.com/bytescope/bytescope/internal/fixtures"
	"github.com/bytescope/bytescope/op"
)

func countType(instrs []Instruction, t op.Type) int {
	n := 0
	for _, instr := range instrs {
		if instr.Type() == t {
			n++
		}
	}
	return n
}

func TestAnalyzeAddOne(t *testing.T) {
	a, err := Analyze(fixtures.AddOne())
	require.Nil(t, err)
	require.Len(t, a.Functions, 2)

	require.NotNil(t, a.Main)
	require.Equal(t, ModuleName, a.Main.Name)
	require.Same(t, a.Functions[0], a.Main)

	f, ok := a.Function("f")
	require.True(t, ok)
	require.Equal(t, 1, f.ArgCount)
	require.Equal(t, []string{"x"}, f.VarNames)
	require.GreaterOrEqual(t, countType(f.Instructions, op.BinaryOp), 1)
	require.Equal(t, 1, countType(f.Instructions, op.Return))

	// The module emits six instructions before f.
	require.Equal(t, 12, f.StartOffset)
	require.Equal(t, 12, f.Instructions[0].Offset)
	require.Equal(t, 18, f.Instructions[3].Offset)
	require.Len(t, a.Instructions, 10)
}

func TestAnalyzeConvertsInstructions(t *testing.T) {
	a, err := Analyze(fixtures.AddOne())
	require.Nil(t, err)

	first := a.Instructions[0]
	require.Equal(t, "LOAD_CONST", first.Opname)
	require.NotNil(t, first.Arg)
	require.Equal(t, 0, *first.Arg)
	require.Equal(t, "<code object f>", first.ArgVal)
	require.NotNil(t, first.LineNumber)
	require.Equal(t, 1, *first.LineNumber)

	// LOAD_CONST None has an argument but no resolved value.
	none := a.Instructions[4]
	require.Equal(t, "None", none.ArgRepr)
	require.Equal(t, "", none.ArgVal)
	require.Nil(t, none.LineNumber)

	ret := a.Instructions[5]
	require.Nil(t, ret.Arg)
	require.Equal(t, op.Return, ret.Type())

	loadConst := a.Instructions[7]
	require.Equal(t, "1", loadConst.ArgVal)
}

func TestAnalyzeAggregates(t *testing.T) {
	a, err := Analyze(fixtures.Count())
	require.Nil(t, err)

	require.Equal(t, []string{"item", "items", "limit", "total"}, a.LocalVars)
	require.Equal(t, []string{"count", "print"}, a.GlobalVars)
	require.Equal(t, []string{"(1, 2, 3)", "0", "1", "<code object count>", "count"}, a.Constants)
	require.Equal(t, []string{"2", "1"}, a.FunctionCalls)
	require.Equal(t, []int{38, 60}, a.JumpTargets)
	require.True(t, a.IsJumpTarget(38))
	require.False(t, a.IsJumpTarget(8))

	counts := a.CountByType()
	require.Equal(t, 14, counts[op.Load])
	require.Equal(t, 4, counts[op.Store])
	require.Equal(t, 2, counts[op.Loop])
	require.Equal(t, 2, counts[op.Jump])
	require.Equal(t, 32, len(a.Instructions))
}

func TestAnalyzeNestedLayout(t *testing.T) {
	a, err := Analyze(fixtures.Closure())
	require.Nil(t, err)

	var names []string
	for _, fn := range a.Functions {
		names = append(names, fn.Name)
	}
	// Depth first: inner is discovered before outer's sibling.
	require.Equal(t, []string{"<module>", "outer", "inner", "other"}, names)

	outer, _ := a.Function("outer")
	inner, _ := a.Function("inner")
	other, _ := a.Function("other")
	require.Equal(t, 10*OffsetStride, outer.StartOffset)
	require.Equal(t, 18*OffsetStride, inner.StartOffset)
	require.Equal(t, 22*OffsetStride, other.StartOffset)

	require.Equal(t, []string{"a"}, inner.FreeVars)
	require.Equal(t, []string{"a"}, outer.CellVars)
	require.Same(t, fixtureChild(t, a.Main.Code, 0), outer.Code)
}

func fixtureChild(t *testing.T, code *bytecode.Code, i int) *bytecode.Code {
	t.Helper()
	children := code.Children()
	require.Greater(t, len(children), i)
	return children[i]
}

func TestAnalyzeProperties(t *testing.T) {
	tests := []struct {
		name string
		code *bytecode.Code
	}{
		{"add_one", fixtures.AddOne()},
		{"count", fixtures.Count()},
		{"closure", fixtures.Closure()},
		{"load_store", fixtures.LoadStore()},
	}
	for _, tt := range tests {
		code := tt.code
		t.Run(tt.name, func(t *testing.T) {
			a, err := Analyze(code)
			require.Nil(t, err)

			// Offsets never decrease within a function.
			for _, fn := range a.Functions {
				for i := 1; i < len(fn.Instructions); i++ {
					assert.LessOrEqual(t, fn.Instructions[i-1].Offset, fn.Instructions[i].Offset)
				}
			}

			// Jump targets and flagged instructions agree.
			flagged := map[int]bool{}
			for _, instr := range a.Instructions {
				if instr.IsJumpTarget {
					flagged[instr.Offset] = true
					assert.True(t, a.IsJumpTarget(instr.Offset))
				}
			}
			assert.Len(t, a.JumpTargets, len(flagged))

			// Locals are the union of every function's varnames.
			locals := map[string]bool{}
			calls := 0
			for _, fn := range a.Functions {
				for _, name := range fn.VarNames {
					locals[name] = true
				}
				for _, instr := range fn.Instructions {
					if instr.Type() == op.Call && instr.ArgVal != "" {
						calls++
					}
				}
			}
			assert.Len(t, a.LocalVars, len(locals))
			for _, name := range a.LocalVars {
				assert.True(t, locals[name])
			}
			assert.Len(t, a.FunctionCalls, calls)

			// Analysis is repeatable.
			again, err := Analyze(code)
			require.Nil(t, err)
			assert.Equal(t, a, again)
		})
	}
}

func TestAnalyzeSignatures(t *testing.T) {
	a, err := Analyze(fixtures.Closure(), WithSignatures(SignatureMap{
		"outer": "(a)",
		"inner": "",
	}))
	require.Nil(t, err)

	outer, _ := a.Function("outer")
	inner, _ := a.Function("inner")
	require.Equal(t, "(a)", outer.Signature)
	require.Equal(t, UnknownSignature, inner.Signature)
	require.Equal(t, UnknownSignature, a.Main.Signature)
	require.Equal(t, "outer(a) at offset 20 (8 instructions)", outer.Describe())
}

type panickingSignatures struct{}

func (panickingSignatures) Signature(string) (string, bool) {
	panic("introspection failed")
}

func TestAnalyzeSignatureFailureDegrades(t *testing.T) {
	a, err := Analyze(fixtures.AddOne(), WithSignatures(panickingSignatures{}))
	require.Nil(t, err)
	for _, fn := range a.Functions {
		require.Equal(t, UnknownSignature, fn.Signature)
	}
}

func TestChainSignatures(t *testing.T) {
	chain := ChainSignatures{nil, NoSignatures{}, SignatureMap{"f": "(x)"}, SignatureMap{"f": "(y)"}}
	sig, ok := chain.Signature("f")
	require.True(t, ok)
	require.Equal(t, "(x)", sig)
	_, ok = chain.Signature("g")
	require.False(t, ok)
}

func TestAnalyzeRejectsBadShape(t *testing.T) {
	_, err := Analyze(nil)
	require.NotNil(t, err)
	kind, ok := errz.KindOf(err)
	require.True(t, ok)
	require.Equal(t, errz.ErrStructure, kind)

	bad := bytecode.NewCode(bytecode.CodeParams{
		Name: "<module>",
		Instructions: []bytecode.Instruction{
			{Offset: 0, Opname: "LOAD_FAST", HasArg: true, ArgVal: "ghost"},
		},
	})
	a, err := Analyze(bad)
	require.Nil(t, a)
	require.NotNil(t, err)
	require.True(t, errz.Is(err, errz.ErrStructure))
}

func TestBuilderEmpty(t *testing.T) {
	a := NewBuilder().Build()
	require.Nil(t, a.Main)
	require.Empty(t, a.Instructions)
	require.Empty(t, a.JumpTargets)
	require.Empty(t, a.CountByType())
}
