package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/internal/fixtures"
	"github.com/bytescope/bytescope/op"
)

func TestSummary(t *testing.T) {
	a, err := analysis.Analyze(fixtures.Count())
	require.Nil(t, err)

	expected := strings.TrimSpace(`
Bytecode Analysis Summary
========================================
Total Instructions: 32
Jump Targets: 2

Instruction Breakdown:
  Load: 14
  Store: 4
  Other: 3
  Call: 2
  Return: 2
  Loop: 2
  Jump: 2
  Build: 1
  Compare: 1
  Binary_Op: 1

Variables & Constants:
  Local Variables: item, items, limit, total
  Global Variables: count, print
  Constants: 5 items

Function Calls:
  2
  1

Jump Analysis:
  Total Jumps: 2
    JUMP_ABSOLUTE: 1
    POP_JUMP_IF_FALSE: 1

Complexity Metrics:
  Cyclomatic Complexity: 2
  Load/Store Ratio: 14:4 (3.50:1)
`)
	require.Equal(t, expected, Summary(a))
}

func TestSummaryWithoutCalls(t *testing.T) {
	a, err := analysis.Analyze(fixtures.AddOne())
	require.Nil(t, err)

	summary := Summary(a)
	require.NotContains(t, summary, "Function Calls")
	require.NotContains(t, summary, "Jump Analysis")
	require.Contains(t, summary, "  Cyclomatic Complexity: 1\n")
	require.Equal(t, 1, CyclomaticComplexity(a))
}

func TestSummaryEmpty(t *testing.T) {
	for _, a := range []*analysis.Analysis{nil, analysis.NewBuilder().Build()} {
		summary := Summary(a)
		require.Contains(t, summary, "Total Instructions: 0\n")
		require.Contains(t, summary, "  Local Variables: None\n")
		require.Contains(t, summary, "  Global Variables: None\n")
		require.Contains(t, summary, "  Constants: 0 items\n")
		require.True(t, strings.HasSuffix(summary, "  Load/Store Ratio: 0:0"))
	}
}

func TestSummaryTruncatesCalls(t *testing.T) {
	b := analysis.NewBuilder()
	for i := 0; i < 13; i++ {
		b.AddCall(fmt.Sprintf("fn%d", i))
	}
	summary := Summary(b.Build())
	require.Contains(t, summary, "  fn9\n  ... and 3 more\n")
	require.NotContains(t, summary, "fn10")
}

func instrs(opnames ...string) []analysis.Instruction {
	var out []analysis.Instruction
	for i, name := range opnames {
		out = append(out, analysis.Instruction{Offset: i * 2, Opname: name})
	}
	return out
}

func TestLoadStoreRatio(t *testing.T) {
	a, err := analysis.Analyze(fixtures.LoadStore())
	require.Nil(t, err)
	require.Equal(t, "3:1 (3.00:1)", LoadStoreRatio(a))

	tests := []struct {
		opnames  []string
		expected string
	}{
		{nil, "0:0"},
		{[]string{"NOP", "RETURN_VALUE"}, "0:0"},
		{[]string{"LOAD_CONST", "LOAD_NAME"}, "2:0 (all loads)"},
		{[]string{"STORE_NAME"}, "0:1 (0.00:1)"},
		{[]string{"LOAD_FAST", "STORE_FAST", "STORE_ATTR"}, "1:2 (0.50:1)"},
		{[]string{"LOAD_FAST", "LOAD_FAST", "STORE_FAST", "STORE_FAST", "STORE_FAST"}, "2:3 (0.67:1)"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, LoadStoreRatio(&analysis.Analysis{Instructions: instrs(tt.opnames...)}))
		})
	}
}

func TestCyclomaticComplexity(t *testing.T) {
	a := &analysis.Analysis{Instructions: instrs(
		"POP_JUMP_IF_TRUE",
		"POP_JUMP_IF_FALSE",
		"JUMP_IF_TRUE_OR_POP",
		"JUMP_IF_FALSE_OR_POP",
		"POP_JUMP_FORWARD_IF_TRUE",
		"JUMP_FORWARD",
		"FOR_ITER",
	)}
	require.Equal(t, 5, CyclomaticComplexity(a))
}

func TestHistogramTies(t *testing.T) {
	h := Histogram(instrs("RETURN_VALUE", "LOAD_FAST", "CALL", "LOAD_FAST", "CALL", "RETURN_VALUE", "NOP"))
	require.Equal(t, []TypeCount{
		{op.Return, 2},
		{op.Load, 2},
		{op.Call, 2},
		{op.Other, 1},
	}, h)
}
