package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/internal/fixtures"
)

func TestPrintInstructions(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	a, err := analysis.Analyze(fixtures.AddOne())
	require.Nil(t, err)
	f, ok := a.Function("f")
	require.True(t, ok)

	var buf bytes.Buffer
	require.Nil(t, PrintInstructions(&buf, f.Instructions))

	expected := strings.TrimSpace(`
+------+--------+--------------+-----+------+-----------+
| LINE | OFFSET |    OPNAME    | ARG | INFO |   TYPE    |
+------+--------+--------------+-----+------+-----------+
|    2 |     12 | LOAD_FAST    |   0 | x    | load      |
|      |     14 | LOAD_CONST   |   1 | 1    | load      |
|      |     16 | BINARY_ADD   |     |      | binary_op |
|      |     18 | RETURN_VALUE |     |      | return    |
+------+--------+--------------+-----+------+-----------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestPrintInstructionsMarksJumpTargets(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	a, err := analysis.Analyze(fixtures.Count())
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, PrintInstructions(&buf, a.Instructions))
	require.Contains(t, buf.String(), ">> 38 | FOR_ITER")
	require.Contains(t, buf.String(), "to 30")
}

func TestPrintFunction(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	a, err := analysis.Analyze(fixtures.AddOne())
	require.Nil(t, err)
	f, ok := a.Function("f")
	require.True(t, ok)

	var buf bytes.Buffer
	require.Nil(t, PrintFunction(&buf, a, f))

	expected := strings.TrimSpace(`
+------+--------+--------------+-----+------+-----------+--------------+
| LINE | OFFSET |    OPNAME    | ARG | INFO |   TYPE    |    SOURCE    |
+------+--------+--------------+-----+------+-----------+--------------+
|    2 |     12 | LOAD_FAST    |   0 | x    | load      | return x + 1 |
|      |     14 | LOAD_CONST   |   1 | 1    | load      |              |
|      |     16 | BINARY_ADD   |     |      | binary_op |              |
|      |     18 | RETURN_VALUE |     |      | return    |              |
+------+--------+--------------+-----+------+-----------+--------------+
`)
	require.Equal(t, expected+"\n", buf.String())
}

func TestPrintFunctionResolvesJumps(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	a, err := analysis.Analyze(fixtures.Count())
	require.Nil(t, err)
	count, ok := a.Function("count")
	require.True(t, ok)

	var buf bytes.Buffer
	require.Nil(t, PrintFunction(&buf, a, count))
	out := buf.String()
	require.Contains(t, out, "| FOR_ITER          |  10 | to 60 |")
	require.Contains(t, out, "| POP_JUMP_IF_FALSE |   4 | to 38 |")
	require.Contains(t, out, "| JUMP_ABSOLUTE     |   4 | to 38 |")
	require.Contains(t, out, "| for item in items:")
	require.NotContains(t, out, "to 8 ")
}

func TestPrintFunctionWithoutSource(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = noColor }()

	a, err := analysis.Analyze(fixtures.LoadStore())
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, PrintFunction(&buf, a, a.Main))
	require.NotContains(t, buf.String(), "SOURCE")
}
