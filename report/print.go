package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/bytecode"
	"github.com/bytescope/bytescope/internal/table"
	"github.com/bytescope/bytescope/op"
)

var (
	bold      = color.New(color.Bold).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
	typeColor = map[op.Type]*color.Color{
		op.Load:     color.New(color.FgCyan),
		op.Store:    color.New(color.FgBlue),
		op.Call:     color.New(color.FgMagenta),
		op.Jump:     color.New(color.FgYellow),
		op.Loop:     color.New(color.FgYellow),
		op.Compare:  color.New(color.FgGreen),
		op.BinaryOp: color.New(color.FgGreen),
		op.Build:    color.New(color.FgHiBlue),
		op.Return:   color.New(color.FgRed),
	}
)

const maxInfoWidth = 60

// PrintInstructions writes instructions as a table with one row per
// instruction. Jump targets are marked with ">>". Colors follow
// color.NoColor.
func PrintInstructions(w io.Writer, instrs []analysis.Instruction) error {
	return printTable(w, instrs, nil, nil)
}

// PrintFunction writes the instructions of one function of a. Jump
// destinations are shown as offsets in a's layout, and a SOURCE column
// holds the source line of each instruction that starts one, when the
// function's code carries source text.
func PrintFunction(w io.Writer, a *analysis.Analysis, fn *analysis.FunctionInfo) error {
	return printTable(w, fn.Instructions, a, fn.Code)
}

func printTable(w io.Writer, instrs []analysis.Instruction, a *analysis.Analysis, code *bytecode.Code) error {
	rows := make([][]string, 0, len(instrs))
	withSource := false
	for _, instr := range instrs {
		offset := strconv.Itoa(instr.Offset)
		if instr.IsJumpTarget {
			offset = ">> " + offset
		}
		var arg string
		if instr.Arg != nil {
			arg = strconv.Itoa(*instr.Arg)
		}
		line, source := "", ""
		if instr.LineNumber != nil {
			line = strconv.Itoa(*instr.LineNumber)
			if code != nil {
				source = truncate(strings.TrimSpace(code.GetSourceLine(*instr.LineNumber)))
				withSource = withSource || source != ""
			}
		}
		text := info(instr)
		if a != nil {
			if dest, ok := a.JumpDestination(instr); ok {
				text = "to " + strconv.Itoa(dest)
			}
		}
		rows = append(rows, []string{
			faint(line),
			offset,
			bold(instr.Opname),
			arg,
			text,
			colorType(instr.Type()),
			source,
		})
	}

	header := []string{"LINE", "OFFSET", "OPNAME", "ARG", "INFO", "TYPE", "SOURCE"}
	alignment := []table.Alignment{
		table.AlignRight,
		table.AlignRight,
		table.AlignLeft,
		table.AlignRight,
		table.AlignLeft,
		table.AlignLeft,
		table.AlignLeft,
	}
	if !withSource {
		header = header[:6]
		for i := range rows {
			rows[i] = rows[i][:6]
		}
	}
	return table.NewTable(w).
		WithHeader(header).
		WithColumnAlignment(alignment).
		WithHeaderAlignment(centered(len(header))).
		WithRows(rows).
		Render()
}

func centered(n int) []table.Alignment {
	alignment := make([]table.Alignment, n)
	for i := range alignment {
		alignment[i] = table.AlignCenter
	}
	return alignment
}

func truncate(text string) string {
	if r := []rune(text); len(r) > maxInfoWidth {
		return string(r[:maxInfoWidth-3]) + "..."
	}
	return text
}

func info(instr analysis.Instruction) string {
	text := instr.ArgRepr
	if text == "" {
		text = instr.ArgVal
	}
	return truncate(text)
}

func colorType(t op.Type) string {
	if c, ok := typeColor[t]; ok {
		return c.Sprint(t.String())
	}
	return t.String()
}
