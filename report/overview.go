package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/internal/table"
)

// CPython co_flags bits that add a parameter slot after the positional
// and keyword-only ones.
const (
	flagVarArgs     = 0x04
	flagVarKeywords = 0x08
)

const moduleSignature = "(module)"

// FunctionOverview describes one function for an overview listing.
type FunctionOverview struct {
	Name        string
	Signature   string
	StartOffset int
	Args        []string // parameters, in declaration order
	Locals      []string // local names that are not parameters
	FreeVars    []string
	CellVars    []string
	FirstLine   int    // 0 when unknown
	Definition  string // source line at FirstLine, trimmed
}

// Overview summarizes each function's signature and variable scopes.
func Overview(functions []*analysis.FunctionInfo) []FunctionOverview {
	out := make([]FunctionOverview, 0, len(functions))
	for _, fn := range functions {
		ov := FunctionOverview{
			Name:        fn.Name,
			Signature:   fn.Signature,
			StartOffset: fn.StartOffset,
			FreeVars:    fn.FreeVars,
			CellVars:    fn.CellVars,
		}
		if fn.Name == analysis.ModuleName {
			ov.Signature = moduleSignature
		}
		params := fn.ArgCount + fn.KwOnlyArgCount
		if fn.Code != nil {
			if fn.Code.Flags()&flagVarArgs != 0 {
				params++
			}
			if fn.Code.Flags()&flagVarKeywords != 0 {
				params++
			}
			ov.FirstLine = fn.Code.FirstLineNo()
			ov.Definition = strings.TrimSpace(fn.Code.GetSourceLine(ov.FirstLine))
		}
		params = min(params, len(fn.VarNames))
		ov.Args = fn.VarNames[:params]
		ov.Locals = fn.VarNames[params:]
		out = append(out, ov)
	}
	return out
}

// PrintOverview writes a table with one row per function: its signature,
// start offset, parameters, other locals, free and cell variables, and
// the line it is defined on.
func PrintOverview(w io.Writer, functions []*analysis.FunctionInfo) error {
	var rows [][]string
	for _, ov := range Overview(functions) {
		line := ""
		if ov.FirstLine > 0 {
			line = strconv.Itoa(ov.FirstLine)
		}
		rows = append(rows, []string{
			bold(ov.Name) + ov.Signature,
			strconv.Itoa(ov.StartOffset),
			strings.Join(ov.Args, ", "),
			strings.Join(ov.Locals, ", "),
			strings.Join(ov.FreeVars, ", "),
			strings.Join(ov.CellVars, ", "),
			faint(line),
			truncate(ov.Definition),
		})
	}
	header := []string{"FUNCTION", "OFFSET", "ARGS", "LOCALS", "FREE", "CELL", "LINE", "DEFINITION"}
	return table.NewTable(w).
		WithHeader(header).
		WithColumnAlignment([]table.Alignment{
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
			table.AlignLeft,
			table.AlignLeft,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithHeaderAlignment(centered(len(header))).
		WithRows(rows).
		Render()
}
