package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/op"
)

// MaxListedCalls is the number of call sites listed by name in a summary.
const MaxListedCalls = 10

const rule = "========================================"

// Summary renders a multi-section plain text report of an analysis. It
// accepts a nil or empty analysis.
func Summary(a *analysis.Analysis) string {
	if a == nil {
		a = &analysis.Analysis{}
	}
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("Bytecode Analysis Summary")
	add(rule)
	add("Total Instructions: %d", len(a.Instructions))
	add("Jump Targets: %d", len(a.JumpTargets))
	add("")

	add("Instruction Breakdown:")
	for _, entry := range Histogram(a.Instructions) {
		add("  %s: %d", entry.Type.Title(), entry.Count)
	}
	add("")

	add("Variables & Constants:")
	add("  Local Variables: %s", joinOrNone(a.LocalVars))
	add("  Global Variables: %s", joinOrNone(a.GlobalVars))
	add("  Constants: %d items", len(a.Constants))

	if calls := a.FunctionCalls; len(calls) > 0 {
		add("")
		add("Function Calls:")
		for i, call := range calls {
			if i == MaxListedCalls {
				break
			}
			add("  %s", call)
		}
		if len(calls) > MaxListedCalls {
			add("  ... and %d more", len(calls)-MaxListedCalls)
		}
	}

	if jumps := jumpCounts(a.Instructions); len(jumps) > 0 {
		total := 0
		names := make([]string, 0, len(jumps))
		for name, n := range jumps {
			total += n
			names = append(names, name)
		}
		sort.Strings(names)
		add("")
		add("Jump Analysis:")
		add("  Total Jumps: %d", total)
		for _, name := range names {
			add("    %s: %d", name, jumps[name])
		}
	}

	add("")
	add("Complexity Metrics:")
	add("  Cyclomatic Complexity: %d", CyclomaticComplexity(a))
	add("  Load/Store Ratio: %s", LoadStoreRatio(a))
	return strings.Join(lines, "\n")
}

// TypeCount is one row of an instruction histogram.
type TypeCount struct {
	Type  op.Type
	Count int
}

// Histogram counts instructions per category, most frequent first. Equal
// counts keep the order in which the categories first appear.
func Histogram(instrs []analysis.Instruction) []TypeCount {
	var counts []TypeCount
	index := map[op.Type]int{}
	for _, instr := range instrs {
		t := instr.Type()
		i, ok := index[t]
		if !ok {
			i = len(counts)
			index[t] = i
			counts = append(counts, TypeCount{Type: t})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// CyclomaticComplexity is one more than the number of conditional jumps.
func CyclomaticComplexity(a *analysis.Analysis) int {
	decisions := 0
	for _, instr := range a.Instructions {
		if op.IsConditionalJump(instr.Opname) {
			decisions++
		}
	}
	return decisions + 1
}

// LoadStoreRatio formats the ratio of load to store instructions, such as
// "3:1 (3.00:1)".
func LoadStoreRatio(a *analysis.Analysis) string {
	var loads, stores int
	for _, instr := range a.Instructions {
		switch instr.Type() {
		case op.Load:
			loads++
		case op.Store:
			stores++
		}
	}
	if stores == 0 {
		if loads > 0 {
			return fmt.Sprintf("%d:0 (all loads)", loads)
		}
		return "0:0"
	}
	return fmt.Sprintf("%d:%d (%.2f:1)", loads, stores, float64(loads)/float64(stores))
}

func jumpCounts(instrs []analysis.Instruction) map[string]int {
	counts := map[string]int{}
	for _, instr := range instrs {
		if instr.Type() == op.Jump {
			counts[instr.Opname]++
		}
	}
	return counts
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}
