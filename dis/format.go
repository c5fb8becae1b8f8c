package dis

import (
	"fmt"
	"strings"

	"github.com/bytescope/bytescope/bytecode"
)

// Format renders a code object and every code object nested in its
// constants as disassembly text that Parse accepts. Nested code follows
// depth-first, each under a "Disassembly of" header. Offsets are the
// native offsets of each code object.
func Format(code *bytecode.Code) string {
	if code == nil {
		return ""
	}
	var sb strings.Builder
	for i, c := range code.Flatten() {
		if i > 0 {
			fmt.Fprintf(&sb, "\n%s of %s:\n", headerPrefix, c)
		}
		writeCode(&sb, c)
	}
	return sb.String()
}

func writeCode(sb *strings.Builder, code *bytecode.Code) {
	iter := bytecode.NewInstructionIter(code)
	for {
		instr, ok := iter.Next()
		if !ok {
			break
		}
		sb.WriteString(FormatInstruction(instr))
		sb.WriteByte('\n')
	}
}

// FormatInstruction renders one instruction as a disassembly line.
func FormatInstruction(instr bytecode.Instruction) string {
	marker := "  "
	if instr.IsJumpTarget {
		marker = targetMarker
	}
	line := fmt.Sprintf("%s %5d %-24s", marker, instr.Offset, instr.Opname)
	if instr.HasArg {
		line += fmt.Sprintf(" %4d", instr.Arg)
	}
	if instr.ArgRepr != "" {
		line += " (" + instr.ArgRepr + ")"
	}
	return strings.TrimRight(line, " ")
}
