// Package dis converts between compiled code objects and the conventional
// text disassembly format, one instruction per line:
//
//	>>   10 JUMP_FORWARD             2 (to 14)
//
// The optional ">>" marker flags a jump target, followed by the offset, the
// opcode name, an optional integer argument and an optional parenthesized
// argument description.
package dis

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bytescope/bytescope/analysis"
	"github.com/bytescope/bytescope/op"
)

const (
	targetMarker = ">>"
	headerPrefix = "Disassembly"
)

var (
	markedOffset = regexp.MustCompile(`>>\s*(\d+)`)
	parenNumber  = regexp.MustCompile(`\((\d+)\)`)
	parenGroup   = regexp.MustCompile(`\(([^)]+)\)`)
	jumpDest     = regexp.MustCompile(`\(to (\d+)\)`)
)

// Parse builds an Analysis from disassembly text. Lines that do not start
// with an integer offset and an opcode name are skipped. The result has a
// flat instruction stream and aggregates only: Functions is empty and Main
// is nil.
//
// JumpTargets holds every offset marked with ">>" plus the "(to N)"
// destination of every jump and loop instruction. IsJumpTarget is set from
// the marker alone, so a destination that is never marked, or that lies
// outside the listing, appears in JumpTargets without a flagged
// instruction.
//
// A parenthesized integer anywhere on a line is taken as its source line
// number, so an argument description such as "(123)" is read as line 123.
func Parse(text string) *analysis.Analysis {
	b := analysis.NewBuilder()
	lines := strings.Split(text, "\n")
	for _, line := range lines {
		for _, m := range markedOffset.FindAllStringSubmatch(line, -1) {
			if offset, err := strconv.Atoi(m[1]); err == nil {
				b.AddJumpTarget(offset)
			}
		}
	}
	for _, line := range lines {
		instr, ok := ParseLine(line)
		if !ok {
			continue
		}
		b.AddInstruction(instr)
		collect(b, instr)
	}
	return b.Build()
}

// ParseLine parses a single disassembly line. It reports false for blank
// lines, headers and lines without an offset and opcode name.
func ParseLine(line string) (analysis.Instruction, bool) {
	var instr analysis.Instruction
	text := strings.TrimSpace(line)
	if text == "" || strings.HasPrefix(text, headerPrefix) {
		return instr, false
	}
	if strings.HasPrefix(text, targetMarker) {
		instr.IsJumpTarget = true
		text = strings.TrimSpace(text[len(targetMarker):])
	}
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return instr, false
	}
	offset, err := strconv.Atoi(fields[0])
	if err != nil {
		return instr, false
	}
	instr.Offset = offset
	instr.Opname = fields[1]

	rest := fields[2:]
	if len(rest) > 0 {
		if arg, err := strconv.Atoi(rest[0]); err == nil {
			instr.Arg = &arg
			rest = rest[1:]
		}
	}
	instr.ArgRepr = strings.Join(rest, " ")

	if m := parenNumber.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			instr.LineNumber = &n
		}
	}
	if m := parenGroup.FindStringSubmatch(instr.ArgRepr); m != nil {
		instr.ArgVal = m[1]
	}
	return instr, true
}

// collect feeds the aggregate sets from one parsed instruction.
func collect(b *analysis.Builder, instr analysis.Instruction) {
	kind := instr.Type()
	if kind == op.Jump || kind == op.Loop {
		if m := jumpDest.FindStringSubmatch(instr.ArgRepr); m != nil {
			if dest, err := strconv.Atoi(m[1]); err == nil {
				b.AddJumpTarget(dest)
			}
		}
	}
	if instr.ArgVal == "" {
		return
	}
	switch instr.Opname {
	case "LOAD_FAST", "STORE_FAST":
		b.AddLocal(instr.ArgVal)
	case "LOAD_GLOBAL", "STORE_GLOBAL":
		b.AddGlobal(instr.ArgVal)
	case "LOAD_CONST":
		b.AddConstant(instr.ArgVal)
	default:
		if kind == op.Call {
			b.AddCall(instr.ArgVal)
		}
	}
}
