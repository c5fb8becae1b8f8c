package analysis

import (
	"regexp"
	"strconv"

	"github.com/bytescope/bytescope/op"
)

// ScopeKind tells how a function holds a variable name.
type ScopeKind uint8

const (
	ScopeNone ScopeKind = iota
	ScopeLocal
	ScopeFree
	ScopeCell
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeLocal:
		return "local"
	case ScopeFree:
		return "free"
	case ScopeCell:
		return "cell"
	default:
		return "none"
	}
}

var (
	jumpTo     = regexp.MustCompile(`to (\d+)`)
	bareNumber = regexp.MustCompile(`\d+`)
)

// VariableUses returns the load and store instructions whose operand is
// name, in stream order. Constants are not variables, so LOAD_CONST of a
// string equal to name is skipped.
func (a *Analysis) VariableUses(name string) []Instruction {
	return a.matching(name, func(instr Instruction) bool {
		t := instr.Type()
		return (t == op.Load && instr.Opname != "LOAD_CONST") || t == op.Store
	})
}

// CallSites returns the call instructions whose operand is name, in
// stream order.
func (a *Analysis) CallSites(name string) []Instruction {
	return a.matching(name, func(instr Instruction) bool {
		return instr.Type() == op.Call
	})
}

func (a *Analysis) matching(name string, keep func(Instruction) bool) []Instruction {
	var found []Instruction
	if name == "" {
		return found
	}
	for _, instr := range a.Instructions {
		if instr.ArgVal == name && keep(instr) {
			found = append(found, instr)
		}
	}
	return found
}

// VariableScope returns the first function, in analysis order, that holds
// name as a local, free or cell variable. Text analyses have no functions
// and always report ScopeNone.
func (a *Analysis) VariableScope(name string) (*FunctionInfo, ScopeKind) {
	for _, fn := range a.Functions {
		switch {
		case contains(fn.VarNames, name):
			return fn, ScopeLocal
		case contains(fn.FreeVars, name):
			return fn, ScopeFree
		case contains(fn.CellVars, name):
			return fn, ScopeCell
		}
	}
	return nil, ScopeNone
}

// owner returns the function an instruction of a.Instructions came from.
// Offsets of different functions can collide when native offsets grow
// faster than the layout stride, so the shared Arg pointer decides.
func (a *Analysis) owner(instr Instruction) (*FunctionInfo, bool) {
	for _, fn := range a.Functions {
		for _, candidate := range fn.Instructions {
			if candidate.Offset == instr.Offset && candidate.Opname == instr.Opname && candidate.Arg == instr.Arg {
				return fn, true
			}
		}
	}
	return nil, false
}

// JumpDestination resolves the destination of a jump or loop instruction
// to a known jump target. The destination is read from "to N" in the
// argument description, or from its first number when there is no "to".
// Descriptions of structurally analyzed code carry native offsets, so the
// start offset of the owning function is added. instr must come from a's
// instruction stream.
func (a *Analysis) JumpDestination(instr Instruction) (int, bool) {
	if t := instr.Type(); t != op.Jump && t != op.Loop {
		return 0, false
	}
	var digits string
	if m := jumpTo.FindStringSubmatch(instr.ArgRepr); m != nil {
		digits = m[1]
	} else {
		digits = bareNumber.FindString(instr.ArgRepr)
	}
	dest, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	if fn, ok := a.owner(instr); ok {
		dest += fn.StartOffset
	}
	if !a.IsJumpTarget(dest) {
		return 0, false
	}
	return dest, true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
