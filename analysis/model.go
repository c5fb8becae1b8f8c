package analysis

import (
	"github.com/bytescope/bytescope/bytecode"
	"github.com/bytescope/bytescope/op"
)

// ModuleName names the module-level unit. The angle brackets keep it
// distinct from any legal Python identifier.
const ModuleName = "<module>"

// OffsetStride is the number of offset units each instruction occupies when
// laying nested functions out after their enclosing scope.
const OffsetStride = 2

// Instruction is one typed bytecode operation.
type Instruction struct {
	Offset       int
	Opname       string
	Arg          *int   // nil when the instruction takes no operand
	ArgVal       string // resolved operand, empty when unset
	ArgRepr      string
	LineNumber   *int // nil unless the instruction starts a source line
	IsJumpTarget bool
}

// Type returns the semantic category of the instruction. It is derived from
// Opname on every call, so it can never disagree with it.
func (i Instruction) Type() op.Type {
	return op.Classify(i.Opname)
}

// FunctionInfo describes one analyzed code unit: the module body or a
// nested function, class body or comprehension.
type FunctionInfo struct {
	Name        string
	StartOffset int

	VarNames []string // locals, including parameters
	Names    []string // referenced globals and attributes
	FreeVars []string // closed over from an enclosing scope
	CellVars []string // locals captured by a nested closure

	Constants      []any
	ArgCount       int
	KwOnlyArgCount int
	Instructions   []Instruction

	// Signature is the call signature, such as "(x, *, k=1)", or
	// UnknownSignature when no provider could supply one.
	Signature string

	// Code is the code object this unit was built from.
	Code *bytecode.Code
}

// Analysis is the aggregate result of analyzing bytecode. It is built once
// per request and must not be modified afterwards.
type Analysis struct {
	Instructions  []Instruction
	JumpTargets   []int    // sorted, unique
	LocalVars     []string // sorted, unique
	GlobalVars    []string // sorted, unique
	Constants     []string // sorted, unique
	FunctionCalls []string // encounter order, duplicates kept
	Functions     []*FunctionInfo
	Main          *FunctionInfo // nil for text-based analysis
}

// IsJumpTarget reports whether the given offset is a known jump target.
func (a *Analysis) IsJumpTarget(offset int) bool {
	for _, t := range a.JumpTargets {
		if t == offset {
			return true
		}
	}
	return false
}

// Function returns the first function with the given name.
func (a *Analysis) Function(name string) (*FunctionInfo, bool) {
	for _, fn := range a.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// CountByType returns the number of instructions in each category.
func (a *Analysis) CountByType() map[op.Type]int {
	counts := map[op.Type]int{}
	for _, instr := range a.Instructions {
		counts[instr.Type()]++
	}
	return counts
}
