package analysis

import "sort"

// Builder accumulates instructions and metadata into an Analysis. It is
// used by both the structural analyzer and the text parser so the two
// paths produce identical aggregates.
type Builder struct {
	instructions []Instruction
	jumpTargets  map[int]struct{}
	locals       map[string]struct{}
	globals      map[string]struct{}
	constants    map[string]struct{}
	calls        []string
	functions    []*FunctionInfo
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		jumpTargets: map[int]struct{}{},
		locals:      map[string]struct{}{},
		globals:     map[string]struct{}{},
		constants:   map[string]struct{}{},
	}
}

// AddInstruction appends an instruction to the flat stream.
func (b *Builder) AddInstruction(instr Instruction) {
	b.instructions = append(b.instructions, instr)
}

// AddJumpTarget records an offset as a jump target.
func (b *Builder) AddJumpTarget(offset int) {
	b.jumpTargets[offset] = struct{}{}
}

// AddLocal records a local variable name.
func (b *Builder) AddLocal(name string) {
	b.locals[name] = struct{}{}
}

// AddGlobal records a global or attribute name.
func (b *Builder) AddGlobal(name string) {
	b.globals[name] = struct{}{}
}

// AddConstant records the string form of a constant.
func (b *Builder) AddConstant(value string) {
	b.constants[value] = struct{}{}
}

// AddCall appends a call-site name. Duplicates are kept.
func (b *Builder) AddCall(name string) {
	b.calls = append(b.calls, name)
}

// AddFunction appends a function. The first function added becomes the
// Analysis' Main.
func (b *Builder) AddFunction(fn *FunctionInfo) {
	b.functions = append(b.functions, fn)
}

// Build returns the accumulated Analysis.
func (b *Builder) Build() *Analysis {
	a := &Analysis{
		Instructions:  b.instructions,
		JumpTargets:   sortedInts(b.jumpTargets),
		LocalVars:     sortedStrings(b.locals),
		GlobalVars:    sortedStrings(b.globals),
		Constants:     sortedStrings(b.constants),
		FunctionCalls: b.calls,
		Functions:     b.functions,
	}
	if len(a.Functions) > 0 {
		a.Main = a.Functions[0]
	}
	return a
}

func sortedInts(set map[int]struct{}) []int {
	values := make([]int, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Ints(values)
	return values
}

func sortedStrings(set map[string]struct{}) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}
