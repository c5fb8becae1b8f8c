package bytecode

import "strings"

// Code is a compiled CPython code object: a module body, function body,
// class body or comprehension. It is immutable after creation and safe for
// concurrent use. Nested code objects are found among its constants.
type Code struct {
	name            string
	qualname        string
	filename        string
	firstLineNo     int
	argCount        int
	posOnlyArgCount int
	kwOnlyArgCount  int
	flags           int

	varNames []string
	names    []string
	freeVars []string
	cellVars []string

	constants    []any
	instructions []Instruction

	source string
	parent *Code // Enclosing code (nil for the module)
}

// CodeParams contains parameters for creating a new Code.
type CodeParams struct {
	Name            string
	QualName        string
	Filename        string
	FirstLineNo     int
	ArgCount        int
	PosOnlyArgCount int
	KwOnlyArgCount  int
	Flags           int
	VarNames        []string
	Names           []string
	FreeVars        []string
	CellVars        []string
	Constants       []any
	Instructions    []Instruction
	Source          string
}

// NewCode creates a new immutable Code from the given parameters.
// Input slices are copied to ensure immutability.
func NewCode(params CodeParams) *Code {
	code := &Code{
		name:            params.Name,
		qualname:        params.QualName,
		filename:        params.Filename,
		firstLineNo:     params.FirstLineNo,
		argCount:        params.ArgCount,
		posOnlyArgCount: params.PosOnlyArgCount,
		kwOnlyArgCount:  params.KwOnlyArgCount,
		flags:           params.Flags,
		varNames:        copyStrings(params.VarNames),
		names:           copyStrings(params.Names),
		freeVars:        copyStrings(params.FreeVars),
		cellVars:        copyStrings(params.CellVars),
		constants:       copyAny(params.Constants),
		instructions:    copyInstructions(params.Instructions),
		source:          params.Source,
	}
	// Set parent reference on nested code for source lookups
	for _, c := range code.constants {
		if child, ok := c.(*Code); ok && child != nil {
			child.parent = code
		}
	}
	return code
}

// Name returns the code object's name (co_name).
func (c *Code) Name() string {
	return c.name
}

// QualName returns the qualified name (co_qualname), falling back to Name.
func (c *Code) QualName() string {
	if c.qualname == "" {
		return c.name
	}
	return c.qualname
}

// Filename returns the source filename.
func (c *Code) Filename() string {
	return c.filename
}

// FirstLineNo returns the first source line of this code object.
func (c *Code) FirstLineNo() int {
	return c.firstLineNo
}

// ArgCount returns the number of positional parameters.
func (c *Code) ArgCount() int {
	return c.argCount
}

// PosOnlyArgCount returns the number of positional-only parameters.
func (c *Code) PosOnlyArgCount() int {
	return c.posOnlyArgCount
}

// KwOnlyArgCount returns the number of keyword-only parameters.
func (c *Code) KwOnlyArgCount() int {
	return c.kwOnlyArgCount
}

// Flags returns the co_flags bit set.
func (c *Code) Flags() int {
	return c.flags
}

// VarNameCount returns the number of local variable names.
func (c *Code) VarNameCount() int {
	return len(c.varNames)
}

// VarNameAt returns the local variable name at the given index.
func (c *Code) VarNameAt(index int) string {
	return c.varNames[index]
}

// NameCount returns the number of global and attribute names.
func (c *Code) NameCount() int {
	return len(c.names)
}

// NameAt returns the global or attribute name at the given index.
func (c *Code) NameAt(index int) string {
	return c.names[index]
}

// FreeVarCount returns the number of free variables.
func (c *Code) FreeVarCount() int {
	return len(c.freeVars)
}

// FreeVarAt returns the free variable at the given index.
func (c *Code) FreeVarAt(index int) string {
	return c.freeVars[index]
}

// CellVarCount returns the number of cell variables.
func (c *Code) CellVarCount() int {
	return len(c.cellVars)
}

// CellVarAt returns the cell variable at the given index.
func (c *Code) CellVarAt(index int) string {
	return c.cellVars[index]
}

// ConstantCount returns the number of constants.
func (c *Code) ConstantCount() int {
	return len(c.constants)
}

// ConstantAt returns the constant at the given index.
func (c *Code) ConstantAt(index int) any {
	return c.constants[index]
}

// InstructionCount returns the number of instructions.
func (c *Code) InstructionCount() int {
	return len(c.instructions)
}

// InstructionAt returns the instruction at the given index.
func (c *Code) InstructionAt(index int) Instruction {
	return c.instructions[index]
}

// VarNames returns a copy of the local variable names.
func (c *Code) VarNames() []string {
	return copyStrings(c.varNames)
}

// Names returns a copy of the global and attribute names.
func (c *Code) Names() []string {
	return copyStrings(c.names)
}

// FreeVars returns a copy of the free variable names.
func (c *Code) FreeVars() []string {
	return copyStrings(c.freeVars)
}

// CellVars returns a copy of the cell variable names.
func (c *Code) CellVars() []string {
	return copyStrings(c.cellVars)
}

// Constants returns a copy of the constant table. Nested code objects are
// returned as the same immutable *Code values.
func (c *Code) Constants() []any {
	return copyAny(c.constants)
}

// Children returns the code objects found directly in the constant table,
// in constant order.
func (c *Code) Children() []*Code {
	var children []*Code
	for _, constant := range c.constants {
		if child, ok := constant.(*Code); ok && child != nil {
			children = append(children, child)
		}
	}
	return children
}

// Flatten returns this code and all nested code objects in depth-first
// constant order.
func (c *Code) Flatten() []*Code {
	codes := []*Code{c}
	for _, child := range c.Children() {
		codes = append(codes, child.Flatten()...)
	}
	return codes
}

// GetSourceLine returns the source line at the given 1-based line number,
// looking the text up on the module code for nested functions.
func (c *Code) GetSourceLine(lineNum int) string {
	root := c
	for root.parent != nil {
		root = root.parent
	}
	return SourceLine(root.source, lineNum)
}

// SourceLine returns the 1-based line of source, or "" when out of range.
func SourceLine(source string, lineNum int) string {
	if lineNum < 1 || source == "" {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// String returns a short description in the style of CPython's code repr,
// without the memory address.
func (c *Code) String() string {
	return "<code object " + c.name + ">"
}

// Stats returns statistics about this code object and everything nested in
// it.
func (c *Code) Stats() Stats {
	var stats Stats
	for i, code := range c.Flatten() {
		if i > 0 {
			stats.FunctionCount++
		}
		stats.InstructionCount += code.InstructionCount()
		stats.ConstantCount += code.ConstantCount()
		stats.VarNameCount += code.VarNameCount()
	}
	stats.SourceBytes = len(c.source)
	return stats
}
