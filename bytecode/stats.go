package bytecode

// Stats contains statistics about a compiled code object tree.
type Stats struct {
	// InstructionCount is the total number of instructions across all code.
	InstructionCount int

	// ConstantCount is the total size of every constant table.
	ConstantCount int

	// VarNameCount is the total number of local variable names.
	VarNameCount int

	// FunctionCount is the number of nested code objects.
	FunctionCount int

	// SourceBytes is the size of the attached source code in bytes.
	SourceBytes int
}
