package bytecode

// Instruction is one decoded bytecode operation as reported by CPython's
// dis module.
type Instruction struct {
	Offset  int
	Opname  string
	Arg     int
	HasArg  bool
	ArgVal  any // Resolved operand, see the package docs for value kinds
	ArgRepr string

	// StartsLine is the source line this instruction starts, or 0 when it
	// does not start a new line.
	StartsLine   int
	IsJumpTarget bool
}
