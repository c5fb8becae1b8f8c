package bytecode

// InstructionIter iterates over the instructions of a Code object.
type InstructionIter struct {
	code *Code
	pos  int
}

// NewInstructionIter creates a new instruction iterator for the given code.
func NewInstructionIter(code *Code) *InstructionIter {
	return &InstructionIter{code: code}
}

// Next returns the next instruction.
// Returns false when there are no more instructions.
func (i *InstructionIter) Next() (Instruction, bool) {
	if i.pos >= i.code.InstructionCount() {
		return Instruction{}, false
	}
	instr := i.code.InstructionAt(i.pos)
	i.pos++
	return instr, true
}
