package report

import (
	"github.com/bytescope/bytescope/analysis"
)

// InstructionDoc is the JSON form of an analysis.Instruction.
type InstructionDoc struct {
	Offset          int     `json:"offset"`
	Opname          string  `json:"opname"`
	Arg             *int    `json:"arg"`
	ArgVal          *string `json:"argval"`
	ArgRepr         string  `json:"argrepr"`
	LineNumber      *int    `json:"line_number"`
	IsJumpTarget    bool    `json:"is_jump_target"`
	InstructionType string  `json:"instruction_type"`
}

// FunctionDoc is the JSON form of an analysis.FunctionInfo.
type FunctionDoc struct {
	Name           string   `json:"name"`
	StartOffset    int      `json:"start_offset"`
	VarNames       []string `json:"varnames"`
	Names          []string `json:"names"`
	FreeVars       []string `json:"freevars"`
	CellVars       []string `json:"cellvars"`
	ArgCount       int      `json:"argcount"`
	KwOnlyArgCount int      `json:"kwonlyargcount"`
	Signature      string   `json:"signature"`
}

// AnalysisDoc is the JSON form of an analysis.Analysis. Every collection
// is rendered as an array, never null.
type AnalysisDoc struct {
	Instructions  []InstructionDoc `json:"instructions"`
	JumpTargets   []int            `json:"jump_targets"`
	LocalVars     []string         `json:"local_vars"`
	GlobalVars    []string         `json:"global_vars"`
	Constants     []string         `json:"constants"`
	FunctionCalls []string         `json:"function_calls"`
	Functions     []FunctionDoc    `json:"functions"`
}

// Document converts an analysis to its JSON form. A nil analysis yields
// an empty document.
func Document(a *analysis.Analysis) *AnalysisDoc {
	if a == nil {
		a = &analysis.Analysis{}
	}
	doc := &AnalysisDoc{
		JumpTargets:   nonNilInts(a.JumpTargets),
		LocalVars:     nonNil(a.LocalVars),
		GlobalVars:    nonNil(a.GlobalVars),
		Constants:     nonNil(a.Constants),
		FunctionCalls: nonNil(a.FunctionCalls),
		Functions:     make([]FunctionDoc, 0, len(a.Functions)),
	}
	doc.Instructions = InstructionDocs(a.Instructions)
	for _, fn := range a.Functions {
		doc.Functions = append(doc.Functions, FunctionDoc{
			Name:           fn.Name,
			StartOffset:    fn.StartOffset,
			VarNames:       nonNil(fn.VarNames),
			Names:          nonNil(fn.Names),
			FreeVars:       nonNil(fn.FreeVars),
			CellVars:       nonNil(fn.CellVars),
			ArgCount:       fn.ArgCount,
			KwOnlyArgCount: fn.KwOnlyArgCount,
			Signature:      fn.Signature,
		})
	}
	return doc
}

// InstructionDocs converts instructions to their JSON form. The result is
// never nil.
func InstructionDocs(instrs []analysis.Instruction) []InstructionDoc {
	docs := make([]InstructionDoc, 0, len(instrs))
	for _, instr := range instrs {
		docs = append(docs, instructionDoc(instr))
	}
	return docs
}

func instructionDoc(instr analysis.Instruction) InstructionDoc {
	doc := InstructionDoc{
		Offset:          instr.Offset,
		Opname:          instr.Opname,
		Arg:             instr.Arg,
		ArgRepr:         instr.ArgRepr,
		LineNumber:      instr.LineNumber,
		IsJumpTarget:    instr.IsJumpTarget,
		InstructionType: instr.Type().String(),
	}
	if instr.ArgVal != "" {
		v := instr.ArgVal
		doc.ArgVal = &v
	}
	return doc
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilInts(values []int) []int {
	if values == nil {
		return []int{}
	}
	return values
}
