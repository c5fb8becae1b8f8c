package analysis

import (
	"fmt"

	"github.com/bytescope/bytescope/bytecode"
	"github.com/bytescope/bytescope/errz"
	"github.com/bytescope/bytescope/op"
)

// Option configures structural analysis.
type Option func(*options)

type options struct {
	signatures SignatureProvider
}

// WithSignatures attaches call signatures from the given provider to every
// analyzed function.
func WithSignatures(p SignatureProvider) Option {
	return func(o *options) {
		o.signatures = p
	}
}

// Analyze walks a compiled code object and every code object nested in its
// constants, producing one FunctionInfo per code object. The module comes
// first, followed by nested code in depth-first constant order; each nested
// unit starts at the number of instructions emitted before it times
// OffsetStride.
//
// Analyze returns an *errz.StructuredError of kind ErrStructure when the
// code object has an unexpected shape. It never panics.
func Analyze(code *bytecode.Code, opts ...Option) (result *Analysis, err error) {
	o := &options{signatures: NoSignatures{}}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errz.Newf(errz.ErrStructure, "unexpected code object shape: %v", r)
		}
	}()
	if err := bytecode.Validate(code); err != nil {
		return nil, err
	}

	main := analyzeFunction(code, ModuleName, 0, o.signatures)
	functions := []*FunctionInfo{main}
	functions, _ = discoverNested(code, functions, len(main.Instructions), o.signatures)
	return aggregate(functions), nil
}

// discoverNested appends a FunctionInfo for every code object in the
// constants of code, recursing into each before moving on to its siblings.
// emitted is the number of instructions laid out so far; the updated count
// is returned.
func discoverNested(code *bytecode.Code, functions []*FunctionInfo, emitted int, sigs SignatureProvider) ([]*FunctionInfo, int) {
	for i := 0; i < code.ConstantCount(); i++ {
		child, ok := code.ConstantAt(i).(*bytecode.Code)
		if !ok || child == nil {
			continue
		}
		fn := analyzeFunction(child, child.Name(), emitted*OffsetStride, sigs)
		functions = append(functions, fn)
		emitted += len(fn.Instructions)
		functions, emitted = discoverNested(child, functions, emitted, sigs)
	}
	return functions, emitted
}

func analyzeFunction(code *bytecode.Code, name string, base int, sigs SignatureProvider) *FunctionInfo {
	instructions := make([]Instruction, 0, code.InstructionCount())
	iter := bytecode.NewInstructionIter(code)
	for {
		raw, ok := iter.Next()
		if !ok {
			break
		}
		instructions = append(instructions, convert(raw, base))
	}
	return &FunctionInfo{
		Name:           name,
		StartOffset:    base,
		VarNames:       code.VarNames(),
		Names:          code.Names(),
		FreeVars:       code.FreeVars(),
		CellVars:       code.CellVars(),
		Constants:      code.Constants(),
		ArgCount:       code.ArgCount(),
		KwOnlyArgCount: code.KwOnlyArgCount(),
		Instructions:   instructions,
		Signature:      lookupSignature(sigs, name),
		Code:           code,
	}
}

func convert(raw bytecode.Instruction, base int) Instruction {
	instr := Instruction{
		Offset:       raw.Offset + base,
		Opname:       raw.Opname,
		ArgVal:       operand(raw.ArgVal),
		ArgRepr:      raw.ArgRepr,
		IsJumpTarget: raw.IsJumpTarget,
	}
	if raw.HasArg {
		arg := raw.Arg
		instr.Arg = &arg
	}
	if raw.StartsLine > 0 {
		line := raw.StartsLine
		instr.LineNumber = &line
	}
	return instr
}

// operand renders a resolved operand as text. A None operand is unset.
func operand(v any) string {
	if v == nil {
		return ""
	}
	return bytecode.Str(v)
}

// aggregate unions per-function metadata into the flat Analysis.
func aggregate(functions []*FunctionInfo) *Analysis {
	b := NewBuilder()
	for _, fn := range functions {
		b.AddFunction(fn)
		for _, name := range fn.VarNames {
			b.AddLocal(name)
		}
		for _, name := range fn.Names {
			b.AddGlobal(name)
		}
		for _, c := range fn.Constants {
			if c == nil {
				continue
			}
			b.AddConstant(bytecode.Str(c))
		}
		for _, instr := range fn.Instructions {
			b.AddInstruction(instr)
			if instr.Type() == op.Call && instr.ArgVal != "" {
				b.AddCall(instr.ArgVal)
			}
			if instr.IsJumpTarget {
				b.AddJumpTarget(instr.Offset)
			}
		}
	}
	return b.Build()
}

// Describe returns a one-line description of a function, used in logs and
// listings.
func (f *FunctionInfo) Describe() string {
	return fmt.Sprintf("%s%s at offset %d (%d instructions)",
		f.Name, f.Signature, f.StartOffset, len(f.Instructions))
}
