package bytecode

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/bytescope/bytescope/errz"
)

// scopedOps are the opcodes whose operand names a local, cell or free
// variable.
var scopedOps = map[string]bool{
	"LOAD_FAST":   true,
	"STORE_FAST":  true,
	"LOAD_DEREF":  true,
	"STORE_DEREF": true,
}

// Validate checks that a code object tree has the shape the analyzers
// expect. Every problem found is reported; the result is nil or an
// *errz.StructuredError of kind ErrStructure wrapping a multierror.
func Validate(code *Code) error {
	if code == nil {
		return errz.New(errz.ErrStructure, "nil code object")
	}
	var result *multierror.Error
	for _, c := range code.Flatten() {
		result = multierror.Append(result, validateOne(c)...)
	}
	if err := result.ErrorOrNil(); err != nil {
		return errz.Newf(errz.ErrStructure, "invalid code object %s: %d problem(s)",
			code.Name(), len(result.Errors)).WithCause(err)
	}
	return nil
}

func validateOne(c *Code) []error {
	var errs []error
	name := c.QualName()
	if c.argCount < 0 || c.kwOnlyArgCount < 0 || c.posOnlyArgCount < 0 {
		errs = append(errs, fmt.Errorf("%s: negative argument count", name))
	}
	if c.argCount+c.kwOnlyArgCount > len(c.varNames) {
		errs = append(errs, fmt.Errorf("%s: %d parameters but only %d local names",
			name, c.argCount+c.kwOnlyArgCount, len(c.varNames)))
	}
	scope := make(map[string]bool, len(c.varNames)+len(c.freeVars)+len(c.cellVars))
	for _, names := range [][]string{c.varNames, c.freeVars, c.cellVars} {
		for _, n := range names {
			scope[n] = true
		}
	}
	prev := -1
	for i, instr := range c.instructions {
		if instr.Opname == "" {
			errs = append(errs, fmt.Errorf("%s: instruction %d has no opname", name, i))
		}
		if instr.Offset < 0 {
			errs = append(errs, fmt.Errorf("%s: instruction %d has negative offset %d", name, i, instr.Offset))
		}
		if instr.Offset < prev {
			errs = append(errs, fmt.Errorf("%s: instruction %d offset %d precedes %d", name, i, instr.Offset, prev))
		}
		prev = instr.Offset
		if scopedOps[instr.Opname] {
			if v, ok := instr.ArgVal.(string); ok && !scope[v] {
				errs = append(errs, fmt.Errorf("%s: %s at offset %d names %q outside the function scope",
					name, instr.Opname, instr.Offset, v))
			}
		}
	}
	for i, constant := range c.constants {
		if child, ok := constant.(*Code); ok && child == nil {
			errs = append(errs, fmt.Errorf("%s: constant %d is a nil code object", name, i))
		}
	}
	return errs
}
