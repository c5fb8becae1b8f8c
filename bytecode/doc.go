// Package bytecode provides immutable representations of compiled CPython
// code objects.
//
// A [Code] mirrors the introspectable shape of a CPython code object: the
// decoded instruction stream, the constant table, the variable-name tables
// (co_varnames, co_names, co_freevars, co_cellvars) and the argument counts.
// Nested functions, classes and comprehensions appear as *Code values in
// the constant table of their enclosing code.
//
// # Constant Values
//
// Constants and instruction operands (Instruction.ArgVal) are stored as
// []any holding one of:
//
//   - nil (None)
//   - bool
//   - int64
//   - float64
//   - string
//   - []byte
//   - [Tuple] (tuple and frozenset)
//   - [Repr] (anything else, carried as its repr() text)
//   - *Code (constants only; operands refer to code objects by Repr)
//
// [Str] and [ReprOf] render these values the way CPython's str() and repr()
// do, so derived reports match what Python itself would print.
//
// # Immutability Guarantees
//
// All types in this package are immutable after construction. Constructors
// copy input slices and index-based accessors never expose internal state:
//
//	code.InstructionAt(0)
//	code.ConstantAt(i)
//	code.VarNameAt(j)
//
// # Serialization
//
// [Marshal] and [Unmarshal] convert a Code tree to and from JSON. The same
// format is produced by the exporter script that compiles Python source, so
// code objects can be captured once and analyzed anywhere.
package bytecode
