// Package analysis holds the analyzed view of CPython bytecode and the
// structural analyzer that builds it from a compiled code object.
//
// An Analysis is a flat instruction stream plus the sets aggregated across
// every function: locals, globals, constants, call sites and jump targets.
// Nested functions are laid out after their enclosing scope, so offsets in
// the flat stream are unique across the whole module. Both the structural
// analyzer in this package and the text parser in package dis produce
// values of this type through a Builder.
package analysis
