// Package compiler translates source text into the bytecode Program executed
// by the virtual machine. Compilation is single pass: the semantic walker
// type-checks the parse tree and emits instructions as it goes, backpatching
// forward jumps through placeholder instructions.
package compiler

import (
	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/parser"
	"github.com/tern-lang/tern/lang/scanner"
)

// Compile parses and compiles a single source buffer with the provided
// host-registered external functions. On failure the returned error is the
// *Error diagnostic and the returned program is the partial artifact emitted
// up to that point; it is suitable for printing but not guaranteed to be
// executable. On success the program satisfies the invariants checked by
// its Verify method.
func Compile(name string, src []byte, externals []*bytecode.ExternalFunction) (*bytecode.Program, error) {
	file, tree, perr := parser.ParseSource(name, src)
	if perr != nil {
		first := perr.(scanner.ErrorList)[0]
		return &bytecode.Program{}, &Error{
			Kind:  ParseError,
			Start: first.Pos,
			Stop:  first.Pos,
		}
	}

	gen := NewGenerator()
	w := &walker{gen: gen, file: file}
	if err := w.program(tree, externals); err != nil {
		return gen.Finalize(), gen.Err()
	}
	return gen.Finalize(), nil
}
