package compiler

import (
	"fmt"

	"github.com/tern-lang/tern/lang/token"
)

// ErrKind classifies the compilation errors reported to the user.
type ErrKind int

//nolint:revive
const (
	NoError ErrKind = iota
	ParseError
	TypeMismatch
	NonVoidFunctionMissingReturn
	WrongNumberOfArgs
	IdentifierNotDeclared
	IdentifierAlreadyDeclared
	MathOperationOnString
)

func (k ErrKind) String() string { return errKindNames[k] }

var errKindNames = [...]string{
	NoError:                      "no error",
	ParseError:                   "parse error",
	TypeMismatch:                 "type mismatch",
	NonVoidFunctionMissingReturn: "non-void function missing return",
	WrongNumberOfArgs:            "function called with wrong number of arguments",
	IdentifierNotDeclared:        "identifier not declared",
	IdentifierAlreadyDeclared:    "identifier already declared",
	MathOperationOnString:        "math operation on string",
}

// Error is a compilation error with the source span of the offending node.
// Start points at the first byte of the node, Stop at the first byte after
// it, so the input substring between the two offsets is the node's text.
type Error struct {
	Kind  ErrKind
	Start token.Position
	Stop  token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Start.Line, e.Start.Col, e.Kind)
}
