package compiler

import (
	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/types"
)

// ScopeKind classifies the frames of the identifier-visibility stack.
type ScopeKind int

//nolint:revive
const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeBlock
)

// IdentKind classifies the identifiers declared in a scope.
type IdentKind int

//nolint:revive
const (
	IdentVariable IdentKind = iota
	IdentFunction
)

// Identifier is a named, kinded entry in a scope.
type Identifier struct {
	Kind     IdentKind
	Name     string
	External bool
}

type scope struct {
	kind   ScopeKind
	idents []Identifier
}

// FuncRef identifies a declared function: an index into the script-function
// table or, when External is set, into the external-function table.
type FuncRef struct {
	External bool
	Index    int
}

// Generator owns the emit buffer, the scope stack, the variable and function
// tables and the single sticky compilation error slot. The semantic walker
// drives it; the finalized state becomes the Program artifact.
type Generator struct {
	ops       []bytecode.Instruction
	scopes    []scope
	globals   []bytecode.Variable
	funcs     []bytecode.Function
	externals []*bytecode.ExternalFunction
	curFunc   int // index into funcs of the most recently declared function, -1 before the first
	err       *Error
}

// NewGenerator returns a ready-to-use generator with an empty scope stack.
func NewGenerator() *Generator {
	return &Generator{curFunc: -1}
}

// Emit appends an instruction to the emit buffer.
func (g *Generator) Emit(ins bytecode.Instruction) {
	g.ops = append(g.ops, ins)
}

// EmitPlaceholder appends a placeholder instruction and returns its index,
// to be patched once the forward-jump target is known.
func (g *Generator) EmitPlaceholder() int {
	idx := len(g.ops)
	g.ops = append(g.ops, bytecode.Op(bytecode.PLACEHOLDER))
	return idx
}

// Patch replaces a previously emitted instruction, backpatching a forward
// jump.
func (g *Generator) Patch(idx int, ins bytecode.Instruction) {
	g.ops[idx] = ins
}

// CurrentIndex returns the code index of the next emitted instruction, the
// conventional branch target for subsequent emissions.
func (g *Generator) CurrentIndex() int {
	return len(g.ops)
}

// LastOp returns the opcode of the most recently emitted instruction; ok is
// false when nothing has been emitted.
func (g *Generator) LastOp() (op bytecode.Opcode, ok bool) {
	if len(g.ops) == 0 {
		return 0, false
	}
	return g.ops[len(g.ops)-1].Op, true
}

// ScopePush enters a new innermost scope of the given kind.
func (g *Generator) ScopePush(kind ScopeKind) {
	g.scopes = append(g.scopes, scope{kind: kind})
}

// ScopePop leaves the innermost scope; identifiers declared in it become
// invisible.
func (g *Generator) ScopePop() {
	g.scopes = g.scopes[:len(g.scopes)-1]
}

// Lookup walks the scope stack top-down for the named identifier.
func (g *Generator) Lookup(name string) (Identifier, bool) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		for _, id := range g.scopes[i].idents {
			if id.Name == name {
				return id, true
			}
		}
	}
	return Identifier{}, false
}

// DeclareIdentifier appends an identifier to the innermost scope. It fails
// with IdentifierAlreadyDeclared if the name is visible in any live scope.
func (g *Generator) DeclareIdentifier(kind IdentKind, name string, external bool) ErrKind {
	if _, ok := g.Lookup(name); ok {
		return IdentifierAlreadyDeclared
	}
	top := &g.scopes[len(g.scopes)-1]
	top.idents = append(top.idents, Identifier{Kind: kind, Name: name, External: external})
	return NoError
}

// DeclareIdentifierGlobal is like DeclareIdentifier but appends to the
// bottom (global) scope; it is used to register external functions.
func (g *Generator) DeclareIdentifierGlobal(kind IdentKind, name string, external bool) ErrKind {
	if _, ok := g.Lookup(name); ok {
		return IdentifierAlreadyDeclared
	}
	bottom := &g.scopes[0]
	bottom.idents = append(bottom.idents, Identifier{Kind: kind, Name: name, External: external})
	return NoError
}

// VariableDeclare declares a variable in the innermost scope and records it
// for runtime addressing: in the global table when the innermost scope is
// the global one, in the current function's locals otherwise.
func (g *Generator) VariableDeclare(typ types.Tag, name string) ErrKind {
	if kind := g.DeclareIdentifier(IdentVariable, name, false); kind != NoError {
		return kind
	}
	v := bytecode.Variable{Type: typ, Name: name}
	if g.scopes[len(g.scopes)-1].kind == ScopeGlobal {
		g.globals = append(g.globals, v)
	} else if g.curFunc >= 0 {
		fn := &g.funcs[g.curFunc]
		fn.LocalVariables = append(fn.LocalVariables, v)
	}
	return NoError
}

// VariableGet returns the named variable if it is visible in a live scope.
func (g *Generator) VariableGet(name string) (bytecode.Variable, bool) {
	id, ok := g.Lookup(name)
	if !ok || id.Kind != IdentVariable {
		return bytecode.Variable{}, false
	}
	if g.curFunc >= 0 {
		for _, v := range g.funcs[g.curFunc].LocalVariables {
			if v.Name == name {
				return v, true
			}
		}
	}
	for _, v := range g.globals {
		if v.Name == name {
			return v, true
		}
	}
	return bytecode.Variable{}, false
}

// FunctionDeclare records a script function starting at the current code
// index, with the given parameters as its first locals, and makes it the
// function whose body is being compiled.
func (g *Generator) FunctionDeclare(ret types.Tag, name string, params []bytecode.Variable) ErrKind {
	if kind := g.DeclareIdentifier(IdentFunction, name, false); kind != NoError {
		return kind
	}
	g.curFunc = len(g.funcs)
	g.funcs = append(g.funcs, bytecode.Function{
		CodeIndex:      g.CurrentIndex(),
		ReturnType:     ret,
		Name:           name,
		ArgCount:       len(params),
		LocalVariables: append([]bytecode.Variable(nil), params...),
	})
	return NoError
}

// FunctionDeclareExternal registers a host-provided function at global
// scope. Externals are registered before compilation begins and are
// immutable during it.
func (g *Generator) FunctionDeclareExternal(ext *bytecode.ExternalFunction) ErrKind {
	if kind := g.DeclareIdentifierGlobal(IdentFunction, ext.Name, true); kind != NoError {
		return kind
	}
	g.externals = append(g.externals, ext)
	return NoError
}

// FunctionGetInfo resolves a callable function by name, script functions
// first.
func (g *Generator) FunctionGetInfo(name string) (FuncRef, bool) {
	for i, fn := range g.funcs {
		if fn.Name == name {
			return FuncRef{Index: i}, true
		}
	}
	for i, ext := range g.externals {
		if ext.Name == name {
			return FuncRef{External: true, Index: i}, true
		}
	}
	return FuncRef{}, false
}

// ScriptFunction returns the declared script function at index i.
func (g *Generator) ScriptFunction(i int) *bytecode.Function {
	return &g.funcs[i]
}

// ExternalFunction returns the registered external function at index i.
func (g *Generator) ExternalFunction(i int) *bytecode.ExternalFunction {
	return g.externals[i]
}

// FunctionCurrentReturnType returns the return type of the function whose
// body is currently being compiled, or void before any function has been
// declared. The current function is not reset when its body ends: after a
// body, it still reports that function's return type.
func (g *Generator) FunctionCurrentReturnType() types.Tag {
	if g.curFunc < 0 {
		return types.VOID
	}
	return g.funcs[g.curFunc].ReturnType
}

// SetError records a compilation error. The slot is sticky: once set, later
// errors are dropped and the first one remains the authoritative diagnostic.
func (g *Generator) SetError(err *Error) {
	if g.err == nil {
		g.err = err
	}
}

// Err returns the recorded compilation error, nil if none.
func (g *Generator) Err() *Error {
	return g.err
}

// Finalize assembles the Program artifact from the generator state. The main
// entry point is the code index of the function named main, zero if there is
// none.
func (g *Generator) Finalize() *bytecode.Program {
	main := 0
	for _, fn := range g.funcs {
		if fn.Name == "main" {
			main = fn.CodeIndex
			break
		}
	}
	return &bytecode.Program{
		Operations:        g.ops,
		Functions:         g.funcs,
		ExternalFunctions: g.externals,
		MainCodeIndex:     main,
	}
}
