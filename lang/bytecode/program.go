package bytecode

import (
	"fmt"

	"github.com/tern-lang/tern/lang/types"
)

// Operand is the operand of an instruction. The set of implementations is
// closed: None, PushLiteral, PushVariable, StoreVariable, Call and Jump.
type Operand interface {
	operand()
}

type (
	// None is the operand of instructions that take none.
	None struct{}

	// PushLiteral carries the tagged value pushed by PUSH_LITERAL.
	PushLiteral struct {
		Value types.Value
	}

	// PushVariable carries the static type and name of the variable read by
	// PUSH_VARIABLE.
	PushVariable struct {
		Type types.Tag
		Name string
	}

	// StoreVariable carries the static type and name of the variable written
	// by STORE_VARIABLE.
	StoreVariable struct {
		Type types.Tag
		Name string
	}

	// Call carries the target of CALL_FUNCTION and CALL_FUNCTION_EXTERNAL.
	// The index is a code offset for the former and an index into the
	// external-function table for the latter; the two are distinguished by
	// opcode, not by operand shape.
	Call struct {
		Index int
	}

	// Jump carries the target code offset of JUMP and JUMP_IF_FALSE.
	Jump struct {
		Index int
	}
)

func (None) operand()          {}
func (PushLiteral) operand()   {}
func (PushVariable) operand()  {}
func (StoreVariable) operand() {}
func (Call) operand()          {}
func (Jump) operand()          {}

// Instruction is a single element of Program.Operations.
type Instruction struct {
	Op  Opcode
	Arg Operand
}

// Op returns an instruction with no operand.
func Op(op Opcode) Instruction { return Instruction{Op: op, Arg: None{}} }

func (ins Instruction) String() string {
	switch arg := ins.Arg.(type) {
	case PushLiteral:
		return fmt.Sprintf("%s %s %s", ins.Op, arg.Value.Tag, arg.Value)
	case PushVariable:
		return fmt.Sprintf("%s %s %s", ins.Op, arg.Type, arg.Name)
	case StoreVariable:
		return fmt.Sprintf("%s %s %s", ins.Op, arg.Type, arg.Name)
	case Call:
		return fmt.Sprintf("%s %d", ins.Op, arg.Index)
	case Jump:
		return fmt.Sprintf("%s %d", ins.Op, arg.Index)
	}
	return ins.Op.String()
}

// Variable is a named, typed slot addressed by name at runtime.
type Variable struct {
	Type types.Tag
	Name string
}

// Function is a script function compiled into the program. The first
// ArgCount entries of LocalVariables are the parameters, in declaration
// order. CodeIndex points to the first instruction of the function's
// prologue.
type Function struct {
	CodeIndex      int
	ReturnType     types.Tag
	Name           string
	ArgCount       int
	LocalVariables []Variable
}

// Proc is a host-provided callable bound to an external function. It
// receives the call arguments in declaration order and returns the result
// value; a function with a void return type may return the zero Value. It is
// trusted to match the declared signature.
type Proc func(args []types.Value) types.Value

// ExternalFunction is a host-provided procedure exposed to scripts under a
// name and invoked via CALL_FUNCTION_EXTERNAL. The declared arity and
// argument types are authoritative for compile-time checks.
type ExternalFunction struct {
	ReturnType types.Tag
	Name       string
	Args       []Variable
	Proc       Proc
}

// FuncKind discriminates script functions from external functions in
// FindFunction results.
type FuncKind int

//nolint:revive
const (
	KindScript FuncKind = iota
	KindExternal
)

// FuncInfo identifies a callable function: an index into Functions for
// script functions, into ExternalFunctions for external ones.
type FuncInfo struct {
	Kind  FuncKind
	Index int
}

// Program is the artifact produced by the compiler and consumed by the
// virtual machine. It is read-only during execution.
type Program struct {
	Operations        []Instruction
	Functions         []Function
	ExternalFunctions []*ExternalFunction
	MainCodeIndex     int
}

// FindFunction looks up a callable function by name, script functions first.
func (p *Program) FindFunction(name string) (FuncInfo, bool) {
	for i, fn := range p.Functions {
		if fn.Name == name {
			return FuncInfo{Kind: KindScript, Index: i}, true
		}
	}
	for i, ext := range p.ExternalFunctions {
		if ext.Name == name {
			return FuncInfo{Kind: KindExternal, Index: i}, true
		}
	}
	return FuncInfo{}, false
}

// Verify checks the structural invariants of a finalized program: no
// placeholder instruction remains, every jump targets an offset within
// [0, len(operations)] (the end-of-program sentinel halts), every script
// call targets the code index of a function and every external call targets
// an entry of the external-function table.
func (p *Program) Verify() error {
	starts := make(map[int]bool, len(p.Functions))
	for _, fn := range p.Functions {
		starts[fn.CodeIndex] = true
	}

	for i, ins := range p.Operations {
		switch ins.Op {
		case PLACEHOLDER:
			return fmt.Errorf("operation %d: placeholder not patched", i)

		case JUMP, JUMP_IF_FALSE:
			arg, ok := ins.Arg.(Jump)
			if !ok {
				return fmt.Errorf("operation %d: %s: operand is %T, not a jump target", i, ins.Op, ins.Arg)
			}
			if arg.Index < 0 || arg.Index > len(p.Operations) {
				return fmt.Errorf("operation %d: %s: target %d out of range", i, ins.Op, arg.Index)
			}

		case CALL_FUNCTION:
			arg, ok := ins.Arg.(Call)
			if !ok {
				return fmt.Errorf("operation %d: %s: operand is %T, not a call target", i, ins.Op, ins.Arg)
			}
			if !starts[arg.Index] {
				return fmt.Errorf("operation %d: call targets %d, not the code index of any function", i, arg.Index)
			}

		case CALL_FUNCTION_EXTERNAL:
			arg, ok := ins.Arg.(Call)
			if !ok {
				return fmt.Errorf("operation %d: %s: operand is %T, not a call target", i, ins.Op, ins.Arg)
			}
			if arg.Index < 0 || arg.Index >= len(p.ExternalFunctions) {
				return fmt.Errorf("operation %d: external call targets %d, table has %d entries", i, arg.Index, len(p.ExternalFunctions))
			}
		}
	}

	if p.MainCodeIndex < 0 || p.MainCodeIndex > len(p.Operations) {
		return fmt.Errorf("main code index %d out of range", p.MainCodeIndex)
	}
	return nil
}
