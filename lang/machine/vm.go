// Package machine implements the virtual machine that executes the bytecode
// compiled form of the source code: the typed value stack, the fetch loop,
// the call/return protocol and the external-call shim, plus the cooperative
// debugger layered on top.
package machine

import (
	"fmt"

	"github.com/dolthub/swiss"
	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/types"
)

// VM executes a finalized Program. It owns all mutable execution state; the
// program is read-only during execution. The VM is single-threaded, there
// are no suspension points within an instruction.
type VM struct {
	stack     ByteStack
	vars      *swiss.Map[string, types.Value]
	callStack []int
	pc        int
	nextPC    int
	prog      *bytecode.Program
}

// New returns a VM ready to execute prog, with the program counter at the
// main entry point.
func New(prog *bytecode.Program) *VM {
	return &VM{
		vars:   swiss.NewMap[string, types.Value](16),
		pc:     prog.MainCodeIndex,
		nextPC: prog.MainCodeIndex,
		prog:   prog,
	}
}

// SetMainArgs pushes the values that main's prologue pops into its
// parameters. Arguments are pushed in source order, first parameter first.
func (vm *VM) SetMainArgs(args []types.Value) {
	for _, arg := range args {
		vm.pushValue(arg)
	}
}

// Running reports whether the program counter still addresses an operation.
func (vm *VM) Running() bool {
	return vm.pc < len(vm.prog.Operations)
}

// PC returns the current program counter.
func (vm *VM) PC() int {
	return vm.pc
}

// Execute runs the fetch loop until the program halts.
func (vm *VM) Execute() {
	for vm.Running() {
		vm.ExecuteOp()
	}
}

// ExecuteOp executes the single operation at the current program counter.
func (vm *VM) ExecuteOp() {
	vm.nextPC = vm.pc + 1
	vm.executeOpSwitch()
	vm.pc = vm.nextPC
}

// Halt forces the program counter past the end of operations, terminating
// the fetch loop. The stack is not drained; callers inspecting the state
// after a halt observe whatever was pushed.
func (vm *VM) Halt() {
	vm.pc = len(vm.prog.Operations)
	vm.nextPC = vm.pc
}

// CallFunction initiates a call from the host: it pushes the arguments,
// resolves the named function and transfers control as if the current
// instruction were a call. For script functions the current program counter
// is saved so that the function's return re-enters the interrupted context;
// the caller resumes the fetch loop to run the body. External functions run
// synchronously before CallFunction returns.
func (vm *VM) CallFunction(name string, args []types.Value) error {
	info, ok := vm.prog.FindFunction(name)
	if !ok {
		return fmt.Errorf("machine: no function %s in program", name)
	}

	for _, arg := range args {
		vm.pushValue(arg)
	}

	if info.Kind == bytecode.KindExternal {
		vm.callExternal(info.Index)
		return nil
	}

	vm.callStack = append(vm.callStack, vm.pc)
	vm.pc = vm.prog.Functions[info.Index].CodeIndex
	vm.nextPC = vm.pc
	return nil
}

func (vm *VM) executeOpSwitch() {
	ins := vm.prog.Operations[vm.pc]

	switch ins.Op {
	case bytecode.HALT:
		vm.nextPC = len(vm.prog.Operations)

	case bytecode.PUSH_LITERAL:
		vm.pushValue(ins.Arg.(bytecode.PushLiteral).Value)

	case bytecode.PUSH_VARIABLE:
		arg := ins.Arg.(bytecode.PushVariable)
		v, ok := vm.vars.Get(arg.Name)
		if !ok {
			panic(fmt.Sprintf("machine: variable %s not bound at operation %d", arg.Name, vm.pc))
		}
		vm.pushValue(v)

	case bytecode.STORE_VARIABLE:
		arg := ins.Arg.(bytecode.StoreVariable)
		vm.vars.Put(arg.Name, vm.popValue())

	case bytecode.POP:
		vm.stack.Pop(1)

	case bytecode.CALL_FUNCTION:
		vm.callStack = append(vm.callStack, vm.pc)
		vm.nextPC = ins.Arg.(bytecode.Call).Index

	case bytecode.CALL_FUNCTION_EXTERNAL:
		vm.callExternal(ins.Arg.(bytecode.Call).Index)

	case bytecode.RETURN:
		if len(vm.callStack) == 0 {
			vm.nextPC = len(vm.prog.Operations)
			break
		}
		ret := vm.callStack[len(vm.callStack)-1]
		vm.callStack = vm.callStack[:len(vm.callStack)-1]
		vm.nextPC = ret + 1

	case bytecode.JUMP:
		vm.nextPC = ins.Arg.(bytecode.Jump).Index

	case bytecode.JUMP_IF_FALSE:
		cond := vm.stack.TopAsBool(0)
		vm.stack.Pop(1)
		if !cond {
			vm.nextPC = ins.Arg.(bytecode.Jump).Index
		}

	// unary operators

	case bytecode.NOT_BOOL:
		v := vm.stack.TopAsBool(0)
		vm.stack.Pop(1)
		vm.stack.PushBool(!v)

	case bytecode.NEGATE_INT:
		v := vm.stack.TopAsInt(0)
		vm.stack.Pop(1)
		vm.stack.PushInt(-v)

	case bytecode.NEGATE_FLOAT:
		v := vm.stack.TopAsFloat(0)
		vm.stack.Pop(1)
		vm.stack.PushFloat(-v)

	// arithmetic; operand 1 is the deeper value, the result is op1 ⊕ op0

	case bytecode.ADD_INT:
		r := vm.stack.TopAsInt(1) + vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushInt(r)
	case bytecode.ADD_FLOAT:
		r := vm.stack.TopAsFloat(1) + vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat(r)
	case bytecode.ADD_INT2:
		a, b := vm.stack.TopAsInt2(1), vm.stack.TopAsInt2(0)
		vm.stack.Pop(2)
		vm.stack.PushInt2(types.Int2{a[0] + b[0], a[1] + b[1]})
	case bytecode.ADD_FLOAT2:
		a, b := vm.stack.TopAsFloat2(1), vm.stack.TopAsFloat2(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat2(types.Float2{a[0] + b[0], a[1] + b[1]})

	case bytecode.SUBTRACT_INT:
		r := vm.stack.TopAsInt(1) - vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushInt(r)
	case bytecode.SUBTRACT_FLOAT:
		r := vm.stack.TopAsFloat(1) - vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat(r)
	case bytecode.SUBTRACT_INT2:
		a, b := vm.stack.TopAsInt2(1), vm.stack.TopAsInt2(0)
		vm.stack.Pop(2)
		vm.stack.PushInt2(types.Int2{a[0] - b[0], a[1] - b[1]})
	case bytecode.SUBTRACT_FLOAT2:
		a, b := vm.stack.TopAsFloat2(1), vm.stack.TopAsFloat2(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat2(types.Float2{a[0] - b[0], a[1] - b[1]})

	case bytecode.MULTIPLY_INT:
		r := vm.stack.TopAsInt(1) * vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushInt(r)
	case bytecode.MULTIPLY_FLOAT:
		r := vm.stack.TopAsFloat(1) * vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat(r)
	case bytecode.MULTIPLY_INT2:
		a, b := vm.stack.TopAsInt2(1), vm.stack.TopAsInt2(0)
		vm.stack.Pop(2)
		vm.stack.PushInt2(types.Int2{a[0] * b[0], a[1] * b[1]})
	case bytecode.MULTIPLY_INT2_INT:
		a, b := vm.stack.TopAsInt2(1), vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushInt2(types.Int2{a[0] * b, a[1] * b})
	case bytecode.MULTIPLY_FLOAT2:
		a, b := vm.stack.TopAsFloat2(1), vm.stack.TopAsFloat2(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat2(types.Float2{a[0] * b[0], a[1] * b[1]})
	case bytecode.MULTIPLY_FLOAT2_FLOAT:
		a, b := vm.stack.TopAsFloat2(1), vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat2(types.Float2{a[0] * b, a[1] * b})

	case bytecode.DIVIDE_INT:
		r := vm.stack.TopAsInt(1) / vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushInt(r)
	case bytecode.DIVIDE_FLOAT:
		r := vm.stack.TopAsFloat(1) / vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat(r)
	case bytecode.DIVIDE_INT2:
		a, b := vm.stack.TopAsInt2(1), vm.stack.TopAsInt2(0)
		vm.stack.Pop(2)
		vm.stack.PushInt2(types.Int2{a[0] / b[0], a[1] / b[1]})
	case bytecode.DIVIDE_INT2_INT:
		a, b := vm.stack.TopAsInt2(1), vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushInt2(types.Int2{a[0] / b, a[1] / b})
	case bytecode.DIVIDE_FLOAT2:
		a, b := vm.stack.TopAsFloat2(1), vm.stack.TopAsFloat2(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat2(types.Float2{a[0] / b[0], a[1] / b[1]})
	case bytecode.DIVIDE_FLOAT2_FLOAT:
		a, b := vm.stack.TopAsFloat2(1), vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushFloat2(types.Float2{a[0] / b, a[1] / b})

	// equality

	case bytecode.EQUALS_STRING:
		r := vm.stack.TopAsString(1) == vm.stack.TopAsString(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.EQUALS_BOOL:
		r := vm.stack.TopAsBool(1) == vm.stack.TopAsBool(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.EQUALS_INT:
		r := vm.stack.TopAsInt(1) == vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.EQUALS_INT2:
		r := vm.stack.TopAsInt2(1) == vm.stack.TopAsInt2(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.EQUALS_FLOAT:
		r := vm.stack.TopAsFloat(1) == vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.EQUALS_FLOAT2:
		r := vm.stack.TopAsFloat2(1) == vm.stack.TopAsFloat2(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)

	case bytecode.NOT_EQUALS_STRING:
		r := vm.stack.TopAsString(1) != vm.stack.TopAsString(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.NOT_EQUALS_BOOL:
		r := vm.stack.TopAsBool(1) != vm.stack.TopAsBool(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.NOT_EQUALS_INT:
		r := vm.stack.TopAsInt(1) != vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.NOT_EQUALS_INT2:
		r := vm.stack.TopAsInt2(1) != vm.stack.TopAsInt2(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.NOT_EQUALS_FLOAT:
		r := vm.stack.TopAsFloat(1) != vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.NOT_EQUALS_FLOAT2:
		r := vm.stack.TopAsFloat2(1) != vm.stack.TopAsFloat2(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)

	// ordered comparisons

	case bytecode.LESS_THAN_INT:
		r := vm.stack.TopAsInt(1) < vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.LESS_THAN_FLOAT:
		r := vm.stack.TopAsFloat(1) < vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.GREATER_THAN_INT:
		r := vm.stack.TopAsInt(1) > vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.GREATER_THAN_FLOAT:
		r := vm.stack.TopAsFloat(1) > vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.LESS_THAN_EQUALS_INT:
		r := vm.stack.TopAsInt(1) <= vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.LESS_THAN_EQUALS_FLOAT:
		r := vm.stack.TopAsFloat(1) <= vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.GREATER_THAN_EQUALS_INT:
		r := vm.stack.TopAsInt(1) >= vm.stack.TopAsInt(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)
	case bytecode.GREATER_THAN_EQUALS_FLOAT:
		r := vm.stack.TopAsFloat(1) >= vm.stack.TopAsFloat(0)
		vm.stack.Pop(2)
		vm.stack.PushBool(r)

	default:
		panic(fmt.Sprintf("machine: opcode %s executed at operation %d", ins.Op, vm.pc))
	}
}

// callExternal pops the declared number of arguments off the stack, invokes
// the host proc synchronously with the arguments in declaration order, and
// pushes the result unless the function returns void.
func (vm *VM) callExternal(index int) {
	ext := vm.prog.ExternalFunctions[index]
	args := make([]types.Value, len(ext.Args))
	for i := len(args) - 1; i >= 0; i-- {
		args[i] = vm.popValue()
	}

	ret := ext.Proc(args)
	if ext.ReturnType == types.VOID {
		return
	}
	ret.Tag = ext.ReturnType
	vm.pushValue(ret)
}

// pushValue pushes a tagged value onto the stack.
func (vm *VM) pushValue(v types.Value) {
	switch v.Tag {
	case types.STRING:
		vm.stack.PushString(v.Str)
	case types.BOOL:
		vm.stack.PushBool(v.Bool)
	case types.INT:
		vm.stack.PushInt(v.Int)
	case types.FLOAT:
		vm.stack.PushFloat(v.Float)
	case types.INT2:
		vm.stack.PushInt2(v.Int2)
	case types.FLOAT2:
		vm.stack.PushFloat2(v.Float2)
	default:
		panic(fmt.Sprintf("machine: cannot push value of type %s", v.Tag))
	}
}

// popValue reads the tagged value at the top of the stack and pops it.
func (vm *VM) popValue() types.Value {
	var v types.Value
	switch tag := vm.stack.TopValueType(0); tag {
	case types.STRING:
		v = types.String(vm.stack.TopAsString(0))
	case types.BOOL:
		v = types.Bool(vm.stack.TopAsBool(0))
	case types.INT:
		v = types.Int(vm.stack.TopAsInt(0))
	case types.FLOAT:
		v = types.Float(vm.stack.TopAsFloat(0))
	case types.INT2:
		v = types.Value{Tag: types.INT2, Int2: vm.stack.TopAsInt2(0)}
	case types.FLOAT2:
		v = types.Value{Tag: types.FLOAT2, Float2: vm.stack.TopAsFloat2(0)}
	default:
		panic(fmt.Sprintf("machine: invalid type tag %d on stack", tag))
	}
	vm.stack.Pop(1)
	return v
}
