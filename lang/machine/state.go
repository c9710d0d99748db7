package machine

import (
	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/types"
)

// State is a snapshot of the mutable execution state of a VM, taken for
// inspection by debugger presenters and tests. Mutating the snapshot does
// not affect the VM.
type State struct {
	Stack          ByteStack
	Variables      map[string]types.Value
	CallStack      []int
	ProgramCounter int
}

// State returns a snapshot of the current execution state.
func (vm *VM) State() State {
	vars := make(map[string]types.Value, vm.vars.Count())
	vm.vars.Iter(func(name string, v types.Value) bool {
		vars[name] = v
		return false
	})
	return State{
		Stack:          vm.stack.Clone(),
		Variables:      vars,
		CallStack:      append([]int(nil), vm.callStack...),
		ProgramCounter: vm.pc,
	}
}

// Program returns the program this VM executes.
func (vm *VM) Program() *bytecode.Program {
	return vm.prog
}
