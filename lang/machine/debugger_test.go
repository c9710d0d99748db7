package machine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tern-lang/tern/lang/machine"
	"github.com/tern-lang/tern/lang/types"
)

type countingPresenter struct {
	shows int
}

func (p *countingPresenter) Show(vm *machine.VM) { p.shows++ }

func TestDebuggerStep(t *testing.T) {
	var p countingPresenter
	vm := compileVM(t, "void main() { int x = 0; x = x + 1; }")
	dbg := machine.NewDebugger(vm, &p)

	// PUSH_LITERAL 0, then STORE_VARIABLE x
	dbg.Step()
	assert.Equal(t, 1, vm.PC())
	dbg.Step()
	assert.Equal(t, 2, vm.PC())
	assert.Equal(t, types.Int(0), vm.State().Variables["x"])
	assert.Equal(t, 2, p.shows)

	// stepping a halted machine is a no-op, but still notifies
	vm.Halt()
	dbg.Step()
	assert.False(t, vm.Running())
	assert.Equal(t, 3, p.shows)
}

func TestDebuggerContinueToBreakpoint(t *testing.T) {
	vm := compileVM(t, "void main() { int x = 0; while (x < 10) { x = x + 1; } }")
	dbg := machine.NewDebugger(vm, nil)

	// break at the loop condition head
	dbg.Add(2)
	dbg.Continue()
	require.True(t, vm.Running())
	assert.Equal(t, 2, vm.PC())
	assert.Equal(t, types.Int(0), vm.State().Variables["x"])

	// resuming from the breakpoint runs a full loop iteration
	dbg.Continue()
	assert.Equal(t, 2, vm.PC())
	assert.Equal(t, types.Int(1), vm.State().Variables["x"])

	dbg.Remove(2)
	dbg.Continue()
	assert.False(t, vm.Running())
	assert.Equal(t, types.Int(10), vm.State().Variables["x"])
}

func TestDebuggerBreakpointSet(t *testing.T) {
	vm := compileVM(t, "void main() { }")
	dbg := machine.NewDebugger(vm, nil)

	dbg.Add(5)
	dbg.Add(1)
	dbg.Add(5) // duplicates are ignored
	assert.Equal(t, []int{1, 5}, dbg.Breakpoints())

	dbg.Remove(3) // removing an unset breakpoint is a no-op
	dbg.Remove(5)
	assert.Equal(t, []int{1}, dbg.Breakpoints())
}

func TestDebuggerExecuteRunsToCompletion(t *testing.T) {
	var p countingPresenter
	vm := compileVM(t, "void main() { int x = 0; while (x < 3) { x = x + 1; } }")
	dbg := machine.NewDebugger(vm, &p)

	dbg.Execute()
	assert.False(t, vm.Running())
	assert.Equal(t, types.Int(3), vm.State().Variables["x"])
	assert.Equal(t, 1, p.shows)
}
