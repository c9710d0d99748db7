package machine

import "golang.org/x/exp/slices"

// Presenter is notified with the VM after each debugger step or continue, so
// an interactive front-end can render the paused state. The debugger core
// does not render anything itself.
type Presenter interface {
	Show(vm *VM)
}

// Debugger is a thin controller over a VM providing step, continue and
// breakpoint primitives. It is strictly single-threaded with respect to its
// VM: breakpoints are cooperative pauses between instructions, there is no
// concurrent mutation.
type Debugger struct {
	vm          *VM
	breakpoints []int // sorted code offsets
	hit         bool
	presenter   Presenter
}

// NewDebugger returns a debugger controlling vm. The presenter may be nil,
// in which case pauses are silent.
func NewDebugger(vm *VM, presenter Presenter) *Debugger {
	return &Debugger{vm: vm, presenter: presenter}
}

// VM returns the controlled virtual machine.
func (d *Debugger) VM() *VM { return d.vm }

// Breakpoints returns the ordered set of breakpoint code offsets.
func (d *Debugger) Breakpoints() []int {
	return append([]int(nil), d.breakpoints...)
}

// Add inserts a breakpoint at the given code offset.
func (d *Debugger) Add(idx int) {
	if pos, ok := slices.BinarySearch(d.breakpoints, idx); !ok {
		d.breakpoints = slices.Insert(d.breakpoints, pos, idx)
	}
}

// Remove deletes the breakpoint at the given code offset, if set.
func (d *Debugger) Remove(idx int) {
	if pos, ok := slices.BinarySearch(d.breakpoints, idx); ok {
		d.breakpoints = slices.Delete(d.breakpoints, pos, pos+1)
	}
}

// Execute runs the program to completion or to the first breakpoint.
func (d *Debugger) Execute() {
	d.Continue()
}

// Step executes one instruction if the VM has not halted, then notifies the
// presenter.
func (d *Debugger) Step() {
	if d.vm.Running() {
		d.vm.ExecuteOp()
	}
	d.show()
}

// Continue resumes execution until the VM halts or the program counter
// lands on a breakpoint, then notifies the presenter.
func (d *Debugger) Continue() {
	d.hit = false
	for d.vm.Running() && !d.hit {
		d.vm.ExecuteOp()
		if _, ok := slices.BinarySearch(d.breakpoints, d.vm.PC()); ok {
			d.hit = true
		}
	}
	d.show()
}

func (d *Debugger) show() {
	if d.presenter != nil {
		d.presenter.Show(d.vm)
	}
}
