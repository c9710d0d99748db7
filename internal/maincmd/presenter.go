package maincmd

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/machine"
)

// statePresenter renders a VM state snapshot: the program listing with the
// current operation highlighted, the program counter, the call stack, the
// value stack and the variables in name order.
type statePresenter struct {
	out       io.Writer
	noProgram bool
}

var _ machine.Presenter = (*statePresenter)(nil)

func (p statePresenter) Show(vm *machine.VM) {
	state := vm.State()

	if !p.noProgram {
		fmt.Fprintln(p.out, "program:")
		_ = bytecode.Disassemble(p.out, vm.Program(), state.ProgramCounter)
		fmt.Fprintln(p.out)
	}

	fmt.Fprintf(p.out, "program counter: %d\n", state.ProgramCounter)

	fmt.Fprintln(p.out, "call stack:")
	for i, ret := range state.CallStack {
		fmt.Fprintf(p.out, "  [%d] -> %d\n", i, ret)
	}

	fmt.Fprintln(p.out, "stack:")
	if str := state.Stack.String(); str != "" {
		for _, line := range strings.Split(strings.TrimSuffix(str, "\n"), "\n") {
			fmt.Fprintf(p.out, "  %s\n", line)
		}
	}

	fmt.Fprintln(p.out, "variables:")
	names := maps.Keys(state.Variables)
	slices.Sort(names)
	for _, name := range names {
		v := state.Variables[name]
		fmt.Fprintf(p.out, "  %s : %s %s\n", name, v.Tag, v)
	}
}
