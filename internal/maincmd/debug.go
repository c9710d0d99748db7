package maincmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mna/mainer"
	"github.com/tern-lang/tern/lang/machine"
)

const debugHelp = `debugger commands:
  s, step           execute one operation
  c, continue       run to the next breakpoint or to completion
  b, break <idx>    set a breakpoint at code index <idx>
  d, clear <idx>    remove the breakpoint at code index <idx>
  p, state          print the machine state
  h, help           show this help
  q, quit           halt the machine and leave the debugger
`

func (c *Cmd) Debug(ctx context.Context, stdio mainer.Stdio, args []string) error {
	prog, err := loadProgram(stdio, args[0])
	if err != nil {
		return err
	}

	vm := machine.New(prog)
	presenter := statePresenter{out: stdio.Stdout, noProgram: c.NoProgram}
	dbg := machine.NewDebugger(vm, presenter)

	rl, err := readline.NewEx(&readline.Config{
		Prompt: "(tdb) ",
		Stdin:  io.NopCloser(stdio.Stdin),
		Stdout: stdio.Stdout,
		Stderr: stdio.Stderr,
	})
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	defer rl.Close()

	fmt.Fprint(stdio.Stdout, debugHelp)
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				return nil
			}
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		switch cmd {
		case "":
			// repeat nothing, prompt again

		case "s", "step":
			dbg.Step()

		case "c", "continue":
			dbg.Continue()

		case "b", "break", "d", "clear":
			idx, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil {
				fmt.Fprintf(stdio.Stderr, "invalid code index: %s\n", arg)
				continue
			}
			if cmd == "b" || cmd == "break" {
				dbg.Add(idx)
			} else {
				dbg.Remove(idx)
			}

		case "p", "state":
			presenter.Show(vm)

		case "h", "help":
			fmt.Fprint(stdio.Stdout, debugHelp)

		case "q", "quit":
			vm.Halt()
			return nil

		default:
			fmt.Fprintf(stdio.Stderr, "unknown command: %s\n", cmd)
		}

		if !vm.Running() {
			fmt.Fprintln(stdio.Stdout, "machine halted")
			return nil
		}
	}
}
