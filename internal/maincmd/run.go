package maincmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mna/mainer"
	"github.com/tern-lang/tern/lang/machine"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, file := range args {
		start := time.Now()
		prog, err := loadProgram(stdio, file)
		if err != nil {
			return err
		}
		if c.Time {
			fmt.Fprintf(stdio.Stdout, "compilation took %s\n", time.Since(start))
		}

		vm := machine.New(prog)
		start = time.Now()
		vm.Execute()
		if c.Time {
			fmt.Fprintf(stdio.Stdout, "execution took %s\n", time.Since(start))
		}

		if c.State {
			p := statePresenter{out: stdio.Stdout, noProgram: true}
			p.Show(vm)
		}
	}
	return nil
}
