// Package maincmd implements the command surface of the tern binary:
// tokenize, parse, compile, run and debug.
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/mna/mainer"
)

const binName = "tern"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> <path>...
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> <path>...
       %[1]s -h|--help
       %[1]s -v|--version

Compiler, virtual machine and debugger for the %[1]s scripting language.

The <command> can be one of:
       tokenize                  Execute the scanner phase of the
                                 compilation and print the resulting
                                 tokens.
       parse                     Execute the parser phase of the
                                 compilation and print the resulting
                                 parse tree.
       compile                   Compile source files and print the
                                 resulting bytecode listing, or write
                                 the binary artifact with --output.
       run                       Compile (or load a compiled artifact)
                                 and execute the program.
       debug                     Like run, but start the program under
                                 the interactive debugger.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -o --output FILE          compile: write the binary bytecode
                                 artifact to FILE instead of printing
                                 the listing.
       -s --state                run: print the final machine state
                                 after execution.

Environment variables:
       TERN_TIME                 Print compilation and execution wall
                                 times (run).
       TERN_NO_PROGRAM           Do not print the program listing when
                                 the debugger pauses (debug).

More information on the %[1]s repository:
       https://github.com/tern-lang/tern
`, binName)
)

// Cmd is the tern command, its flags parsed by mainer and its environment
// options parsed by env.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool   `flag:"h,help"`
	Version bool   `flag:"v,version"`
	Output  string `flag:"o,output"`
	State   bool   `flag:"s,state"`

	// environment options
	Time      bool `env:"TERN_TIME"`
	NoProgram bool `env:"TERN_NO_PROGRAM"`

	args  []string
	flags map[string]bool
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string) {
	c.args = args
}

func (c *Cmd) SetFlags(flags map[string]bool) {
	c.flags = flags
}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if err := env.Parse(c); err != nil {
		return err
	}

	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]

	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", c.args[0])
	}

	if len(c.args[1:]) == 0 {
		return fmt.Errorf("%s: at least one file must be provided", cmdName)
	}

	if (c.flags["o"] || c.flags["output"]) && cmdName != "compile" {
		return fmt.Errorf("%s: invalid flag 'output'", cmdName)
	}
	if (c.flags["s"] || c.flags["state"]) && cmdName != "run" {
		return fmt.Errorf("%s: invalid flag 'state'", cmdName)
	}

	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false, // environment options are parsed separately by env
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success

	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		// each command takes care of printing its errors, just return with an error code
		return mainer.Failure
	}
	return mainer.Success
}

// valid commands are those that take a context, a mainer.Stdio and a slice
// of strings as input, and return an error as output.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type

		// must take 4 parameters (including receiver) and return 1
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}

		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
