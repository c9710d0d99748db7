package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mna/mainer"
	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/compiler"
)

// compiledExt is the extension of binary bytecode artifacts.
const compiledExt = ".tnc"

func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	for _, file := range args {
		prog, err := compileFile(stdio, file)
		if err != nil {
			return err
		}

		if c.Output != "" {
			out := c.Output
			if len(args) > 1 {
				// one artifact per input, the flag names the directory
				out = filepath.Join(c.Output, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))+compiledExt)
			}
			if err := os.WriteFile(out, bytecode.Encode(prog), 0600); err != nil {
				fmt.Fprintln(stdio.Stderr, err)
				return err
			}
			continue
		}

		if err := bytecode.Disassemble(stdio.Stdout, prog, -1); err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
	}
	return nil
}

// compileFile compiles a single source file with the CLI builtins
// registered, printing any compilation error with the offending source
// excerpt.
func compileFile(stdio mainer.Stdio, file string) (*bytecode.Program, error) {
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, err
	}

	prog, cerr := compiler.Compile(file, src, Builtins(stdio.Stdout))
	if cerr != nil {
		printCompileError(stdio, src, cerr)
		return nil, cerr
	}
	return prog, nil
}

func printCompileError(stdio mainer.Stdio, src []byte, err error) {
	var cerr *compiler.Error
	if !errors.As(err, &cerr) {
		fmt.Fprintln(stdio.Stderr, err)
		return
	}

	fmt.Fprintf(stdio.Stderr, "compile error: %s\n", cerr.Kind)
	fmt.Fprintf(stdio.Stderr, "from %d:%d\n", cerr.Start.Line, cerr.Start.Col)
	fmt.Fprintf(stdio.Stderr, "to %d:%d\n", cerr.Stop.Line, cerr.Stop.Col)

	start, stop := cerr.Start.Offset, cerr.Stop.Offset
	if start <= stop && stop <= len(src) {
		fmt.Fprintf(stdio.Stderr, "\n------------------------------------------------\n")
		fmt.Fprintf(stdio.Stderr, "%s", src[start:stop])
		fmt.Fprintf(stdio.Stderr, "\n------------------------------------------------\n")
	}
}

// loadProgram loads a program from a source file or, when the file has the
// compiled-artifact extension, from its binary encoding.
func loadProgram(stdio mainer.Stdio, file string) (*bytecode.Program, error) {
	if filepath.Ext(file) != compiledExt {
		return compileFile(stdio, file)
	}

	b, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, err
	}
	prog, err := bytecode.Decode(b, Builtins(stdio.Stdout))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return nil, err
	}
	return prog, nil
}
