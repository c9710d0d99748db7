package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/tern-lang/tern/lang/ast"
	"github.com/tern-lang/tern/lang/parser"
	"github.com/tern-lang/tern/lang/scanner"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFiles(ctx, stdio, args...)
}

// ParseFiles parses the source files and prints the resulting parse trees.
func ParseFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	fhs, trees, err := parser.ParseFiles(files...)
	for i, tree := range trees {
		if tree == nil {
			continue
		}
		printer := ast.Printer{Output: stdio.Stdout, File: fhs[i]}
		if perr := printer.Print(tree); perr != nil {
			fmt.Fprintln(stdio.Stderr, perr)
			return perr
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
