package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"
	"github.com/tern-lang/tern/lang/scanner"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFiles(ctx, stdio, args...)
}

// TokenizeFiles tokenizes the source files and prints one token per line
// with its resolved position.
func TokenizeFiles(ctx context.Context, stdio mainer.Stdio, files ...string) error {
	fhs, toksByFile, err := scanner.ScanFiles(files...)
	for i, toks := range toksByFile {
		for _, tok := range toks {
			pos := fhs[i].Position(tok.Value.Pos)
			fmt.Fprintf(stdio.Stdout, "%s: %s", pos, tok.Token)
			if lit := tok.Token.Literal(tok.Value); lit != "" {
				fmt.Fprintf(stdio.Stdout, " %s", lit)
			}
			fmt.Fprintln(stdio.Stdout)
		}
	}
	if err != nil {
		scanner.PrintError(stdio.Stderr, err)
	}
	return err
}
