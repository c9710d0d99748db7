package bytecode

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable listing of the program to w. If
// highlight is a valid code index, that operation is marked as the current
// one, the way the debugger presenter displays the paused program.
func Disassemble(w io.Writer, p *Program, highlight int) error {
	names := make(map[int]string, len(p.Functions))
	for _, fn := range p.Functions {
		names[fn.CodeIndex] = fn.Name
	}

	for i, ins := range p.Operations {
		marker := " "
		if i == highlight {
			marker = ">"
		}
		if name, ok := names[i]; ok {
			if _, err := fmt.Fprintf(w, "%s:\n", name); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "%s%4d  %s\n", marker, i, ins); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "main code index: %d\n", p.MainCodeIndex)
	return err
}
