package scanner

import (
	"fmt"
	"io"
	"sort"

	"github.com/tern-lang/tern/lang/token"
)

// Error represents a single error encountered while scanning or parsing,
// with the position where it was detected.
type Error struct {
	Pos token.Position
	Msg string
}

func (e Error) Error() string {
	if e.Pos.Filename != "" || e.Pos.Line > 0 {
		return e.Pos.String() + ": " + e.Msg
	}
	return e.Msg
}

// ErrorList is a list of Errors, collected as the scanner and parser advance
// through a file.
type ErrorList []*Error

// Add appends an Error with the given position and message.
func (l *ErrorList) Add(pos token.Position, msg string) {
	*l = append(*l, &Error{Pos: pos, Msg: msg})
}

// Sort sorts the list by position.
func (l ErrorList) Sort() {
	sort.Slice(l, func(i, j int) bool {
		pi, pj := l[i].Pos, l[j].Pos
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		return pi.Offset < pj.Offset
	})
}

func (l ErrorList) Len() int { return len(l) }

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns an error equivalent to the list: nil if the list is empty, the
// list itself otherwise.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// Unwrap returns the errors in the list so that errors.Is and errors.As can
// inspect each of them.
func (l ErrorList) Unwrap() []error {
	errs := make([]error, len(l))
	for i, e := range l {
		errs[i] = e
	}
	return errs
}

// PrintError prints err to w; if err is an ErrorList, each error is printed
// on its own line.
func PrintError(w io.Writer, err error) {
	if list, ok := err.(ErrorList); ok {
		for _, e := range list {
			fmt.Fprintf(w, "%s\n", e)
		}
	} else if err != nil {
		fmt.Fprintf(w, "%s\n", err)
	}
}
