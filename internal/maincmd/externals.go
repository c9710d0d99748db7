package maincmd

import (
	"fmt"
	"io"

	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/types"
)

// Builtins returns the external functions the CLI registers with every
// program it compiles or loads: a small print family writing to w. Embedding
// hosts register their own set; these are only the ones of the standalone
// tool.
func Builtins(w io.Writer) []*bytecode.ExternalFunction {
	return []*bytecode.ExternalFunction{
		{
			ReturnType: types.VOID,
			Name:       "print",
			Args:       []bytecode.Variable{{Type: types.STRING, Name: "text"}},
			Proc: func(args []types.Value) types.Value {
				fmt.Fprintln(w, args[0].Str)
				return types.Void
			},
		},
		{
			ReturnType: types.VOID,
			Name:       "print_int",
			Args:       []bytecode.Variable{{Type: types.INT, Name: "value"}},
			Proc: func(args []types.Value) types.Value {
				fmt.Fprintln(w, args[0].Int)
				return types.Void
			},
		},
		{
			ReturnType: types.VOID,
			Name:       "print_float",
			Args:       []bytecode.Variable{{Type: types.FLOAT, Name: "value"}},
			Proc: func(args []types.Value) types.Value {
				fmt.Fprintln(w, args[0].Float)
				return types.Void
			},
		},
		{
			ReturnType: types.VOID,
			Name:       "print_bool",
			Args:       []bytecode.Variable{{Type: types.BOOL, Name: "value"}},
			Proc: func(args []types.Value) types.Value {
				fmt.Fprintln(w, args[0].Bool)
				return types.Void
			},
		},
	}
}
