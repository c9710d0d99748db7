package compiler

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/types"
)

func compileString(t *testing.T, src string, externals ...*bytecode.ExternalFunction) (*bytecode.Program, *Error) {
	t.Helper()

	prog, err := Compile("test.tn", []byte(src), externals)
	if err == nil {
		require.NoError(t, prog.Verify())
		return prog, nil
	}
	cerr, ok := err.(*Error)
	require.True(t, ok, "error is %T, not *Error", err)
	return prog, cerr
}

func TestCompileReturnLiteral(t *testing.T) {
	prog, cerr := compileString(t, "int main() { return 1; }")
	require.Nil(t, cerr)

	want := []bytecode.Instruction{
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(1)}},
		bytecode.Op(bytecode.RETURN),
	}
	assert.Equal(t, want, prog.Operations)
	assert.Equal(t, 0, prog.MainCodeIndex)
}

func TestCompileEmptyVoidBody(t *testing.T) {
	prog, cerr := compileString(t, "void f() {}")
	require.Nil(t, cerr)
	assert.Equal(t, []bytecode.Instruction{bytecode.Op(bytecode.RETURN)}, prog.Operations)
}

func TestCompileIfAssign(t *testing.T) {
	prog, cerr := compileString(t, "void main() { int x = 0; if (x == 0) { x = 1; } }")
	require.Nil(t, cerr)

	want := []bytecode.Instruction{
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(0)}},
		{Op: bytecode.STORE_VARIABLE, Arg: bytecode.StoreVariable{Type: types.INT, Name: "x"}},
		{Op: bytecode.PUSH_VARIABLE, Arg: bytecode.PushVariable{Type: types.INT, Name: "x"}},
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(0)}},
		bytecode.Op(bytecode.EQUALS_INT),
		{Op: bytecode.JUMP_IF_FALSE, Arg: bytecode.Jump{Index: 8}},
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(1)}},
		{Op: bytecode.STORE_VARIABLE, Arg: bytecode.StoreVariable{Type: types.INT, Name: "x"}},
		bytecode.Op(bytecode.RETURN),
	}
	assert.Equal(t, want, prog.Operations)
}

func TestCompileWhile(t *testing.T) {
	prog, cerr := compileString(t, "void main() { int x = 0; while (x < 10) { x = x + 1; } }")
	require.Nil(t, cerr)

	want := []bytecode.Instruction{
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(0)}},
		{Op: bytecode.STORE_VARIABLE, Arg: bytecode.StoreVariable{Type: types.INT, Name: "x"}},
		{Op: bytecode.PUSH_VARIABLE, Arg: bytecode.PushVariable{Type: types.INT, Name: "x"}},
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(10)}},
		bytecode.Op(bytecode.LESS_THAN_INT),
		{Op: bytecode.JUMP_IF_FALSE, Arg: bytecode.Jump{Index: 11}},
		{Op: bytecode.PUSH_VARIABLE, Arg: bytecode.PushVariable{Type: types.INT, Name: "x"}},
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(1)}},
		bytecode.Op(bytecode.ADD_INT),
		{Op: bytecode.STORE_VARIABLE, Arg: bytecode.StoreVariable{Type: types.INT, Name: "x"}},
		{Op: bytecode.JUMP, Arg: bytecode.Jump{Index: 2}},
		bytecode.Op(bytecode.RETURN),
	}
	assert.Equal(t, want, prog.Operations)
}

func TestCompileFunctionWithArgs(t *testing.T) {
	prog, cerr := compileString(t, "int test(int x, int y) { return x + y; } void main() { int x = test(1, 2); }")
	require.Nil(t, cerr)

	// the prologue stores parameters in reverse declaration order
	want := []bytecode.Instruction{
		{Op: bytecode.STORE_VARIABLE, Arg: bytecode.StoreVariable{Type: types.INT, Name: "y"}},
		{Op: bytecode.STORE_VARIABLE, Arg: bytecode.StoreVariable{Type: types.INT, Name: "x"}},
		{Op: bytecode.PUSH_VARIABLE, Arg: bytecode.PushVariable{Type: types.INT, Name: "x"}},
		{Op: bytecode.PUSH_VARIABLE, Arg: bytecode.PushVariable{Type: types.INT, Name: "y"}},
		bytecode.Op(bytecode.ADD_INT),
		bytecode.Op(bytecode.RETURN),
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(1)}},
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(2)}},
		{Op: bytecode.CALL_FUNCTION, Arg: bytecode.Call{Index: 0}},
		{Op: bytecode.STORE_VARIABLE, Arg: bytecode.StoreVariable{Type: types.INT, Name: "x"}},
		bytecode.Op(bytecode.RETURN),
	}
	assert.Equal(t, want, prog.Operations)
	assert.Equal(t, 6, prog.MainCodeIndex)

	require.Len(t, prog.Functions, 2)
	test := prog.Functions[0]
	assert.Equal(t, "test", test.Name)
	assert.Equal(t, 2, test.ArgCount)
	// parameters are recorded in declaration order
	assert.Equal(t, []bytecode.Variable{
		{Type: types.INT, Name: "x"},
		{Type: types.INT, Name: "y"},
	}, test.LocalVariables[:2])
}

func TestCompileExternalCall(t *testing.T) {
	ext := &bytecode.ExternalFunction{
		ReturnType: types.INT,
		Name:       "host_add",
		Args: []bytecode.Variable{
			{Type: types.INT, Name: "a"},
			{Type: types.INT, Name: "b"},
		},
		Proc: func(args []types.Value) types.Value { return types.Int(args[0].Int + args[1].Int) },
	}

	prog, cerr := compileString(t, "void main() { int x = host_add(1, 2); }", ext)
	require.Nil(t, cerr)

	want := []bytecode.Instruction{
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(1)}},
		{Op: bytecode.PUSH_LITERAL, Arg: bytecode.PushLiteral{Value: types.Int(2)}},
		{Op: bytecode.CALL_FUNCTION_EXTERNAL, Arg: bytecode.Call{Index: 0}},
		{Op: bytecode.STORE_VARIABLE, Arg: bytecode.StoreVariable{Type: types.INT, Name: "x"}},
		bytecode.Op(bytecode.RETURN),
	}
	assert.Equal(t, want, prog.Operations)
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		src  string
		kind ErrKind
	}{
		{"void main() { int x = x; }", IdentifierNotDeclared},
		{"void main() { int x = 0; int x = 0; }", IdentifierAlreadyDeclared},
		{"void main() { x = 1; }", IdentifierNotDeclared},
		{"void main() { string x = \"\"; string z = x + \"\"; }", MathOperationOnString},
		{"void main() { string x = \"\"; bool z = x > \"\"; }", MathOperationOnString},
		{"void main() { string x = \"\"; string z = x + 1; }", TypeMismatch},
		{"void main() { int x = 1.5; }", TypeMismatch},
		{"void main() { int x = 1 + 1.5; }", TypeMismatch},
		{"void main() { bool b = !1; }", TypeMismatch},
		{"void main() { string s = -\"x\"; }", MathOperationOnString},
		{"int main() { return \"\"; }", TypeMismatch},
		{"int main() { }", NonVoidFunctionMissingReturn},
		{"int main() { int x = 0; }", NonVoidFunctionMissingReturn},
		{"void main() { return 1; }", TypeMismatch},
		{"void main() { if (1) { } }", TypeMismatch},
		{"void main() { while (1) { } }", TypeMismatch},
		{"int f(int x) { return x; } void main() { int y = f(); }", WrongNumberOfArgs},
		{"int f(int x) { return x; } void main() { int y = f(1, 2); }", WrongNumberOfArgs},
		{"int f(int x) { return x; } void main() { int y = f(true); }", TypeMismatch},
		{"void main() { int y = g(); }", IdentifierNotDeclared},
		{"void main() { int x = 4; { int y = 3; } int z = x + y; }", IdentifierNotDeclared},
		{"void f() {} void f() {}", IdentifierAlreadyDeclared},
		{"void main() { int = 3; }", ParseError},
		{"void main() { int x = 3 }", ParseError},
		{"void main(", ParseError},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, cerr := compileString(t, c.src)
			require.NotNil(t, cerr, "expected compilation error")
			assert.Equal(t, c.kind, cerr.Kind)
		})
	}
}

func TestCompileErrorSpan(t *testing.T) {
	src := "void main() { int x = y; }"
	_, cerr := compileString(t, src)
	require.NotNil(t, cerr)
	assert.Equal(t, IdentifierNotDeclared, cerr.Kind)
	assert.Equal(t, "y", src[cerr.Start.Offset:cerr.Stop.Offset])
	assert.Equal(t, 1, cerr.Start.Line)
	assert.Equal(t, 23, cerr.Start.Col)
}

func TestCompileScopedBlocks(t *testing.T) {
	_, cerr := compileString(t, "void main() { int x = 4; { int y = 3; int z = x + y; } }")
	require.Nil(t, cerr)
}

func TestCompileStringEquality(t *testing.T) {
	_, cerr := compileString(t, "void main() { string x = \"\"; bool z = x == \"\"; bool w = x != \"\"; }")
	require.Nil(t, cerr)
}

func TestCompileDeterministic(t *testing.T) {
	src := "int square(int n) { return n * n; } void main() { int sum = 0; int i = 1; while (i < 5) { sum = sum + square(i); i = i + 1; } }"
	p1, cerr := compileString(t, src)
	require.Nil(t, cerr)
	p2, cerr := compileString(t, src)
	require.Nil(t, cerr)
	assert.True(t, bytes.Equal(bytecode.Encode(p1), bytecode.Encode(p2)))
}

func TestCompileExternalNameCollision(t *testing.T) {
	ext := &bytecode.ExternalFunction{
		ReturnType: types.VOID,
		Name:       "f",
		Proc:       func(args []types.Value) types.Value { return types.Void },
	}
	_, cerr := compileString(t, "void f() {}", ext)
	require.NotNil(t, cerr)
	assert.Equal(t, IdentifierAlreadyDeclared, cerr.Kind)
}

func TestCompilePartialProgramOnError(t *testing.T) {
	prog, cerr := compileString(t, "void main() { int x = 1; int y = z; }")
	require.NotNil(t, cerr)
	require.NotNil(t, prog)
	// the instructions emitted before the error are available for inspection
	assert.NotEmpty(t, prog.Operations)
}

func TestCompileAssignmentRetypesSlot(t *testing.T) {
	// the store is typed by the right-hand side expression, not by the
	// declaration, so a variable's runtime slot can be retyped
	prog, cerr := compileString(t, "int f(int x) { x = x == 0; return 1; } void main() { int y = f(0); }")
	require.Nil(t, cerr)

	var stores []bytecode.StoreVariable
	for _, ins := range prog.Operations {
		if ins.Op == bytecode.STORE_VARIABLE {
			stores = append(stores, ins.Arg.(bytecode.StoreVariable))
		}
	}
	require.NotEmpty(t, stores)
	assert.Contains(t, stores, bytecode.StoreVariable{Type: types.BOOL, Name: "x"})
}
