package bytecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tern-lang/tern/lang/types"
)

func sampleProgram() *Program {
	return &Program{
		Operations: []Instruction{
			{Op: STORE_VARIABLE, Arg: StoreVariable{Type: types.INT, Name: "n"}},
			{Op: PUSH_VARIABLE, Arg: PushVariable{Type: types.INT, Name: "n"}},
			Op(RETURN),
			{Op: PUSH_LITERAL, Arg: PushLiteral{Value: types.Int(7)}},
			{Op: CALL_FUNCTION, Arg: Call{Index: 0}},
			Op(POP),
			{Op: CALL_FUNCTION_EXTERNAL, Arg: Call{Index: 0}},
			Op(POP),
			Op(RETURN),
		},
		Functions: []Function{
			{
				CodeIndex:  0,
				ReturnType: types.INT,
				Name:       "echo",
				ArgCount:   1,
				LocalVariables: []Variable{
					{Type: types.INT, Name: "n"},
				},
			},
			{CodeIndex: 3, ReturnType: types.VOID, Name: "main"},
		},
		ExternalFunctions: []*ExternalFunction{
			{
				ReturnType: types.INT,
				Name:       "host",
				Proc:       func(args []types.Value) types.Value { return types.Int(0) },
			},
		},
		MainCodeIndex: 3,
	}
}

func TestFindFunction(t *testing.T) {
	p := sampleProgram()

	info, ok := p.FindFunction("echo")
	require.True(t, ok)
	assert.Equal(t, FuncInfo{Kind: KindScript, Index: 0}, info)

	info, ok = p.FindFunction("host")
	require.True(t, ok)
	assert.Equal(t, FuncInfo{Kind: KindExternal, Index: 0}, info)

	_, ok = p.FindFunction("missing")
	assert.False(t, ok)
}

func TestVerifyValid(t *testing.T) {
	p := sampleProgram()
	assert.NoError(t, p.Verify())
}

func TestVerifyPlaceholder(t *testing.T) {
	p := sampleProgram()
	p.Operations[5] = Op(PLACEHOLDER)
	err := p.Verify()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestVerifyJumpTargets(t *testing.T) {
	p := sampleProgram()
	// the end-of-program sentinel is a valid target, it halts
	p.Operations[5] = Instruction{Op: JUMP, Arg: Jump{Index: len(p.Operations)}}
	assert.NoError(t, p.Verify())

	p.Operations[5] = Instruction{Op: JUMP, Arg: Jump{Index: len(p.Operations) + 1}}
	assert.Error(t, p.Verify())

	p.Operations[5] = Instruction{Op: JUMP_IF_FALSE, Arg: Jump{Index: -1}}
	assert.Error(t, p.Verify())
}

func TestVerifyCallTargets(t *testing.T) {
	p := sampleProgram()
	// a call must target the code index of a declared function
	p.Operations[4] = Instruction{Op: CALL_FUNCTION, Arg: Call{Index: 1}}
	assert.Error(t, p.Verify())

	p = sampleProgram()
	p.Operations[6] = Instruction{Op: CALL_FUNCTION_EXTERNAL, Arg: Call{Index: 1}}
	assert.Error(t, p.Verify())
}

func TestInstructionString(t *testing.T) {
	assert.Equal(t, "push_literal int 7",
		Instruction{Op: PUSH_LITERAL, Arg: PushLiteral{Value: types.Int(7)}}.String())
	assert.Equal(t, "store_variable int n",
		Instruction{Op: STORE_VARIABLE, Arg: StoreVariable{Type: types.INT, Name: "n"}}.String())
	assert.Equal(t, "jump 3", Instruction{Op: JUMP, Arg: Jump{Index: 3}}.String())
	assert.Equal(t, "return", Op(RETURN).String())
}

func TestDisassemble(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Disassemble(&sb, sampleProgram(), 3))
	out := sb.String()
	assert.Contains(t, out, "echo:")
	assert.Contains(t, out, "main:")
	assert.Contains(t, out, ">   3  push_literal int 7")
	assert.Contains(t, out, "main code index: 3")
}
