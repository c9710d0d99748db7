package bytecode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tern-lang/tern/lang/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := sampleProgram()
	p.Operations = append(p.Operations,
		Instruction{Op: PUSH_LITERAL, Arg: PushLiteral{Value: types.String("héllo")}},
		Instruction{Op: PUSH_LITERAL, Arg: PushLiteral{Value: types.Bool(true)}},
		Instruction{Op: PUSH_LITERAL, Arg: PushLiteral{Value: types.Float(1.5)}},
		Instruction{Op: PUSH_LITERAL, Arg: PushLiteral{Value: types.Int(-12)}},
		Instruction{Op: PUSH_LITERAL, Arg: PushLiteral{Value: types.Vec2i(3, -4)}},
		Instruction{Op: PUSH_LITERAL, Arg: PushLiteral{Value: types.Vec2(0.5, -0.25)}},
		Op(POP), Op(POP), Op(POP), Op(POP), Op(POP), Op(POP),
	)

	b := Encode(p)
	require.NotEmpty(t, b)
	assert.Equal(t, byte(Version), b[0])

	host := &ExternalFunction{
		ReturnType: types.INT,
		Name:       "host",
		Proc:       func(args []types.Value) types.Value { return types.Int(1) },
	}
	got, err := Decode(b, []*ExternalFunction{host})
	require.NoError(t, err)

	assert.Equal(t, p.Operations, got.Operations)
	assert.Equal(t, p.Functions, got.Functions)
	assert.Equal(t, p.MainCodeIndex, got.MainCodeIndex)

	// external metadata is preserved and the proc rebound from the host
	require.Len(t, got.ExternalFunctions, 1)
	assert.Equal(t, "host", got.ExternalFunctions[0].Name)
	assert.Equal(t, types.INT, got.ExternalFunctions[0].ReturnType)
	assert.NotNil(t, got.ExternalFunctions[0].Proc)
	assert.Equal(t, types.Int(1), got.ExternalFunctions[0].Proc(nil))
}

func TestEncodeDeterministic(t *testing.T) {
	p := sampleProgram()
	assert.Equal(t, Encode(p), Encode(p))
}

func TestDecodeMissingExternal(t *testing.T) {
	b := Encode(sampleProgram())
	_, err := Decode(b, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host")
}

func TestDecodeSignatureMismatch(t *testing.T) {
	b := Encode(sampleProgram())
	host := &ExternalFunction{
		ReturnType: types.STRING, // recorded as int
		Name:       "host",
		Proc:       func(args []types.Value) types.Value { return types.String("") },
	}
	_, err := Decode(b, []*ExternalFunction{host})
	assert.Error(t, err)
}

func TestDecodeBadVersion(t *testing.T) {
	b := Encode(sampleProgram())
	b[0] = Version + 1
	_, err := Decode(b, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version")
}

func TestDecodeTruncated(t *testing.T) {
	b := Encode(sampleProgram())
	_, err := Decode(b[:len(b)/2], nil)
	assert.Error(t, err)
}

func TestDecodeTrailingBytes(t *testing.T) {
	host := &ExternalFunction{
		ReturnType: types.INT,
		Name:       "host",
		Proc:       func(args []types.Value) types.Value { return types.Int(0) },
	}
	b := append(Encode(sampleProgram()), 0xff)
	_, err := Decode(b, []*ExternalFunction{host})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trailing")
}
