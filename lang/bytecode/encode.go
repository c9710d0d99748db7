package bytecode

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tern-lang/tern/lang/types"
)

// operand tags of the serialized form.
const (
	operandNone byte = iota
	operandPushLiteral
	operandPushVariable
	operandStoreVariable
	operandCall
	operandJump
)

// Encode serializes a program to its canonical binary layout: version byte,
// operations, script functions, external-function metadata and the main code
// index. Procs are not serialized; Decode rebinds them by name.
func Encode(p *Program) []byte {
	var b []byte
	b = append(b, Version)

	b = binary.AppendUvarint(b, uint64(len(p.Operations)))
	for _, ins := range p.Operations {
		b = append(b, byte(ins.Op))
		switch arg := ins.Arg.(type) {
		case PushLiteral:
			b = append(b, operandPushLiteral)
			b = appendValue(b, arg.Value)
		case PushVariable:
			b = append(b, operandPushVariable, byte(arg.Type))
			b = appendString(b, arg.Name)
		case StoreVariable:
			b = append(b, operandStoreVariable, byte(arg.Type))
			b = appendString(b, arg.Name)
		case Call:
			b = append(b, operandCall)
			b = binary.AppendUvarint(b, uint64(arg.Index))
		case Jump:
			b = append(b, operandJump)
			b = binary.AppendUvarint(b, uint64(arg.Index))
		default:
			b = append(b, operandNone)
		}
	}

	b = binary.AppendUvarint(b, uint64(len(p.Functions)))
	for _, fn := range p.Functions {
		b = binary.AppendUvarint(b, uint64(fn.CodeIndex))
		b = append(b, byte(fn.ReturnType))
		b = appendString(b, fn.Name)
		b = binary.AppendUvarint(b, uint64(fn.ArgCount))
		b = appendVariables(b, fn.LocalVariables)
	}

	b = binary.AppendUvarint(b, uint64(len(p.ExternalFunctions)))
	for _, ext := range p.ExternalFunctions {
		b = append(b, byte(ext.ReturnType))
		b = appendString(b, ext.Name)
		b = appendVariables(b, ext.Args)
	}

	b = binary.AppendUvarint(b, uint64(p.MainCodeIndex))
	return b
}

func appendString(b []byte, s string) []byte {
	b = binary.AppendUvarint(b, uint64(len(s)))
	return append(b, s...)
}

func appendVariables(b []byte, vars []Variable) []byte {
	b = binary.AppendUvarint(b, uint64(len(vars)))
	for _, v := range vars {
		b = append(b, byte(v.Type))
		b = appendString(b, v.Name)
	}
	return b
}

func appendValue(b []byte, v types.Value) []byte {
	b = append(b, byte(v.Tag))
	switch v.Tag {
	case types.VOID:
		// tag only
	case types.STRING:
		b = appendString(b, v.Str)
	case types.BOOL:
		var x byte
		if v.Bool {
			x = 1
		}
		b = append(b, x)
	case types.INT:
		b = binary.LittleEndian.AppendUint32(b, uint32(v.Int))
	case types.FLOAT:
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v.Float))
	case types.INT2:
		b = binary.LittleEndian.AppendUint32(b, uint32(v.Int2[0]))
		b = binary.LittleEndian.AppendUint32(b, uint32(v.Int2[1]))
	case types.FLOAT2:
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v.Float2[0]))
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v.Float2[1]))
	}
	return b
}

// decoder reads the canonical binary layout, keeping the first error
// encountered so call sites stay linear.
type decoder struct {
	b   []byte
	off int
	err error
}

func (d *decoder) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf(format, args...)
	}
}

func (d *decoder) byte() byte {
	if d.err != nil {
		return 0
	}
	if d.off >= len(d.b) {
		d.fail("unexpected end of program at offset %d", d.off)
		return 0
	}
	x := d.b[d.off]
	d.off++
	return x
}

func (d *decoder) uvarint() int {
	if d.err != nil {
		return 0
	}
	x, n := binary.Uvarint(d.b[d.off:])
	if n <= 0 {
		d.fail("invalid varint at offset %d", d.off)
		return 0
	}
	d.off += n
	return int(x)
}

func (d *decoder) uint32() uint32 {
	if d.err != nil {
		return 0
	}
	if d.off+4 > len(d.b) {
		d.fail("unexpected end of program at offset %d", d.off)
		return 0
	}
	x := binary.LittleEndian.Uint32(d.b[d.off:])
	d.off += 4
	return x
}

func (d *decoder) string() string {
	n := d.uvarint()
	if d.err != nil {
		return ""
	}
	if d.off+n > len(d.b) {
		d.fail("unexpected end of program at offset %d", d.off)
		return ""
	}
	s := string(d.b[d.off : d.off+n])
	d.off += n
	return s
}

func (d *decoder) variables() []Variable {
	n := d.uvarint()
	if d.err != nil || n == 0 {
		return nil
	}
	vars := make([]Variable, n)
	for i := range vars {
		vars[i] = Variable{Type: types.Tag(d.byte()), Name: d.string()}
	}
	return vars
}

func (d *decoder) value() types.Value {
	tag := types.Tag(d.byte())
	v := types.Value{Tag: tag}
	switch tag {
	case types.VOID:
	case types.STRING:
		v.Str = d.string()
	case types.BOOL:
		v.Bool = d.byte() != 0
	case types.INT:
		v.Int = int32(d.uint32())
	case types.FLOAT:
		v.Float = math.Float32frombits(d.uint32())
	case types.INT2:
		v.Int2 = types.Int2{int32(d.uint32()), int32(d.uint32())}
	case types.FLOAT2:
		v.Float2 = types.Float2{math.Float32frombits(d.uint32()), math.Float32frombits(d.uint32())}
	default:
		d.fail("invalid value tag %d at offset %d", tag, d.off-1)
	}
	return v
}

// Decode deserializes a program encoded by Encode. External functions carry
// metadata only in the serialized form; their procs are rebound by name from
// the externals provided by the host, which must match the recorded
// signatures.
func Decode(b []byte, externals []*ExternalFunction) (*Program, error) {
	d := &decoder{b: b}

	if v := d.byte(); d.err == nil && v != Version {
		return nil, fmt.Errorf("unsupported bytecode version %d (current is %d)", v, Version)
	}

	p := &Program{}
	nops := d.uvarint()
	for i := 0; i < nops && d.err == nil; i++ {
		op := Opcode(d.byte())
		if !op.Valid() {
			d.fail("invalid opcode %d in operation %d", op, i)
			break
		}
		ins := Instruction{Op: op, Arg: None{}}
		switch tag := d.byte(); tag {
		case operandNone:
		case operandPushLiteral:
			ins.Arg = PushLiteral{Value: d.value()}
		case operandPushVariable:
			ins.Arg = PushVariable{Type: types.Tag(d.byte()), Name: d.string()}
		case operandStoreVariable:
			ins.Arg = StoreVariable{Type: types.Tag(d.byte()), Name: d.string()}
		case operandCall:
			ins.Arg = Call{Index: d.uvarint()}
		case operandJump:
			ins.Arg = Jump{Index: d.uvarint()}
		default:
			d.fail("invalid operand tag %d in operation %d", tag, i)
		}
		p.Operations = append(p.Operations, ins)
	}

	nfuncs := d.uvarint()
	for i := 0; i < nfuncs && d.err == nil; i++ {
		fn := Function{
			CodeIndex:  d.uvarint(),
			ReturnType: types.Tag(d.byte()),
			Name:       d.string(),
			ArgCount:   d.uvarint(),
		}
		fn.LocalVariables = d.variables()
		p.Functions = append(p.Functions, fn)
	}

	nexts := d.uvarint()
	for i := 0; i < nexts && d.err == nil; i++ {
		meta := &ExternalFunction{
			ReturnType: types.Tag(d.byte()),
			Name:       d.string(),
			Args:       d.variables(),
		}
		if d.err != nil {
			break
		}
		bound := false
		for _, ext := range externals {
			if ext.Name == meta.Name {
				if ext.ReturnType != meta.ReturnType || len(ext.Args) != len(meta.Args) {
					return nil, fmt.Errorf("external function %s: host signature does not match the recorded one", meta.Name)
				}
				meta.Proc = ext.Proc
				bound = true
				break
			}
		}
		if !bound {
			return nil, fmt.Errorf("external function %s is not provided by the host", meta.Name)
		}
		p.ExternalFunctions = append(p.ExternalFunctions, meta)
	}

	p.MainCodeIndex = d.uvarint()
	if d.err != nil {
		return nil, d.err
	}
	if d.off != len(b) {
		return nil, fmt.Errorf("%d trailing bytes after program", len(b)-d.off)
	}
	return p, nil
}
