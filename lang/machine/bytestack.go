package machine

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/tern-lang/tern/lang/types"
)

// ByteStack is the value stack of the virtual machine: a single
// byte-addressed buffer where each value is immediately followed by a
// one-byte type tag. The tag makes the stack self-describing, so the type of
// the top values can be inspected in O(1) without a parallel type stack;
// only the external-call shim needs that introspection, everywhere else the
// opcode already names the operand types.
//
// Layout per entry, growing toward higher addresses:
//   - string: UTF-8 bytes, then a 4-byte little-endian length, then the tag
//   - bool:   1 byte, then the tag
//   - int:    4 bytes little-endian, then the tag
//   - float:  4 bytes IEEE-754 little-endian, then the tag
//   - ivec2:  2 packed ints, then the tag
//   - vec2:   2 packed floats, then the tag
type ByteStack struct {
	buf []byte
}

const tagSize = 1

func (s *ByteStack) writeTag(tag types.Tag) {
	s.buf = append(s.buf, byte(tag))
}

// PushString appends a string value.
func (s *ByteStack) PushString(v string) {
	s.buf = append(s.buf, v...)
	s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(len(v)))
	s.writeTag(types.STRING)
}

// PushBool appends a bool value.
func (s *ByteStack) PushBool(v bool) {
	var x byte
	if v {
		x = 1
	}
	s.buf = append(s.buf, x)
	s.writeTag(types.BOOL)
}

// PushInt appends an int value.
func (s *ByteStack) PushInt(v int32) {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(v))
	s.writeTag(types.INT)
}

// PushFloat appends a float value.
func (s *ByteStack) PushFloat(v float32) {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, math.Float32bits(v))
	s.writeTag(types.FLOAT)
}

// PushInt2 appends an ivec2 value.
func (s *ByteStack) PushInt2(v types.Int2) {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(v[0]))
	s.buf = binary.LittleEndian.AppendUint32(s.buf, uint32(v[1]))
	s.writeTag(types.INT2)
}

// PushFloat2 appends a vec2 value.
func (s *ByteStack) PushFloat2(v types.Float2) {
	s.buf = binary.LittleEndian.AppendUint32(s.buf, math.Float32bits(v[0]))
	s.buf = binary.LittleEndian.AppendUint32(s.buf, math.Float32bits(v[1]))
	s.writeTag(types.FLOAT2)
}

// valueSize returns the number of bytes occupied by the value whose tag ends
// at offset head (tag excluded from the size).
func (s *ByteStack) valueSize(head int, tag types.Tag) int {
	switch tag {
	case types.STRING:
		n := binary.LittleEndian.Uint32(s.buf[head-4:])
		return 4 + int(n)
	case types.BOOL:
		return 1
	case types.INT, types.FLOAT:
		return 4
	case types.INT2, types.FLOAT2:
		return 8
	}
	panic(fmt.Sprintf("bytestack: invalid type tag %d at offset %d", tag, head))
}

// itemOffset returns the offset one past the item-th entry from the top
// (0 = one past the topmost entry, i.e. the end of the buffer). It panics on
// underflow: the compiler guarantees balanced stacks, an underflow is a bug.
func (s *ByteStack) itemOffset(item int) int {
	head := len(s.buf)
	for i := 0; i < item; i++ {
		if head < tagSize {
			panic("bytestack: underflow")
		}
		tag := types.Tag(s.buf[head-1])
		head -= tagSize
		head -= s.valueSize(head, tag)
	}
	return head
}

// valueOffset returns the offset one past the value bytes of the item-th
// entry from the top (its tag excluded).
func (s *ByteStack) valueOffset(item int) int {
	head := s.itemOffset(item)
	if head < tagSize {
		panic("bytestack: underflow")
	}
	return head - tagSize
}

// TopValueType returns the type tag of the item-th value from the top,
// 0 being the topmost.
func (s *ByteStack) TopValueType(item int) types.Tag {
	return types.Tag(s.buf[s.valueOffset(item)])
}

// TopAsString returns the item-th value from the top as a string. The caller
// must have checked the type; mistyped access panics.
func (s *ByteStack) TopAsString(item int) string {
	head := s.valueOffset(item)
	n := int(binary.LittleEndian.Uint32(s.buf[head-4:]))
	return string(s.buf[head-4-n : head-4])
}

// TopAsBool returns the item-th value from the top as a bool.
func (s *ByteStack) TopAsBool(item int) bool {
	return s.buf[s.valueOffset(item)-1] != 0
}

// TopAsInt returns the item-th value from the top as an int.
func (s *ByteStack) TopAsInt(item int) int32 {
	head := s.valueOffset(item)
	return int32(binary.LittleEndian.Uint32(s.buf[head-4:]))
}

// TopAsFloat returns the item-th value from the top as a float.
func (s *ByteStack) TopAsFloat(item int) float32 {
	head := s.valueOffset(item)
	return math.Float32frombits(binary.LittleEndian.Uint32(s.buf[head-4:]))
}

// TopAsInt2 returns the item-th value from the top as an ivec2.
func (s *ByteStack) TopAsInt2(item int) types.Int2 {
	head := s.valueOffset(item)
	return types.Int2{
		int32(binary.LittleEndian.Uint32(s.buf[head-8:])),
		int32(binary.LittleEndian.Uint32(s.buf[head-4:])),
	}
}

// TopAsFloat2 returns the item-th value from the top as a vec2.
func (s *ByteStack) TopAsFloat2(item int) types.Float2 {
	head := s.valueOffset(item)
	return types.Float2{
		math.Float32frombits(binary.LittleEndian.Uint32(s.buf[head-8:])),
		math.Float32frombits(binary.LittleEndian.Uint32(s.buf[head-4:])),
	}
}

// Pop drops the top n entries. Popping more entries than the stack holds
// drops everything.
func (s *ByteStack) Pop(n int) {
	head := len(s.buf)
	for i := 0; i < n && head >= tagSize; i++ {
		tag := types.Tag(s.buf[head-1])
		head -= tagSize
		head -= s.valueSize(head, tag)
	}
	s.buf = s.buf[:head]
}

// Size returns the size of the stack in bytes, tags included.
func (s *ByteStack) Size() int { return len(s.buf) }

// Count returns the number of values on the stack.
func (s *ByteStack) Count() int {
	n, head := 0, len(s.buf)
	for head >= tagSize {
		tag := types.Tag(s.buf[head-1])
		head -= tagSize
		head -= s.valueSize(head, tag)
		n++
	}
	return n
}

// Equals reports byte equality of the two stacks.
func (s *ByteStack) Equals(other *ByteStack) bool {
	return bytes.Equal(s.buf, other.buf)
}

// Clone returns an independent copy of the stack.
func (s *ByteStack) Clone() ByteStack {
	return ByteStack{buf: append([]byte(nil), s.buf...)}
}

// String lists the stack values top-down, one per line.
func (s *ByteStack) String() string {
	var sb strings.Builder
	for i, n := 0, s.Count(); i < n; i++ {
		tag := s.TopValueType(i)
		var v types.Value
		switch tag {
		case types.STRING:
			v = types.String(s.TopAsString(i))
		case types.BOOL:
			v = types.Bool(s.TopAsBool(i))
		case types.INT:
			v = types.Int(s.TopAsInt(i))
		case types.FLOAT:
			v = types.Float(s.TopAsFloat(i))
		case types.INT2:
			v = types.Value{Tag: types.INT2, Int2: s.TopAsInt2(i)}
		case types.FLOAT2:
			v = types.Value{Tag: types.FLOAT2, Float2: s.TopAsFloat2(i)}
		}
		fmt.Fprintf(&sb, "%s %s\n", tag, v)
	}
	return sb.String()
}
