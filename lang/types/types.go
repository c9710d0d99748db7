// Package types defines the value types of the language and the tagged
// literal value that flows between the compiler, the virtual machine and
// host-provided external functions.
package types

import (
	"fmt"
	"strconv"
)

// Tag identifies the type of a value. It is stored as a single byte both in
// instruction operands and as the trailing type tag of stack entries.
type Tag byte

//nolint:revive
const (
	VOID Tag = iota // only valid as a function return type
	STRING
	BOOL
	INT
	FLOAT
	INT2
	FLOAT2

	maxTag
)

func (t Tag) String() string { return tagNames[t] }

var tagNames = [...]string{
	VOID:   "void",
	STRING: "string",
	BOOL:   "bool",
	INT:    "int",
	FLOAT:  "float",
	INT2:   "ivec2",
	FLOAT2: "vec2",
}

// Valid returns true if t is one of the defined type tags.
func (t Tag) Valid() bool { return t < maxTag }

// Int2 is a pair of packed int components.
type Int2 [2]int32

// Float2 is a pair of packed float components.
type Float2 [2]float32

// Value is a tagged union over the literal value types of the language. Only
// the field selected by Tag is meaningful; the zero value is a void value.
// Values are comparable, equality is structural.
type Value struct {
	Tag    Tag
	Str    string
	Bool   bool
	Int    int32
	Float  float32
	Int2   Int2
	Float2 Float2
}

// Constructors for each value type.

func String(v string) Value   { return Value{Tag: STRING, Str: v} }
func Bool(v bool) Value       { return Value{Tag: BOOL, Bool: v} }
func Int(v int32) Value       { return Value{Tag: INT, Int: v} }
func Float(v float32) Value   { return Value{Tag: FLOAT, Float: v} }
func Vec2i(x, y int32) Value  { return Value{Tag: INT2, Int2: Int2{x, y}} }
func Vec2(x, y float32) Value { return Value{Tag: FLOAT2, Float2: Float2{x, y}} }

// Void is the value of type void.
var Void = Value{Tag: VOID}

func (v Value) String() string {
	switch v.Tag {
	case VOID:
		return "void"
	case STRING:
		return strconv.Quote(v.Str)
	case BOOL:
		return strconv.FormatBool(v.Bool)
	case INT:
		return strconv.FormatInt(int64(v.Int), 10)
	case FLOAT:
		return strconv.FormatFloat(float64(v.Float), 'g', -1, 32)
	case INT2:
		return fmt.Sprintf("(%d, %d)", v.Int2[0], v.Int2[1])
	case FLOAT2:
		return fmt.Sprintf("(%s, %s)", strconv.FormatFloat(float64(v.Float2[0]), 'g', -1, 32),
			strconv.FormatFloat(float64(v.Float2[1]), 'g', -1, 32))
	}
	return fmt.Sprintf("invalid value tag %d", v.Tag)
}
