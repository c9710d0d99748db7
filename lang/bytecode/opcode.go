// Package bytecode defines the instruction set of the virtual machine and
// the Program artifact produced by the compiler: the linear operation list,
// the script-function table, the external-function table and the main entry
// point. It also provides the binary serialization of programs and a textual
// disassembler.
package bytecode

// Increment this to force recompilation of saved bytecode files.
const Version = 1

// Opcode identifies the operation performed by an instruction.
type Opcode uint8

// The comment after each opcode is a stack picture describing the state of
// the value stack before and after execution.
const ( //nolint:revive
	// PLACEHOLDER exists only as a backpatch target while compiling forward
	// jumps; it must never remain in a finalized program and executing it is
	// a fatal error.
	PLACEHOLDER Opcode = iota

	HALT // - HALT -

	PUSH_LITERAL  // -  PUSH_LITERAL<value>      v
	PUSH_VARIABLE // -  PUSH_VARIABLE<type,name> v
	POP           // v  POP                      -

	STORE_VARIABLE // v STORE_VARIABLE<type,name> -

	CALL_FUNCTION          // args... CALL_FUNCTION<code index>   args...
	CALL_FUNCTION_EXTERNAL // args... CALL_FUNCTION_EXTERNAL<ext> result?
	RETURN                 // -       RETURN                      -

	JUMP          // -    JUMP<code index>          -
	JUMP_IF_FALSE // cond JUMP_IF_FALSE<code index> -

	// unary operators
	NOT_BOOL     // x NOT_BOOL     !x
	NEGATE_INT   // x NEGATE_INT   -x
	NEGATE_FLOAT // x NEGATE_FLOAT -x

	// binary arithmetic, per operand type
	ADD_INT
	ADD_FLOAT
	ADD_INT2
	ADD_FLOAT2

	SUBTRACT_INT
	SUBTRACT_FLOAT
	SUBTRACT_INT2
	SUBTRACT_FLOAT2

	MULTIPLY_INT
	MULTIPLY_FLOAT
	MULTIPLY_INT2
	MULTIPLY_INT2_INT
	MULTIPLY_FLOAT2
	MULTIPLY_FLOAT2_FLOAT

	DIVIDE_INT
	DIVIDE_FLOAT
	DIVIDE_INT2
	DIVIDE_INT2_INT
	DIVIDE_FLOAT2
	DIVIDE_FLOAT2_FLOAT

	// per-type equality
	EQUALS_STRING
	EQUALS_BOOL
	EQUALS_INT
	EQUALS_INT2
	EQUALS_FLOAT
	EQUALS_FLOAT2

	NOT_EQUALS_STRING
	NOT_EQUALS_BOOL
	NOT_EQUALS_INT
	NOT_EQUALS_INT2
	NOT_EQUALS_FLOAT
	NOT_EQUALS_FLOAT2

	// ordered comparisons, scalar numeric types only
	LESS_THAN_INT
	LESS_THAN_FLOAT
	GREATER_THAN_INT
	GREATER_THAN_FLOAT
	LESS_THAN_EQUALS_INT
	LESS_THAN_EQUALS_FLOAT
	GREATER_THAN_EQUALS_INT
	GREATER_THAN_EQUALS_FLOAT

	maxOpcode
)

func (op Opcode) String() string { return opcodeNames[op] }

// Valid returns true if op is one of the defined opcodes.
func (op Opcode) Valid() bool { return op < maxOpcode }

var opcodeNames = [...]string{
	PLACEHOLDER:               "placeholder",
	HALT:                      "halt",
	PUSH_LITERAL:              "push_literal",
	PUSH_VARIABLE:             "push_variable",
	POP:                       "pop",
	STORE_VARIABLE:            "store_variable",
	CALL_FUNCTION:             "call_function",
	CALL_FUNCTION_EXTERNAL:    "call_function_external",
	RETURN:                    "return",
	JUMP:                      "jump",
	JUMP_IF_FALSE:             "jump_if_false",
	NOT_BOOL:                  "not_bool",
	NEGATE_INT:                "negate_int",
	NEGATE_FLOAT:              "negate_float",
	ADD_INT:                   "add_int",
	ADD_FLOAT:                 "add_float",
	ADD_INT2:                  "add_ivec2",
	ADD_FLOAT2:                "add_vec2",
	SUBTRACT_INT:              "subtract_int",
	SUBTRACT_FLOAT:            "subtract_float",
	SUBTRACT_INT2:             "subtract_ivec2",
	SUBTRACT_FLOAT2:           "subtract_vec2",
	MULTIPLY_INT:              "multiply_int",
	MULTIPLY_FLOAT:            "multiply_float",
	MULTIPLY_INT2:             "multiply_ivec2",
	MULTIPLY_INT2_INT:         "multiply_ivec2_int",
	MULTIPLY_FLOAT2:           "multiply_vec2",
	MULTIPLY_FLOAT2_FLOAT:     "multiply_vec2_float",
	DIVIDE_INT:                "divide_int",
	DIVIDE_FLOAT:              "divide_float",
	DIVIDE_INT2:               "divide_ivec2",
	DIVIDE_INT2_INT:           "divide_ivec2_int",
	DIVIDE_FLOAT2:             "divide_vec2",
	DIVIDE_FLOAT2_FLOAT:       "divide_vec2_float",
	EQUALS_STRING:             "equals_string",
	EQUALS_BOOL:               "equals_bool",
	EQUALS_INT:                "equals_int",
	EQUALS_INT2:               "equals_ivec2",
	EQUALS_FLOAT:              "equals_float",
	EQUALS_FLOAT2:             "equals_vec2",
	NOT_EQUALS_STRING:         "not_equals_string",
	NOT_EQUALS_BOOL:           "not_equals_bool",
	NOT_EQUALS_INT:            "not_equals_int",
	NOT_EQUALS_INT2:           "not_equals_ivec2",
	NOT_EQUALS_FLOAT:          "not_equals_float",
	NOT_EQUALS_FLOAT2:         "not_equals_vec2",
	LESS_THAN_INT:             "less_than_int",
	LESS_THAN_FLOAT:           "less_than_float",
	GREATER_THAN_INT:          "greater_than_int",
	GREATER_THAN_FLOAT:        "greater_than_float",
	LESS_THAN_EQUALS_INT:      "less_than_equals_int",
	LESS_THAN_EQUALS_FLOAT:    "less_than_equals_float",
	GREATER_THAN_EQUALS_INT:   "greater_than_equals_int",
	GREATER_THAN_EQUALS_FLOAT: "greater_than_equals_float",
}
