package compiler

import (
	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/token"
	"github.com/tern-lang/tern/lang/types"
)

// OpMapping is the result of resolving an operator against its operand
// types: the opcode to emit and the static type of the value it pushes.
type OpMapping struct {
	Op     bytecode.Opcode
	Result types.Tag
}

type unaryKey struct {
	right types.Tag
	op    token.Token
}

type binaryKey struct {
	left  types.Tag
	right types.Tag
	op    token.Token
}

var unaryOps = map[unaryKey]OpMapping{
	// Right        Operator      Operation                Result
	{types.BOOL, token.BANG}:    {bytecode.NOT_BOOL, types.BOOL},
	{types.INT, token.MINUS}:    {bytecode.NEGATE_INT, types.INT},
	{types.FLOAT, token.MINUS}:  {bytecode.NEGATE_FLOAT, types.FLOAT},
}

var binaryOps = map[binaryKey]OpMapping{
	// Left          Right         Operator       Operation                             Result
	{types.INT, types.INT, token.PLUS}:          {bytecode.ADD_INT, types.INT},
	{types.FLOAT, types.FLOAT, token.PLUS}:      {bytecode.ADD_FLOAT, types.FLOAT},
	{types.INT2, types.INT2, token.PLUS}:        {bytecode.ADD_INT2, types.INT2},
	{types.FLOAT2, types.FLOAT2, token.PLUS}:    {bytecode.ADD_FLOAT2, types.FLOAT2},
	{types.INT, types.INT, token.MINUS}:         {bytecode.SUBTRACT_INT, types.INT},
	{types.FLOAT, types.FLOAT, token.MINUS}:     {bytecode.SUBTRACT_FLOAT, types.FLOAT},
	{types.INT2, types.INT2, token.MINUS}:       {bytecode.SUBTRACT_INT2, types.INT2},
	{types.FLOAT2, types.FLOAT2, token.MINUS}:   {bytecode.SUBTRACT_FLOAT2, types.FLOAT2},
	{types.INT, types.INT, token.STAR}:          {bytecode.MULTIPLY_INT, types.INT},
	{types.FLOAT, types.FLOAT, token.STAR}:      {bytecode.MULTIPLY_FLOAT, types.FLOAT},
	{types.INT2, types.INT2, token.STAR}:        {bytecode.MULTIPLY_INT2, types.INT2},
	{types.INT2, types.INT, token.STAR}:         {bytecode.MULTIPLY_INT2_INT, types.INT2},
	{types.FLOAT2, types.FLOAT2, token.STAR}:    {bytecode.MULTIPLY_FLOAT2, types.FLOAT2},
	{types.FLOAT2, types.FLOAT, token.STAR}:     {bytecode.MULTIPLY_FLOAT2_FLOAT, types.FLOAT2},
	{types.INT, types.INT, token.SLASH}:         {bytecode.DIVIDE_INT, types.INT},
	{types.FLOAT, types.FLOAT, token.SLASH}:     {bytecode.DIVIDE_FLOAT, types.FLOAT},
	{types.INT2, types.INT2, token.SLASH}:       {bytecode.DIVIDE_INT2, types.INT2},
	{types.INT2, types.INT, token.SLASH}:        {bytecode.DIVIDE_INT2_INT, types.INT2},
	{types.FLOAT2, types.FLOAT2, token.SLASH}:   {bytecode.DIVIDE_FLOAT2, types.FLOAT2},
	{types.FLOAT2, types.FLOAT, token.SLASH}:    {bytecode.DIVIDE_FLOAT2_FLOAT, types.FLOAT2},
	{types.STRING, types.STRING, token.EQL}:     {bytecode.EQUALS_STRING, types.BOOL},
	{types.BOOL, types.BOOL, token.EQL}:         {bytecode.EQUALS_BOOL, types.BOOL},
	{types.INT, types.INT, token.EQL}:           {bytecode.EQUALS_INT, types.BOOL},
	{types.INT2, types.INT2, token.EQL}:         {bytecode.EQUALS_INT2, types.BOOL},
	{types.FLOAT, types.FLOAT, token.EQL}:       {bytecode.EQUALS_FLOAT, types.BOOL},
	{types.FLOAT2, types.FLOAT2, token.EQL}:     {bytecode.EQUALS_FLOAT2, types.BOOL},
	{types.STRING, types.STRING, token.NEQ}:     {bytecode.NOT_EQUALS_STRING, types.BOOL},
	{types.BOOL, types.BOOL, token.NEQ}:         {bytecode.NOT_EQUALS_BOOL, types.BOOL},
	{types.INT, types.INT, token.NEQ}:           {bytecode.NOT_EQUALS_INT, types.BOOL},
	{types.INT2, types.INT2, token.NEQ}:         {bytecode.NOT_EQUALS_INT2, types.BOOL},
	{types.FLOAT, types.FLOAT, token.NEQ}:       {bytecode.NOT_EQUALS_FLOAT, types.BOOL},
	{types.FLOAT2, types.FLOAT2, token.NEQ}:     {bytecode.NOT_EQUALS_FLOAT2, types.BOOL},
	{types.INT, types.INT, token.LT}:            {bytecode.LESS_THAN_INT, types.BOOL},
	{types.FLOAT, types.FLOAT, token.LT}:        {bytecode.LESS_THAN_FLOAT, types.BOOL},
	{types.INT, types.INT, token.GT}:            {bytecode.GREATER_THAN_INT, types.BOOL},
	{types.FLOAT, types.FLOAT, token.GT}:        {bytecode.GREATER_THAN_FLOAT, types.BOOL},
	{types.INT, types.INT, token.LE}:            {bytecode.LESS_THAN_EQUALS_INT, types.BOOL},
	{types.FLOAT, types.FLOAT, token.LE}:        {bytecode.LESS_THAN_EQUALS_FLOAT, types.BOOL},
	{types.INT, types.INT, token.GE}:            {bytecode.GREATER_THAN_EQUALS_INT, types.BOOL},
	{types.FLOAT, types.FLOAT, token.GE}:        {bytecode.GREATER_THAN_EQUALS_FLOAT, types.BOOL},
}

// MapUnaryOp resolves a unary operator against its operand type. It reports
// false when the combination is invalid.
func MapUnaryOp(right types.Tag, op token.Token) (OpMapping, bool) {
	m, ok := unaryOps[unaryKey{right, op}]
	return m, ok
}

// MapUnaryOpValidate reports the precise error for an invalid unary operand
// before MapUnaryOp is consulted: unary operators never apply to strings.
func MapUnaryOpValidate(right types.Tag, op token.Token) ErrKind {
	if right == types.STRING {
		return MathOperationOnString
	}
	return NoError
}

// MapBinaryOp resolves a binary operator against its operand types. It
// reports false when the combination is invalid.
func MapBinaryOp(left, right types.Tag, op token.Token) (OpMapping, bool) {
	m, ok := binaryOps[binaryKey{left, right, op}]
	return m, ok
}

// MapBinaryOpValidate reports the precise error for invalid binary operands
// before MapBinaryOp is consulted: strings support only equality and
// inequality.
func MapBinaryOpValidate(left, right types.Tag, op token.Token) ErrKind {
	if left == types.STRING && right == types.STRING &&
		op != token.EQL && op != token.NEQ {
		return MathOperationOnString
	}
	return NoError
}
