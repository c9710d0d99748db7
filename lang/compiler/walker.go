package compiler

import (
	"errors"

	"github.com/tern-lang/tern/lang/ast"
	"github.com/tern-lang/tern/lang/bytecode"
	"github.com/tern-lang/tern/lang/token"
	"github.com/tern-lang/tern/lang/types"
)

// errAbort unwinds the walker to the top-level driver on the first semantic
// error; the authoritative diagnostic is in the generator's error slot.
var errAbort = errors.New("compilation aborted")

// walker visits the parse tree, performs type checking and operator
// resolution, and emits bytecode through the generator. It fails fast: the
// first semantic error sets the generator's error slot and unwinds via
// errAbort.
type walker struct {
	gen  *Generator
	file *token.File
}

func (w *walker) fail(n ast.Node, kind ErrKind) error {
	start, end := n.Span()
	w.gen.SetError(&Error{
		Kind:  kind,
		Start: w.file.Position(start),
		Stop:  w.file.Position(end),
	})
	return errAbort
}

func typeTag(ref ast.TypeRef) types.Tag {
	switch ref.Tok {
	case token.BOOL:
		return types.BOOL
	case token.INT:
		return types.INT
	case token.FLOAT:
		return types.FLOAT
	case token.STRING:
		return types.STRING
	}
	return types.VOID
}

func (w *walker) program(f *ast.File, externals []*bytecode.ExternalFunction) error {
	w.gen.ScopePush(ScopeGlobal)
	defer w.gen.ScopePop()

	for _, ext := range externals {
		if kind := w.gen.FunctionDeclareExternal(ext); kind != NoError {
			return w.fail(f, kind)
		}
	}

	for _, fn := range f.Funcs {
		if err := w.funcDecl(fn); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) funcDecl(fn *ast.FuncDecl) error {
	ret := typeTag(fn.Type)
	params := make([]bytecode.Variable, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = bytecode.Variable{Type: typeTag(param.Type), Name: param.Name.Name}
	}

	if kind := w.gen.FunctionDeclare(ret, fn.Name.Name, params); kind != NoError {
		return w.fail(fn, kind)
	}

	w.gen.ScopePush(ScopeFunction)
	defer w.gen.ScopePop()

	// the prologue stores parameters in reverse declaration order: the
	// caller pushes arguments left to right, so the rightmost argument is on
	// top of the stack and is popped first.
	for i := len(params) - 1; i >= 0; i-- {
		if kind := w.gen.DeclareIdentifier(IdentVariable, params[i].Name, false); kind != NoError {
			return w.fail(fn.Params[i], kind)
		}
		w.gen.Emit(bytecode.Instruction{
			Op:  bytecode.STORE_VARIABLE,
			Arg: bytecode.StoreVariable{Type: params[i].Type, Name: params[i].Name},
		})
	}

	if err := w.block(fn.Body); err != nil {
		return err
	}

	if op, ok := w.gen.LastOp(); !ok || op != bytecode.RETURN {
		if ret != types.VOID {
			return w.fail(fn, NonVoidFunctionMissingReturn)
		}
		w.gen.Emit(bytecode.Op(bytecode.RETURN))
	}
	return nil
}

func (w *walker) block(b *ast.Block) error {
	w.gen.ScopePush(ScopeBlock)
	defer w.gen.ScopePop()

	for _, stmt := range b.Stmts {
		if err := w.stmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) stmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.Block:
		return w.block(s)

	case *ast.DeclStmt:
		exprType, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		declared := typeTag(s.Type)
		if declared != exprType {
			return w.fail(s, TypeMismatch)
		}
		if kind := w.gen.VariableDeclare(declared, s.Name.Name); kind != NoError {
			return w.fail(s, kind)
		}
		w.gen.Emit(bytecode.Instruction{
			Op:  bytecode.STORE_VARIABLE,
			Arg: bytecode.StoreVariable{Type: declared, Name: s.Name.Name},
		})
		return nil

	case *ast.AssignStmt:
		id, ok := w.gen.Lookup(s.Name.Name)
		if !ok || id.Kind != IdentVariable {
			return w.fail(s, IdentifierNotDeclared)
		}
		// the store is typed by the expression, not by the declaration; a
		// store can retype the runtime slot
		exprType, err := w.expr(s.Value)
		if err != nil {
			return err
		}
		w.gen.Emit(bytecode.Instruction{
			Op:  bytecode.STORE_VARIABLE,
			Arg: bytecode.StoreVariable{Type: exprType, Name: s.Name.Name},
		})
		return nil

	case *ast.ReturnStmt:
		typ := types.VOID
		if s.Value != nil {
			var err error
			if typ, err = w.expr(s.Value); err != nil {
				return err
			}
		}
		if typ != w.gen.FunctionCurrentReturnType() {
			return w.fail(s, TypeMismatch)
		}
		w.gen.Emit(bytecode.Op(bytecode.RETURN))
		return nil

	case *ast.IfStmt:
		condType, err := w.expr(s.Cond)
		if err != nil {
			return err
		}
		if condType != types.BOOL {
			return w.fail(s.Cond, TypeMismatch)
		}
		jmpIdx := w.gen.CurrentIndex()
		w.gen.EmitPlaceholder()
		if err := w.block(s.Body); err != nil {
			return err
		}
		w.gen.Patch(jmpIdx, bytecode.Instruction{
			Op:  bytecode.JUMP_IF_FALSE,
			Arg: bytecode.Jump{Index: w.gen.CurrentIndex()},
		})
		return nil

	case *ast.WhileStmt:
		loopHead := w.gen.CurrentIndex()
		condType, err := w.expr(s.Cond)
		if err != nil {
			return err
		}
		if condType != types.BOOL {
			return w.fail(s.Cond, TypeMismatch)
		}
		jmpIdx := w.gen.CurrentIndex()
		w.gen.EmitPlaceholder()
		if err := w.block(s.Body); err != nil {
			return err
		}
		w.gen.Emit(bytecode.Instruction{
			Op:  bytecode.JUMP,
			Arg: bytecode.Jump{Index: loopHead},
		})
		w.gen.Patch(jmpIdx, bytecode.Instruction{
			Op:  bytecode.JUMP_IF_FALSE,
			Arg: bytecode.Jump{Index: w.gen.CurrentIndex()},
		})
		return nil

	case *ast.ExprStmt:
		if _, err := w.expr(s.X); err != nil {
			return err
		}
		w.gen.Emit(bytecode.Op(bytecode.POP))
		return nil
	}

	return w.fail(s, ParseError)
}

func (w *walker) expr(e ast.Expr) (types.Tag, error) {
	switch e := e.(type) {
	case *ast.ParenExpr:
		return w.expr(e.X)

	case *ast.UnaryExpr:
		rightType, err := w.expr(e.Right)
		if err != nil {
			return types.VOID, err
		}
		if kind := MapUnaryOpValidate(rightType, e.Op); kind != NoError {
			return types.VOID, w.fail(e, kind)
		}
		m, ok := MapUnaryOp(rightType, e.Op)
		if !ok {
			return types.VOID, w.fail(e, TypeMismatch)
		}
		w.gen.Emit(bytecode.Op(m.Op))
		return m.Result, nil

	case *ast.BinaryExpr:
		leftType, err := w.expr(e.Left)
		if err != nil {
			return types.VOID, err
		}
		rightType, err := w.expr(e.Right)
		if err != nil {
			return types.VOID, err
		}
		if kind := MapBinaryOpValidate(leftType, rightType, e.Op); kind != NoError {
			return types.VOID, w.fail(e, kind)
		}
		m, ok := MapBinaryOp(leftType, rightType, e.Op)
		if !ok {
			return types.VOID, w.fail(e, TypeMismatch)
		}
		w.gen.Emit(bytecode.Op(m.Op))
		return m.Result, nil

	case *ast.IdentExpr:
		v, ok := w.gen.VariableGet(e.Name)
		if !ok {
			return types.VOID, w.fail(e, IdentifierNotDeclared)
		}
		w.gen.Emit(bytecode.Instruction{
			Op:  bytecode.PUSH_VARIABLE,
			Arg: bytecode.PushVariable{Type: v.Type, Name: v.Name},
		})
		return v.Type, nil

	case *ast.LitExpr:
		val := litValue(e)
		w.gen.Emit(bytecode.Instruction{
			Op:  bytecode.PUSH_LITERAL,
			Arg: bytecode.PushLiteral{Value: val},
		})
		return val.Tag, nil

	case *ast.CallExpr:
		return w.call(e)
	}

	return types.VOID, w.fail(e, ParseError)
}

func litValue(e *ast.LitExpr) types.Value {
	switch e.Tok {
	case token.TRUE:
		return types.Bool(true)
	case token.FALSE:
		return types.Bool(false)
	case token.INTLIT:
		return types.Int(e.Val.Int)
	case token.FLTLIT:
		return types.Float(e.Val.Float)
	}
	return types.String(e.Val.Str)
}

func (w *walker) call(e *ast.CallExpr) (types.Tag, error) {
	ref, ok := w.gen.FunctionGetInfo(e.Name.Name)
	if !ok {
		return types.VOID, w.fail(e, IdentifierNotDeclared)
	}

	var (
		params []bytecode.Variable
		ret    types.Tag
		ins    bytecode.Instruction
	)
	if ref.External {
		ext := w.gen.ExternalFunction(ref.Index)
		params = ext.Args
		ret = ext.ReturnType
		ins = bytecode.Instruction{Op: bytecode.CALL_FUNCTION_EXTERNAL, Arg: bytecode.Call{Index: ref.Index}}
	} else {
		fn := w.gen.ScriptFunction(ref.Index)
		params = fn.LocalVariables[:fn.ArgCount]
		ret = fn.ReturnType
		ins = bytecode.Instruction{Op: bytecode.CALL_FUNCTION, Arg: bytecode.Call{Index: fn.CodeIndex}}
	}

	// arguments are evaluated and pushed in source order, left to right
	argTypes := make([]types.Tag, len(e.Args))
	for i, arg := range e.Args {
		typ, err := w.expr(arg)
		if err != nil {
			return types.VOID, err
		}
		argTypes[i] = typ
	}

	if len(argTypes) != len(params) {
		return types.VOID, w.fail(e, WrongNumberOfArgs)
	}
	for i, typ := range argTypes {
		if typ != params[i].Type {
			return types.VOID, w.fail(e.Args[i], TypeMismatch)
		}
	}

	w.gen.Emit(ins)
	return ret, nil
}
