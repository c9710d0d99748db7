package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tern-lang/tern/lang/ast"
	"github.com/tern-lang/tern/lang/token"
)

func parseString(t *testing.T, src string) (*ast.File, error) {
	t.Helper()
	_, f, err := ParseSource("test.tn", []byte(src))
	return f, err
}

func TestParseFunctionDecl(t *testing.T) {
	f, err := parseString(t, "int add(int x, int y) { return x + y; }")
	require.NoError(t, err)
	require.Len(t, f.Funcs, 1)

	fn := f.Funcs[0]
	assert.Equal(t, token.INT, fn.Type.Tok)
	assert.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "x", fn.Params[0].Name.Name)
	assert.Equal(t, "y", fn.Params[1].Name.Name)

	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.PLUS, bin.Op)
}

func TestParseStatements(t *testing.T) {
	f, err := parseString(t, `void main() {
		int x = 0;
		x = x + 1;
		if (x == 1) { x = 2; }
		while (x < 10) { x = x + 1; }
		{ int y = 0; }
		x;
		return;
	}`)
	require.NoError(t, err)
	require.Len(t, f.Funcs, 1)

	stmts := f.Funcs[0].Body.Stmts
	require.Len(t, stmts, 7)
	assert.IsType(t, &ast.DeclStmt{}, stmts[0])
	assert.IsType(t, &ast.AssignStmt{}, stmts[1])
	assert.IsType(t, &ast.IfStmt{}, stmts[2])
	assert.IsType(t, &ast.WhileStmt{}, stmts[3])
	assert.IsType(t, &ast.Block{}, stmts[4])
	assert.IsType(t, &ast.ExprStmt{}, stmts[5])
	assert.IsType(t, &ast.ReturnStmt{}, stmts[6])

	ret := stmts[6].(*ast.ReturnStmt)
	assert.Nil(t, ret.Value)
}

func TestParsePrecedence(t *testing.T) {
	f, err := parseString(t, "void main() { bool b = 1 + 2 * 3 == 7; }")
	require.NoError(t, err)

	decl := f.Funcs[0].Body.Stmts[0].(*ast.DeclStmt)
	eq := decl.Value.(*ast.BinaryExpr)
	require.Equal(t, token.EQL, eq.Op)

	add := eq.Left.(*ast.BinaryExpr)
	require.Equal(t, token.PLUS, add.Op)

	mul := add.Right.(*ast.BinaryExpr)
	require.Equal(t, token.STAR, mul.Op)
	assert.Equal(t, token.INTLIT, mul.Left.(*ast.LitExpr).Tok)
}

func TestParseLeftAssociativity(t *testing.T) {
	f, err := parseString(t, "void main() { int x = 1 - 2 - 3; }")
	require.NoError(t, err)

	decl := f.Funcs[0].Body.Stmts[0].(*ast.DeclStmt)
	outer := decl.Value.(*ast.BinaryExpr)
	require.Equal(t, token.MINUS, outer.Op)
	inner, ok := outer.Left.(*ast.BinaryExpr)
	require.True(t, ok, "subtraction must fold left-associatively")
	assert.Equal(t, token.MINUS, inner.Op)
}

func TestParseUnaryAndParens(t *testing.T) {
	f, err := parseString(t, "void main() { int x = -(1 + 2); bool b = !true; }")
	require.NoError(t, err)

	decl := f.Funcs[0].Body.Stmts[0].(*ast.DeclStmt)
	neg := decl.Value.(*ast.UnaryExpr)
	require.Equal(t, token.MINUS, neg.Op)
	assert.IsType(t, &ast.ParenExpr{}, neg.Right)

	decl = f.Funcs[0].Body.Stmts[1].(*ast.DeclStmt)
	not := decl.Value.(*ast.UnaryExpr)
	assert.Equal(t, token.BANG, not.Op)
}

func TestParseCalls(t *testing.T) {
	f, err := parseString(t, "void main() { f(); int x = g(1, 2 + 3, h(4)); }")
	require.NoError(t, err)

	stmts := f.Funcs[0].Body.Stmts
	es := stmts[0].(*ast.ExprStmt)
	call := es.X.(*ast.CallExpr)
	assert.Equal(t, "f", call.Name.Name)
	assert.Empty(t, call.Args)

	decl := stmts[1].(*ast.DeclStmt)
	call = decl.Value.(*ast.CallExpr)
	assert.Equal(t, "g", call.Name.Name)
	require.Len(t, call.Args, 3)
	assert.IsType(t, &ast.BinaryExpr{}, call.Args[1])
	assert.IsType(t, &ast.CallExpr{}, call.Args[2])
}

func TestParseCallInExpression(t *testing.T) {
	// an expression statement that starts with an identifier followed by a
	// binary operator
	f, err := parseString(t, "void main() { f() == 2; }")
	require.NoError(t, err)

	es := f.Funcs[0].Body.Stmts[0].(*ast.ExprStmt)
	bin := es.X.(*ast.BinaryExpr)
	assert.Equal(t, token.EQL, bin.Op)
	assert.IsType(t, &ast.CallExpr{}, bin.Left)
}

func TestParseSpans(t *testing.T) {
	src := "void main() { int x = 0; }"
	_, f, err := ParseSource("test.tn", []byte(src))
	require.NoError(t, err)

	start, end := f.Funcs[0].Span()
	assert.Equal(t, src, src[start:end])

	decl := f.Funcs[0].Body.Stmts[0].(*ast.DeclStmt)
	start, end = decl.Span()
	assert.Equal(t, "int x = 0;", src[start:end])
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"int", "expected identifier"},
		{"int f", "expected '('"},
		{"int f(", "expected type"},
		{"int f() {", "expected '}'"},
		{"void f() { int x 1; }", "expected '='"},
		{"void f() { x = ; }", "expected expression"},
		{"void f() { return 1 }", "expected ';'"},
		{"void f() { void x = 1; }", "cannot declare a variable of type void"},
		{"42", "expected type"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			_, err := parseString(t, c.src)
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), c.want), "error %q does not contain %q", err, c.want)
		})
	}
}
