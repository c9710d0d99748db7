package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tern-lang/tern/lang/token"
)

func scanAll(t *testing.T, src string) ([]TokenAndValue, error) {
	t.Helper()
	_, toks, err := ScanSource("test.tn", []byte(src))
	return toks, err
}

func TestScanTokens(t *testing.T) {
	toks, err := scanAll(t, `int main() { return x + 1; }`)
	require.NoError(t, err)

	want := []token.Token{
		token.INT, token.IDENT, token.LPAREN, token.RPAREN, token.LBRACE,
		token.RETURN, token.IDENT, token.PLUS, token.INTLIT, token.SEMI,
		token.RBRACE, token.EOF,
	}
	got := make([]token.Token, len(toks))
	for i, tv := range toks {
		got[i] = tv.Token
	}
	assert.Equal(t, want, got)
}

func TestScanOperators(t *testing.T) {
	toks, err := scanAll(t, "== != <= >= < > = ! * / - ,")
	require.NoError(t, err)

	want := []token.Token{
		token.EQL, token.NEQ, token.LE, token.GE, token.LT, token.GT,
		token.ASSIGN, token.BANG, token.STAR, token.SLASH, token.MINUS,
		token.COMMA, token.EOF,
	}
	got := make([]token.Token, len(toks))
	for i, tv := range toks {
		got[i] = tv.Token
	}
	assert.Equal(t, want, got)
}

func TestScanNumbers(t *testing.T) {
	toks, err := scanAll(t, "0 123 1.5 0.25 7.")
	require.NoError(t, err)

	assert.Equal(t, token.INTLIT, toks[0].Token)
	assert.Equal(t, int32(0), toks[0].Value.Int)
	assert.Equal(t, token.INTLIT, toks[1].Token)
	assert.Equal(t, int32(123), toks[1].Value.Int)
	assert.Equal(t, token.FLTLIT, toks[2].Token)
	assert.Equal(t, float32(1.5), toks[2].Value.Float)
	assert.Equal(t, token.FLTLIT, toks[3].Token)
	assert.Equal(t, float32(0.25), toks[3].Value.Float)
	assert.Equal(t, token.FLTLIT, toks[4].Token)
	assert.Equal(t, "7.", toks[4].Value.Raw)
}

func TestScanStrings(t *testing.T) {
	toks, err := scanAll(t, `"hello" "" "a\nb" "q\"q"`)
	require.NoError(t, err)

	require.Equal(t, 5, len(toks))
	assert.Equal(t, token.STRLIT, toks[0].Token)
	assert.Equal(t, "hello", toks[0].Value.Str)
	assert.Equal(t, `"hello"`, toks[0].Value.Raw)
	assert.Equal(t, "", toks[1].Value.Str)
	assert.Equal(t, "a\nb", toks[2].Value.Str)
	assert.Equal(t, `q"q`, toks[3].Value.Str)
}

func TestScanComments(t *testing.T) {
	toks, err := scanAll(t, "x // trailing\n/* block\ncomment */ y")
	require.NoError(t, err)

	var kinds []token.Token
	for _, tv := range toks {
		kinds = append(kinds, tv.Token)
	}
	assert.Equal(t, []token.Token{token.IDENT, token.COMMENT, token.COMMENT, token.IDENT, token.EOF}, kinds)
}

func TestScanPositions(t *testing.T) {
	file, toks, err := ScanSource("test.tn", []byte("int x\n  = 1"))
	require.NoError(t, err)

	pos := file.Position(toks[2].Value.Pos) // =
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 3, pos.Col)
	pos = file.Position(toks[3].Value.Pos) // 1
	assert.Equal(t, 2, pos.Line)
	assert.Equal(t, 5, pos.Col)
}

func TestScanErrors(t *testing.T) {
	_, err := scanAll(t, `"unterminated`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminated")

	_, err = scanAll(t, "/* never closed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not terminated")

	_, err = scanAll(t, "a § b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "illegal character")

	_, err = scanAll(t, "9999999999999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestScanKeywordsVsIdents(t *testing.T) {
	toks, err := scanAll(t, "if iff while whiles true truex")
	require.NoError(t, err)

	want := []token.Token{
		token.IF, token.IDENT, token.WHILE, token.IDENT, token.TRUE,
		token.IDENT, token.EOF,
	}
	got := make([]token.Token, len(toks))
	for i, tv := range toks {
		got[i] = tv.Token
	}
	assert.Equal(t, want, got)
}
