// Package parser implements the parser that transforms source code into a
// parse tree.
package parser

import (
	"fmt"
	"os"

	"github.com/tern-lang/tern/lang/ast"
	"github.com/tern-lang/tern/lang/scanner"
	"github.com/tern-lang/tern/lang/token"
)

// ParseSource parses a single source buffer and returns the file handle for
// position resolution along with the parse tree. The error, if non-nil, is
// guaranteed to be a scanner.ErrorList.
func ParseSource(name string, src []byte) (*token.File, *ast.File, error) {
	var p parser
	p.init(name, src)
	f := p.parseFile()
	f.Name = name
	p.errors.Sort()
	return p.file, f, p.errors.Err()
}

// ParseFiles is a helper function that parses the source files and returns
// the file handles along with the parse trees, grouped by the file at the
// same index. The error, if non-nil, is guaranteed to be a scanner.ErrorList.
func ParseFiles(files ...string) ([]*token.File, []*ast.File, error) {
	var el scanner.ErrorList

	fhs := make([]*token.File, len(files))
	res := make([]*ast.File, len(files))
	for i, file := range files {
		b, err := os.ReadFile(file)
		if err != nil {
			el.Add(token.Position{Filename: file}, err.Error())
			continue
		}
		fh, f, err := ParseSource(file, b)
		fhs[i] = fh
		res[i] = f
		if err != nil {
			el = append(el, err.(scanner.ErrorList)...)
		}
	}
	el.Sort()
	return fhs, res, el.Err()
}

// parser parses a single source file and generates a parse tree. The first
// syntax error aborts parsing: the source language is small enough that
// resynchronization is not worth the complexity.
type parser struct {
	scanner scanner.Scanner
	errors  scanner.ErrorList
	file    *token.File

	// current token
	tok token.Token
	val token.Value
}

// bailout is panicked to abort parsing on the first syntax error, and
// recovered in parseFile.
type bailout struct{}

func (p *parser) init(name string, src []byte) {
	p.file = token.NewFile(name, len(src))
	p.scanner.Init(p.file, src, p.errors.Add)
	p.advance()
}

func (p *parser) advance() {
	p.tok = p.scanner.Scan(&p.val)
	for p.tok == token.COMMENT {
		p.tok = p.scanner.Scan(&p.val)
	}
}

func (p *parser) errorf(pos token.Pos, format string, args ...any) {
	p.errors.Add(p.file.Position(pos), fmt.Sprintf(format, args...))
	panic(bailout{})
}

// expect consumes the current token if it matches tok and returns its
// position, otherwise it reports a syntax error and aborts.
func (p *parser) expect(tok token.Token) token.Pos {
	if p.tok != tok {
		p.errorf(p.val.Pos, "expected %#v, found %#v", tok, p.tok)
	}
	pos := p.val.Pos
	p.advance()
	return pos
}

func (p *parser) parseFile() (f *ast.File) {
	f = &ast.File{}

	defer func() {
		if e := recover(); e != nil {
			if _, ok := e.(bailout); !ok {
				panic(e)
			}
			f.EOF = p.val.Pos
		}
	}()

	for p.tok != token.EOF {
		f.Funcs = append(f.Funcs, p.parseFuncDecl())
	}
	f.EOF = p.val.Pos
	return f
}

// parseType consumes a type keyword. Void is accepted only when allowVoid is
// set (function return types).
func (p *parser) parseType(allowVoid bool) ast.TypeRef {
	if !p.tok.IsType() || (p.tok == token.VOID && !allowVoid) {
		p.errorf(p.val.Pos, "expected type, found %#v", p.tok)
	}
	ref := ast.TypeRef{Tok: p.tok, Pos: p.val.Pos}
	p.advance()
	return ref
}

func (p *parser) parseIdent() *ast.IdentExpr {
	if p.tok != token.IDENT {
		p.errorf(p.val.Pos, "expected identifier, found %#v", p.tok)
	}
	ident := &ast.IdentExpr{Start: p.val.Pos, Name: p.val.Raw}
	p.advance()
	return ident
}

func (p *parser) parseFuncDecl() *ast.FuncDecl {
	fn := &ast.FuncDecl{}
	fn.Type = p.parseType(true)
	fn.Name = p.parseIdent()
	p.expect(token.LPAREN)
	for p.tok != token.RPAREN {
		if len(fn.Params) > 0 {
			p.expect(token.COMMA)
		}
		param := &ast.ParamDecl{}
		param.Type = p.parseType(false)
		param.Name = p.parseIdent()
		fn.Params = append(fn.Params, param)
	}
	fn.Rparen = p.expect(token.RPAREN)
	fn.Body = p.parseBlock()
	return fn
}

func (p *parser) parseBlock() *ast.Block {
	b := &ast.Block{}
	b.Lbrace = p.expect(token.LBRACE)
	for p.tok != token.RBRACE && p.tok != token.EOF {
		b.Stmts = append(b.Stmts, p.parseStmt())
	}
	b.Rbrace = p.expect(token.RBRACE)
	return b
}
