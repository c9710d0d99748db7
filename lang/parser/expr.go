package parser

import (
	"github.com/tern-lang/tern/lang/ast"
	"github.com/tern-lang/tern/lang/token"
)

// binary operator precedence, tightest binds highest. Zero means the token is
// not a binary operator.
func binPrec(tok token.Token) int {
	switch tok {
	case token.EQL, token.NEQ:
		return 1
	case token.LT, token.GT, token.LE, token.GE:
		return 2
	case token.PLUS, token.MINUS:
		return 3
	case token.STAR, token.SLASH:
		return 4
	}
	return 0
}

func (p *parser) parseExpr() ast.Expr {
	return p.parseBinaryExpr(1)
}

func (p *parser) parseBinaryExpr(minPrec int) ast.Expr {
	left := p.parseUnaryExpr()
	return p.parseBinaryRHS(left, minPrec)
}

// parseBinaryRHS parses the operator/operand pairs following an already
// parsed left operand, folding them left-associatively while their
// precedence is at least minPrec.
func (p *parser) parseBinaryRHS(left ast.Expr, minPrec int) ast.Expr {
	for {
		prec := binPrec(p.tok)
		if prec < minPrec {
			return left
		}
		op, opPos := p.tok, p.val.Pos
		p.advance()
		right := p.parseBinaryExpr(prec + 1)
		left = &ast.BinaryExpr{Left: left, Op: op, OpPos: opPos, Right: right}
	}
}

func (p *parser) parseUnaryExpr() ast.Expr {
	if p.tok == token.BANG || p.tok == token.MINUS {
		op, opPos := p.tok, p.val.Pos
		p.advance()
		return &ast.UnaryExpr{Op: op, OpPos: opPos, Right: p.parseUnaryExpr()}
	}
	return p.parsePrimaryExpr()
}

func (p *parser) parsePrimaryExpr() ast.Expr {
	switch p.tok {
	case token.LPAREN:
		paren := &ast.ParenExpr{Lparen: p.val.Pos}
		p.advance()
		paren.X = p.parseExpr()
		paren.Rparen = p.expect(token.RPAREN)
		return paren

	case token.IDENT:
		return p.finishOperand(p.parseIdent())

	case token.INTLIT, token.FLTLIT, token.STRLIT, token.TRUE, token.FALSE:
		lit := &ast.LitExpr{Tok: p.tok, Val: p.val}
		p.advance()
		return lit

	default:
		p.errorf(p.val.Pos, "expected expression, found %#v", p.tok)
		return nil
	}
}

// finishOperand turns an already consumed identifier into a primary operand,
// a call expression if an argument list follows, the identifier itself
// otherwise.
func (p *parser) finishOperand(ident *ast.IdentExpr) ast.Expr {
	if p.tok != token.LPAREN {
		return ident
	}
	call := &ast.CallExpr{Name: ident, Lparen: p.val.Pos}
	p.advance()
	for p.tok != token.RPAREN {
		if len(call.Args) > 0 {
			p.expect(token.COMMA)
		}
		call.Args = append(call.Args, p.parseExpr())
	}
	call.Rparen = p.expect(token.RPAREN)
	return call
}

// continueExpr parses the remainder of an expression whose first token, an
// identifier, has already been consumed by the statement parser.
func (p *parser) continueExpr(ident *ast.IdentExpr) ast.Expr {
	left := p.finishOperand(ident)
	return p.parseBinaryRHS(left, 1)
}
