package parser

import (
	"github.com/tern-lang/tern/lang/ast"
	"github.com/tern-lang/tern/lang/token"
)

func (p *parser) parseStmt() ast.Stmt {
	switch p.tok {
	case token.LBRACE:
		return p.parseBlock()

	case token.RETURN:
		return p.parseReturnStmt()

	case token.IF:
		stmt := &ast.IfStmt{If: p.val.Pos}
		p.advance()
		p.expect(token.LPAREN)
		stmt.Cond = p.parseExpr()
		p.expect(token.RPAREN)
		stmt.Body = p.parseBlock()
		return stmt

	case token.WHILE:
		stmt := &ast.WhileStmt{While: p.val.Pos}
		p.advance()
		p.expect(token.LPAREN)
		stmt.Cond = p.parseExpr()
		p.expect(token.RPAREN)
		stmt.Body = p.parseBlock()
		return stmt

	case token.BOOL, token.INT, token.FLOAT, token.STRING:
		return p.parseDeclStmt()

	case token.VOID:
		p.errorf(p.val.Pos, "cannot declare a variable of type void")
		return nil

	case token.IDENT:
		// assignment or expression statement, decided by the token that
		// follows the identifier
		return p.parseIdentStmt()

	default:
		stmt := &ast.ExprStmt{X: p.parseExpr()}
		stmt.Semi = p.expect(token.SEMI)
		return stmt
	}
}

func (p *parser) parseReturnStmt() *ast.ReturnStmt {
	stmt := &ast.ReturnStmt{Return: p.val.Pos}
	p.advance()
	if p.tok != token.SEMI {
		stmt.Value = p.parseExpr()
	}
	stmt.Semi = p.expect(token.SEMI)
	return stmt
}

func (p *parser) parseDeclStmt() *ast.DeclStmt {
	stmt := &ast.DeclStmt{}
	stmt.Type = p.parseType(false)
	stmt.Name = p.parseIdent()
	p.expect(token.ASSIGN)
	stmt.Value = p.parseExpr()
	stmt.Semi = p.expect(token.SEMI)
	return stmt
}

func (p *parser) parseIdentStmt() ast.Stmt {
	ident := p.parseIdent()

	if p.tok == token.ASSIGN {
		stmt := &ast.AssignStmt{Name: ident}
		p.advance()
		stmt.Value = p.parseExpr()
		stmt.Semi = p.expect(token.SEMI)
		return stmt
	}

	// not an assignment: the identifier starts an expression statement
	stmt := &ast.ExprStmt{X: p.continueExpr(ident)}
	stmt.Semi = p.expect(token.SEMI)
	return stmt
}
