// Package ast defines the types to represent the parse tree of the language.
// The node set is closed: the compiler walks the tree with exhaustive type
// switches, there is no open-world inheritance.
package ast

import "github.com/tern-lang/tern/lang/token"

// Node represents any node in the parse tree.
type Node interface {
	// Span reports the start position of the node and the position of the
	// first byte after the node.
	Span() (start, end token.Pos)
}

// Expr represents an expression in the parse tree.
type Expr interface {
	Node
	expr()
}

// Stmt represents a statement in the parse tree.
type Stmt interface {
	Node
	stmt()
}

// TypeRef is a reference to a type keyword in a declaration. It is not a
// standalone node, it is always part of a declaration.
type TypeRef struct {
	Tok token.Token // VOID, BOOL, INT, FLOAT or STRING
	Pos token.Pos
}

// Span reports the start and end position of the type keyword.
func (t TypeRef) Span() (start, end token.Pos) {
	return t.Pos, t.Pos + token.Pos(len(t.Tok.String()))
}

type (
	// File is the root of a parse tree, a sequence of function declarations.
	File struct {
		// Name is the filename, which may be empty if the source is not a file.
		Name  string
		Funcs []*FuncDecl
		EOF   token.Pos // position of the EOF marker
	}

	// FuncDecl represents a function declaration, return type, name,
	// parameter list and body.
	FuncDecl struct {
		Type   TypeRef
		Name   *IdentExpr
		Params []*ParamDecl
		Rparen token.Pos
		Body   *Block
	}

	// ParamDecl represents a single function parameter.
	ParamDecl struct {
		Type TypeRef
		Name *IdentExpr
	}

	// Block represents a braced block of statements. A block is itself a
	// valid statement.
	Block struct {
		Lbrace token.Pos
		Stmts  []Stmt
		Rbrace token.Pos
	}

	// ====================
	// STATEMENTS
	// ====================

	// DeclStmt represents a variable declaration with its mandatory
	// initializer, e.g. int x = 0;
	DeclStmt struct {
		Type  TypeRef
		Name  *IdentExpr
		Value Expr
		Semi  token.Pos
	}

	// AssignStmt represents an assignment to a declared variable, e.g.
	// x = x + 1;
	AssignStmt struct {
		Name  *IdentExpr
		Value Expr
		Semi  token.Pos
	}

	// ReturnStmt represents a return statement with an optional value.
	ReturnStmt struct {
		Return token.Pos
		Value  Expr // nil for a bare return
		Semi   token.Pos
	}

	// IfStmt represents an if statement. The language has no else clause.
	IfStmt struct {
		If   token.Pos
		Cond Expr
		Body *Block
	}

	// WhileStmt represents a while loop.
	WhileStmt struct {
		While token.Pos
		Cond  Expr
		Body  *Block
	}

	// ExprStmt represents an expression used as a statement, e.g. a call
	// whose result is discarded.
	ExprStmt struct {
		X    Expr
		Semi token.Pos
	}

	// ====================
	// EXPRESSIONS
	// ====================

	// BinaryExpr represents a binary operator expression.
	BinaryExpr struct {
		Left  Expr
		Op    token.Token
		OpPos token.Pos
		Right Expr
	}

	// UnaryExpr represents a unary operator expression.
	UnaryExpr struct {
		Op    token.Token // BANG or MINUS
		OpPos token.Pos
		Right Expr
	}

	// ParenExpr represents a parenthesized expression.
	ParenExpr struct {
		Lparen token.Pos
		X      Expr
		Rparen token.Pos
	}

	// CallExpr represents a function call.
	CallExpr struct {
		Name   *IdentExpr
		Lparen token.Pos
		Args   []Expr
		Rparen token.Pos
	}

	// IdentExpr represents an identifier used as an expression.
	IdentExpr struct {
		Start token.Pos
		Name  string
	}

	// LitExpr represents a literal value. Tok is one of INTLIT, FLTLIT,
	// STRLIT, TRUE or FALSE and Val carries the decoded value.
	LitExpr struct {
		Tok token.Token
		Val token.Value
	}
)

func (n *File) Span() (start, end token.Pos) {
	if len(n.Funcs) == 0 {
		return n.EOF, n.EOF
	}
	start, _ = n.Funcs[0].Span()
	return start, n.EOF
}

func (n *FuncDecl) Span() (start, end token.Pos) {
	start, _ = n.Type.Span()
	_, end = n.Body.Span()
	return start, end
}

func (n *ParamDecl) Span() (start, end token.Pos) {
	start, _ = n.Type.Span()
	_, end = n.Name.Span()
	return start, end
}

func (n *Block) Span() (start, end token.Pos) {
	return n.Lbrace, n.Rbrace + 1
}

func (n *DeclStmt) Span() (start, end token.Pos) {
	start, _ = n.Type.Span()
	return start, n.Semi + 1
}

func (n *AssignStmt) Span() (start, end token.Pos) {
	start, _ = n.Name.Span()
	return start, n.Semi + 1
}

func (n *ReturnStmt) Span() (start, end token.Pos) {
	return n.Return, n.Semi + 1
}

func (n *IfStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.If, end
}

func (n *WhileStmt) Span() (start, end token.Pos) {
	_, end = n.Body.Span()
	return n.While, end
}

func (n *ExprStmt) Span() (start, end token.Pos) {
	start, _ = n.X.Span()
	return start, n.Semi + 1
}

func (n *BinaryExpr) Span() (start, end token.Pos) {
	start, _ = n.Left.Span()
	_, end = n.Right.Span()
	return start, end
}

func (n *UnaryExpr) Span() (start, end token.Pos) {
	_, end = n.Right.Span()
	return n.OpPos, end
}

func (n *ParenExpr) Span() (start, end token.Pos) {
	return n.Lparen, n.Rparen + 1
}

func (n *CallExpr) Span() (start, end token.Pos) {
	start, _ = n.Name.Span()
	return start, n.Rparen + 1
}

func (n *IdentExpr) Span() (start, end token.Pos) {
	return n.Start, n.Start + token.Pos(len(n.Name))
}

func (n *LitExpr) Span() (start, end token.Pos) {
	return n.Val.Pos, n.Val.Pos + token.Pos(len(n.Val.Raw))
}

func (*Block) stmt()      {}
func (*DeclStmt) stmt()   {}
func (*AssignStmt) stmt() {}
func (*ReturnStmt) stmt() {}
func (*IfStmt) stmt()     {}
func (*WhileStmt) stmt()  {}
func (*ExprStmt) stmt()   {}

func (*BinaryExpr) expr() {}
func (*UnaryExpr) expr()  {}
func (*ParenExpr) expr()  {}
func (*CallExpr) expr()   {}
func (*IdentExpr) expr()  {}
func (*LitExpr) expr()    {}
