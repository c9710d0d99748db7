package ast

import (
	"fmt"
	"io"

	"github.com/tern-lang/tern/lang/token"
)

// Printer writes an indented textual representation of a parse tree. It is
// used by the parse command of the CLI and by tests.
type Printer struct {
	Output io.Writer

	// File resolves node positions; if nil, positions are not printed.
	File *token.File

	depth int
	err   error
}

// Print writes the tree rooted at n to the printer's output. It returns the
// first write error encountered, if any.
func (p *Printer) Print(n Node) error {
	p.depth = 0
	p.err = nil
	p.node(n)
	return p.err
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	for i := 0; i < p.depth; i++ {
		if _, err := io.WriteString(p.Output, "  "); err != nil {
			p.err = err
			return
		}
	}
	_, p.err = fmt.Fprintf(p.Output, format+"\n", args...)
}

func (p *Printer) pos(n Node) string {
	if p.File == nil {
		return ""
	}
	start, _ := n.Span()
	pos := p.File.Position(start)
	return fmt.Sprintf(" [%d:%d]", pos.Line, pos.Col)
}

func (p *Printer) nested(fn func()) {
	p.depth++
	fn()
	p.depth--
}

func (p *Printer) node(n Node) {
	switch n := n.(type) {
	case *File:
		p.printf("file %s (%d functions)", n.Name, len(n.Funcs))
		p.nested(func() {
			for _, fn := range n.Funcs {
				p.node(fn)
			}
		})

	case *FuncDecl:
		p.printf("func %s %s/%d%s", n.Type.Tok, n.Name.Name, len(n.Params), p.pos(n))
		p.nested(func() {
			for _, param := range n.Params {
				p.printf("param %s %s", param.Type.Tok, param.Name.Name)
			}
			p.node(n.Body)
		})

	case *Block:
		p.printf("block (%d statements)%s", len(n.Stmts), p.pos(n))
		p.nested(func() {
			for _, stmt := range n.Stmts {
				p.node(stmt)
			}
		})

	case *DeclStmt:
		p.printf("declare %s %s%s", n.Type.Tok, n.Name.Name, p.pos(n))
		p.nested(func() { p.node(n.Value) })

	case *AssignStmt:
		p.printf("assign %s%s", n.Name.Name, p.pos(n))
		p.nested(func() { p.node(n.Value) })

	case *ReturnStmt:
		p.printf("return%s", p.pos(n))
		if n.Value != nil {
			p.nested(func() { p.node(n.Value) })
		}

	case *IfStmt:
		p.printf("if%s", p.pos(n))
		p.nested(func() {
			p.node(n.Cond)
			p.node(n.Body)
		})

	case *WhileStmt:
		p.printf("while%s", p.pos(n))
		p.nested(func() {
			p.node(n.Cond)
			p.node(n.Body)
		})

	case *ExprStmt:
		p.printf("expression statement%s", p.pos(n))
		p.nested(func() { p.node(n.X) })

	case *BinaryExpr:
		p.printf("binary %s", n.Op)
		p.nested(func() {
			p.node(n.Left)
			p.node(n.Right)
		})

	case *UnaryExpr:
		p.printf("unary %s", n.Op)
		p.nested(func() { p.node(n.Right) })

	case *ParenExpr:
		p.printf("paren")
		p.nested(func() { p.node(n.X) })

	case *CallExpr:
		p.printf("call %s (%d arguments)", n.Name.Name, len(n.Args))
		p.nested(func() {
			for _, arg := range n.Args {
				p.node(arg)
			}
		})

	case *IdentExpr:
		p.printf("ident %s", n.Name)

	case *LitExpr:
		p.printf("literal %s %s", n.Tok, n.Val.Raw)

	default:
		p.printf("unknown node %T", n)
	}
}
