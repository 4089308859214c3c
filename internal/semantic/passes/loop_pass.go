package passes

import (
	"github.com/cwbudde/go-dumb/internal/ast"
	cerrors "github.com/cwbudde/go-dumb/internal/errors"
)

// LoopPass rejects break/continue statements that do not appear inside a
// while loop, tracking nesting depth as it walks each function body.
type LoopPass struct {
	depth int
}

func (p *LoopPass) Name() string { return "LoopPass" }

func (p *LoopPass) Run(tu *ast.TranslationUnit, ctx *Context) error {
	for _, fn := range tu.Decls {
		if fn.Body == nil {
			continue
		}
		p.depth = 0
		if err := p.visitBlock(fn.Body); err != nil {
			return err
		}
	}
	return nil
}

func (p *LoopPass) visitBlock(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		if err := p.visitStmt(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (p *LoopPass) visitStmt(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.While:
		p.depth++
		err := p.visitBlock(s.Body)
		p.depth--
		return err
	case *ast.If:
		if err := p.visitBlock(s.Then); err != nil {
			return err
		}
		if s.Otherwise != nil {
			return p.visitStmt(s.Otherwise)
		}
		return nil
	case *ast.Block:
		return p.visitBlock(s)
	case *ast.Break:
		if p.depth == 0 {
			return cerrors.NewSyntaxError("'break' outside of a loop", s.Pos())
		}
	case *ast.Continue:
		if p.depth == 0 {
			return cerrors.NewSyntaxError("'continue' outside of a loop", s.Pos())
		}
	}
	return nil
}
