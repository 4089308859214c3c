package passes

import "github.com/cwbudde/go-dumb/internal/ast"

// DeadCodePass truncates every block's statement list right after its
// first unconditional terminator (return/break/continue), discarding
// whatever followed it, then recurses into the statements that remain.
type DeadCodePass struct{}

func (p *DeadCodePass) Name() string { return "DeadCodePass" }

func (p *DeadCodePass) Run(tu *ast.TranslationUnit, ctx *Context) error {
	for _, fn := range tu.Decls {
		if fn.Body != nil {
			p.visitBlock(fn.Body)
		}
	}
	return nil
}

// eliminateDeadCode returns stmts truncated to end at (and include) its
// first terminator, or stmts unchanged if it has none.
func eliminateDeadCode(stmts []ast.Stmt) []ast.Stmt {
	for i, s := range stmts {
		switch s.(type) {
		case *ast.Return, *ast.Break, *ast.Continue:
			return stmts[:i+1]
		}
	}
	return stmts
}

func (p *DeadCodePass) visitBlock(b *ast.Block) {
	b.Stmts = eliminateDeadCode(b.Stmts)
	for _, stmt := range b.Stmts {
		p.visitStmt(stmt)
	}
}

func (p *DeadCodePass) visitStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.While:
		p.visitBlock(s.Body)
	case *ast.If:
		p.visitBlock(s.Then)
		if s.Otherwise != nil {
			p.visitStmt(s.Otherwise)
		}
	case *ast.Block:
		p.visitBlock(s)
	}
}
