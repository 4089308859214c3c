package passes

import (
	"github.com/cwbudde/go-dumb/internal/ast"
	cerrors "github.com/cwbudde/go-dumb/internal/errors"
	"github.com/cwbudde/go-dumb/internal/types"
)

// MainFuncPass requires a top-level function named 'main' returning i32.
type MainFuncPass struct{}

func (p *MainFuncPass) Name() string { return "MainFuncPass" }

func (p *MainFuncPass) Run(tu *ast.TranslationUnit, ctx *Context) error {
	for _, fn := range tu.Decls {
		if fn.Proto.Name != "main" {
			continue
		}
		if fn.Proto.RetTy != types.I32 {
			return cerrors.NewTypeError("'main' must return i32", fn.Proto.Pos())
		}
		return nil
	}
	return cerrors.NewNameError("missing 'main' function", tu.Pos())
}
