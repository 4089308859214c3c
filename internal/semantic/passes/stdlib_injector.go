package passes

import (
	"github.com/cwbudde/go-dumb/internal/ast"
	"github.com/cwbudde/go-dumb/internal/types"
	"github.com/cwbudde/go-dumb/pkg/token"
)

// builtinFunctions lists every function the standard library provides
// implicitly, independent of user source. Each is injected as an
// external prototype, the same shape a user would write by hand with
// #[external] — this is the only entry today.
var builtinFunctions = []struct {
	name   string
	retTy  types.Type
	params []struct {
		name string
		ty   types.Type
	}
}{
	{
		name:  "print",
		retTy: types.Void,
		params: []struct {
			name string
			ty   types.Type
		}{
			{name: "message", ty: types.Str},
		},
	},
}

// InjectStdlib prepends the standard library's function prototypes to
// tu.Decls, ahead of whatever the user's source declared. It runs once,
// immediately after parsing and before the pass pipeline, so AttrPass
// sees the injected functions as ordinary #[external] declarations.
func InjectStdlib(tu *ast.TranslationUnit) {
	injected := make([]*ast.Function, 0, len(builtinFunctions))
	for _, b := range builtinFunctions {
		injected = append(injected, buildStdlibFunction(b.name, b.retTy, b.params))
	}
	tu.Decls = append(injected, tu.Decls...)
}

func buildStdlibFunction(name string, retTy types.Type, params []struct {
	name string
	ty   types.Type
}) *ast.Function {
	var args []*ast.Argument
	for _, p := range params {
		args = append(args, &ast.Argument{Name: p.name, Ty: p.ty, Loc: ast.At(token.InitialPos)})
	}
	proto := &ast.FunctionProto{
		Name:  name,
		Args:  args,
		RetTy: retTy,
		Attrs: []*ast.Attribute{{Name: "external", Loc: ast.At(token.InitialPos)}},
		Loc:   ast.At(token.InitialPos),
	}
	return &ast.Function{Proto: proto, Loc: ast.At(token.InitialPos)}
}
