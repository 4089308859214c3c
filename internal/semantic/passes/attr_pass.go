package passes

import (
	"github.com/cwbudde/go-dumb/internal/ast"
	cerrors "github.com/cwbudde/go-dumb/internal/errors"
)

// AttrPass validates the attribute list on every function declaration:
// a function with no attributes must have a body; a function attributed
// #[external] must have no body and the attribute must take no
// arguments; any other attribute name is unknown.
type AttrPass struct{}

func (p *AttrPass) Name() string { return "AttrPass" }

func (p *AttrPass) Run(tu *ast.TranslationUnit, ctx *Context) error {
	for _, fn := range tu.Decls {
		if err := p.checkFunction(fn); err != nil {
			return err
		}
	}
	return nil
}

func (p *AttrPass) checkFunction(fn *ast.Function) error {
	proto := fn.Proto
	if len(proto.Attrs) == 0 {
		return p.checkNoAttrs(fn)
	}
	return p.checkAttrs(fn)
}

func (p *AttrPass) checkNoAttrs(fn *ast.Function) error {
	if fn.Body == nil {
		return cerrors.NewSyntaxError(
			"function '"+fn.Proto.Name+"' has no body and no attributes", fn.Proto.Pos())
	}
	return nil
}

func (p *AttrPass) checkAttrs(fn *ast.Function) error {
	proto := fn.Proto
	for _, attr := range proto.Attrs {
		switch attr.Name {
		case "external":
			if err := p.checkExternalAttr(fn, attr); err != nil {
				return err
			}
		default:
			return cerrors.NewNameError("unknown attribute '"+attr.Name+"'", attr.Pos())
		}
	}
	return nil
}

// checkExternalAttr rejects the two malformed-attribute-usage shapes, both
// raised as TypeError rather than SyntaxError: an external function with a
// body, and an 'external' attribute written with arguments.
func (p *AttrPass) checkExternalAttr(fn *ast.Function, attr *ast.Attribute) error {
	if fn.Body != nil {
		return cerrors.NewTypeError(
			"function '"+fn.Proto.Name+"' is external and must not have a body", attr.Pos())
	}
	if attr.Args != nil {
		return cerrors.NewTypeError("attribute 'external' takes no arguments", attr.Pos())
	}
	return nil
}
