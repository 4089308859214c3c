// Package dumb wires the lexer, parser and semantic passes into a single
// entry point: Compile turns one source file into a validated, typed AST,
// or the first compiler error encountered along the way. In that AST the
// BinaryOp, UnaryOp and Assignment nodes carry their resolved Ty and every
// implicit conversion is a Cast node; literal, Identifier and FuncCall
// nodes have no Ty field.
package dumb

import (
	"github.com/cwbudde/go-dumb/internal/ast"
	cerrors "github.com/cwbudde/go-dumb/internal/errors"
	"github.com/cwbudde/go-dumb/internal/lexer"
	"github.com/cwbudde/go-dumb/internal/parser"
	"github.com/cwbudde/go-dumb/internal/semantic/passes"
	"github.com/cwbudde/go-dumb/pkg/token"
)

// SourceFile is a named chunk of source text; Filename is used only for
// diagnostics, never to resolve imports (the language has none).
type SourceFile struct {
	Filename string
	Text     string
}

// Diagnostics is the sink Compile reports to as it works. Rendering
// (colors, source-line windows) is entirely the sink's concern; the
// trailing positions slice carries zero or one element.
type Diagnostics interface {
	Info(msg string, pos ...token.Position)
	Warning(msg string, pos ...token.Position)
	Error(msg string, pos ...token.Position)
}

// Option configures a Compile call.
type Option func(*options)

type options struct {
	skipStdlibInjection bool
	diag                Diagnostics
}

// WithDiagnostics routes every diagnostic Compile produces into sink, in
// addition to the error value Compile returns.
func WithDiagnostics(sink Diagnostics) Option {
	return func(o *options) { o.diag = sink }
}

// SkipStdlibInjection omits the implicit standard-library prototypes
// (currently just 'print'), useful for tests that want to exercise
// NameError on an undefined function without stdlib noise.
func SkipStdlibInjection() Option {
	return func(o *options) { o.skipStdlibInjection = true }
}

// Compile runs the full pipeline — lex, parse, inject stdlib, then the
// TypePass/LoopPass/DeadCodePass/AttrPass/MainFuncPass sequence — over
// src and returns the resulting typed AST. The first error from any
// stage aborts the pipeline and is returned as-is (it is always an
// *errors.CompilerError from internal/errors).
func Compile(src SourceFile, opts ...Option) (*ast.TranslationUnit, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	lx, err := lexer.New(src.Text)
	if err != nil {
		return nil, o.report(err)
	}

	ps := parser.New(lx)
	tu := ps.ParseTranslationUnit()
	// A scan failure poisons the token stream, so the lexer's ValueError
	// takes precedence over whatever SyntaxError the parser derived from
	// the resulting ILLEGAL token.
	if errs := lx.Errors(); len(errs) > 0 {
		return nil, o.report(errs[0])
	}
	if errs := ps.Errors(); len(errs) > 0 {
		return nil, o.report(errs[0])
	}

	if !o.skipStdlibInjection {
		passes.InjectStdlib(tu)
	}

	if err := passes.NewManager().Run(tu); err != nil {
		return nil, o.report(err)
	}
	return tu, nil
}

// report forwards err to the diagnostics sink, if one was configured, and
// returns it unchanged.
func (o *options) report(err error) error {
	if o.diag == nil {
		return err
	}
	if ce, ok := err.(*cerrors.CompilerError); ok && ce.HasPos {
		o.diag.Error(ce.Message, ce.Pos)
	} else if ok {
		o.diag.Error(ce.Message)
	} else {
		o.diag.Error(err.Error())
	}
	return err
}

// FuncTable returns the resolved function table for a compiled translation
// unit: every declaration keyed by name, the same objects referenced from
// the AST. A backend uses it to resolve call targets without re-walking
// Decls.
func FuncTable(tu *ast.TranslationUnit) map[string]*ast.Function {
	table := make(map[string]*ast.Function, len(tu.Decls))
	for _, fn := range tu.Decls {
		table[fn.Proto.Name] = fn
	}
	return table
}
