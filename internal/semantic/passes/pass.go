// Package passes implements the semantic-analysis stages: InjectStdlib,
// which the caller runs once on the parsed AST, and the fixed pipeline of
// TypePass, LoopPass, DeadCodePass, AttrPass and MainFuncPass, run in that
// exact order by Manager.Run.
package passes

import (
	"github.com/cwbudde/go-dumb/internal/ast"
	"github.com/cwbudde/go-dumb/internal/semantic"
	"github.com/cwbudde/go-dumb/internal/types"
)

// Pass is one stage of semantic analysis. Each pass walks the whole
// translation unit, possibly mutating it in place, and reports the first
// error it encounters.
type Pass interface {
	Name() string
	Run(tu *ast.TranslationUnit, ctx *Context) error
}

// Context is the mutable state threaded through every pass: the function
// table (filled by TypePass's pre-scan), the current variable-type
// environment, and whichever function is presently being visited (needed
// to type-check its return statements against its declared return type).
type Context struct {
	Funcs           *semantic.SymbolTable[*ast.FunctionProto]
	Vars            *semantic.SymbolTable[types.Type]
	CurrentFunction *ast.FunctionProto
}

// NewContext returns a Context with both symbol tables holding a single,
// empty global scope.
func NewContext() *Context {
	c := &Context{
		Funcs: semantic.NewSymbolTable[*ast.FunctionProto](),
		Vars:  semantic.NewSymbolTable[types.Type](),
	}
	c.Funcs.Push()
	c.Vars.Push()
	return c
}

// Manager runs a fixed sequence of passes over a translation unit,
// stopping at the first pass that returns an error.
type Manager struct {
	Passes []Pass
}

// NewManager builds the fixed pipeline: TypePass, LoopPass, DeadCodePass,
// AttrPass, MainFuncPass. TypePass runs first; the types and casts it
// records are not read by any later pass here but stay on the tree for a
// backend. AttrPass only inspects whether a body is present, so it is safe
// to run after DeadCodePass has pruned statements. StdlibInjector is not part of this
// list — it runs once, before the pipeline, directly against the parsed
// AST.
func NewManager() *Manager {
	return &Manager{
		Passes: []Pass{
			&TypePass{},
			&LoopPass{},
			&DeadCodePass{},
			&AttrPass{},
			&MainFuncPass{},
		},
	}
}

// Run executes every pass in order against tu, sharing one Context across
// all of them, and returns the first error any pass reports. The optional
// onPass hook, if non-nil, is invoked with each pass's Name() immediately
// before it runs — a synchronous, zero-allocation-when-nil seam for a
// driver that wants to observe progress without this package importing a
// logging library of its own.
func (m *Manager) Run(tu *ast.TranslationUnit, onPass ...func(string)) error {
	var hook func(string)
	if len(onPass) > 0 {
		hook = onPass[0]
	}
	ctx := NewContext()
	for _, p := range m.Passes {
		if hook != nil {
			hook(p.Name())
		}
		if err := p.Run(tu, ctx); err != nil {
			return err
		}
	}
	return nil
}
