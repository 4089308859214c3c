// Package ast defines the tagged-node AST shared by the parser and the
// semantic passes. Nodes are plain structs, not an interface hierarchy with
// generated Accept methods: passes type-switch over concrete *ast.X pointers,
// the same idiom this codebase's own semantic passes use.
package ast

import (
	"github.com/cwbudde/go-dumb/internal/types"
	"github.com/cwbudde/go-dumb/pkg/token"
)

// Node is implemented by every AST node; it exposes the node's source
// location for diagnostics.
type Node interface {
	Pos() token.Position
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Decl is implemented by every top-level declaration node.
type Decl interface {
	Node
	declNode()
}

// Loc carries the location every node has; embedding it satisfies Pos().
// Node literals set it as Loc: ast.At(pos).
type Loc struct {
	Position token.Position
}

func (l Loc) Pos() token.Position { return l.Position }

// At builds a Loc from a source position; every node literal sets its
// embedded Loc field this way.
func At(pos token.Position) Loc { return Loc{Position: pos} }

// ---------------------------------------------------------------- Expressions

// BinaryOp is `left op right`.
type BinaryOp struct {
	Loc
	Op    types.Operator
	Left  Expr
	Right Expr
	Ty    types.Type // set by TypePass; zero value until then
}

// Assignment is `lvalue = rvalue` or, for a compound form like `x += 1`,
// carries the implied arithmetic/bitwise Op.
type Assignment struct {
	Loc
	Lvalue Expr
	Rvalue Expr
	Op     types.Operator
	HasOp  bool // false for plain '=', true for a compound-assignment form
	Ty     types.Type
}

// UnaryOp is `op value` for one of ~, !, unary + or unary -.
type UnaryOp struct {
	Loc
	Op    types.Operator
	Value Expr
	Ty    types.Type
}

// Cast is an explicit `value as DstTy` expression, or a TypePass-inserted
// implicit conversion. SrcTy is unset (Type{}) until TypePass fills it.
type Cast struct {
	Loc
	Value Expr
	SrcTy types.Type
	DstTy types.Type
}

// IntegerConstant is an integer literal; its resolved type is always i32.
type IntegerConstant struct {
	Loc
	Value int64
}

// FloatConstant is a floating-point literal; its resolved type is always f32.
type FloatConstant struct {
	Loc
	Value float64
}

// BooleanConstant is `true` or `false`.
type BooleanConstant struct {
	Loc
	Value bool
}

// StringConstant is a string literal with quotes stripped and escapes resolved.
type StringConstant struct {
	Loc
	Value string
}

// Identifier is a bare name reference, used both as an expression and as
// the only valid lvalue kind.
type Identifier struct {
	Loc
	Name string
}

// FuncCall is `name(args...)`.
type FuncCall struct {
	Loc
	Name string
	Args []Expr
}

func (*BinaryOp) exprNode()        {}
func (*Assignment) exprNode()      {}
func (*UnaryOp) exprNode()         {}
func (*Cast) exprNode()            {}
func (*IntegerConstant) exprNode() {}
func (*FloatConstant) exprNode()   {}
func (*BooleanConstant) exprNode() {}
func (*StringConstant) exprNode()  {}
func (*Identifier) exprNode()      {}
func (*FuncCall) exprNode()        {}

// ---------------------------------------------------------------- Statements

// Block is `{ stmts... }`. DeadCodePass truncates Stmts in place.
type Block struct {
	Loc
	Stmts []Stmt
}

// If is `if cond then` with an optional `else otherwise`.
type If struct {
	Loc
	Cond      Expr
	Then      *Block
	Otherwise Stmt // *Block or *If (else-if chaining), nil if absent
}

// While is `while cond body`.
type While struct {
	Loc
	Cond Expr
	Body *Block
}

// Break is a `break` statement.
type Break struct{ Loc }

// Continue is a `continue` statement.
type Continue struct{ Loc }

// Return is `return` or `return value`.
type Return struct {
	Loc
	Value Expr // nil if no value was given
}

// Var is `var name [: ty] = initial_value`. Ty is the zero Type until an
// annotation is parsed or TypePass fills it in from the initializer.
type Var struct {
	Loc
	Name         string
	Ty           types.Type
	HasTy        bool // true iff an explicit ': type' annotation was written
	InitialValue Expr
}

// Expression is an expression evaluated for its side effect (e.g. a call).
type Expression struct {
	Loc
	Expr Expr
}

func (*Block) stmtNode()      {}
func (*If) stmtNode()         {}
func (*While) stmtNode()      {}
func (*Break) stmtNode()      {}
func (*Continue) stmtNode()   {}
func (*Return) stmtNode()     {}
func (*Var) stmtNode()        {}
func (*Expression) stmtNode() {}

// ------------------------------------------------------------- Declarations

// Attribute is `name` or `name(args...)` inside a `#[...]` block.
type Attribute struct {
	Loc
	Name string
	Args []Expr // nil iff the attribute was written without parens
}

// Argument is a single `name: ty` entry in a function's parameter list.
type Argument struct {
	Loc
	Name string
	Ty   types.Type
}

// FunctionProto is a function's signature, independent of its body.
type FunctionProto struct {
	Loc
	Name   string
	Args   []*Argument
	RetTy  types.Type
	Attrs  []*Attribute // nil iff no '#[...]' block precedes the function
}

// Function is a top-level function declaration. Body is nil iff the
// function is external (prototype-only).
type Function struct {
	Loc
	Proto *FunctionProto
	Body  *Block
}

// TranslationUnit is the AST root for a single source file. Its Loc is
// always token.InitialPos.
type TranslationUnit struct {
	Loc
	Decls []*Function
}

func (*Function) declNode()        {}
func (*TranslationUnit) declNode() {}

// NewTranslationUnit builds an empty root with the canonical (1,1,0) location.
func NewTranslationUnit(decls []*Function) *TranslationUnit {
	return &TranslationUnit{Loc: At(token.InitialPos), Decls: decls}
}
