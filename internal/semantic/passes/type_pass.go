package passes

import (
	"fmt"

	"github.com/cwbudde/go-dumb/internal/ast"
	cerrors "github.com/cwbudde/go-dumb/internal/errors"
	"github.com/cwbudde/go-dumb/internal/types"
	"github.com/cwbudde/go-dumb/pkg/token"
)

// TypePass resolves the type of every expression, validates every
// operator's operand types, inserts implicit conversions where the
// conversion/promotion tables in internal/types allow them, and checks
// every return statement against its enclosing function's declared
// return type. It runs first in the pipeline; the later passes do not
// read the types it records.
type TypePass struct{}

func (p *TypePass) Name() string { return "TypePass" }

func (p *TypePass) Run(tu *ast.TranslationUnit, ctx *Context) error {
	if err := p.populateFuncTable(tu, ctx); err != nil {
		return err
	}
	for _, fn := range tu.Decls {
		if fn.Body == nil {
			continue
		}
		prev := ctx.CurrentFunction
		ctx.CurrentFunction = fn.Proto
		ctx.Vars.Push()
		argErr := p.registerArgs(fn.Proto, ctx)
		var err error
		if argErr == nil {
			err = p.visitBlock(fn.Body, ctx)
		} else {
			err = argErr
		}
		ctx.Vars.Pop()
		ctx.CurrentFunction = prev
		if err != nil {
			return err
		}
	}
	return nil
}

// populateFuncTable registers every declared function's signature before
// any body is visited, so forward references to functions declared later
// in the file resolve correctly.
func (p *TypePass) populateFuncTable(tu *ast.TranslationUnit, ctx *Context) error {
	for _, fn := range tu.Decls {
		if ctx.Funcs.Has(fn.Proto.Name) {
			return cerrors.NewNameError("function '"+fn.Proto.Name+"' redeclared", fn.Proto.Pos())
		}
		ctx.Funcs.Set(fn.Proto.Name, fn.Proto)
	}
	return nil
}

// registerArgs binds every argument of proto into the current (innermost)
// scope, rejecting a duplicate argument name or a void-typed argument.
func (p *TypePass) registerArgs(proto *ast.FunctionProto, ctx *Context) error {
	for _, arg := range proto.Args {
		if ctx.Vars.Has(arg.Name) {
			return cerrors.NewNameError("duplicate argument '"+arg.Name+"'", arg.Pos())
		}
		if arg.Ty == types.Void {
			return cerrors.NewTypeError("argument '"+arg.Name+"' cannot be void", arg.Pos())
		}
		ctx.Vars.Set(arg.Name, arg.Ty)
	}
	return nil
}

// ------------------------------------------------------------------ blocks

func (p *TypePass) visitBlock(b *ast.Block, ctx *Context) error {
	ctx.Vars.Push()
	defer ctx.Vars.Pop()
	for _, stmt := range b.Stmts {
		if err := p.visitStmt(stmt, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (p *TypePass) visitStmt(stmt ast.Stmt, ctx *Context) error {
	switch s := stmt.(type) {
	case *ast.Var:
		return p.visitVar(s, ctx)
	case *ast.Expression:
		_, err := p.visitExpr(&s.Expr, ctx)
		return err
	case *ast.If:
		return p.visitIf(s, ctx)
	case *ast.While:
		return p.visitWhile(s, ctx)
	case *ast.Return:
		return p.visitReturn(s, ctx)
	case *ast.Block:
		return p.visitBlock(s, ctx)
	case *ast.Break, *ast.Continue:
		return nil
	}
	return nil
}

// visitVar type-checks a `var name [: ty] = initial_value` statement and
// registers name in the current (innermost) scope. Shadowing an outer
// binding is permitted — registration always writes to the top frame,
// the same way a nested block may shadow a parameter.
func (p *TypePass) visitVar(s *ast.Var, ctx *Context) error {
	initTy, err := p.visitExpr(&s.InitialValue, ctx)
	if err != nil {
		return err
	}
	if !s.HasTy {
		s.Ty = initTy
		ctx.Vars.Set(s.Name, s.Ty)
		return nil
	}
	if !types.IsVarType(s.Ty) {
		return cerrors.NewTypeError(
			fmt.Sprintf("'%s' is not a valid variable type", s.Ty), s.Pos())
	}
	if s.Ty != initTy {
		if _, ok := types.Promotion(initTy, s.Ty); !ok {
			return cerrors.NewTypeError(
				fmt.Sprintf("cannot initialize '%s' of type %s with value of type %s", s.Name, s.Ty, initTy),
				s.Pos())
		}
		s.InitialValue = insertCast(s.InitialValue, initTy, s.Ty)
	}
	ctx.Vars.Set(s.Name, s.Ty)
	return nil
}

func (p *TypePass) visitIf(s *ast.If, ctx *Context) error {
	condTy, err := p.visitExpr(&s.Cond, ctx)
	if err != nil {
		return err
	}
	if condTy != types.Bool {
		return cerrors.NewTypeError("'if' condition must be bool", s.Cond.Pos())
	}
	if err := p.visitBlock(s.Then, ctx); err != nil {
		return err
	}
	if s.Otherwise != nil {
		return p.visitStmt(s.Otherwise, ctx)
	}
	return nil
}

func (p *TypePass) visitWhile(s *ast.While, ctx *Context) error {
	condTy, err := p.visitExpr(&s.Cond, ctx)
	if err != nil {
		return err
	}
	if condTy != types.Bool {
		return cerrors.NewTypeError("'while' condition must be bool", s.Cond.Pos())
	}
	return p.visitBlock(s.Body, ctx)
}

func (p *TypePass) visitReturn(s *ast.Return, ctx *Context) error {
	retTy := ctx.CurrentFunction.RetTy
	if s.Value == nil {
		if retTy != types.Void {
			return cerrors.NewTypeError("missing return value", s.Pos())
		}
		return nil
	}
	if retTy == types.Void {
		return cerrors.NewTypeError("unexpected return value", s.Pos())
	}
	valTy, err := p.visitExpr(&s.Value, ctx)
	if err != nil {
		return err
	}
	if valTy == retTy {
		return nil
	}
	if _, ok := types.Promotion(valTy, retTy); ok {
		s.Value = insertCast(s.Value, valTy, retTy)
		return nil
	}
	return cerrors.NewTypeError(
		fmt.Sprintf("cannot return value of type %s from function returning %s", valTy, retTy), s.Pos())
}

// ------------------------------------------------------------- expressions

// visitExpr resolves the type of *slot, possibly replacing *slot with a
// Cast-wrapped version of itself, and returns the resolved type.
func (p *TypePass) visitExpr(slot *ast.Expr, ctx *Context) (types.Type, error) {
	switch e := (*slot).(type) {
	case *ast.IntegerConstant:
		return types.I32, nil
	case *ast.FloatConstant:
		return types.F32, nil
	case *ast.BooleanConstant:
		return types.Bool, nil
	case *ast.StringConstant:
		return types.Str, nil
	case *ast.Identifier:
		ty, ok := ctx.Vars.Get(e.Name)
		if !ok {
			return types.Type{}, cerrors.NewNameError("undefined variable '"+e.Name+"'", e.Pos())
		}
		return ty, nil
	case *ast.UnaryOp:
		return p.visitUnaryOp(e, ctx)
	case *ast.BinaryOp:
		return p.visitBinaryOp(e, ctx)
	case *ast.Assignment:
		return p.visitAssignment(e, ctx)
	case *ast.Cast:
		return p.visitCast(e, ctx)
	case *ast.FuncCall:
		return p.visitFuncCall(e, ctx)
	}
	return types.Type{}, cerrors.NewTypeError("cannot resolve type of expression", (*slot).Pos())
}

func (p *TypePass) visitUnaryOp(e *ast.UnaryOp, ctx *Context) (types.Type, error) {
	ty, err := p.visitExpr(&e.Value, ctx)
	if err != nil {
		return types.Type{}, err
	}
	switch {
	case e.Op == types.LNOT:
		if ty != types.Bool {
			return types.Type{}, cerrors.NewTypeError("'!' requires a bool operand", e.Pos())
		}
	case e.Op == types.NOT:
		if !types.IsInteger(ty) {
			return types.Type{}, cerrors.NewTypeError("'~' requires an integer operand", e.Pos())
		}
	default: // unary + or -
		if !types.IsNumerical(ty) {
			return types.Type{}, cerrors.NewTypeError("unary '"+e.Op.String()+"' requires a numerical operand", e.Pos())
		}
	}
	e.Ty = ty
	return ty, nil
}

// validateOperandCategory applies the per-category operand rule for a
// binary (or compound-assignment) operator, before the common type is
// computed: bitwise/shift require integers, strict logical (||, &&)
// requires bool, arithmetic and the ordering relationals (<, <=, >, >=)
// require numeric. Only == and != carry no category restriction of their
// own here — they are validated purely by whether a common type exists.
func validateOperandCategory(op types.Operator, leftTy, rightTy types.Type, pos token.Position) error {
	switch {
	case op.Bitwise() || op.Shift():
		if !types.IsInteger(leftTy) || !types.IsInteger(rightTy) {
			return cerrors.NewTypeError("'"+op.String()+"' requires integer operands", pos)
		}
	case op.Logical() && op != types.EQ && op != types.NE:
		if leftTy != types.Bool || rightTy != types.Bool {
			return cerrors.NewTypeError("'"+op.String()+"' requires bool operands", pos)
		}
	case op.Arithmetic() || (op.Relational() && op != types.EQ && op != types.NE):
		if !types.IsNumerical(leftTy) || !types.IsNumerical(rightTy) {
			return cerrors.NewTypeError("'"+op.String()+"' requires numerical operands", pos)
		}
	}
	return nil
}

func (p *TypePass) visitBinaryOp(e *ast.BinaryOp, ctx *Context) (types.Type, error) {
	leftTy, err := p.visitExpr(&e.Left, ctx)
	if err != nil {
		return types.Type{}, err
	}
	rightTy, err := p.visitExpr(&e.Right, ctx)
	if err != nil {
		return types.Type{}, err
	}

	if err := validateOperandCategory(e.Op, leftTy, rightTy, e.Pos()); err != nil {
		return types.Type{}, err
	}
	if e.Op.Logical() && e.Op != types.EQ && e.Op != types.NE {
		e.Ty = types.Bool
		return types.Bool, nil
	}

	common, ok := types.Conversion(leftTy, rightTy)
	if !ok {
		return types.Type{}, cerrors.NewTypeError(
			fmt.Sprintf("no common type for '%s' between %s and %s", e.Op, leftTy, rightTy), e.Pos())
	}
	if leftTy != common {
		e.Left = insertCast(e.Left, leftTy, common)
	}
	if rightTy != common {
		e.Right = insertCast(e.Right, rightTy, common)
	}

	if e.Op.Relational() || e.Op == types.EQ || e.Op == types.NE {
		e.Ty = types.Bool
		return types.Bool, nil
	}
	e.Ty = common
	return common, nil
}

func (p *TypePass) visitAssignment(e *ast.Assignment, ctx *Context) (types.Type, error) {
	ident, ok := e.Lvalue.(*ast.Identifier)
	if !ok {
		return types.Type{}, cerrors.NewTypeError("assignment target must be a variable", e.Lvalue.Pos())
	}
	lvalTy, ok := ctx.Vars.Get(ident.Name)
	if !ok {
		return types.Type{}, cerrors.NewNameError("undefined variable '"+ident.Name+"'", ident.Pos())
	}

	rvalTy, err := p.visitExpr(&e.Rvalue, ctx)
	if err != nil {
		return types.Type{}, err
	}

	effectiveTy := rvalTy
	if e.HasOp {
		if err := validateOperandCategory(e.Op, lvalTy, rvalTy, e.Pos()); err != nil {
			return types.Type{}, err
		}
		common, ok := types.Conversion(lvalTy, rvalTy)
		if !ok {
			return types.Type{}, cerrors.NewTypeError(
				fmt.Sprintf("no common type for '%s=' between %s and %s", e.Op, lvalTy, rvalTy), e.Pos())
		}
		if rvalTy != common {
			e.Rvalue = insertCast(e.Rvalue, rvalTy, common)
		}
		effectiveTy = common
	}

	if effectiveTy != lvalTy {
		if _, ok := types.Promotion(effectiveTy, lvalTy); !ok {
			return types.Type{}, cerrors.NewTypeError(
				fmt.Sprintf("cannot assign value of type %s to variable of type %s", effectiveTy, lvalTy), e.Pos())
		}
		e.Rvalue = insertCast(e.Rvalue, effectiveTy, lvalTy)
	}
	e.Ty = lvalTy
	return lvalTy, nil
}

// visitCast type-checks an explicit or TypePass-inserted `value as dstTy`
// expression. Only the destination type is constrained here (it may not
// be str or void); the source type is unrestricted and no runtime
// convertibility check is performed — that is the backend's job.
func (p *TypePass) visitCast(e *ast.Cast, ctx *Context) (types.Type, error) {
	srcTy, err := p.visitExpr(&e.Value, ctx)
	if err != nil {
		return types.Type{}, err
	}
	e.SrcTy = srcTy
	if e.DstTy == types.Str || e.DstTy == types.Void {
		return types.Type{}, cerrors.NewTypeError(
			fmt.Sprintf("cannot cast to %s", e.DstTy), e.Pos())
	}
	return e.DstTy, nil
}

func (p *TypePass) visitFuncCall(e *ast.FuncCall, ctx *Context) (types.Type, error) {
	proto, ok := ctx.Funcs.Get(e.Name)
	if !ok {
		return types.Type{}, cerrors.NewNameError("undefined function '"+e.Name+"'", e.Pos())
	}
	if len(e.Args) != len(proto.Args) {
		return types.Type{}, cerrors.NewTypeError(
			fmt.Sprintf("%s() takes %d arguments (%d given)", e.Name, len(proto.Args), len(e.Args)), e.Pos())
	}
	for i, arg := range e.Args {
		argTy, err := p.visitExpr(&e.Args[i], ctx)
		if err != nil {
			return types.Type{}, err
		}
		want := proto.Args[i].Ty
		if argTy == want {
			continue
		}
		if _, ok := types.Promotion(argTy, want); !ok {
			return types.Type{}, cerrors.NewTypeError(
				fmt.Sprintf("argument %d of '%s' expects %s, got %s", i+1, e.Name, want, argTy), arg.Pos())
		}
		e.Args[i] = insertCast(e.Args[i], argTy, want)
	}
	return proto.RetTy, nil
}

// insertCast wraps expr in an implicit Cast node recording the
// conversion TypePass just decided to apply.
func insertCast(expr ast.Expr, from, to types.Type) ast.Expr {
	return &ast.Cast{Value: expr, SrcTy: from, DstTy: to, Loc: ast.At(expr.Pos())}
}
