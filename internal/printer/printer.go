// Package printer renders a typed AST back to a deterministic textual
// form, used by the snapshot tests to pin down each pass's observable
// effect on the tree.
package printer

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-dumb/internal/ast"
)

// Print renders tu as an indented s-expression-like tree. The output is
// stable across runs (no map iteration, no pointer addresses) so it is
// safe to use as a go-snaps snapshot body.
func Print(tu *ast.TranslationUnit) string {
	var sb strings.Builder
	for _, fn := range tu.Decls {
		printFunction(&sb, fn, 0)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func printFunction(sb *strings.Builder, fn *ast.Function, depth int) {
	indent(sb, depth)
	fmt.Fprintf(sb, "func %s(", fn.Proto.Name)
	for i, arg := range fn.Proto.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "%s: %s", arg.Name, arg.Ty)
	}
	fmt.Fprintf(sb, "): %s", fn.Proto.RetTy)
	for _, attr := range fn.Proto.Attrs {
		fmt.Fprintf(sb, " #[%s]", attr.Name)
	}
	if fn.Body == nil {
		sb.WriteString(" <external>\n")
		return
	}
	sb.WriteString("\n")
	printBlock(sb, fn.Body, depth+1)
}

func printBlock(sb *strings.Builder, b *ast.Block, depth int) {
	for _, stmt := range b.Stmts {
		printStmt(sb, stmt, depth)
	}
}

func printStmt(sb *strings.Builder, stmt ast.Stmt, depth int) {
	indent(sb, depth)
	switch s := stmt.(type) {
	case *ast.Var:
		fmt.Fprintf(sb, "var %s: %s = %s\n", s.Name, s.Ty, printExpr(s.InitialValue))
	case *ast.Expression:
		fmt.Fprintf(sb, "%s\n", printExpr(s.Expr))
	case *ast.Return:
		if s.Value == nil {
			sb.WriteString("return\n")
		} else {
			fmt.Fprintf(sb, "return %s\n", printExpr(s.Value))
		}
	case *ast.Break:
		sb.WriteString("break\n")
	case *ast.Continue:
		sb.WriteString("continue\n")
	case *ast.If:
		fmt.Fprintf(sb, "if %s\n", printExpr(s.Cond))
		printBlock(sb, s.Then, depth+1)
		if s.Otherwise != nil {
			indent(sb, depth)
			sb.WriteString("else\n")
			switch o := s.Otherwise.(type) {
			case *ast.Block:
				printBlock(sb, o, depth+1)
			default:
				printStmt(sb, o, depth+1)
			}
		}
	case *ast.While:
		fmt.Fprintf(sb, "while %s\n", printExpr(s.Cond))
		printBlock(sb, s.Body, depth+1)
	case *ast.Block:
		sb.WriteString("block\n")
		printBlock(sb, s, depth+1)
	}
}

func printExpr(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.IntegerConstant:
		return fmt.Sprintf("%d", x.Value)
	case *ast.FloatConstant:
		return fmt.Sprintf("%g", x.Value)
	case *ast.BooleanConstant:
		return fmt.Sprintf("%t", x.Value)
	case *ast.StringConstant:
		return fmt.Sprintf("%q", x.Value)
	case *ast.Identifier:
		return x.Name
	case *ast.UnaryOp:
		return fmt.Sprintf("(%s%s:%s)", x.Op, printExpr(x.Value), x.Ty)
	case *ast.BinaryOp:
		return fmt.Sprintf("(%s %s %s:%s)", printExpr(x.Left), x.Op, printExpr(x.Right), x.Ty)
	case *ast.Assignment:
		if x.HasOp {
			return fmt.Sprintf("(%s %s= %s:%s)", printExpr(x.Lvalue), x.Op, printExpr(x.Rvalue), x.Ty)
		}
		return fmt.Sprintf("(%s = %s:%s)", printExpr(x.Lvalue), printExpr(x.Rvalue), x.Ty)
	case *ast.Cast:
		return fmt.Sprintf("(%s as %s)", printExpr(x.Value), x.DstTy)
	case *ast.FuncCall:
		var args []string
		for _, a := range x.Args {
			args = append(args, printExpr(a))
		}
		return fmt.Sprintf("%s(%s)", x.Name, strings.Join(args, ", "))
	}
	return "<?>"
}
