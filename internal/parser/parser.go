// Package parser implements a recursive-descent parser with a
// precedence-climbing expression engine, producing an internal/ast tree
// from a token.Token stream.
package parser

import (
	"fmt"

	"github.com/cwbudde/go-dumb/internal/ast"
	cerrors "github.com/cwbudde/go-dumb/internal/errors"
	"github.com/cwbudde/go-dumb/internal/lexer"
	"github.com/cwbudde/go-dumb/internal/types"
	"github.com/cwbudde/go-dumb/pkg/token"
)

// precedence values; higher binds tighter. LOWEST sits below every real
// operator so the top-level expression parse always recurses in.
const (
	LOWEST = iota
	ASSIGNMENT
	LOGICAL_OR
	LOGICAL_AND
	BITOR
	BITXOR
	BITAND
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	CAST
)

var precedences = map[token.Type]int{
	token.ASSIGN:      ASSIGNMENT,
	token.PLUSEQ:      ASSIGNMENT,
	token.MINUSEQ:     ASSIGNMENT,
	token.STAREQ:      ASSIGNMENT,
	token.SLASHEQ:     ASSIGNMENT,
	token.PERCENTEQ:   ASSIGNMENT,
	token.ANDEQ:       ASSIGNMENT,
	token.OREQ:        ASSIGNMENT,
	token.XOREQ:       ASSIGNMENT,
	token.SHLEQ:       ASSIGNMENT,
	token.SHREQ:       ASSIGNMENT,
	token.LOGICAL_OR:  LOGICAL_OR,
	token.LOGICAL_AND: LOGICAL_AND,
	token.OR:          BITOR,
	token.XOR:         BITXOR,
	token.AND:         BITAND,
	token.EQ:          EQUALITY,
	token.NE:          EQUALITY,
	token.LT:          RELATIONAL,
	token.LE:          RELATIONAL,
	token.GT:          RELATIONAL,
	token.GE:          RELATIONAL,
	token.SHL:         SHIFT,
	token.SHR:         SHIFT,
	token.PLUS:        ADDITIVE,
	token.MINUS:       ADDITIVE,
	token.STAR:        MULTIPLICATIVE,
	token.SLASH:       MULTIPLICATIVE,
	token.PERCENT:     MULTIPLICATIVE,
	token.AS:          CAST,
}

// tokenToBinOp maps a plain binary operator token to its types.Operator.
var tokenToBinOp = map[token.Type]types.Operator{
	token.PLUS:        types.ADD,
	token.MINUS:       types.SUB,
	token.STAR:        types.MUL,
	token.SLASH:       types.DIV,
	token.PERCENT:     types.MOD,
	token.AND:         types.BAND,
	token.OR:          types.BOR,
	token.XOR:         types.BXOR,
	token.SHL:         types.SHL,
	token.SHR:         types.SHR,
	token.LT:          types.LT,
	token.LE:          types.LE,
	token.GT:          types.GT,
	token.GE:          types.GE,
	token.EQ:          types.EQ,
	token.NE:          types.NE,
	token.LOGICAL_OR:  types.LOR,
	token.LOGICAL_AND: types.LAND,
}

// compoundAssignOp maps a compound-assignment token to the arithmetic or
// bitwise operator it implies. Plain '=' has no entry.
var compoundAssignOp = map[token.Type]types.Operator{
	token.PLUSEQ:    types.ADD,
	token.MINUSEQ:   types.SUB,
	token.STAREQ:    types.MUL,
	token.SLASHEQ:   types.DIV,
	token.PERCENTEQ: types.MOD,
	token.ANDEQ:     types.BAND,
	token.OREQ:      types.BOR,
	token.XOREQ:     types.BXOR,
	token.SHLEQ:     types.SHL,
	token.SHREQ:     types.SHR,
}

var tokenToUnaryOp = map[token.Type]types.Operator{
	token.PLUS:        types.UPLUS,
	token.MINUS:       types.UMINUS,
	token.LOGICAL_NOT: types.LNOT,
	token.NOT:         types.NOT,
}

// exprBeginTokens is the FIRST set for an expression; used to decide
// whether a bare 'return' carries a value.
var exprBeginTokens = map[token.Type]bool{
	token.INTEGER:     true,
	token.FLOAT:       true,
	token.BOOL:        true,
	token.STR:         true,
	token.IDENT:       true,
	token.LEFT_PAREN:  true,
	token.PLUS:        true,
	token.MINUS:       true,
	token.LOGICAL_NOT: true,
	token.NOT:         true,
}

// Parser consumes a *lexer.Lexer and produces an *ast.TranslationUnit.
type Parser struct {
	lex *lexer.Lexer

	curTok  token.Token
	peekTok token.Token

	errs []*cerrors.CompilerError
}

// New constructs a Parser positioned at the first token of src.
func New(lex *lexer.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.next()
	p.next()
	return p
}

// Errors returns every syntax error accumulated during parsing.
func (p *Parser) Errors() []*cerrors.CompilerError { return p.errs }

func (p *Parser) next() {
	p.curTok = p.peekTok
	p.peekTok = p.lex.NextToken()
}

// addErr records a parse failure at the current token. A mismatch
// discovered with the token stream already exhausted is an EOFError
// rather than a plain SyntaxError.
func (p *Parser) addErr(msg string) {
	if p.curTok.Type == token.EOF {
		p.errs = append(p.errs, cerrors.NewEOFError(msg, p.curTok.Pos))
		return
	}
	p.errs = append(p.errs, cerrors.NewSyntaxError(msg, p.curTok.Pos))
}

func (p *Parser) expect(t token.Type) bool {
	if p.curTok.Type == t {
		p.next()
		return true
	}
	p.addErr(fmt.Sprintf("unexpected token (expected=%s, actual=%s)", t, p.curTok.Type))
	return false
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curTok.Type]; ok {
		return prec
	}
	return LOWEST
}

// ParseTranslationUnit parses an entire source file into the AST root.
// Parsing continues past a malformed top-level declaration by skipping to
// the next 'func' or '#[' token, so a single file can surface more than
// one syntax error.
func (p *Parser) ParseTranslationUnit() *ast.TranslationUnit {
	var decls []*ast.Function
	for p.curTok.Type != token.EOF {
		fn := p.parseTopLevel()
		if fn != nil {
			decls = append(decls, fn)
			continue
		}
		for p.curTok.Type != token.EOF && p.curTok.Type != token.FUNC && p.curTok.Type != token.ATTR_START {
			p.next()
		}
	}
	return ast.NewTranslationUnit(decls)
}

func (p *Parser) parseTopLevel() *ast.Function {
	var attrs []*ast.Attribute
	if p.curTok.Type == token.ATTR_START {
		attrs = p.parseAttributes()
		if attrs == nil {
			return nil
		}
	}
	if p.curTok.Type != token.FUNC {
		p.addErr("expected function declaration")
		return nil
	}
	return p.parseFunction(attrs)
}

func (p *Parser) parseAttributes() []*ast.Attribute {
	p.next() // consume '#['
	var attrs []*ast.Attribute
	for {
		if p.curTok.Type != token.IDENT {
			p.addErr("expected attribute name")
			return nil
		}
		pos := p.curTok.Pos
		name := p.curTok.Literal
		p.next()
		var args []ast.Expr
		if p.curTok.Type == token.LEFT_PAREN {
			p.next()
			// '()' yields a non-nil empty list, distinct from no parens at
			// all, so AttrPass can reject 'external()' as argument misuse.
			args = []ast.Expr{}
			if p.curTok.Type != token.RIGHT_PAREN {
				for {
					arg := p.parseAttrArg()
					if arg == nil {
						return nil
					}
					args = append(args, arg)
					if p.curTok.Type != token.COMMA {
						break
					}
					p.next()
				}
			}
			if !p.expect(token.RIGHT_PAREN) {
				return nil
			}
		}
		attrs = append(attrs, &ast.Attribute{Name: name, Args: args, Loc: ast.At(pos)})
		if p.curTok.Type != token.COMMA {
			break
		}
		p.next()
	}
	if !p.expect(token.RIGHT_SQ_BRACKET) {
		return nil
	}
	return attrs
}

// parseAttrArg parses a single attribute argument: an INTEGER, FLOAT or
// BOOL literal, or a bare identifier. Calls and compound expressions are
// not valid here.
func (p *Parser) parseAttrArg() ast.Expr {
	pos := p.curTok.Pos
	switch p.curTok.Type {
	case token.INTEGER:
		lit := p.curTok.Literal
		p.next()
		return &ast.IntegerConstant{Value: parseInt(lit), Loc: ast.At(pos)}
	case token.FLOAT:
		lit := p.curTok.Literal
		p.next()
		return &ast.FloatConstant{Value: parseFloat(lit), Loc: ast.At(pos)}
	case token.BOOL:
		lit := p.curTok.Literal
		p.next()
		return &ast.BooleanConstant{Value: lit == "true", Loc: ast.At(pos)}
	case token.IDENT:
		name := p.curTok.Literal
		p.next()
		return &ast.Identifier{Name: name, Loc: ast.At(pos)}
	default:
		p.addErr(fmt.Sprintf("unexpected token %s in attribute argument", p.curTok.Type))
		return nil
	}
}

func (p *Parser) parseFunction(attrs []*ast.Attribute) *ast.Function {
	pos := p.curTok.Pos
	p.next() // consume 'func'
	if p.curTok.Type != token.IDENT {
		p.addErr("expected function name")
		return nil
	}
	name := p.curTok.Literal
	p.next()
	if !p.expect(token.LEFT_PAREN) {
		return nil
	}
	var args []*ast.Argument
	if p.curTok.Type != token.RIGHT_PAREN {
		for {
			arg := p.parseArgument()
			if arg == nil {
				return nil
			}
			args = append(args, arg)
			if p.curTok.Type != token.COMMA {
				break
			}
			p.next()
		}
	}
	if !p.expect(token.RIGHT_PAREN) {
		return nil
	}
	retTy := types.Void
	if p.curTok.Type == token.COLON {
		p.next()
		ty, ok := p.parseTypeName()
		if !ok {
			return nil
		}
		retTy = ty
	}
	proto := &ast.FunctionProto{Name: name, Args: args, RetTy: retTy, Attrs: attrs, Loc: ast.At(pos)}

	if p.curTok.Type != token.LEFT_CURLY_BRACKET {
		return &ast.Function{Proto: proto, Loc: ast.At(pos)}
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.Function{Proto: proto, Body: body, Loc: ast.At(pos)}
}

func (p *Parser) parseArgument() *ast.Argument {
	if p.curTok.Type != token.IDENT {
		p.addErr("expected argument name")
		return nil
	}
	pos := p.curTok.Pos
	name := p.curTok.Literal
	p.next()
	if !p.expect(token.COLON) {
		return nil
	}
	ty, ok := p.parseTypeName()
	if !ok {
		return nil
	}
	return &ast.Argument{Name: name, Ty: ty, Loc: ast.At(pos)}
}

func (p *Parser) parseTypeName() (types.Type, bool) {
	if p.curTok.Type != token.IDENT {
		p.addErr("expected type name")
		return types.Type{}, false
	}
	ty, ok := types.Lookup(p.curTok.Literal)
	if !ok {
		p.addErr("unknown type " + p.curTok.Literal)
		return types.Type{}, false
	}
	p.next()
	return ty, true
}

// ----------------------------------------------------------------- statements

func (p *Parser) parseBlock() *ast.Block {
	pos := p.curTok.Pos
	if !p.expect(token.LEFT_CURLY_BRACKET) {
		return nil
	}
	var stmts []ast.Stmt
	for p.curTok.Type != token.RIGHT_CURLY_BRACKET && p.curTok.Type != token.EOF {
		if p.curTok.Type == token.SEMICOLON {
			p.next()
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		stmts = append(stmts, stmt)
	}
	if !p.expect(token.RIGHT_CURLY_BRACKET) {
		return nil
	}
	return &ast.Block{Stmts: stmts, Loc: ast.At(pos)}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curTok.Type {
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		pos := p.curTok.Pos
		p.next()
		return &ast.Break{Loc: ast.At(pos)}
	case token.CONTINUE:
		pos := p.curTok.Pos
		p.next()
		return &ast.Continue{Loc: ast.At(pos)}
	case token.RETURN:
		return p.parseReturn()
	case token.VAR:
		return p.parseVar()
	case token.LEFT_CURLY_BRACKET:
		if blk := p.parseBlock(); blk != nil {
			return blk
		}
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.curTok.Pos
	p.next() // consume 'if'
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	then := p.parseBlock()
	if then == nil {
		return nil
	}
	node := &ast.If{Cond: cond, Then: then, Loc: ast.At(pos)}
	if p.curTok.Type == token.ELSE {
		p.next()
		if p.curTok.Type == token.IF {
			otherwise := p.parseIf()
			if otherwise == nil {
				return nil
			}
			node.Otherwise = otherwise
		} else {
			otherwise := p.parseBlock()
			if otherwise == nil {
				return nil
			}
			node.Otherwise = otherwise
		}
	}
	return node
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.curTok.Pos
	p.next() // consume 'while'
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	body := p.parseBlock()
	if body == nil {
		return nil
	}
	return &ast.While{Cond: cond, Body: body, Loc: ast.At(pos)}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.curTok.Pos
	p.next() // consume 'return'
	var value ast.Expr
	if exprBeginTokens[p.curTok.Type] {
		value = p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
	}
	return &ast.Return{Value: value, Loc: ast.At(pos)}
}

func (p *Parser) parseVar() ast.Stmt {
	pos := p.curTok.Pos
	p.next() // consume 'var'
	if p.curTok.Type != token.IDENT {
		p.addErr("expected variable name")
		return nil
	}
	name := p.curTok.Literal
	p.next()
	var ty types.Type
	hasTy := false
	if p.curTok.Type == token.COLON {
		p.next()
		t, ok := p.parseTypeName()
		if !ok {
			return nil
		}
		ty = t
		hasTy = true
	}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	init := p.parseExpression(LOWEST)
	if init == nil {
		return nil
	}
	return &ast.Var{Name: name, Ty: ty, HasTy: hasTy, InitialValue: init, Loc: ast.At(pos)}
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	pos := p.curTok.Pos
	e := p.parseExpression(LOWEST)
	if e == nil {
		return nil
	}
	return &ast.Expression{Expr: e, Loc: ast.At(pos)}
}

// ---------------------------------------------------------------- expressions

func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parseUnary()
	if left == nil {
		return nil
	}
	for minPrec < p.curPrecedence() {
		left = p.parseInfix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if op, ok := tokenToUnaryOp[p.curTok.Type]; ok {
		pos := p.curTok.Pos
		p.next()
		value := p.parseUnary()
		if value == nil {
			return nil
		}
		return &ast.UnaryOp{Op: op, Value: value, Loc: ast.At(pos)}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.curTok.Pos
	switch p.curTok.Type {
	case token.INTEGER:
		lit := p.curTok.Literal
		p.next()
		return &ast.IntegerConstant{Value: parseInt(lit), Loc: ast.At(pos)}
	case token.FLOAT:
		lit := p.curTok.Literal
		p.next()
		return &ast.FloatConstant{Value: parseFloat(lit), Loc: ast.At(pos)}
	case token.BOOL:
		lit := p.curTok.Literal
		p.next()
		return &ast.BooleanConstant{Value: lit == "true", Loc: ast.At(pos)}
	case token.STR:
		lit := p.curTok.Literal
		p.next()
		return &ast.StringConstant{Value: lit, Loc: ast.At(pos)}
	case token.IDENT:
		name := p.curTok.Literal
		p.next()
		if p.curTok.Type == token.LEFT_PAREN {
			return p.parseCallArgs(name, pos)
		}
		return &ast.Identifier{Name: name, Loc: ast.At(pos)}
	case token.LEFT_PAREN:
		p.next()
		e := p.parseExpression(LOWEST)
		if !p.expect(token.RIGHT_PAREN) {
			return nil
		}
		return e
	default:
		p.addErr(fmt.Sprintf("unexpected token %s in expression", p.curTok.Type))
		return nil
	}
}

func (p *Parser) parseCallArgs(name string, pos token.Position) ast.Expr {
	p.next() // consume '('
	var args []ast.Expr
	if p.curTok.Type != token.RIGHT_PAREN {
		for {
			a := p.parseExpression(LOWEST)
			if a == nil {
				return nil
			}
			args = append(args, a)
			if p.curTok.Type != token.COMMA {
				break
			}
			p.next()
		}
	}
	if !p.expect(token.RIGHT_PAREN) {
		return nil
	}
	return &ast.FuncCall{Name: name, Args: args, Loc: ast.At(pos)}
}

// parseInfix consumes the operator at p.curTok and the right operand at
// precedence one above the operator's own (left-associativity), producing
// a Cast, Assignment or BinaryOp node per the operator's shape.
func (p *Parser) parseInfix(left ast.Expr) ast.Expr {
	opTok := p.curTok
	prec := p.curPrecedence()
	pos := opTok.Pos

	if opTok.Type == token.AS {
		p.next()
		dstTy, ok := p.parseTypeName()
		if !ok {
			return nil
		}
		return &ast.Cast{Value: left, DstTy: dstTy, Loc: ast.At(pos)}
	}

	if prec == ASSIGNMENT {
		p.next()
		right := p.parseExpression(prec)
		if right == nil {
			return nil
		}
		if op, ok := compoundAssignOp[opTok.Type]; ok {
			return &ast.Assignment{Lvalue: left, Rvalue: right, Op: op, HasOp: true, Loc: ast.At(pos)}
		}
		return &ast.Assignment{Lvalue: left, Rvalue: right, Loc: ast.At(pos)}
	}

	op, ok := tokenToBinOp[opTok.Type]
	if !ok {
		p.addErr(fmt.Sprintf("unexpected operator %s", opTok.Type))
		return nil
	}
	p.next()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.BinaryOp{Op: op, Left: left, Right: right, Loc: ast.At(pos)}
}
