// Package errors defines the compiler's five-kind structured error
// taxonomy. Rendering (colorized, caret-annotated source windows) is a
// presentation concern left to a diagnostics sink outside this module;
// these types carry only a message and an optional source position.
package errors

import (
	"fmt"

	"github.com/cwbudde/go-dumb/pkg/token"
)

// Kind discriminates the five error shapes the compiler can raise.
type Kind int

const (
	Syntax Kind = iota
	Name
	TypeErr
	Value
	EOF
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "SyntaxError"
	case Name:
		return "NameError"
	case TypeErr:
		return "TypeError"
	case Value:
		return "ValueError"
	case EOF:
		return "EOFError"
	default:
		return "Error"
	}
}

// CompilerError is the single error type every stage of the pipeline
// raises, tagged with a Kind so callers can branch on error category.
type CompilerError struct {
	Kind    Kind
	Message string
	Pos     token.Position
	HasPos  bool
}

func (e *CompilerError) Error() string {
	if e.HasPos {
		return fmt.Sprintf("%s: %s at %s", e.Kind, e.Message, e.Pos)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newErr(k Kind, msg string, pos *token.Position) *CompilerError {
	e := &CompilerError{Kind: k, Message: msg}
	if pos != nil {
		e.Pos = *pos
		e.HasPos = true
	}
	return e
}

// NewSyntaxError reports a grammar violation: a parser rule mismatch, or a
// structural rule checked by a later pass (e.g. 'break' outside a loop).
func NewSyntaxError(msg string, pos token.Position) *CompilerError {
	return newErr(Syntax, msg, &pos)
}

// NewNameError reports an unresolved identifier, redeclaration, or
// unknown attribute name.
func NewNameError(msg string, pos token.Position) *CompilerError {
	return newErr(Name, msg, &pos)
}

// NewTypeError reports an ill-typed expression or statement.
func NewTypeError(msg string, pos token.Position) *CompilerError {
	return newErr(TypeErr, msg, &pos)
}

// NewValueError reports a lexer scan failure: an illegal character, an
// unterminated string literal, or invalid source encoding.
func NewValueError(msg string, pos token.Position) *CompilerError {
	return newErr(Value, msg, &pos)
}

// NewEOFError reports a token stream that ended while the parser still
// expected input.
func NewEOFError(msg string, pos token.Position) *CompilerError {
	return newErr(EOF, msg, &pos)
}
