package dumb

import (
	"fmt"
	"testing"

	cerrors "github.com/cwbudde/go-dumb/internal/errors"
	"github.com/cwbudde/go-dumb/internal/printer"
	"github.com/cwbudde/go-dumb/pkg/token"
	"github.com/gkampitakis/go-snaps/snaps"
)

func compileOK(t *testing.T, name, src string) string {
	t.Helper()
	tu, err := Compile(SourceFile{Filename: name, Text: src})
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return printer.Print(tu)
}

func kindOfErr(t *testing.T, err error) cerrors.Kind {
	t.Helper()
	if err == nil {
		t.Fatal("want an error, got nil")
	}
	ce, ok := err.(*cerrors.CompilerError)
	if !ok {
		t.Fatalf("error %v is %T, want *errors.CompilerError", err, err)
	}
	return ce.Kind
}

// TestScenarioArithmeticPromotion is S1: an i32 literal initializing an
// f32 variable is implicitly promoted, inserting a Cast node.
func TestScenarioArithmeticPromotion(t *testing.T) {
	out := compileOK(t, "s1", "func main(): i32 { var x: f32 = 1 return 0 }")
	snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", "s1_arithmetic_promotion"), out)
}

// TestScenarioRejectedImplicitNarrowing is S2: initializing an i32
// variable from a float literal is a TypeError (float never narrows).
func TestScenarioRejectedImplicitNarrowing(t *testing.T) {
	_, err := Compile(SourceFile{Text: "func main(): i32 { var x: i32 = 1.0 return 0 }"})
	if kindOfErr(t, err) != cerrors.TypeErr {
		t.Errorf("Kind = %v, want TypeError", kindOfErr(t, err))
	}
}

// TestScenarioBooleanConditionRequired is S3: a non-bool 'if' condition
// fails TypeError; a bool one passes.
func TestScenarioBooleanConditionRequired(t *testing.T) {
	_, err := Compile(SourceFile{Text: "func main(): i32 { if 1 { } else { } return 0 }"})
	if kindOfErr(t, err) != cerrors.TypeErr {
		t.Errorf("Kind = %v, want TypeError", kindOfErr(t, err))
	}

	out := compileOK(t, "s3_pass", "func main(): i32 { if true { } else { } return 0 }")
	snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", "s3_boolean_condition_pass"), out)
}

// TestScenarioArityMismatch is S4: calling a zero-argument function with
// one argument is a TypeError carrying the exact described message.
func TestScenarioArityMismatch(t *testing.T) {
	_, err := Compile(SourceFile{Text: "func foo(): void {} func main(): i32 { foo(1) return 0 }"})
	if kindOfErr(t, err) != cerrors.TypeErr {
		t.Errorf("Kind = %v, want TypeError", kindOfErr(t, err))
	}
	want := "TypeError: foo() takes 0 arguments (1 given)"
	if got := err.Error(); got[:len(want)] != want {
		t.Errorf("message = %q, want prefix %q", got, want)
	}
}

// TestScenarioDeadCodeElimination is S5: everything after the first
// return/break/continue in a block is discarded.
func TestScenarioDeadCodeElimination(t *testing.T) {
	out := compileOK(t, "s5", "func main(): i32 { var a = 1; return 0; var b = 2; var c = 3 }")
	snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", "s5_dead_code_elimination"), out)
}

// TestScenarioAttributeValidation is S6: external-with-body and
// external-with-arguments both fail TypeError; bare external passes;
// unknown attributes fail NameError.
func TestScenarioAttributeValidation(t *testing.T) {
	_, err := Compile(SourceFile{Text: "#[external] func helper(m: str): void { }"}, SkipStdlibInjection())
	if kindOfErr(t, err) != cerrors.TypeErr {
		t.Errorf("external-with-body: Kind = %v, want TypeError", kindOfErr(t, err))
	}

	_, err = Compile(SourceFile{Text: "#[external(1)] func helper(m: str): void"}, SkipStdlibInjection())
	if kindOfErr(t, err) != cerrors.TypeErr {
		t.Errorf("external-with-args: Kind = %v, want TypeError", kindOfErr(t, err))
	}

	_, err = Compile(SourceFile{Text: "#[foo] func helper(m: str): void"}, SkipStdlibInjection())
	if kindOfErr(t, err) != cerrors.Name {
		t.Errorf("unknown attribute: Kind = %v, want NameError", kindOfErr(t, err))
	}

	_, err = Compile(SourceFile{Text: `
		#[external] func helper(m: str): void
		func main(): i32 { return 0 }
	`}, SkipStdlibInjection())
	if err != nil {
		t.Errorf("bare external should pass: %v", err)
	}
}

// TestScenarioStdlibCallResolves is S7: print() resolves because
// InjectStdlib prepends its prototype before TypePass's pre-scan runs.
func TestScenarioStdlibCallResolves(t *testing.T) {
	out := compileOK(t, "s7", `func main(): i32 { print("hi") return 0 }`)
	snaps.MatchSnapshot(t, fmt.Sprintf("%s_output", "s7_stdlib_call_resolves"), out)
}

// TestChainedAssignmentFailsTypePass covers the recorded Open Question
// decision: "x = y = z" parses as "(x = y) = z", and the outer assignment's
// lvalue is itself an Assignment expression, not an Identifier, so
// TypePass's lvalue check rejects it.
func TestChainedAssignmentFailsTypePass(t *testing.T) {
	_, err := Compile(SourceFile{Text: `func main(): i32 {
		var x = 1
		var y = 2
		var z = 3
		x = y = z
		return 0
	}`})
	if kindOfErr(t, err) != cerrors.TypeErr {
		t.Errorf("Kind = %v, want TypeError (assignment target must be a variable)", kindOfErr(t, err))
	}
}

func TestMissingMainIsNameError(t *testing.T) {
	_, err := Compile(SourceFile{Text: "func notMain(): i32 { return 0 }"})
	if kindOfErr(t, err) != cerrors.Name {
		t.Errorf("Kind = %v, want NameError", kindOfErr(t, err))
	}
}

func TestUndefinedFunctionCallIsNameErrorWithoutStdlib(t *testing.T) {
	_, err := Compile(SourceFile{Text: `func main(): i32 { print("hi") return 0 }`}, SkipStdlibInjection())
	if kindOfErr(t, err) != cerrors.Name {
		t.Errorf("Kind = %v, want NameError (print is undefined without stdlib injection)", kindOfErr(t, err))
	}
}

type recordingSink struct {
	errors []string
}

func (s *recordingSink) Info(msg string, pos ...token.Position)    {}
func (s *recordingSink) Warning(msg string, pos ...token.Position) {}
func (s *recordingSink) Error(msg string, pos ...token.Position) {
	s.errors = append(s.errors, msg)
}

func TestDiagnosticsSinkIsNotifiedOnFailure(t *testing.T) {
	sink := &recordingSink{}
	_, err := Compile(SourceFile{Text: "func main(): void { }"}, WithDiagnostics(sink))
	if err == nil {
		t.Fatal("want an error: main must return i32")
	}
	if len(sink.errors) != 1 {
		t.Fatalf("sink recorded %d errors, want 1: %v", len(sink.errors), sink.errors)
	}
}

func TestFuncTableExposesResolvedDeclarations(t *testing.T) {
	tu, err := Compile(SourceFile{Text: "func helper(): void {} func main(): i32 { return 0 }"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	table := FuncTable(tu)
	for _, name := range []string{"main", "helper", "print"} {
		if _, ok := table[name]; !ok {
			t.Errorf("FuncTable is missing %q", name)
		}
	}
	if table["main"] != tu.Decls[len(tu.Decls)-1] {
		t.Error("FuncTable entry is not the same object referenced from the AST")
	}
}

func TestLexFailurePropagatesAsValueError(t *testing.T) {
	_, err := Compile(SourceFile{Text: "func main(): i32 { var x = $bad return 0 }"})
	if kindOfErr(t, err) != cerrors.Value {
		t.Errorf("Kind = %v, want ValueError", kindOfErr(t, err))
	}
}
