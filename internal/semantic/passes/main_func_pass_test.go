package passes

import (
	"testing"

	cerrors "github.com/cwbudde/go-dumb/internal/errors"
)

func runMainFuncPass(t *testing.T, src string) error {
	t.Helper()
	tu := mustParse(t, src)
	return (&MainFuncPass{}).Run(tu, NewContext())
}

func TestMainFuncPassAcceptsI32Main(t *testing.T) {
	if err := runMainFuncPass(t, "func main(): i32 { return 0 }"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMainFuncPassMissingMainIsNameError(t *testing.T) {
	err := runMainFuncPass(t, "func notMain(): i32 { return 0 }")
	if err == nil {
		t.Fatal("want an error when no 'main' function is declared")
	}
	if kindOf(t, err) != cerrors.Name {
		t.Errorf("Kind = %v, want NameError", kindOf(t, err))
	}
}

func TestMainFuncPassWrongReturnTypeIsTypeError(t *testing.T) {
	err := runMainFuncPass(t, "func main(): void { }")
	if err == nil {
		t.Fatal("want an error when 'main' does not return i32")
	}
	if kindOf(t, err) != cerrors.TypeErr {
		t.Errorf("Kind = %v, want TypeError", kindOf(t, err))
	}
}
