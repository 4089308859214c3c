package passes

import (
	"testing"

	cerrors "github.com/cwbudde/go-dumb/internal/errors"
)

func runLoopPass(t *testing.T, src string) error {
	t.Helper()
	tu := mustParse(t, src)
	return (&LoopPass{}).Run(tu, NewContext())
}

func TestBreakInsideWhilePasses(t *testing.T) {
	if err := runLoopPass(t, "func f(): void { while true { break } }"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestContinueInsideWhilePasses(t *testing.T) {
	if err := runLoopPass(t, "func f(): void { while true { continue } }"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBreakAtBlockScopeFails(t *testing.T) {
	err := runLoopPass(t, "func f(): void { break }")
	if err == nil {
		t.Fatal("want an error for 'break' outside any loop")
	}
	if kindOf(t, err) != cerrors.Syntax {
		t.Errorf("Kind = %v, want SyntaxError", kindOf(t, err))
	}
}

func TestContinueAtBlockScopeFails(t *testing.T) {
	err := runLoopPass(t, "func f(): void { continue }")
	if err == nil {
		t.Fatal("want an error for 'continue' outside any loop")
	}
}

// TestBreakInsideIfInsideWhilePasses confirms that an 'if' arm does not
// reset the loop-nesting depth tracked by LoopPass.
func TestBreakInsideIfInsideWhilePasses(t *testing.T) {
	err := runLoopPass(t, `func f(): void {
		while true {
			if true {
				break
			}
		}
	}`)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestBreakAfterLoopExitsFails checks that depth is correctly decremented
// once a while's body has been visited — a break written after the loop,
// in the same enclosing block, still fails.
func TestBreakAfterLoopExitsFails(t *testing.T) {
	err := runLoopPass(t, `func f(): void {
		while true {
		}
		break
	}`)
	if err == nil {
		t.Fatal("want an error: break after the loop body has closed is not inside a loop")
	}
}
