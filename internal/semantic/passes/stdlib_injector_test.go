package passes

import (
	"testing"

	"github.com/cwbudde/go-dumb/internal/types"
)

func TestInjectStdlibPrependsPrint(t *testing.T) {
	tu := mustParse(t, "func main(): i32 { return 0 }")
	InjectStdlib(tu)

	if len(tu.Decls) != 2 {
		t.Fatalf("got %d decls after injection, want 2 (print, main)", len(tu.Decls))
	}
	print := tu.Decls[0]
	if print.Proto.Name != "print" {
		t.Fatalf("Decls[0].Name = %q, want print", print.Proto.Name)
	}
	if print.Body != nil {
		t.Error("injected print has a Body, want nil (external)")
	}
	if len(print.Proto.Attrs) != 1 || print.Proto.Attrs[0].Name != "external" {
		t.Errorf("Attrs = %+v, want [external]", print.Proto.Attrs)
	}
	if print.Proto.RetTy != types.Void {
		t.Errorf("RetTy = %s, want void", print.Proto.RetTy)
	}
	if len(print.Proto.Args) != 1 || print.Proto.Args[0].Name != "message" || print.Proto.Args[0].Ty != types.Str {
		t.Errorf("Args = %+v, want [message: str]", print.Proto.Args)
	}

	if tu.Decls[1].Proto.Name != "main" {
		t.Errorf("Decls[1].Name = %q, want main (injected functions precede user source)", tu.Decls[1].Proto.Name)
	}
}

func TestInjectedPrintPassesTheFullPipeline(t *testing.T) {
	tu := mustParse(t, `func main(): i32 { print("hi") return 0 }`)
	InjectStdlib(tu)
	for _, p := range []Pass{&TypePass{}, &LoopPass{}, &DeadCodePass{}, &AttrPass{}, &MainFuncPass{}} {
		if err := p.Run(tu, NewContext()); err != nil {
			t.Fatalf("%s: unexpected error calling the injected print(): %v", p.Name(), err)
		}
	}
}
