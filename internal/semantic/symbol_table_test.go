package semantic

import "testing"

func TestGetSearchesInnermostFirst(t *testing.T) {
	st := NewSymbolTable[int]()
	st.Push()
	st.Set("x", 1)
	st.Push()
	st.Set("x", 2)

	v, ok := st.Get("x")
	if !ok || v != 2 {
		t.Fatalf("Get(x) = %v, %v; want 2, true", v, ok)
	}

	st.Pop()
	v, ok = st.Get("x")
	if !ok || v != 1 {
		t.Fatalf("after Pop, Get(x) = %v, %v; want 1, true", v, ok)
	}
}

func TestHasFalseOutsideAnyScope(t *testing.T) {
	st := NewSymbolTable[int]()
	if st.Has("x") {
		t.Error("Has(x) on an empty table = true, want false")
	}
	st.Push()
	if st.Has("x") {
		t.Error("Has(x) on an unset key = true, want false")
	}
}

func TestSetBindsOnlyInnermostScope(t *testing.T) {
	st := NewSymbolTable[int]()
	st.Push()
	st.Set("x", 1)
	st.Push()
	st.Set("y", 2)

	if !st.Has("x") {
		t.Error("Has(x) from nested scope = false, want true (outer scope visible)")
	}
	if _, ok := st.Get("x"); !ok {
		t.Error("Get(x) from nested scope failed, want the outer binding")
	}

	st.Pop()
	if st.Has("y") {
		t.Error("Has(y) after popping its scope = true, want false")
	}
}

func TestPopReturnsClosedScope(t *testing.T) {
	st := NewSymbolTable[int]()
	st.Push()
	st.Set("a", 10)
	scope := st.Pop()
	if scope["a"] != 10 {
		t.Errorf("Pop() returned %v, want a map containing a=10", scope)
	}
}

// TestScopeAlwaysPops verifies the Scope helper pops its frame even when
// fn panics, mirroring a deferred cleanup guarantee.
func TestScopeAlwaysPops(t *testing.T) {
	st := NewSymbolTable[int]()
	st.Push()

	func() {
		defer func() { _ = recover() }()
		st.Scope(func() {
			st.Set("temp", 1)
			panic("boom")
		})
	}()

	if st.Has("temp") {
		t.Error("temp survived its Scope after a panic, want it popped")
	}
}

func TestShadowingResolvesToInnermostBinding(t *testing.T) {
	st := NewSymbolTable[string]()
	st.Push()
	st.Set("name", "outer")
	st.Scope(func() {
		st.Set("name", "inner")
		if v, _ := st.Get("name"); v != "inner" {
			t.Errorf("Get(name) inside nested scope = %q, want inner", v)
		}
	})
	if v, _ := st.Get("name"); v != "outer" {
		t.Errorf("Get(name) after nested scope closed = %q, want outer", v)
	}
}
