// Package types implements the source language's closed universe of
// built-in value types and the conversion/promotion rules TypePass applies
// to them.
package types

// Type identifies a value type by its canonical name. Two Types are equal
// iff their Names are equal, so Type is safely comparable with ==.
type Type struct {
	Name string
}

func (t Type) String() string { return t.Name }

// Builtin names, one per entry in the closed type universe.
var (
	I8   = Type{"i8"}
	I32  = Type{"i32"}
	I64  = Type{"i64"}
	U8   = Type{"u8"}
	U32  = Type{"u32"}
	U64  = Type{"u64"}
	F32  = Type{"f32"}
	F64  = Type{"f64"}
	Bool = Type{"bool"}
	Str  = Type{"str"}
	Void = Type{"void"}
)

// byName resolves a bare identifier (as it appears after a ':' type
// annotation or following 'as') to its builtin Type. The second result is
// false for any name outside the closed universe.
var byName = map[string]Type{
	I8.Name: I8, I32.Name: I32, I64.Name: I64,
	U8.Name: U8, U32.Name: U32, U64.Name: U64,
	F32.Name: F32, F64.Name: F64,
	Bool.Name: Bool, Str.Name: Str, Void.Name: Void,
}

// Lookup resolves name to its builtin Type.
func Lookup(name string) (Type, bool) {
	t, ok := byName[name]
	return t, ok
}

var (
	SignedInts   = []Type{I8, I32, I64}
	UnsignedInts = []Type{U8, U32, U64}
	Integers     = append(append([]Type{}, SignedInts...), UnsignedInts...)
	Floats       = []Type{F32, F64}
	Numerical    = append(append([]Type{}, Integers...), Floats...)
	VarTypes     = append(append([]Type{}, Numerical...), Bool, Str)
)

func contains(set []Type, t Type) bool {
	for _, s := range set {
		if s == t {
			return true
		}
	}
	return false
}

// IsInteger, IsFloat, IsNumerical and IsVarType test membership in the
// corresponding predicate sets.
func IsInteger(t Type) bool   { return contains(Integers, t) }
func IsFloat(t Type) bool     { return contains(Floats, t) }
func IsNumerical(t Type) bool { return contains(Numerical, t) }
func IsVarType(t Type) bool   { return contains(VarTypes, t) }

// kind is 'i', 'u' or 'f' — the first letter of a builtin numeric type's name.
func kind(t Type) byte { return t.Name[0] }

// nbits is the bit width encoded in a builtin numeric type's name.
func nbits(t Type) int {
	switch t.Name[1:] {
	case "8":
		return 8
	case "32":
		return 32
	case "64":
		return 64
	}
	return 0
}

// integralConversion implements the integer/float common-type rule,
// assuming both operands are already known to be numerical.
func integralConversion(left, right Type) Type {
	if left == F64 || right == F64 {
		return F64
	}
	if left == F32 || right == F32 {
		return F32
	}
	lk, ln := kind(left), nbits(left)
	rk, rn := kind(right), nbits(right)

	var resultKind byte
	switch {
	case lk == rk:
		resultKind = lk
	case lk == 'u' && ln < rn:
		resultKind = 'i'
	case rk == 'u' && rn < ln:
		resultKind = 'i'
	default:
		resultKind = 'u'
	}
	resultBits := ln
	if rn > resultBits {
		resultBits = rn
	}
	name := string(resultKind) + itoa(resultBits)
	t, _ := Lookup(name)
	return t
}

func itoa(n int) string {
	switch n {
	case 8:
		return "8"
	case 32:
		return "32"
	case 64:
		return "64"
	}
	return ""
}

// Conversion computes the common type two operands of a binary expression
// must be promoted to before the operation is applied. The zero Type is
// returned (ok=false) when no common type exists.
func Conversion(left, right Type) (Type, bool) {
	if left == Str || right == Str || left == Void || right == Void {
		return Type{}, false
	}
	if left == Bool || right == Bool {
		if left == right {
			return left, true
		}
		return Type{}, false
	}
	return integralConversion(left, right), true
}

// Promotion reports whether from may be implicitly widened to to,
// returning (to, true) when it may and (Type{}, false) otherwise.
// Promotion never reports true for from == to (no self-promotion).
func Promotion(from, to Type) (Type, bool) {
	if from == to {
		return Type{}, false
	}
	if !IsNumerical(from) || !IsNumerical(to) {
		return Type{}, false
	}
	if to == F64 {
		return to, true
	}
	if to == F32 && from != F64 {
		return to, true
	}
	if IsFloat(from) {
		return Type{}, false
	}
	fk, fn := kind(from), nbits(from)
	tn := nbits(to)
	switch {
	case fk == 'u' && fn < tn:
		return to, true
	case fk == 'i' && fn <= tn:
		return to, true
	}
	return Type{}, false
}
