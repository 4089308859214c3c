package parser

import "strconv"

// parseInt and parseFloat convert a lexer-verified numeric literal lexeme.
// The lexer only ever produces digit runs (plus a '.' fraction and an
// optional exponent for floats), so the only possible failure is a value
// out of range; that error is discarded and strconv's clamped result
// (math.MaxInt64, or +Inf for a float) is returned.
func parseInt(lit string) int64 {
	n, _ := strconv.ParseInt(lit, 10, 64)
	return n
}

func parseFloat(lit string) float64 {
	f, _ := strconv.ParseFloat(lit, 64)
	return f
}
