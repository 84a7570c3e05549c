// Package datemath parses relative date expressions such as "NOW/DAY-14DAYS"
// or "2015-01-01T00:00:00Z+6MONTHS".
//
// # Grammar
//
//	expr     := root rounding? op*
//	root     := "NOW" | <RFC 3339 instant> | <yyyy-MM-dd> | <dd-MM-yyyy>
//	rounding := "/" UNIT
//	op       := ("+" | "-") INT UNIT
//	UNIT     := YEAR(S) | MONTH(S) | DAY(S) | DATE | HOUR(S) | MINUTE(S)
//	          | SECOND(S) | MILLI(S) | MILLISECOND(S)
//
// Units are case-sensitive. The remainder after the root is tokenized on
// word boundaries and on digit/non-digit boundaries, so "+14DAYS" yields the
// tokens "+", "14", "DAYS". Every run of punctuation is one command token and
// a command longer than one character is rejected.
//
// A dd-MM-yyyy root is only recognised when the day is within 1-31 and the
// month within 1-12; anything else falls back to instant parsing.
//
// # Evaluation
//
// Expressions rooted at NOW capture the parser's clock at parse time. Time()
// evaluates root, then rounding (down to the start of the unit, in UTC), then
// every operation in declaration order. WithNow rebinds the captured reference
// so a parsed expression can be reused across executions.
//
// # Canonical form
//
// String() renders the canonical form: "NOW" or a UTC RFC 3339 instant, the
// singular rounding unit, and each operation with a singular unit for a
// quantity of one and a plural unit otherwise. Expressions written in that
// form round-trip exactly.
package datemath
