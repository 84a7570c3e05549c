// Package query parses human-authored text queries into bound filters plus
// residual free text.
//
// GRAMMAR:
//
//	query    := clause*
//	clause   := or
//	or       := and ("OR" and)*
//	and      := unary ("AND" unary)*
//	unary    := ("NOT" | "-" | "+") unary | primary
//	primary  := "(" clause+ ")" | field ":" value | term | phrase | range
//	value    := term | phrase | range | "(" alts ")"
//	alts     := alt (("OR")? alt)*        adjacency means OR
//	range    := "[" bound "TO" bound "]"  "*" leaves a side open
//
// Keywords are upper-case. NOT and '-' bind tightest, then AND, then OR.
// Adjacent top-level clauses are independent; Query.Filter combines them with
// AND. Adjacent clauses inside parentheses are joined with AND.
//
// The value after "field:" is read as one token, so it may contain ':' and
// '-' (title:a:b, created:2015-01-01T00:00:00Z). A backslash escapes any
// character. A trailing unescaped '*' makes a prefix match and a bare '*'
// matches any value.
//
// FREE TEXT:
//
// A top-level clause that names no field at all is free text: its source is
// appended to Query.Text. A clause mixing field terms with field-less terms
// (title:go OR rust) is bound like any other clause and fails for the
// field-less part.
//
// STRICT AND LENIENT MODE:
//
// Syntax errors abort in both modes. When a field clause fails to bind, a
// strict parser aborts with *BindingError; a lenient parser appends the
// clause source to Query.Text and continues, so partial understanding
// degrades to full-text search. Date-math syntax errors inside a clause abort
// in both modes.
package query
