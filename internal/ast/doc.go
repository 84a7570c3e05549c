// Package ast defines the parse tree of a text query before its literals are
// bound to field types.
//
// A query is a sequence of Clauses. A Clause optionally names a field and
// holds one Body:
//
//	SimpleTerm    title:go, title:"go lang", price:[5 TO 10], tags:(a OR b)
//	ComplexTerm   a parenthesised group of clauses
//	BinaryClause  two clauses joined by AND or OR
//	UnaryClause   NOT applied to a group
//
// The value side of a field clause is a Literal. Boolean structure inside a
// value group (tags:(a OR NOT b)) is kept as BinaryBooleanLiteral and
// UnaryBooleanLiteral; the resolver turns it into filter combinators, so
// boolean algebra only lives in the filter tree.
//
// RangeLiteral holds raw bound text. The resolver specialises it into
// NumericRangeLiteral, DateRangeLiteral or GeoRangeLiteral once the field's
// kind is known.
//
// AST nodes are created per parse call and discarded once filters are
// extracted. Every Clause records the verbatim Source span it was parsed
// from, which lenient parsing appends to the residual text when binding fails.
package ast
