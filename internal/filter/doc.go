// Package filter provides the backend-agnostic filter tree produced by the
// query parser and consumed by the renderers in internal/render.
//
// SEALED INTERFACES:
//
// Filter and Value are sealed interfaces using the marker method pattern.
// Only types in this package implement them, so a type switch over the
// concrete kinds is exhaustive and render.Walk can reject anything else.
//
// LEAVES:
//
//	Eq           field = value
//	Prefix       field starts with text
//	Terms        field is one of values
//	Between      from <= field <= to
//	Before       field <= value           (dates)
//	After        field >= value           (dates)
//	GreaterThan  field >= value           (numbers)
//	LesserThan   field <= value           (numbers)
//	NotEmpty     field has any value
//	WithinBBox   point field inside a bounding box
//	WithinCircle point field within a radius of a center
//
// Range leaves are inclusive on both ends.
//
// COMBINATORS:
//
// And and Or flatten nested nodes of the same kind and drop structural
// duplicates while keeping the first occurrence's position. A single
// remaining child is returned as-is and no children yield nil. Not wraps one
// child and Not(Not(x)) is x.
//
// STRUCTURAL IDENTITY:
//
// Key computes a content-addressed identity: the node is described as a
// canonical JSON document (keys sorted by UTF-16 code units, strings NFC
// normalised, no floats) and hashed with SHA-256 under a domain prefix.
// Two filters are Equal when their keys match. Relative dates contribute
// their canonical expression, not the instant they currently evaluate to.
//
// SCOPE:
//
// Every node carries a Scope. Leaves built by the constructors are
// ScopeParent; WithScope rebinds every leaf of a tree. And and Or take the
// common scope of their children, ScopeNone when children disagree. Not keeps
// its child's scope.
//
// Filter trees are immutable after construction: combinators copy the
// children they are given, and Clone, WithNow and WithScope return new trees.
package filter
