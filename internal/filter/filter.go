package filter

// Filter is a node of a filter tree.
//
// This is a sealed interface - only types in this package implement it.
type Filter interface {
	// Kind identifies the concrete node type.
	Kind() Kind

	// Scope reports which document level the node applies to.
	Scope() Scope

	// String renders a compact, human-readable form, e.g.
	// and(eq(title, "go"), gt(price, 10)).
	String() string

	filterNode() // Marker method - seals interface to this package
}

// Kind enumerates the concrete filter node types.
type Kind int

const (
	KindEq Kind = iota + 1
	KindPrefix
	KindTerms
	KindBetween
	KindBefore
	KindAfter
	KindGreaterThan
	KindLesserThan
	KindNotEmpty
	KindWithinBBox
	KindWithinCircle
	KindAnd
	KindOr
	KindNot
)

var kindNames = map[Kind]string{
	KindEq:           "eq",
	KindPrefix:       "prefix",
	KindTerms:        "terms",
	KindBetween:      "between",
	KindBefore:       "before",
	KindAfter:        "after",
	KindGreaterThan:  "gt",
	KindLesserThan:   "lt",
	KindNotEmpty:     "notEmpty",
	KindWithinBBox:   "bbox",
	KindWithinCircle: "circle",
	KindAnd:          "and",
	KindOr:           "or",
	KindNot:          "not",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsLeaf reports whether the kind binds a field directly.
func (k Kind) IsLeaf() bool {
	return k >= KindEq && k <= KindWithinCircle
}

// Scope is the document level a filter applies to.
type Scope int

const (
	// ScopeNone means no single scope: a combinator over mixed children, or a
	// leaf built without a constructor.
	ScopeNone Scope = iota

	// ScopeParent filters on fields of the top-level document.
	ScopeParent

	// ScopeNested filters on fields of nested child documents.
	ScopeNested
)

func (s Scope) String() string {
	switch s {
	case ScopeParent:
		return "parent"
	case ScopeNested:
		return "nested"
	default:
		return "none"
	}
}

// Field returns the field a leaf filter binds, or "" for combinators.
func Field(f Filter) string {
	switch n := f.(type) {
	case *Eq:
		return n.Field
	case *Prefix:
		return n.Field
	case *Terms:
		return n.Field
	case *Between:
		return n.Field
	case *Before:
		return n.Field
	case *After:
		return n.Field
	case *GreaterThan:
		return n.Field
	case *LesserThan:
		return n.Field
	case *NotEmpty:
		return n.Field
	case *WithinBBox:
		return n.Field
	case *WithinCircle:
		return n.Field
	default:
		return ""
	}
}
