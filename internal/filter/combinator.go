package filter

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Conjunction matches documents matched by every child. Build it with And.
type Conjunction struct {
	scope    Scope
	children []Filter
}

func (*Conjunction) filterNode() {}

func (*Conjunction) Kind() Kind { return KindAnd }

// Scope returns the common scope of the children, ScopeNone when mixed.
func (c *Conjunction) Scope() Scope { return c.scope }

// Children returns a copy of the children in insertion order.
func (c *Conjunction) Children() []Filter {
	return append([]Filter(nil), c.children...)
}

func (c *Conjunction) String() string {
	return formatGroup("and", c.children)
}

// Disjunction matches documents matched by any child. Build it with Or.
type Disjunction struct {
	scope    Scope
	children []Filter
}

func (*Disjunction) filterNode() {}

func (*Disjunction) Kind() Kind { return KindOr }

// Scope returns the common scope of the children, ScopeNone when mixed.
func (d *Disjunction) Scope() Scope { return d.scope }

// Children returns a copy of the children in insertion order.
func (d *Disjunction) Children() []Filter {
	return append([]Filter(nil), d.children...)
}

func (d *Disjunction) String() string {
	return formatGroup("or", d.children)
}

// Negation matches documents not matched by its child. Build it with Not.
type Negation struct {
	child Filter
}

func (*Negation) filterNode() {}

func (*Negation) Kind() Kind { return KindNot }

// Scope returns the child's scope.
func (n *Negation) Scope() Scope { return n.child.Scope() }

// Child returns the negated filter.
func (n *Negation) Child() Filter { return n.child }

func (n *Negation) String() string {
	return "not(" + n.child.String() + ")"
}

// And combines filters so that all of them must match.
//
// Nil filters are skipped, nested conjunctions are flattened and structural
// duplicates are dropped. One remaining filter is returned unchanged; none
// yields nil.
func And(filters ...Filter) Filter {
	children := collect(filters, func(f Filter) []Filter {
		if c, ok := f.(*Conjunction); ok {
			return c.children
		}
		return nil
	})
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &Conjunction{scope: commonScope(children), children: children}
}

// Or combines filters so that any of them must match. It follows the same
// flattening, deduplication and collapsing rules as And.
func Or(filters ...Filter) Filter {
	children := collect(filters, func(f Filter) []Filter {
		if d, ok := f.(*Disjunction); ok {
			return d.children
		}
		return nil
	})
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	return &Disjunction{scope: commonScope(children), children: children}
}

// Not negates f. Not(nil) is nil and Not(Not(x)) is x.
func Not(f Filter) Filter {
	switch n := f.(type) {
	case nil:
		return nil
	case *Negation:
		return n.child
	default:
		return &Negation{child: f}
	}
}

// collect flattens filters with flatten and dedupes them by structural key,
// keeping the position of each first occurrence.
func collect(filters []Filter, flatten func(Filter) []Filter) []Filter {
	set := orderedmap.New[string, Filter]()
	var add func(Filter)
	add = func(f Filter) {
		if f == nil {
			return
		}
		if nested := flatten(f); nested != nil {
			for _, c := range nested {
				add(c)
			}
			return
		}
		k := Key(f)
		if _, dup := set.Get(k); dup {
			return
		}
		set.Set(k, f)
	}
	for _, f := range filters {
		add(f)
	}

	out := make([]Filter, 0, set.Len())
	for pair := set.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func commonScope(children []Filter) Scope {
	scope := children[0].Scope()
	for _, c := range children[1:] {
		if c.Scope() != scope {
			return ScopeNone
		}
	}
	return scope
}

func formatGroup(name string, children []Filter) string {
	parts := make([]string, len(children))
	for i, c := range children {
		parts[i] = c.String()
	}
	return name + "(" + strings.Join(parts, ", ") + ")"
}
