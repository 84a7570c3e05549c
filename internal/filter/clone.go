package filter

import "time"

// Clone returns a deep copy of f. Clone(nil) is nil.
func Clone(f Filter) Filter {
	return rewrite{}.apply(f)
}

// WithNow returns a copy of f in which every relative date is rebound to now.
// Absolute dates and non-date values are copied unchanged.
func WithNow(f Filter, now time.Time) Filter {
	return rewrite{
		value: func(v Value) Value {
			if d, ok := v.(Date); ok {
				return d.withNow(now)
			}
			return v
		},
	}.apply(f)
}

// WithScope returns a copy of f with every leaf moved to scope. Combinators
// recompute their scope from the rebound children.
func WithScope(f Filter, scope Scope) Filter {
	return rewrite{scope: scope, setScope: true}.apply(f)
}

// rewrite copies a tree, optionally mapping leaf values and leaf scopes.
type rewrite struct {
	value    func(Value) Value
	scope    Scope
	setScope bool
}

func (r rewrite) val(v Value) Value {
	if r.value == nil || v == nil {
		return v
	}
	return r.value(v)
}

func (r rewrite) point(p Point) Point {
	if mapped, ok := r.val(p).(Point); ok {
		return mapped
	}
	return p
}

func (r rewrite) scoped(l leaf) leaf {
	if r.setScope {
		l.scope = r.scope
	}
	return l
}

func (r rewrite) apply(f Filter) Filter {
	switch n := f.(type) {
	case nil:
		return nil
	case *Conjunction:
		return And(r.applyAll(n.children)...)
	case *Disjunction:
		return Or(r.applyAll(n.children)...)
	case *Negation:
		return &Negation{child: r.apply(n.child)}
	case *Eq:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.Value = r.val(n.Value)
		return &c
	case *Prefix:
		c := *n
		c.leaf = r.scoped(n.leaf)
		return &c
	case *Terms:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.Values = make([]Value, len(n.Values))
		for i, v := range n.Values {
			c.Values[i] = r.val(v)
		}
		return &c
	case *Between:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.From = r.val(n.From)
		c.To = r.val(n.To)
		return &c
	case *Before:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.Value = r.val(n.Value)
		return &c
	case *After:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.Value = r.val(n.Value)
		return &c
	case *GreaterThan:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.Value = r.val(n.Value)
		return &c
	case *LesserThan:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.Value = r.val(n.Value)
		return &c
	case *NotEmpty:
		c := *n
		c.leaf = r.scoped(n.leaf)
		return &c
	case *WithinBBox:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.Min = r.point(n.Min)
		c.Max = r.point(n.Max)
		return &c
	case *WithinCircle:
		c := *n
		c.leaf = r.scoped(n.leaf)
		c.Center = r.point(n.Center)
		return &c
	default:
		return f
	}
}

func (r rewrite) applyAll(children []Filter) []Filter {
	out := make([]Filter, len(children))
	for i, c := range children {
		out[i] = r.apply(c)
	}
	return out
}
