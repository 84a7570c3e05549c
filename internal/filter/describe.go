package filter

// Describe returns a JSON-ready document describing f. Numbers are rendered
// as strings and dates as their canonical expression. Describe(nil) is nil.
//
// Example:
//
//	{"kind": "between", "scope": "parent", "field": "price",
//	 "from": {"type": "numeric", "value": "5"},
//	 "to":   {"type": "numeric", "value": "10"}}
func Describe(f Filter) map[string]any {
	if f == nil {
		return nil
	}
	doc := map[string]any{
		"kind":  f.Kind().String(),
		"scope": f.Scope().String(),
	}
	if f.Kind().IsLeaf() {
		doc["field"] = Field(f)
	}

	switch n := f.(type) {
	case *Eq:
		doc["value"] = describeValue(n.Value)
	case *Prefix:
		doc["prefix"] = n.Prefix
	case *Terms:
		values := make([]any, len(n.Values))
		for i, v := range n.Values {
			values[i] = describeValue(v)
		}
		doc["values"] = values
	case *Between:
		doc["from"] = describeValue(n.From)
		doc["to"] = describeValue(n.To)
	case *Before:
		doc["value"] = describeValue(n.Value)
	case *After:
		doc["value"] = describeValue(n.Value)
	case *GreaterThan:
		doc["value"] = describeValue(n.Value)
	case *LesserThan:
		doc["value"] = describeValue(n.Value)
	case *NotEmpty:
	case *WithinBBox:
		doc["min"] = describeValue(n.Min)
		doc["max"] = describeValue(n.Max)
	case *WithinCircle:
		doc["center"] = describeValue(n.Center)
		doc["radius_km"] = formatFloat(n.RadiusKm)
	case *Conjunction:
		doc["children"] = describeAll(n.children)
	case *Disjunction:
		doc["children"] = describeAll(n.children)
	case *Negation:
		doc["child"] = Describe(n.child)
	}
	return doc
}

func describeAll(children []Filter) []any {
	out := make([]any, len(children))
	for i, c := range children {
		out[i] = Describe(c)
	}
	return out
}

func describeValue(v Value) map[string]any {
	if v == nil {
		return map[string]any{"type": "none", "value": ""}
	}
	text := v.String()
	if t, ok := v.(Text); ok {
		text = string(t)
	}
	return map[string]any{"type": string(v.ValueKind()), "value": text}
}
