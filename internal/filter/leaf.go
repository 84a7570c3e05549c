package filter

import (
	"fmt"
	"strings"
)

// leaf carries the scope shared by every leaf node.
type leaf struct {
	scope Scope
}

// Scope returns the leaf's scope.
func (l leaf) Scope() Scope { return l.scope }

func (leaf) filterNode() {}

var parentScope = leaf{scope: ScopeParent}

// Eq matches documents whose field equals Value.
type Eq struct {
	leaf
	Field string
	Value Value
}

// NewEq creates an Eq filter in ScopeParent.
func NewEq(field string, v Value) *Eq {
	return &Eq{leaf: parentScope, Field: field, Value: v}
}

func (*Eq) Kind() Kind { return KindEq }

func (f *Eq) String() string {
	return fmt.Sprintf("eq(%s, %s)", f.Field, f.Value)
}

// Prefix matches text fields starting with Prefix.
type Prefix struct {
	leaf
	Field  string
	Prefix string
}

// NewPrefix creates a Prefix filter in ScopeParent.
func NewPrefix(field, prefix string) *Prefix {
	return &Prefix{leaf: parentScope, Field: field, Prefix: prefix}
}

func (*Prefix) Kind() Kind { return KindPrefix }

func (f *Prefix) String() string {
	return fmt.Sprintf("prefix(%s, %s)", f.Field, Text(f.Prefix))
}

// Terms matches documents whose field equals any of Values.
type Terms struct {
	leaf
	Field  string
	Values []Value
}

// NewTerms creates a Terms filter in ScopeParent. The values are copied.
func NewTerms(field string, values ...Value) *Terms {
	return &Terms{leaf: parentScope, Field: field, Values: append([]Value(nil), values...)}
}

func (*Terms) Kind() Kind { return KindTerms }

func (f *Terms) String() string {
	parts := make([]string, 0, len(f.Values)+1)
	parts = append(parts, f.Field)
	for _, v := range f.Values {
		parts = append(parts, v.String())
	}
	return "terms(" + strings.Join(parts, ", ") + ")"
}

// Between matches From <= field <= To.
type Between struct {
	leaf
	Field string
	From  Value
	To    Value
}

// NewBetween creates a Between filter in ScopeParent.
func NewBetween(field string, from, to Value) *Between {
	return &Between{leaf: parentScope, Field: field, From: from, To: to}
}

func (*Between) Kind() Kind { return KindBetween }

func (f *Between) String() string {
	return fmt.Sprintf("between(%s, %s, %s)", f.Field, f.From, f.To)
}

// Before matches dates at or before Value.
type Before struct {
	leaf
	Field string
	Value Value
}

// NewBefore creates a Before filter in ScopeParent.
func NewBefore(field string, v Value) *Before {
	return &Before{leaf: parentScope, Field: field, Value: v}
}

func (*Before) Kind() Kind { return KindBefore }

func (f *Before) String() string {
	return fmt.Sprintf("before(%s, %s)", f.Field, f.Value)
}

// After matches dates at or after Value.
type After struct {
	leaf
	Field string
	Value Value
}

// NewAfter creates an After filter in ScopeParent.
func NewAfter(field string, v Value) *After {
	return &After{leaf: parentScope, Field: field, Value: v}
}

func (*After) Kind() Kind { return KindAfter }

func (f *After) String() string {
	return fmt.Sprintf("after(%s, %s)", f.Field, f.Value)
}

// GreaterThan matches numbers greater than or equal to Value.
type GreaterThan struct {
	leaf
	Field string
	Value Value
}

// NewGreaterThan creates a GreaterThan filter in ScopeParent.
func NewGreaterThan(field string, v Value) *GreaterThan {
	return &GreaterThan{leaf: parentScope, Field: field, Value: v}
}

func (*GreaterThan) Kind() Kind { return KindGreaterThan }

func (f *GreaterThan) String() string {
	return fmt.Sprintf("gt(%s, %s)", f.Field, f.Value)
}

// LesserThan matches numbers lesser than or equal to Value.
type LesserThan struct {
	leaf
	Field string
	Value Value
}

// NewLesserThan creates a LesserThan filter in ScopeParent.
func NewLesserThan(field string, v Value) *LesserThan {
	return &LesserThan{leaf: parentScope, Field: field, Value: v}
}

func (*LesserThan) Kind() Kind { return KindLesserThan }

func (f *LesserThan) String() string {
	return fmt.Sprintf("lt(%s, %s)", f.Field, f.Value)
}

// NotEmpty matches documents where the field has any value.
type NotEmpty struct {
	leaf
	Field string
}

// NewNotEmpty creates a NotEmpty filter in ScopeParent.
func NewNotEmpty(field string) *NotEmpty {
	return &NotEmpty{leaf: parentScope, Field: field}
}

func (*NotEmpty) Kind() Kind { return KindNotEmpty }

func (f *NotEmpty) String() string {
	return fmt.Sprintf("notEmpty(%s)", f.Field)
}

// WithinBBox matches points inside the box spanned by Min (south-west
// corner) and Max (north-east corner).
type WithinBBox struct {
	leaf
	Field string
	Min   Point
	Max   Point
}

// NewWithinBBox creates a WithinBBox filter in ScopeParent.
func NewWithinBBox(field string, southWest, northEast Point) *WithinBBox {
	return &WithinBBox{leaf: parentScope, Field: field, Min: southWest, Max: northEast}
}

func (*WithinBBox) Kind() Kind { return KindWithinBBox }

func (f *WithinBBox) String() string {
	return fmt.Sprintf("bbox(%s, %s, %s)", f.Field, f.Min, f.Max)
}

// WithinCircle matches points within RadiusKm kilometres of Center.
type WithinCircle struct {
	leaf
	Field    string
	Center   Point
	RadiusKm float64
}

// NewWithinCircle creates a WithinCircle filter in ScopeParent.
func NewWithinCircle(field string, center Point, radiusKm float64) *WithinCircle {
	return &WithinCircle{leaf: parentScope, Field: field, Center: center, RadiusKm: radiusKm}
}

func (*WithinCircle) Kind() Kind { return KindWithinCircle }

func (f *WithinCircle) String() string {
	return fmt.Sprintf("circle(%s, %s, %skm)", f.Field, f.Center, formatFloat(f.RadiusKm))
}
