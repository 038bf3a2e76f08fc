package filter

import "fmt"

// Operator selects how a Comparison matches its value.
type Operator int

const (
	OpEquals Operator = iota
	OpIn
	OpNotIn
	OpGreater
	OpGreaterEquals
	OpLess
	OpLessEquals
)

var operatorTokens = [...]string{
	OpEquals:        "",
	OpIn:            "$in",
	OpNotIn:         "$nin",
	OpGreater:       "$gt",
	OpGreaterEquals: "$gte",
	OpLess:          "$lt",
	OpLessEquals:    "$lte",
}

var operatorNames = [...]string{
	OpEquals:        "equals",
	OpIn:            "in",
	OpNotIn:         "notIn",
	OpGreater:       "greater",
	OpGreaterEquals: "greaterEquals",
	OpLess:          "less",
	OpLessEquals:    "lessEquals",
}

func (o Operator) valid() bool {
	return o >= OpEquals && o <= OpLessEquals
}

// Token returns the wire key of the operator. Equality has no token: its value
// is written bare.
func (o Operator) Token() string {
	if !o.valid() {
		return ""
	}
	return operatorTokens[o]
}

func (o Operator) String() string {
	if !o.valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Comparison applies an operator to a value of type V. In and NotIn carry a
// slice.
type Comparison[V any] struct {
	Op    Operator
	Value V
}

func Equals[V any](v V) Comparison[V] {
	return Comparison[V]{Op: OpEquals, Value: v}
}

func InSet[V any](values []V) Comparison[[]V] {
	return Comparison[[]V]{Op: OpIn, Value: values}
}

func NotInSet[V any](values []V) Comparison[[]V] {
	return Comparison[[]V]{Op: OpNotIn, Value: values}
}

func Greater[V any](v V) Comparison[V] {
	return Comparison[V]{Op: OpGreater, Value: v}
}

func GreaterEquals[V any](v V) Comparison[V] {
	return Comparison[V]{Op: OpGreaterEquals, Value: v}
}

func Less[V any](v V) Comparison[V] {
	return Comparison[V]{Op: OpLess, Value: v}
}

func LessEquals[V any](v V) Comparison[V] {
	return Comparison[V]{Op: OpLessEquals, Value: v}
}

// encode renders the comparison: the bare value for equality, otherwise a
// single-key document {token: value}.
func (c Comparison[V]) encode(enc *Encoder) (interface{}, error) {
	if !c.Op.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperator, int(c.Op))
	}
	v, err := enc.Value(c.Value)
	if err != nil {
		return nil, err
	}
	if c.Op == OpEquals {
		return v, nil
	}
	doc := NewDocument()
	doc.Set(c.Op.Token(), v)
	return doc, nil
}
