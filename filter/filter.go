package filter

import "fmt"

// Node is a filter tree node. The set of implementations is closed:
// Filter, AndFilter, OrFilter and Relation.
type Node interface {
	// ContributeTo writes the node's representation into doc. The node
	// chooses its own keys.
	ContributeTo(doc *Document, enc *Encoder) error

	node()
}

// Filter binds a key to a comparison.
type Filter[V any] struct {
	Key        Key
	Comparison Comparison[V]
}

func (Filter[V]) node() {}

// ContributeTo sets {key: comparison} in doc, replacing a previous value
// under the same key.
func (f Filter[V]) ContributeTo(doc *Document, enc *Encoder) error {
	if f.Key.Reserved() {
		return fmt.Errorf("%w: %q", ErrReservedKey, string(f.Key))
	}
	v, err := f.Comparison.encode(enc)
	if err != nil {
		return &SerializationError{Key: f.Key, Err: err}
	}
	doc.Set(string(f.Key), v)
	return nil
}

func EqualTo[V any](key Key, v V) Filter[V] {
	return Filter[V]{Key: key, Comparison: Equals(v)}
}

func LessThan[V any](key Key, v V) Filter[V] {
	return Filter[V]{Key: key, Comparison: Less(v)}
}

func LessOrEqual[V any](key Key, v V) Filter[V] {
	return Filter[V]{Key: key, Comparison: LessEquals(v)}
}

func GreaterThan[V any](key Key, v V) Filter[V] {
	return Filter[V]{Key: key, Comparison: Greater(v)}
}

func GreaterOrEqual[V any](key Key, v V) Filter[V] {
	return Filter[V]{Key: key, Comparison: GreaterEquals(v)}
}

func In[V any](key Key, values ...V) Filter[[]V] {
	return Filter[[]V]{Key: key, Comparison: InSet(values)}
}

func NotIn[V any](key Key, values ...V) Filter[[]V] {
	return Filter[[]V]{Key: key, Comparison: NotInSet(values)}
}
