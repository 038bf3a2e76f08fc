// Package filter builds query filters for the absence.io backend and encodes
// them into the nested keyed documents the backend evaluates.
//
// A filter tree is made of atomic comparisons (Filter), logical groups
// (AndFilter, OrFilter) and join-scoped filters (Relation). Every node writes
// its own contribution into an open, insertion-ordered Document, which lets OR
// groups and relations pick their own keys:
//
//	f := filter.AllOf(
//		filter.GreaterOrEqual(restmodel.KeyStart, from),
//		filter.AnyOf(
//			filter.EqualTo("status", 1),
//			filter.EqualTo("status", 2),
//		),
//		filter.NewRelation("assignedToId", "users", filter.EqualTo("firstName", "Max")),
//	)
//	doc, err := filter.NewEncoder().Encode(f)
package filter

// Key names a document field. Any field path is allowed, including the
// compound keys produced by relations.
type Key string

// OrKey groups alternatives. It is reserved and must not be used as the key
// of an atomic filter.
const OrKey Key = "$or"

// Reserved reports whether the key belongs to the operator namespace
// managed by the encoder.
func (k Key) Reserved() bool {
	return k == OrKey
}

func (k Key) String() string {
	return string(k)
}
