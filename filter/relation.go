package filter

import (
	"fmt"
	"strings"
)

// DefaultRelationID is the identifier field of a related entity.
const DefaultRelationID = "_id"

// Relation scopes Filter to a related entity. Key is the local join field,
// Entity the related collection and ID its identifier field.
type Relation struct {
	Key    string
	Entity string
	ID     string
	Filter Node
}

func NewRelation(key, entity string, f Node) Relation {
	return Relation{Key: key, Entity: entity, ID: DefaultRelationID, Filter: f}
}

// WithID returns a copy of r joined on id instead of "_id".
func (r Relation) WithID(id string) Relation {
	r.ID = id
	return r
}

func (Relation) node() {}

// CompoundKey returns "<key>:<entity>.<id>".
func (r Relation) CompoundKey() Key {
	id := r.ID
	if id == "" {
		id = DefaultRelationID
	}
	return Key(fmt.Sprintf("%s:%s.%s", r.Key, r.Entity, id))
}

// ContributeTo opens one nested document under the compound key and encodes
// the inner filter into it. Or groups inside never flatten across it.
func (r Relation) ContributeTo(doc *Document, enc *Encoder) error {
	sub := doc.Nest(string(r.CompoundKey()))
	if r.Filter == nil {
		return nil
	}
	return r.Filter.ContributeTo(sub, enc)
}

// ParseRelationKey splits a compound key produced by Relation.CompoundKey.
// The id is everything after the last '.' of the entity part.
func ParseRelationKey(s string) (key, entity, id string, ok bool) {
	colon := strings.IndexByte(s, ':')
	if colon <= 0 {
		return "", "", "", false
	}
	key, rest := s[:colon], s[colon+1:]
	dot := strings.LastIndexByte(rest, '.')
	if dot <= 0 || dot == len(rest)-1 {
		return "", "", "", false
	}
	return key, rest[:dot], rest[dot+1:], true
}
