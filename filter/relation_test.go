package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationEncoding(t *testing.T) {
	r := Relation{Key: "team", Entity: "teams", ID: "_id", Filter: In("_id", 1, 2)}
	assert.Equal(t, `{"team:teams._id":{"_id":{"$in":[1,2]}}}`, encodeJSON(t, r))
}

func TestRelationDefaultsAndCustomID(t *testing.T) {
	r := NewRelation("assignedToId", "users", EqualTo("firstName", "Max"))
	assert.Equal(t, Key("assignedToId:users._id"), r.CompoundKey())
	assert.Equal(t, Key("assignedToId:users.email"), r.WithID("email").CompoundKey())
	assert.Equal(t, Key("a:b._id"), Relation{Key: "a", Entity: "b"}.CompoundKey())
}

func TestRelationAlwaysNests(t *testing.T) {
	assert.Equal(t, `{"team:teams._id":{}}`, encodeJSON(t, NewRelation("team", "teams", nil)))
	assert.Equal(t, `{"team:teams._id":{}}`, encodeJSON(t, NewRelation("team", "teams", AnyOf())))
	assert.Equal(t,
		`{"reasonId:reasons._id":{"user:users._id":{"name":"x"}}}`,
		encodeJSON(t, NewRelation("reasonId", "reasons", NewRelation("user", "users", EqualTo("name", "x")))))
}

func TestParseRelationKey(t *testing.T) {
	key, entity, id, ok := ParseRelationKey("team:teams._id")
	assert.True(t, ok)
	assert.Equal(t, "team", key)
	assert.Equal(t, "teams", entity)
	assert.Equal(t, "_id", id)

	_, entity, id, ok = ParseRelationKey("a:b.c.d")
	assert.True(t, ok)
	assert.Equal(t, "b.c", entity)
	assert.Equal(t, "d", id)

	for _, s := range []string{"plain", "$or", ":x.y", "a:b", "a:.y", "a:b."} {
		_, _, _, ok := ParseRelationKey(s)
		assert.False(t, ok, s)
	}
}
