package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"
)

func TestDocumentKeepsInsertionOrder(t *testing.T) {
	doc := NewDocument()
	doc.Set("z", 1)
	doc.Set("a", 2)
	doc.Set("m", 3)
	doc.Set("a", 4)

	assert.Equal(t, []string{"z", "a", "m"}, doc.Keys())
	v, ok := doc.Get("a")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":4,"m":3}`, string(b))
}

func TestDocumentNestAndList(t *testing.T) {
	doc := NewDocument()
	doc.Nest("team:teams._id").Set("_id", 1)
	list := doc.List("$or")
	list.AppendDocument().Set("a", 1)
	list.Append("raw")

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"team:teams._id":{"_id":1},"$or":[{"a":1},"raw"]}`, string(b))
	assert.Equal(t, 2, list.Len())
}

func TestDocumentZeroValueUsable(t *testing.T) {
	var doc Document
	doc.Set("a", 1)
	assert.Equal(t, 1, doc.Len())

	var nilDoc *Document
	assert.Equal(t, 0, nilDoc.Len())
	_, ok := nilDoc.Get("a")
	assert.False(t, ok)
}

func TestDocumentUnmarshalKeepsOrder(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"b":{"y":1,"x":[1,{"k":"v"}]},"a":true,"c":null}`), &doc))
	assert.Equal(t, []string{"b", "a", "c"}, doc.Keys())

	b, _ := doc.Get("b")
	inner, ok := b.(*Document)
	require.True(t, ok)
	assert.Equal(t, []string{"y", "x"}, inner.Keys())
	y, _ := inner.Get("y")
	assert.Equal(t, json.Number("1"), y)

	out, err := json.Marshal(&doc)
	require.NoError(t, err)
	assert.Equal(t, `{"b":{"y":1,"x":[1,{"k":"v"}]},"a":true,"c":null}`, string(out))
}

func TestDocumentUnmarshalRejectsNonObject(t *testing.T) {
	var doc Document
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &doc))
}

func TestDocumentEqual(t *testing.T) {
	a := NewDocument()
	a.Set("x", 1)
	a.Set("y", []interface{}{"p", "q"})
	b := NewDocument()
	b.Set("y", []interface{}{"p", "q"})
	b.Set("x", json.Number("1"))
	assert.True(t, Equal(a, b))

	c := NewDocument()
	c.Set("x", 1)
	c.Set("y", []interface{}{"q", "p"})
	assert.False(t, Equal(a, c))
}

func TestDocumentBSON(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"daysCount":{"$gte":1.5},"status":2,"$or":[{"a":"x"},{"b":1}]}`), &doc))

	want := bson.D{
		{Name: "daysCount", Value: bson.D{{Name: "$gte", Value: 1.5}}},
		{Name: "status", Value: int64(2)},
		{Name: "$or", Value: []interface{}{
			bson.D{{Name: "a", Value: "x"}},
			bson.D{{Name: "b", Value: int64(1)}},
		}},
	}
	assert.Equal(t, want, doc.BSON())

	raw, err := bson.Marshal(&doc)
	require.NoError(t, err)
	var back bson.D
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, "daysCount", back[0].Name)
	assert.Equal(t, "$or", back[2].Name)
}
