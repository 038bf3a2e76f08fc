package storage

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mgo.v2/bson"

	"absenceio/filter"
)

type distinctCall struct {
	collection string
	field      string
	query      bson.D
}

type fakeStore struct {
	calls []distinctCall
	ids   []interface{}
	err   error
}

func (f *fakeStore) Find(ctx context.Context, collection string, query bson.D, skip, limit int) ([]bson.M, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) Distinct(ctx context.Context, collection, field string, query bson.D) ([]interface{}, error) {
	f.calls = append(f.calls, distinctCall{collection, field, query})
	return f.ids, f.err
}

func (f *fakeStore) Close() error { return nil }

func mustParse(t *testing.T, s string) *filter.Document {
	t.Helper()
	var doc filter.Document
	require.NoError(t, json.Unmarshal([]byte(s), &doc))
	return &doc
}

func TestResolvePlainFilter(t *testing.T) {
	store := &fakeStore{}
	doc := mustParse(t, `{"status":2,"start":{"$gte":"2024-01-01"},"name":"Max","ratio":0.5}`)

	query, err := Resolve(context.Background(), store, doc)
	require.NoError(t, err)
	assert.Empty(t, store.calls)
	assert.Equal(t, bson.D{
		{Name: "status", Value: int64(2)},
		{Name: "start", Value: bson.D{{Name: "$gte", Value: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}},
		{Name: "name", Value: "Max"},
		{Name: "ratio", Value: 0.5},
	}, query)
}

func TestResolveRelation(t *testing.T) {
	store := &fakeStore{ids: []interface{}{"u1", "u2"}}
	doc := mustParse(t, `{"assignedToId:users._id":{"teamId":{"$in":["t1"]}}}`)

	query, err := Resolve(context.Background(), store, doc)
	require.NoError(t, err)
	require.Len(t, store.calls, 1)
	assert.Equal(t, "users", store.calls[0].collection)
	assert.Equal(t, "_id", store.calls[0].field)
	assert.Equal(t, bson.D{{Name: "teamId", Value: bson.D{{Name: "$in", Value: []interface{}{"t1"}}}}}, store.calls[0].query)
	assert.Equal(t, bson.D{
		{Name: "assignedToId", Value: bson.D{{Name: "$in", Value: []interface{}{"u1", "u2"}}}},
	}, query)
}

func TestResolveRelationInsideOr(t *testing.T) {
	store := &fakeStore{}
	doc := mustParse(t, `{"$or":[{"reasonId:reasons.code":{"name":"sick"}},{"status":1}]}`)

	query, err := Resolve(context.Background(), store, doc)
	require.NoError(t, err)
	require.Len(t, store.calls, 1)
	assert.Equal(t, "reasons", store.calls[0].collection)
	assert.Equal(t, "code", store.calls[0].field)
	assert.Equal(t, bson.D{
		{Name: "$or", Value: []interface{}{
			bson.D{{Name: "reasonId", Value: bson.D{{Name: "$in", Value: []interface{}{}}}}},
			bson.D{{Name: "status", Value: int64(1)}},
		}},
	}, query)
}

func TestResolveRelationErrors(t *testing.T) {
	_, err := Resolve(context.Background(), &fakeStore{}, mustParse(t, `{"a:users._id":3}`))
	assert.Error(t, err)

	boom := errors.New("boom")
	_, err = Resolve(context.Background(), &fakeStore{err: boom}, mustParse(t, `{"a:users._id":{}}`))
	assert.True(t, errors.Is(err, boom))
}

func TestResolveKeepsNonDateStrings(t *testing.T) {
	query, err := Resolve(context.Background(), &fakeStore{}, mustParse(t, `{"note":"2024-13-45","code":"2024-01-01T00:00"}`))
	require.NoError(t, err)
	assert.Equal(t, bson.D{
		{Name: "note", Value: "2024-13-45"},
		{Name: "code", Value: "2024-01-01T00:00"},
	}, query)
}

func TestResolveTreatsDayStringsAsDates(t *testing.T) {
	query, err := Resolve(context.Background(), &fakeStore{},
		mustParse(t, `{"note":"2024-01-01","days":{"$in":["2024-01-02","x"]},"$or":[{"end":{"$lt":"2024-02-01"}}]}`))
	require.NoError(t, err)
	day := func(d int, m time.Month) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, bson.D{
		{Name: "note", Value: day(1, time.January)},
		{Name: "days", Value: bson.D{{Name: "$in", Value: []interface{}{day(2, time.January), "x"}}}},
		{Name: "$or", Value: []interface{}{bson.D{{Name: "end", Value: bson.D{{Name: "$lt", Value: day(1, time.February)}}}}}},
	}, query)
}
