package storage

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"gopkg.in/mgo.v2/bson"

	"absenceio/def"
	"absenceio/filter"
)

var dateValue = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Resolve turns a wire filter into a MongoDB query. Relation keys
// "<key>:<entity>.<id>" are answered by querying entity with the nested
// filter and become {key: {"$in": ids}}.
//
// The wire format carries dates as YYYY-MM-DD strings, so every string value
// that parses as such a day becomes a UTC midnight time.Time, at any depth
// and under any key or operator. A text field holding a literal
// "2024-01-01" is therefore compared as a date too; other strings, including
// full timestamps and impossible days, stay strings.
func Resolve(ctx context.Context, store def.Storager, doc *filter.Document) (bson.D, error) {
	out := make(bson.D, 0, doc.Len())
	for _, e := range doc.Elements() {
		if key, entity, id, ok := filter.ParseRelationKey(e.Key); ok {
			inner, isDoc := e.Value.(*filter.Document)
			if !isDoc {
				return nil, fmt.Errorf("relation %q: value must be an object", e.Key)
			}
			query, err := Resolve(ctx, store, inner)
			if err != nil {
				return nil, err
			}
			ids, err := store.Distinct(ctx, entity, id, query)
			if err != nil {
				return nil, fmt.Errorf("relation %q: %w", e.Key, err)
			}
			if ids == nil {
				ids = []interface{}{}
			}
			out = append(out, bson.DocElem{Name: key, Value: bson.D{{Name: "$in", Value: ids}}})
			continue
		}
		v, err := resolveValue(ctx, store, e.Value)
		if err != nil {
			return nil, err
		}
		out = append(out, bson.DocElem{Name: e.Key, Value: v})
	}
	return out, nil
}

func resolveValue(ctx context.Context, store def.Storager, v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case *filter.Document:
		return Resolve(ctx, store, t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			x, err := resolveValue(ctx, store, item)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case string:
		if dateValue.MatchString(t) {
			if day, err := time.Parse(filter.DefaultDateLayout, t); err == nil {
				return day, nil
			}
		}
		return t, nil
	}
	return filter.BSONValue(v), nil
}
