package def

import (
	"context"

	"gopkg.in/mgo.v2/bson"
)

// Storager is a document store the mock backend answers queries from.
type Storager interface {
	// Find returns one page of matching documents and the total match count.
	Find(ctx context.Context, collection string, query bson.D, skip, limit int) ([]bson.M, int, error)

	// Distinct returns the distinct values of field over matching documents.
	Distinct(ctx context.Context, collection string, field string, query bson.D) ([]interface{}, error)

	Close() error
}
