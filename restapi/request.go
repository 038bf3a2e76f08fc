package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"absenceio/def"
	"absenceio/filter"
	"absenceio/restapi/restmodel"
)

// ErrNegativeSkip is returned when a request starts before the first record.
var ErrNegativeSkip = errors.New("restapi: skip must not be negative")

// Request is a query against the endpoint of T. Limit 0 leaves the page
// size to the backend.
type Request[T restmodel.Entity] struct {
	Skip      int
	Limit     int
	Filter    filter.Node
	Relations []string
}

func (r Request[T]) Endpoint() string {
	var entity T
	return entity.Endpoint()
}

func (r Request[T]) ResponseModel() string {
	var entity T
	return entity.ResponseModel()
}

// Document builds the wire document: skip, limit, filter (when set),
// responseModel (when the entity has one) and relations.
func (r Request[T]) Document(enc *filter.Encoder) (*filter.Document, error) {
	if r.Skip < 0 {
		return nil, ErrNegativeSkip
	}
	if enc == nil {
		enc = filter.NewEncoder()
	}
	start := time.Now()
	defer func() {
		def.QueryEncodeTime.Update(time.Since(start).Seconds())
	}()

	doc := filter.NewDocument()
	doc.Set("skip", r.Skip)
	doc.Set("limit", r.Limit)
	if r.Filter != nil {
		if err := r.Filter.ContributeTo(doc.Nest("filter"), enc); err != nil {
			return nil, fmt.Errorf("restapi: encode %s filter: %w", r.Endpoint(), err)
		}
	}
	if model := r.ResponseModel(); model != "" {
		doc.Set("responseModel", model)
	}
	relations := r.Relations
	if relations == nil {
		relations = []string{}
	}
	doc.Set("relations", relations)
	return doc, nil
}

// Marshal renders the indented JSON body with enc.
func (r Request[T]) Marshal(enc *filter.Encoder) ([]byte, error) {
	doc, err := r.Document(enc)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}
