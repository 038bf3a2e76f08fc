package restmodel

import "absenceio/filter"

// Entity is a record type served by a query endpoint.
type Entity interface {
	// Endpoint is the path segment under /api/v2/.
	Endpoint() string
	// ResponseModel selects the backend's response shape; empty for the default.
	ResponseModel() string
}

// Well-known filter keys.
const (
	KeyStart  filter.Key = "start"
	KeyEnd    filter.Key = "end"
	KeyTeamID filter.Key = "teamId"
	KeyID     filter.Key = "_id"
)

// QueryResponse is the envelope returned by every query endpoint.
type QueryResponse[T Entity] struct {
	Data       []T `json:"data"`
	Count      int `json:"count"`
	Limit      int `json:"limit"`
	Skip       int `json:"skip"`
	TotalCount int `json:"totalCount"`
}
