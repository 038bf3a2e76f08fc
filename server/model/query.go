package model

import (
	"encoding/json"

	"absenceio/filter"
)

// QueryBody is the request document a query endpoint accepts.
type QueryBody struct {
	Skip          int              `json:"skip"`
	Limit         int              `json:"limit"`
	Filter        *filter.Document `json:"filter"`
	ResponseModel string           `json:"responseModel"`
	Relations     []string         `json:"relations"`
}

// QueryEnvelope is the response shape of a query endpoint.
type QueryEnvelope struct {
	Data       []json.RawMessage `json:"data"`
	Count      int               `json:"count"`
	Limit      int               `json:"limit"`
	Skip       int               `json:"skip"`
	TotalCount int               `json:"totalCount"`
}
