package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"absenceio/def"
	"absenceio/filter"
	"absenceio/restapi"
	"absenceio/restapi/restmodel"
)

// endpoint binds an entity type to the commands that build and send
// requests for it.
type endpoint struct {
	encode func(req request, enc *filter.Encoder) ([]byte, error)
	query  func(ctx context.Context, api *restapi.RestApi, req request, all bool, out def.Outputer) (*page, error)
}

// page summarises what a query wrote.
type page struct {
	Body       []byte
	Records    int
	TotalCount int
}

var endpoints = map[string]endpoint{
	restmodel.Absence{}.Endpoint(): forEntity[restmodel.Absence](),
	restmodel.User{}.Endpoint():    forEntity[restmodel.User](),
}

func endpointNames() string {
	names := make([]string, 0, len(endpoints))
	for name := range endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func lookupEndpoint(name string) (endpoint, error) {
	ep, ok := endpoints[name]
	if !ok {
		return endpoint{}, fmt.Errorf("unknown endpoint %q, want one of %s", name, endpointNames())
	}
	return ep, nil
}

func build[T restmodel.Entity](req request) (restapi.Request[T], error) {
	f, err := BuildFilter(req.where, req.anyOf)
	if err != nil {
		return restapi.Request[T]{}, err
	}
	return restapi.Request[T]{
		Skip:      req.skip,
		Limit:     req.limit,
		Filter:    f,
		Relations: req.relations,
	}, nil
}

func forEntity[T restmodel.Entity]() endpoint {
	return endpoint{
		encode: func(req request, enc *filter.Encoder) ([]byte, error) {
			r, err := build[T](req)
			if err != nil {
				return nil, err
			}
			return r.Marshal(enc)
		},
		query: func(ctx context.Context, api *restapi.RestApi, req request, all bool, out def.Outputer) (*page, error) {
			r, err := build[T](req)
			if err != nil {
				return nil, err
			}
			result := &page{}
			if result.Body, err = r.Body(api); err != nil {
				return result, err
			}
			for {
				resp, err := r.Send(ctx, api)
				if err != nil {
					return result, err
				}
				result.TotalCount = resp.TotalCount
				for _, record := range resp.Data {
					b, err := json.Marshal(record)
					if err != nil {
						return result, err
					}
					if err := out.WriteRecord(r.Endpoint(), b); err != nil {
						return result, fmt.Errorf("output: %w", err)
					}
					result.Records++
				}
				r.Skip += len(resp.Data)
				if !all || len(resp.Data) == 0 || r.Skip >= resp.TotalCount {
					return result, nil
				}
			}
		},
	}
}
