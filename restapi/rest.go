package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/facebookgo/httpcontrol"
	"github.com/go-resty/resty/v2"

	"absenceio/config"
	"absenceio/def"
	"absenceio/filter"
	"absenceio/log"
	"absenceio/restapi/restmodel"
	"absenceio/utils"
)

const defaultTimeout = 30 * time.Second

// StatusError is returned when the backend answers outside [200,300).
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("restapi: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// RestApi sends encoded queries to absence.io. Requests are never retried.
type RestApi struct {
	config  config.Config
	client  *resty.Client
	encoder *filter.Encoder
}

func New(cfg config.Config) *RestApi {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	transport := &httpcontrol.Transport{
		DialTimeout:           timeout,
		ResponseHeaderTimeout: timeout,
		RequestTimeout:        timeout,
		MaxTries:              1,
	}
	client := resty.New().
		SetTransport(transport).
		SetHeader("Accept", "application/json")

	return &RestApi{
		config:  cfg,
		client:  client,
		encoder: filter.NewEncoder(filter.WithDateLayout(cfg.DateLayout)),
	}
}

// Encoder returns the encoder used for request bodies.
func (this *RestApi) Encoder() *filter.Encoder {
	return this.encoder
}

func (this *RestApi) endpointURL(endpoint string) string {
	base := strings.TrimRight(this.config.BaseURL, "/")
	if base == "" {
		base = def.DefaultBaseURL
	}
	return base + def.APIPrefix + endpoint
}

// post signs and sends body, returning the response body of a 2xx answer.
func (this *RestApi) post(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	url := this.endpointURL(endpoint)
	auth, err := utils.HawkHeader(utils.HawkCredentials{
		ID:  this.config.Hawk.ID,
		Key: this.config.Hawk.Key,
	}, utils.HawkRequest{
		Method:      http.MethodPost,
		URL:         url,
		ContentType: "application/json",
		Payload:     body,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	def.QueryRequestCount.Inc(1)
	defer func() {
		def.QueryRequestTime.Update(time.Since(start).Seconds())
	}()

	resp, err := this.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", auth).
		SetBody(body).
		Post(url)
	if err != nil {
		def.QueryRequestErrCount.Inc(1)
		return nil, fmt.Errorf("restapi: POST %s: %w", url, err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		def.QueryRequestErrCount.Inc(1)
		log.Warnf("POST %s answered %d", url, resp.StatusCode())
		return nil, &StatusError{
			Method:     http.MethodPost,
			URL:        url,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	def.QueryRequestOkCount.Inc(1)
	log.Debugf("POST %s answered %d in %s", url, resp.StatusCode(), time.Since(start))
	return resp.Body(), nil
}

// Send posts the request to its endpoint and decodes the response envelope.
func (r Request[T]) Send(ctx context.Context, api *RestApi) (*restmodel.QueryResponse[T], error) {
	body, err := r.Body(api)
	if err != nil {
		return nil, err
	}
	raw, err := api.post(ctx, r.Endpoint(), body)
	if err != nil {
		return nil, err
	}
	var out restmodel.QueryResponse[T]
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("restapi: decode %s response: %w", r.Endpoint(), err)
	}
	return &out, nil
}

// Body is the exact JSON document Send posts.
func (r Request[T]) Body(api *RestApi) ([]byte, error) {
	return r.Marshal(api.encoder)
}
