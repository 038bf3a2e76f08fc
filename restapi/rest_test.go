package restapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facebookgo/httpcontrol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"absenceio/config"
	"absenceio/filter"
	"absenceio/restapi/restmodel"
	"absenceio/utils"
)

func testConfig(url string) config.Config {
	return config.Config{
		BaseURL: url,
		Hawk:    config.HawkConfig{ID: "id", Key: "secret"},
		Timeout: 5 * time.Second,
	}
}

func TestSendDecodesResponse(t *testing.T) {
	var gotBody, gotAuth, gotPath, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotPath = r.Method + " " + r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data":[{"_id":"u1","name":"Max M","firstName":"Max","lastName":"M","nameByLastname":"M, Max","timeZone":"Europe/Berlin","teamIds":["t1"]}],"count":1,"limit":20,"skip":0,"totalCount":1}`)
	}))
	defer srv.Close()

	api := New(testConfig(srv.URL))
	req := Request[restmodel.User]{Limit: 20, Filter: filter.EqualTo("firstName", "Max")}
	resp, err := req.Send(context.Background(), api)
	require.NoError(t, err)

	assert.Equal(t, "POST /api/v2/users", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.True(t, strings.HasPrefix(gotAuth, `Hawk id="id", ts="`), gotAuth)
	assert.Contains(t, gotAuth, `hash="`)
	_, err = utils.AuthenticateHawk(utils.HawkCredentials{ID: "id", Key: "secret"}, signedCopy(t, srv.URL, gotAuth, gotBody), 0)
	assert.NoError(t, err)

	want, err := req.Body(api)
	require.NoError(t, err)
	assert.Equal(t, string(want), gotBody)

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Max", resp.Data[0].FirstName)
	assert.Equal(t, []string{"t1"}, resp.Data[0].TeamIDs)
	assert.Equal(t, 1, resp.TotalCount)
}

func TestSendStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, "bad mac")
	}))
	defer srv.Close()

	_, err := Request[restmodel.Absence]{}.Send(context.Background(), New(testConfig(srv.URL)))
	require.Error(t, err)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "bad mac", statusErr.Body)
	assert.True(t, strings.HasSuffix(statusErr.URL, "/api/v2/absences"))
}

func TestSendRedirectStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	_, err := Request[restmodel.User]{}.Send(context.Background(), New(testConfig(srv.URL)))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotModified, statusErr.StatusCode)
}

func TestSendMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"data":[{"start":"yesterday"}]}`)
	}))
	defer srv.Close()

	_, err := Request[restmodel.Absence]{}.Send(context.Background(), New(testConfig(srv.URL)))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode absences response")
}

func TestSendTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := Request[restmodel.User]{}.Send(context.Background(), New(testConfig(url)))
	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestSendTriesOnce(t *testing.T) {
	api := New(testConfig("http://h:1"))
	transport, ok := api.client.GetClient().Transport.(*httpcontrol.Transport)
	require.True(t, ok)
	assert.Equal(t, uint(1), transport.MaxTries)

	var hits int32
	unavailable := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unavailable.Close()

	_, err := Request[restmodel.User]{}.Send(context.Background(), New(testConfig(unavailable.URL)))
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	atomic.StoreInt32(&hits, 0)
	dropped := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer dropped.Close()

	_, err = Request[restmodel.User]{}.Send(context.Background(), New(testConfig(dropped.URL)))
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestSendEncodeErrorSkipsNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := Request[restmodel.User]{Skip: -3}.Send(context.Background(), New(testConfig(srv.URL)))
	assert.True(t, errors.Is(err, ErrNegativeSkip))
	assert.False(t, called)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://app.absence.io/api/v2/users", New(config.Config{}).endpointURL("users"))
	assert.Equal(t, "http://h:1/api/v2/absences", New(config.Config{BaseURL: "http://h:1/"}).endpointURL("absences"))
}

func signedCopy(t *testing.T, base, auth, body string) *http.Request {
	t.Helper()
	r, err := http.NewRequest(http.MethodPost, base+"/api/v2/users", strings.NewReader(body))
	require.NoError(t, err)
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", auth)
	return r
}
