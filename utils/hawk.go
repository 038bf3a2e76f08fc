package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hiyosi/hawk"
	uuid "github.com/satori/go.uuid"
)

// DefaultHawkSkew is how far a request timestamp may drift from the
// server clock.
const DefaultHawkSkew = time.Minute

// HawkCredentials identify a Hawk client. absence.io issues the ID and the
// SHA-256 key per API user.
type HawkCredentials struct {
	ID  string
	Key string
}

func (c HawkCredentials) credential() *hawk.Credential {
	return &hawk.Credential{ID: c.ID, Key: c.Key, Alg: hawk.SHA256}
}

// GetCredential serves the single key pair to the hawk server.
func (c HawkCredentials) GetCredential(id string) (*hawk.Credential, error) {
	if id != c.ID {
		return nil, fmt.Errorf("hawk: unknown id %q", id)
	}
	return c.credential(), nil
}

// HawkRequest describes the request being signed. Payload and ContentType
// are hashed when Payload is not empty.
type HawkRequest struct {
	Method      string
	URL         string
	ContentType string
	Payload     []byte
	Ext         string

	// Timestamp and Nonce default to now and a random UUID prefix.
	Timestamp time.Time
	Nonce     string
}

// HawkHeader returns the Authorization header value for req.
func HawkHeader(cred HawkCredentials, req HawkRequest) (string, error) {
	if cred.ID == "" || cred.Key == "" {
		return "", errors.New("hawk: missing credentials")
	}
	ts := req.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	nonce := req.Nonce
	if nonce == "" {
		nonce = uuid.NewV4().String()[:8]
	}
	client := hawk.NewClient(cred.credential(), &hawk.Option{
		TimeStamp:   ts.Unix(),
		Nonce:       nonce,
		Payload:     string(req.Payload),
		ContentType: req.ContentType,
		Ext:         req.Ext,
	})
	header, err := client.Header(req.Method, req.URL)
	if err != nil {
		return "", fmt.Errorf("hawk: %w", err)
	}
	return header, nil
}

// AuthenticateHawk checks the Authorization header of r against cred,
// including the payload hash and the timestamp skew. The body is read and
// put back so later handlers can read it again.
func AuthenticateHawk(cred HawkCredentials, r *http.Request, skew time.Duration) ([]byte, error) {
	var body []byte
	if r.Body != nil {
		var err error
		if body, err = io.ReadAll(r.Body); err != nil {
			return nil, err
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
	}
	if skew <= 0 {
		skew = DefaultHawkSkew
	}

	srv := hawk.NewServer(cred)
	srv.TimeStampSkew = skew
	srv.Payload = string(body)
	if _, err := srv.Authenticate(r); err != nil {
		return body, fmt.Errorf("hawk: %w", err)
	}
	return body, nil
}
