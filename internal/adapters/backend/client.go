// Package backend adapts the ticket, staff, and account HTTP services to
// the application ports. Responses are validated strictly: a payload that
// does not match the expected shape is a recoverable fetch failure, never
// silently coerced.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/misops/tickboard/internal/session"
)

// ErrBadPayload reports a response body that does not match the expected
// wire shape.
var ErrBadPayload = errors.New("unexpected response payload")

// Config holds the backend endpoints.
type Config struct {
	BaseURL       string
	TicketService string
	StaffService  string
	UserService   string
	Timeout       time.Duration
}

// DefaultConfig returns the endpoint layout of the stock ticket service.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:       baseURL,
		TicketService: "TicketService",
		StaffService:  "MisStaffService",
		UserService:   "user",
		Timeout:       10 * time.Second,
	}
}

// transport carries the pieces shared by every service client.
type transport struct {
	httpClient *http.Client
	baseURL    string
	creds      session.CredentialProvider
}

func newTransport(cfg Config, creds session.CredentialProvider) transport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return transport{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		creds:      creds,
	}
}

// do issues one request and returns the raw body for any 2xx response. The
// bearer credential is attached when present; the transport never inspects
// it.
func (t transport) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.creds != nil {
		if token := t.creds.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, summarizeBody(raw))
	}
	return raw, nil
}

// summarizeBody keeps error messages readable when the backend returns a
// long HTML or stack-trace body.
func summarizeBody(raw []byte) string {
	body := strings.TrimSpace(string(raw))
	if len(body) > 120 {
		body = body[:120] + "..."
	}
	if body == "" {
		return "(empty body)"
	}
	return body
}
