package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultProbeTimeout bounds a single probe request.
const DefaultProbeTimeout = 10 * time.Second

const (
	healthQuery        = "{ __typename }"
	introspectionQuery = "{ __schema { queryType { name } } }"
	maxBodyBytes       = 1024 * 1024
)

// ProbeResult is the outcome of a single diagnostic request.
type ProbeResult struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func failed(format string, args ...interface{}) ProbeResult {
	return ProbeResult{Error: fmt.Sprintf(format, args...)}
}

// Prober issues GraphQL health probes, where redirects are never followed,
// and homepage fetches, where they are.
type Prober struct {
	client  *http.Client
	pages   *http.Client
	timeout time.Duration
}

// NewProber builds a prober around an optional custom HTTP client.
func NewProber(client *http.Client) *Prober {
	if client == nil {
		client = &http.Client{}
	}
	// Copy so the caller's client keeps its own redirect policy.
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &Prober{client: &c, pages: client, timeout: DefaultProbeTimeout}
}

// WithTimeout returns a copy of the prober using timeout per request.
func (p *Prober) WithTimeout(timeout time.Duration) *Prober {
	cp := *p
	if timeout > 0 {
		cp.timeout = timeout
	}
	return &cp
}

// CheckHealth verifies that endpoint executes a trivial query.
func (p *Prober) CheckHealth(ctx context.Context, endpoint string) ProbeResult {
	body, res, ok := p.post(ctx, endpoint, healthQuery)
	if !ok {
		return res
	}
	if truthy(lookup(body, "data", "__typename")) {
		return ProbeResult{OK: true}
	}
	return failed("Unexpected response")
}

// CheckIntrospection verifies that endpoint answers schema introspection.
// A server that is up but rejects introspection reports "Introspection disabled".
func (p *Prober) CheckIntrospection(ctx context.Context, endpoint string) ProbeResult {
	body, res, ok := p.post(ctx, endpoint, introspectionQuery)
	if !ok {
		return res
	}
	if truthy(lookup(body, "data", "__schema", "queryType", "name")) {
		return ProbeResult{OK: true}
	}
	if truthy(lookup(body, "errors")) {
		return failed("Introspection disabled")
	}
	return failed("Unexpected response")
}

// post sends query to endpoint and decodes a 2xx JSON body.
// The bool is false when the returned result already carries the failure.
func (p *Prober) post(ctx context.Context, endpoint, query string) (interface{}, ProbeResult, bool) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, failed("%v", err), false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, failed("%v", err), false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, failed("%v", err), false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, failed("HTTP %d", resp.StatusCode), false
	}

	var decoded interface{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&decoded); err != nil {
		return nil, failed("%v", err), false
	}
	return decoded, ProbeResult{}, true
}

// lookup walks nested JSON objects, returning nil when a key is absent.
func lookup(v interface{}, keys ...string) interface{} {
	for _, key := range keys {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		v = obj[key]
	}
	return v
}

// truthy mirrors JavaScript truthiness for decoded JSON values.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
