package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Endpoint is one named REST operation. Path segments of the form ":name"
// are substituted from the call's path params.
type Endpoint struct {
	Method string
	Path   string
}

// Meta exposes the transport-level outcome of a call.
type Meta struct {
	Status  int
	Headers http.Header
}

// Response is the envelope returned by every call. ID is the top-level "id"
// field of the body when present, 0 otherwise.
type Response struct {
	ID   int64
	Body json.RawMessage
	Meta Meta
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Params carries the per-call inputs: path substitutions, query string and
// request body.
type Params struct {
	Path  map[string]string
	Query url.Values
	Body  any
}

// Proxy is a generic REST client over a named endpoint table. Endpoint paths
// can be overridden per deployment through the constructor.
type Proxy struct {
	gateway   string
	token     string
	endpoints map[string]Endpoint
	client    *http.Client
}

// Option configures a Proxy.
type Option func(*Proxy)

// WithToken sets the Authorization token sent with every request.
func WithToken(token string) Option {
	return func(p *Proxy) { p.token = token }
}

// WithEndpoints overrides or extends the default endpoint table.
func WithEndpoints(overrides map[string]Endpoint) Option {
	return func(p *Proxy) {
		for name, ep := range overrides {
			p.endpoints[name] = ep
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Proxy) { p.client = client }
}

// New creates a Proxy for the given gateway base URL.
func New(gateway string, opts ...Option) *Proxy {
	p := &Proxy{
		gateway:   strings.TrimRight(gateway, "/"),
		endpoints: defaultEndpoints(),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Gateway returns the base URL the proxy resolves endpoints against.
func (p *Proxy) Gateway() string {
	return p.gateway
}

// Call performs the named endpoint with the given params and returns the
// response envelope. Non-2xx statuses are returned as a *StatusError.
func (p *Proxy) Call(ctx context.Context, name string, params Params) (*Response, error) {
	ep, ok := p.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("unknown endpoint %q", name)
	}

	path, err := expandPath(ep.Path, params.Path)
	if err != nil {
		return nil, fmt.Errorf("endpoint %q: %w", name, err)
	}
	u := p.gateway + path
	if len(params.Query) > 0 {
		u += "?" + params.Query.Encode()
	}

	var body io.Reader
	if params.Body != nil {
		data, err := json.Marshal(params.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal %q body: %w", name, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create %q request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	if params.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Token "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call %q: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %q response: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(name, resp.StatusCode, data)
	}

	out := &Response{
		Body: data,
		Meta: Meta{Status: resp.StatusCode, Headers: resp.Header},
	}
	var probe struct {
		ID int64 `json:"id"`
	}
	if json.Unmarshal(data, &probe) == nil {
		out.ID = probe.ID
	}
	return out, nil
}

// expandPath substitutes ":name" segments from params. A placeholder with no
// matching param is an error so broken calls fail loudly instead of hitting
// the wrong route.
func expandPath(path string, params map[string]string) (string, error) {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		key := seg[1:]
		val, ok := params[key]
		if !ok {
			return "", fmt.Errorf("missing path param %q", key)
		}
		segments[i] = url.PathEscape(val)
	}
	return strings.Join(segments, "/"), nil
}
