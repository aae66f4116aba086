package clickup

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

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/teemow/clickup-mcp/internal/instrumentation"
	"github.com/teemow/clickup-mcp/internal/logging"
)

const (
	// DefaultBaseURL is the public ClickUp API host.
	DefaultBaseURL = "https://api.clickup.com"

	// DefaultTimeout bounds a single request when the caller sets no deadline.
	DefaultTimeout = 30 * time.Second

	personalTokenPrefix = "pk_"
	maxResponseBytes    = 10 << 20
)

// Client talks to the ClickUp v2 REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger
}

type clientOptions struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
	logger    logging.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithBaseURL points the client at a different API host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(o *clientOptions) { o.baseURL = u }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithTransport replaces the base transport. Authentication and tracing are
// still layered on top.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// WithLogger sets the logger used for request failures.
func WithLogger(l logging.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a client authenticated with token.
//
// Personal API tokens ("pk_...") are sent verbatim in the Authorization header.
// Anything else is treated as an OAuth access token and sent as a Bearer token.
func NewClient(token string, opts ...Option) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	o := clientOptions{
		baseURL:   DefaultBaseURL,
		timeout:   DefaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.DefaultLogger()
	}

	base := otelhttp.NewTransport(o.transport,
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "clickup " + r.Method
		}),
	)

	return &Client{
		baseURL: strings.TrimRight(o.baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   o.timeout,
			Transport: authTransport(token, base),
		},
		logger: o.logger,
	}, nil
}

func authTransport(token string, base http.RoundTripper) http.RoundTripper {
	if strings.HasPrefix(token, personalTokenPrefix) {
		return &personalTokenTransport{token: token, base: base}
	}
	return &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
		Base:   base,
	}
}

// personalTokenTransport sets the raw token header ClickUp expects for personal tokens.
type personalTokenTransport struct {
	token string
	base  http.RoundTripper
}

func (t *personalTokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", t.token)
	return t.base.RoundTrip(r)
}

// BaseURL returns the API host this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call names a client operation for its span.
type call struct {
	resource  string
	operation string
}

func (c *Client) get(ctx context.Context, cl call, path string, out interface{}) error {
	return c.do(ctx, cl, http.MethodGet, path, nil, out)
}

// do runs one request inside a clickup.<resource>.<operation> span.
func (c *Client) do(ctx context.Context, cl call, method, path string, body, out interface{}) error {
	ctx, span := instrumentation.StartClickUpSpan(ctx, cl.resource, cl.operation)
	defer span.End()

	if err := c.roundTrip(ctx, method, path, body, out); err != nil {
		instrumentation.SetSpanError(span, err)
		return err
	}
	instrumentation.SetSpanSuccess(span)
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// fail logs a failed call and wraps err with the operation description.
func (c *Client) fail(op, desc string, err error, attrs ...interface{}) error {
	args := append([]interface{}{logging.Operation(op), logging.Err(err)}, attrs...)
	c.logger.Error("clickup request failed", args...)
	return fmt.Errorf("failed to %s: %w", desc, err)
}

func pathf(format string, ids ...string) string {
	escaped := make([]interface{}, len(ids))
	for i, id := range ids {
		escaped[i] = url.PathEscape(id)
	}
	return fmt.Sprintf(format, escaped...)
}
