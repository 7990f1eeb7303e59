package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"cookbook/internal/config"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	httpTimeoutEnvKey  = "COOKBOOK_HTTP_TIMEOUT"

	// TrackingHeader carries a per-action id to the upstream endpoints.
	TrackingHeader = "x-ms-client-tracking-id"
	// PartitionKeyHeader carries the partition key on delete.
	PartitionKeyHeader = "pk"

	maxResponseBytes = 32 << 20
)

var idPlaceholders = []string{"{id}", "%7Bid%7D", "%7bid%7d"}

// Client is the recipe facade over the deployment's HTTP endpoints.
// It is immutable after construction and safe for concurrent use.
type Client struct {
	endpoints   config.EndpointConfig
	listShape   CollectionShape
	searchShape CollectionShape
	fileField   string
	http        *http.Client
	log         *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithLogger sets the logger used for request debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient creates a facade for the endpoints in cfg.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	fileField := strings.TrimSpace(cfg.Upload.FileField)
	if fileField == "" {
		fileField = config.DefaultUploadFileField
	}
	c := &Client{
		endpoints:   cfg.Endpoints,
		listShape:   NewCollectionShape(cfg.Responses.ListFields, config.DefaultListFields),
		searchShape: NewCollectionShape(cfg.Responses.SearchFields, config.DefaultSearchFields),
		fileField:   fileField,
		http:        &http.Client{Timeout: httpTimeoutFromEnv()},
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type requestIDKey struct{}

// WithRequestID attaches id to ctx so upstream calls made for it carry the
// same tracking header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// request describes one upstream call.
type request struct {
	op          string
	method      string
	url         string
	body        []byte
	contentType string
	header      http.Header
}

// response is a fully read upstream reply.
type response struct {
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) send(ctx context.Context, req request) (*response, error) {
	var reader io.Reader
	if req.body != nil {
		reader = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, req.url, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.op, err)
	}
	for key, values := range req.header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set(TrackingHeader, requestID(ctx))

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		observeUpstream(req.op, "error", time.Since(start))
		c.log.Debug("upstream request failed",
			"op", req.op,
			"method", req.method,
			"endpoint", redactQuery(req.url),
			"error", err,
		)
		return nil, fmt.Errorf("%s: %w", req.op, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	duration := time.Since(start)
	observeUpstream(req.op, strconv.Itoa(httpResp.StatusCode), duration)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", req.op, err)
	}

	c.log.Debug("upstream request",
		"op", req.op,
		"method", req.method,
		"endpoint", redactQuery(req.url),
		"status", httpResp.StatusCode,
		"bytes", len(body),
		"duration_ms", duration.Milliseconds(),
	)
	return &response{status: httpResp.StatusCode, body: body}, nil
}

// endpoint returns the configured URL for name or ErrEndpointNotConfigured.
func endpoint(name, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%s: %w", name, ErrEndpointNotConfigured)
	}
	return raw, nil
}

// expandID substitutes the path-escaped id into a template carrying the
// {id} placeholder in raw or URL-encoded form.
func expandID(name, template, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrMissingID
	}
	escaped := url.PathEscape(id)
	out := template
	found := false
	for _, placeholder := range idPlaceholders {
		if strings.Contains(out, placeholder) {
			found = true
			out = strings.ReplaceAll(out, placeholder, escaped)
		}
	}
	if !found {
		return "", fmt.Errorf("%s: %w", name, ErrNoIDPlaceholder)
	}
	return out, nil
}

// withQuery appends q to a base URL that may already carry a signed query
// string. Existing parameters are left byte-identical.
func withQuery(base, q string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
	switch {
	case !strings.Contains(base, "?"):
		return base + "?q=" + encoded
	case strings.HasSuffix(base, "?"), strings.HasSuffix(base, "&"):
		return base + "q=" + encoded
	default:
		return base + "&q=" + encoded
	}
}

// redactQuery drops the query string, which usually holds a signature.
func redactQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

func httpTimeoutFromEnv() time.Duration {
	value := strings.TrimSpace(os.Getenv(httpTimeoutEnvKey))
	if value == "" {
		return defaultHTTPTimeout
	}

	if duration, err := time.ParseDuration(value); err == nil && duration > 0 {
		return duration
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultHTTPTimeout
}
