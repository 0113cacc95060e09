// Package keyapi is the typed client of the external key API. Every function
// issues exactly one HTTP request with the configured timeout; there are no
// retries and nothing is cached.
package keyapi

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

	"github.com/artsapp/builder/internal/config"
	"github.com/artsapp/builder/internal/domain/repository"
	"github.com/artsapp/builder/internal/domain/service"
	"github.com/artsapp/builder/pkg/errors"
	"github.com/artsapp/builder/pkg/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "artsapp-builder/keyapi"

// Doer sends HTTP requests; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for non-2xx responses
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("key API error: %s %s: status=%d, body=%s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client is the key API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient Doer
	metrics    service.Metrics
	tracer     trace.Tracer
	log        logger.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.httpClient = d }
}

// WithMetrics records one observation per call
func WithMetrics(m service.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client logger
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l.WithComponent("keyapi") }
}

// NewClient creates a client for cfg.BaseURL with a fixed cfg.Timeout.
func NewClient(cfg *config.APIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		metrics:    service.NoopMetrics{},
		tracer:     otel.Tracer(tracerName),
		log:        logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Repositories exposes the client through the repository interfaces
func (c *Client) Repositories() repository.Repositories {
	return repository.Repositories{
		Keys:          c.Keys(),
		Revisions:     c.Revisions(),
		Taxa:          c.Taxa(),
		Characters:    c.Characters(),
		Collections:   c.Collections(),
		Groups:        c.Groups(),
		Workgroups:    c.Workgroups(),
		Organizations: c.Organizations(),
		Media:         c.Media(),
		Auth:          c.Auth(),
	}
}

// call describes one request. endpoint is the route template used to label
// spans and metrics, path the concrete path.
type call struct {
	method      string
	endpoint    string
	path        string
	query       url.Values
	body        any
	raw         io.Reader
	contentType string
	entity      errors.Entity
}

// doRequest performs an HTTP request with proper headers
func (c *Client) doRequest(ctx context.Context, cl call) (*http.Response, error) {
	bodyReader := cl.raw
	contentType := cl.contentType
	if cl.body != nil {
		jsonBody, err := json.Marshal(cl.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
		contentType = "application/json"
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for _, cookie := range UpstreamCookies(ctx) {
		req.AddCookie(cookie)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return c.httpClient.Do(req)
}

// decodeResponse decodes the JSON response into the target struct
func decodeResponse(resp *http.Response, method, path string, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(body)}
	}

	if target != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// invoke runs one call and maps its failure onto the builder error taxonomy
func (c *Client) invoke(ctx context.Context, cl call, target any) error {
	ctx, span := c.tracer.Start(ctx, "keyapi "+cl.method+" "+cl.endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", cl.method),
			attribute.String("http.route", cl.endpoint),
		))
	defer span.End()

	start := time.Now()
	status := 0
	resp, err := c.doRequest(ctx, cl)
	if err == nil {
		status = resp.StatusCode
		err = decodeResponse(resp, cl.method, cl.path, target)
	}
	duration := time.Since(start)
	c.metrics.RecordUpstreamCall(cl.endpoint, cl.method, status, duration)
	span.SetAttributes(attribute.Int("http.status_code", status))

	if err == nil {
		c.log.Debug(ctx, "Key API call succeeded",
			logger.String("method", cl.method),
			logger.String("endpoint", cl.endpoint),
			logger.Int("status", status),
			logger.Duration("duration", duration),
		)
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	c.log.Warn(ctx, "Key API call failed",
		logger.String("method", cl.method),
		logger.String("endpoint", cl.endpoint),
		logger.Int("status", status),
		logger.Err(err),
	)
	return mapError(err, cl.entity)
}

func mapError(err error, entity errors.Entity) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return errors.FromAPIStatus(statusErr.StatusCode, entity, statusErr)
	}
	return errors.ErrInternalAPI().WithCause(err)
}

func (c *Client) get(ctx context.Context, entity errors.Entity, endpoint, path string, target any) error {
	return c.invoke(ctx, call{method: http.MethodGet, endpoint: endpoint, path: path, entity: entity}, target)
}

func (c *Client) send(ctx context.Context, method string, entity errors.Entity, endpoint, path string, body, target any) error {
	return c.invoke(ctx, call{method: method, endpoint: endpoint, path: path, body: body, entity: entity}, target)
}

func (c *Client) delete(ctx context.Context, entity errors.Entity, endpoint, path string, query url.Values, target any) error {
	return c.invoke(ctx, call{method: http.MethodDelete, endpoint: endpoint, path: path, query: query, entity: entity}, target)
}

func escape(id string) string {
	return url.PathEscape(id)
}
