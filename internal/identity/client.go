package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ory-session-page/internal/config"
	"ory-session-page/internal/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	PathWhoAmI        = "/sessions/whoami"
	PathBrowserLogout = "/self-service/logout/browser"

	tracerName       = "ory-session-page/internal/identity"
	maxResponseBytes = 1 << 20
)

// Client talks to the identity provider's public API on behalf of a visitor.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tracer     trace.Tracer
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented http client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

func NewClient(cfg config.IdentityConfig, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(cfg.PublicURL)
	if err != nil {
		return nil, fmt.Errorf("invalid identity public url: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("identity public url must be absolute, got %q", cfg.PublicURL)
	}

	client := &Client{
		baseURL: strings.TrimSuffix(parsed.String(), "/"),
		httpClient: &http.Client{
			Transport: InstrumentedTransport(http.DefaultTransport),
		},
		timeout: cfg.Timeout,
		tracer:  otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

func (c *Client) ToSession(ctx context.Context, creds Credentials) (json.RawMessage, error) {
	var session json.RawMessage
	if err := c.get(ctx, "identity.ToSession", PathWhoAmI, creds, &session); err != nil {
		return nil, err
	}

	if len(session) == 0 || string(session) == "null" {
		return nil, ErrEmptySession
	}

	return session, nil
}

func (c *Client) CreateBrowserLogoutFlow(ctx context.Context, creds Credentials) (*LogoutFlow, error) {
	var flow LogoutFlow
	if err := c.get(ctx, "identity.CreateBrowserLogoutFlow", PathBrowserLogout, creds, &flow); err != nil {
		return nil, err
	}

	if flow.LogoutURL == "" {
		return nil, ErrEmptyLogoutURL
	}

	return &flow, nil
}

func (c *Client) get(ctx context.Context, spanName, path string, creds Credentials, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", path, err)
	}

	req.Header.Set("Accept", "application/json")
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if creds.SessionToken != "" {
		req.Header.Set(utils.HeaderSessionToken, creds.SessionToken)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if len(body) > maxResponseBytes {
		return fmt.Errorf("%w: %s exceeded %d bytes", ErrResponseTooLarge, path, maxResponseBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	return nil
}
