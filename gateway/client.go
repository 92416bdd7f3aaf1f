package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/MrEthical07/bankgate/internal/telemetry"
)

// DefaultBaseURL is the banking API of a local development stack.
const DefaultBaseURL = "http://localhost:8090/api"

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// Recorder observes the duration and outcome of each API call.
type Recorder interface {
	ObserveGatewayCall(op string, d time.Duration, err error)
}

// Client calls the banking API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	tracer     trace.TracerProvider
	recorder   Recorder
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client; WithTimeout is then ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. Defaults to 10 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTracerProvider sets the provider for "gateway.<op>" spans. Defaults to the
// provider installed by telemetry.InitProvider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp
	}
}

// WithRecorder registers a call observer (metrics).
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a client for the API rooted at baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 10 * time.Second,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}
	return c
}

type tokenKey struct{}

// WithToken returns ctx carrying the bearer token for subsequent calls.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token set by [WithToken], or "".
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// call wraps one API operation in a span and records its duration.
func (c *Client) call(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	ctx, span := telemetry.StartGatewaySpan(ctx, c.tracer, op)
	defer span.End()

	err := fn(ctx)
	elapsed := time.Since(start)

	if c.recorder != nil {
		c.recorder.ObserveGatewayCall(op, elapsed, err)
	}
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Debug("banking api call failed",
			"op", op,
			"duration", elapsed,
			"error", err,
		)
		return err
	}
	telemetry.RecordSuccess(span)
	return nil
}

// doEnvelope sends a JSON request and unwraps the standard envelope. out receives data.
func (c *Client) doEnvelope(ctx context.Context, method, path string, query url.Values, in, out any) (*Envelope, error) {
	body, contentType, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	return c.sendEnvelope(ctx, method, path, query, body, contentType, out)
}

func (c *Client) sendEnvelope(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) (*Envelope, error) {
	status, raw, err := c.send(ctx, method, path, query, body, contentType)
	if err != nil {
		return nil, err
	}

	var env Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status}
		if decodeErr == nil {
			apiErr.Message = env.Message
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, decodeErr)
	}
	if env.StatusCode != 0 && env.StatusCode != http.StatusOK {
		return nil, &APIError{Status: env.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, []byte("null")) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("%w: data: %v", ErrDecode, err)
		}
	}
	return &env, nil
}

// doRaw sends a request whose successful response is the bare resource.
func (c *Client) doRaw(ctx context.Context, method, path string, query url.Values, out any) error {
	status, raw, err := c.send(ctx, method, path, query, nil, "")
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status}
		var env Envelope
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (int, []byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := TokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	return resp.StatusCode, raw, nil
}

func jsonBody(in any) (io.Reader, string, error) {
	if in == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}
