// Package portalapi is the HTTP client for the competition portal's JSON API.
package portalapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cuwais/cuwais-portal/app/observability"
	"github.com/cuwais/cuwais-portal/config"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	maxRedirects = 5
	maxBodyBytes = 4 << 20
)

// Client talks to the portal backend. It is safe for concurrent use.
type Client struct {
	baseURL           *url.URL
	http              *http.Client
	limiter           *rate.Limiter
	leaderboardMethod string
	logger            *slog.Logger
	tracer            trace.Tracer
	metrics           observability.Metrics
}

// NewClient creates a Client for cfg.BaseURL. jar may be nil; when set it
// carries the backend session between requests.
func NewClient(cfg config.PortalConfig, jar http.CookieJar, obs observability.Observability) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid portal base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("portal base URL %q must be absolute", cfg.BaseURL)
	}

	burst := cfg.RateBurst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = rate.Inf
	}

	method := cfg.LeaderboardMethod
	if method == "" {
		method = http.MethodGet
	}

	metrics := obs.Metrics
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	logger := obs.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: cfg.RequestTimeout,
			Jar:     jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		limiter:           rate.NewLimiter(limit, burst),
		leaderboardMethod: method,
		logger:            logger,
		tracer:            obs.Tracer,
		metrics:           metrics,
	}, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (Result, error) {
	return c.do(ctx, http.MethodPost, endpoint, body)
}

// do performs one request and classifies the outcome into the error
// taxonomy. A 2xx body tagged "fail" is not an error here; it comes back as
// a StatusFail result for the caller to map. It never retries.
func (c *Client) do(ctx context.Context, method, endpoint string, body any) (res Result, err error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "portalapi"+endpoint, trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("endpoint", endpoint),
		))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			span.End()
		}()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return Result{}, &TransportError{Endpoint: endpoint, Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("failed to encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL.ResolveReference(&url.URL{Path: strings.TrimSuffix(c.baseURL.Path, "/") + endpoint})
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return Result{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordAPIRequest(ctx, endpoint, "transport_error", time.Since(start))
		c.logger.WarnContext(ctx, "Portal request failed",
			slog.String("endpoint", endpoint),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return Result{}, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.metrics.RecordAPIRequest(ctx, endpoint, statusClass(resp.StatusCode), time.Since(start))
	if err != nil {
		return Result{}, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to read body: %w", err)}
	}

	c.logger.DebugContext(ctx, "Portal request completed",
		slog.String("endpoint", endpoint),
		slog.String("request_id", requestID),
		slog.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := failureMessage(raw)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Result{}, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: msg}
	}

	res, err = ParseResult(raw)
	if err != nil {
		return Result{}, &MalformedResponseError{Endpoint: endpoint, Body: string(raw), Err: err}
	}
	res.Endpoint, res.StatusCode = endpoint, resp.StatusCode
	if res.Status == StatusFail && res.Message == "" {
		res.Message = failureMessage(raw)
	}
	return res, nil
}

// query is do for endpoints that only read: a fail tag becomes the error.
func (c *Client) query(ctx context.Context, method, endpoint string, body any) (Result, error) {
	res, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return Result{}, err
	}
	if err := res.Err(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
