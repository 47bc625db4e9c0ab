// Shared HTTP plumbing for upstream services: pacing, timeouts, and bounded retry
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrx/internal/shared"
	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 8 << 20

// ClientOptions configures an [APIService].
type ClientOptions struct {
	Timeout           time.Duration // Per-attempt deadline; zero disables it
	MaxRetries        int           // Extra attempts after a retryable failure
	Backoff           time.Duration // Delay before the first retry, doubled for each subsequent one
	RequestsPerSecond float64       // Pacing for all requests; zero disables it
	Limiter           *rate.Limiter // Shared pacing; takes precedence over RequestsPerSecond
	UserAgent         string
	Logger            *log.Logger
}

// APIService performs GET requests against an upstream with pacing, per-attempt timeouts,
// and bounded retry of transport failures and 5xx/429 responses.
type APIService struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	maxRetries int
	backoff    time.Duration
	userAgent  string
	logger     *log.Logger
}

// NewAPIService creates an API service around client, which defaults to [http.DefaultClient].
func NewAPIService(client *http.Client, opts ClientOptions) *APIService {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewDiscardLogger()
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	a := &APIService{
		httpClient: client,
		timeout:    opts.Timeout,
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		userAgent:  opts.UserAgent,
		logger:     opts.Logger,
	}
	switch {
	case opts.Limiter != nil:
		a.limiter = opts.Limiter
	case opts.RequestsPerSecond > 0:
		a.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}
	return a
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// OK reports whether the response carries a 2xx status.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to rawURL.
//
// Transport failures, 429 and 5xx responses are retried up to the configured limit.
// A non-2xx response that survives retries is returned with [shared.ErrUpstreamRejected].
func (a *APIService) Get(ctx context.Context, rawURL string, header http.Header) (*APIResponse, error) {
	var lastErr error

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			if err := a.sleep(ctx, attempt); err != nil {
				return nil, shared.TransportError("GET "+rawURL, err)
			}
			a.logger.Debug("retrying request", "url", rawURL, "attempt", attempt, "cause", lastErr)
		}

		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return nil, shared.TransportError("GET "+rawURL, err)
			}
		}

		resp, err := a.do(ctx, rawURL, header)
		if err != nil {
			if !errors.Is(err, shared.ErrTransport) || ctx.Err() != nil {
				return nil, err
			}
			lastErr = err
			continue
		}

		if resp.OK() {
			return resp, nil
		}

		lastErr = fmt.Errorf("%w: GET %s: status %d", shared.ErrUpstreamRejected, rawURL, resp.StatusCode)
		if !retryableStatus(resp.StatusCode) {
			return resp, lastErr
		}
	}

	return nil, lastErr
}

// GetJSON performs [APIService.Get] and decodes the body into v.
func (a *APIService) GetJSON(ctx context.Context, rawURL string, header http.Header, v any) error {
	resp, err := a.Get(ctx, rawURL, header)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("%w: GET %s: %v", shared.ErrMalformedResponse, rawURL, err)
	}
	return nil
}

func (a *APIService) do(ctx context.Context, rawURL string, header http.Header) (*APIResponse, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrInvalidInput, err)
	}
	for k, vals := range header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if a.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", a.userAgent)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, shared.TransportError("GET "+rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, shared.TransportError("read "+rawURL, err)
	}

	return &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

func (a *APIService) sleep(ctx context.Context, attempt int) error {
	if a.backoff <= 0 {
		return ctx.Err()
	}

	delay := a.backoff << (attempt - 1)
	t := time.NewTimer(delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
