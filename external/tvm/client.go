// Package tvm scrapes league, group, meeting and club pages from the TVM
// (Tennisverband Mittelrhein) result portal. The portal serves server-side
// rendered HTML only; every fetcher returns parsed domain values, never raw
// markup.
package tvm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/MrSpee/tennis-team-sub004/internal/platform/logging"
	"github.com/MrSpee/tennis-team-sub004/internal/platform/resilience"
	"github.com/MrSpee/tennis-team-sub004/internal/usecase"
)

const (
	defaultTimeout       = 20 * time.Second
	defaultThrottleDelay = 250 * time.Millisecond
	maxBodyBytes         = 6 << 20
)

var errPortalTransient = crerr.New("portal transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	Timeout        time.Duration
	MaxRetries     int
	ThrottleDelay  time.Duration
	UserAgent      string
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches portal pages politely: one request at a time, a fixed delay
// between requests, and a circuit breaker so a struggling portal is left
// alone instead of hammered.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	throttleDelay  time.Duration
	userAgent      string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight

	mu        sync.Mutex
	lastFetch time.Time
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	throttle := cfg.ThrottleDelay
	if throttle <= 0 {
		throttle = defaultThrottleDelay
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		throttleDelay:  throttle,
		userAgent:      strings.TrimSpace(cfg.UserAgent),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// fetchDocument loads one portal page and parses it into a goquery document.
// Concurrent callers asking for the same URL share a single request.
func (c *Client) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if strings.TrimSpace(pageURL) == "" {
		return nil, fmt.Errorf("%w: page url is required", usecase.ErrInvalidInput)
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "portal circuit breaker rejected request", "state", c.breaker.State())
			return nil, fmt.Errorf("%w: result portal is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	out, err, shared := c.flight.Do(pageURL, func() (any, error) {
		if err := c.waitThrottle(ctx); err != nil {
			return nil, err
		}
		raw, reqErr := c.executeRequest(ctx, pageURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errPortalTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.DebugContext(ctx, "portal fetch deduplicated", "url", pageURL)
	}

	raw, ok := out.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected response payload type %T", out)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse portal page %s: %w", pageURL, err)
	}
	return doc, nil
}

func (c *Client) executeRequest(ctx context.Context, pageURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "text/html")
		if c.userAgent != "" {
			req.Header.Set("user-agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errPortalTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errPortalTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: portal status=%d", errPortalTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("portal status=%d url=%s", resp.StatusCode, pageURL)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("portal request failed")
	}
	c.logger.WarnContext(ctx, "portal request failed", "url", pageURL, "error", lastErr)
	return nil, lastErr
}

// waitThrottle enforces the minimum gap between portal requests. Fetches are
// sequential per client; the lock doubles as the serialization point.
func (c *Client) waitThrottle(ctx context.Context) error {
	c.mu.Lock()
	wait := c.throttleDelay - time.Since(c.lastFetch)
	if wait > 0 {
		c.mu.Unlock()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		c.mu.Lock()
	}
	c.lastFetch = time.Now()
	c.mu.Unlock()
	return nil
}

func readBody(r io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(r, maxBodyBytes)); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
