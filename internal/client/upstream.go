// Package client provides the outbound HTTP client used by the probe.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-zoox/headers"

	"upstream-probe/internal/config"
	"upstream-probe/internal/metrics"
	"upstream-probe/internal/model"
)

// maxDrainBytes bounds how much of a discarded body is read so the
// connection can go back to the idle pool.
const maxDrainBytes = 64 << 10

// UserAgent identifies the probe to the upstream.
type UserAgent string

// UpstreamClient sends GET requests to the upstream and reports the status.
type UpstreamClient struct {
	httpClient *http.Client
	userAgent  string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewUpstreamClient creates an UpstreamClient with connection pooling and timeouts.
// The metrics parameter is optional; pass nil to disable upstream metrics recording.
func NewUpstreamClient(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics, ua UserAgent) *UpstreamClient {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.Upstream.IdleConnections,
		MaxIdleConnsPerHost: cfg.Upstream.IdleConnections,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}

	return &UpstreamClient{
		httpClient: &http.Client{
			Transport: transport,
			// Zero means no overall deadline; the request context still applies.
			Timeout: time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		},
		userAgent: string(ua),
		logger:    logger.With("component", "upstream_client"),
		metrics:   m,
	}
}

// Get issues a GET to url and returns the upstream status code. Non-2xx
// statuses are results, not errors. The body is drained and discarded.
func (c *UpstreamClient) Get(ctx context.Context, url string) (*model.UpstreamResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build upstream request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set(headers.UserAgent, c.userAgent)
	}

	c.logger.Debug("upstream request", "url", req.URL.Redacted())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.observe(duration, "error", 0)
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes)); err != nil {
		c.logger.Debug("draining upstream body", "err", err)
	}

	c.observe(duration, "response", resp.StatusCode)

	return &model.UpstreamResult{
		StatusCode: resp.StatusCode,
		Duration:   duration,
	}, nil
}

func (c *UpstreamClient) observe(d time.Duration, result string, status int) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamDuration.WithLabelValues(result).Observe(d.Seconds())
	if status != 0 {
		c.metrics.UpstreamResponses.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}
