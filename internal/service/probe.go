// Package service implements the probe: one upstream GET per call, with
// failures reduced to an *UpstreamError.
package service

import (
	"context"
	"log/slog"

	"upstream-probe/internal/config"
	"upstream-probe/internal/model"
)

// Getter performs the outbound GET. *client.UpstreamClient satisfies it.
type Getter interface {
	Get(ctx context.Context, url string) (*model.UpstreamResult, error)
}

// ProbeService issues the upstream call for each inbound probe request.
type ProbeService struct {
	client       Getter
	url          string
	rejectNon2xx bool
	logger       *slog.Logger
}

// NewProbeService creates a ProbeService targeting cfg.Upstream.URL.
func NewProbeService(c Getter, cfg *config.Config, logger *slog.Logger) *ProbeService {
	return &ProbeService{
		client:       c,
		url:          cfg.Upstream.URL,
		rejectNon2xx: cfg.Upstream.RejectNon2xx,
		logger:       logger.With("component", "probe_service"),
	}
}

// URL returns the upstream URL being probed.
func (s *ProbeService) URL() string { return s.url }

// Probe performs one GET against the upstream. Any returned error is an
// *UpstreamError. With reject_non_2xx enabled a non-2xx status is reported
// as KindStatus; otherwise every completed response is a result.
func (s *ProbeService) Probe(ctx context.Context) (*model.UpstreamResult, error) {
	res, err := s.client.Get(ctx, s.url)
	if err != nil {
		return nil, Classify(err)
	}

	s.logger.Debug("upstream responded",
		"status", res.StatusCode,
		"duration_ms", res.Duration.Milliseconds(),
	)

	if s.rejectNon2xx && (res.StatusCode < 200 || res.StatusCode > 299) {
		return nil, &UpstreamError{Kind: KindStatus, StatusCode: res.StatusCode}
	}
	return res, nil
}
