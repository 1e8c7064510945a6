// Package handler contains the HTTP handlers and route wiring.
package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"upstream-probe/internal/config"
)

// Version is a string type for dependency injection of the build version.
type Version string

// HealthHandler serves health and status endpoints.
type HealthHandler struct {
	cfg     *config.Config
	version Version
	started time.Time
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(cfg *config.Config, v Version) *HealthHandler {
	return &HealthHandler{cfg: cfg, version: v, started: time.Now()}
}

// Healthz returns a simple OK response for liveness probes. It never
// contacts the upstream.
func (h *HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Status reports the build version, the probed URL and process uptime.
func (h *HealthHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        string(h.version),
		"upstream_url":   h.cfg.Upstream.URL,
		"reject_non_2xx": h.cfg.Upstream.RejectNon2xx,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}
