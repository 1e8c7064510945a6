package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"upstream-probe/internal/config"
	"upstream-probe/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance. The
// metrics endpoint is mounted only when enabled in config.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, probe *ProbeHandler, health *HealthHandler) {
	e.GET("/", probe.Handle)

	e.GET("/healthz", health.Healthz)
	e.GET("/probe/status", health.Status)

	if cfg.Metrics.Enabled && m != nil {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}
}
