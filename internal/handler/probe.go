package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"upstream-probe/internal/metrics"
	"upstream-probe/internal/model"
	"upstream-probe/internal/render"
	"upstream-probe/internal/service"
)

// Prober runs one upstream probe. *service.ProbeService satisfies it.
type Prober interface {
	Probe(ctx context.Context) (*model.UpstreamResult, error)
}

// ProbeHandler answers GET / with the outcome of one upstream call.
type ProbeHandler struct {
	prober  Prober
	painter *render.Painter
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewProbeHandler creates a ProbeHandler. The metrics parameter is optional.
func NewProbeHandler(p Prober, painter *render.Painter, m *metrics.Metrics, logger *slog.Logger) *ProbeHandler {
	return &ProbeHandler{
		prober:  p,
		painter: painter,
		metrics: m,
		logger:  logger.With("component", "probe_handler"),
	}
}

// Handle performs the probe and writes exactly one text response:
// 200 "OK: <status>" on success, 500 "Error: <message>" on failure.
func (h *ProbeHandler) Handle(c echo.Context) error {
	res, err := h.prober.Probe(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	h.count("ok")
	return c.String(http.StatusOK, h.painter.Success("OK: "+strconv.Itoa(res.StatusCode)))
}

func (h *ProbeHandler) fail(c echo.Context, err error) error {
	ue := service.Classify(err)

	h.logger.Error("probe failed",
		"kind", string(ue.Kind),
		"err", causeOf(ue),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
	)
	h.count(string(ue.Kind))

	return c.String(http.StatusInternalServerError, h.painter.Failure("Error: "+ue.Error()))
}

func (h *ProbeHandler) count(outcome string) {
	if h.metrics != nil {
		h.metrics.ProbeOutcomes.WithLabelValues(outcome).Inc()
	}
}

// causeOf returns the underlying error text for logs; it is never rendered.
func causeOf(ue *service.UpstreamError) string {
	if cause := errors.Unwrap(ue); cause != nil {
		return cause.Error()
	}
	return ue.Error()
}
