package middleware

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"upstream-probe/internal/config"
)

// RateLimiter returns a per-client-IP rate limiter. Every allowed request
// costs one upstream call, so this is the only bound on outbound load.
func RateLimiter(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	burst := int(math.Ceil(cfg.RequestsPerSecond))
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.RequestsPerSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.String(http.StatusTooManyRequests, "Error: rate limit exceeded")
		},
	})
}
