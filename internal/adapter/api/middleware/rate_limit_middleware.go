package middleware

import (
	"math"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"greentask/pkg/errors"
	"greentask/pkg/logger"
	"greentask/pkg/response"
)

// RateLimit allows rps requests per second per client IP with a burst of
// twice that. Health checks are never limited.
func RateLimit(rps float64, log logger.Logger) echo.MiddlewareFunc {
	burst := int(math.Ceil(rps * 2))
	if burst < 1 {
		burst = 1
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(rps),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return response.Error(c, errors.Internal("Failed to identify client", err))
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			log.Warn("rate limit exceeded", "ip", identifier, "path", c.Path())
			return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
		},
	})
}
