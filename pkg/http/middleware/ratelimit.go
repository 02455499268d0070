package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Allower decides whether the caller identified by key may proceed.
type Allower interface {
	Allow(key string) bool
}

// RateLimit rejects requests over budget with 429, keyed by client IP.
// Only paths accepted by match are limited; a nil match limits everything.
func RateLimit(a Allower, match func(path string) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if match != nil && !match(c.Path()) {
				return next(c)
			}
			if !a.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"status":  http.StatusTooManyRequests,
					"message": http.StatusText(http.StatusTooManyRequests),
					"data": []map[string]string{{
						"code":    "ERR_RATE_LIMITED",
						"message": "too many forecast requests, retry later",
					}},
				})
			}
			return next(c)
		}
	}
}
