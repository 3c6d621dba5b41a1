package ratelimit

import (
	"github.com/labstack/echo/v4"

	apphttp "FinRisk/pkg/http"
)

// Middleware rejects requests over the per-client budget with 429.
// Clients are keyed by their real IP.
func Middleware(l *Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				return apphttp.AppErrorResponse(c, apphttp.TooManyRequestsError("rate limit exceeded, retry later"))
			}
			return next(c)
		}
	}
}
