package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// healthProbePaths defines the operational endpoints whose successful
// requests are log-suppressed after the first. Probes fire every few
// seconds; logging each one drowns out real traffic.
var healthProbePaths = map[string]struct{}{
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured fields.
// It generates a request ID if none is provided and propagates it through
// the response header and echo context. A successful health probe is logged
// once per path and then suppressed until it fails; probe failures are
// always logged at WARN, and the next recovery is logged again.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var (
		mu          sync.Mutex
		probeLogged = make(map[string]bool)
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			fields := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}

			if _, probe := healthProbePaths[path]; probe {
				if status >= 400 {
					mu.Lock()
					delete(probeLogged, path)
					mu.Unlock()

					log.Warn("request", fields...)
					return err
				}

				mu.Lock()
				seen := probeLogged[path]
				probeLogged[path] = true
				mu.Unlock()

				if seen {
					return err
				}
			}

			log.Info("request", fields...)
			return err
		}
	}
}
