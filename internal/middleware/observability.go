package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/shulehub/matokeo-api/internal/observability"
)

// Observability attaches Prometheus metrics and structured latency/error
// logging for the report endpoints.
func Observability(logger zerolog.Logger) fiber.Handler {
	observability.RegisterMetrics()

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		if strings.HasPrefix(c.Path(), "/api/v2/reports") {
			route := routeTemplate(c)
			method := c.Method()
			status := c.Response().StatusCode()
			statusLabel := fmt.Sprintf("%d", status)

			observability.ReportRequests().WithLabelValues(method, route, statusLabel).Inc()
			observability.ReportLatency().WithLabelValues(method, route).Observe(duration.Seconds())
			if status >= fiber.StatusBadRequest {
				observability.ReportErrors().WithLabelValues(method, route, statusLabel).Inc()
			}

			logContext := logger.With().
				Str("correlation_id", GetCorrelationID(c)).
				Str("route", route).
				Str("method", method).
				Int("status", status).
				Float64("latency_ms", float64(duration)/float64(time.Millisecond))
			if userID, ok := c.Locals("user_id").(uint); ok {
				logContext = logContext.Uint("user_id", userID)
			}
			requestLogger := logContext.Logger()

			switch {
			case status >= fiber.StatusInternalServerError:
				requestLogger.Error().Msg("report request failed")
			case status >= fiber.StatusBadRequest:
				requestLogger.Warn().Msg("report request completed with client error")
			default:
				requestLogger.Info().Msg("report request completed")
			}
		}

		return err
	}
}

func routeTemplate(c *fiber.Ctx) string {
	if c.Route() != nil && c.Route().Path != "" {
		return c.Route().Path
	}
	return c.Path()
}
