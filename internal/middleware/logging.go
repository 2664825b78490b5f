package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ESRAILHAQUE/maids-backend/internal/metrics"
)

// RequestLogger logs each request and records it in m when m is not nil.
// It must run after the requestid middleware.
func RequestLogger(logger *zap.Logger, m *metrics.Metrics) fiber.Handler {
	logger = logger.Named("HTTP")

	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// render now so the logged status is the one sent
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		latency := time.Since(start)
		status := c.Response().StatusCode()

		route := c.Route().Path
		if m != nil {
			m.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
			m.HTTPLatency.WithLabelValues(c.Method(), route).Observe(latency.Seconds())
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, zap.String("requestID", rid))
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("Request completed", fields...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("Request completed", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
		return nil
	}
}
