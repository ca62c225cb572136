package middleware

import (
	"strconv"
	"time"

	"feira/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records duration, count and in-flight gauge for every request.
// Paths are labelled by route pattern to keep cardinality bounded.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.RequestInFlight.Inc()
		defer metrics.RequestInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		code := strconv.Itoa(status)
		metrics.RequestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		metrics.RequestTotal.WithLabelValues(c.Method(), path, code).Inc()
		return err
	}
}
