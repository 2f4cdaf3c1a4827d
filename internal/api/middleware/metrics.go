package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/tasklist/tasklist-api/internal/pkg/metrics"
)

// Metrics records request latency by method, matched route and status.
// Requests that match no route are recorded under "unmatched" to keep label
// cardinality bounded.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Render now so the status below is the one the client gets.
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			metrics.HTTPRequestDuration.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
