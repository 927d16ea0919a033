package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medtrain/cert-registry-api/internal/service"
)

// Metrics times every request and feeds the result to the metrics
// service. Requests that match no route share one label so arbitrary
// paths cannot inflate series cardinality. A nil service disables the
// middleware.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
