package config

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

func PerformanceLogger(slow time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		log.Printf("[PERF] %s %s | Status: %d | Time: %v",
			c.Request.Method,
			route,
			c.Writer.Status(),
			latency)

		if slow > 0 && latency > slow {
			log.Printf("[SLOW] %s %s took %v (threshold %v)",
				c.Request.Method, route, latency, slow)
		}
	}
}
