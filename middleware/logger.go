// middleware/logger.go
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"followme/internal/logger"
)

// RequestLogger 记录每个请求的方法、路径、状态码和耗时
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		if status >= 500 {
			logger.Error("[%s] %s %d %s %v", c.Request.Method, path, status, c.ClientIP(), latency)
			return
		}
		logger.Info("[%s] %s %d %s %v", c.Request.Method, path, status, c.ClientIP(), latency)
	}
}
