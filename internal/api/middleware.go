package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yatube/yatube/pkg/logging"
	"github.com/yatube/yatube/pkg/telemetry"
)

// RequestLogger logs every request with zap after it completes
func RequestLogger() gin.HandlerFunc {
	logger := logging.GetLogger().With(zap.String("component", "http"))
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

// Trace opens a span for the request and threads it through the request
// context
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "http.request")
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
