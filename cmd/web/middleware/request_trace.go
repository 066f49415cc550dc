package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"ollama-chat/cmd/internal/logger"
	"ollama-chat/cmd/internal/trace"
)

// RequestTrace guarantees a request id on every inbound request, stores it in
// the request context for outbound calls, echoes it in the response headers
// and logs the completed request.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		requestID := req.Header.Get(trace.HeaderRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}

		// inbound span is 0; outbound calls take 1, 2, 3, ...
		ctx := trace.WithRequestAndSpan(req.Context(), requestID, 0)
		c.Request = req.WithContext(ctx)
		c.Request.Header.Set(trace.HeaderRequestID, requestID)
		c.Writer.Header().Set(trace.HeaderRequestID, requestID)
		c.Writer.Header().Set(trace.HeaderSpanID, trace.CurrentSpanID(ctx))

		c.Next()

		logger.InfoWithFields("completed request", logger.Fields{
			"method":     req.Method,
			"path":       req.URL.Path,
			"query":      req.URL.RawQuery,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
			"request_id": requestID,
			"span_id":    trace.CurrentSpanID(c.Request.Context()),
		})
	}
}
