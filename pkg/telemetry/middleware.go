package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"travelbooking/pkg/logger"
)

const (
	TraceIDKey = "trace_id"
	SpanIDKey  = "span_id"
)

// TraceLoggerMiddleware logs each request with the trace and span ids of the
// span opened by otelgin. It must be registered after otelgin.
func TraceLoggerMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		fields := []logger.Field{
			{Key: "method", Value: c.Request.Method},
			{Key: "path", Value: c.FullPath()},
		}

		sc := trace.SpanFromContext(c.Request.Context()).SpanContext()
		if sc.IsValid() {
			c.Set(TraceIDKey, sc.TraceID().String())
			c.Set(SpanIDKey, sc.SpanID().String())
			fields = append(fields,
				logger.Field{Key: TraceIDKey, Value: sc.TraceID().String()},
				logger.Field{Key: SpanIDKey, Value: sc.SpanID().String()},
			)
		}

		c.Next()

		fields = append(fields,
			logger.Field{Key: "status", Value: c.Writer.Status()},
			logger.Field{Key: "latency_ms", Value: time.Since(start).Milliseconds()},
		)
		if c.Writer.Status() >= 500 {
			log.Error("request completed", fields...)
			return
		}
		log.Info("request completed", fields...)
	}
}
