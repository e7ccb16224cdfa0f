package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"travelbooking/pkg/logger"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Init(context.Background(), Config{ServiceName: "travelbooking"}, logger.NewWithWriter("test", &buf))
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), "export disabled")
}

func TestTraceLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	var buf bytes.Buffer
	r := gin.New()
	r.Use(otelgin.Middleware("travelbooking", otelgin.WithTracerProvider(tp)))
	r.Use(TraceLoggerMiddleware(logger.NewWithWriter("test", &buf)))

	var traceID string
	r.GET("/flight/flights", func(c *gin.Context) {
		traceID = c.GetString(TraceIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/flight/flights", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, traceID)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "request completed", entry["message"])
	assert.Equal(t, traceID, entry[TraceIDKey])
	assert.Equal(t, "/flight/flights", entry["path"])
	assert.EqualValues(t, 200, entry["status"])

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, traceID, spans[0].SpanContext.TraceID().String())
}

func TestTraceLoggerMiddleware_NoSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(TraceLoggerMiddleware(logger.NewWithWriter("test", &buf)))
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.NotContains(t, buf.String(), TraceIDKey)
}
