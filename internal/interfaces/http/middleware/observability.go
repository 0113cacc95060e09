package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// HTTPMetrics records served requests
type HTTPMetrics interface {
	ActiveRequestsInc()
	ActiveRequestsDec()
	ObserveRequest(route, method string, status int, duration time.Duration)
}

// Observability starts a server span per request and records request metrics
// labeled with the route template.
// Observability 为每个请求创建 Span 并记录请求指标。
func Observability(tracer trace.Tracer, propagator propagation.TextMapPropagator, metrics HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, c.Request.Method+" "+c.FullPath(), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		metrics.ActiveRequestsInc()
		defer metrics.ActiveRequestsDec()

		c.Next()

		// route template keeps label cardinality low
		route := c.FullPath()
		if route == "" {
			route = "not_found"
		}
		status := c.Writer.Status()
		metrics.ObserveRequest(route, c.Request.Method, status, time.Since(start))

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
			attribute.String("http.client_ip", c.ClientIP()),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, "server error")
		}
	}
}
