package trace

import (
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	applog "tracker/internal/log"
)

type ContextKey string

const (
	RequestIDKey    ContextKey = "request_id"
	RequestIDHeader            = "X-Request-ID"
)

// Middleware tags every request with an id and logs its start and end.
type Middleware struct {
	logger  *applog.Logger
	structs *applog.StructuredLogger

	totalRequests int64
	totalMicros   int64
}

type Metrics struct {
	TotalRequests       int64
	AverageResponseTime time.Duration
}

func NewMiddleware(logger *applog.Logger) *Middleware {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Middleware{logger: logger, structs: applog.NewStructuredLogger(logger)}
}

// Handler honours a caller supplied X-Request-ID when it is a UUID and
// mints a new one otherwise. The id is echoed in the response header and a
// request-scoped logger is placed in the request context. Handlers read the
// id from the gin context under RequestIDKey.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}

		ctx := applog.NewContext(c.Request.Context(), m.logger.WithComponent(applog.ComponentHTTP).With(applog.FieldRequestID, requestID))
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(RequestIDKey), requestID)
		c.Header(RequestIDHeader, requestID)

		clientIP := c.ClientIP()
		m.structs.LogHTTPStart(ctx, c.Request, requestID, clientIP)

		c.Next()

		elapsed := time.Since(start)
		atomic.AddInt64(&m.totalRequests, 1)
		atomic.AddInt64(&m.totalMicros, elapsed.Microseconds())
		m.structs.LogHTTPEnd(ctx, c.Request, requestID, c.Writer.Status(), elapsed.Milliseconds(), clientIP)
	}
}

func (m *Middleware) GetMetrics() Metrics {
	total := atomic.LoadInt64(&m.totalRequests)
	if total == 0 {
		return Metrics{}
	}
	return Metrics{
		TotalRequests:       total,
		AverageResponseTime: time.Duration(atomic.LoadInt64(&m.totalMicros)/total) * time.Microsecond,
	}
}
