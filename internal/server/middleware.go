package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/juju/ratelimit"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/nibin-org/portfolio/internal/metrics"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

type ctxKey string

// RequestID reuses an incoming X-Request-ID or mints a uuid
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), ctxKey(requestIDKey), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one line per request
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if query != "" {
			fields = append(fields, zap.String("query", query))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, zap.String("errors", errs))
		}
		logger.Info(path, fields...)
	}
}

// Recovery logs a panic with its stack and answers 500
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				field := zap.String("panic_value", fmt.Sprintf("%v", err))
				if e, ok := err.(error); ok {
					field = zap.Error(e)
				}
				logger.Error("Recovered from panic",
					zap.String("router", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.String("ip", c.ClientIP()),
					zap.String("user-agent", c.Request.UserAgent()),
					zap.String("request_id", c.GetString(requestIDKey)),
					field,
					zap.String("stack", string(debug.Stack())),
				)
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// Metrics observes every request under its route pattern
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// limiter hands out one token bucket per client key. Only the most recently
// seen clients keep a bucket, an evicted client starts over with a full one.
type limiter struct {
	mu       sync.Mutex
	buckets  *lru.Cache[string, *ratelimit.Bucket]
	interval time.Duration
	burst    int64
}

func newLimiter(interval time.Duration, burst int64, clients int) (*limiter, error) {
	if burst <= 0 {
		burst = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if clients <= 0 {
		clients = 1
	}
	buckets, err := lru.New[string, *ratelimit.Bucket](clients)
	if err != nil {
		return nil, errors.Wrap(err, "create rate limit buckets")
	}
	return &limiter{buckets: buckets, interval: interval, burst: burst}, nil
}

func (l *limiter) bucket(key string) *ratelimit.Bucket {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets.Get(key)
	if !ok {
		b = ratelimit.NewBucket(l.interval, l.burst)
		l.buckets.Add(key, b)
	}
	return b
}

// allow takes a token for key if one is available
func (l *limiter) allow(key string) bool {
	return l.bucket(key).TakeAvailable(1) > 0
}
