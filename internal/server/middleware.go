package server

import (
	"bytes"
	"net/http"
	"sync"
	"time"
	"unsafe"

	"github.com/coocood/freecache"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ---- rate limiting ----

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.RWMutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter returns a limiter allowing r requests per second with
// bursts of b for each IP.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

// Limiter returns the bucket for ip, creating it on first use.
func (i *IPRateLimiter) Limiter(ip string) *rate.Limiter {
	i.mu.RLock()
	limiter, ok := i.ips[ip]
	i.mu.RUnlock()
	if ok {
		return limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if limiter, ok = i.ips[ip]; !ok {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// RateLimit rejects requests over the per-IP budget with 429.
func RateLimit(l *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// ---- response cache ----

// ResponseCache holds JSON response bodies keyed by request URI.
type ResponseCache struct {
	cache *freecache.Cache
	ttl   int
}

// NewResponseCache returns a cache of size bytes, or nil when size is not
// positive. A nil cache never hits.
func NewResponseCache(size int, ttl time.Duration) *ResponseCache {
	if size <= 0 {
		return nil
	}
	return &ResponseCache{
		cache: freecache.NewCache(size),
		ttl:   max(int(ttl.Seconds()), 1),
	}
}

// unsafeStringToBytes is only used for keys; freecache copies them.
func unsafeStringToBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

func (rc *ResponseCache) Get(key string) ([]byte, bool) {
	if rc == nil {
		return nil, false
	}
	val, err := rc.cache.Get(unsafeStringToBytes(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

func (rc *ResponseCache) Set(key string, value []byte) {
	if rc == nil {
		return
	}
	_ = rc.cache.Set(unsafeStringToBytes(key), value, rc.ttl)
}

// EntryCount returns the number of cached responses.
func (rc *ResponseCache) EntryCount() int64 {
	if rc == nil {
		return 0
	}
	return rc.cache.EntryCount()
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache replays successful GET responses. Only 200 responses without
// Cache-Control: no-store are kept; every handler behind it answers JSON.
func Cache(rc *ResponseCache, m Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if body, ok := rc.Get(key); ok {
			m.IncCacheHits()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, jsonContentType, body)
			c.Abort()
			return
		}
		m.IncCacheMisses()

		w := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() == http.StatusOK && w.Header().Get("Cache-Control") != "no-store" {
			rc.Set(key, w.body.Bytes())
		}
	}
}

// ---- logging ----

// RequestLogger writes one line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Int("size", c.Writer.Size()).
			Msg("request")
	}
}
