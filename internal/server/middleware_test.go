package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

type mockMetrics struct {
	noopMetrics
	hits, misses int
	endpoint     string
	status       int
}

func (m *mockMetrics) IncCacheHits()   { m.hits++ }
func (m *mockMetrics) IncCacheMisses() { m.misses++ }
func (m *mockMetrics) IncRequestsTotal(endpoint string, status int) {
	m.endpoint = endpoint
	m.status = status
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 2)
	a := l.Limiter("10.0.0.1")
	assert.Same(t, a, l.Limiter("10.0.0.1"))
	assert.NotSame(t, a, l.Limiter("10.0.0.2"))

	assert.True(t, a.Allow())
	assert.True(t, a.Allow())
	assert.False(t, a.Allow())
}

func TestResponseCacheNil(t *testing.T) {
	assert.Nil(t, NewResponseCache(0, time.Minute))

	var rc *ResponseCache
	rc.Set("k", []byte("v"))
	_, ok := rc.Get("k")
	assert.False(t, ok)
	assert.Zero(t, rc.EntryCount())
}

func TestCacheMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := &mockMetrics{}
	rc := NewResponseCache(1<<20, time.Minute)

	calls := 0
	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/x", Cache(rc, m), func(c *gin.Context) {
		calls++
		c.Data(http.StatusOK, jsonContentType, []byte(`{"n":1}`))
	})
	r.POST("/x", Cache(rc, m), func(c *gin.Context) {
		calls++
		c.Status(http.StatusCreated)
	})

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x?a=1", nil))
		assert.Equal(t, `{"n":1}`, rr.Body.String())
		assert.Equal(t, jsonContentType, rr.Header().Get("Content-Type"))
	}
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, m.hits)
	assert.Equal(t, 1, m.misses)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/x?a=1", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "/x", m.endpoint)
	assert.Equal(t, http.StatusCreated, m.status)
}

func TestHTTPStatusBucket(t *testing.T) {
	assert.Equal(t, "1xx", httpStatusBucket(101))
	assert.Equal(t, "2xx", httpStatusBucket(204))
	assert.Equal(t, "3xx", httpStatusBucket(304))
	assert.Equal(t, "4xx", httpStatusBucket(429))
	assert.Equal(t, "5xx", httpStatusBucket(503))
}
