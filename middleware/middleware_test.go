package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)

	// Another client has its own budget.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterStoreEvictsIdle(t *testing.T) {
	s := newRateLimiterStore(10)
	start := time.Now()
	s.getLimiter("a", start)
	s.getLimiter("b", start.Add(limiterIdleTTL+time.Minute))
	assert.Len(t, s.limiters, 1)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"untrusted peer ignores forwarded", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "9.9.9.9:1", "9.9.9.9"},
		{"untrusted peer ignores real ip", map[string]string{"X-Real-IP": "4.4.4.4"}, "9.9.9.9:1", "9.9.9.9"},
		{"trusted proxy forwarded", map[string]string{"X-Forwarded-For": "1.2.3.4"}, "10.0.0.1:1", "1.2.3.4"},
		{"trusted proxy keeps last untrusted hop", map[string]string{"X-Forwarded-For": "6.6.6.6, 1.2.3.4"}, "10.0.0.1:1", "1.2.3.4"},
		{"trusted proxy real ip", map[string]string{"X-Real-IP": "4.4.4.4"}, "10.0.0.1:1", "4.4.4.4"},
		{"remote addr", nil, "9.9.9.9:1", "9.9.9.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			r := gin.New()
			require.NoError(t, r.SetTrustedProxies([]string{"10.0.0.1"}))
			r.GET("/", func(c *gin.Context) { got = getClientIP(c) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	r := gin.New()
	require.NoError(t, r.SetTrustedProxies(nil))
	r.Use(RateLimitMiddleware(1, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for _, xff := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 429, 429}, codes)
}

func TestAdminPasswordMiddleware(t *testing.T) {
	var got string
	r := gin.New()
	r.Use(AdminPasswordMiddleware())
	r.DELETE("/x", func(c *gin.Context) { got = AdminPassword(c) })

	req := httptest.NewRequest(http.MethodDelete, "/x?password=fromquery", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "fromquery", got)

	req = httptest.NewRequest(http.MethodDelete, "/x?password=fromquery", nil)
	req.Header.Set("X-Admin-Password", "fromheader")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "fromheader", got)

	req = httptest.NewRequest(http.MethodDelete, "/x", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Empty(t, got)
}

func TestRequestTimeoutSetsDeadline(t *testing.T) {
	var hasDeadline bool
	r := gin.New()
	r.Use(RequestTimeout(time.Second))
	r.GET("/", func(c *gin.Context) { _, hasDeadline = c.Request.Context().Deadline() })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, hasDeadline)
}

func TestRequestLoggerSetsLoggerAndRequestID(t *testing.T) {
	var found bool
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/", func(c *gin.Context) {
		_, found = c.Get("logger")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, found)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
