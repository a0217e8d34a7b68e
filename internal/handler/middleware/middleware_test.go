package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant-console/internal/handler/httperr"
	"restaurant-console/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(engine *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestLoggingMiddlewareRecordsStaffAndStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	l := NewLoggerTo(config.LogConfig{Level: "info", TimeZone: "UTC"}, &buf)

	engine := gin.New()
	engine.Use(l.LoggingMiddleware())
	var seenStaff, seenRequestID string
	engine.GET("/r/:restaurantId", func(c *gin.Context) {
		seenStaff = GetStaffID(c)
		seenRequestID = GetRequestID(c)
		c.Status(http.StatusNoContent)
	})

	rec := serve(engine, http.MethodGet, "/r/abc", map[string]string{StaffIDHeader: " staff-9 "})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "staff-9", seenStaff)
	assert.NotEmpty(t, seenRequestID)
	out := buf.String()
	assert.Contains(t, out, "Request completed")
	assert.Contains(t, out, "staff_id=staff-9")
	assert.Contains(t, out, "restaurant_id=abc")
	assert.Contains(t, out, "status_code=204")
}

func TestNewLoggerFallsBackToUTC(t *testing.T) {
	l := NewLoggerTo(config.LogConfig{Level: "bogus", TimeZone: "Nowhere/Land"}, &bytes.Buffer{})
	assert.Equal(t, "UTC", l.timezone.String())
}

func TestErrorHandlerWritesPublicError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(ErrorHandler())
	engine.GET("/boom", func(c *gin.Context) {
		resp := httperr.Response{Status: http.StatusConflict}
		resp.Error.Message = "conflict"
		_ = c.Error(gin.Error{Err: errors.New("x"), Type: gin.ErrorTypePublic, Meta: resp})
	})

	rec := serve(engine, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":{"message":"conflict"}}`, rec.Body.String())
}

func TestCustomRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CustomRecovery())
	engine.GET("/panic", func(*gin.Context) { panic("kaboom") })

	rec := serve(engine, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")
}

func (r *RateLimiter) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}

func serveFrom(engine *gin.Engine, remoteAddr string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func newLimitedEngine(t *testing.T, rl *RateLimiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	require.NoError(t, engine.SetTrustedProxies(nil))
	engine.Use(rl.Middleware())
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 2})
	engine := newLimitedEngine(t, rl)

	require.Equal(t, http.StatusOK, serveFrom(engine, "10.0.0.1:4000", nil).Code)
	require.Equal(t, http.StatusOK, serveFrom(engine, "10.0.0.1:4001", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serveFrom(engine, "10.0.0.1:4002", nil).Code)
	assert.Equal(t, http.StatusOK, serveFrom(engine, "10.0.0.2:4000", nil).Code)
}

func TestRateLimiterStaffHeaderRotation(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})
	engine := newLimitedEngine(t, rl)

	allowed := 0
	for i := 0; i < 50; i++ {
		rec := serveFrom(engine, "10.0.0.1:4000", map[string]string{StaffIDHeader: fmt.Sprintf("staff-%d", i)})
		if rec.Code == http.StatusOK {
			allowed++
		}
	}

	assert.Equal(t, 1, allowed)
	assert.Equal(t, 1, rl.size())
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{RequestsPerMinute: 1, Burst: 1})
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	rl.limiter("10.0.0.1")
	rl.limiter("10.0.0.2")
	require.Equal(t, 2, rl.size())

	now = now.Add(limiterIdleTTL / 2)
	rl.limiter("10.0.0.2")

	now = now.Add(limiterIdleTTL / 2)
	rl.limiter("10.0.0.3")

	assert.Equal(t, 2, rl.size())
	rl.mu.Lock()
	_, stale := rl.limiters["10.0.0.1"]
	_, active := rl.limiters["10.0.0.2"]
	rl.mu.Unlock()
	assert.False(t, stale)
	assert.True(t, active)
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{})
	for i := 0; i < 100; i++ {
		assert.True(t, rl.limiter("k").Allow())
	}
}

func TestRequireStaffID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/act", RequireStaffID(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/act", nil).Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/act", map[string]string{StaffIDHeader: "s"}).Code)
}
