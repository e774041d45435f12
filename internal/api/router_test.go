package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthzAndAuthGuard(t *testing.T) {
	r := NewRouter(Config{JWTManager: auth.NewJWTManager("secret", time.Minute)})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	for _, target := range []string{"/v1/bookings", "/v1/bookings/owner", "/v1/items", "/v1/requests/all", "/v1/me"} {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, target)
	}
}

func TestAllowedOrigins(t *testing.T) {
	assert.Contains(t, allowedOrigins(false, ""), "http://localhost:3000")
	assert.Equal(t, []string{"https://a.example", "https://b.example"},
		allowedOrigins(true, " https://a.example, ,https://b.example"))
	assert.Empty(t, allowedOrigins(true, ""))
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(RequestLogger(logger), Recovery(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok?x=1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	requests := logs.FilterMessage("request").All()
	require.Len(t, requests, 2)
	assert.Equal(t, "/ok?x=1", requests[0].ContextMap()["path"])
	assert.EqualValues(t, http.StatusNoContent, requests[0].ContextMap()["status"])
	assert.Equal(t, zap.ErrorLevel, requests[1].Level)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRateLimitWithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(config.RateLimitConfig{Capacity: 1, RefillInterval: time.Hour, Prefix: "rl"}, nil, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateKey(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "rl:ip:10.0.0.7", rateKey("rl", c))

	auth.SetUserID(c, "u-1")
	assert.Equal(t, "rl:user:u-1", rateKey("rl", c))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(1000))
	assert.Equal(t, 2, retryAfterSeconds(1001))
}
