package middelware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"timeboss-backend/models"
	"timeboss-backend/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(r *gin.Engine, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cors := NewCORSMiddleware(&models.Config{CORSOrigins: []string{"https://app.timeboss.example", "*.partner.example"}})
	r := gin.New()
	r.Use(cors.CORS())
	r.GET("/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, http.MethodGet, "/jobs", map[string]string{"Origin": "https://app.timeboss.example"})
	assert.Equal(t, "https://app.timeboss.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/jobs", map[string]string{"Origin": "https://crm.partner.example"})
	assert.Equal(t, "https://crm.partner.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(r, http.MethodGet, "/jobs", map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodOptions, "/jobs", map[string]string{"Origin": "https://app.timeboss.example"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base, hook := test.NewNullLogger()
	limiter := NewRateLimiter(3, time.Minute, logger.New(base))
	clock := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/jobs", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/jobs", nil).Code)
	}
	w := serve(r, http.MethodGet, "/jobs", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Too many requests")
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	// No partial refill inside the window
	clock = clock.Add(59 * time.Second)
	w = serve(r, http.MethodGet, "/jobs", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Len(t, hook.Entries, 1, "repeated rejections are logged once")

	clock = clock.Add(time.Second)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/jobs", nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/jobs", nil).Code)
}

func TestRateLimiterCapsRequestsPerWindow(t *testing.T) {
	base, _ := test.NewNullLogger()
	limiter := NewRateLimiter(100, 15*time.Minute, logger.New(base))
	clock := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return clock }

	allowed := 0
	for i := 0; i < 900; i++ {
		if limiter.Allow("10.0.0.1") {
			allowed++
		}
		clock = clock.Add(time.Second)
	}
	assert.Equal(t, 100, allowed, "one full window allows exactly the configured requests")
}

func TestRateLimiterIsPerClient(t *testing.T) {
	base, _ := test.NewNullLogger()
	limiter := NewRateLimiter(1, time.Minute, logger.New(base))

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestRateLimiterCleanup(t *testing.T) {
	base, _ := test.NewNullLogger()
	limiter := NewRateLimiter(1, time.Minute, logger.New(base))
	clock := time.Now()
	limiter.now = func() time.Time { return clock }

	limiter.Allow("10.0.0.1")
	clock = clock.Add(2 * time.Minute)
	limiter.Allow("10.0.0.2")
	limiter.Cleanup()

	assert.NotContains(t, limiter.visitors, "10.0.0.1")
	assert.Contains(t, limiter.visitors, "10.0.0.2")
}

func TestStructuredLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base, hook := test.NewNullLogger()
	m := NewLoggingMiddleware(logger.New(base))

	r := gin.New()
	r.Use(m.StructuredLogger())
	r.GET("/jobs/:id", func(c *gin.Context) {
		c.Set(ContextUserID, 7)
		c.Status(http.StatusNotFound)
	})
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/jobs/9", nil)
	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, 404, entry.Data["status"])
	assert.Equal(t, 7, entry.Data["user_id"])
	assert.Equal(t, "/jobs/9", entry.Data["path"])

	serve(r, http.MethodGet, "/health", nil)
	assert.Len(t, hook.Entries, 1)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	base, hook := test.NewNullLogger()
	m := NewLoggingMiddleware(logger.New(base))

	r := gin.New()
	r.Use(m.Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal Server Error")
	assert.Equal(t, "Panic recovered: boom", hook.LastEntry().Message)
}
