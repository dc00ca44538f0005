package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestCooldownLimiter(t *testing.T) {
	l := NewCooldownLimiter()

	assert.True(t, l.Check("a", time.Minute).Allowed)
	res := l.Check("a", time.Minute)
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, 50*time.Second)

	// 不同 key 互不影响
	assert.True(t, l.Check("b", time.Minute).Allowed)

	l.Reset("a")
	assert.True(t, l.Check("a", time.Minute).Allowed)
}

func TestUploadCooldown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewCooldownLimiter()
	r := gin.New()
	r.POST("/upload", func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User"); id == "1" {
			c.Set(ContextKeyUserID, int64(1))
		}
		c.Next()
	}, UploadCooldown(limiter, "dish", time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	do := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/upload", nil)
		if user != "" {
			req.Header.Set("X-Test-User", user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, do("1"))
	assert.Equal(t, http.StatusTooManyRequests, do("1"))
	// 匿名请求按 IP 计数
	assert.Equal(t, http.StatusNoContent, do(""))
	assert.Equal(t, http.StatusTooManyRequests, do(""))
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "操作过于频繁，请 1 秒后重试", formatRetryMessage(200*time.Millisecond))
	assert.Equal(t, "操作过于频繁，请 30 秒后重试", formatRetryMessage(30*time.Second))
	assert.Equal(t, "操作过于频繁，请 2 分钟后重试", formatRetryMessage(61*time.Second))
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/login", RateLimit(NewIPRateLimiter(rate.Every(time.Hour), 2)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
