package main

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/site_backend/config"
	"github.com/gin-gonic/gin"
)

// RateLimiter is a fixed-window, per-IP request counter kept in Redis.
type RateLimiter struct {
	limit  int64
	window time.Duration
}

func NewRateLimiter(limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:  limit,
		window: window,
	}
}

// Env:
// - RATE_LIMIT_ENABLED=true
// - RATE_LIMIT_WINDOW_SECONDS=60
// - RATE_LIMIT_MAX_REQUESTS=600
func rateLimitEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("RATE_LIMIT_ENABLED")), "true")
}

func rateLimiterFromEnv() *RateLimiter {
	if !rateLimitEnabled() {
		return nil
	}
	limit := int64FromEnv("RATE_LIMIT_MAX_REQUESTS", 600)
	windowSec := int64FromEnv("RATE_LIMIT_WINDOW_SECONDS", 60)
	return NewRateLimiter(limit, time.Duration(windowSec)*time.Second)
}

func rateLimitKey(ip string) string {
	return "ratelimit:" + ip
}

// RateLimitMiddleware lets requests through while Redis is not connected.
func (rl *RateLimiter) RateLimitMiddleware(c *gin.Context) {
	client := config.GetRedisDB()
	if client == nil {
		c.Next()
		return
	}
	ctx := c.Request.Context()
	key := rateLimitKey(c.ClientIP())

	count, err := client.Incr(ctx, key).Result()
	if err != nil {
		c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	if count == 1 {
		if err := client.Expire(ctx, key, rl.window).Err(); err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
	}

	if count > rl.limit {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error": fmt.Sprintf("Rate limit exceeded. Try again in %d seconds", int(rl.window.Seconds())),
		})
		return
	}

	c.Next()
}
