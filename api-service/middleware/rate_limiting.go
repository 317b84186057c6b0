package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"complyready-backend/shared/config"
)

// RateLimit - limit info per client key
type RateLimit struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// RateLimiter - in-memory rate limiting manager
type RateLimiter struct {
	store       map[string]*RateLimit
	mutex       sync.RWMutex
	cleanupTime time.Duration
}

// RateLimitConfig - rate limiter configuration
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// NewAPIRateLimitConfig builds the general API limit from environment configuration
func NewAPIRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()
	return RateLimitConfig{
		MaxRequests:   cfg.GetRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetRateLimitTimeWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetRateLimitBlockDurationMinutes()) * time.Minute,
	}
}

// NewGenerateRateLimitConfig builds the stricter limit for the AI-backed
// questionnaire generation endpoint.
func NewGenerateRateLimitConfig() RateLimitConfig {
	cfg := config.GetConfig()
	return RateLimitConfig{
		MaxRequests:   cfg.GetGenerateRateLimitMaxRequests(),
		TimeWindow:    time.Duration(cfg.GetGenerateRateLimitWindowSeconds()) * time.Second,
		BlockDuration: time.Duration(cfg.GetGenerateRateLimitBlockMinutes()) * time.Minute,
	}
}

// NewRateLimiter - creates a new RateLimiter instance
func NewRateLimiter(cleanupTime time.Duration) *RateLimiter {
	limiter := &RateLimiter{
		store:       make(map[string]*RateLimit),
		cleanupTime: cleanupTime,
	}

	go limiter.cleanup()

	return limiter
}

// cleanup - remove stale records periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTime)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		now := time.Now()
		for key, limit := range rl.store {
			if now.Sub(limit.LastAccess) > 24*time.Hour {
				delete(rl.store, key)
			}
		}
		rl.mutex.Unlock()
	}
}

// isAllowed - checks if the request is allowed based on rate limiting
func (rl *RateLimiter) isAllowed(key string, config RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	limit, exists := rl.store[key]

	if !exists {
		rl.store[key] = &RateLimit{
			Count:      1,
			ResetAt:    now.Add(config.TimeWindow),
			LastAccess: now,
		}
		return true
	}

	if limit.Blocked {
		if now.After(limit.BlockUntil) {
			limit.Blocked = false
			limit.Count = 1
			limit.ResetAt = now.Add(config.TimeWindow)
			limit.LastAccess = now
			return true
		}
		return false
	}

	if now.After(limit.ResetAt) {
		limit.Count = 1
		limit.ResetAt = now.Add(config.TimeWindow)
		limit.LastAccess = now
		return true
	}

	if limit.Count >= config.MaxRequests {
		limit.Blocked = true
		limit.BlockUntil = now.Add(config.BlockDuration)
		limit.LastAccess = now
		return false
	}

	limit.Count++
	limit.LastAccess = now
	return true
}

// RateLimitMiddleware - general per-IP rate limiting middleware
func (rl *RateLimiter) RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !rl.isAllowed(key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests",
				"message": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// UserRateLimitMiddleware - per-user rate limiting for AI-backed endpoints.
// Falls back to the client IP when the request is unauthenticated.
func (rl *RateLimiter) UserRateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, exists := c.Get("userID"); exists {
			if id, ok := userID.(uuid.UUID); ok {
				key = "user:" + id.String()
			}
		}

		if !rl.isAllowed(key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too many requests",
				"message": "Generation rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
