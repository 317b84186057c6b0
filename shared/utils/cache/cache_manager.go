package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"complyready-backend/shared/config"
)

// CacheManager wraps the Redis client used for short-lived response caching.
// The dashboard payload is the main consumer: it is read on every board load
// and invalidated whenever a submission or action completion moves the score.
type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager

	// DashboardTTL keeps dashboard payloads fresh enough that a missed
	// invalidation self-heals quickly.
	DashboardTTL = 5 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance, or nil when
// Redis is unavailable. All callers treat nil as cache-off.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

// DashboardKey generates the cache key for a user's dashboard payload
func DashboardKey(userID uuid.UUID) string {
	return fmt.Sprintf("dashboard:user:%s", userID.String())
}

// GetJSON reads a cached JSON value into v. Returns false on miss or error.
func (cm *CacheManager) GetJSON(key string, v interface{}) bool {
	data, err := cm.client.Get(cm.ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("❌ Cache unmarshal failed for %s: %v", key, err)
		return false
	}
	return true
}

// SetJSON stores v as JSON under key with a TTL
func (cm *CacheManager) SetJSON(key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("❌ Cache marshal failed for %s: %v", key, err)
		return
	}
	if err := cm.client.Set(cm.ctx, key, data, ttl).Err(); err != nil {
		log.Printf("❌ Cache set failed for %s: %v", key, err)
	}
}

// Delete removes keys from the cache
func (cm *CacheManager) Delete(keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := cm.client.Del(cm.ctx, keys...).Err(); err != nil {
		log.Printf("❌ Cache delete failed: %v", err)
	}
}

// InvalidateDashboard drops the cached dashboard payload for a user. Safe to
// call when Redis is down.
func InvalidateDashboard(userID uuid.UUID) {
	cm := globalCacheManager
	if cm == nil {
		return
	}
	cm.Delete(DashboardKey(userID))
}
