package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/TandelPriyanshi/BorrowBase-sub000/internal/config"
	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client
var Ctx = context.Background()

func InitRedis() {
	Redis = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       0,
	})

	_, err := Redis.Ping(Ctx).Result()
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Token revocation, rate limiting and caching will be disabled.", err)
	} else {
		log.Println("Connected to Redis successfully")
	}
}

// Rate limiting keyed by user. Fails open when Redis is unavailable.
func CheckRateLimit(userId string, limit int, duration time.Duration) (bool, error) {
	if Redis == nil {
		return true, nil
	}
	key := fmt.Sprintf("rate_limit:%s", userId)
	count, err := Redis.Incr(Ctx, key).Result()
	if err != nil {
		return false, err
	}

	if count == 1 {
		Redis.Expire(Ctx, key, duration)
	}

	if count > int64(limit) {
		return false, nil
	}
	return true, nil
}

// Caching
func CacheSet(key string, value interface{}, expiration time.Duration) error {
	if Redis == nil {
		return fmt.Errorf("redis not configured")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(Ctx, key, data, expiration).Err()
}

func CacheGet(key string, dest interface{}) error {
	if Redis == nil {
		return fmt.Errorf("redis not configured")
	}
	val, err := Redis.Get(Ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

func CacheInvalidate(pattern string) error {
	if Redis == nil {
		return fmt.Errorf("redis not configured")
	}
	keys, err := Redis.Keys(Ctx, pattern).Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return Redis.Del(Ctx, keys...).Err()
	}
	return nil
}

// --- Access token revocation (logout) ---

// BlacklistToken marks an access token JTI as revoked until it would
// have expired anyway.
func BlacklistToken(jti string, ttl time.Duration) error {
	if Redis == nil {
		return fmt.Errorf("redis not configured")
	}
	return Redis.Set(Ctx, "token_blacklist:"+jti, "1", ttl).Err()
}

// IsTokenBlacklisted reports whether an access token JTI was revoked.
// Fails open when Redis is down so a cache outage does not lock everyone out.
func IsTokenBlacklisted(jti string) bool {
	if Redis == nil || jti == "" {
		return false
	}
	exists, err := Redis.Exists(Ctx, "token_blacklist:"+jti).Result()
	if err != nil {
		return false
	}
	return exists > 0
}

// --- Refresh token store (rotation) ---

// StoreRefreshToken records the active refresh token JTI for a user.
// One active refresh token per user; issuing a new one invalidates the old.
func StoreRefreshToken(userId, jti string, ttl time.Duration) error {
	if Redis == nil {
		return fmt.Errorf("redis not configured")
	}
	return Redis.Set(Ctx, "refresh_token:"+userId, jti, ttl).Err()
}

// IsRefreshTokenActive checks that the presented refresh token JTI is the
// one currently stored for the user.
func IsRefreshTokenActive(userId, jti string) bool {
	if Redis == nil {
		return false
	}
	val, err := Redis.Get(Ctx, "refresh_token:"+userId).Result()
	if err != nil {
		return false
	}
	return val == jti
}

// RevokeRefreshToken drops the stored refresh token for a user.
func RevokeRefreshToken(userId string) error {
	if Redis == nil {
		return nil
	}
	return Redis.Del(Ctx, "refresh_token:"+userId).Err()
}
