package data

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/redis/go-redis/v9"
)

const verificationPrefix = "verification:"

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// ContentKey derives the cache key for a submission. Identical text in the
// same vertical verifies to the same result, so a hash of both is enough.
func ContentKey(text, vertical string) string {
	h := xxhash.NewS64(0)
	h.Write([]byte(vertical))
	h.Write([]byte{0})
	h.Write([]byte(text))
	out := make([]byte, 8)
	binary.BigEndian.PutUint64(out, h.Sum64())
	return hex.EncodeToString(out)
}

// GetCachedVerification returns the cached result JSON for a content key,
// or "" on a miss. Cache errors are non-fatal and logged.
func GetCachedVerification(ctx context.Context, rdb *redis.Client, key string) string {
	val, err := rdb.Get(ctx, verificationPrefix+key).Result()
	if err == redis.Nil {
		return ""
	}
	if err != nil {
		log.Printf("cache get %s: %v", key, err)
		return ""
	}
	return val
}

// CacheVerification stores the result JSON for a content key with a TTL.
func CacheVerification(ctx context.Context, rdb *redis.Client, key, payload string, ttl time.Duration) {
	if err := rdb.Set(ctx, verificationPrefix+key, payload, ttl).Err(); err != nil {
		log.Printf("cache set %s: %v", key, err)
	}
}
