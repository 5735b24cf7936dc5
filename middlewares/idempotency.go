package middlewares

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

// ResponseCache is the slice of the redis client the middleware uses;
// *redis.Client satisfies it and tests substitute a map-backed fake.
type ResponseCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// cachedResponse preserves the original status code so a replayed 201 does
// not come back as a 200.
type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type bodyWriter struct {
	gin.ResponseWriter
	body []byte
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the cached response for a repeated
// X-Idempotency-Key instead of creating a second notification. Requests
// without the header pass straight through.
func IdempotencyMiddleware(cache ResponseCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-Idempotency-Key")
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		redisKey := fmt.Sprintf("idempotency:notify:%s", key)
		if raw, err := cache.Get(ctx, redisKey).Result(); err == nil {
			var cached cachedResponse
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				c.Data(cached.Status, "application/json", cached.Body)
				c.Abort()
				return
			}
		}

		bw := &bodyWriter{ResponseWriter: c.Writer}
		c.Writer = bw
		c.Next()

		if status := c.Writer.Status(); status < 400 {
			raw, err := json.Marshal(cachedResponse{Status: status, Body: bw.body})
			if err != nil {
				return
			}
			cache.Set(ctx, redisKey, raw, idempotencyTTL)
		}
	}
}
