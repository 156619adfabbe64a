// 包 middleware：入口限流与请求标识
package middleware

import (
	"net/http"
	"sync"
	"time"

	"location-hierarchy/internal/logger"
)

// TokenBucket：按秒重置的令牌桶
// 约束：不排队，超出即返回 429
type TokenBucket struct {
	capacity int
	tokens   int
	lastSec  int64
	mu       sync.Mutex
	now      func() int64
}

func NewTokenBucket(qps int) *TokenBucket {
	if qps <= 0 {
		qps = 200
	}
	now := func() int64 { return time.Now().Unix() }
	return &TokenBucket{capacity: qps, tokens: qps, lastSec: now(), now: now}
}

func (tb *TokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	nowSec := tb.now()
	if tb.lastSec != nowSec {
		tb.lastSec = nowSec
		tb.tokens = tb.capacity
	}
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// RateLimit：enabled 为假时原样返回 next
func RateLimit(next http.Handler, enabled bool, qps int) http.Handler {
	if !enabled {
		return next
	}
	return limitWith(next, NewTokenBucket(qps))
}

func limitWith(next http.Handler, tb *TokenBucket) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !tb.allow() {
			logger.L().Debug("rate_limited", "ip", ClientIP(r), "path", r.URL.Path)
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
