package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"social_feed/internal/pkg/config"
	"social_feed/pkg/response"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter 存储每个IP的限流器
type IPRateLimiter struct {
	ips map[string]*visitor
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter 按配置创建 IP 限流器，QPS 为每秒允许的请求数，Burst 为桶的大小
func NewIPRateLimiter(cfg config.RateLimitConfig) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   rate.Limit(cfg.QPS),
		b:   cfg.Burst,
	}
}

// GetLimiter 获取指定IP的限流器
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	v, exists := i.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup 移除超过 maxIdle 未访问的 IP，返回移除数量
func (i *IPRateLimiter) Cleanup(maxIdle time.Duration) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	removed := 0
	for ip, v := range i.ips {
		if time.Since(v.lastSeen) > maxIdle {
			delete(i.ips, ip)
			removed++
		}
	}
	return removed
}

// RunCleanup 定期清理，直到 ctx 结束
func (i *IPRateLimiter) RunCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i.Cleanup(maxIdle)
		}
	}
}

// RateLimitMiddleware 限流中间件
func RateLimitMiddleware(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.GetLimiter(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, response.ErrTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}
