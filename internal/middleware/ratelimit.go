package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/gastos/internal/domain/dto"
)

// client represents a rate-limited client with request count and window start.
type client struct {
	windowStart time.Time
	count       int
}

// rateStore is an in-memory fixed-window counter keyed by client IP.
// NOTE: multi-instance deployments would need a shared store.
type rateStore struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
}

func newRateStore(limit int, window time.Duration) *rateStore {
	return &rateStore{clients: make(map[string]*client), limit: limit, window: window, now: time.Now}
}

// allow counts one request for ip and reports whether it fits the window.
func (s *rateStore) allow(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cl, ok := s.clients[ip]
	if !ok || now.Sub(cl.windowStart) > s.window {
		s.clients[ip] = &client{windowStart: now, count: 1}
		s.evict(now)
		return true
	}
	cl.count++
	return cl.count <= s.limit
}

// evict drops clients whose window ended; called with mu held.
func (s *rateStore) evict(now time.Time) {
	for ip, cl := range s.clients {
		if now.Sub(cl.windowStart) > s.window {
			delete(s.clients, ip)
		}
	}
}

// RateLimiter limits each client IP to limit requests per window.
// A non-positive limit disables limiting.
//
// Response when limit exceeded:
//
//	HTTP/1.1 429 Too Many Requests
//	{"message": "rate limit exceeded", ...}
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	store := newRateStore(limit, window)
	return func(c *gin.Context) {
		if !store.allow(c.ClientIP()) {
			c.Header("Retry-After", retryAfter(window))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}

func retryAfter(window time.Duration) string {
	secs := int(window.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
