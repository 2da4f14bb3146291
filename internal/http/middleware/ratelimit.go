package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL = 10 * time.Minute

	// limiterSweepInterval bounds how often new clients trigger a sweep.
	limiterSweepInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*clientLimiter
	now     func() time.Time

	nextSweep time.Time
}

// NewRateLimiter allows rps sustained requests per client with bursts of burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

func (l *RateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[ip]
	if !ok {
		if !now.Before(l.nextSweep) {
			l.sweep(now)
			l.nextSweep = now.Add(limiterSweepInterval)
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// sweep drops clients idle for longer than limiterIdleTTL. Caller holds mu.
func (l *RateLimiter) sweep(now time.Time) {
	for ip, cl := range l.clients {
		if now.Sub(cl.lastSeen) > limiterIdleTTL {
			delete(l.clients, ip)
		}
	}
}

// Handler rejects requests over the limit with 429 and a Retry-After header.
func (l *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lim := l.get(c.IP())
		if lim.AllowN(l.now(), 1) {
			return c.Next()
		}

		wait := time.Duration(float64(time.Second) / math.Max(float64(l.rps), 0.001))
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many requests"})
	}
}
