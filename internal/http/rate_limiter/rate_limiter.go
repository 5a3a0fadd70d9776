package rate_limiter

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client IP.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter
	limit    rate.Limit
	burst    int
	idle     time.Duration
}

// New allows rps requests per second with the given burst per IP. Visitors
// idle for longer than idle are forgotten by the cleanup loop.
func New(rps float64, burst int, idle time.Duration) *Limiter {
	return &Limiter{
		visitors: make(map[string]*clientLimiter),
		limit:    rate.Limit(rps),
		burst:    burst,
		idle:     idle,
	}
}

func (l *Limiter) GetVisitor(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(l.limit, l.burst)
		l.visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// SetLimit changes the rate for current and future visitors.
func (l *Limiter) SetLimit(rps float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.limit = rate.Limit(rps)
	l.burst = burst
	for _, v := range l.visitors {
		v.limiter.SetLimit(l.limit)
		v.limiter.SetBurst(burst)
	}
}

// StartVisitorCleanupLoop runs until ctx is done.
func (l *Limiter) StartVisitorCleanupLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, v := range l.visitors {
		if time.Since(v.lastSeen) > l.idle {
			delete(l.visitors, ip)
		}
	}
}

func (l *Limiter) CleanupAllVisitors() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitors = make(map[string]*clientLimiter)
}

// Middleware answers 429 once the caller's bucket is empty.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.GetVisitor(clientIP(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
