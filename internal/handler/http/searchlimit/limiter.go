// Package searchlimit rate-limits article search queries per client IP.
// Search hits an ILIKE scan, so it gets a tighter budget than plain listing;
// requests without a search parameter pass through untouched.
package searchlimit

import (
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"newswire/internal/handler/http/respond"
)

const (
	// DefaultRate is the sustained number of search requests per second
	// allowed for one client.
	DefaultRate = 2
	// DefaultBurst is the number of requests a client may issue at once.
	DefaultBurst = 5

	// staleAfter is how long an idle client entry survives before the
	// cleanup pass drops it.
	staleAfter = 10 * time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter tracks a token bucket per client IP.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rate    rate.Limit
	burst   int

	lastClean time.Time
}

// New creates a Limiter allowing r requests per second with the given burst.
// Non-positive values fall back to the defaults.
func New(r float64, burst int) *Limiter {
	if r <= 0 {
		r = DefaultRate
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &Limiter{
		clients:   make(map[string]*client),
		rate:      rate.Limit(r),
		burst:     burst,
		lastClean: time.Now(),
	}
}

// Limit wraps next with the search rate limit. Only requests carrying a
// non-empty search query parameter consume tokens.
func (l *Limiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("search") == "" {
			next.ServeHTTP(w, r)
			return
		}
		if !l.allow(clientIP(r)) {
			respond.SafeError(w, http.StatusTooManyRequests,
				errors.New("search rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *Limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.cleanLocked(now)

	c, ok := l.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.Allow()
}

// cleanLocked drops clients idle past staleAfter. Runs at most once per
// minute; the caller holds the lock.
func (l *Limiter) cleanLocked(now time.Time) {
	if now.Sub(l.lastClean) < time.Minute {
		return
	}
	l.lastClean = now
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > staleAfter {
			delete(l.clients, ip)
		}
	}
}

// clientIP resolves the caller address the way the other middleware does:
// X-Forwarded-For first, then X-Real-IP, then RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				first = xff[:i]
				break
			}
		}
		if ip := net.ParseIP(first); ip != nil {
			return ip.String()
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
