package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter caps requests per client over a fixed window. It guards
// the endpoints that query the history database, where an unthrottled
// poller could starve the simulation loop's writes.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	period  time.Duration

	now func() time.Time // swapped out in tests
}

type clientWindow struct {
	used    int
	started time.Time
}

// Tracked-client ceiling before stale windows get pruned inline.
const maxTrackedClients = 4096

// NewRateLimiter allows limit requests per period for each client.
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		period:  period,
		now:     time.Now,
	}
}

// Allow records a request for the client and reports whether it fits in
// the current window. An expired window restarts fresh.
func (rl *RateLimiter) Allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[client]
	if !ok || now.Sub(w.started) >= rl.period {
		if len(rl.clients) >= maxTrackedClients {
			rl.prune(now)
		}
		rl.clients[client] = &clientWindow{used: 1, started: now}
		return true
	}
	if w.used < rl.limit {
		w.used++
		return true
	}
	return false
}

// RetryAfter returns whole seconds until the client's window restarts.
func (rl *RateLimiter) RetryAfter(client string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.clients[client]
	if !ok {
		return 0
	}
	left := rl.period - rl.now().Sub(w.started)
	if left <= 0 {
		return 0
	}
	return int(left/time.Second) + 1
}

func (rl *RateLimiter) prune(now time.Time) {
	for client, w := range rl.clients {
		if now.Sub(w.started) >= rl.period {
			delete(rl.clients, client)
		}
	}
}

// clientIP identifies the requester: the first X-Forwarded-For hop when
// the request came through a proxy, otherwise the connection address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware rejects over-limit requests with 429 and a
// Retry-After header.
func RateLimitMiddleware(rl *RateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client := clientIP(r)
		if !rl.Allow(client) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter(client)))
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}
