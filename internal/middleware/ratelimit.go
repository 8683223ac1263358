package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// sweepEvery is how many requests pass between sweeps of idle clients.
const sweepEvery = 256

type windowEntry struct {
	requests []time.Time
	mu       sync.Mutex
}

// RateLimiter allows at most max requests per client within a sliding window.
type RateLimiter struct {
	max    int
	window time.Duration
	store  sync.Map
	now    func() time.Time
	calls  atomic.Uint64
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{max: max, window: window, now: time.Now}
}

func (rl *RateLimiter) allow(key string) bool {
	now := rl.now()
	cutoff := now.Add(-rl.window)
	if rl.calls.Add(1)%sweepEvery == 0 {
		rl.sweep(cutoff)
	}

	v, _ := rl.store.LoadOrStore(key, &windowEntry{})
	entry := v.(*windowEntry)

	entry.mu.Lock()
	defer entry.mu.Unlock()

	filtered := entry.requests[:0]
	for _, t := range entry.requests {
		if t.After(cutoff) {
			filtered = append(filtered, t)
		}
	}
	entry.requests = filtered

	if len(entry.requests) >= rl.max {
		return false
	}

	entry.requests = append(entry.requests, now)
	return true
}

// sweep drops clients whose last request is older than cutoff.
func (rl *RateLimiter) sweep(cutoff time.Time) {
	rl.store.Range(func(k, v interface{}) bool {
		entry := v.(*windowEntry)
		entry.mu.Lock()
		idle := len(entry.requests) == 0 || !entry.requests[len(entry.requests)-1].After(cutoff)
		entry.mu.Unlock()
		if idle {
			rl.store.Delete(k)
		}
		return true
	})
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if !rl.allow(clientKey(r)) {
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey is the first X-Forwarded-For hop, else the remote host.
func clientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
