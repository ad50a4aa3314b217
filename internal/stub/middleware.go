package stub

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	applog "finboard/internal/log"
)

// DefaultWritesPerMinute bounds creates and deletes per client.
const DefaultWritesPerMinute = 120

// writeLimiter is a fixed one-minute window per client address.
type writeLimiter struct {
	mu      sync.Mutex
	limit   int
	now     func() time.Time
	clients map[string]*window
}

type window struct {
	start time.Time
	count int
}

func newWriteLimiter(limit int, now func() time.Time) *writeLimiter {
	return &writeLimiter{limit: limit, now: now, clients: make(map[string]*window)}
}

func (l *writeLimiter) setLimit(n int) {
	l.mu.Lock()
	l.limit = n
	l.mu.Unlock()
}

// allow records one write for client. A limit <= 0 disables limiting.
func (l *writeLimiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.limit <= 0 {
		return true
	}

	now := l.now()
	w, ok := l.clients[client]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.prune(now)
		l.clients[client] = &window{start: now, count: 1}
		return true
	}
	w.count++
	return w.count <= l.limit
}

// prune drops windows that have expired. Caller holds mu.
func (l *writeLimiter) prune(now time.Time) {
	for k, w := range l.clients {
		if now.Sub(w.start) >= time.Minute {
			delete(l.clients, k)
		}
	}
}

func (s *Server) limitWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := r.RemoteAddr
		if host, _, err := net.SplitHostPort(client); err == nil {
			client = host
		}
		if !s.limiter.allow(client) {
			s.logger.WarnContext(r.Context(), "Write rate limit exceeded",
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				"client", client)
			w.Header().Set("Retry-After", strconv.Itoa(60))
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LimitWrites changes the per-client write budget. Zero disables it.
func (s *Server) LimitWrites(perMinute int) {
	s.limiter.setLimit(perMinute)
}

// apiHeaders marks every response as uncacheable JSON that must not be sniffed.
func apiHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Cache-Control", "no-store")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}
