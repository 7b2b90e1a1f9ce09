package rate

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// IPLimiter applies a requests-per-minute limit per client IP at the HTTP
// edge. Idle entries are swept after ttl. This is separate from the wallet
// resolver's per-operation gate, which protects upstream provider quota.
type IPLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rpm     int
	ttl     time.Duration
	done    chan struct{}
}

func NewIPLimiter(rpm int, ttl time.Duration) *IPLimiter {
	l := &IPLimiter{
		clients: make(map[string]*client),
		rpm:     rpm,
		ttl:     ttl,
		done:    make(chan struct{}),
	}
	go l.sweep()
	return l
}

// Allow reports whether a request from ip may proceed.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.clients[ip]
	if !ok {
		c = &client{lim: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.rpm)), l.rpm)}
		l.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.lim.Allow()
}

func (l *IPLimiter) sweep() {
	t := time.NewTicker(l.ttl)
	defer t.Stop()
	for {
		select {
		case <-l.done:
			return
		case now := <-t.C:
			l.mu.Lock()
			for ip, c := range l.clients {
				if now.Sub(c.lastSeen) > l.ttl {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Stop stops the sweep goroutine.
func (l *IPLimiter) Stop() { close(l.done) }

// ClientIP extracts the caller address, honoring X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
