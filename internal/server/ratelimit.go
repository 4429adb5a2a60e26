package server

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdle   = 15 * time.Minute
	cleanupPeriod = 5 * time.Minute
)

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// AskLimiter hands out one token bucket per client IP so a single client
// cannot flood the hosted model with questions. A nil *AskLimiter allows
// everything. Safe for concurrent use.
type AskLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	entries map[string]*ipEntry
	stop    chan struct{}
	once    sync.Once
}

// NewAskLimiter returns nil when perSecond is not positive. Otherwise it
// starts a background goroutine that forgets idle IPs; Close stops it.
func NewAskLimiter(perSecond float64, burst int) *AskLimiter {
	if perSecond <= 0 {
		return nil
	}
	l := newAskLimiter(perSecond, burst)
	go l.cleanup()
	return l
}

func newAskLimiter(perSecond float64, burst int) *AskLimiter {
	if burst < 1 {
		burst = 1
	}
	return &AskLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		entries: make(map[string]*ipEntry),
		stop:    make(chan struct{}),
	}
}

// Allow consumes a token for ip and reports whether the ask may proceed.
func (l *AskLimiter) Allow(ip string) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[ip]
	if !ok {
		e = &ipEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = time.Now()
	return e.limiter.Allow()
}

func (l *AskLimiter) Close() {
	if l == nil {
		return
	}
	l.once.Do(func() { close(l.stop) })
}

func (l *AskLimiter) cleanup() {
	ticker := time.NewTicker(cleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.forgetIdle(time.Now())
		}
	}
}

func (l *AskLimiter) forgetIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := now.Add(-limiterIdle)
	for ip, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, ip)
		}
	}
}

// TrustedProxies lists the reverse proxies whose forwarding headers are
// believed. The zero value trusts nobody.
type TrustedProxies []netip.Prefix

// ParseTrustedProxies accepts IP addresses and CIDR prefixes.
func ParseTrustedProxies(entries []string) (TrustedProxies, error) {
	var out TrustedProxies
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			p, err := netip.ParsePrefix(e)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
			}
			out = append(out, p.Masked())
			continue
		}
		a, err := netip.ParseAddr(e)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", e, err)
		}
		a = a.Unmap()
		out = append(out, netip.PrefixFrom(a, a.BitLen()))
	}
	return out, nil
}

func (t TrustedProxies) contains(ip string) bool {
	a, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	a = a.Unmap()
	for _, p := range t {
		if p.Contains(a) {
			return true
		}
	}
	return false
}

// clientIP returns the address of the peer. X-Forwarded-For and X-Real-IP
// are only consulted when the peer is one of the trusted proxies.
func clientIP(r *http.Request, trusted TrustedProxies) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}
	if !trusted.contains(peer) {
		return peer
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// The leftmost entry is the original client.
		if i := strings.IndexByte(xff, ','); i != -1 {
			xff = xff[:i]
		}
		if ip := strings.TrimSpace(xff); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return peer
}
