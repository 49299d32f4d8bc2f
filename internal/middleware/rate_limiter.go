package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter implements a simple in-memory fixed-window rate limiter
// keyed by player and by remote IP.
type RateLimiter struct {
	playerLimits map[uint]*windowCount
	ipLimits     map[string]*windowCount
	mu           sync.Mutex

	playerMaxRequests int
	ipMaxRequests     int
	window            time.Duration
}

type windowCount struct {
	requests  int
	resetTime time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(playerMaxRequests, ipMaxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		playerLimits:      make(map[uint]*windowCount),
		ipLimits:          make(map[string]*windowCount),
		playerMaxRequests: playerMaxRequests,
		ipMaxRequests:     ipMaxRequests,
		window:            window,
	}

	go rl.cleanup()

	return rl
}

// CheckPlayerLimit reports whether the player is within their window
func (rl *RateLimiter) CheckPlayerLimit(playerID uint) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	limit, exists := rl.playerLimits[playerID]
	if !exists || now.After(limit.resetTime) {
		rl.playerLimits[playerID] = &windowCount{requests: 1, resetTime: now.Add(rl.window)}
		return true
	}

	if limit.requests >= rl.playerMaxRequests {
		return false
	}
	limit.requests++
	return true
}

// CheckIPLimit reports whether the remote address is within its window
func (rl *RateLimiter) CheckIPLimit(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	limit, exists := rl.ipLimits[ip]
	if !exists || now.After(limit.resetTime) {
		rl.ipLimits[ip] = &windowCount{requests: 1, resetTime: now.Add(rl.window)}
		return true
	}

	if limit.requests >= rl.ipMaxRequests {
		return false
	}
	limit.requests++
	return true
}

// Limit is the HTTP middleware: the IP check runs on every request, the
// player check once an identity has been resolved.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !rl.CheckIPLimit(ip) {
			writeRateLimited(w)
			return
		}
		if identity, ok := IdentityFrom(r.Context()); ok && identity.PlayerID != 0 {
			if !rl.CheckPlayerLimit(identity.PlayerID) {
				writeRateLimited(w)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for id, limit := range rl.playerLimits {
			if now.After(limit.resetTime) {
				delete(rl.playerLimits, id)
			}
		}
		for ip, limit := range rl.ipLimits {
			if now.After(limit.resetTime) {
				delete(rl.ipLimits, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func writeRateLimited(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded, slow down"})
}
