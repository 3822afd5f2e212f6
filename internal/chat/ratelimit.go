package chat

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"dashboard/internal/domain"
)

// DefaultLimit is assumed for the request quota when a 429 arrives before
// any limit header has been seen
const DefaultLimit = 150

const (
	headerRemaining  = "x-ratelimit-remaining-requests"
	headerLimit      = "x-ratelimit-limit-requests"
	headerReset      = "x-ratelimit-reset-requests"
	headerRetryAfter = "retry-after"
)

// epochFloor separates unix timestamps from second counts in reset headers
const epochFloor = 1_000_000_000

// maxResetAhead bounds how far in the future a reset header may point
const maxResetAhead = 366 * 24 * time.Hour

// applyHeaders overwrites the fields present in h, keeping the rest
func applyHeaders(rl domain.RateLimit, h http.Header, now time.Time) domain.RateLimit {
	if v, ok := headerInt(h, headerRemaining); ok {
		rl.CallsRemaining = v
	}
	if v, ok := headerInt(h, headerLimit); ok {
		rl.Limit = v
	}
	if at, ok := parseReset(h.Get(headerReset), now); ok {
		rl.ResetAt = &at
	}
	return rl
}

// exhaust marks the quota spent after a 429
func exhaust(rl domain.RateLimit, h http.Header, now time.Time, fallback int) domain.RateLimit {
	if v, ok := headerInt(h, headerLimit); ok {
		rl.Limit = v
	}
	if rl.Limit <= 0 {
		rl.Limit = fallback
	}
	rl.CallsRemaining = 0

	if at, ok := parseReset(h.Get(headerRetryAfter), now); ok {
		rl.ResetAt = &at
	} else if at, ok := parseReset(h.Get(headerReset), now); ok {
		rl.ResetAt = &at
	}
	return rl
}

// rollover starts a fresh window once the reset instant has passed
func rollover(rl domain.RateLimit, now time.Time) (domain.RateLimit, bool) {
	if rl.ResetAt == nil || now.Before(*rl.ResetAt) {
		return rl, false
	}
	rl.CallsUsed = 0
	rl.CallsRemaining = rl.Limit
	rl.ResetAt = nil
	return rl, true
}

func headerInt(h http.Header, key string) (int, bool) {
	raw := strings.TrimSpace(h.Get(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// parseReset accepts a second count, a Go duration ("6m0s"), a unix
// timestamp or an HTTP date. Resets beyond maxResetAhead are rejected.
func parseReset(raw string, now time.Time) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	limit := now.Add(maxResetAhead)
	if secs, err := strconv.ParseFloat(raw, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) || secs < 0 {
			return time.Time{}, false
		}
		if secs >= epochFloor {
			if secs > float64(limit.Unix()) {
				return time.Time{}, false
			}
			return time.Unix(int64(secs), 0), true
		}
		if secs > maxResetAhead.Seconds() {
			return time.Time{}, false
		}
		return now.Add(time.Duration(secs * float64(time.Second))), true
	}
	if d, err := time.ParseDuration(raw); err == nil && d >= 0 && d <= maxResetAhead {
		return now.Add(d), true
	}
	if t, err := http.ParseTime(raw); err == nil && !t.After(limit) {
		return t, true
	}
	return time.Time{}, false
}
