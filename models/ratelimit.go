package models

import (
	"context"
	"forum-core/helpers"
	"net"
	"time"
)

// defaults of the sliding window (can be overridden per model instance)
const (
	RateLimitWindow = 600 * time.Second
	RateLimitCap    = 600
)

// Decision is the outcome of an admission check.
// Limited is a normal outcome the caller branches on, not an error.
type Decision struct {
	Allowed    bool          `json:"allowed"`
	Hits       int64         `json:"hits"`
	RetryAfter time.Duration `json:"-"`
}

// HitStore is the storage contract of the rate limiter.
// Hit must apply the whole window rule as one atomic store operation:
// create the record with hits = 1 when it is absent or its window elapsed,
// increment while hits < cap, refuse (without mutation) at the cap.
// Two concurrent calls must never both create a fresh record or lose an increment.
type HitStore interface {
	Hit(ctx context.Context, address string, window time.Duration, cap int64) (hits int64, allowed bool, err error)
}

// RateLimitModel counts requests per client address in a sliding window.
// Expiry is enforced lazily by the stores; a periodic sweep is an optimization
// the TTL-native store gets for free and the document store does not need.
type RateLimitModel struct {
	Store  HitStore
	Window time.Duration // default RateLimitWindow
	Cap    int64         // default RateLimitCap
}

// Admit counts a request from the given client address.
// The caller is expected to reject or delay the request when Allowed is false.
func (m RateLimitModel) Admit(address string) (*Decision, error) {

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	hits, allowed, err := m.Store.Hit(ctx, NormalizeAddress(address), m.window(), m.cap())
	if err != nil {
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	if !allowed {
		return &Decision{Allowed: false, Hits: hits, RetryAfter: m.window()}, nil
	}

	return &Decision{Allowed: true, Hits: hits}, nil
}

func (m RateLimitModel) window() time.Duration {
	if m.Window <= 0 {
		return RateLimitWindow
	}
	return m.Window
}

func (m RateLimitModel) cap() int64 {
	if m.Cap <= 0 {
		return RateLimitCap
	}
	return m.Cap
}

// NormalizeAddress brings IPv4-mapped IPv6 addresses ("::ffff:203.0.113.5")
// and their plain IPv4 form to the same record key. Unparsable input is kept
// as-is - the limiter then simply counts it under the raw string.
func NormalizeAddress(address string) string {
	ip := net.ParseIP(address)
	if ip == nil {
		return address
	}
	if v4 := ip.To4(); v4 != nil {
		return v4.String()
	}
	return ip.String()
}
