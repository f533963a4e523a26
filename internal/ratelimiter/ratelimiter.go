package ratelimiter

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"gitlab.com/gitlab-org/appfiles/metrics"
)

const (
	// DefaultSourceIPLimitPerSecond is the limit per second that rate.Limiter
	// needs to generate tokens every second.
	// The default value is 20 requests per second.
	DefaultSourceIPLimitPerSecond = 20.0
	// DefaultSourceIPBurstSize is the maximum burst allowed per rate limiter.
	// E.g. The first 100 requests within 1s will succeed, but the 101st will fail.
	DefaultSourceIPBurstSize = 100

	defaultSourceIPExpiration = time.Minute
)

// Option function to configure a RateLimiter
type Option func(*RateLimiter)

// RateLimiter keeps one token bucket per source IP in an expiring cache.
// An entry lives as long as its source IP keeps sending requests within the
// expiration window.
type RateLimiter struct {
	now                    func() time.Time
	sourceIPLimitPerSecond float64
	sourceIPBurstSize      int
	expiration             time.Duration
	blockedCount           prometheus.Counter
	cachedEntries          prometheus.Gauge
	sourceIPCache          *cache.Cache
}

// New creates a new RateLimiter with default values that can be configured via Option functions
func New(opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		now:                    time.Now,
		sourceIPLimitPerSecond: DefaultSourceIPLimitPerSecond,
		sourceIPBurstSize:      DefaultSourceIPBurstSize,
		expiration:             defaultSourceIPExpiration,
		blockedCount:           metrics.SourceIPRateLimitBlocked,
		cachedEntries:          metrics.RateLimitCachedEntries,
	}

	for _, opt := range opts {
		opt(rl)
	}

	rl.sourceIPCache = cache.New(rl.expiration, rl.expiration)
	rl.sourceIPCache.OnEvicted(func(string, interface{}) {
		rl.cachedEntries.Set(float64(rl.sourceIPCache.ItemCount()))
	})

	return rl
}

// WithNow replaces the RateLimiter now function
func WithNow(now func() time.Time) Option {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// WithSourceIPLimitPerSecond allows configuring per source IP limit per second for RateLimiter
func WithSourceIPLimitPerSecond(limit float64) Option {
	return func(rl *RateLimiter) {
		rl.sourceIPLimitPerSecond = limit
	}
}

// WithSourceIPBurstSize configures burst per source IP for the RateLimiter
func WithSourceIPBurstSize(burst int) Option {
	return func(rl *RateLimiter) {
		rl.sourceIPBurstSize = burst
	}
}

// WithExpiration sets how long an idle source IP is remembered
func WithExpiration(expiration time.Duration) Option {
	return func(rl *RateLimiter) {
		if expiration > 0 {
			rl.expiration = expiration
		}
	}
}

// Enabled reports whether source IPs are limited at all
func (rl *RateLimiter) Enabled() bool {
	return rl.sourceIPLimitPerSecond > 0
}

func (rl *RateLimiter) findOrCreate(sourceIP string) *rate.Limiter {
	for {
		// try to get existing item
		if item, expiry, found := rl.sourceIPCache.GetWithExpiration(sourceIP); found {
			// extend item window
			if time.Until(expiry) < rl.expiration/2 {
				rl.sourceIPCache.SetDefault(sourceIP, item)
			}

			return item.(*rate.Limiter)
		}

		// add a new item
		limiter := rate.NewLimiter(rate.Limit(rl.sourceIPLimitPerSecond), rl.sourceIPBurstSize)
		if rl.sourceIPCache.Add(sourceIP, limiter, cache.DefaultExpiration) == nil {
			rl.cachedEntries.Set(float64(rl.sourceIPCache.ItemCount()))
			return limiter
		}
	}
}

// SourceIPAllowed checks that the real remote IP address is allowed to perform an operation
func (rl *RateLimiter) SourceIPAllowed(sourceIP string) bool {
	limiter := rl.findOrCreate(sourceIP)

	// AllowN allows us to use the rl.now function, so we can test this more easily.
	return limiter.AllowN(rl.now(), 1)
}
