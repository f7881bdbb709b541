package dnsclient

import "time"

const (
	defaultTimeout = 5 * time.Second
)

// config holds client configuration.
type config struct {
	timeout   time.Duration
	cacheSize int
	cacheTTL  time.Duration
	recursion bool
}

// Option configures client behavior.
type Option func(*config)

// WithTimeout sets the per-exchange timeout for a single nameserver.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRecursion toggles the recursion-desired flag on outgoing queries.
// Disable it when the configured servers are authoritative for the queried
// zone and must answer as leaf authorities.
func WithRecursion(enabled bool) Option {
	return func(c *config) {
		c.recursion = enabled
	}
}

// WithCache enables an in-memory answer cache with the given capacity and
// entry TTL. Negative answers are never cached. Without this option every
// lookup reaches the network.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *config) {
		if size > 0 && ttl > 0 {
			c.cacheSize = size
			c.cacheTTL = ttl
		}
	}
}

// newConfig creates a config with defaults, modified by options.
func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout:   defaultTimeout,
		recursion: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
