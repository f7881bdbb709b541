package dnspropagation

import (
	"io"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dmitrymomot/dnspropagation/pkg/dnsclient"
)

const (
	defaultInterval   = 5 * time.Second
	defaultGraceDelay = time.Second
	defaultMaxRounds  = 720

	// Bootstrap resolver answer cache. Direct authoritative endpoints are
	// always built without a cache.
	defaultCacheSize = 256
	defaultCacheTTL  = 5 * time.Minute
)

// config holds wait configuration.
type config struct {
	logger     *slog.Logger
	clock      clock.Clock
	resolver   Resolver
	dial       DialFunc
	bootstrap  []string
	interval   time.Duration
	graceDelay time.Duration
	maxRounds  int
	ipv6Only   bool
}

// Option configures wait behavior.
type Option func(*config)

// WithInterval sets the delay between polling rounds.
func WithInterval(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithGraceDelay sets the delay before the first polling round.
func WithGraceDelay(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.graceDelay = d
		}
	}
}

// WithMaxRounds sets the retry budget: the number of additional rounds
// attempted after the initial check before giving up.
func WithMaxRounds(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxRounds = n
		}
	}
}

// WithLogger sets the logger for retry and timeout observations.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock sets the clock used for the grace and inter-round delays.
func WithClock(clk clock.Clock) Option {
	return func(c *config) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithBootstrapServers sets the public recursive resolver endpoints
// ("host:port") used for nameserver discovery. Defaults to
// [dnsclient.GoogleServers].
func WithBootstrapServers(servers []string) Option {
	return func(c *config) {
		if len(servers) > 0 {
			c.bootstrap = servers
		}
	}
}

// WithResolver sets the recursive resolver used for nameserver discovery,
// overriding the bootstrap server set.
func WithResolver(r Resolver) Option {
	return func(c *config) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithDialFunc sets the factory building a direct resolver for each
// discovered authoritative nameserver.
func WithDialFunc(dial DialFunc) Option {
	return func(c *config) {
		if dial != nil {
			c.dial = dial
		}
	}
}

// WithIPv6Only restricts discovery to IPv6 nameserver addresses: the IPv4
// address lookup is skipped entirely.
func WithIPv6Only(enabled bool) Option {
	return func(c *config) {
		c.ipv6Only = enabled
	}
}

// newConfig creates a config with defaults, modified by options.
func newConfig(opts ...Option) *config {
	cfg := &config{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:      clock.New(),
		bootstrap:  dnsclient.GoogleServers,
		interval:   defaultInterval,
		graceDelay: defaultGraceDelay,
		maxRounds:  defaultMaxRounds,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.resolver == nil {
		cfg.resolver = dnsclient.New(cfg.bootstrap, dnsclient.WithCache(defaultCacheSize, defaultCacheTTL))
	}
	if cfg.dial == nil {
		cfg.dial = defaultDial
	}
	return cfg
}
