package dnspropagation

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Endpoint is a direct query path to one authoritative nameserver. Its
// address set is fixed at construction and never refreshed mid-wait.
type Endpoint struct {
	resolver Resolver
	host     string
	addrs    []net.IP
}

// Host returns the nameserver hostname the endpoint was built from.
func (e *Endpoint) Host() string { return e.host }

// Addrs returns the nameserver addresses, IPv6 before IPv4.
func (e *Endpoint) Addrs() []net.IP { return e.addrs }

// Discover resolves the authoritative nameservers for domain and builds a
// direct, non-caching query endpoint for each of them. Nameserver hostnames
// come from an NS lookup through the recursive bootstrap resolver; each
// hostname's IPv6 and IPv4 addresses are then resolved concurrently through
// the same resolver. Discovery is all-or-nothing: any hard lookup failure
// fails the whole set.
//
// A hostname missing one address family is tolerated; only a nameserver with
// no addresses at all fails discovery.
func Discover(ctx context.Context, domain string, opts ...Option) ([]*Endpoint, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, ErrInvalidInput
	}
	return discoverEndpoints(ctx, newConfig(opts...), domain)
}

func discoverEndpoints(ctx context.Context, cfg *config, domain string) ([]*Endpoint, error) {
	hosts, err := cfg.resolver.LookupNS(ctx, domain)
	if err != nil {
		return nil, errors.Join(ErrDiscoveryFailed, err)
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w: no NS records for %s", ErrDiscoveryFailed, domain)
	}

	endpoints := make([]*Endpoint, len(hosts))
	g, gctx := errgroup.WithContext(ctx)
	for i, host := range hosts {
		i, host := i, host
		g.Go(func() error {
			addrs, err := resolveNameserver(gctx, cfg, host)
			if err != nil {
				return err
			}
			endpoints[i] = &Endpoint{
				host:     host,
				addrs:    addrs,
				resolver: cfg.dial(addrs),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Join(ErrDiscoveryFailed, err)
	}
	return endpoints, nil
}

// resolveNameserver returns the addresses for one nameserver hostname, IPv6
// first. An absent address family is an empty result, not a failure.
func resolveNameserver(ctx context.Context, cfg *config, host string) ([]net.IP, error) {
	addrs, err := lookupFamily(ctx, cfg.resolver.LookupAAAA, host)
	if err != nil {
		return nil, err
	}
	if !cfg.ipv6Only {
		v4, err := lookupFamily(ctx, cfg.resolver.LookupA, host)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, v4...)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("nameserver %s has no addresses", host)
	}
	return addrs, nil
}

func lookupFamily(ctx context.Context, lookup func(context.Context, string) ([]net.IP, error), host string) ([]net.IP, error) {
	addrs, err := lookup(ctx, host)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return addrs, nil
}
