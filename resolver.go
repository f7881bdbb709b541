package dnspropagation

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/dmitrymomot/dnspropagation/pkg/dnsclient"
)

// Resolver is the DNS lookup capability the waiter consumes. It is satisfied
// by [dnsclient.Client]; tests substitute stubs.
//
// Negative answers ("no such record") must be reported either as
// [dnsclient.ErrNotFound] or as a [*net.DNSError] with IsNotFound set, so the
// waiter can tell an absent record apart from a failed lookup.
type Resolver interface {
	// LookupNS returns the nameserver hostnames for name.
	LookupNS(ctx context.Context, name string) ([]string, error)

	// LookupA returns the IPv4 addresses for name.
	LookupA(ctx context.Context, name string) ([]net.IP, error)

	// LookupAAAA returns the IPv6 addresses for name.
	LookupAAAA(ctx context.Context, name string) ([]net.IP, error)

	// LookupTXT returns the TXT record values for name.
	LookupTXT(ctx context.Context, name string) ([]string, error)

	// ClearCache invalidates any cached answers so the next lookup reaches
	// the network.
	ClearCache()
}

// DialFunc builds the direct resolver for one authoritative nameserver from
// its resolved addresses. The returned resolver must query those addresses
// as leaf authorities: recursion disabled, no local caching.
type DialFunc func(addrs []net.IP) Resolver

// defaultDial queries the nameserver addresses on port 53, cleartext.
func defaultDial(addrs []net.IP) Resolver {
	servers := make([]string, 0, len(addrs))
	for _, addr := range addrs {
		servers = append(servers, net.JoinHostPort(addr.String(), "53"))
	}
	return dnsclient.New(servers, dnsclient.WithRecursion(false))
}

// challengeName returns the fully qualified TXT record name holding the
// ACME DNS-01 challenge for domain.
func challengeName(domain string) string {
	return "_acme-challenge." + strings.TrimSuffix(domain, ".") + "."
}

// isNotFound reports whether err is a negative answer rather than a lookup
// failure.
func isNotFound(err error) bool {
	if errors.Is(err, dnsclient.ErrNotFound) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}
