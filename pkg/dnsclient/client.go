package dnsclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/miekg/dns"
)

// GoogleServers and CloudflareServers are the public recursive resolver
// endpoints usable as a bootstrap server set, IPv6 members first.
var (
	GoogleServers = []string{
		"[2001:4860:4860::8888]:53",
		"[2001:4860:4860::8844]:53",
		"8.8.8.8:53",
		"8.8.4.4:53",
	}

	CloudflareServers = []string{
		"[2606:4700:4700::1111]:53",
		"[2606:4700:4700::1001]:53",
		"1.1.1.1:53",
		"1.0.0.1:53",
	}
)

// Client resolves DNS records against a fixed set of nameservers. The server
// set never changes after construction; each lookup tries the servers in
// order until one produces a usable answer. The system hosts file is never
// consulted, so every answer is network-sourced.
type Client struct {
	servers   []string
	udp       *dns.Client
	tcp       *dns.Client
	cache     *expirable.LRU[string, []dns.RR]
	recursion bool
}

// New creates a client bound to the given nameserver endpoints ("host:port").
func New(servers []string, opts ...Option) *Client {
	cfg := newConfig(opts...)

	c := &Client{
		servers:   servers,
		udp:       &dns.Client{Net: "udp", Timeout: cfg.timeout},
		tcp:       &dns.Client{Net: "tcp", Timeout: cfg.timeout},
		recursion: cfg.recursion,
	}
	if cfg.cacheSize > 0 {
		c.cache = expirable.NewLRU[string, []dns.RR](cfg.cacheSize, nil, cfg.cacheTTL)
	}
	return c
}

// LookupNS returns the nameserver hostnames for name, trailing-dot qualified.
func (c *Client) LookupNS(ctx context.Context, name string) ([]string, error) {
	rrs, err := c.query(ctx, name, dns.TypeNS)
	if err != nil {
		return nil, err
	}
	hosts := make([]string, 0, len(rrs))
	for _, rr := range rrs {
		if ns, ok := rr.(*dns.NS); ok {
			hosts = append(hosts, ns.Ns)
		}
	}
	return hosts, nil
}

// LookupA returns the IPv4 addresses for name.
func (c *Client) LookupA(ctx context.Context, name string) ([]net.IP, error) {
	rrs, err := c.query(ctx, name, dns.TypeA)
	if err != nil {
		return nil, err
	}
	addrs := make([]net.IP, 0, len(rrs))
	for _, rr := range rrs {
		if a, ok := rr.(*dns.A); ok {
			addrs = append(addrs, a.A)
		}
	}
	return addrs, nil
}

// LookupAAAA returns the IPv6 addresses for name.
func (c *Client) LookupAAAA(ctx context.Context, name string) ([]net.IP, error) {
	rrs, err := c.query(ctx, name, dns.TypeAAAA)
	if err != nil {
		return nil, err
	}
	addrs := make([]net.IP, 0, len(rrs))
	for _, rr := range rrs {
		if aaaa, ok := rr.(*dns.AAAA); ok {
			addrs = append(addrs, aaaa.AAAA)
		}
	}
	return addrs, nil
}

// LookupTXT returns the TXT record values for name, one string per record
// with character-string segments joined.
func (c *Client) LookupTXT(ctx context.Context, name string) ([]string, error) {
	rrs, err := c.query(ctx, name, dns.TypeTXT)
	if err != nil {
		return nil, err
	}
	values := make([]string, 0, len(rrs))
	for _, rr := range rrs {
		if txt, ok := rr.(*dns.TXT); ok {
			values = append(values, strings.Join(txt.Txt, ""))
		}
	}
	return values, nil
}

// ClearCache drops all cached answers so subsequent lookups reach the network.
func (c *Client) ClearCache() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

// query resolves name/qtype against the configured servers in order. A
// success or a negative answer from any server is final; transport errors
// and failure rcodes fall through to the next server.
func (c *Client) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	if len(c.servers) == 0 {
		return nil, ErrNoServers
	}

	fqdn := dns.Fqdn(name)
	key := dns.TypeToString[qtype] + " " + fqdn
	if c.cache != nil {
		if rrs, ok := c.cache.Get(key); ok {
			return rrs, nil
		}
	}

	m := new(dns.Msg)
	m.SetQuestion(fqdn, qtype)
	m.RecursionDesired = c.recursion

	errs := make([]error, 0, len(c.servers))
	for _, server := range c.servers {
		r, err := c.exchange(ctx, m, server)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", server, err))
			continue
		}

		switch r.Rcode {
		case dns.RcodeSuccess:
			rrs := answersOfType(r, qtype)
			if c.cache != nil && len(rrs) > 0 {
				c.cache.Add(key, rrs)
			}
			return rrs, nil
		case dns.RcodeNameError:
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, dns.TypeToString[qtype], fqdn)
		default:
			errs = append(errs, fmt.Errorf("%s responded %s for %s", server, dns.RcodeToString[r.Rcode], fqdn))
		}
	}

	return nil, errors.Join(append([]error{ErrExchange}, errs...)...)
}

// exchange performs one UDP exchange, retrying over TCP on truncation.
func (c *Client) exchange(ctx context.Context, m *dns.Msg, server string) (*dns.Msg, error) {
	r, _, err := c.udp.ExchangeContext(ctx, m, server)
	if err != nil {
		return nil, err
	}
	if r.Truncated {
		r, _, err = c.tcp.ExchangeContext(ctx, m, server)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func answersOfType(r *dns.Msg, qtype uint16) []dns.RR {
	rrs := make([]dns.RR, 0, len(r.Answer))
	for _, rr := range r.Answer {
		if rr.Header().Rrtype == qtype {
			rrs = append(rrs, rr)
		}
	}
	return rrs
}
