// Package dnsclient provides record lookups against a fixed set of DNS
// nameservers.
//
// Unlike the standard library resolver, the server set is explicit and fixed
// at construction, the recursion-desired flag is controllable, and the system
// hosts file is never consulted. This makes the client usable both as a
// bootstrap recursive resolver (pointed at public resolvers such as
// [GoogleServers]) and as a direct client of authoritative nameservers with
// recursion disabled.
//
// # Quick Start
//
// Resolve TXT records through Google public DNS:
//
//	client := dnsclient.New(dnsclient.GoogleServers)
//	values, err := client.LookupTXT(ctx, "example.com")
//
// Query an authoritative server directly, without recursion:
//
//	client := dnsclient.New([]string{"192.0.2.53:53"}, dnsclient.WithRecursion(false))
//	values, err := client.LookupTXT(ctx, "_acme-challenge.example.com")
//
// # Lookup Semantics
//
// Servers are tried in order; a transport error or failure rcode from one
// server falls through to the next. A NOERROR answer or an NXDOMAIN negative
// answer from any server is final. Truncated UDP responses are retried over
// TCP against the same server.
//
// Zero matching records with a NOERROR response yield an empty, non-error
// result. NXDOMAIN yields [ErrNotFound] so callers can distinguish a missing
// record from a failed lookup.
//
// # Caching
//
// By default every lookup reaches the network. [WithCache] enables an
// in-memory TTL-bounded answer cache; [Client.ClearCache] drops it so the
// next lookup is live again. Negative answers are never cached.
//
// # Error Handling
//
// The package defines sentinel errors for consistent error handling:
//
//   - [ErrNoServers] - client constructed without nameservers
//   - [ErrNotFound] - negative answer: name or record type does not exist
//   - [ErrExchange] - all configured servers failed to produce an answer
package dnsclient
