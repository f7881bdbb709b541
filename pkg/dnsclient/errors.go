package dnsclient

import "errors"

// Sentinel errors for DNS lookups.
var (
	// ErrNoServers is returned when a client is constructed without nameservers.
	ErrNoServers = errors.New("dnsclient: no nameservers configured")

	// ErrNotFound is returned on a negative answer: the queried name (or the
	// record type at that name) does not exist. Callers use this to tell
	// "record is absent" apart from "lookup broke".
	ErrNotFound = errors.New("dnsclient: no such record")

	// ErrExchange is returned when every configured nameserver failed to
	// produce a usable answer (transport errors, timeouts, failure rcodes).
	ErrExchange = errors.New("dnsclient: query failed")
)
