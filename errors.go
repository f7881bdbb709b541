package dnspropagation

import "errors"

// Sentinel errors for propagation waits. A wait terminates with exactly one
// of these (or a context error); there is no partial-success surface.
var (
	// ErrInvalidInput is returned when the domain or challenge is empty.
	ErrInvalidInput = errors.New("dnspropagation: domain and challenge must not be empty")

	// ErrDiscoveryFailed is returned when the authoritative nameservers for
	// the domain, or their addresses, could not be resolved.
	ErrDiscoveryFailed = errors.New("dnspropagation: nameserver discovery failed")

	// ErrAmbiguousChallenge is returned when an authoritative nameserver
	// holds more than one TXT record at the challenge name. Waiting will not
	// resolve the ambiguity, so it is never retried.
	ErrAmbiguousChallenge = errors.New("dnspropagation: multiple challenge records present")

	// ErrQueryFailed is returned when a challenge check failed for a reason
	// other than the record being absent (timeout, transport, protocol).
	ErrQueryFailed = errors.New("dnspropagation: challenge lookup failed")

	// ErrPropagationTimeout is returned when the retry budget is exhausted
	// while at least one nameserver still lacks the challenge record.
	ErrPropagationTimeout = errors.New("dnspropagation: challenge did not propagate in time")
)
