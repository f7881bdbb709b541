// Package dnspropagation waits for an ACME DNS-01 challenge record to reach
// every authoritative nameserver of a domain before a certificate authority
// is asked to validate it.
//
// Checking a challenge through a caching recursive resolver can report
// success while some authoritative servers still lack the record, failing
// validation at the authority. This package bypasses recursive resolvers for
// the actual check: it discovers the domain's authoritative nameservers,
// builds a direct non-caching query path to each, and polls them all
// concurrently until they agree the record is present or the retry budget
// runs out.
//
// # Quick Start
//
// Publish the challenge record, then block until it has propagated:
//
//	err := dnspropagation.Wait(ctx, "example.com", challengeToken)
//	if err != nil {
//	    // Not safe to trigger validation yet.
//	}
//
// Defaults poll every 5 seconds for up to 720 rounds (one hour). Tests and
// impatient callers tune the budget with options:
//
//	err := dnspropagation.Wait(ctx, "example.com", challengeToken,
//	    dnspropagation.WithInterval(time.Second),
//	    dnspropagation.WithMaxRounds(30),
//	    dnspropagation.WithLogger(logger),
//	)
//
// Callers without context plumbing use the blocking bridge:
//
//	err := dnspropagation.WaitSync("example.com", challengeToken)
//
// # Consensus Semantics
//
// A wait succeeds only when every discovered nameserver reports exactly one
// TXT record equal to the challenge at _acme-challenge.<domain> within the
// same polling round; agreement spread across different rounds never counts.
// An absent record is a retry signal. More than one record at the challenge
// name, or any hard lookup failure, aborts the wait immediately.
//
// # Error Handling
//
// The package defines sentinel errors for consistent error handling:
//
//   - [ErrInvalidInput] - domain or challenge is empty
//   - [ErrDiscoveryFailed] - nameservers or their addresses could not be resolved
//   - [ErrAmbiguousChallenge] - multiple challenge records present at once
//   - [ErrQueryFailed] - a challenge check failed (timeout, transport, protocol)
//   - [ErrPropagationTimeout] - retry budget exhausted before full agreement
package dnspropagation
