package dnspropagation

import (
	"context"
	"errors"
	"fmt"
)

// checkOutcome is the tri-state result of probing one endpoint for the
// challenge record. It stays three-way until the round reduction: any error
// wins, else all-matched wins, else the round is retried.
type checkOutcome int

const (
	notYetPresent checkOutcome = iota
	matched
	failed
)

// checkChallenge queries the challenge TXT record through a single
// authoritative endpoint and classifies the answer.
//
// Exactly one record equal to challenge is a match. Zero records, a negative
// answer, or one record with a different value all mean the challenge has not
// propagated to this nameserver yet. More than one record is ambiguous and
// never retried. Any other lookup failure is fatal.
func checkChallenge(ctx context.Context, ep *Endpoint, name, challenge string) (checkOutcome, error) {
	// The endpoint is reused across rounds; drop anything it may have cached
	// so the query reaches the network.
	ep.resolver.ClearCache()

	records, err := ep.resolver.LookupTXT(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return notYetPresent, nil
		}
		return failed, errors.Join(ErrQueryFailed, err)
	}

	switch {
	case len(records) == 0:
		return notYetPresent, nil
	case len(records) > 1:
		return failed, fmt.Errorf("%w: %d records at %s on %s", ErrAmbiguousChallenge, len(records), name, ep.host)
	case records[0] == challenge:
		return matched, nil
	default:
		return notYetPresent, nil
	}
}
