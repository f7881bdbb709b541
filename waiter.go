package dnspropagation

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Wait blocks until every authoritative nameserver of domain serves exactly
// one TXT record equal to challenge at _acme-challenge.<domain>, or the retry
// budget runs out.
//
// Discovery runs once; the resulting endpoint set is fixed for the whole
// wait. After a short grace delay the endpoints are polled in rounds: each
// round queries all of them concurrently and succeeds only if every endpoint
// matches in that same round. Rounds are separated by the polling interval.
//
// The first hard failure aborts the wait: ErrAmbiguousChallenge and
// ErrQueryFailed are never retried. Exhausting the budget returns
// ErrPropagationTimeout. Cancelling ctx aborts between and during rounds.
func Wait(ctx context.Context, domain, challenge string, opts ...Option) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	challenge = strings.TrimSpace(challenge)
	if domain == "" || challenge == "" {
		return ErrInvalidInput
	}

	cfg := newConfig(opts...)

	endpoints, err := discoverEndpoints(ctx, cfg, domain)
	if err != nil {
		return err
	}

	name := challengeName(domain)

	// Let freshly published records settle before the first query burst.
	if err := sleep(ctx, cfg.clock, cfg.graceDelay); err != nil {
		return err
	}

	for attempt := 0; ; {
		allMatched, err := runRound(ctx, endpoints, name, challenge)
		if err != nil {
			return err
		}
		if allMatched {
			return nil
		}

		attempt++
		if attempt > cfg.maxRounds {
			cfg.logger.ErrorContext(ctx, "gave up waiting for challenge propagation",
				slog.String("domain", domain),
				slog.Int("attempts", cfg.maxRounds),
			)
			return ErrPropagationTimeout
		}
		cfg.logger.WarnContext(ctx, "challenge not yet propagated",
			slog.String("domain", domain),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.maxRounds),
		)
		if err := sleep(ctx, cfg.clock, cfg.interval); err != nil {
			return err
		}
	}
}

// runRound checks all endpoints concurrently and reduces their outcomes. It
// always waits for every endpoint to finish before deciding, so a slow
// endpoint delays the round and an erroring one forfeits it.
func runRound(ctx context.Context, endpoints []*Endpoint, name, challenge string) (bool, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr error
		matches  int
	)

	for _, ep := range endpoints {
		wg.Add(1)
		go func(ep *Endpoint) {
			defer wg.Done()

			outcome, err := checkChallenge(ctx, ep, name, challenge)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if outcome == matched {
				matches++
			}
		}(ep)
	}

	wg.Wait()

	if firstErr != nil {
		return false, firstErr
	}
	return matches == len(endpoints), nil
}

// sleep suspends on the clock without blocking other work, honoring ctx.
func sleep(ctx context.Context, clk clock.Clock, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := clk.Timer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
