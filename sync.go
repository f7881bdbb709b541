package dnspropagation

import "context"

// WaitSync is [Wait] for callers with no context plumbing of their own. It
// runs the wait on a dedicated goroutine with a background context and blocks
// until it completes. The wait cannot be cancelled; use [Wait] when early
// cancellation matters.
func WaitSync(domain, challenge string, opts ...Option) error {
	done := make(chan error, 1)
	go func() {
		done <- Wait(context.Background(), domain, challenge, opts...)
	}()
	return <-done
}
