package manager

import "context"

// acquireLane claims the single-owner predict lane, honoring context
// cancellation while waiting. A nil lane means concurrent prediction is safe
// and admission is a no-op. The returned release must be called exactly once.
func acquireLane(ctx context.Context, lane chan struct{}) (func(), error) {
	if lane == nil {
		return func() {}, nil
	}
	select {
	case lane <- struct{}{}:
		return func() { <-lane }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
