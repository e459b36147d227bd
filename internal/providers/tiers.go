package providers

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrRateLimited signals an upstream 429. Adapters treat it as a distinct
// tier failure so they can choose a cheaper fallback without retrying.
var ErrRateLimited = errors.New("rate limited by upstream")

// ErrNotConfigured signals a tier whose provider has no credentials. It
// fails the tier immediately without a network call.
var ErrNotConfigured = errors.New("provider not configured")

// Tier is one ranked strategy in an adapter's fallback chain.
type Tier[T any] struct {
	Name string
	Run  func(ctx context.Context) (T, error)
}

// RunTiers executes tiers in order until one succeeds and returns its result
// together with the name of the tier that answered. The last tier of every
// chain must be infallible; if it errors anyway, the zero value and the last
// tier's name are returned.
func RunTiers[T any](ctx context.Context, logger *zap.Logger, tiers []Tier[T]) (T, string) {
	var zero T
	name := ""
	for _, tier := range tiers {
		name = tier.Name
		result, err := tier.Run(ctx)
		if err == nil {
			return result, tier.Name
		}
		logger.Warn("fallback tier failed",
			zap.String("tier", tier.Name),
			zap.Error(err),
		)
	}
	return zero, name
}
