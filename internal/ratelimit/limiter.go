package ratelimit

import "context"

// RateLimiter throttles outbound push sends per delivery channel so bulk
// dispatches cannot saturate the external push providers.
type RateLimiter interface {
	Allow(ctx context.Context, channel string) (bool, error)
	Wait(ctx context.Context, channel string) error
}
