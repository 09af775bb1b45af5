package services

import "context"

// persistentContext detaches ctx from cancellation so lock release still runs
// after the caller gives up.
func persistentContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithoutCancel(ctx)
}
