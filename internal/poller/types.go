// internal/poller/types.go
package poller

import (
	"context"
	"time"
)

// FetchFunc performs one complete cycle for a target.
// It either returns a full value or an error; never a partial value.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// PollResult is what one poll cycle produced.
type PollResult[T any] struct {
	Target string
	At     time.Time

	Value T
	Err   error // non-nil means the cycle failed and Value is the zero value
}
