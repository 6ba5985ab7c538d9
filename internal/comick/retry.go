// internal/comick/retry.go
//
// Fixed-delay retry for best-effort catalog calls.
// Notes:
//   - Gives up early when the context ends and returns the last error.

package comick

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Default retry budget for best-effort upstream calls.
const (
	DefaultAttempts   = 3
	DefaultRetryDelay = time.Second
)

// Retry calls fn up to attempts times with a fixed delay in between and
// returns the last error. It stops early when ctx is done.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		log.Debug().Err(err).Int("attempt", i+1).Msg("upstream call failed, retrying")
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}
