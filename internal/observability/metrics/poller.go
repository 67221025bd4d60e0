package metrics

import (
	"context"
	"errors"
	"time"
)

type pollFunc = func(ctx context.Context) error

// RecordPollerDuration wraps a poll method so that every run is observed in
// poller_duration_seconds under typ. Runs cut short by shutdown are not
// recorded.
func RecordPollerDuration(typ string, poll pollFunc) pollFunc {
	return func(ctx context.Context) error {
		start := time.Now()
		err := poll(ctx)
		if errors.Is(err, context.Canceled) {
			return err
		}

		pollerDurationHistogram.
			WithLabelValues(typ, outcome(err != nil).String()).
			Observe(time.Since(start).Seconds())

		return err
	}
}
