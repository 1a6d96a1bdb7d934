package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/the-ledger/ledger/pkg/utils/clock"
)

func TestClock(t *testing.T) {
	now := time.Now()
	c := func() time.Time {
		return now
	}
	ctx := context.Background()
	ctx = clock.With(ctx, c)
	gt.Equal(t, clock.Now(ctx), now)
}

func TestSince(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	ctx := clock.With(context.Background(), func() time.Time { return now })

	started := now.Add(-90 * time.Second)
	gt.Equal(t, clock.Since(ctx, started), 90*time.Second)
}
