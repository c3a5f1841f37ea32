package fetch

import (
	"context"
	"math/rand"
	"time"
)

// Pacer enforces a polite, jittered delay between requests to the pairing
// site. Delays are drawn uniformly from [min, max]. The sleep function is
// injectable so pipeline tests run without wall-clock waits.
type Pacer struct {
	min   time.Duration
	max   time.Duration
	rng   *rand.Rand
	sleep func(ctx context.Context, d time.Duration) error
}

// NewPacer creates a Pacer delaying between min and max per call.
// NewPacer(0, 0) yields a pacer that never waits.
func NewPacer(min, max time.Duration) *Pacer {
	if max < min {
		max = min
	}
	return &Pacer{
		min:   min,
		max:   max,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep: sleepContext,
	}
}

// Wait blocks for one jittered delay, returning early with the context's
// error if it is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	d := p.min
	if span := p.max - p.min; span > 0 {
		d += time.Duration(p.rng.Int63n(int64(span) + 1))
	}
	if d <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
